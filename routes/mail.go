package routes

import (
	"errors"

	"github.com/chaitanyaB4u/ferries/services"
	"github.com/chaitanyaB4u/ferries/storage"
	"github.com/chaitanyaB4u/ferries/utils"

	"github.com/kataras/iris/v12"
)

// GetSendableMails claims the next batch of pending mails for an external
// sender. Claimed rows move to marked and are never handed out twice.
func GetSendableMails(ctx iris.Context) {
	limit := ctx.URLParamIntDefault("limit", services.MailBatchSize())

	mails := services.NewMailService(storage.DB)
	batch, err := mails.ClaimSendable(limit)
	if err != nil {
		respondServiceError(err, ctx)
		return
	}

	ctx.JSON(iris.Map{"mails": batch})
}

// ReportMailOutcome records the delivery result for a claimed mail
func ReportMailOutcome(ctx iris.Context) {
	id := ctx.Params().Get("id")

	var input struct {
		Delivered bool   `json:"delivered"`
		Reason    string `json:"reason" validate:"max=512"`
	}

	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var deliveryErr error
	if !input.Delivered {
		reason := input.Reason
		if reason == "" {
			reason = "delivery failed"
		}
		deliveryErr = errors.New(reason)
	}

	mails := services.NewMailService(storage.DB)
	if err := mails.RecordOutcome(id, deliveryErr); err != nil {
		respondServiceError(err, ctx)
		return
	}

	ctx.JSON(iris.Map{"id": id, "delivered": input.Delivered})
}
