package services

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/chaitanyaB4u/ferries/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MailService is the outbox writer and claim side of the mail channel.
// Writers stage Correspondence rows inside the business transaction that
// caused them; the dispatcher claims pending rows and reports outcomes.
type MailService struct {
	db *gorm.DB
}

func NewMailService(db *gorm.DB) *MailService {
	return &MailService{db: db}
}

// Mailable is one claimed correspondence with its recipient lines, ready to
// hand to the mail transport.
type Mailable struct {
	Correspondence models.Correspondence  `json:"correspondence"`
	Recipients     []models.MailRecipient `json:"recipients"`
}

// EnqueueEnrollmentMail stages a coach-initiated invite with a custom
// subject and message. Runs inside the caller's transaction.
func (s *MailService) EnqueueEnrollmentMail(tx *gorm.DB, enrollment *models.Enrollment, member, coach *models.User, subject, message string) error {
	corr := models.Correspondence{
		ID:           uuid.NewString(),
		FromUserID:   coach.ID,
		ProgramID:    enrollment.ProgramID,
		EnrollmentID: enrollment.ID,
		FromEmail:    senderAddress(),
		Subject:      subject,
		Content:      message,
		Direction:    models.DirectionOut,
		Status:       models.MailStatusPending,
		ToSendOn:     time.Now().UTC(),
		MailType:     models.MailTypeNormal,
	}
	if err := tx.Create(&corr).Error; err != nil {
		return err
	}

	return tx.Create(recipientPair(corr.ID, member, coach)).Error
}

// EnqueueEventMail stages the system-generated invite (method REQUEST) or
// cancellation (method CANCEL) for a session. Runs inside the caller's
// transaction.
func (s *MailService) EnqueueEventMail(tx *gorm.DB, session *models.Session, member, coach *models.User, method string) error {
	sequence := models.SequenceInvite
	calendarStatus := models.CalendarConfirmed
	if method == models.MethodCancel {
		sequence = models.SequenceCancel
		calendarStatus = models.CalendarCancelled
	}

	payload := models.CalendarPayload{
		ID:          fmt.Sprintf("session-%d", session.ID),
		Sequence:    sequence,
		Organizer:   coach.Email,
		Attendee:    member.Email,
		Description: session.Description,
		StartDate:   session.EffectiveStart(),
		EndDate:     session.EffectiveEnd(),
		Status:      calendarStatus,
		Method:      method,
	}

	// A notification format error must never block the business write;
	// degrade to an empty body instead.
	content := ""
	if raw, err := json.Marshal(payload); err == nil {
		content = string(raw)
	}

	corr := models.Correspondence{
		ID:           uuid.NewString(),
		FromUserID:   coach.ID,
		ProgramID:    session.ProgramID,
		EnrollmentID: session.EnrollmentID,
		FromEmail:    senderAddress(),
		Subject:      session.Name,
		Content:      content,
		Direction:    models.DirectionOut,
		Status:       models.MailStatusPending,
		ToSendOn:     time.Now().UTC(),
		MailType:     models.MailTypeEvent,
	}
	if err := tx.Create(&corr).Error; err != nil {
		return err
	}

	return tx.Create(recipientPair(corr.ID, member, coach)).Error
}

func recipientPair(correspondenceID string, member, coach *models.User) []models.MailRecipient {
	memberID := member.ID
	coachID := coach.ID
	return []models.MailRecipient{
		{
			ID:               uuid.NewString(),
			CorrespondenceID: correspondenceID,
			ToUserID:         &memberID,
			ToEmail:          member.Email,
			Kind:             models.RecipientTo,
		},
		{
			ID:               uuid.NewString(),
			CorrespondenceID: correspondenceID,
			ToUserID:         &coachID,
			ToEmail:          coach.Email,
			Kind:             models.RecipientCc,
		},
	}
}

// ClaimSendable claims up to limit of the oldest pending outbound rows by
// flipping status pending -> marked. The flip is an atomic compare-and-set
// per row, so two dispatchers polling concurrently never share a row; a row
// lost to the other claimer is simply skipped.
func (s *MailService) ClaimSendable(limit int) ([]Mailable, error) {
	if limit <= 0 {
		limit = MailBatchSize()
	}

	var claimed []models.Correspondence
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var candidates []models.Correspondence
		if err := tx.
			Where("status = ? AND direction = ?", models.MailStatusPending, models.DirectionOut).
			Order("to_send_on asc").
			Limit(limit).
			Find(&candidates).Error; err != nil {
			return err
		}

		for _, candidate := range candidates {
			result := tx.Model(&models.Correspondence{}).
				Where("id = ? AND status = ?", candidate.ID, models.MailStatusPending).
				Update("status", models.MailStatusMarked)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 1 {
				candidate.Status = models.MailStatusMarked
				claimed = append(claimed, candidate)
			}
		}
		return nil
	})
	if err != nil {
		return nil, persistence(err)
	}

	mailables := make([]Mailable, 0, len(claimed))
	for i := range claimed {
		var recipients []models.MailRecipient
		if err := s.db.Where("correspondence_id = ?", claimed[i].ID).Find(&recipients).Error; err != nil {
			return nil, persistence(err)
		}
		mailables = append(mailables, Mailable{Correspondence: claimed[i], Recipients: recipients})
	}
	return mailables, nil
}

// RecordOutcome resolves a claimed row to its terminal status: sent on
// success, failed with the reason otherwise. Delivery failures live only on
// the row; they are never surfaced to the business action that enqueued it.
func (s *MailService) RecordOutcome(correspondenceID string, deliveryErr error) error {
	updates := map[string]interface{}{}
	if deliveryErr == nil {
		now := time.Now().UTC()
		updates["status"] = models.MailStatusSent
		updates["sent_at"] = &now
	} else {
		reason := deliveryErr.Error()
		if len(reason) > 512 {
			reason = reason[:512]
		}
		updates["status"] = models.MailStatusFailed
		updates["error_reason"] = reason
	}

	result := s.db.Model(&models.Correspondence{}).
		Where("id = ? AND status = ?", correspondenceID, models.MailStatusMarked).
		Updates(updates)
	if result.Error != nil {
		return persistence(result.Error)
	}
	if result.RowsAffected == 0 {
		return notFound("claimed correspondence")
	}
	return nil
}
