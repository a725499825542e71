package services

import (
	"log"
	"sync"
	"time"

	"github.com/chaitanyaB4u/ferries/models"

	"gorm.io/gorm"
)

// MailSender is the external mail-transport collaborator. The dispatcher
// calls it once per claimed correspondence.
type MailSender interface {
	Send(from string, to, cc, bcc []string, subject, htmlBody string) error
}

// MailDispatcher polls the correspondence outbox on an interval, claims a
// batch and hands each row to the transport. It may run concurrently with
// writers and with other dispatcher instances; the claim step in
// MailService guarantees a row is delivered by at most one of them.
type MailDispatcher struct {
	mails    *MailService
	sender   MailSender
	interval time.Duration
	batch    int

	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

func NewMailDispatcher(db *gorm.DB, sender MailSender, interval time.Duration, batch int) *MailDispatcher {
	if interval <= 0 {
		interval = MailDispatchInterval()
	}
	if batch <= 0 {
		batch = MailBatchSize()
	}
	return &MailDispatcher{
		mails:    NewMailService(db),
		sender:   sender,
		interval: interval,
		batch:    batch,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the polling loop in the background.
func (d *MailDispatcher) Start() {
	go func() {
		defer close(d.done)

		ticker := time.NewTicker(d.interval)
		defer ticker.Stop()

		for {
			select {
			case <-d.stop:
				return
			case <-ticker.C:
				d.DispatchOnce()
			}
		}
	}()
}

// Stop ends the loop and waits for an in-flight cycle to finish.
func (d *MailDispatcher) Stop() {
	d.stopOnce.Do(func() { close(d.stop) })
	<-d.done
}

// DispatchOnce runs a single claim-deliver-report cycle and returns how many
// mails were sent and how many failed.
func (d *MailDispatcher) DispatchOnce() (sent, failed int) {
	mailables, err := d.mails.ClaimSendable(d.batch)
	if err != nil {
		log.Printf("mail dispatcher: claim failed: %v", err)
		return 0, 0
	}

	for _, mailable := range mailables {
		deliveryErr := d.deliver(mailable)
		if deliveryErr != nil {
			failed++
			log.Printf("mail dispatcher: delivery of %s failed: %v", mailable.Correspondence.ID, deliveryErr)
		} else {
			sent++
		}
		if err := d.mails.RecordOutcome(mailable.Correspondence.ID, deliveryErr); err != nil {
			// The row stays marked; operator tooling picks up stuck rows.
			log.Printf("mail dispatcher: outcome of %s not recorded: %v", mailable.Correspondence.ID, err)
		}
	}
	return sent, failed
}

func (d *MailDispatcher) deliver(mailable Mailable) error {
	var to, cc []string
	for _, recipient := range mailable.Recipients {
		switch recipient.Kind {
		case models.RecipientCc:
			cc = append(cc, recipient.ToEmail)
		default:
			to = append(to, recipient.ToEmail)
		}
	}

	corr := mailable.Correspondence
	return d.sender.Send(corr.FromEmail, to, cc, nil, corr.Subject, corr.Content)
}
