package utils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"
)

const defaultSendGridURL = "https://api.sendgrid.com/v3/mail/send"

// SendGridMailer delivers mail through the SendGrid v3 API. It satisfies the
// MailSender interface the dispatcher consumes.
type SendGridMailer struct {
	client *http.Client
	apiKey string
	url    string
}

func NewSendGridMailer() *SendGridMailer {
	url := os.Getenv("SENDGRID_URL")
	if url == "" {
		url = defaultSendGridURL
	}
	return &SendGridMailer{
		client: &http.Client{Timeout: 15 * time.Second},
		apiKey: os.Getenv("SENDGRID_API_KEY"),
		url:    url,
	}
}

type sgAddress struct {
	Email string `json:"email"`
}

type sgPersonalization struct {
	To  []sgAddress `json:"to,omitempty"`
	Cc  []sgAddress `json:"cc,omitempty"`
	Bcc []sgAddress `json:"bcc,omitempty"`
}

type sgContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type sgMail struct {
	From             sgAddress           `json:"from"`
	Personalizations []sgPersonalization `json:"personalizations"`
	Subject          string              `json:"subject"`
	Content          []sgContent         `json:"content"`
}

func asAddresses(emails []string) []sgAddress {
	if len(emails) == 0 {
		return nil
	}
	result := make([]sgAddress, 0, len(emails))
	for _, email := range emails {
		result = append(result, sgAddress{Email: email})
	}
	return result
}

func (m *SendGridMailer) Send(from string, to, cc, bcc []string, subject, htmlBody string) error {
	mail := sgMail{
		From: sgAddress{Email: from},
		Personalizations: []sgPersonalization{{
			To:  asAddresses(to),
			Cc:  asAddresses(cc),
			Bcc: asAddresses(bcc),
		}},
		Subject: subject,
		Content: []sgContent{{Type: "text/html", Value: htmlBody}},
	}

	payload, err := json.Marshal(mail)
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, m.url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+m.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid responded with status %d", resp.StatusCode)
	}
	return nil
}
