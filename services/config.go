package services

import (
	"os"
	"strconv"
	"time"
)

// Operational knobs. The defaults match what the platform has always run
// with; override per environment, never at a call site.

func envInt(name string, fallback int) int {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}

// MailBatchSize is how many pending mails one dispatch cycle claims.
func MailBatchSize() int {
	return envInt("MAIL_BATCH_SIZE", 3)
}

// FeedPageSize caps the pending-discussion listing.
func FeedPageSize() int {
	return envInt("FEED_PAGE_SIZE", 50)
}

// MailDispatchInterval is the polling period of the mail dispatcher.
func MailDispatchInterval() time.Duration {
	return time.Duration(envInt("MAIL_DISPATCH_INTERVAL_SECONDS", 60)) * time.Second
}

// senderAddress is the from line of every system-generated mail.
func senderAddress() string {
	if from := os.Getenv("MAIL_FROM_ADDRESS"); from != "" {
		return from
	}
	return "enrollment@krscode.com"
}
