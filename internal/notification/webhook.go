package notification

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"os"
)

// Event is a domain event emitted after a state transition commits. The
// subscriber (email/SMS service) handles delivery; nothing here waits for
// confirmation or holds financial-transaction locks.
type Event struct {
	Type         string `json:"type"`
	InvestmentID string `json:"investmentId,omitempty"`
	CommissionID string `json:"commissionId,omitempty"`
	UserID       uint   `json:"userId,omitempty"`
	Message      string `json:"message,omitempty"`
}

const (
	EventInvestmentApproved = "investment.approved"
	EventInvestmentRejected = "investment.rejected"
	EventCommissionPaid     = "commission.paid"
)

// Emit posts the event to the configured webhook, fire and forget.
func Emit(event Event) {
	url := os.Getenv("NOTIFICATION_WEBHOOK_URL")
	if url == "" {
		return
	}

	go func() {
		body, _ := json.Marshal(event)

		resp, err := http.Post(url, "application/json", bytes.NewBuffer(body))
		if err != nil {
			log.Printf("could not send webhook event %s: %v", event.Type, err)
			return
		}
		defer resp.Body.Close()
	}()
}
