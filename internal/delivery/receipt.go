package delivery

// Status is the normalized delivery state of one sent message unit.
type Status string

const (
	StatusQueued    Status = "queued"
	StatusSent      Status = "sent"
	StatusDelivered Status = "delivered"
	StatusFailed    Status = "failed"
	StatusUnknown   Status = "unknown"
)

// Receipt is the outcome for one (recipient, partition) pair. Recipient is
// stored redacted so receipts are safe to log and return as-is.
type Receipt struct {
	UnitID    string `json:"unit_id,omitempty"`
	Status    Status `json:"status"`
	Attempts  int    `json:"attempts"`
	Recipient string `json:"recipient"`
}

// statusFromProvider maps a Twilio message status onto the receipt enum.
// Anything unrecognized is Unknown, never an error.
func statusFromProvider(s string) Status {
	switch s {
	case "queued", "accepted", "scheduled":
		return StatusQueued
	case "sending", "sent":
		return StatusSent
	case "delivered", "read":
		return StatusDelivered
	case "failed", "undelivered", "canceled":
		return StatusFailed
	default:
		return StatusUnknown
	}
}

// Redact masks a phone number to its last four digits for logs and receipts.
func Redact(number string) string {
	if len(number) < 4 {
		return "xxx-xxx-" + number
	}
	return "xxx-xxx-" + number[len(number)-4:]
}
