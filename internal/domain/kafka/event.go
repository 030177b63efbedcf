package kafka

import "time"

// ResultEvent is the wire form of one finished check.
type ResultEvent struct {
	ID             string     `json:"id"`
	Host           string     `json:"host"`
	Port           int        `json:"port"`
	Severity       string     `json:"severity"`
	ExitCode       int        `json:"exit_code"`
	Outcome        string     `json:"outcome"`
	HoursRemaining *int64     `json:"hours_remaining,omitempty"`
	NotAfter       *time.Time `json:"not_after,omitempty"`
	Subject        string     `json:"subject,omitempty"`
	Issuer         string     `json:"issuer,omitempty"`
	SerialNumber   string     `json:"serial_number,omitempty"`
	Message        string     `json:"message"`
	CheckedAt      time.Time  `json:"checked_at"`
}
