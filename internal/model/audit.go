package model

import "time"

// Generation outcomes recorded in the audit log.
const (
	OutcomeSuccess = "success"
	OutcomeFailed  = "failed"
)

// GenerationAudit is operator-facing metadata about one generation attempt.
// It deliberately carries no name, disability, or letter text.
type GenerationAudit struct {
	ID         string    `json:"id"`
	RequestID  string    `json:"request_id"`
	Provider   string    `json:"provider"`
	Model      string    `json:"model"`
	Strategy   string    `json:"strategy"`
	ItemCount  int       `json:"item_count"`
	Degraded   bool      `json:"degraded"`
	Outcome    string    `json:"outcome"`
	ErrorKind  string    `json:"error_kind,omitempty"`
	DurationMS int64     `json:"duration_ms"`
	CreatedAt  time.Time `json:"created_at"`
}
