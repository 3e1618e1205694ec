package domain

import (
	"time"

	"github.com/google/uuid"
)

// VerificationRun is the audit record of one pipeline execution. Identifiers
// are stored masked; the canonical profile itself is never persisted.
type VerificationRun struct {
	ID             uuid.UUID `db:"id" json:"id"`
	SessionID      string    `db:"session_id" json:"session_id"`
	Tier           Tier      `db:"tier" json:"tier"`
	SubjectName    string    `db:"subject_name" json:"subject_name"`
	MaskedMobile   string    `db:"masked_mobile" json:"masked_mobile,omitempty"`
	MaskedAadhaar  string    `db:"masked_aadhaar" json:"masked_aadhaar,omitempty"`
	MaskedPAN      string    `db:"masked_pan" json:"masked_pan,omitempty"`
	Failure        string    `db:"failure" json:"failure,omitempty"`
	SectionsOK     int       `db:"sections_ok" json:"sections_ok"`
	SectionsFailed int       `db:"sections_failed" json:"sections_failed"`
	DurationMS     int64     `db:"duration_ms" json:"duration_ms"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}
