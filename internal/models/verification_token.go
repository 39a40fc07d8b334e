package models

import "time"

// VerificationToken stores single-use email verification tokens for pending
// accounts. Tokens are hashed at rest; rows are deleted on successful
// verification and expired rows are purged by the maintenance job.
type VerificationToken struct {
	BaseModel

	Kind      AccountKind `gorm:"not null;index:idx_tokens_kind_subject" json:"kind"`
	SubjectID string      `gorm:"type:uuid;not null;index:idx_tokens_kind_subject" json:"subject_id"`
	Email     string      `gorm:"not null" json:"email"`
	TokenHash string      `gorm:"not null;uniqueIndex" json:"-"`
	ExpiresAt time.Time   `gorm:"index" json:"expires_at"`
}
