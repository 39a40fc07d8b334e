package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/novalearn/novalearn-server/internal/models"
	"github.com/novalearn/novalearn-server/pkg/crypto"
)

const verificationTokenBytes = 32

var (
	// ErrTokenNotFound indicates the token does not exist or was already consumed.
	ErrTokenNotFound = errors.New("verification: token not found")
	// ErrTokenExpired indicates the verification token has expired.
	ErrTokenExpired = errors.New("verification: token expired")
)

// VerificationOption customises the VerificationService.
type VerificationOption func(*VerificationService)

// WithVerificationClock injects a custom time source.
func WithVerificationClock(clock func() time.Time) VerificationOption {
	return func(s *VerificationService) {
		if clock != nil {
			s.now = clock
		}
	}
}

// VerificationService issues and redeems single-use verification tokens for
// the three account kinds. It never mutates accounts; callers flip account
// status after a successful Verify.
type VerificationService struct {
	db  *gorm.DB
	now func() time.Time
}

// VerifiedSubject is returned by Verify once a token has been consumed.
type VerifiedSubject struct {
	Kind      models.AccountKind
	SubjectID string
	Email     string
}

// NewVerificationService constructs a verification service.
func NewVerificationService(db *gorm.DB, opts ...VerificationOption) (*VerificationService, error) {
	if db == nil {
		return nil, errors.New("verification service: db is required")
	}

	service := &VerificationService{
		db:  db,
		now: time.Now,
	}

	for _, opt := range opts {
		opt(service)
	}

	return service, nil
}

// Issue generates a random token for the subject, replacing any earlier token
// for the same subject and kind. The plaintext token is returned exactly once;
// only its hash is stored.
func (s *VerificationService) Issue(ctx context.Context, kind models.AccountKind, subjectID, email string, ttl time.Duration) (string, error) {
	subjectID = strings.TrimSpace(subjectID)
	email = normalizeEmail(email)
	if subjectID == "" {
		return "", errors.New("verification service: subject id is required")
	}
	if email == "" {
		return "", errors.New("verification service: email is required")
	}
	if ttl <= 0 {
		return "", errors.New("verification service: ttl must be positive")
	}

	token, err := crypto.GenerateToken(verificationTokenBytes)
	if err != nil {
		return "", fmt.Errorf("verification service: generate token: %w", err)
	}

	record := models.VerificationToken{
		Kind:      kind,
		SubjectID: subjectID,
		Email:     email,
		TokenHash: tokenHash(token),
		ExpiresAt: s.now().Add(ttl),
	}

	if err := s.db.WithContext(ctx).
		Where("kind = ? AND subject_id = ?", kind, subjectID).
		Delete(&models.VerificationToken{}).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", fmt.Errorf("verification service: cleanup existing: %w", err)
	}

	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		return "", fmt.Errorf("verification service: create token: %w", err)
	}

	return token, nil
}

// Verify redeems a token. On success the row is deleted, so a repeat call
// with the same token reports ErrTokenNotFound. Expired rows are left in
// place for the maintenance purge and reported as ErrTokenExpired.
func (s *VerificationService) Verify(ctx context.Context, token string) (*VerifiedSubject, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, errors.New("verification service: token is required")
	}

	var record models.VerificationToken
	if err := s.db.WithContext(ctx).
		Where("token_hash = ?", tokenHash(token)).
		First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTokenNotFound
		}
		return nil, fmt.Errorf("verification service: find token: %w", err)
	}

	if record.ExpiresAt.Before(s.now()) {
		return nil, ErrTokenExpired
	}

	if err := s.db.WithContext(ctx).Delete(&record).Error; err != nil {
		return nil, fmt.Errorf("verification service: consume token: %w", err)
	}

	return &VerifiedSubject{
		Kind:      record.Kind,
		SubjectID: record.SubjectID,
		Email:     record.Email,
	}, nil
}

// DeleteExpired removes tokens whose expiry has passed. Used by the
// maintenance job.
func (s *VerificationService) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("expires_at < ?", now).
		Delete(&models.VerificationToken{})
	if result.Error != nil {
		return 0, fmt.Errorf("verification service: delete expired: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func tokenHash(token string) string {
	digest := sha256.Sum256([]byte(token))
	return hex.EncodeToString(digest[:])
}
