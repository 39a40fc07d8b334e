package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/novalearn/novalearn-server/internal/models"
	"github.com/novalearn/novalearn-server/pkg/crypto"
	"github.com/novalearn/novalearn-server/pkg/logger"
	"github.com/novalearn/novalearn-server/pkg/mail"
)

// Default token lifetimes per account kind.
const (
	DefaultAdminTokenTTL     = 24 * time.Hour
	DefaultStaffTokenTTL     = 24 * time.Hour
	DefaultFranchiseTokenTTL = 7 * 24 * time.Hour
)

var (
	// ErrAccountNotFound indicates the requested account does not exist.
	ErrAccountNotFound = errors.New("account service: account not found")
	// ErrDuplicateEmail indicates a pending or active account already holds the email.
	ErrDuplicateEmail = errors.New("account service: email already registered")
	// ErrEmailDomainNotAllowed indicates the email fails the kind's domain allowlist.
	ErrEmailDomainNotAllowed = errors.New("account service: email domain not allowed")
	// ErrInvalidCredentials indicates a failed login attempt.
	ErrInvalidCredentials = errors.New("account service: invalid credentials")
	// ErrAccountNotActive indicates a login attempt against an unverified or
	// deactivated account.
	ErrAccountNotActive = errors.New("account service: account is not active")
	// ErrUnknownKind indicates an account kind with no registered configuration.
	ErrUnknownKind = errors.New("account service: unknown account kind")
)

// KindConfig carries the per-portal settings that distinguish the three
// otherwise identical signup lifecycles.
type KindConfig struct {
	Kind         models.AccountKind
	TokenTTL     time.Duration
	DomainSuffix string // when set, signup emails must end with this suffix
	PortalPath   string // path segment used in verification links
	DefaultRole  string
}

// DefaultKindConfigs returns the standard portal configurations.
func DefaultKindConfigs() []KindConfig {
	return []KindConfig{
		{Kind: models.KindAdmin, TokenTTL: DefaultAdminTokenTTL, PortalPath: "admin", DefaultRole: models.RoleViewer},
		{Kind: models.KindFranchise, TokenTTL: DefaultFranchiseTokenTTL, PortalPath: "franchise", DefaultRole: models.RoleFranchise},
		{Kind: models.KindStaff, TokenTTL: DefaultStaffTokenTTL, PortalPath: "staff", DefaultRole: models.RoleStaff},
	}
}

// AccountOption customises the AccountService.
type AccountOption func(*AccountService)

// WithAccountClock injects a custom time source.
func WithAccountClock(clock func() time.Time) AccountOption {
	return func(s *AccountService) {
		if clock != nil {
			s.now = clock
		}
	}
}

// WithBaseURL sets the public site base URL used in verification links.
func WithBaseURL(url string) AccountOption {
	return func(s *AccountService) {
		s.baseURL = strings.TrimRight(url, "/")
	}
}

// AccountService implements the signup, verification, and approval lifecycle
// for all three portals, parameterized by KindConfig.
type AccountService struct {
	db      *gorm.DB
	tokens  *VerificationService
	mailer  mail.Mailer
	kinds   map[models.AccountKind]KindConfig
	baseURL string
	now     func() time.Time
	log     *zap.Logger
}

// NewAccountService constructs an account service covering the supplied kinds.
func NewAccountService(db *gorm.DB, tokens *VerificationService, mailer mail.Mailer, kinds []KindConfig, opts ...AccountOption) (*AccountService, error) {
	if db == nil {
		return nil, errors.New("account service: db is required")
	}
	if tokens == nil {
		return nil, errors.New("account service: verification service is required")
	}
	if len(kinds) == 0 {
		kinds = DefaultKindConfigs()
	}

	registry := make(map[models.AccountKind]KindConfig, len(kinds))
	for _, kc := range kinds {
		if kc.TokenTTL <= 0 {
			return nil, fmt.Errorf("account service: kind %q needs a positive token ttl", kc.Kind)
		}
		registry[kc.Kind] = kc
	}

	service := &AccountService{
		db:     db,
		tokens: tokens,
		mailer: mailer,
		kinds:  registry,
		now:    time.Now,
		log:    logger.WithModule("accounts"),
	}

	for _, opt := range opts {
		opt(service)
	}

	return service, nil
}

// SignupInput captures the fields accepted at portal signup. Kind-specific
// fields are ignored for the other kinds.
type SignupInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     string

	BusinessName string
	Location     string
	Subjects     []string
}

// SignupResult reports the created pending account plus a warning when the
// verification email could not be delivered. The account and token are
// already persisted at that point; delivery is best effort.
type SignupResult struct {
	Account *models.Account
	Warning string
}

// Signup creates a pending account, issues a verification token, and sends
// the verification email.
func (s *AccountService) Signup(ctx context.Context, kind models.AccountKind, input SignupInput) (*SignupResult, error) {
	kc, ok := s.kinds[kind]
	if !ok {
		return nil, ErrUnknownKind
	}

	email := normalizeEmail(input.Email)
	if kc.DomainSuffix != "" && !strings.HasSuffix(email, strings.ToLower(kc.DomainSuffix)) {
		return nil, ErrEmailDomainNotAllowed
	}

	// Advisory pre-check; the unique index on (kind, email) is the real guard.
	var existing int64
	if err := s.db.WithContext(ctx).Model(&models.Account{}).
		Where("kind = ? AND email = ? AND status IN ?", kind, email,
			[]string{models.AccountStatusPending, models.AccountStatusActive}).
		Count(&existing).Error; err != nil {
		return nil, fmt.Errorf("account service: duplicate check: %w", err)
	}
	if existing > 0 {
		return nil, ErrDuplicateEmail
	}

	hash, err := crypto.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("account service: hash password: %w", err)
	}

	account := models.Account{
		Kind:      kind,
		Email:     email,
		Status:    models.AccountStatusPending,
		Role:      kc.DefaultRole,
		Password:  hash,
		FirstName: strings.TrimSpace(input.FirstName),
		LastName:  strings.TrimSpace(input.LastName),
		Phone:     strings.TrimSpace(input.Phone),
	}

	switch kind {
	case models.KindFranchise:
		account.BusinessName = strings.TrimSpace(input.BusinessName)
		account.Location = strings.TrimSpace(input.Location)
	case models.KindStaff:
		if len(input.Subjects) > 0 {
			raw, err := json.Marshal(input.Subjects)
			if err != nil {
				return nil, fmt.Errorf("account service: encode subjects: %w", err)
			}
			account.Subjects = datatypes.JSON(raw)
		}
	}

	if err := s.db.WithContext(ctx).Create(&account).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("account service: create account: %w", err)
	}

	warning, err := s.issueAndSend(ctx, kc, &account)
	if err != nil {
		return nil, err
	}

	return &SignupResult{Account: &account, Warning: warning}, nil
}

// ConfirmVerification redeems a token and flips the pending account to active.
func (s *AccountService) ConfirmVerification(ctx context.Context, token string) (*models.Account, error) {
	subject, err := s.tokens.Verify(ctx, token)
	if err != nil {
		return nil, err
	}

	account, err := s.Get(ctx, subject.Kind, subject.SubjectID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	updates := map[string]any{
		"status":            models.AccountStatusActive,
		"email_verified_at": now,
	}

	if err := s.db.WithContext(ctx).Model(account).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("account service: activate account: %w", err)
	}

	account.Status = models.AccountStatusActive
	account.EmailVerifiedAt = &now
	return account, nil
}

// ResendVerification issues a fresh token for a pending account and resends
// the verification email. Unlike signup, a delivery failure here is an error;
// resending is the whole point of the call.
func (s *AccountService) ResendVerification(ctx context.Context, kind models.AccountKind, email string) error {
	kc, ok := s.kinds[kind]
	if !ok {
		return ErrUnknownKind
	}

	email = normalizeEmail(email)
	var account models.Account
	if err := s.db.WithContext(ctx).
		Where("kind = ? AND email = ? AND status = ?", kind, email, models.AccountStatusPending).
		First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAccountNotFound
		}
		return fmt.Errorf("account service: find pending account: %w", err)
	}

	token, err := s.tokens.Issue(ctx, kind, account.ID, account.Email, kc.TokenTTL)
	if err != nil {
		return err
	}

	if err := s.sendVerificationEmail(ctx, kc, &account, token); err != nil {
		return err
	}
	return nil
}

// Authenticate validates portal credentials. Only active accounts may log in.
func (s *AccountService) Authenticate(ctx context.Context, kind models.AccountKind, email, password string) (*models.Account, error) {
	if _, ok := s.kinds[kind]; !ok {
		return nil, ErrUnknownKind
	}

	var account models.Account
	if err := s.db.WithContext(ctx).
		Where("kind = ? AND email = ?", kind, normalizeEmail(email)).
		First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("account service: find account: %w", err)
	}

	if !crypto.VerifyPassword(account.Password, password) {
		return nil, ErrInvalidCredentials
	}
	if !account.IsActive() {
		return nil, ErrAccountNotActive
	}

	return &account, nil
}

// Approve marks a staff account as approved, or reinstates a rejected
// account of any kind to active.
func (s *AccountService) Approve(ctx context.Context, kind models.AccountKind, id string) (*models.Account, error) {
	account, err := s.Get(ctx, kind, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{"status": models.AccountStatusActive}
	if kind == models.KindStaff {
		updates["approved"] = true
	}

	if err := s.db.WithContext(ctx).Model(account).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("account service: approve account: %w", err)
	}

	account.Status = models.AccountStatusActive
	if kind == models.KindStaff {
		account.Approved = true
	}
	return account, nil
}

// Reject moves an account to the rejected state.
func (s *AccountService) Reject(ctx context.Context, kind models.AccountKind, id string) (*models.Account, error) {
	account, err := s.Get(ctx, kind, id)
	if err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Model(account).
		Update("status", models.AccountStatusRejected).Error; err != nil {
		return nil, fmt.Errorf("account service: reject account: %w", err)
	}

	account.Status = models.AccountStatusRejected
	return account, nil
}

// Promote elevates a verified admin account to the admin role. Elevation is
// deliberately decoupled from email verification.
func (s *AccountService) Promote(ctx context.Context, id string) (*models.Account, error) {
	account, err := s.Get(ctx, models.KindAdmin, id)
	if err != nil {
		return nil, err
	}
	if !account.IsActive() {
		return nil, ErrAccountNotActive
	}

	if err := s.db.WithContext(ctx).Model(account).
		Update("role", models.RoleAdmin).Error; err != nil {
		return nil, fmt.Errorf("account service: promote account: %w", err)
	}

	account.Role = models.RoleAdmin
	return account, nil
}

// Get loads an account by kind and id.
func (s *AccountService) Get(ctx context.Context, kind models.AccountKind, id string) (*models.Account, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrAccountNotFound
	}

	var account models.Account
	if err := s.db.WithContext(ctx).
		Where("kind = ? AND id = ?", kind, id).
		First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("account service: get account: %w", err)
	}
	return &account, nil
}

// List returns accounts of a kind, optionally filtered by status, newest first.
func (s *AccountService) List(ctx context.Context, kind models.AccountKind, status string) ([]models.Account, error) {
	if _, ok := s.kinds[kind]; !ok {
		return nil, ErrUnknownKind
	}

	q := s.db.WithContext(ctx).Where("kind = ?", kind)
	if status = strings.TrimSpace(status); status != "" {
		q = q.Where("status = ?", status)
	}

	var accounts []models.Account
	if err := q.Order("created_at DESC").Find(&accounts).Error; err != nil {
		return nil, fmt.Errorf("account service: list accounts: %w", err)
	}
	return accounts, nil
}

// Delete removes an account. Hard deletion is a direct admin operation with
// no lifecycle side effects.
func (s *AccountService) Delete(ctx context.Context, kind models.AccountKind, id string) error {
	result := s.db.WithContext(ctx).
		Where("kind = ? AND id = ?", kind, id).
		Delete(&models.Account{})
	if result.Error != nil {
		return fmt.Errorf("account service: delete account: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrAccountNotFound
	}
	return nil
}

// issueAndSend issues a token and attempts delivery. Delivery failures after
// the account and token were persisted are reported as a warning, not an
// error; the signup already happened.
func (s *AccountService) issueAndSend(ctx context.Context, kc KindConfig, account *models.Account) (string, error) {
	token, err := s.tokens.Issue(ctx, kc.Kind, account.ID, account.Email, kc.TokenTTL)
	if err != nil {
		return "", err
	}

	if err := s.sendVerificationEmail(ctx, kc, account, token); err != nil {
		s.log.Warn("verification email failed",
			zap.String("kind", string(kc.Kind)),
			zap.String("account_id", account.ID),
			zap.Error(err),
		)
		return "verification email could not be sent; use resend-verification once email delivery is available", nil
	}

	return "", nil
}

func (s *AccountService) sendVerificationEmail(ctx context.Context, kc KindConfig, account *models.Account, token string) error {
	if s.mailer == nil {
		return mail.ErrSMTPDisabled
	}

	msg := mail.Message{
		To:      []string{account.Email},
		Subject: "Confirm your NovaLearn account",
		Body:    verificationBody(account.FirstName, s.verificationLink(kc, token)),
	}
	return s.mailer.Send(ctx, msg)
}

func (s *AccountService) verificationLink(kc KindConfig, token string) string {
	if s.baseURL == "" {
		return token
	}
	return fmt.Sprintf("%s/%s/verify-email?token=%s", s.baseURL, kc.PortalPath, token)
}

func verificationBody(firstName, link string) string {
	greeting := "Hello"
	if firstName = strings.TrimSpace(firstName); firstName != "" {
		greeting = "Hello " + firstName
	}
	return fmt.Sprintf(
		"<p>%s,</p><p>Welcome to NovaLearn! Please confirm your email address by clicking the link below:</p><p><a href=%q>Verify my email</a></p><p>If you did not create an account, you can ignore this message.</p>",
		greeting, link,
	)
}
