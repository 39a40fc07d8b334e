package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/novalearn/novalearn-server/internal/models"
	"github.com/novalearn/novalearn-server/pkg/mail"
)

type recordingMailer struct {
	messages []mail.Message
	err      error
}

func (m *recordingMailer) Send(_ context.Context, msg mail.Message) error {
	if m.err != nil {
		return m.err
	}
	m.messages = append(m.messages, msg)
	return nil
}

func TestSignupCreatesPendingAccountAndSendsEmail(t *testing.T) {
	db := openAccountTestDB(t)
	mailer := &recordingMailer{}
	svc := newAccountServiceForTest(t, db, mailer)

	result, err := svc.Signup(context.Background(), models.KindAdmin, SignupInput{
		Email:     "Admin@Example.com",
		Password:  "secret123!",
		FirstName: "Ada",
	})
	require.NoError(t, err)
	require.Empty(t, result.Warning)
	require.Equal(t, models.AccountStatusPending, result.Account.Status)
	require.Equal(t, models.RoleViewer, result.Account.Role)
	require.Equal(t, "admin@example.com", result.Account.Email)
	require.NotEqual(t, "secret123!", result.Account.Password)

	require.Len(t, mailer.messages, 1)
	require.Equal(t, []string{"admin@example.com"}, mailer.messages[0].To)
	require.Contains(t, mailer.messages[0].Body, "/admin/verify-email?token=")
}

func TestSignupTokenTTLPerKind(t *testing.T) {
	db := openAccountTestDB(t)
	mailer := &recordingMailer{}

	current := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return current }

	tokens, err := NewVerificationService(db, WithVerificationClock(clock))
	require.NoError(t, err)
	svc, err := NewAccountService(db, tokens, mailer, nil, WithAccountClock(clock))
	require.NoError(t, err)

	ctx := context.Background()
	_, err = svc.Signup(ctx, models.KindAdmin, SignupInput{Email: "admin@example.com", Password: "pw123456"})
	require.NoError(t, err)
	_, err = svc.Signup(ctx, models.KindFranchise, SignupInput{Email: "owner@example.com", Password: "pw123456"})
	require.NoError(t, err)

	var adminToken, franchiseToken models.VerificationToken
	require.NoError(t, db.Where("kind = ?", models.KindAdmin).First(&adminToken).Error)
	require.NoError(t, db.Where("kind = ?", models.KindFranchise).First(&franchiseToken).Error)

	require.Equal(t, current.Add(24*time.Hour), adminToken.ExpiresAt.UTC())
	require.Equal(t, current.Add(7*24*time.Hour), franchiseToken.ExpiresAt.UTC())
}

func TestSignupRejectsDuplicatePendingOrActive(t *testing.T) {
	db := openAccountTestDB(t)
	svc := newAccountServiceForTest(t, db, &recordingMailer{})

	ctx := context.Background()
	_, err := svc.Signup(ctx, models.KindStaff, SignupInput{Email: "staff@example.com", Password: "pw123456"})
	require.NoError(t, err)

	_, err = svc.Signup(ctx, models.KindStaff, SignupInput{Email: "staff@example.com", Password: "pw123456"})
	require.ErrorIs(t, err, ErrDuplicateEmail)

	// The same email may sign up under a different kind.
	_, err = svc.Signup(ctx, models.KindAdmin, SignupInput{Email: "staff@example.com", Password: "pw123456"})
	require.NoError(t, err)
}

func TestSignupDomainSuffixCheckRunsBeforeStore(t *testing.T) {
	db := openAccountTestDB(t)
	mailer := &recordingMailer{}

	kinds := DefaultKindConfigs()
	for i := range kinds {
		if kinds[i].Kind == models.KindStaff {
			kinds[i].DomainSuffix = "@novalearn.com"
		}
	}

	tokens, err := NewVerificationService(db)
	require.NoError(t, err)
	svc, err := NewAccountService(db, tokens, mailer, kinds)
	require.NoError(t, err)

	_, err = svc.Signup(context.Background(), models.KindStaff, SignupInput{
		Email:    "tutor@gmail.com",
		Password: "pw123456",
	})
	require.ErrorIs(t, err, ErrEmailDomainNotAllowed)

	var count int64
	require.NoError(t, db.Model(&models.Account{}).Count(&count).Error)
	require.Zero(t, count)
	require.Empty(t, mailer.messages)

	_, err = svc.Signup(context.Background(), models.KindStaff, SignupInput{
		Email:    "tutor@novalearn.com",
		Password: "pw123456",
	})
	require.NoError(t, err)
}

func TestSignupMailFailureIsWarningNotError(t *testing.T) {
	db := openAccountTestDB(t)
	mailer := &recordingMailer{err: errors.New("smtp down")}
	svc := newAccountServiceForTest(t, db, mailer)

	result, err := svc.Signup(context.Background(), models.KindFranchise, SignupInput{
		Email:        "owner@example.com",
		Password:     "pw123456",
		BusinessName: "Bright Minds Ltd",
	})
	require.NoError(t, err)
	require.NotEmpty(t, result.Warning)

	// Account and token were still persisted.
	var accounts, tokens int64
	require.NoError(t, db.Model(&models.Account{}).Count(&accounts).Error)
	require.NoError(t, db.Model(&models.VerificationToken{}).Count(&tokens).Error)
	require.Equal(t, int64(1), accounts)
	require.Equal(t, int64(1), tokens)
}

func TestConfirmVerificationActivatesAccount(t *testing.T) {
	db := openAccountTestDB(t)
	mailer := &recordingMailer{}
	svc := newAccountServiceForTest(t, db, mailer)

	ctx := context.Background()
	result, err := svc.Signup(ctx, models.KindAdmin, SignupInput{Email: "admin@example.com", Password: "pw123456"})
	require.NoError(t, err)

	token := tokenFromMessage(t, mailer.messages[0])

	account, err := svc.ConfirmVerification(ctx, token)
	require.NoError(t, err)
	require.Equal(t, result.Account.ID, account.ID)
	require.Equal(t, models.AccountStatusActive, account.Status)
	require.NotNil(t, account.EmailVerifiedAt)

	// A second redemption reports the token as gone.
	_, err = svc.ConfirmVerification(ctx, token)
	require.ErrorIs(t, err, ErrTokenNotFound)
}

func TestResendVerificationFailsWhenMailFails(t *testing.T) {
	db := openAccountTestDB(t)
	mailer := &recordingMailer{}
	svc := newAccountServiceForTest(t, db, mailer)

	ctx := context.Background()
	_, err := svc.Signup(ctx, models.KindStaff, SignupInput{Email: "staff@example.com", Password: "pw123456"})
	require.NoError(t, err)

	mailer.err = errors.New("smtp down")
	err = svc.ResendVerification(ctx, models.KindStaff, "staff@example.com")
	require.Error(t, err)

	mailer.err = nil
	require.NoError(t, svc.ResendVerification(ctx, models.KindStaff, "staff@example.com"))
	require.Len(t, mailer.messages, 2)

	// Resending invalidates the original token.
	first := tokenFromMessage(t, mailer.messages[0])
	_, err = svc.ConfirmVerification(ctx, first)
	require.ErrorIs(t, err, ErrTokenNotFound)
}

func TestResendVerificationUnknownAccount(t *testing.T) {
	db := openAccountTestDB(t)
	svc := newAccountServiceForTest(t, db, &recordingMailer{})

	err := svc.ResendVerification(context.Background(), models.KindStaff, "nobody@example.com")
	require.ErrorIs(t, err, ErrAccountNotFound)
}

func TestAuthenticateRequiresActiveAccount(t *testing.T) {
	db := openAccountTestDB(t)
	mailer := &recordingMailer{}
	svc := newAccountServiceForTest(t, db, mailer)

	ctx := context.Background()
	_, err := svc.Signup(ctx, models.KindAdmin, SignupInput{Email: "admin@example.com", Password: "pw123456"})
	require.NoError(t, err)

	_, err = svc.Authenticate(ctx, models.KindAdmin, "admin@example.com", "pw123456")
	require.ErrorIs(t, err, ErrAccountNotActive)

	_, err = svc.ConfirmVerification(ctx, tokenFromMessage(t, mailer.messages[0]))
	require.NoError(t, err)

	account, err := svc.Authenticate(ctx, models.KindAdmin, "admin@example.com", "pw123456")
	require.NoError(t, err)
	require.Equal(t, "admin@example.com", account.Email)

	_, err = svc.Authenticate(ctx, models.KindAdmin, "admin@example.com", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, models.KindAdmin, "nobody@example.com", "pw123456")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestApproveStaffSetsApprovedFlag(t *testing.T) {
	db := openAccountTestDB(t)
	mailer := &recordingMailer{}
	svc := newAccountServiceForTest(t, db, mailer)

	ctx := context.Background()
	result, err := svc.Signup(ctx, models.KindStaff, SignupInput{
		Email:    "staff@example.com",
		Password: "pw123456",
		Subjects: []string{"maths", "physics"},
	})
	require.NoError(t, err)

	account, err := svc.Approve(ctx, models.KindStaff, result.Account.ID)
	require.NoError(t, err)
	require.Equal(t, models.AccountStatusActive, account.Status)
	require.True(t, account.Approved)
}

func TestRejectAndPromote(t *testing.T) {
	db := openAccountTestDB(t)
	mailer := &recordingMailer{}
	svc := newAccountServiceForTest(t, db, mailer)

	ctx := context.Background()
	result, err := svc.Signup(ctx, models.KindAdmin, SignupInput{Email: "admin@example.com", Password: "pw123456"})
	require.NoError(t, err)

	// Promotion requires an active account.
	_, err = svc.Promote(ctx, result.Account.ID)
	require.ErrorIs(t, err, ErrAccountNotActive)

	_, err = svc.ConfirmVerification(ctx, tokenFromMessage(t, mailer.messages[0]))
	require.NoError(t, err)

	promoted, err := svc.Promote(ctx, result.Account.ID)
	require.NoError(t, err)
	require.Equal(t, models.RoleAdmin, promoted.Role)

	rejected, err := svc.Reject(ctx, models.KindAdmin, result.Account.ID)
	require.NoError(t, err)
	require.Equal(t, models.AccountStatusRejected, rejected.Status)
}

func TestListAndDeleteAccounts(t *testing.T) {
	db := openAccountTestDB(t)
	svc := newAccountServiceForTest(t, db, &recordingMailer{})

	ctx := context.Background()
	result, err := svc.Signup(ctx, models.KindFranchise, SignupInput{Email: "owner@example.com", Password: "pw123456"})
	require.NoError(t, err)

	accounts, err := svc.List(ctx, models.KindFranchise, "")
	require.NoError(t, err)
	require.Len(t, accounts, 1)

	accounts, err = svc.List(ctx, models.KindFranchise, models.AccountStatusActive)
	require.NoError(t, err)
	require.Empty(t, accounts)

	require.NoError(t, svc.Delete(ctx, models.KindFranchise, result.Account.ID))
	require.ErrorIs(t, svc.Delete(ctx, models.KindFranchise, result.Account.ID), ErrAccountNotFound)
}

func TestSignupUnknownKind(t *testing.T) {
	db := openAccountTestDB(t)
	svc := newAccountServiceForTest(t, db, &recordingMailer{})

	_, err := svc.Signup(context.Background(), models.AccountKind("vendor"), SignupInput{
		Email:    "v@example.com",
		Password: "pw123456",
	})
	require.ErrorIs(t, err, ErrUnknownKind)
}

// tokenFromMessage pulls the plaintext token out of a verification email body.
func tokenFromMessage(t *testing.T, msg mail.Message) string {
	t.Helper()

	marker := "token="
	idx := strings.Index(msg.Body, marker)
	require.GreaterOrEqual(t, idx, 0)

	rest := msg.Body[idx+len(marker):]
	end := strings.IndexAny(rest, `"<&`)
	require.Greater(t, end, 0)
	return rest[:end]
}

func newAccountServiceForTest(t *testing.T, db *gorm.DB, mailer mail.Mailer) *AccountService {
	t.Helper()

	tokens, err := NewVerificationService(db)
	require.NoError(t, err)

	svc, err := NewAccountService(db, tokens, mailer, nil, WithBaseURL("https://novalearn.example.com"))
	require.NoError(t, err)
	return svc
}

func openAccountTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Account{},
		&models.VerificationToken{},
	))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	return db
}
