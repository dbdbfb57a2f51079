// Package services provides application-level orchestration services
package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rewater/rewater-go/internal/domain/account"
	"github.com/rewater/rewater-go/internal/domain/session"
	"github.com/rewater/rewater-go/internal/infrastructure/observability/logging"
	"github.com/rewater/rewater-go/internal/infrastructure/observability/performance"
	"github.com/rewater/rewater-go/internal/infrastructure/security"
	"golang.org/x/crypto/bcrypt"
)

// Messages shown on the login and registration forms.
const (
	MsgLoginMissing       = "Please enter both username and password."
	MsgInvalidCredentials = "Invalid username or password."
	MsgAccountDisabled    = "Your account is disabled. Contact support."
	MsgServerError        = "Server error. Try again later."
	MsgFillAllFields      = "Please fill all fields."
	MsgPasswordMismatch   = "Passwords do not match."
	MsgPasswordTooShort   = "Password must be at least 6 characters."
	MsgAccountExists      = "An account already exists with this email or phone."
)

// ErrStorage marks failures of the credential store.
var ErrStorage = errors.New("credential store failure")

// FormError carries the message to show on a re-rendered form.
type FormError struct {
	Message string
	Err     error
}

func (e *FormError) Error() string { return e.Message }
func (e *FormError) Unwrap() error { return e.Err }

func formError(message string, err error) *FormError {
	return &FormError{Message: message, Err: err}
}

// SessionStore is the subset of the session store the auth service needs.
type SessionStore interface {
	Create(userID, fullName string) *session.Session
	Touch(id string) (*session.Session, bool)
	Delete(id string)
}

// RegisterInput holds the registration form fields.
type RegisterInput struct {
	FullName        string `validate:"required"`
	EmailPhone      string `validate:"required"`
	Password        string `validate:"required"`
	ConfirmPassword string `validate:"eqfield=Password"`
}

// passwordRules is checked only after the required and match checks pass.
type passwordRules struct {
	Password string `validate:"min=6"`
}

// AuthResult is a successfully established session and its signed cookie
// value.
type AuthResult struct {
	Session *session.Session
	Token   string
}

// AuthService handles login, registration and session resolution.
type AuthService struct {
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
	accounts    account.Repository
	sessions    SessionStore
	validate    *validator.Validate
	secret      string
	ttl         time.Duration
	bcryptCost  int
}

// NewAuthService creates a new authentication service
func NewAuthService(logger *logging.ChanneledLogger, perfTracker *performance.Tracker, accounts account.Repository, sessions SessionStore, secret string, ttl time.Duration) *AuthService {
	return &AuthService{
		logger:      logger,
		perfTracker: perfTracker,
		accounts:    accounts,
		sessions:    sessions,
		validate:    validator.New(),
		secret:      secret,
		ttl:         ttl,
		bcryptCost:  bcrypt.DefaultCost,
	}
}

// SetBcryptCost overrides the hashing cost.
func (a *AuthService) SetBcryptCost(cost int) {
	a.bcryptCost = cost
}

// Login verifies username (email or phone) and password and opens a session.
func (a *AuthService) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	marker := a.perfTracker.StartOperation("auth_login")
	defer marker.Complete()

	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		marker.SetError(account.ErrValidation)
		return nil, formError(MsgLoginMissing, account.ErrValidation)
	}

	acct, err := a.accounts.FindByLogin(ctx, username)
	if err != nil {
		marker.SetError(err)
		a.logger.Auth().Error("Credential lookup failed", "error", err)
		return nil, formError(MsgServerError, errors.Join(ErrStorage, err))
	}

	if acct == nil || bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(password)) != nil {
		marker.SetError(account.ErrInvalidCredentials)
		a.logger.LogAuthOperation("login", "", false, map[string]any{"reason": "invalid_credentials"})
		return nil, formError(MsgInvalidCredentials, account.ErrInvalidCredentials)
	}

	if !acct.IsActive {
		marker.SetError(account.ErrAccountDisabled)
		a.logger.LogAuthOperation("login", acct.ID, false, map[string]any{"reason": "disabled"})
		return nil, formError(MsgAccountDisabled, account.ErrAccountDisabled)
	}

	result, err := a.openSession(acct)
	if err != nil {
		marker.SetError(err)
		return nil, formError(MsgServerError, err)
	}

	a.logger.LogAuthOperation("login", acct.ID, true, nil)
	return result, nil
}

// Register validates the form, stores a new customer account and opens a
// session for it. The identifier becomes the email when it parses as one and
// the phone otherwise.
func (a *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	marker := a.perfTracker.StartOperation("auth_register")
	defer marker.Complete()

	in.FullName = strings.TrimSpace(in.FullName)
	in.EmailPhone = strings.TrimSpace(in.EmailPhone)

	if msg := a.validateRegistration(in); msg != "" {
		marker.SetError(account.ErrValidation)
		return nil, formError(msg, account.ErrValidation)
	}

	identifier := in.EmailPhone
	exists, err := a.accounts.ExistsByLogin(ctx, &identifier, &identifier)
	if err != nil {
		marker.SetError(err)
		a.logger.Auth().Error("Duplicate check failed", "error", err)
		return nil, formError(MsgServerError, errors.Join(ErrStorage, err))
	}
	if exists {
		marker.SetError(account.ErrAccountExists)
		a.logger.LogAuthOperation("register", "", false, map[string]any{"reason": "exists"})
		return nil, formError(MsgAccountExists, account.ErrAccountExists)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), a.bcryptCost)
	if err != nil {
		marker.SetError(err)
		a.logger.Auth().Error("Password hashing failed", "error", err)
		return nil, formError(MsgServerError, err)
	}

	acct := &account.Account{
		ID:           security.GenerateULID(),
		FullName:     in.FullName,
		PasswordHash: string(hash),
		Role:         account.RoleCustomer,
		IsActive:     true,
		CreatedAt:    time.Now(),
	}
	if a.validate.Var(identifier, "email") == nil {
		acct.Email = &identifier
	} else {
		acct.Phone = &identifier
	}

	if err := a.accounts.Store(ctx, acct); err != nil {
		marker.SetError(err)
		if errors.Is(err, account.ErrAccountExists) {
			return nil, formError(MsgAccountExists, err)
		}
		a.logger.Auth().Error("Failed to store new account", "error", err, "accountId", acct.ID)
		return nil, formError(MsgServerError, errors.Join(ErrStorage, err))
	}

	result, err := a.openSession(acct)
	if err != nil {
		marker.SetError(err)
		return nil, formError(MsgServerError, err)
	}

	a.logger.LogAuthOperation("register", acct.ID, true, map[string]any{"byEmail": acct.Email != nil})
	return result, nil
}

// Authenticate resolves a cookie value to a live session that passes the
// gate. Any failure yields session.ErrUnauthenticated.
func (a *AuthService) Authenticate(token string) (*session.Session, error) {
	if token == "" {
		return nil, session.ErrUnauthenticated
	}
	sid, err := security.SessionIDFromToken(token, a.secret)
	if err != nil {
		return nil, session.ErrUnauthenticated
	}
	s, ok := a.sessions.Touch(sid)
	if !ok {
		return nil, session.ErrUnauthenticated
	}
	if err := session.Gate(s); err != nil {
		return nil, err
	}
	return s, nil
}

// IssueToken signs a fresh cookie value for an existing session, restarting
// the token's expiry.
func (a *AuthService) IssueToken(s *session.Session) (string, error) {
	if err := session.Gate(s); err != nil {
		return "", err
	}
	return security.GenerateSessionToken(s.ID, a.secret, a.ttl)
}

// Logout drops the session referenced by token, if any.
func (a *AuthService) Logout(token string) {
	sid, err := security.SessionIDFromToken(token, a.secret)
	if err != nil {
		return
	}
	a.sessions.Delete(sid)
	a.logger.LogAuthOperation("logout", sid, true, nil)
}

// TTL is the session lifetime used for cookies.
func (a *AuthService) TTL() time.Duration {
	return a.ttl
}

func (a *AuthService) openSession(acct *account.Account) (*AuthResult, error) {
	s := a.sessions.Create(acct.ID, acct.FullName)
	token, err := a.IssueToken(s)
	if err != nil {
		a.sessions.Delete(s.ID)
		a.logger.Auth().Error("Failed to sign session token", "error", err)
		return nil, err
	}
	return &AuthResult{Session: s, Token: token}, nil
}

func (a *AuthService) validateRegistration(in RegisterInput) string {
	err := a.validate.Struct(in)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			if fe.Tag() == "required" {
				return MsgFillAllFields
			}
		}
		return MsgPasswordMismatch
	}
	if err != nil {
		return MsgServerError
	}

	if a.validate.Struct(passwordRules{Password: in.Password}) != nil {
		return MsgPasswordTooShort
	}
	return ""
}
