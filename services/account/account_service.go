package account

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/magicesim/storefront/models"
	"github.com/magicesim/storefront/providers/esimstore"
	"github.com/magicesim/storefront/services/monitoring/logging"
)

const (
	DashboardPath = "/dashboard"
	LoginPath     = "/auth/login"

	LoginSucceeded     = "Log In successful!"
	RegisterSucceeded  = "Your account has been created successfully!"
	OTPSent            = "OTP sent successfully"
	OTPVerified        = "OTP verified successfully"
	ResetLinkSent      = "Password reset link sent to your email"
	PasswordChanged    = "Password changed successfully"
	GenericAuthFailure = "An error occurred."
)

// AuthSource is the part of the backend client the auth forms post to.
type AuthSource interface {
	Login(ctx context.Context, rc models.RequestContext, req esimstore.LoginRequest) (*esimstore.AuthResult, error)
	Register(ctx context.Context, rc models.RequestContext, req esimstore.RegisterRequest) (*esimstore.AuthResult, error)
	RequestOTP(ctx context.Context, rc models.RequestContext, req esimstore.OTPRequest) (*esimstore.AuthResult, error)
	VerifyOTP(ctx context.Context, rc models.RequestContext, req esimstore.OTPVerifyRequest) (*esimstore.AuthResult, error)
	RequestPasswordReset(ctx context.Context, rc models.RequestContext, req esimstore.PasswordResetRequest) (*esimstore.AuthResult, error)
	ConfirmPasswordReset(ctx context.Context, rc models.RequestContext, req esimstore.PasswordResetConfirmRequest) (*esimstore.AuthResult, error)
}

type AccountService struct {
	source   AuthSource
	validate *validator.Validate
	logger   *logging.Logger
}

func NewAccountService(source AuthSource, logger *logging.Logger) *AccountService {
	return &AccountService{
		source:   source,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (a *AccountService) check(form interface{}) error {
	if err := a.validate.Struct(form); err != nil {
		return models.NewValidationError(err)
	}
	return nil
}

// outcome maps a backend auth reply. A reply with status false is a
// rejected form even though the HTTP call succeeded.
func (a *AccountService) outcome(res *esimstore.AuthResult, success, redirect string) (Outcome, error) {
	if res == nil {
		return Outcome{Message: success, Redirect: redirect}, nil
	}
	if !res.Status {
		msg := string(res.Message)
		if msg == "" {
			msg = GenericAuthFailure
		}
		return Outcome{Cookies: res.Cookies}, models.NewAPIError(models.ErrorKindValidationFailure, 0, msg)
	}
	msg := string(res.Message)
	if msg == "" {
		msg = success
	}
	return Outcome{
		Message:  msg,
		Redirect: redirect,
		Data:     res.Data,
		Cookies:  res.Cookies,
	}, nil
}

func (a *AccountService) Login(ctx context.Context, rc models.RequestContext, form LoginForm) (Outcome, error) {
	form.Email = normalizeEmail(form.Email)
	if err := a.check(form); err != nil {
		return Outcome{}, err
	}
	res, err := a.source.Login(ctx, rc, esimstore.LoginRequest{Email: form.Email, Password: form.Password})
	if err != nil {
		a.logger.WithError(err).Info("login rejected")
		return Outcome{}, err
	}
	// The backend answers login with its own greeting; the page shows ours.
	out, err := a.outcome(res, LoginSucceeded, DashboardPath)
	if err == nil {
		out.Message = LoginSucceeded
	}
	return out, err
}

// Register mirrors the password into re_password when the form has no
// confirmation field.
func (a *AccountService) Register(ctx context.Context, rc models.RequestContext, form RegisterForm) (Outcome, error) {
	form.Email = normalizeEmail(form.Email)
	if form.RePassword == "" {
		form.RePassword = form.Password
	}
	if err := a.check(form); err != nil {
		return Outcome{}, err
	}
	res, err := a.source.Register(ctx, rc, esimstore.RegisterRequest{
		Email:        form.Email,
		FirstName:    strings.TrimSpace(form.FirstName),
		LastName:     strings.TrimSpace(form.LastName),
		Password:     form.Password,
		RePassword:   form.RePassword,
		ReferralCode: strings.TrimSpace(form.ReferralCode),
	})
	if err != nil {
		return Outcome{}, err
	}
	return a.outcome(res, RegisterSucceeded, "")
}

func (a *AccountService) RequestOTP(ctx context.Context, rc models.RequestContext, form OTPRequestForm) (Outcome, error) {
	form.Email = normalizeEmail(form.Email)
	if err := a.check(form); err != nil {
		return Outcome{}, err
	}
	res, err := a.source.RequestOTP(ctx, rc, esimstore.OTPRequest{Email: form.Email, PhoneNumber: form.PhoneNumber})
	if err != nil {
		return Outcome{}, err
	}
	return a.outcome(res, OTPSent, "")
}

func (a *AccountService) VerifyOTP(ctx context.Context, rc models.RequestContext, form OTPVerifyForm) (Outcome, error) {
	form.Email = normalizeEmail(form.Email)
	form.OTP = strings.TrimSpace(form.OTP)
	if err := a.check(form); err != nil {
		return Outcome{}, err
	}
	res, err := a.source.VerifyOTP(ctx, rc, esimstore.OTPVerifyRequest{Email: form.Email, OTP: form.OTP})
	if err != nil {
		return Outcome{}, err
	}
	return a.outcome(res, OTPVerified, LoginPath)
}

func (a *AccountService) RequestPasswordReset(ctx context.Context, rc models.RequestContext, form PasswordResetForm) (Outcome, error) {
	form.Email = normalizeEmail(form.Email)
	if err := a.check(form); err != nil {
		return Outcome{}, err
	}
	res, err := a.source.RequestPasswordReset(ctx, rc, esimstore.PasswordResetRequest{Email: form.Email})
	if err != nil {
		return Outcome{}, err
	}
	return a.outcome(res, ResetLinkSent, "")
}

func (a *AccountService) ConfirmPasswordReset(ctx context.Context, rc models.RequestContext, form PasswordConfirmForm) (Outcome, error) {
	if form.ReNewPassword == "" {
		form.ReNewPassword = form.NewPassword
	}
	if err := a.check(form); err != nil {
		return Outcome{}, err
	}
	res, err := a.source.ConfirmPasswordReset(ctx, rc, esimstore.PasswordResetConfirmRequest{
		UID:         form.UID,
		Token:       form.Token,
		NewPassword: form.NewPassword,
	})
	if err != nil {
		return Outcome{}, err
	}
	return a.outcome(res, PasswordChanged, LoginPath)
}
