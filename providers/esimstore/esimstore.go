// Package esimstore is the client for the eSIM storefront REST backend.
package esimstore

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/magicesim/storefront/models"
	"github.com/magicesim/storefront/providers"
	"github.com/magicesim/storefront/services/monitoring/logging"
	"github.com/magicesim/storefront/utils"
	"github.com/sirupsen/logrus"
)

const (
	plansPath          = "/api/esim/plans/"
	unlimitedPlanPath  = "/api/esim/plan/esimgo/"
	userPlansPath      = "/api/esim/user/plans/"
	profilePath        = "/api/esim/profile/"
	paymentsPath       = "/api/payments/"
	paymentStatusPath  = "/api/payments/status/%s/"
	loginPath          = "/api/auth/login/"
	registerPath       = "/api/auth/register/"
	otpRequestPath     = "/api/auth/otp/request/"
	otpVerifyPath      = "/api/auth/otp/verify/"
	passwordResetPath  = "/api/auth/password/reset/"
	passwordVerifyPath = "/api/auth/password/reset/confirm/"

	maxBodySize = 4 << 20
)

// RetryPolicy applies to idempotent GETs only.
type RetryPolicy struct {
	Attempts  int
	BaseDelay time.Duration
}

func (r RetryPolicy) delay(attempt int) time.Duration {
	return r.BaseDelay * time.Duration(1<<uint(attempt))
}

type ESIMStoreProvider struct {
	providers.BaseProvider
	timeout time.Duration
	retry   RetryPolicy
}

func NewESIMStoreProvider(c *utils.Config, logger *logging.Logger) *ESIMStoreProvider {
	return &ESIMStoreProvider{
		BaseProvider: providers.BaseProvider{
			Name:    providers.ESIMStore,
			BaseURL: strings.TrimRight(c.BackendBaseURL, "/"),
			Client:  &http.Client{},
			Logger:  logger,
		},
		timeout: c.RequestTimeout,
		retry: RetryPolicy{
			Attempts:  c.RetryAttempts,
			BaseDelay: c.RetryBaseDelay,
		},
	}
}

// FromRegistry fetches the backend provider registered on the service.
func FromRegistry(p *providers.ProviderService) (*ESIMStoreProvider, error) {
	provider, exists := p.GetProvider(providers.ESIMStore)
	if !exists {
		return nil, fmt.Errorf("provider %s is not registered", providers.ESIMStore)
	}
	store, ok := provider.(*ESIMStoreProvider)
	if !ok {
		return nil, fmt.Errorf("failed to instantiate provider %s", providers.ESIMStore)
	}
	return store, nil
}

func (p *ESIMStoreProvider) headers(rc models.RequestContext, method string) map[string]string {
	h := map[string]string{
		"Cookie":           rc.CookieHeader(),
		"Authorization":    rc.Authorization,
		"X-Correlation-ID": rc.CorrelationID,
	}
	if method != http.MethodGet && method != http.MethodHead {
		h["X-CSRFToken"] = rc.CSRFToken
		h["Referer"] = p.BaseURL + "/"
	}
	return h
}

type result struct {
	statusCode int
	body       []byte
	cookies    []*http.Cookie
}

// do sends one logical request. GETs are retried with exponential backoff on
// transport failures and 5xx responses; every attempt has its own timeout.
func (p *ESIMStoreProvider) do(ctx context.Context, rc models.RequestContext, method, path string, query url.Values, body interface{}) (*result, error) {
	target := p.BaseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	attempts := 1
	if method == http.MethodGet && p.retry.Attempts > 1 {
		attempts = p.retry.Attempts
	}

	var lastErr *models.APIError
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, networkError(ctx.Err())
			case <-time.After(p.retry.delay(attempt - 1)):
			}
		}

		res, err := p.attempt(ctx, rc, method, target, body)
		if err != nil {
			lastErr = networkError(err)
			p.logRetry(method, target, attempt, err)
			continue
		}
		if res.statusCode >= http.StatusInternalServerError {
			lastErr = NormalizeError(res.statusCode, res.body)
			p.logRetry(method, target, attempt, lastErr)
			continue
		}
		if res.statusCode >= http.StatusBadRequest {
			return nil, NormalizeError(res.statusCode, res.body)
		}
		return res, nil
	}
	return nil, lastErr
}

func (p *ESIMStoreProvider) attempt(ctx context.Context, rc models.RequestContext, method, target string, body interface{}) (*result, error) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	resp, err := p.MakeRequest(ctx, method, target, body, p.headers(rc, method))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, err
	}
	return &result{
		statusCode: resp.StatusCode,
		body:       respBody,
		cookies:    resp.Cookies(),
	}, nil
}

func (p *ESIMStoreProvider) logRetry(method, target string, attempt int, err error) {
	if p.Logger == nil {
		return
	}
	p.Logger.WithFields(logrus.Fields{
		"method":  method,
		"url":     target,
		"attempt": attempt + 1,
	}).Warn(fmt.Sprintf("backend request failed: %v", err))
}

func decode[T any](res *result) (T, error) {
	var out T
	if err := json.Unmarshal(res.body, &out); err != nil {
		return out, decodeError(err)
	}
	return out, nil
}

// decodeEnvelope unwraps {status, message, data}; status=false is a
// rejection carrying the server message.
func decodeEnvelope[T any](res *result) (T, string, error) {
	env, err := decode[Envelope[T]](res)
	if err != nil {
		var zero T
		return zero, "", err
	}
	if !env.Status {
		return env.Data, string(env.Message), models.NewAPIError(models.ErrorKindValidationFailure, res.statusCode, string(env.Message))
	}
	return env.Data, string(env.Message), nil
}

// Catalog

func (p *ESIMStoreProvider) ListPlans(ctx context.Context, rc models.RequestContext, q PlanQuery) (*CatalogData, error) {
	query := url.Values{}
	if q.LocationCode != "" {
		query.Set("locationCode", q.LocationCode)
	}
	if q.PackageCode != "" {
		query.Set("packageCode", q.PackageCode)
	}
	if q.Type != "" {
		query.Set("type", q.Type)
	}

	res, err := p.do(ctx, rc, http.MethodGet, plansPath, query, nil)
	if err != nil {
		return nil, err
	}
	data, msg, err := decodeEnvelope[*CatalogData](res)
	if err != nil {
		if models.KindOf(err) == models.ErrorKindValidationFailure {
			return nil, models.NewAPIError(models.ErrorKindEmptyCatalog, res.statusCode, msg)
		}
		return nil, err
	}
	if data == nil {
		return nil, models.NewAPIError(models.ErrorKindEmptyCatalog, res.statusCode, msg)
	}
	return data, nil
}

func (p *ESIMStoreProvider) GetUnlimitedPlan(ctx context.Context, rc models.RequestContext, name string) (*UnlimitedPlan, error) {
	res, err := p.do(ctx, rc, http.MethodGet, unlimitedPlanPath, url.Values{"name": {name}}, nil)
	if err != nil {
		return nil, err
	}
	plan, msg, err := decodeEnvelope[*UnlimitedPlan](res)
	if err != nil {
		if models.KindOf(err) == models.ErrorKindValidationFailure {
			return nil, models.NewAPIError(models.ErrorKindEmptyCatalog, res.statusCode, msg)
		}
		return nil, err
	}
	if plan == nil {
		return nil, models.NewAPIError(models.ErrorKindEmptyCatalog, res.statusCode, msg)
	}
	return plan, nil
}

func (p *ESIMStoreProvider) ListUserPlans(ctx context.Context, rc models.RequestContext) ([]UserPlan, error) {
	res, err := p.do(ctx, rc, http.MethodGet, userPlansPath, nil, nil)
	if err != nil {
		return nil, err
	}
	return decodeList[UserPlan](res)
}

func (p *ESIMStoreProvider) GetProfile(ctx context.Context, rc models.RequestContext, iccid string) (*Profile, error) {
	var query url.Values
	if iccid != "" {
		query = url.Values{"iccid": {iccid}}
	}
	res, err := p.do(ctx, rc, http.MethodGet, profilePath, query, nil)
	if err != nil {
		return nil, err
	}
	profile, _, err := decodeEnvelope[*Profile](res)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		profile = &Profile{}
	}
	return profile, nil
}

// decodeList accepts both a bare JSON list and an enveloped one.
func decodeList[T any](res *result) ([]T, error) {
	trimmed := strings.TrimSpace(string(res.body))
	if strings.HasPrefix(trimmed, "[") {
		return decode[[]T](res)
	}
	items, _, err := decodeEnvelope[[]T](res)
	return items, err
}

// Payments

func (p *ESIMStoreProvider) CreatePayment(ctx context.Context, rc models.RequestContext, req CreatePaymentRequest) (*CreatePaymentResponse, error) {
	res, err := p.do(ctx, rc, http.MethodPost, paymentsPath, nil, req)
	if err != nil {
		return nil, err
	}
	out, err := decode[CreatePaymentResponse](res)
	if err != nil {
		return nil, err
	}
	if !out.Status {
		return nil, models.NewAPIError(models.ErrorKindValidationFailure, res.statusCode, string(out.Message))
	}
	return &out, nil
}

func (p *ESIMStoreProvider) ListPayments(ctx context.Context, rc models.RequestContext) ([]Payment, error) {
	res, err := p.do(ctx, rc, http.MethodGet, paymentsPath, nil, nil)
	if err != nil {
		return nil, err
	}
	return decodeList[Payment](res)
}

func (p *ESIMStoreProvider) CheckPaymentStatus(ctx context.Context, rc models.RequestContext, refID string) (*PaymentStatus, string, error) {
	res, err := p.do(ctx, rc, http.MethodGet, fmt.Sprintf(paymentStatusPath, url.PathEscape(refID)), nil, nil)
	if err != nil {
		return nil, "", err
	}
	status, msg, err := decodeEnvelope[PaymentStatus](res)
	if err != nil {
		return nil, msg, err
	}
	return &status, msg, nil
}

// Auth

func (p *ESIMStoreProvider) auth(ctx context.Context, rc models.RequestContext, path string, body interface{}) (*AuthResult, error) {
	res, err := p.do(ctx, rc, http.MethodPost, path, nil, body)
	if err != nil {
		return nil, err
	}
	out := &AuthResult{Status: true}
	if len(strings.TrimSpace(string(res.body))) > 0 {
		// Login replies with tokens and no status flag, so Status stays true
		if err := json.Unmarshal(res.body, out); err != nil {
			return nil, decodeError(err)
		}
	}
	if !out.Status {
		return nil, models.NewAPIError(models.ErrorKindValidationFailure, res.statusCode, string(out.Message))
	}
	out.Cookies = res.cookies
	return out, nil
}

func (p *ESIMStoreProvider) Login(ctx context.Context, rc models.RequestContext, req LoginRequest) (*AuthResult, error) {
	return p.auth(ctx, rc, loginPath, req)
}

func (p *ESIMStoreProvider) Register(ctx context.Context, rc models.RequestContext, req RegisterRequest) (*AuthResult, error) {
	return p.auth(ctx, rc, registerPath, req)
}

func (p *ESIMStoreProvider) RequestOTP(ctx context.Context, rc models.RequestContext, req OTPRequest) (*AuthResult, error) {
	return p.auth(ctx, rc, otpRequestPath, req)
}

func (p *ESIMStoreProvider) VerifyOTP(ctx context.Context, rc models.RequestContext, req OTPVerifyRequest) (*AuthResult, error) {
	return p.auth(ctx, rc, otpVerifyPath, req)
}

func (p *ESIMStoreProvider) RequestPasswordReset(ctx context.Context, rc models.RequestContext, req PasswordResetRequest) (*AuthResult, error) {
	return p.auth(ctx, rc, passwordResetPath, req)
}

func (p *ESIMStoreProvider) ConfirmPasswordReset(ctx context.Context, rc models.RequestContext, req PasswordResetConfirmRequest) (*AuthResult, error) {
	return p.auth(ctx, rc, passwordVerifyPath, req)
}
