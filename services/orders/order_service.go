package orders

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/magicesim/storefront/models"
	"github.com/magicesim/storefront/providers/esimstore"
	"github.com/magicesim/storefront/services/format"
	"github.com/magicesim/storefront/services/monitoring/logging"
	"github.com/sirupsen/logrus"
)

const (
	ConfirmFallback  = "Unable to confirm payment at the moment. Please try again later."
	ConfirmSucceeded = "Payment status updated"
	CheckoutCreated  = "Payment created"
)

// Backend is the part of the backend client the order and eSIM views use.
type Backend interface {
	ListPayments(ctx context.Context, rc models.RequestContext) ([]esimstore.Payment, error)
	CheckPaymentStatus(ctx context.Context, rc models.RequestContext, refID string) (*esimstore.PaymentStatus, string, error)
	CreatePayment(ctx context.Context, rc models.RequestContext, req esimstore.CreatePaymentRequest) (*esimstore.CreatePaymentResponse, error)
	ListUserPlans(ctx context.Context, rc models.RequestContext) ([]esimstore.UserPlan, error)
	GetProfile(ctx context.Context, rc models.RequestContext, iccid string) (*esimstore.Profile, error)
}

type OrderService struct {
	source     Backend
	location   *time.Location
	flagCDNURL string
	now        func() time.Time
	validate   *validator.Validate
	logger     *logging.Logger
}

func NewOrderService(source Backend, location *time.Location, flagCDNURL string, logger *logging.Logger) *OrderService {
	if location == nil {
		location = time.UTC
	}
	return &OrderService{
		source:     source,
		location:   location,
		flagCDNURL: strings.TrimRight(flagCDNURL, "/"),
		now:        time.Now,
		validate:   validator.New(validator.WithRequiredStructEnabled()),
		logger:     logger,
	}
}

// SetClock replaces time.Now, for tests.
func (s *OrderService) SetClock(now func() time.Time) {
	s.now = now
}

func (s *OrderService) Now() time.Time {
	return s.now()
}

func (s *OrderService) Records(ctx context.Context, rc models.RequestContext) ([]OrderRecord, error) {
	payments, err := s.source.ListPayments(ctx, rc)
	if err != nil {
		return nil, err
	}
	return RecordsFromPayments(payments), nil
}

// Rows returns the orders table, newest first.
func (s *OrderService) Rows(ctx context.Context, rc models.RequestContext) ([]OrderRow, error) {
	records, err := s.Records(ctx, rc)
	if err != nil {
		return nil, err
	}
	return BuildRows(records, s.now(), s.location), nil
}

// Order finds one of the caller's orders by id.
func (s *OrderService) Order(ctx context.Context, rc models.RequestContext, id int64) (OrderRecord, error) {
	records, err := s.Records(ctx, rc)
	if err != nil {
		return OrderRecord{}, err
	}
	for _, r := range records {
		if r.ID == id {
			return r, nil
		}
	}
	return OrderRecord{}, models.NewAPIError(models.ErrorKindValidationFailure, http.StatusNotFound, fmt.Sprintf("order %d not found", id))
}

// ConfirmPayment asks the backend to re-check a payment and reloads the
// table when it answers. Failures carry the server message when it sent one.
func (s *OrderService) ConfirmPayment(ctx context.Context, rc models.RequestContext, refID string) (ConfirmResult, error) {
	result := ConfirmResult{ControlEnabled: true}

	refID = strings.TrimSpace(refID)
	if refID == "" {
		result.Message = "Missing payment reference"
		return result, models.NewAPIError(models.ErrorKindValidationFailure, http.StatusBadRequest, result.Message)
	}

	status, msg, err := s.source.CheckPaymentStatus(ctx, rc, refID)
	if err != nil {
		s.logger.WithError(err).WithField("ref_id", refID).Warn("payment status check failed")
		result.Message = models.MessageOf(err, ConfirmFallback)
		return result, err
	}

	result.Confirmed = true
	result.Message = msg
	if result.Message == "" {
		result.Message = ConfirmSucceeded
	}
	if status != nil {
		result.Status = ParseStatus(status.Status)
	}

	rows, err := s.Rows(ctx, rc)
	if err != nil {
		s.logger.WithError(err).Warn("reloading orders after confirm failed")
		result.Message = models.MessageOf(err, ConfirmFallback)
		return result, err
	}
	result.Rows = rows

	s.logger.WithFields(logrus.Fields{
		"ref_id": refID,
		"status": result.Status,
	}).Info("payment confirmed")
	return result, nil
}

// CreatePayment validates the checkout form and creates the payment.
func (s *OrderService) CreatePayment(ctx context.Context, rc models.RequestContext, req CheckoutRequest) (CheckoutResult, error) {
	req.Currency = strings.ToUpper(strings.TrimSpace(req.Currency))
	if err := s.validate.Struct(req); err != nil {
		return CheckoutResult{}, models.NewValidationError(err)
	}

	res, err := s.source.CreatePayment(ctx, rc, esimstore.CreatePaymentRequest{
		Price:          req.Price,
		Currency:       req.Currency,
		PaymentMethod:  req.PaymentMethod,
		PackageCode:    req.PackageCode,
		Seller:         req.Seller,
		PaymentGateway: req.PaymentGateway,
	})
	if err != nil {
		return CheckoutResult{}, err
	}

	record := RecordFromPayment(res.Data)
	out := CheckoutResult{
		OrderID:     record.ID,
		ReferenceID: record.ReferenceID,
		PaymentURL:  record.PaymentURL,
		PriceLabel:  fmt.Sprintf("%s %s", format.Currency(record.Price), record.CurrencyCode),
		Message:     string(res.Message),
		Mastercard:  res.Mastercard,
	}
	if out.Message == "" {
		out.Message = CheckoutCreated
	}
	if record.ExpiresAt != nil {
		out.ExpiryLabel = format.Clock12(record.ExpiresAt.In(s.location))
	}

	s.logger.WithFields(logrus.Fields{
		"package_code": req.PackageCode,
		"seller":       req.Seller,
		"gateway":      req.PaymentGateway,
	}).Info("payment created")
	return out, nil
}
