package orders

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/magicesim/storefront/models"
	"github.com/magicesim/storefront/providers/esimstore"
	"github.com/magicesim/storefront/services/monitoring/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePayments struct {
	payments   []esimstore.Payment
	listErr    error
	status     *esimstore.PaymentStatus
	statusMsg  string
	statusErr  error
	created    *esimstore.CreatePaymentResponse
	createReqs []esimstore.CreatePaymentRequest
	userPlans  []esimstore.UserPlan
	profile    *esimstore.Profile
	listCalls  int
}

func (f *fakePayments) ListPayments(context.Context, models.RequestContext) ([]esimstore.Payment, error) {
	f.listCalls++
	return f.payments, f.listErr
}

func (f *fakePayments) CheckPaymentStatus(context.Context, models.RequestContext, string) (*esimstore.PaymentStatus, string, error) {
	return f.status, f.statusMsg, f.statusErr
}

func (f *fakePayments) CreatePayment(_ context.Context, _ models.RequestContext, req esimstore.CreatePaymentRequest) (*esimstore.CreatePaymentResponse, error) {
	f.createReqs = append(f.createReqs, req)
	return f.created, nil
}

func (f *fakePayments) ListUserPlans(context.Context, models.RequestContext) ([]esimstore.UserPlan, error) {
	return f.userPlans, nil
}

func (f *fakePayments) GetProfile(context.Context, models.RequestContext, string) (*esimstore.Profile, error) {
	return f.profile, nil
}

func newTestOrderService(src *fakePayments) *OrderService {
	s := NewOrderService(src, time.UTC, "https://flagcdn.com/w320", logging.NewDiscardLogger())
	s.SetClock(func() time.Time { return now })
	return s
}

func TestConfirmPaymentReloadsRows(t *testing.T) {
	src := &fakePayments{
		payments:  []esimstore.Payment{{ID: 7, Status: "COMPLETED", DateCreated: "2025-01-10T10:00:00Z"}},
		status:    &esimstore.PaymentStatus{RefID: "REF7", Status: "COMPLETED"},
		statusMsg: "Payment completed",
	}

	res, err := newTestOrderService(src).ConfirmPayment(context.Background(), models.RequestContext{}, "REF7")
	require.NoError(t, err)
	assert.True(t, res.Confirmed)
	assert.True(t, res.ControlEnabled)
	assert.Equal(t, StatusCompleted, res.Status)
	assert.Equal(t, "Payment completed", res.Message)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, 1, src.listCalls)
}

func TestConfirmPaymentFailureKeepsControlEnabled(t *testing.T) {
	src := &fakePayments{statusErr: models.NewAPIError(models.ErrorKindValidationFailure, http.StatusBadRequest, "Payment not found")}

	res, err := newTestOrderService(src).ConfirmPayment(context.Background(), models.RequestContext{}, "REF7")
	require.Error(t, err)
	assert.False(t, res.Confirmed)
	assert.True(t, res.ControlEnabled)
	assert.Equal(t, "Payment not found", res.Message)
	assert.Zero(t, src.listCalls)

	src.statusErr = models.ErrNetworkFailure
	res, err = newTestOrderService(src).ConfirmPayment(context.Background(), models.RequestContext{}, "REF7")
	assert.ErrorIs(t, err, models.ErrNetworkFailure)
	assert.Equal(t, ConfirmFallback, res.Message)
	assert.True(t, res.ControlEnabled)

	res, err = newTestOrderService(src).ConfirmPayment(context.Background(), models.RequestContext{}, "")
	assert.ErrorIs(t, err, models.ErrValidationFailure)
	assert.True(t, res.ControlEnabled)
}

func TestCreatePaymentValidates(t *testing.T) {
	src := &fakePayments{}
	_, err := newTestOrderService(src).CreatePayment(context.Background(), models.RequestContext{}, CheckoutRequest{
		PackageCode: "CKH491",
		Price:       "ten",
		Currency:    "usd",
		Seller:      "esimaccess",
	})
	assert.ErrorIs(t, err, models.ErrValidationFailure)
	assert.Empty(t, src.createReqs)
}

func TestCreatePayment(t *testing.T) {
	src := &fakePayments{created: &esimstore.CreatePaymentResponse{
		Status: true,
		Data: esimstore.Payment{
			ID:             9,
			RefID:          "REF9",
			Price:          "3.00",
			Currency:       "USD",
			PaymentURL:     "https://pay.example/9",
			ExpiryDatetime: "2025-01-10T13:00:00Z",
		},
	}}

	res, err := newTestOrderService(src).CreatePayment(context.Background(), models.RequestContext{}, CheckoutRequest{
		PackageCode:    "CKH491",
		Price:          "3.00",
		Currency:       "usd",
		Seller:         "esimaccess",
		PaymentGateway: "CoinPayments",
	})
	require.NoError(t, err)
	require.Len(t, src.createReqs, 1)
	assert.Equal(t, "USD", src.createReqs[0].Currency)
	assert.Equal(t, "REF9", res.ReferenceID)
	assert.Equal(t, "3.00 USD", res.PriceLabel)
	assert.Equal(t, "10 Jan. 1:00 PM", res.ExpiryLabel)
	assert.Equal(t, CheckoutCreated, res.Message)
}

func TestESIMs(t *testing.T) {
	used := int64(256 << 20)
	src := &fakePayments{userPlans: []esimstore.UserPlan{
		{
			ID:           1,
			LocationCode: "GB",
			ESIMStatus:   "IN_USE",
			Volume:       1 << 30,
			VolumeUsed:   &used,
			ExpiredTime:  "2025-01-13T12:00:00Z",
		},
		{
			ID:          2,
			Volume:      0,
			Duration:    1,
			DateCreated: "2025-01-10T00:00:00Z",
		},
	}}

	cards, err := newTestOrderService(src).ESIMs(context.Background(), models.RequestContext{})
	require.NoError(t, err)
	require.Len(t, cards, 2)

	assert.Equal(t, "768 MB", cards[0].DataLeftLabel)
	assert.Equal(t, 75, cards[0].DataLeftPct)
	assert.Equal(t, "3 Days", cards[0].TimeLeftLabel)
	assert.Equal(t, "bg-label-success", cards[0].BadgeClass)
	assert.Equal(t, "https://flagcdn.com/w320/gb.png", cards[0].FlagURL)
	assert.Equal(t, "13th Jan, 2025", cards[0].ExpiryLabel)

	assert.Equal(t, "0 Days 12 Hours", cards[1].TimeLeftLabel)
	assert.Equal(t, 0, cards[1].DataLeftPct)
	assert.Empty(t, cards[1].FlagURL)
}

func TestOrderLookup(t *testing.T) {
	src := &fakePayments{payments: []esimstore.Payment{{ID: 3}, {ID: 4}}}
	svc := newTestOrderService(src)

	got, err := svc.Order(context.Background(), models.RequestContext{}, 4)
	require.NoError(t, err)
	assert.Equal(t, int64(4), got.ID)

	_, err = svc.Order(context.Background(), models.RequestContext{}, 5)
	assert.ErrorIs(t, err, models.ErrValidationFailure)
}

func TestProfile(t *testing.T) {
	src := &fakePayments{profile: &esimstore.Profile{
		ICCID:       "8985",
		QRCodeURL:   "https://qr.example/8985.png",
		ESIMStatus:  "GOT_RESOURCE",
		TotalVolume: 2 << 30,
		OrderUsage:  1 << 29,
		ExpiredTime: "2025-09-23T10:00:00Z",
	}}
	svc := newTestOrderService(src)

	card, err := svc.Profile(context.Background(), models.RequestContext{}, "8985")
	require.NoError(t, err)
	assert.Equal(t, "512 MB", card.UsedLabel)
	assert.Equal(t, "2.0 GB", card.TotalLabel)
	assert.Equal(t, 25, card.UsedPct)
	assert.Equal(t, "23rd Sept, 2025", card.ExpiryLabel)
	assert.Equal(t, "bg-label-success", card.BadgeClass)

	_, err = svc.Profile(context.Background(), models.RequestContext{}, " ")
	assert.ErrorIs(t, err, models.ErrValidationFailure)
}
