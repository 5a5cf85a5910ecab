package orders

import (
	"strings"
	"time"

	"github.com/magicesim/storefront/providers/esimstore"
	"github.com/magicesim/storefront/services/format"
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusCompleted Status = "COMPLETED"
	StatusFailed    Status = "FAILED"
)

func ParseStatus(s string) Status {
	return Status(strings.ToUpper(strings.TrimSpace(s)))
}

// BadgeClass is the bootstrap colour of the status badge.
func (s Status) BadgeClass() string {
	switch s {
	case StatusPending:
		return "warning"
	case StatusFailed:
		return "danger"
	default:
		return "success"
	}
}

type OrderRecord struct {
	ID                   int64
	Price                decimal.Decimal
	PriceMinorUnits      int64
	CurrencyCode         string
	Status               Status
	CreatedAt            time.Time
	ExpiresAt            *time.Time
	PaidAt               *time.Time
	ReferenceID          string
	GatewayTransactionID string
	PaymentGateway       string
	PaymentMethod        string
	PaymentURL           string
	PaymentAddress       string
	PackageCode          string
	ESIMPlanLabel        string
}

func optionalTime(raw string) *time.Time {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	t, err := format.ParseTime(raw)
	if err != nil {
		return nil
	}
	return &t
}

// RecordFromPayment converts a payment from the backend. Unparseable
// amounts become zero and unparseable dates are left unset.
func RecordFromPayment(p esimstore.Payment) OrderRecord {
	price, ok := format.ToDecimal(p.Price.String())
	if !ok || price.IsNegative() {
		price = decimal.Zero
	}
	price = price.Round(2)

	record := OrderRecord{
		ID:                   p.ID,
		Price:                price,
		PriceMinorUnits:      price.Shift(2).IntPart(),
		CurrencyCode:         p.Currency,
		Status:               ParseStatus(p.Status),
		ExpiresAt:            optionalTime(p.ExpiryDatetime),
		PaidAt:               optionalTime(p.DatePaid),
		ReferenceID:          p.RefID,
		GatewayTransactionID: p.GatewayTransactionID,
		PaymentGateway:       p.PaymentGateway,
		PaymentMethod:        p.PaymentMethod,
		PaymentURL:           p.PaymentURL,
		PaymentAddress:       p.PaymentAddress,
		PackageCode:          p.PackageCode,
		ESIMPlanLabel:        p.ESIMPlan,
	}
	if created := optionalTime(p.DateCreated); created != nil {
		record.CreatedAt = *created
	}
	return record
}

func RecordsFromPayments(payments []esimstore.Payment) []OrderRecord {
	records := make([]OrderRecord, 0, len(payments))
	for _, p := range payments {
		records = append(records, RecordFromPayment(p))
	}
	return records
}

// OrderRow is one line of the orders table.
type OrderRow struct {
	ID               int64      `json:"id"`
	ReferenceID      string     `json:"ref_id"`
	TransactionID    string     `json:"gateway_transaction_id"`
	TransactionLabel string     `json:"transaction_label"`
	PriceLabel       string     `json:"price_label"`
	CreatedLabel     string     `json:"created_label"`
	ExpiryLabel      string     `json:"expiry_label"`
	PaidLabel        string     `json:"paid_label,omitempty"`
	Status           Status     `json:"status"`
	BadgeClass       string     `json:"badge_class"`
	CountdownLabel   string     `json:"countdown_label"`
	Live             bool       `json:"live"`
	ExpiresAt        *time.Time `json:"expires_at,omitempty"`
	PaymentGateway   string     `json:"payment_gateway"`
	PaymentMethod    string     `json:"payment_method"`
	PaymentURL       string     `json:"payment_url"`
	PaymentAddress   string     `json:"payment_address"`
	ESIMPlanLabel    string     `json:"esim_plan"`
}

// ESIMCard is one eSIM owned by the signed-in user.
type ESIMCard struct {
	ID            int64  `json:"id"`
	OrderNo       string `json:"order_no"`
	Name          string `json:"name"`
	ICCID         string `json:"iccid"`
	LocationName  string `json:"location_name"`
	FlagURL       string `json:"flag_url"`
	Status        string `json:"status"`
	BadgeClass    string `json:"badge_class"`
	DataLeftLabel string `json:"data_left_label"`
	DataLeftPct   int    `json:"data_left_percent"`
	TimeLeftLabel string `json:"time_left_label"`
	ExpiryLabel   string `json:"expiry_label"`
}

type CheckoutRequest struct {
	PackageCode    string `validate:"required"`
	Price          string `validate:"required,numeric"`
	Currency       string `validate:"required,len=3"`
	Seller         string `validate:"required,oneof=esimaccess esimgo"`
	PaymentGateway string `validate:"required"`
	PaymentMethod  string `validate:"omitempty"`
}

type CheckoutResult struct {
	OrderID     int64                         `json:"order_id"`
	ReferenceID string                        `json:"ref_id"`
	PaymentURL  string                        `json:"payment_url,omitempty"`
	PriceLabel  string                        `json:"price_label"`
	ExpiryLabel string                        `json:"expiry_label,omitempty"`
	Message     string                        `json:"message"`
	Mastercard  *esimstore.MastercardCheckout `json:"mastercard,omitempty"`
}

// ConfirmResult is the outcome of a confirm payment click. ControlEnabled
// is always true so the button can be pressed again.
type ConfirmResult struct {
	Confirmed      bool       `json:"confirmed"`
	Status         Status     `json:"status,omitempty"`
	Message        string     `json:"message"`
	Rows           []OrderRow `json:"rows,omitempty"`
	ControlEnabled bool       `json:"control_enabled"`
}
