package esimstore

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"
)

// Message decodes the backend's message field, which is sometimes a plain
// string and sometimes {"error": "..."}.
type Message string

func (m *Message) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*m = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*m = Message(s)
		return nil
	}
	var obj struct {
		Error   string `json:"error"`
		Message string `json:"message"`
		Detail  string `json:"detail"`
	}
	if err := json.Unmarshal(b, &obj); err == nil {
		*m = Message(firstNonEmpty(obj.Error, obj.Message, obj.Detail))
		return nil
	}
	// Arrays and anything else are kept verbatim rather than rejected
	*m = Message(strings.Trim(string(b), `"`))
	return nil
}

// FlexString accepts a JSON string or number. Prices arrive both ways.
type FlexString string

func (f *FlexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

func (f FlexString) String() string { return string(f) }

// Envelope is the {status, message, data} wrapper around most responses.
type Envelope[T any] struct {
	Status  bool    `json:"status"`
	Message Message `json:"message"`
	Data    T       `json:"data"`
}

// Standard/regional provider

type Operator struct {
	OperatorName string `json:"operatorName"`
	NetworkType  string `json:"networkType"`
}

type LocationNetwork struct {
	LocationName string     `json:"locationName"`
	LocationCode string     `json:"locationCode"`
	OperatorList []Operator `json:"operatorList"`
}

type Package struct {
	PackageCode         string            `json:"packageCode"`
	Slug                string            `json:"slug"`
	Name                string            `json:"name"`
	Description         string            `json:"description"`
	Price               int64             `json:"price"`
	CurrencyCode        string            `json:"currencyCode"`
	Volume              int64             `json:"volume"`
	Duration            int               `json:"duration"`
	DurationUnit        string            `json:"durationUnit"`
	Location            string            `json:"location"`
	SmsStatus           int               `json:"smsStatus"`
	SupportTopUpType    int               `json:"supportTopUpType"`
	LocationNetworkList []LocationNetwork `json:"locationNetworkList"`
}

// Unlimited provider

type Country struct {
	ISO    string `json:"iso"`
	Name   string `json:"name"`
	Region string `json:"region"`
}

type Network struct {
	Name   *string  `json:"name"`
	Speeds []string `json:"speeds"`
}

type CountryCoverage struct {
	Country  Country    `json:"country"`
	Networks []*Network `json:"networks"`
}

type UnlimitedPlan struct {
	Name            string            `json:"name"`
	Description     string            `json:"description"`
	FormattedPrice  FlexString        `json:"formattedPrice"`
	FormattedVolume string            `json:"formattedVolume"`
	Duration        int               `json:"duration"`
	ImageURL        string            `json:"imageUrl"`
	Autostart       bool              `json:"autostart"`
	Unlimited       bool              `json:"unlimited"`
	Countries       []CountryCoverage `json:"countries"`
	// Null means "use Countries"; an empty list is a real, empty coverage.
	RoamingEnabled []CountryCoverage `json:"roamingEnabled"`
}

// CatalogData is the data of GET /api/esim/plans/. Listing queries fill
// PackageList; package-code queries fill Standard and Unlimited.
type CatalogData struct {
	PackageList []Package       `json:"packageList"`
	Standard    []Package       `json:"standard"`
	Unlimited   []UnlimitedPlan `json:"unlimited"`
}

type PlanQuery struct {
	LocationCode string
	PackageCode  string
	Type         string
}

// Payments

type Payment struct {
	ID                   int64      `json:"id"`
	Price                FlexString `json:"price"`
	Currency             string     `json:"currency"`
	PaymentMethod        string     `json:"payment_method"`
	PackageCode          string     `json:"package_code"`
	ESIMPlan             string     `json:"esim_plan"`
	Seller               string     `json:"seller"`
	PaymentAddress       string     `json:"payment_address"`
	PaymentURL           string     `json:"payment_url"`
	PaymentGateway       string     `json:"payment_gateway"`
	Status               string     `json:"status"`
	DatePaid             string     `json:"date_paid"`
	RefID                string     `json:"ref_id"`
	GatewayTransactionID string     `json:"gateway_transaction_id"`
	DateCreated          string     `json:"date_created"`
	ExpiryDatetime       string     `json:"expiry_datetime"`
}

type CreatePaymentRequest struct {
	Price          string `json:"price"`
	Currency       string `json:"currency"`
	PaymentMethod  string `json:"payment_method"`
	PackageCode    string `json:"package_code"`
	Seller         string `json:"seller"`
	PaymentGateway string `json:"payment_gateway"`
}

type MastercardCheckout struct {
	SessionID         string `json:"session_id"`
	SessionVersion    string `json:"session_version"`
	SuccessIndicator  string `json:"success_indicator"`
	CheckoutScriptURL string `json:"checkout_script_url"`
	MerchantName      string `json:"merchant_name"`
	MerchantURL       string `json:"merchant_url"`
	OrderAmount       string `json:"order_amount"`
	OrderCurrency     string `json:"order_currency"`
	OrdersURL         string `json:"orders_url"`
}

type CreatePaymentResponse struct {
	Status      bool                   `json:"status"`
	Message     Message                `json:"message"`
	Data        Payment                `json:"data"`
	Transaction map[string]interface{} `json:"transaction,omitempty"`
	Mastercard  *MastercardCheckout    `json:"mastercard,omitempty"`
}

type PaymentStatus struct {
	RefID          string     `json:"ref_id"`
	Status         string     `json:"status"`
	Amount         FlexString `json:"amount"`
	Currency       string     `json:"currency"`
	PaymentGateway string     `json:"payment_gateway"`
	TransactionID  string     `json:"transaction_id"`
	DateCreated    string     `json:"date_created"`
	ExpiryDatetime string     `json:"expiry_datetime"`
}

// eSIMs owned by the signed-in user

type UserPlan struct {
	ID           int64  `json:"id"`
	OrderNo      string `json:"order_no"`
	Name         string `json:"name"`
	PackageCode  string `json:"package_code"`
	LocationCode string `json:"location_code"`
	LocationName string `json:"location_name"`
	ICCID        string `json:"iccid"`
	ESIMStatus   string `json:"esim_status"`
	Volume       int64  `json:"volume"`
	VolumeUsed   *int64 `json:"volume_used"`
	Duration     int    `json:"duration"`
	DateCreated  string `json:"date_created"`
	ExpiredTime  string `json:"expired_time"`
}

type Profile struct {
	ICCID          string `json:"iccid"`
	QRCodeURL      string `json:"qrCodeUrl"`
	ActivationCode string `json:"ac"`
	ESIMStatus     string `json:"esimStatus"`
	SMDPStatus     string `json:"smdpStatus"`
	TotalVolume    int64  `json:"totalVolume"`
	OrderUsage     int64  `json:"orderUsage"`
	ExpiredTime    string `json:"expiredTime"`
}

// Auth

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Email        string `json:"email"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Password     string `json:"password"`
	RePassword   string `json:"re_password"`
	ReferralCode string `json:"referral_code,omitempty"`
}

type OTPRequest struct {
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number,omitempty"`
}

type OTPVerifyRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

type PasswordResetRequest struct {
	Email string `json:"email"`
}

type PasswordResetConfirmRequest struct {
	UID         string `json:"uid"`
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

// AuthResult is what every auth endpoint returns, plus the session cookies
// the backend set, which the caller relays to the browser.
type AuthResult struct {
	Status  bool            `json:"status"`
	Message Message         `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
	Cookies []*http.Cookie  `json:"-"`
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
