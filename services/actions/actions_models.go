package actions

import (
	"net/http"

	"github.com/magicesim/storefront/models"
)

type Action string

const (
	LoadPlans       Action = "load_plans"
	ViewPlan        Action = "view_plan"
	ViewUnlimited   Action = "view_unlimited"
	Checkout        Action = "checkout"
	LoadOrders      Action = "load_orders"
	ConfirmPayment  Action = "confirm_payment"
	LoadESIMs       Action = "load_esims"
	Login           Action = "login"
	Register        Action = "register"
	RequestOTP      Action = "request_otp"
	VerifyOTP       Action = "verify_otp"
	ResetPassword   Action = "reset_password"
	ConfirmPassword Action = "confirm_password"
)

// Event is one user interaction: the action, its query style parameters
// and, for forms, the decoded form value.
type Event struct {
	Action Action
	Params map[string]string
	Form   interface{}
}

func (e Event) Param(name string) string {
	if e.Params == nil {
		return ""
	}
	return e.Params[name]
}

const (
	ClassSuccess = "bg-success"
	ClassDanger  = "bg-danger"
	ClassInfo    = "bg-info"
	ClassInline  = "text-danger"
)

type Notice struct {
	Message string `json:"message"`
	Class   string `json:"class"`
	// Inline notices go next to the form instead of in a toast.
	Inline bool `json:"inline"`
}

// ViewUpdate is everything the page changes after an action finished.
type ViewUpdate struct {
	Model          interface{}      `json:"model,omitempty"`
	Notice         *Notice          `json:"notice,omitempty"`
	ControlEnabled bool             `json:"control_enabled"`
	OverlayVisible bool             `json:"overlay_visible"`
	Redirect       string           `json:"redirect,omitempty"`
	Kind           models.ErrorKind `json:"-"`
	Err            error            `json:"-"`
	Cookies        []*http.Cookie   `json:"-"`
}

func (v ViewUpdate) Failed() bool {
	return v.Err != nil
}
