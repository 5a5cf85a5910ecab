package actions

import (
	"context"
	"fmt"
	"net/http"

	"github.com/magicesim/storefront/models"
	"github.com/magicesim/storefront/services/account"
	"github.com/magicesim/storefront/services/catalog"
	"github.com/magicesim/storefront/services/monitoring/logging"
	"github.com/magicesim/storefront/services/orders"
	"github.com/sirupsen/logrus"
)

const (
	NetworkNotice = "Something went wrong. Please try again later."
	EmptyNotice   = "No plans are available for this selection yet."
	FormFallback  = "An error occurred."
)

type Catalog interface {
	ListPlans(ctx context.Context, rc models.RequestContext, scope catalog.Scope, code string) ([]catalog.PlanSummary, error)
	PlanDetails(ctx context.Context, rc models.RequestContext, packageCode string, scope catalog.Scope, code string) (catalog.PlanSummary, error)
	UnlimitedDetails(ctx context.Context, rc models.RequestContext, name, price, currency string) (catalog.PlanSummary, error)
}

type Orders interface {
	Rows(ctx context.Context, rc models.RequestContext) ([]orders.OrderRow, error)
	ConfirmPayment(ctx context.Context, rc models.RequestContext, refID string) (orders.ConfirmResult, error)
	CreatePayment(ctx context.Context, rc models.RequestContext, req orders.CheckoutRequest) (orders.CheckoutResult, error)
	ESIMs(ctx context.Context, rc models.RequestContext) ([]orders.ESIMCard, error)
}

type Accounts interface {
	Login(ctx context.Context, rc models.RequestContext, form account.LoginForm) (account.Outcome, error)
	Register(ctx context.Context, rc models.RequestContext, form account.RegisterForm) (account.Outcome, error)
	RequestOTP(ctx context.Context, rc models.RequestContext, form account.OTPRequestForm) (account.Outcome, error)
	VerifyOTP(ctx context.Context, rc models.RequestContext, form account.OTPVerifyForm) (account.Outcome, error)
	RequestPasswordReset(ctx context.Context, rc models.RequestContext, form account.PasswordResetForm) (account.Outcome, error)
	ConfirmPasswordReset(ctx context.Context, rc models.RequestContext, form account.PasswordConfirmForm) (account.Outcome, error)
}

type Handler func(ctx context.Context, rc models.RequestContext, ev Event) ViewUpdate

type Dispatcher struct {
	handlers map[Action]Handler
	logger   *logging.Logger
}

func NewDispatcher(cat Catalog, ord Orders, acc Accounts, logger *logging.Logger) *Dispatcher {
	d := &Dispatcher{
		handlers: make(map[Action]Handler),
		logger:   logger,
	}

	d.Register(LoadPlans, loadPlans(cat))
	d.Register(ViewPlan, viewPlan(cat))
	d.Register(ViewUnlimited, viewUnlimited(cat))
	d.Register(Checkout, checkout(ord))
	d.Register(LoadOrders, loadOrders(ord))
	d.Register(ConfirmPayment, confirmPayment(ord))
	d.Register(LoadESIMs, loadESIMs(ord))

	d.Register(Login, authForm(acc.Login))
	d.Register(Register, authForm(acc.Register))
	d.Register(RequestOTP, authForm(acc.RequestOTP))
	d.Register(VerifyOTP, authForm(acc.VerifyOTP))
	d.Register(ResetPassword, authForm(acc.RequestPasswordReset))
	d.Register(ConfirmPassword, authForm(acc.ConfirmPasswordReset))
	return d
}

func (d *Dispatcher) Register(action Action, h Handler) {
	d.handlers[action] = h
}

// Dispatch runs the handler for ev.Action. Whatever the handler returns, the
// triggering control comes back enabled and the overlay is gone.
func (d *Dispatcher) Dispatch(ctx context.Context, rc models.RequestContext, ev Event) ViewUpdate {
	h, ok := d.handlers[ev.Action]
	var update ViewUpdate
	if !ok {
		err := models.NewAPIError(models.ErrorKindValidationFailure, http.StatusBadRequest, fmt.Sprintf("unknown action %q", ev.Action))
		update = Fail(err)
	} else {
		update = h(ctx, rc, ev)
	}

	update.ControlEnabled = true
	update.OverlayVisible = false

	if update.Err != nil {
		d.logger.WithFields(logrus.Fields{
			"action":               ev.Action,
			"kind":                 update.Kind.String(),
			logging.CorrelationKey: rc.CorrelationID,
		}).WithError(update.Err).Info("action failed")
	}
	return update
}

// Fail maps err to the notice its kind calls for.
func Fail(err error) ViewUpdate {
	kind := models.KindOf(err)
	update := ViewUpdate{Kind: kind, Err: err}
	switch kind {
	case models.ErrorKindValidationFailure:
		update.Notice = &Notice{Message: models.MessageOf(err, FormFallback), Class: ClassInline, Inline: true}
	case models.ErrorKindEmptyCatalog:
		update.Notice = &Notice{Message: EmptyNotice, Class: ClassInfo}
	default:
		update.Notice = &Notice{Message: NetworkNotice, Class: ClassDanger}
	}
	return update
}

func Succeed(model interface{}, message string) ViewUpdate {
	update := ViewUpdate{Model: model}
	if message != "" {
		update.Notice = &Notice{Message: message, Class: ClassSuccess}
	}
	return update
}

func scopeOf(ev Event) (catalog.Scope, error) {
	scope, err := catalog.ParseScope(ev.Param("scope"))
	if err != nil {
		return "", models.NewAPIError(models.ErrorKindValidationFailure, http.StatusBadRequest, err.Error())
	}
	return scope, nil
}

func loadPlans(cat Catalog) Handler {
	return func(ctx context.Context, rc models.RequestContext, ev Event) ViewUpdate {
		scope, err := scopeOf(ev)
		if err != nil {
			return Fail(err)
		}
		cards, err := cat.ListPlans(ctx, rc, scope, ev.Param("locationCode"))
		if err != nil {
			return Fail(err)
		}
		return Succeed(cards, "")
	}
}

func viewPlan(cat Catalog) Handler {
	return func(ctx context.Context, rc models.RequestContext, ev Event) ViewUpdate {
		scope, err := scopeOf(ev)
		if err != nil {
			return Fail(err)
		}
		plan, err := cat.PlanDetails(ctx, rc, ev.Param("packageCode"), scope, ev.Param("locationCode"))
		if err != nil {
			return Fail(err)
		}
		return Succeed(plan, "")
	}
}

func viewUnlimited(cat Catalog) Handler {
	return func(ctx context.Context, rc models.RequestContext, ev Event) ViewUpdate {
		plan, err := cat.UnlimitedDetails(ctx, rc, ev.Param("name"), ev.Param("price"), ev.Param("currency"))
		if err != nil {
			return Fail(err)
		}
		return Succeed(plan, "")
	}
}

func checkout(ord Orders) Handler {
	return func(ctx context.Context, rc models.RequestContext, ev Event) ViewUpdate {
		req, ok := ev.Form.(orders.CheckoutRequest)
		if !ok {
			return Fail(badForm(ev))
		}
		res, err := ord.CreatePayment(ctx, rc, req)
		if err != nil {
			return Fail(err)
		}
		update := Succeed(res, res.Message)
		update.Redirect = res.PaymentURL
		return update
	}
}

func loadOrders(ord Orders) Handler {
	return func(ctx context.Context, rc models.RequestContext, ev Event) ViewUpdate {
		rows, err := ord.Rows(ctx, rc)
		if err != nil {
			return Fail(err)
		}
		return Succeed(rows, "")
	}
}

// confirmPayment keeps the server message in the notice on failure, falling
// back to the generic text only when the server sent none.
func confirmPayment(ord Orders) Handler {
	return func(ctx context.Context, rc models.RequestContext, ev Event) ViewUpdate {
		res, err := ord.ConfirmPayment(ctx, rc, ev.Param("ref"))
		if err != nil {
			update := Fail(err)
			update.Model = res
			update.Notice = &Notice{Message: res.Message, Class: ClassDanger}
			return update
		}
		return Succeed(res, res.Message)
	}
}

func loadESIMs(ord Orders) Handler {
	return func(ctx context.Context, rc models.RequestContext, ev Event) ViewUpdate {
		cards, err := ord.ESIMs(ctx, rc)
		if err != nil {
			return Fail(err)
		}
		return Succeed(cards, "")
	}
}

func badForm(ev Event) error {
	return models.NewAPIError(models.ErrorKindValidationFailure, http.StatusBadRequest, fmt.Sprintf("unexpected form %T for %s", ev.Form, ev.Action))
}

// authForm adapts one account flow. F is the flow's form type.
func authForm[F any](flow func(context.Context, models.RequestContext, F) (account.Outcome, error)) Handler {
	return func(ctx context.Context, rc models.RequestContext, ev Event) ViewUpdate {
		form, ok := ev.Form.(F)
		if !ok {
			return Fail(badForm(ev))
		}
		out, err := flow(ctx, rc, form)
		if err != nil {
			update := Fail(err)
			update.Cookies = out.Cookies
			return update
		}
		update := Succeed(out, out.Message)
		update.Redirect = out.Redirect
		update.Cookies = out.Cookies
		return update
	}
}
