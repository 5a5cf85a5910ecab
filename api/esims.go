package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/magicesim/storefront/api/apistrings"
	"github.com/magicesim/storefront/models"
	"github.com/magicesim/storefront/services/actions"
	"github.com/magicesim/storefront/services/orders"
	"golang.org/x/sync/errgroup"
)

const (
	loadProfile   actions.Action = "load_profile"
	loadDashboard actions.Action = "load_dashboard"
)

type ESIMs struct {
	server *Server
}

// Dashboard is the signed-in landing view.
type Dashboard struct {
	ESIMs  []orders.ESIMCard `json:"esims"`
	Orders []orders.OrderRow `json:"orders"`
}

func (e ESIMs) router(server *Server) {
	e.server = server
	server.dispatcher.Register(loadProfile, e.profile())
	server.dispatcher.Register(loadDashboard, e.dashboard())

	serverGroup := server.router.Group("/storefront")
	serverGroup.GET("esims", e.listESIMs)
	serverGroup.GET("esims/:iccid/profile", e.getProfile)
	serverGroup.GET("dashboard", e.getDashboard)
}

func (e *ESIMs) listESIMs(ctx *gin.Context) {
	update := e.server.dispatcher.Dispatch(ctx.Request.Context(), requestContext(ctx), actions.Event{Action: actions.LoadESIMs})
	if ctx.Query("format") == htmlFormat && !update.Failed() {
		ctx.HTML(http.StatusOK, "esim_cards.html", update.Model)
		return
	}
	e.server.respond(ctx, update, apistrings.ESIMsFetched)
}

func (e *ESIMs) getProfile(ctx *gin.Context) {
	e.server.dispatch(ctx, actions.Event{
		Action: loadProfile,
		Params: map[string]string{"iccid": ctx.Param("iccid")},
	}, apistrings.ESIMsFetched)
}

func (e *ESIMs) getDashboard(ctx *gin.Context) {
	e.server.dispatch(ctx, actions.Event{Action: loadDashboard}, apistrings.DashboardDone)
}

func (e ESIMs) profile() actions.Handler {
	return func(ctx context.Context, rc models.RequestContext, ev actions.Event) actions.ViewUpdate {
		card, err := e.server.orders.Profile(ctx, rc, ev.Param("iccid"))
		if err != nil {
			return actions.Fail(err)
		}
		return actions.Succeed(card, "")
	}
}

// dashboard loads the eSIM cards and the order rows side by side.
func (e ESIMs) dashboard() actions.Handler {
	return func(ctx context.Context, rc models.RequestContext, ev actions.Event) actions.ViewUpdate {
		var view Dashboard
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			cards, err := e.server.orders.ESIMs(gctx, rc)
			view.ESIMs = cards
			return err
		})
		g.Go(func() error {
			rows, err := e.server.orders.Rows(gctx, rc)
			view.Orders = rows
			return err
		})
		if err := g.Wait(); err != nil {
			return actions.Fail(err)
		}
		return actions.Succeed(view, "")
	}
}
