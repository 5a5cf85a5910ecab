package api

import (
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/magicesim/storefront/api/apistrings"
	"github.com/magicesim/storefront/models"
	"github.com/magicesim/storefront/services/actions"
	"github.com/magicesim/storefront/services/orders"
)

type Orders struct {
	server *Server
}

func (o Orders) router(server *Server) {
	o.server = server

	serverGroup := server.router.Group("/storefront")
	serverGroup.GET("orders", o.listOrders)
	serverGroup.GET("orders/:id/countdown", o.countdown)
	serverGroup.POST("payments/:ref/confirm", o.confirmPayment)
}

func (o *Orders) listOrders(ctx *gin.Context) {
	update := o.server.dispatcher.Dispatch(ctx.Request.Context(), requestContext(ctx), actions.Event{Action: actions.LoadOrders})
	if ctx.Query("format") == htmlFormat && !update.Failed() {
		ctx.HTML(http.StatusOK, "order_rows.html", update.Model)
		return
	}
	o.server.respond(ctx, update, apistrings.OrdersFetched)
}

func (o *Orders) confirmPayment(ctx *gin.Context) {
	o.server.dispatch(ctx, actions.Event{
		Action: actions.ConfirmPayment,
		Params: map[string]string{"ref": ctx.Param("ref")},
	}, "")
}

// countdown streams the time left on an order as server-sent events until
// it expires or the browser goes away.
func (o *Orders) countdown(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, models.NewError(apistrings.InvalidOrderID))
		return
	}

	rc := requestContext(ctx)
	order, err := o.server.orders.Order(ctx.Request.Context(), rc, id)
	if err != nil {
		o.server.respond(ctx, actions.Fail(err), "")
		return
	}

	// No expiry renders as expired
	var expiresAt time.Time
	if order.ExpiresAt != nil {
		expiresAt = *order.ExpiresAt
	}

	cd := orders.StartCountdown(ctx.Request.Context(), expiresAt,
		orders.WithInterval(o.server.config.CountdownInterval),
		orders.WithClock(o.server.orders.Now),
	)
	stream := o.server.streams.Add(1)
	o.server.board.Track(stream, cd)
	defer o.server.board.Remove(stream)

	last := cd.Initial
	ctx.SSEvent(apistrings.CountdownEventName, last)
	ctx.Writer.Flush()

	ctx.Stream(func(w io.Writer) bool {
		select {
		case label, ok := <-cd.Labels():
			if !ok {
				return false
			}
			if label != last {
				last = label
				ctx.SSEvent(apistrings.CountdownEventName, label)
			}
			return true
		case <-ctx.Request.Context().Done():
			return false
		}
	})
}
