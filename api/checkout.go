package api

import (
	"github.com/gin-gonic/gin"
	"github.com/magicesim/storefront/api/apistrings"
	models "github.com/magicesim/storefront/api/models"
	"github.com/magicesim/storefront/services/actions"
)

type Checkout struct {
	server *Server
}

func (c Checkout) router(server *Server) {
	c.server = server

	serverGroup := server.router.Group("/storefront")
	serverGroup.POST("checkout", c.checkout)
}

func (c *Checkout) checkout(ctx *gin.Context) {
	params := new(models.CheckoutParams)
	if err := ctx.ShouldBindJSON(params); err != nil {
		c.server.failBinding(ctx, err, apistrings.InvalidCheckout)
		return
	}

	c.server.dispatch(ctx, actions.Event{
		Action: actions.Checkout,
		Form:   params.ToRequest(),
	}, "")
}
