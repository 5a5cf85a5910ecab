package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/magicesim/storefront/api/apistrings"
	models "github.com/magicesim/storefront/api/models"
	"github.com/magicesim/storefront/services/actions"
)

const htmlFormat = "html"

type Catalog struct {
	server *Server
}

func (c Catalog) router(server *Server) {
	c.server = server

	serverGroup := server.router.Group("/storefront")
	serverGroup.GET("plans", c.listPlans)
	serverGroup.GET("plans/:packageCode", c.planDetails)
	serverGroup.GET("unlimited/:name", c.unlimitedDetails)
}

func (c *Catalog) listPlans(ctx *gin.Context) {
	params := new(models.PlanQueryParams)
	if err := ctx.ShouldBindQuery(params); err != nil {
		c.server.failBinding(ctx, err, apistrings.InvalidFormInput)
		return
	}

	update := c.server.dispatcher.Dispatch(ctx.Request.Context(), requestContext(ctx), actions.Event{
		Action: actions.LoadPlans,
		Params: map[string]string{
			"scope":        params.Scope,
			"locationCode": params.LocationCode,
		},
	})

	if params.Format == htmlFormat && !update.Failed() {
		ctx.HTML(http.StatusOK, "plan_cards.html", update.Model)
		return
	}
	c.server.respond(ctx, update, apistrings.PlansFetched)
}

func (c *Catalog) planDetails(ctx *gin.Context) {
	c.server.dispatch(ctx, actions.Event{
		Action: actions.ViewPlan,
		Params: map[string]string{
			"packageCode":  ctx.Param("packageCode"),
			"scope":        ctx.Query("scope"),
			"locationCode": ctx.Query("locationCode"),
		},
	}, apistrings.PlanFetched)
}

func (c *Catalog) unlimitedDetails(ctx *gin.Context) {
	params := new(models.UnlimitedQueryParams)
	if err := ctx.ShouldBindQuery(params); err != nil {
		c.server.failBinding(ctx, err, apistrings.InvalidFormInput)
		return
	}

	c.server.dispatch(ctx, actions.Event{
		Action: actions.ViewUnlimited,
		Params: map[string]string{
			"name":     ctx.Param("name"),
			"price":    params.Price,
			"currency": params.Currency,
		},
	}, apistrings.PlanFetched)
}
