package api

import (
	"github.com/gin-gonic/gin"
	"github.com/magicesim/storefront/api/apistrings"
	"github.com/magicesim/storefront/services/actions"
)

type Auth struct {
	server *Server
}

func (a Auth) router(server *Server) {
	a.server = server

	serverGroup := server.router.Group("/storefront/auth")
	serverGroup.POST("login", a.login)
	serverGroup.POST("register", a.register)
	serverGroup.POST("otp/request", a.requestOTP)
	serverGroup.POST("otp/verify", a.verifyOTP)
	serverGroup.POST("password/reset", a.resetPassword)
	serverGroup.POST("password/confirm", a.confirmPassword)
}

// formParams is a request body that maps onto an account form.
type formParams[F any] interface {
	ToForm() F
}

// submit binds the JSON body into P and dispatches its form under action.
func submit[F any, P formParams[F]](a *Auth, ctx *gin.Context, action actions.Action, params P) {
	if err := ctx.ShouldBindJSON(params); err != nil {
		a.server.failBinding(ctx, err, apistrings.InvalidFormInput)
		return
	}
	a.server.dispatch(ctx, actions.Event{Action: action, Form: params.ToForm()}, "")
}
