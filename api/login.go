package api

import (
	"github.com/gin-gonic/gin"
	models "github.com/magicesim/storefront/api/models"
	"github.com/magicesim/storefront/services/account"
	"github.com/magicesim/storefront/services/actions"
)

func (a *Auth) login(ctx *gin.Context) {
	submit[account.LoginForm](a, ctx, actions.Login, new(models.UserLoginParams))
}
