package api

import (
	"github.com/gin-gonic/gin"
	models "github.com/magicesim/storefront/api/models"
	"github.com/magicesim/storefront/services/account"
	"github.com/magicesim/storefront/services/actions"
)

func (a *Auth) register(ctx *gin.Context) {
	submit[account.RegisterForm](a, ctx, actions.Register, new(models.RegisterUserParams))
}
