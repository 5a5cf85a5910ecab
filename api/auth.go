package api

import (
	"github.com/gin-gonic/gin"
	models "github.com/magicesim/storefront/api/models"
	"github.com/magicesim/storefront/services/account"
	"github.com/magicesim/storefront/services/actions"
)

func (a *Auth) resetPassword(ctx *gin.Context) {
	submit[account.PasswordResetForm](a, ctx, actions.ResetPassword, new(models.PasswordResetParams))
}

func (a *Auth) confirmPassword(ctx *gin.Context) {
	submit[account.PasswordConfirmForm](a, ctx, actions.ConfirmPassword, new(models.PasswordConfirmParams))
}
