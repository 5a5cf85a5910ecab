package api

import (
	"github.com/gin-gonic/gin"
	models "github.com/magicesim/storefront/api/models"
	"github.com/magicesim/storefront/services/account"
	"github.com/magicesim/storefront/services/actions"
)

func (a *Auth) requestOTP(ctx *gin.Context) {
	submit[account.OTPRequestForm](a, ctx, actions.RequestOTP, new(models.OTPRequestParams))
}

func (a *Auth) verifyOTP(ctx *gin.Context) {
	submit[account.OTPVerifyForm](a, ctx, actions.VerifyOTP, new(models.OTPVerifyParams))
}
