package models

import "github.com/magicesim/storefront/services/orders"

type PlanQueryParams struct {
	Scope        string `form:"scope"`
	LocationCode string `form:"locationCode"`
	Format       string `form:"format"`
}

type UnlimitedQueryParams struct {
	Price    string `form:"price"`
	Currency string `form:"currency"`
}

type CheckoutParams struct {
	PackageCode    string `json:"package_code" binding:"required"`
	Price          string `json:"price" binding:"required"`
	Currency       string `json:"currency" binding:"required"`
	Seller         string `json:"seller" binding:"required"`
	PaymentGateway string `json:"payment_gateway" binding:"required"`
	PaymentMethod  string `json:"payment_method"`
}

func (p CheckoutParams) ToRequest() orders.CheckoutRequest {
	return orders.CheckoutRequest{
		PackageCode:    p.PackageCode,
		Price:          p.Price,
		Currency:       p.Currency,
		Seller:         p.Seller,
		PaymentGateway: p.PaymentGateway,
		PaymentMethod:  p.PaymentMethod,
	}
}
