package apistrings

const (
	/// Storefront
	Welcome       = "Welcome to the Magic eSIM storefront!"
	Healthy       = "storefront is healthy"
	PlansFetched  = "plans fetched successfully"
	PlanFetched   = "plan fetched successfully"
	OrdersFetched = "orders fetched successfully"
	ESIMsFetched  = "esims fetched successfully"
	DashboardDone = "dashboard fetched successfully"

	/// Request Shape
	InvalidOrderID     = "entered order ID is invalid"
	InvalidFormInput   = "please check the submitted form"
	InvalidCheckout    = "check 'package_code', 'price', 'currency' or 'seller' keys, invalid request"
	CountdownEventName = "countdown"
)
