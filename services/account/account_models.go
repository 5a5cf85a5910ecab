package account

import (
	"encoding/json"
	"net/http"
)

type LoginForm struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RegisterForm struct {
	Email        string `json:"email" validate:"required,email"`
	FirstName    string `json:"first_name" validate:"required"`
	LastName     string `json:"last_name" validate:"required"`
	Password     string `json:"password" validate:"required,min=8"`
	RePassword   string `json:"re_password" validate:"eqfield=Password"`
	ReferralCode string `json:"referral_code"`
}

type OTPRequestForm struct {
	Email       string `json:"email" validate:"required,email"`
	PhoneNumber string `json:"phone_number" validate:"omitempty,e164"`
}

type OTPVerifyForm struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required,numeric,len=6"`
}

type PasswordResetForm struct {
	Email string `json:"email" validate:"required,email"`
}

type PasswordConfirmForm struct {
	UID           string `json:"uid" validate:"required"`
	Token         string `json:"token" validate:"required"`
	NewPassword   string `json:"new_password" validate:"required,min=8"`
	ReNewPassword string `json:"re_new_password" validate:"eqfield=NewPassword"`
}

// Outcome is what a finished auth form leaves the page with.
type Outcome struct {
	Message  string          `json:"message"`
	Redirect string          `json:"redirect,omitempty"`
	Data     json.RawMessage `json:"data,omitempty"`
	Cookies  []*http.Cookie  `json:"-"`
}
