package models

type UserLoginParams struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RegisterUserParams struct {
	FirstName    string `json:"first_name" binding:"required"`
	LastName     string `json:"last_name" binding:"required"`
	Email        string `json:"email" binding:"required"`
	Password     string `json:"password" binding:"required"`
	RePassword   string `json:"re_password"`
	ReferralCode string `json:"referral_code"`
}

type OTPRequestParams struct {
	Email       string `json:"email" binding:"required"`
	PhoneNumber string `json:"phone_number"`
}

type OTPVerifyParams struct {
	Email string `json:"email" binding:"required"`
	OTP   string `json:"otp" binding:"required"`
}

type PasswordResetParams struct {
	Email string `json:"email" binding:"required"`
}

type PasswordConfirmParams struct {
	UID           string `json:"uid" binding:"required"`
	Token         string `json:"token" binding:"required"`
	NewPassword   string `json:"new_password" binding:"required"`
	ReNewPassword string `json:"re_new_password"`
}
