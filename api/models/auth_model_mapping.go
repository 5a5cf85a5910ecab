package models

import "github.com/magicesim/storefront/services/account"

func (p UserLoginParams) ToForm() account.LoginForm {
	return account.LoginForm{Email: p.Email, Password: p.Password}
}

func (p RegisterUserParams) ToForm() account.RegisterForm {
	return account.RegisterForm{
		Email:        p.Email,
		FirstName:    p.FirstName,
		LastName:     p.LastName,
		Password:     p.Password,
		RePassword:   p.RePassword,
		ReferralCode: p.ReferralCode,
	}
}

func (p OTPRequestParams) ToForm() account.OTPRequestForm {
	return account.OTPRequestForm{Email: p.Email, PhoneNumber: p.PhoneNumber}
}

func (p OTPVerifyParams) ToForm() account.OTPVerifyForm {
	return account.OTPVerifyForm{Email: p.Email, OTP: p.OTP}
}

func (p PasswordResetParams) ToForm() account.PasswordResetForm {
	return account.PasswordResetForm{Email: p.Email}
}

func (p PasswordConfirmParams) ToForm() account.PasswordConfirmForm {
	return account.PasswordConfirmForm{
		UID:           p.UID,
		Token:         p.Token,
		NewPassword:   p.NewPassword,
		ReNewPassword: p.ReNewPassword,
	}
}
