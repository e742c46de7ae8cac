package request

type RegisterRequest struct {
	Email           string  `json:"email" validate:"required,email,max=254"`
	Password        string  `json:"password" validate:"required"`
	PasswordConfirm string  `json:"password_confirm" validate:"required"`
	FullName        string  `json:"full_name" validate:"required,max=255"`
	PhoneNumber     *string `json:"phone_number,omitempty" validate:"omitempty,phone"`
	UserType        string  `json:"user_type" validate:"required,account_kind"`
	DateOfBirth     *string `json:"date_of_birth,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Address         *string `json:"address,omitempty" validate:"omitempty,max=1000"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type ResetPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordConfirmRequest struct {
	Token              string `json:"token" validate:"required"`
	NewPassword        string `json:"new_password" validate:"required"`
	NewPasswordConfirm string `json:"new_password_confirm" validate:"required"`
}
