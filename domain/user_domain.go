package domain

import "fmt"

var (
	MessageSuccessRegister     = "user registered successfully"
	MessageSuccessLogin        = "login successful"
	MessageSuccessGetUser      = "success get user"
	MessageSuccessGetUsers     = "success get users"
	MessageSuccessSetPassword  = "password changed successfully"
	MessageSuccessUpdateAvatar = "avatar updated successfully"
	MessageSuccessDeleteAvatar = "avatar deleted successfully"
	MessageSuccessGetSubs      = "success get subscriptions"

	MessageFailedRegister     = "failed to register user"
	MessageFailedLogin        = "failed to login"
	MessageFailedGetUser      = "failed to get user"
	MessageFailedGetUsers     = "failed to get users"
	MessageFailedSetPassword  = "failed to change password"
	MessageFailedUpdateAvatar = "failed to update avatar"
	MessageFailedDeleteAvatar = "failed to delete avatar"
	MessageFailedGetSubs      = "failed to get subscriptions"

	ErrUserNotFound         = fmt.Errorf("%w: user not found", ErrNotFound)
	ErrEmailTaken           = fmt.Errorf("%w: email is already registered", ErrConflict)
	ErrUsernameTaken        = fmt.Errorf("%w: username is already taken", ErrConflict)
	ErrInvalidCredentials   = fmt.Errorf("%w: invalid email or password", ErrUnauthorized)
	ErrWrongCurrentPassword = NewFieldError("current_password", "current password is incorrect")
)

type (
	RegisterUserRequest struct {
		Email     string `json:"email" validate:"required,email,max=254"`
		Username  string `json:"username" validate:"required,max=150"`
		FirstName string `json:"first_name" validate:"required,max=150"`
		LastName  string `json:"last_name" validate:"required,max=150"`
		Password  string `json:"password" validate:"required,min=8,max=128"`
	}

	LoginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		AuthToken string `json:"auth_token"`
	}

	SetPasswordRequest struct {
		CurrentPassword string `json:"current_password" validate:"required"`
		NewPassword     string `json:"new_password" validate:"required,min=8,max=128"`
	}

	AvatarRequest struct {
		Avatar string `json:"avatar" validate:"required"`
	}

	AvatarResponse struct {
		Avatar string `json:"avatar"`
	}

	UserResponse = RecipeAuthor
)
