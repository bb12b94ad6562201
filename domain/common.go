package domain

import (
	"fmt"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

var (
	MessageUserNotAllowed       = "user not allowed"
	MessageFailedProcessRequest = "failed to process request"
	MessageFailedBodyRequest    = "failed to parse request body"
	MessageFailedGetToken       = "failed to get token"
	MessageFailedTokenInvalid   = "failed to token invalid"

	ErrParseUUID      = fmt.Errorf("%w: failed to parse UUID", ErrValidation)
	ErrUserNotAllowed = fmt.Errorf("%w: user not allowed", ErrPermission)
	ErrTokenNotFound  = fmt.Errorf("%w: token not found", ErrUnauthorized)
	ErrTokenExpired   = fmt.Errorf("%w: token expired", ErrUnauthorized)
	ErrTokenInvalid   = fmt.Errorf("%w: token invalid", ErrUnauthorized)
)

type PaginationResponse struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  any     `json:"results"`
}
