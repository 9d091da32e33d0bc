package domain

import "errors"

var (
	ErrUserNotFound       = errors.New("user does not exist")
	ErrRequestNotFound    = errors.New("request not found")
	ErrRequestNotPending  = errors.New("request is no longer pending")
	ErrRequestNotRejected = errors.New("request is not rejected")
	ErrShareCapExceeded   = errors.New("exceeds 50% share limit")
	ErrInsufficientFunds  = errors.New("insufficient balance")
	ErrPendingExists      = errors.New("a pending request already exists")
	ErrUnauthorized       = errors.New("admin access required")
)
