package user

import "errors"

var (
	ErrInvalidToken           = errors.New("invalid token")
	ErrAdminAccessRequired    = errors.New("admin access required")
	ErrManagerAccessRequired  = errors.New("manager access required")
	ErrInsufficientPrivileges = errors.New("insufficient privileges")
)
