package client

import "errors"

var (
	ErrUnavailable     = errors.New("server unavailable")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrNotFound        = errors.New("file not found")
	ErrAlreadyExists   = errors.New("file already exists")
	ErrInvalidArgument = errors.New("invalid argument")
)
