package domain

import "errors"

var (
	ErrBillNotFound       = errors.New("bill not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrDuplicateBill      = errors.New("bill already stored")
	ErrInvalidVoteStatus  = errors.New("invalid vote status")
	ErrNothingToRemove    = errors.New("no existing vote to remove")
	ErrUnknownAttribute   = errors.New("unknown demographic attribute")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
