package moonraker

import "errors"

var (
	ErrUnexpectedStatus = errors.New("unexpected status code")
	ErrMissingStatus    = errors.New("response has no result.status")
	ErrRPC              = errors.New("moonraker rpc error")
)
