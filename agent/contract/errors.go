package contract

import "errors"

var (
	ErrConfiguration = errors.New("required configuration is missing")
	ErrAuth          = errors.New("credential exchange rejected")
	ErrProtocol      = errors.New("gateway returned an error envelope")
	ErrResolution    = errors.New("no compatible tool found")
	ErrParse         = errors.New("classifier output is not valid")
	ErrValidation    = errors.New("validation failed")
)
