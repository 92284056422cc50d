package errorz

import "errors"

var (
	Forbidden            = errors.New("forbidden")
	NotFound             = errors.New("not found")
	ValidationFailed     = errors.New("validation failed")
	DuplicateApplication = errors.New("duplicate application")
	AlreadyDecided       = errors.New("application already decided")
	UploadFailed         = errors.New("upload failed")
	EventFull            = errors.New("event is full")
	RegistrationClosed   = errors.New("registration closed")
	InvalidCode          = errors.New("invalid code")
	InvalidToken         = errors.New("invalid token")
)
