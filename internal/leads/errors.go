package leads

import "errors"

var (
	// ErrInvalidName is returned when the name is missing
	ErrInvalidName = errors.New("name is required")

	// ErrInvalidPhone is returned when the phone number has too few digits
	ErrInvalidPhone = errors.New("a valid phone number is required")

	// ErrInvalidEmail is returned when the email address cannot be parsed
	ErrInvalidEmail = errors.New("a valid email address is required")

	// ErrUnknownService is returned when the requested service is not offered
	ErrUnknownService = errors.New("service is not offered")

	// ErrInvalidDate is returned when the preferred date is malformed or in the past
	ErrInvalidDate = errors.New("preferred date must be today or later in YYYY-MM-DD format")

	// ErrInvalidWindow is returned when the time window is not morning, afternoon or evening
	ErrInvalidWindow = errors.New("time window must be morning, afternoon or evening")

	// ErrNotificationFailed is returned when the office could not be notified
	ErrNotificationFailed = errors.New("could not deliver request to the office")
)

// IsValidation reports whether err is a client input error.
func IsValidation(err error) bool {
	for _, target := range []error{ErrInvalidName, ErrInvalidPhone, ErrInvalidEmail, ErrUnknownService, ErrInvalidDate, ErrInvalidWindow} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
