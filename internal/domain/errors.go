package domain

import "errors"

var (
	ErrInvalidResponse = errors.New("invalid response")
	ErrInvalidFormat   = errors.New("invalid exchange rate data format")
	ErrFutureDate      = errors.New("cannot get exchange rates for future dates")
	ErrInvalidMonth    = errors.New("month must be between 1 and 12")
	ErrRateNotFound    = errors.New("no exchange rate found")
)

// IsServiceError reports whether err already carries one of the messages above
// and should reach the caller unchanged.
func IsServiceError(err error) bool {
	return errors.Is(err, ErrInvalidResponse) ||
		errors.Is(err, ErrInvalidFormat) ||
		errors.Is(err, ErrFutureDate) ||
		errors.Is(err, ErrInvalidMonth) ||
		errors.Is(err, ErrRateNotFound)
}
