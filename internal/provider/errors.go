package provider

import (
	"errors"
	"fmt"
)

// Sentinel errors for provider requests.
var (
	ErrNotFound         = errors.New("provider: not found")
	ErrRateLimited      = errors.New("provider: rate limited by server")
	ErrServer           = errors.New("provider: server error")
	ErrUnexpectedStatus = errors.New("provider: unexpected status")
	ErrDecode           = errors.New("provider: invalid JSON body")
)

// FetchError reports that a provider produced no data for a request.
// Callers treat it as "nothing from this provider" and move on.
type FetchError struct {
	Provider ID
	URL      string
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s fetch [%s]: %v", e.Provider, e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

func wrapError(id ID, rawURL string, err error) error {
	return &FetchError{
		Provider: id,
		URL:      rawURL,
		Err:      err,
	}
}
