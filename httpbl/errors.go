package httpbl

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidAPIKey is reserved for API key validation. No lookup path
	// returns it yet.
	ErrInvalidAPIKey = errors.New("invalid api key")

	// ErrInvalidIP is returned when the address to look up is not a
	// dotted-quad IPv4 address.
	ErrInvalidIP = errors.New("invalid IPv4 address")

	// ErrNoAddress is the cause of a ResolutionError when the resolver
	// answered without error but returned no address.
	ErrNoAddress = errors.New("no address returned")

	// ErrMalformedResponse means the resolver returned something other than
	// an IPv4 address. A conforming resolver never does this.
	ErrMalformedResponse = errors.New("malformed http:BL response")
)

// ResolutionError reports that the query name could not be resolved. For
// http:BL the usual cause is that the address is not listed, which surfaces
// as a *net.DNSError with IsNotFound set.
type ResolutionError struct {
	Name string
	Err  error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("DNS error: %v", e.Err)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}
