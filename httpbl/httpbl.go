// package httpbl provides a client for the Project Honeypot http:BL DNS blacklist.
//
// A lookup resolves {key}.{reversed ip}.dnsbl.httpbl.org and decodes the
// returned IPv4 address into a Visitor. See
// http://www.projecthoneypot.org/httpbl_api.php for the protocol.
package httpbl

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Observer is notified after every lookup. Implementations must be safe for
// concurrent use.
type Observer interface {
	ObserveLookup(v Visitor, err error, elapsed time.Duration)
}

// Client looks up addresses on http:BL. It is read-only after New and safe
// for concurrent use.
type Client struct {
	key      string
	resolver Resolver
	log      zerolog.Logger
	observer Observer
}

// Option configures a Client.
type Option func(*Client)

// WithResolver sets the resolver used for lookups. The default is
// net.DefaultResolver.
func WithResolver(r Resolver) Option {
	return func(c *Client) {
		if r != nil {
			c.resolver = r
		}
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) {
		c.log = l
	}
}

// WithObserver registers o to be told about every lookup.
func WithObserver(o Observer) Option {
	return func(c *Client) {
		c.observer = o
	}
}

// New creates a client for the API key.
func New(key string, opts ...Option) *Client {
	c := &Client{
		key:      key,
		resolver: NewNetResolver(""),
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Lookup queries http:BL for ip, a dotted-quad IPv4 address.
//
// An address that is not listed fails to resolve and is reported as a
// *ResolutionError. Cancellation and deadlines on ctx are passed to the
// resolver.
func (c *Client) Lookup(ctx context.Context, ip string) (Visitor, error) {
	start := time.Now()
	v, err := c.lookup(ctx, ip)
	if c.observer != nil {
		c.observer.ObserveLookup(v, err, time.Since(start))
	}
	return v, err
}

func (c *Client) lookup(ctx context.Context, ip string) (Visitor, error) {
	name, err := QueryName(c.key, ip)
	if err != nil {
		return Visitor{}, err
	}
	log := c.log.With().Str("ip", ip).Logger()
	log.Debug().Str("query", name).Msg("resolving")

	addrs, err := c.resolver.LookupNetIP(ctx, "ip4", name)
	if err == nil && len(addrs) == 0 {
		err = ErrNoAddress
	}
	if err != nil {
		log.Debug().Err(err).Msg("resolution failed")
		return Visitor{}, &ResolutionError{Name: name, Err: err}
	}

	resp, err := ParseResponse(addrs[0])
	if err != nil {
		log.Error().Err(err).Msg("resolver returned a non-IPv4 answer")
		return Visitor{}, err
	}
	if resp.Sentinel != 127 {
		log.Debug().Uint8("sentinel", resp.Sentinel).Msg("unexpected first octet")
	}

	v := Decode(resp)
	log.Debug().Stringer("visitor", v).Msg("listed")
	return v, nil
}
