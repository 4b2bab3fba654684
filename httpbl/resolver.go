package httpbl

import (
	"context"
	"errors"
	"net"
	"net/netip"
	"strings"
	"time"

	"github.com/miekg/dns"
)

// Resolver resolves a name to its addresses. *net.Resolver satisfies it.
type Resolver interface {
	LookupNetIP(ctx context.Context, network, host string) ([]netip.Addr, error)
}

// serverAddr adds the default DNS port to server when it has none.
func serverAddr(server string) string {
	if strings.Count(server, ":") > 1 && !strings.Contains(server, "]") {
		// Assume we were passed an IPv6 address without a port.
		return net.JoinHostPort(server, "53")
	}
	if strings.Count(server, ":") == 0 {
		// The address passed contains no :, so is not IPv6 and does not include a port.
		return net.JoinHostPort(server, "53")
	}
	return server
}

// NewNetResolver returns the system resolver when server is empty, otherwise
// a Go resolver that sends every query over UDP to server.
func NewNetResolver(server string) *net.Resolver {
	if server == "" {
		return net.DefaultResolver
	}
	addr := serverAddr(server)
	return &net.Resolver{
		PreferGo: true,
		Dial: func(ctx context.Context, network, address string) (net.Conn, error) {
			d := net.Dialer{}
			return d.DialContext(ctx, "udp", addr)
		},
	}
}

// DNSResolver queries a single DNS server directly for A records. Failures
// are reported as *net.DNSError so callers can treat it like a net.Resolver.
type DNSResolver struct {
	Server string
	Client *dns.Client
}

// NewDNSResolver returns a DNSResolver for server using the given transport
// ("udp" or "tcp") and per-exchange timeout.
func NewDNSResolver(server, transport string, timeout time.Duration) *DNSResolver {
	return &DNSResolver{
		Server: serverAddr(server),
		Client: &dns.Client{Net: transport, Timeout: timeout},
	}
}

// LookupNetIP implements Resolver. Only A records are queried, whatever the
// network.
func (r *DNSResolver) LookupNetIP(ctx context.Context, network, host string) ([]netip.Addr, error) {
	client := r.Client
	if client == nil {
		client = new(dns.Client)
	}

	m := new(dns.Msg)
	m.SetQuestion(dns.Fqdn(host), dns.TypeA)
	m.RecursionDesired = true

	in, _, err := client.ExchangeContext(ctx, m, r.Server)
	if err != nil {
		dnsErr := &net.DNSError{Err: err.Error(), Name: host, Server: r.Server}
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			dnsErr.IsTimeout = true
			dnsErr.IsTemporary = true
		}
		if errors.Is(err, context.DeadlineExceeded) {
			dnsErr.IsTimeout = true
		}
		return nil, dnsErr
	}

	switch in.Rcode {
	case dns.RcodeSuccess:
	case dns.RcodeNameError:
		return nil, &net.DNSError{Err: "no such host", Name: host, Server: r.Server, IsNotFound: true}
	default:
		return nil, &net.DNSError{
			Err:         dns.RcodeToString[in.Rcode],
			Name:        host,
			Server:      r.Server,
			IsTemporary: in.Rcode == dns.RcodeServerFailure,
		}
	}

	var addrs []netip.Addr
	for _, rr := range in.Answer {
		a, ok := rr.(*dns.A)
		if !ok {
			continue
		}
		if addr, ok := netip.AddrFromSlice(a.A.To4()); ok {
			addrs = append(addrs, addr)
		}
	}
	if len(addrs) == 0 {
		return nil, &net.DNSError{Err: "no such host", Name: host, Server: r.Server, IsNotFound: true}
	}
	return addrs, nil
}
