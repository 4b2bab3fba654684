package httpbl

import (
	"context"
	"errors"
	"net"
	"net/netip"
	"testing"
	"time"

	"github.com/miekg/dns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServerAddr(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"192.0.2.53", "192.0.2.53:53"},
		{"192.0.2.53:5353", "192.0.2.53:5353"},
		{"2001:db8::53", "[2001:db8::53]:53"},
		{"[2001:db8::53]:5353", "[2001:db8::53]:5353"},
		{"ns.example.org", "ns.example.org:53"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, serverAddr(tt.in), tt.in)
	}
}

func TestNewNetResolver(t *testing.T) {
	assert.Same(t, net.DefaultResolver, NewNetResolver(""))

	r := NewNetResolver("192.0.2.53")
	assert.NotSame(t, net.DefaultResolver, r)
	assert.True(t, r.PreferGo)
	assert.NotNil(t, r.Dial)
}

// startDNSServer serves h on a local UDP port and returns its address.
func startDNSServer(t *testing.T, h dns.HandlerFunc) string {
	t.Helper()
	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)

	started := make(chan struct{})
	srv := &dns.Server{PacketConn: pc, Handler: h, NotifyStartedFunc: func() { close(started) }}
	go srv.ActivateAndServe()
	<-started
	t.Cleanup(func() { srv.Shutdown() })
	return pc.LocalAddr().String()
}

func reply(rcode int, answer ...dns.RR) dns.HandlerFunc {
	return func(w dns.ResponseWriter, req *dns.Msg) {
		m := new(dns.Msg)
		m.SetRcode(req, rcode)
		for _, rr := range answer {
			rr.Header().Name = req.Question[0].Name
			m.Answer = append(m.Answer, rr)
		}
		w.WriteMsg(m)
	}
}

func mustRR(t *testing.T, s string) dns.RR {
	t.Helper()
	rr, err := dns.NewRR(s)
	require.NoError(t, err)
	return rr
}

func TestDNSResolver(t *testing.T) {
	ctx := context.Background()

	t.Run("answer", func(t *testing.T) {
		addr := startDNSServer(t, reply(dns.RcodeSuccess,
			mustRR(t, "x. 300 IN CNAME y."),
			mustRR(t, "x. 300 IN A 127.4.30.3"),
			mustRR(t, "x. 300 IN A 127.5.30.3"),
		))
		r := NewDNSResolver(addr, "udp", time.Second)
		got, err := r.LookupNetIP(ctx, "ip4", "abc.1.2.3.4.dnsbl.httpbl.org")
		require.NoError(t, err)
		assert.Equal(t, []netip.Addr{netip.MustParseAddr("127.4.30.3"), netip.MustParseAddr("127.5.30.3")}, got)
	})

	t.Run("nxdomain", func(t *testing.T) {
		addr := startDNSServer(t, reply(dns.RcodeNameError))
		r := NewDNSResolver(addr, "udp", time.Second)
		_, err := r.LookupNetIP(ctx, "ip4", "abc.1.2.3.4.dnsbl.httpbl.org")
		var dnsErr *net.DNSError
		require.True(t, errors.As(err, &dnsErr))
		assert.True(t, dnsErr.IsNotFound)
		assert.Equal(t, "abc.1.2.3.4.dnsbl.httpbl.org", dnsErr.Name)
	})

	t.Run("no-a-records", func(t *testing.T) {
		addr := startDNSServer(t, reply(dns.RcodeSuccess, mustRR(t, "x. 300 IN TXT \"listed\"")))
		r := NewDNSResolver(addr, "udp", time.Second)
		_, err := r.LookupNetIP(ctx, "ip4", "abc.1.2.3.4.dnsbl.httpbl.org")
		var dnsErr *net.DNSError
		require.True(t, errors.As(err, &dnsErr))
		assert.True(t, dnsErr.IsNotFound)
	})

	t.Run("servfail", func(t *testing.T) {
		addr := startDNSServer(t, reply(dns.RcodeServerFailure))
		r := NewDNSResolver(addr, "udp", time.Second)
		_, err := r.LookupNetIP(ctx, "ip4", "abc.1.2.3.4.dnsbl.httpbl.org")
		var dnsErr *net.DNSError
		require.True(t, errors.As(err, &dnsErr))
		assert.False(t, dnsErr.IsNotFound)
		assert.True(t, dnsErr.IsTemporary)
		assert.Equal(t, "SERVFAIL", dnsErr.Err)
	})

	t.Run("timeout", func(t *testing.T) {
		// Nothing reads from this socket.
		pc, err := net.ListenPacket("udp", "127.0.0.1:0")
		require.NoError(t, err)
		defer pc.Close()

		r := NewDNSResolver(pc.LocalAddr().String(), "udp", 100*time.Millisecond)
		_, err = r.LookupNetIP(ctx, "ip4", "abc.1.2.3.4.dnsbl.httpbl.org")
		var dnsErr *net.DNSError
		require.True(t, errors.As(err, &dnsErr))
		assert.True(t, dnsErr.IsTimeout)
	})
}
