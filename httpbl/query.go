package httpbl

import (
	"fmt"
	"net/netip"
	"slices"
)

// Zone is the DNS zone serving the http:BL list.
const Zone = "dnsbl.httpbl.org"

// reverseIP takes an IPv4 address as a string and returns it in inverted octet order.
// e.g. 1.2.3.4 becomes 4.3.2.1
func reverseIP(ip string) (string, error) {
	nip, err := netip.ParseAddr(ip)
	if err != nil || !nip.Is4() {
		return "", fmt.Errorf("%w: %q", ErrInvalidIP, ip)
	}
	octets := nip.As4()
	slices.Reverse(octets[:])
	return netip.AddrFrom4(octets).String(), nil
}

// QueryName returns the name to resolve for ip, of the form
// {key}.{d}.{c}.{b}.{a}.dnsbl.httpbl.org for an address a.b.c.d.
func QueryName(key, ip string) (string, error) {
	reversed, err := reverseIP(ip)
	if err != nil {
		return "", err
	}
	return key + "." + reversed + "." + Zone, nil
}
