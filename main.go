package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/bryannolen/httpbl/httpbl"
)

var (
	key       = flag.String("key", "", "http:BL access key, defaults to $HTTPBL_KEY")
	qIP       = flag.String("ip", "", "IPv4 address to check")
	rAddr     = flag.String("resolver", "", "DNS resolver address, uses the system resolver if empty")
	transport = flag.String("transport", "net", "resolver backend, one of: net, dns. dns requires -resolver")
	timeout   = flag.Duration("timeout", 5*time.Second, "lookup timeout")
	logLevel  = flag.String("loglevel", "error", "sets log level. Can be one of: debug, info, warn, error, fatal, panic.")
)

func init() {
	// A missing .env is fine, the key can come from the flag or the environment.
	_ = godotenv.Load()
}

func main() {
	flag.Parse()
	if *key == "" {
		*key = os.Getenv("HTTPBL_KEY")
	}
	if *qIP == "" || *key == "" {
		flag.Usage()
		return
	}

	level, err := zerolog.ParseLevel(*logLevel)
	if err != nil {
		level = zerolog.ErrorLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).Level(level).With().Timestamp().Logger()

	resolver, err := newResolver(*transport, *rAddr, *timeout)
	if err != nil {
		fmt.Println("Error: ", err)
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	bl := httpbl.New(*key, httpbl.WithResolver(resolver), httpbl.WithLogger(logger))
	v, err := bl.Lookup(ctx, *qIP)
	if err != nil {
		var dnsErr *net.DNSError
		if errors.As(err, &dnsErr) && dnsErr.IsNotFound {
			fmt.Println("NXDOMAIN")
			return
		}
		fmt.Println("Error: ", err)
		os.Exit(1)
	}
	fmt.Printf("%v\n", v)
	fmt.Println(verdict(v))
}

func newResolver(transport, server string, timeout time.Duration) (httpbl.Resolver, error) {
	switch transport {
	case "net":
		return httpbl.NewNetResolver(server), nil
	case "dns":
		if server == "" {
			return nil, fmt.Errorf("transport dns requires -resolver")
		}
		return httpbl.NewDNSResolver(server, "udp", timeout), nil
	default:
		return nil, fmt.Errorf("unknown transport %q", transport)
	}
}

// verdict summarises a visitor the way the http:BL threat levels are usually reported.
func verdict(v httpbl.Visitor) string {
	switch {
	case v.ThreatRating == httpbl.RatingLow && v.Class == httpbl.ClassSuspicious:
		return "It is probably a harmless robot"
	case v.ThreatRating == httpbl.RatingMedium:
		return "Medium"
	case v.ThreatRating == httpbl.RatingHigh:
		return "High"
	case v.ThreatRating == httpbl.RatingDangerous:
		return fmt.Sprintf("Dangerous. Last seen %d day(s) ago", v.LastActivity)
	default:
		return "Not Classified - Score Level 0"
	}
}
