package resolver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/netip"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/miekg/dns"
	"golang.org/x/sync/errgroup"

	"github.com/homedash/homedash/src/internal/log"
)

const (
	defaultDNSPort = "53"
	// DefaultTimeout applies when no timeout is configured.
	DefaultTimeout = 3 * time.Second

	resolvConfPath = "/etc/resolv.conf"
	fallbackServer = "127.0.0.1:53"
)

// Result is the outcome of resolving one host.
type Result struct {
	Host      string   `json:"host"`
	Server    string   `json:"server"`
	Resolved  bool     `json:"resolved"`
	Addresses []string `json:"addresses"`
	// Rcode is the DNS response code name, empty for IP literals.
	Rcode string `json:"rcode,omitempty"`
}

// Resolver checks whether dashboard hosts resolve, using a single DNS server over UDP.
type Resolver struct {
	server string
	client *dns.Client
}

// New creates a resolver for server (host or host:port). An empty server means
// the first nameserver of /etc/resolv.conf.
func New(server string, timeout time.Duration) (*Resolver, error) {
	if server == "" {
		server = systemServer()
	}
	if !containsPort(server) {
		server = net.JoinHostPort(server, defaultDNSPort)
	}
	if _, _, err := net.SplitHostPort(server); err != nil {
		return nil, fmt.Errorf("invalid DNS server address: %w", err)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Resolver{
		server: server,
		client: &dns.Client{
			Net:     "udp",
			Timeout: timeout,
		},
	}, nil
}

// Server returns the DNS server address in host:port form.
func (r *Resolver) Server() string {
	return r.server
}

// Lookup queries A and AAAA records for host. A name that does not exist is a
// Result with Resolved false, not an error; errors mean the server could not be asked.
func (r *Resolver) Lookup(ctx context.Context, host string) (Result, error) {
	host = strings.TrimSuffix(strings.TrimSpace(host), ".")
	res := Result{Host: host, Server: r.server, Addresses: []string{}}
	if host == "" {
		return res, errors.New("host is empty")
	}

	if addr, err := netip.ParseAddr(host); err == nil {
		res.Resolved = true
		res.Addresses = append(res.Addresses, addr.String())
		return res, nil
	}

	qtypes := []uint16{dns.TypeA, dns.TypeAAAA}
	answers := make([]*dns.Msg, len(qtypes))

	g, gCtx := errgroup.WithContext(ctx)
	for i, qtype := range qtypes {
		g.Go(func() error {
			req := new(dns.Msg)
			req.SetQuestion(dns.Fqdn(host), qtype)
			req.RecursionDesired = true

			resp, _, err := r.client.ExchangeContext(gCtx, req, r.server)
			if err != nil {
				log.Debugf("[%04x] DNS query %s %s via %s failed: %v", req.Id, host, dns.TypeToString[qtype], r.server, err)
				return err
			}
			answers[i] = resp
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return res, fmt.Errorf("failed to resolve %s: %w", host, err)
	}

	res.Rcode = dns.RcodeToString[answers[0].Rcode]
	for _, resp := range answers {
		for _, rr := range resp.Answer {
			switch v := rr.(type) {
			case *dns.A:
				res.Addresses = append(res.Addresses, v.A.String())
			case *dns.AAAA:
				res.Addresses = append(res.Addresses, v.AAAA.String())
			}
		}
	}
	slices.Sort(res.Addresses)
	res.Addresses = slices.Compact(res.Addresses)
	res.Resolved = len(res.Addresses) > 0
	return res, nil
}

// HostFromURL returns the host name of a dashboard URL.
func HostFromURL(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("invalid url %q: %w", raw, err)
	}
	if u.Host == "" {
		return "", fmt.Errorf("url %q has no host", raw)
	}
	return u.Hostname(), nil
}

func systemServer() string {
	cfg, err := dns.ClientConfigFromFile(resolvConfPath)
	if err != nil || len(cfg.Servers) == 0 {
		log.Warnf("No nameserver found in %s, using %s", resolvConfPath, fallbackServer)
		return fallbackServer
	}
	return net.JoinHostPort(cfg.Servers[0], cfg.Port)
}

// containsPort checks if the address contains a port number.
func containsPort(address string) bool {
	if strings.HasPrefix(address, "[") {
		return strings.Contains(address, "]:")
	}
	return strings.Count(address, ":") == 1
}
