package preflight

import (
	"context"
	"fmt"
	"net"
	"net/url"

	"github.com/miekg/dns"
)

// DNSProbe resolves the public backend host to an A record.
type DNSProbe struct {
	host     string
	resolver string
}

// NewDNSProbe creates a probe for the host of backendURL. An IP literal or
// localhost needs no resolution and leaves the probe unconfigured.
func NewDNSProbe(backendURL, resolver string) *DNSProbe {
	if resolver == "" {
		resolver = DefaultResolver
	}

	host := ""
	if u, err := url.Parse(backendURL); err == nil {
		host = u.Hostname()
	}
	if net.ParseIP(host) != nil || host == "localhost" {
		host = ""
	}
	return &DNSProbe{host: host, resolver: resolver}
}

func (p *DNSProbe) Name() string     { return "dns" }
func (p *DNSProbe) Configured() bool { return p.host != "" }

func (p *DNSProbe) Check(ctx context.Context) error {
	m := new(dns.Msg)
	m.SetQuestion(dns.Fqdn(p.host), dns.TypeA)
	m.RecursionDesired = true

	c := new(dns.Client)
	in, _, err := c.ExchangeContext(ctx, m, p.resolver)
	if err != nil {
		return fmt.Errorf("dns query for %s failed: %w", p.host, err)
	}
	if in.Rcode != dns.RcodeSuccess {
		return fmt.Errorf("dns query for %s returned %s", p.host, dns.RcodeToString[in.Rcode])
	}

	for _, answer := range in.Answer {
		if _, ok := answer.(*dns.A); ok {
			return nil
		}
	}
	return fmt.Errorf("no A record for %s", p.host)
}
