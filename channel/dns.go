package channel

import (
	"context"
	"net"
	"time"

	"github.com/miekg/dns"

	"github.com/sprout-sec/kerbeus-go/errs"
)

// ResolveRealm resolves a realm's KDC IP (spec §6): if the Kdcs registry
// already knows it, that answer wins; otherwise it resolves the realm name
// as a hostname, as given, using the system resolver, falling back to issuing
// the query directly against any already-known KDC IPs over DNS/TCP port 53
// if the system resolver fails and at least one IP is already known. The
// first answer wins either way, and is cached into the registry.
func ResolveRealm(ctx context.Context, kdcs *Kdcs, realm string) (string, error) {
	if ip, ok := kdcs.Lookup(realm); ok {
		return ip, nil
	}

	ip, err := resolveSystem(ctx, realm)
	if err == nil {
		kdcs.Set(realm, ip)
		return ip, nil
	}

	if known := kdcs.KnownIPs(); len(known) > 0 {
		ip, derr := resolveViaServers(ctx, realm, known)
		if derr == nil {
			kdcs.Set(realm, ip)
			return ip, nil
		}
		return "", errs.NewNetworkError("resolve realm "+realm, derr)
	}

	return "", errs.NewNetworkError("resolve realm "+realm, err)
}

func resolveSystem(ctx context.Context, realm string) (string, error) {
	resolver := net.DefaultResolver
	addrs, err := resolver.LookupHost(ctx, realm)
	if err != nil || len(addrs) == 0 {
		if err == nil {
			err = errs.NewStringError("no addresses for %s", realm)
		}
		return "", err
	}
	return addrs[0], nil
}

// resolveViaServers queries each known KDC IP as a DNS server over TCP port
// 53, per spec §6's fallback contract; the first server to answer wins.
func resolveViaServers(ctx context.Context, realm string, servers []string) (string, error) {
	m := new(dns.Msg)
	m.SetQuestion(dns.Fqdn(realm), dns.TypeA)

	client := &dns.Client{Net: "tcp", Timeout: 5 * time.Second}

	var lastErr error
	for _, server := range servers {
		resp, _, err := client.ExchangeContext(ctx, m, net.JoinHostPort(server, "53"))
		if err != nil {
			lastErr = err
			continue
		}
		for _, rr := range resp.Answer {
			if a, ok := rr.(*dns.A); ok {
				return a.A.String(), nil
			}
		}
	}
	if lastErr == nil {
		lastErr = errs.NewStringError("no DNS server answered for %s", realm)
	}
	return "", lastErr
}
