package fetcher

import (
	"fmt"
	"net"
	"net/url"

	"news-aggregator/internal/usecase/aggregate"
)

// validateURL rejects non-http(s) URLs and, when denyPrivate is set, hosts
// resolving to loopback, private or link-local addresses.
func validateURL(raw string, denyPrivate bool, lookup func(string) ([]net.IP, error)) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", aggregate.ErrInvalidURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: scheme %q not allowed", aggregate.ErrInvalidURL, u.Scheme)
	}
	host := u.Hostname()
	if host == "" {
		return fmt.Errorf("%w: empty hostname", aggregate.ErrInvalidURL)
	}
	if !denyPrivate {
		return nil
	}

	ips, err := lookup(host)
	if err != nil {
		return fmt.Errorf("%w: lookup %s: %v", aggregate.ErrInvalidURL, host, err)
	}
	for _, ip := range ips {
		if isPrivateIP(ip) {
			return fmt.Errorf("%w: %s resolves to %s", aggregate.ErrPrivateIP, host, ip)
		}
	}
	return nil
}

func isPrivateIP(ip net.IP) bool {
	return ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast() || ip.IsUnspecified()
}
