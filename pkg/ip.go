package pkg

import (
	"fmt"
	"net"
	"net/http"
	"strings"
)

// ReadUserIP tries to get the real user/client IP address, checking the
// proxy-set headers first and falling back to the remote address.
func ReadUserIP(r *http.Request) (string, error) {
	ipAddr := r.Header.Get("X-Real-Ip")
	if ipAddr == "" {
		ipAddr = r.Header.Get("X-Forwarded-For")
	}
	if ipAddr == "" {
		ipAddr = r.RemoteAddr
	}

	// X-Forwarded-For can hold a chain of addresses
	if commaIndex := strings.IndexRune(ipAddr, ','); commaIndex > 0 {
		ipAddr = ipAddr[:commaIndex]
	}
	ipAddr = strings.TrimSpace(ipAddr)

	if strings.ContainsRune(ipAddr, ':') {
		host, _, err := net.SplitHostPort(ipAddr)
		if err != nil {
			if net.ParseIP(ipAddr) != nil {
				// plain IPv6 address without a port
				return ipAddr, nil
			}
			return "", fmt.Errorf("split host port for %q: %w", ipAddr, err)
		}
		return host, nil
	}

	return ipAddr, nil
}
