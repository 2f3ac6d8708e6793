package utils

import (
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/cors"

	"reelmerge/api"
)

const corsMaxAge = 300

// CORS builds the browser cross-origin policy for the read-only API. Listed
// origins are matched exactly (a "*" entry allows any origin); with no list,
// only local and private-network origins are trusted.
func CORS(origins []string) func(http.Handler) http.Handler {
	opts := cors.Options{
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", api.RequestIDHeader},
		ExposedHeaders: []string{api.RequestIDHeader},
		MaxAge:         corsMaxAge,
	}
	if len(origins) > 0 {
		opts.AllowedOrigins = origins
	} else {
		opts.AllowOriginFunc = func(_ *http.Request, origin string) bool {
			return IsAllowedOrigin(origin)
		}
	}
	return cors.Handler(opts)
}

// IsAllowedOrigin reports whether an Origin header names a host on the local
// network: localhost, .local names, single-label hosts, or a loopback,
// private or link-local IP.
func IsAllowedOrigin(origin string) bool {
	if origin == "" {
		return false
	}
	parsed, err := url.Parse(origin)
	if err != nil || parsed.Host == "" {
		return false
	}

	host := parsed.Hostname()
	switch {
	case host == "localhost", strings.HasSuffix(host, ".local"):
		return true
	}

	if ip := net.ParseIP(host); ip != nil {
		return ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast()
	}
	return !strings.Contains(host, ".")
}
