package httpx

import (
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// CallbackValidator decides where the broker may send a browser after sign-in or sign-out.
// Relative paths are always accepted. Absolute URLs are accepted when their host is the
// shared cookie domain, one of its subdomains, or an explicitly allowed host.
type CallbackValidator struct {
	domain  string
	allowed map[string]struct{}
}

// NewCallbackValidator builds a validator for the given cookie domain and extra hosts.
// A cookie domain that is itself a public suffix grants nothing.
func NewCallbackValidator(cookieDomain string, allowedHosts []string) CallbackValidator {
	v := CallbackValidator{allowed: make(map[string]struct{}, len(allowedHosts))}
	d := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(cookieDomain), "."))
	if d != "" {
		if ps, _ := publicsuffix.PublicSuffix(d); ps != d {
			v.domain = d
		}
	}
	for _, h := range allowedHosts {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			v.allowed[h] = struct{}{}
		}
	}
	return v
}

// Sanitize returns raw when it is an acceptable target and "/" otherwise.
func (v CallbackValidator) Sanitize(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.ContainsAny(raw, "\\\r\n\t") {
		return "/"
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "/"
	}
	if !u.IsAbs() {
		if u.Host != "" || !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") {
			return "/"
		}
		return raw
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "/"
	}
	if u.User != nil || !v.hostAllowed(u.Hostname()) {
		return "/"
	}
	return raw
}

func (v CallbackValidator) hostAllowed(host string) bool {
	host = strings.ToLower(host)
	if host == "" {
		return false
	}
	if _, ok := v.allowed[host]; ok {
		return true
	}
	if v.domain == "" {
		return false
	}
	return host == v.domain || strings.HasSuffix(host, "."+v.domain)
}
