package models

import (
	"net/http"
	"strings"
)

// RequestContext carries what a browser request hands to the backend: the
// CSRF token from page metadata, the session cookies and a correlation id.
// It is built once per inbound request and passed explicitly to every call.
type RequestContext struct {
	CSRFToken     string
	Cookies       []*http.Cookie
	Authorization string
	CorrelationID string
}

// CookieHeader serialises the forwarded cookies for an outbound request.
func (rc RequestContext) CookieHeader() string {
	parts := make([]string, 0, len(rc.Cookies))
	for _, c := range rc.Cookies {
		if c == nil || c.Name == "" {
			continue
		}
		parts = append(parts, c.Name+"="+c.Value)
	}
	return strings.Join(parts, "; ")
}
