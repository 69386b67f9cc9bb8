package live

import (
	"net/http"
	"net/url"
	"strings"
)

// OriginChecker accepts upgrades from the page's own origin and from the
// listed origins. A "*" entry accepts any origin unless sameOriginOnly is set.
// Requests without an Origin header are not from browsers and are accepted.
func OriginChecker(allowed []string, sameOriginOnly bool) func(r *http.Request) bool {
	wildcard := false
	origins := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		o = strings.ToLower(strings.TrimRight(strings.TrimSpace(o), "/"))
		switch o {
		case "":
		case "*":
			wildcard = !sameOriginOnly
		default:
			origins[o] = true
		}
	}

	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || wildcard {
			return true
		}
		if origins[strings.ToLower(origin)] {
			return true
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		return strings.EqualFold(u.Host, r.Host)
	}
}
