package domain

import (
	"net/url"

	"github.com/keiji/reeldaily/internal/constants"
)

// BuildDeepLink produces the app deep link that carries a film-logging page
// URL back into the host app.
func BuildDeepLink(letterboxdURL string) string {
	query := url.Values{}
	query.Set(constants.DeepLink.Param, letterboxdURL)

	link := url.URL{
		Scheme:   constants.DeepLink.Scheme,
		Host:     constants.DeepLink.Host,
		RawQuery: query.Encode(),
	}
	return link.String()
}

// ParseDeepLink extracts the external film URL from a deep link. Malformed
// links report ok=false and are ignored by callers.
func ParseDeepLink(raw string) (string, bool) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return "", false
	}
	if parsed.Scheme != constants.DeepLink.Scheme || parsed.Host != constants.DeepLink.Host {
		return "", false
	}

	movieURL := parsed.Query().Get(constants.DeepLink.Param)
	if !IsExternalURL(movieURL) {
		return "", false
	}
	return movieURL, true
}

// IsExternalURL reports whether s is an absolute http(s) URL safe to hand to
// an external browser.
func IsExternalURL(s string) bool {
	parsed, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != ""
}
