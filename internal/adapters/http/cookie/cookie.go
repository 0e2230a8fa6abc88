// Package cookie serializa e interpreta cookies com opções tipadas.
package cookie

import (
	"net/http"
	"strings"
	"time"
)

type SameSite string

const (
	SameSiteLax    SameSite = "Lax"
	SameSiteStrict SameSite = "Strict"
	SameSiteNone   SameSite = "None"
)

type Options struct {
	HTTPOnly bool
	Secure   bool
	SameSite SameSite
	// MaxAge is rounded down to whole seconds. Zero omits the attribute.
	MaxAge time.Duration
	Domain string
	Path   string
}

// Build converts name, value and options into an *http.Cookie.
func Build(name, value string, opts Options) *http.Cookie {
	c := &http.Cookie{
		Name:     name,
		Value:    value,
		HttpOnly: opts.HTTPOnly,
		Secure:   opts.Secure,
		Domain:   opts.Domain,
		Path:     opts.Path,
	}
	if c.Path == "" {
		c.Path = "/"
	}
	if seconds := int(opts.MaxAge / time.Second); seconds > 0 {
		c.MaxAge = seconds
	}

	switch opts.SameSite {
	case SameSiteLax:
		c.SameSite = http.SameSiteLaxMode
	case SameSiteStrict:
		c.SameSite = http.SameSiteStrictMode
	case SameSiteNone:
		c.SameSite = http.SameSiteNoneMode
	}
	return c
}

// Serialize returns the Set-Cookie header value.
func Serialize(name, value string, opts Options) string {
	return Build(name, value, opts).String()
}

// Set appends a Set-Cookie header, keeping cookies already set on the response.
func Set(w http.ResponseWriter, name, value string, opts Options) {
	http.SetCookie(w, Build(name, value, opts))
}

// Parse splits a Cookie request header into name/value pairs. Later
// duplicates win and values may contain '='.
func Parse(header string) map[string]string {
	cookies := make(map[string]string)
	for _, part := range strings.Split(header, ";") {
		name, value, found := strings.Cut(part, "=")
		if !found {
			continue
		}
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		cookies[name] = strings.TrimSpace(value)
	}
	return cookies
}
