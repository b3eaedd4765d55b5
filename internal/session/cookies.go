// Package session turns a raw browser cookie header into request credentials
// for the brokerage API.
package session

import (
	"net/http"
	"strings"

	"github.com/pkg/errors"

	"PortfolioBench/internal/apperr"
)

type cookie struct {
	name  string
	value string
}

// Credentials holds the cookies of an authenticated brokerage session.
type Credentials struct {
	cookies []cookie
	index   map[string]int
}

// Parse reads a "name=value; name2=value2" cookie header. Values may
// themselves contain '='; only the first one separates name from value.
func Parse(raw string) (*Credentials, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, errors.Wrap(apperr.ErrConfig, "cookie string is empty")
	}
	c := &Credentials{index: make(map[string]int)}
	for _, part := range strings.Split(raw, "; ") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, value, ok := strings.Cut(part, "=")
		if !ok || name == "" {
			return nil, errors.Wrapf(apperr.ErrConfig, "cookie %q has no name=value form", part)
		}
		if i, seen := c.index[name]; seen {
			c.cookies[i].value = value
			continue
		}
		c.index[name] = len(c.cookies)
		c.cookies = append(c.cookies, cookie{name: name, value: value})
	}
	return c, nil
}

// Get returns the value of the named cookie.
func (c *Credentials) Get(name string) (string, bool) {
	i, ok := c.index[name]
	if !ok {
		return "", false
	}
	return c.cookies[i].value, true
}

func (c *Credentials) Len() int { return len(c.cookies) }

// Apply sets the Cookie header of req. Values are written verbatim since
// brokerage session tokens do not always satisfy http.Cookie's validation.
func (c *Credentials) Apply(req *http.Request) {
	parts := make([]string, len(c.cookies))
	for i, ck := range c.cookies {
		parts[i] = ck.name + "=" + ck.value
	}
	req.Header.Set("Cookie", strings.Join(parts, "; "))
}
