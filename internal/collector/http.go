package collector

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"PortfolioBench/internal/apperr"
)

const (
	userAgent      = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
	maxErrorDetail = 512
)

// NewHTTPClient returns a client with optional proxy support.
func NewHTTPClient(proxyURL string, timeout time.Duration) *http.Client {
	transport := &http.Transport{Proxy: http.ProxyFromEnvironment}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}

// readBody reads resp and turns a non-2xx status into an *apperr.UpstreamError.
func readBody(source string, resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s read body: %w", source, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail := strings.TrimSpace(string(body))
		if len(detail) > maxErrorDetail {
			detail = detail[:maxErrorDetail] + "..."
		}
		return nil, &apperr.UpstreamError{
			Source:     source,
			URL:        resp.Request.URL.String(),
			StatusCode: resp.StatusCode,
			Detail:     detail,
		}
	}
	return body, nil
}
