package wallpaper

import (
	"net/http"
	"time"

	"github.com/dixieflatline76/jukebox/config"
)

// userAgent stamps outbound requests that do not carry their own User-Agent.
type userAgent struct {
	next  http.RoundTripper
	value string
}

func (u userAgent) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") != "" {
		return u.next.RoundTrip(req)
	}
	out := req.Clone(req.Context())
	out.Header.Set("User-Agent", u.value)
	return u.next.RoundTrip(out)
}

// NewHTTPClient returns the client shared by the provider, weather and music
// clients.
func NewHTTPClient(timeout time.Duration) *http.Client {
	ua := config.AppName
	if config.AppVersion != "" {
		ua += "/" + config.AppVersion
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: userAgent{next: http.DefaultTransport, value: ua},
	}
}
