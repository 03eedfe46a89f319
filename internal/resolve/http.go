package resolve

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/echosoil/echorepo-lite/internal/resilience"
)

// DefaultBaseURL is the free client-side reverse-geocoding endpoint used
// when no geocoder is configured.
const DefaultBaseURL = "https://api.bigdatacloud.net"

// HTTPResolver resolves points one at a time against a reverse-geocoding web
// API, rate-limited and retried on transient failures. It implements
// Resolver so Chunked can apply the degradation policy on top.
type HTTPResolver struct {
	client  *http.Client
	baseURL string
	limiter *rate.Limiter
	retry   resilience.RetryConfig
}

// NewHTTPResolver builds a resolver against baseURL (DefaultBaseURL when
// empty), limited to ratePerSec requests per second.
func NewHTTPResolver(client *http.Client, baseURL string, ratePerSec float64) *HTTPResolver {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if ratePerSec <= 0 {
		ratePerSec = 10
	}
	retry := resilience.DefaultRetryConfig()
	retry.OnRetry = resilience.RetryLogger("geocoder", "reverse_geocode")
	return &HTTPResolver{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		limiter: rate.NewLimiter(rate.Limit(ratePerSec), 1),
		retry:   retry,
	}
}

type reverseGeocodeResponse struct {
	CountryCode string `json:"countryCode"`
}

// ResolveMany resolves each point in order. Any per-point failure fails the
// batch so the caller's degradation policy takes over.
func (r *HTTPResolver) ResolveMany(ctx context.Context, points []Point) ([]string, error) {
	out := make([]string, len(points))
	for i, p := range points {
		cc, err := r.resolve(ctx, p)
		if err != nil {
			return nil, eris.Wrapf(err, "resolve: point %d", i)
		}
		out[i] = cc
	}
	return out, nil
}

func (r *HTTPResolver) resolve(ctx context.Context, p Point) (string, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return "", eris.Wrap(err, "rate limit wait")
	}

	endpoint := fmt.Sprintf("%s/data/reverse-geocode-client?%s", r.baseURL, url.Values{
		"latitude":         {fmt.Sprintf("%.6f", p.Lat)},
		"longitude":        {fmt.Sprintf("%.6f", p.Lon)},
		"localityLanguage": {"en"},
	}.Encode())

	return resilience.DoVal(ctx, r.retry, func(ctx context.Context) (string, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return "", eris.Wrap(err, "build request")
		}

		resp, err := r.client.Do(req)
		if err != nil {
			return "", eris.Wrap(err, "reverse geocode")
		}
		defer resp.Body.Close() //nolint:errcheck

		if resp.StatusCode != http.StatusOK {
			err := eris.Errorf("reverse geocode returned status %d", resp.StatusCode)
			if resilience.IsTransientHTTPStatus(resp.StatusCode) {
				return "", resilience.NewTransientError(err, resp.StatusCode)
			}
			return "", err
		}

		body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		if err != nil {
			return "", eris.Wrap(err, "read response")
		}
		var parsed reverseGeocodeResponse
		if err := json.Unmarshal(body, &parsed); err != nil {
			return "", eris.Wrap(err, "decode response")
		}

		cc := strings.ToUpper(strings.TrimSpace(parsed.CountryCode))
		if len(cc) != 2 {
			return Unknown, nil
		}
		return cc, nil
	})
}
