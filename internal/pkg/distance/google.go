package distance

import (
	"context"
	"fmt"
	"net/http"

	"github.com/yigit/volunteerhub/internal/pkg/apperrors"
	"github.com/yigit/volunteerhub/internal/pkg/geo"
	"googlemaps.github.io/maps"
)

// MaxDestinationsPerRequest is the Distance Matrix limit for destinations in one call
const MaxDestinationsPerRequest = 25

const elementStatusOK = "OK"

// GoogleProvider measures driving distances with the Google Maps Distance Matrix API
type GoogleProvider struct {
	client *maps.Client
}

// GoogleOption customizes the underlying maps client
type GoogleOption func(*[]maps.ClientOption)

// WithBaseURL points the client at another host, used to stub the API in tests
func WithBaseURL(baseURL string) GoogleOption {
	return func(opts *[]maps.ClientOption) {
		*opts = append(*opts, maps.WithBaseURL(baseURL))
	}
}

// WithHTTPClient sets the HTTP client used for API calls
func WithHTTPClient(c *http.Client) GoogleOption {
	return func(opts *[]maps.ClientOption) {
		*opts = append(*opts, maps.WithHTTPClient(c))
	}
}

// NewGoogleProvider creates a Distance Matrix backed provider
func NewGoogleProvider(apiKey string, options ...GoogleOption) (*GoogleProvider, error) {
	clientOpts := []maps.ClientOption{maps.WithAPIKey(apiKey)}
	for _, opt := range options {
		opt(&clientOpts)
	}

	client, err := maps.NewClient(clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &GoogleProvider{client: client}, nil
}

// Name implements Provider
func (p *GoogleProvider) Name() string {
	return "google"
}

// Distances implements Provider. Elements whose status is not OK are unknown; a failed
// or malformed response is an error for the whole call.
func (p *GoogleProvider) Distances(ctx context.Context, origin geo.Point, destinations []geo.Point) ([]Measurement, error) {
	if len(destinations) == 0 {
		return nil, nil
	}
	if len(destinations) > MaxDestinationsPerRequest {
		return nil, fmt.Errorf("%w: %d destinations exceeds the per-request limit", apperrors.ErrExternalService, len(destinations))
	}

	req := &maps.DistanceMatrixRequest{
		Origins:      []string{origin.String()},
		Destinations: make([]string, len(destinations)),
		Mode:         maps.TravelModeDriving,
		Units:        maps.UnitsMetric,
	}
	for i, d := range destinations {
		req.Destinations[i] = d.String()
	}

	resp, err := p.client.DistanceMatrix(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%w: distance matrix: %v", apperrors.ErrExternalService, err)
	}
	if len(resp.Rows) != 1 || len(resp.Rows[0].Elements) != len(destinations) {
		return nil, fmt.Errorf("%w: distance matrix returned an unexpected shape", apperrors.ErrExternalService)
	}

	out := make([]Measurement, len(destinations))
	for i, el := range resp.Rows[0].Elements {
		if el == nil || el.Status != elementStatusOK {
			out[i] = Unknown
			continue
		}
		out[i] = Known(geo.Round(float64(el.Distance.Meters)/1000, 2))
	}
	return out, nil
}
