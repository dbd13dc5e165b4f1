// Package distance resolves volunteer-to-event distances through an external
// provider. Lookups are soft-fail: anything that goes wrong yields an unknown distance.
package distance

import (
	"context"

	"github.com/yigit/volunteerhub/internal/pkg/geo"
)

// Measurement is a single distance result. Km is meaningful only when Known is set.
type Measurement struct {
	Km    float64
	Known bool
}

// Unknown is the measurement returned when a distance could not be determined
var Unknown = Measurement{}

// Known wraps a distance in kilometres
func Known(km float64) Measurement {
	return Measurement{Km: km, Known: true}
}

// Ptr returns the distance as a pointer, nil when unknown
func (m Measurement) Ptr() *float64 {
	if !m.Known {
		return nil
	}
	km := m.Km
	return &km
}

// Provider computes distances from one origin to many destinations. Implementations
// return exactly one measurement per destination, in order, or an error for the whole call.
type Provider interface {
	Name() string
	Distances(ctx context.Context, origin geo.Point, destinations []geo.Point) ([]Measurement, error)
}

// GreatCircleProvider measures straight-line Haversine distances. It is used when no
// mapping service is configured.
type GreatCircleProvider struct{}

// NewGreatCircleProvider creates a provider backed by geo.Distance
func NewGreatCircleProvider() *GreatCircleProvider {
	return &GreatCircleProvider{}
}

// Name implements Provider
func (p *GreatCircleProvider) Name() string {
	return "greatcircle"
}

// Distances implements Provider
func (p *GreatCircleProvider) Distances(ctx context.Context, origin geo.Point, destinations []geo.Point) ([]Measurement, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]Measurement, len(destinations))
	for i, d := range destinations {
		out[i] = Known(geo.Distance(origin, d))
	}
	return out, nil
}
