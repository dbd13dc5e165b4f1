// Package geo holds coordinate helpers and the great-circle distance used to rank events.
package geo

import (
	"math"
	"strconv"

	"github.com/yigit/volunteerhub/internal/pkg/apperrors"
)

// EarthRadiusKm is the mean Earth radius used by Distance
const EarthRadiusKm = 6371.0

// CoordinatePrecision is the number of decimals coordinates are stored with
const CoordinatePrecision = 6

// Point is a latitude/longitude pair in decimal degrees
type Point struct {
	Lat float64 `json:"latitude"`
	Lon float64 `json:"longitude"`
}

// NewPoint builds a point from optional coordinates. It returns nil unless both are present.
func NewPoint(lat, lon *float64) *Point {
	if lat == nil || lon == nil {
		return nil
	}
	return &Point{Lat: *lat, Lon: *lon}
}

// Validate checks that the point lies within the valid coordinate ranges
func (p Point) Validate() error {
	if math.IsNaN(p.Lat) || p.Lat < -90 || p.Lat > 90 {
		return apperrors.NewValidationError("latitude", "latitude must be between -90 and 90")
	}
	if math.IsNaN(p.Lon) || p.Lon < -180 || p.Lon > 180 {
		return apperrors.NewValidationError("longitude", "longitude must be between -180 and 180")
	}
	return nil
}

// Rounded returns the point with both coordinates rounded to CoordinatePrecision decimals
func (p Point) Rounded() Point {
	return Point{Lat: Round(p.Lat, CoordinatePrecision), Lon: Round(p.Lon, CoordinatePrecision)}
}

// String renders the point as "lat,lon" with CoordinatePrecision decimals
func (p Point) String() string {
	return strconv.FormatFloat(p.Lat, 'f', CoordinatePrecision, 64) + "," +
		strconv.FormatFloat(p.Lon, 'f', CoordinatePrecision, 64)
}

// Distance returns the Haversine distance between a and b in kilometres, rounded to
// two decimals.
func Distance(a, b Point) float64 {
	lat1 := toRadians(a.Lat)
	lat2 := toRadians(b.Lat)
	dLat := lat2 - lat1
	dLon := toRadians(b.Lon - a.Lon)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	// float error can push h marginally above 1 for antipodal points
	h = math.Min(1, h)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return Round(EarthRadiusKm*c, 2)
}

// DistanceBetween is Distance for optional points; ok is false when either is missing.
func DistanceBetween(a, b *Point) (km float64, ok bool) {
	if a == nil || b == nil {
		return 0, false
	}
	return Distance(*a, *b), true
}

// Round rounds v half away from zero to the given number of decimals
func Round(v float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))
	return math.Round(v*pow) / pow
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
