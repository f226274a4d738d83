package fraud

import (
	"context"
	"fmt"
	"math"
	"time"

	"vocilia/pkg/requestcontext"
)

// DefaultMaxPlausibleSpeedKmh is the travel speed above which two sightings
// of the same customer cannot both be genuine. Commercial flight cruising
// speed; anything faster means a shared or spoofed identity.
const DefaultMaxPlausibleSpeedKmh = 900.0

// GeoSignal scores impossible travel between consecutive sightings of the
// same customer.
type GeoSignal struct {
	resolver        LocationResolver
	history         LocationStore
	maxPlausibleKmh float64
}

// NewGeoSignal creates the geographic signal source.
func NewGeoSignal(resolver LocationResolver, history LocationStore, maxPlausibleKmh float64) (*GeoSignal, error) {
	if resolver == nil {
		return nil, fmt.Errorf("location resolver is required")
	}
	if history == nil {
		return nil, fmt.Errorf("location store is required")
	}
	if maxPlausibleKmh <= 0 {
		maxPlausibleKmh = DefaultMaxPlausibleSpeedKmh
	}
	return &GeoSignal{resolver: resolver, history: history, maxPlausibleKmh: maxPlausibleKmh}, nil
}

func (s *GeoSignal) Type() SignalType { return SignalGeographic }

func (s *GeoSignal) Evaluate(ctx context.Context, in Input) (SignalResult, error) {
	ip := in.ClientIP
	if ip == "" {
		ip = requestcontext.ClientIP(ctx)
	}
	if ip == "" {
		return SignalResult{Type: SignalGeographic, Confidence: 0.3, Detail: "no client address"}, nil
	}

	loc, ok, err := s.resolver.Resolve(ctx, ip)
	if err != nil {
		return SignalResult{}, fmt.Errorf("resolve location: %w", err)
	}
	if !ok {
		return SignalResult{Type: SignalGeographic, Confidence: 0.3, Detail: "no location fix"}, nil
	}

	now := requestcontext.Now(ctx)
	prev, err := s.history.Observe(ctx, in.CustomerHash, loc, now)
	if err != nil {
		return SignalResult{}, fmt.Errorf("location history: %w", err)
	}
	if prev == nil {
		return SignalResult{Type: SignalGeographic, Confidence: 0.8, Detail: "first sighting"}, nil
	}

	distanceKm := haversineKm(prev.Location, loc)
	elapsed := now.Sub(prev.At)
	if elapsed <= 0 {
		if distanceKm > 1 {
			return SignalResult{
				Type:       SignalGeographic,
				Score:      1,
				Confidence: 1,
				Detail:     fmt.Sprintf("%.0f km apart with no elapsed time", distanceKm),
			}, nil
		}
		return SignalResult{Type: SignalGeographic, Confidence: 1, Detail: "stationary"}, nil
	}

	speedKmh := distanceKm / elapsed.Hours()
	ratio := speedKmh / s.maxPlausibleKmh

	score := 0.0
	detail := fmt.Sprintf("%.0f km in %s (%.0f km/h)", distanceKm, elapsed.Round(time.Second), speedKmh)
	if ratio >= 0.25 {
		score = math.Min(1, ratio)
	}
	return SignalResult{Type: SignalGeographic, Score: score, Confidence: 1, Detail: detail}, nil
}

const earthRadiusKm = 6371.0

// haversineKm computes the great-circle distance between two coordinates.
func haversineKm(a, b Location) float64 {
	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	dLat := (b.Latitude - a.Latitude) * math.Pi / 180
	dLon := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}
