package services

import (
	"fmt"
	"lawn-route-service/internal/domain"
	"math"
)

// ComposedRoute is the output of ComposeRoute.
type ComposedRoute struct {
	domain.Route
	Excluded []*InvalidInputError
}

// Compose a visiting order over stops using a greedy nearest-neighbor algorithm.
//
// The walk starts at opts.Depot when set, otherwise at the first stop in input
// order, and repeatedly moves to the nearest unvisited stop. It does not attempt
// global route optimization (no 2-opt, no exact TSP).
func ComposeRoute(stops []domain.Stop, opts RouteOptions) (ComposedRoute, error) {
	if err := opts.Validate(); err != nil {
		return ComposedRoute{}, err
	}

	out := ComposedRoute{
		Route: domain.Route{
			Stops:              []domain.Stop{},
			Geometry:           [][2]float64{},
			LegDistancesMeters: []float64{},
		},
		Excluded: []*InvalidInputError{},
	}

	remaining := make([]domain.Stop, 0, len(stops))
	for i, s := range stops {
		if !s.Position.Valid() {
			out.Excluded = append(out.Excluded, &InvalidInputError{
				ClientID: s.ID,
				Reason:   "stop coordinates out of range or not finite",
			})
			continue
		}
		s.Source = i
		remaining = append(remaining, s)
	}

	if len(remaining) == 0 {
		return out, nil
	}

	var current domain.Coordinates
	if opts.Depot != nil {
		current = *opts.Depot
	} else {
		// Without a depot the first stop is the origin and costs nothing to reach.
		first := remaining[0]
		remaining = remaining[1:]
		out.appendStop(first, 0)
		current = first.Position
	}

	for len(remaining) > 0 {
		best := -1
		minDist := math.Inf(1)

		// Select next stop by minimum straight-line distance (greedy step).
		for i, s := range remaining {
			d := current.DistanceTo(s.Position)
			// Tie-breaker ensures deterministic ordering when distances are equal.
			if d < minDist || (d == minDist && s.Source < remaining[best].Source) {
				minDist = d
				best = i
			}
		}

		if best == -1 {
			return ComposedRoute{}, fmt.Errorf("compose route: failed to select next stop from %d candidates", len(remaining))
		}

		next := remaining[best]
		out.appendStop(next, minDist)
		current = next.Position
		remaining = append(remaining[:best], remaining[best+1:]...)
	}

	// Optionally include the return leg to the depot in the total.
	if opts.ReturnToDepot && opts.Depot != nil {
		out.TotalDistanceMeters += current.DistanceTo(*opts.Depot)
	}

	return out, nil
}

func (r *ComposedRoute) appendStop(s domain.Stop, leg float64) {
	r.Stops = append(r.Stops, s)
	r.Geometry = append(r.Geometry, s.Position.LatLon())
	r.LegDistancesMeters = append(r.LegDistancesMeters, leg)
	r.TotalDistanceMeters += leg
}

// StopsFromGroups represents each group by its center point.
func StopsFromGroups(groups []domain.Group) []domain.Stop {
	stops := make([]domain.Stop, 0, len(groups))
	for _, g := range groups {
		stops = append(stops, domain.Stop{
			ID:       fmt.Sprintf("group-%d", g.Index),
			Kind:     domain.StopKindGroup,
			Label:    fmt.Sprintf("%s (%d)", g.RoadName, g.MemberCount),
			Position: g.Center,
		})
	}
	return stops
}

// StopsFromClients represents each client by its own position. Clients
// without a position are carried through so the composer can report them.
func StopsFromClients(clients []*domain.Client) []domain.Stop {
	stops := make([]domain.Stop, 0, len(clients))
	for _, c := range clients {
		if c == nil {
			continue
		}

		pos := domain.Coordinates{Lat: math.NaN(), Lon: math.NaN()}
		if c.Position != nil {
			pos = *c.Position
		}

		stops = append(stops, domain.Stop{
			ID:       c.ID,
			Kind:     domain.StopKindClient,
			Label:    c.Name,
			Position: pos,
		})
	}
	return stops
}
