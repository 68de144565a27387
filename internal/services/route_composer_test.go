package services

import (
	"errors"
	"lawn-route-service/internal/domain"
	"math"
	"testing"
)

func stop(id string, lat, lon float64) domain.Stop {
	return domain.Stop{
		ID:       id,
		Kind:     domain.StopKindClient,
		Label:    id,
		Position: domain.Coordinates{Lat: lat, Lon: lon},
	}
}

func stopIDs(r domain.Route) []string {
	ids := make([]string, 0, len(r.Stops))
	for _, s := range r.Stops {
		ids = append(ids, s.ID)
	}
	return ids
}

func TestComposeRouteFromDepot(t *testing.T) {
	stops := []domain.Stop{
		stop("far", 0, 0.03),
		stop("near", 0, 0.01),
		stop("mid", 0, 0.02),
	}
	depot := &domain.Coordinates{Lat: 0, Lon: 0}

	route, err := ComposeRoute(stops, RouteOptions{Depot: depot})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"near", "mid", "far"}
	got := stopIDs(route.Route)
	if len(got) != len(want) {
		t.Fatalf("stops = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("stops = %v, want %v", got, want)
		}
	}

	if len(route.Geometry) != 3 {
		t.Fatalf("geometry points = %d, want 3", len(route.Geometry))
	}
	if route.Geometry[0] != [2]float64{0, 0.01} {
		t.Fatalf("geometry[0] = %v, want [0 0.01]", route.Geometry[0])
	}

	firstLeg := depot.DistanceTo(stops[1].Position)
	if math.Abs(route.LegDistancesMeters[0]-firstLeg) > 1e-9 {
		t.Fatalf("first leg = %v, want %v", route.LegDistancesMeters[0], firstLeg)
	}

	sum := 0.0
	for _, d := range route.LegDistancesMeters {
		sum += d
	}
	if math.Abs(sum-route.TotalDistanceMeters) > 1e-6 {
		t.Fatalf("total = %v, legs sum to %v", route.TotalDistanceMeters, sum)
	}
}

func TestComposeRouteWithoutDepotStartsAtFirstStop(t *testing.T) {
	stops := []domain.Stop{
		stop("b", 0, 0.01),
		stop("a", 0, 0),
		stop("c", 0, 0.02),
	}

	route, err := ComposeRoute(stops, RouteOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := stopIDs(route.Route)
	// From b, a and c are equidistant; input order picks a.
	if got[0] != "b" || got[1] != "a" || got[2] != "c" {
		t.Fatalf("stops = %v, want [b a c]", got)
	}
	if route.LegDistancesMeters[0] != 0 {
		t.Fatalf("first leg = %v, want 0", route.LegDistancesMeters[0])
	}
}

func TestComposeRouteVisitsEachStopOnce(t *testing.T) {
	clients := randomClients(60, 11)
	stops := StopsFromClients(clients)

	route, err := ComposeRoute(stops, RouteOptions{Depot: &domain.Coordinates{Lat: 33.45, Lon: -112.07}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(route.Stops) != len(stops) || len(route.Geometry) != len(stops) {
		t.Fatalf("stops = %d geometry = %d, want %d", len(route.Stops), len(route.Geometry), len(stops))
	}

	seen := map[string]bool{}
	for i, s := range route.Stops {
		if seen[s.ID] {
			t.Fatalf("stop %s visited twice", s.ID)
		}
		seen[s.ID] = true
		if route.Geometry[i] != s.Position.LatLon() {
			t.Fatalf("geometry[%d] = %v, want %v", i, route.Geometry[i], s.Position.LatLon())
		}
	}
}

func TestComposeRouteReturnToDepot(t *testing.T) {
	stops := []domain.Stop{stop("a", 0, 0.01)}
	depot := &domain.Coordinates{Lat: 0, Lon: 0}

	oneWay, err := ComposeRoute(stops, RouteOptions{Depot: depot})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	round, err := ComposeRoute(stops, RouteOptions{Depot: depot, ReturnToDepot: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if math.Abs(round.TotalDistanceMeters-2*oneWay.TotalDistanceMeters) > 1e-6 {
		t.Fatalf("round trip = %v, want %v", round.TotalDistanceMeters, 2*oneWay.TotalDistanceMeters)
	}
	if len(round.Geometry) != 1 {
		t.Fatalf("geometry = %v, return leg must not add a point", round.Geometry)
	}
}

func TestComposeRouteEmptyAndSingle(t *testing.T) {
	empty, err := ComposeRoute(nil, RouteOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if empty.Stops == nil || empty.Geometry == nil || len(empty.Stops) != 0 || len(empty.Geometry) != 0 {
		t.Fatalf("empty route = %+v, want empty non-nil slices", empty.Route)
	}
	if empty.TotalDistanceMeters != 0 {
		t.Fatalf("empty total = %v", empty.TotalDistanceMeters)
	}

	single, err := ComposeRoute([]domain.Stop{stop("only", 40.1, -75.2)}, RouteOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(single.Geometry) != 1 || single.Geometry[0] != [2]float64{40.1, -75.2} {
		t.Fatalf("single geometry = %v", single.Geometry)
	}
	if single.TotalDistanceMeters != 0 {
		t.Fatalf("single total = %v, want 0", single.TotalDistanceMeters)
	}
}

func TestComposeRouteExcludesInvalidStops(t *testing.T) {
	stops := []domain.Stop{
		stop("a", 0, 0),
		stop("bad", 100, 0),
		stop("b", 0, 0.001),
	}

	route, err := ComposeRoute(stops, RouteOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(route.Stops) != 2 {
		t.Fatalf("stops = %v, want 2", stopIDs(route.Route))
	}
	if len(route.Excluded) != 1 || route.Excluded[0].ClientID != "bad" {
		t.Fatalf("excluded = %v, want [bad]", route.Excluded)
	}
}

func TestComposeRouteRejectsInvalidDepot(t *testing.T) {
	_, err := ComposeRoute([]domain.Stop{stop("a", 0, 0)}, RouteOptions{Depot: &domain.Coordinates{Lat: 0, Lon: 200}})

	var ce *ConfigurationError
	if !errors.As(err, &ce) || ce.Field != "depot" {
		t.Fatalf("err = %v, want depot ConfigurationError", err)
	}
}

func TestStopsFromGroupsLabels(t *testing.T) {
	groups := []domain.Group{
		{Index: 0, RoadName: "Oak St", MemberCount: 3, Center: domain.Coordinates{Lat: 1, Lon: 2}},
		{Index: 1, RoadName: domain.UnknownRoad, MemberCount: 1, Center: domain.Coordinates{Lat: 3, Lon: 4}},
	}

	stops := StopsFromGroups(groups)
	if len(stops) != 2 {
		t.Fatalf("stops = %d, want 2", len(stops))
	}
	if stops[0].ID != "group-0" || stops[0].Label != "Oak St (3)" || stops[0].Kind != domain.StopKindGroup {
		t.Fatalf("stop 0 = %+v", stops[0])
	}
	if stops[1].Label != "Unknown (1)" {
		t.Fatalf("stop 1 label = %q", stops[1].Label)
	}
}
