package services

import (
	"lawn-route-service/internal/domain"
)

// AggregateGroup derives the summary metrics of a group from its members.
// Members are expected to carry valid positions; any that do not are ignored
// for the positional metrics.
func AggregateGroup(members []domain.Client) domain.Group {
	g := domain.Group{
		Members:     members,
		MemberCount: len(members),
		RoadName:    domain.UnknownRoad,
	}

	points := make([]domain.Coordinates, 0, len(members))
	for i := range members {
		if members[i].HasPosition() {
			points = append(points, *members[i].Position)
		}
	}

	g.Center = centroid(points)
	g.WalkingDistanceMeters = walkingDistance(points, g.Center)

	if road := dominantRoad(members); road != "" {
		g.RoadName = DisplayRoad(road)
	}

	return g
}

// centroid is the arithmetic mean of the points. At the scale of one group
// this is close enough to the spherical centroid.
func centroid(points []domain.Coordinates) domain.Coordinates {
	if len(points) == 0 {
		return domain.Coordinates{}
	}

	var lat, lon float64
	for _, p := range points {
		lat += p.Lat
		lon += p.Lon
	}

	n := float64(len(points))
	return domain.Coordinates{Lat: lat / n, Lon: lon / n}
}

// walkingDistance is the length of a nearest-neighbor chain over the points,
// starting from the point closest to center.
func walkingDistance(points []domain.Coordinates, center domain.Coordinates) float64 {
	if len(points) < 2 {
		return 0
	}

	start := 0
	best := points[0].DistanceTo(center)
	for i := 1; i < len(points); i++ {
		if d := points[i].DistanceTo(center); d < best {
			best = d
			start = i
		}
	}

	visited := make([]bool, len(points))
	visited[start] = true
	current := start
	total := 0.0

	for step := 1; step < len(points); step++ {
		next := -1
		nextDist := 0.0
		for i := range points {
			if visited[i] {
				continue
			}
			d := points[current].DistanceTo(points[i])
			if next == -1 || d < nextDist {
				next = i
				nextDist = d
			}
		}

		visited[next] = true
		total += nextDist
		current = next
	}

	return total
}

// dominantRoad returns the most frequent road key among members; ties go to
// the road seen first.
func dominantRoad(members []domain.Client) string {
	counts := make(map[string]int)
	order := []string{}

	for i := range members {
		road := RoadFromAddress(members[i].Address)
		if road == "" {
			continue
		}
		if counts[road] == 0 {
			order = append(order, road)
		}
		counts[road]++
	}

	best := ""
	for _, r := range order {
		if counts[r] > counts[best] {
			best = r
		}
	}

	return best
}
