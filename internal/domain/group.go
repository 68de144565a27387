package domain

// UnknownRoad is reported when no member address yields a road name.
const UnknownRoad = "Unknown"

// Represents a cluster of clients visited as a single stop.
// A Group is derived planning data: it is rebuilt on every request
// and never persisted.
type Group struct {
	Index                 int
	Members               []Client
	Center                Coordinates
	RoadName              string
	MemberCount           int
	WalkingDistanceMeters float64
}
