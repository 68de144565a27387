package dto

type RouteStopResponse struct {
	Order             int     `json:"order"`
	ID                string  `json:"id"`
	Kind              string  `json:"kind"`
	Label             string  `json:"label"`
	Lat               float64 `json:"lat"`
	Lon               float64 `json:"lon"`
	LegDistanceMeters float64 `json:"leg_distance_meters"`
}

// RouteResponse carries the visiting order. Geometry holds [lat, lon] pairs.
type RouteResponse struct {
	By                  string              `json:"by"`
	Geometry            [][2]float64        `json:"geometry"`
	Stops               []RouteStopResponse `json:"stops"`
	TotalDistanceMeters float64             `json:"total_distance_meters"`
	GroupCount          int                 `json:"group_count"`
	ExcludedCount       int                 `json:"excluded_count"`
	Excluded            []ExcludedResponse  `json:"excluded"`
}
