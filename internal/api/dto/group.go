package dto

type PointResponse struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type GroupClientResponse struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Address string  `json:"address"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

type GroupResponse struct {
	ID              int                   `json:"id"`
	ClientCount     int                   `json:"client_count"`
	RoadName        string                `json:"road_name"`
	CenterPoint     PointResponse         `json:"center_point"`
	WalkingDistance float64               `json:"walking_distance"`
	Clients         []GroupClientResponse `json:"clients"`
}

// ExcludedResponse names a client left out of grouping or routing.
type ExcludedResponse struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

type ListGroupsResponse struct {
	Groups        []GroupResponse    `json:"groups"`
	ExcludedCount int                `json:"excluded_count"`
	Excluded      []ExcludedResponse `json:"excluded"`
}
