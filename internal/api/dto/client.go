package dto

// ClientRequest is the body of POST /clients and PUT /clients/{id}.
// Lat and Lon are optional; when both are omitted the address is geocoded.
type ClientRequest struct {
	Name        string   `json:"name"`
	Address     string   `json:"address"`
	Lat         *float64 `json:"lat"`
	Lon         *float64 `json:"lon"`
	ServiceType string   `json:"service_type"`
	Priority    int      `json:"priority"`
}

type ClientResponse struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Address     string   `json:"address"`
	Lat         *float64 `json:"lat"`
	Lon         *float64 `json:"lon"`
	ServiceType string   `json:"service_type,omitempty"`
	Priority    int      `json:"priority"`
}

type ListClientsResponse struct {
	Clients []ClientResponse `json:"clients"`
}
