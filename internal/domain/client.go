package domain

// Represents a single customer property serviced by the operator.
// Position is nil until the address has been geocoded. Service attributes
// are carried for the CRUD layer and are not read by grouping or routing.
type Client struct {
	ID          string
	Name        string
	Address     string
	Position    *Coordinates
	ServiceType string
	Priority    int
}

// HasPosition reports whether the client can take part in grouping and routing.
func (c *Client) HasPosition() bool {
	return c.Position != nil && c.Position.Valid()
}
