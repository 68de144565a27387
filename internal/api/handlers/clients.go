package handlers

import (
	"lawn-route-service/internal/api/dto"
	"lawn-route-service/internal/domain"
	"lawn-route-service/internal/services"
	"net/http"
	"strings"
)

// ClientHandler exposes client CRUD endpoints.
type ClientHandler struct {
	Service *services.ClientService
}

// Collection serves /clients.
func (h *ClientHandler) Collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.create(w, r)
	default:
		methodNotAllowed(w, r, "GET, POST")
	}
}

// Item serves /clients/{id}.
func (h *ClientHandler) Item(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		writeError(w, r, http.StatusBadRequest, "client id is required")
		return
	}

	switch r.Method {
	case http.MethodGet:
		c, err := h.Service.Get(r.Context(), id)
		if err != nil {
			writeServiceError(w, r, "get client", err)
			return
		}
		writeJSON(w, r, http.StatusOK, toClientResponse(c))

	case http.MethodPut:
		in, ok := decodeClientInput(w, r)
		if !ok {
			return
		}
		c, err := h.Service.Update(r.Context(), id, in)
		if err != nil {
			writeServiceError(w, r, "update client", err)
			return
		}
		writeJSON(w, r, http.StatusOK, toClientResponse(c))

	case http.MethodDelete:
		if err := h.Service.Delete(r.Context(), id); err != nil {
			writeServiceError(w, r, "delete client", err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		methodNotAllowed(w, r, "GET, PUT, DELETE")
	}
}

func (h *ClientHandler) list(w http.ResponseWriter, r *http.Request) {
	clients, err := h.Service.List(r.Context())
	if err != nil {
		writeServiceError(w, r, "list clients", err)
		return
	}

	res := dto.ListClientsResponse{Clients: make([]dto.ClientResponse, 0, len(clients))}
	for _, c := range clients {
		res.Clients = append(res.Clients, toClientResponse(c))
	}

	writeJSON(w, r, http.StatusOK, res)
}

func (h *ClientHandler) create(w http.ResponseWriter, r *http.Request) {
	in, ok := decodeClientInput(w, r)
	if !ok {
		return
	}

	c, err := h.Service.Create(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, "create client", err)
		return
	}

	w.Header().Set("Location", "/clients/"+c.ID)
	writeJSON(w, r, http.StatusCreated, toClientResponse(c))
}

func decodeClientInput(w http.ResponseWriter, r *http.Request) (services.ClientInput, bool) {
	var req dto.ClientRequest
	if !decodeJSON(w, r, &req) {
		return services.ClientInput{}, false
	}

	if (req.Lat == nil) != (req.Lon == nil) {
		writeError(w, r, http.StatusBadRequest, "lat and lon must be provided together")
		return services.ClientInput{}, false
	}

	in := services.ClientInput{
		Name:        req.Name,
		Address:     req.Address,
		ServiceType: req.ServiceType,
		Priority:    req.Priority,
	}
	if req.Lat != nil {
		in.Position = &domain.Coordinates{Lat: *req.Lat, Lon: *req.Lon}
	}

	return in, true
}

func toClientResponse(c *domain.Client) dto.ClientResponse {
	res := dto.ClientResponse{
		ID:          c.ID,
		Name:        c.Name,
		Address:     c.Address,
		ServiceType: c.ServiceType,
		Priority:    c.Priority,
	}
	if c.Position != nil {
		lat, lon := c.Position.Lat, c.Position.Lon
		res.Lat, res.Lon = &lat, &lon
	}
	return res
}
