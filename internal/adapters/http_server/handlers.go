package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"travel_booking/internal/app"
	"travel_booking/internal/domain"
)

const maxBodyBytes = 1 << 20

type Handlers struct {
	Destinations *app.DestinationService
	Hotels       *app.HotelService
	// Probes are pinged by the readiness endpoint, keyed by check name.
	Probes map[string]domain.Pinger
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Route("/api", func(r chi.Router) {
		r.Get("/health", h.health)
		r.Get("/health/ready", h.ready)

		r.Route("/destinations", func(r chi.Router) {
			r.Get("/", h.listDestinations)
			r.Post("/", h.createDestination)
			r.Get("/{id}", h.getDestination)
			r.Put("/{id}", h.updateDestination)
			r.Delete("/{id}", h.deleteDestination)
		})

		r.Route("/hotels", func(r chi.Router) {
			r.Get("/", h.listHotels)
			r.Post("/", h.createHotel)
			r.Get("/destination/{destinationId}", h.listHotelsForDestination)
			r.Get("/{id}", h.getHotel)
			r.Put("/{id}", h.updateHotel)
			r.Delete("/{id}", h.deleteHotel)
		})
	})
}

// decode reads a JSON object body into dst. Failures come back as the same
// ValidationError shape the services produce.
func decode(w http.ResponseWriter, r *http.Request, dst any, resource string) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return app.DecodeError(err, resource)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return app.DecodeError(errors.New("trailing data after JSON object"), resource)
	}
	return nil
}

/********** health **********/

func (h *Handlers) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message":   "Travel Booking API is running successfully!",
		"timestamp": time.Now().UTC(),
	})
}

func (h *Handlers) ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status, code := "ready", http.StatusOK
	checks := make(map[string]string, len(h.Probes))
	for name, p := range h.Probes {
		if err := p.Ping(ctx); err != nil {
			checks[name] = err.Error()
			status, code = "degraded", http.StatusServiceUnavailable
			continue
		}
		checks[name] = "ok"
	}
	writeJSON(w, code, map[string]any{"status": status, "checks": checks})
}

/********** destinations **********/

func (h *Handlers) listDestinations(w http.ResponseWriter, r *http.Request) {
	ds, err := h.Destinations.List(r.Context())
	if err != nil {
		writeError(w, r, err, "", "Failed to retrieve destinations")
		return
	}
	writeCached(w, r, list(ds))
}

func (h *Handlers) getDestination(w http.ResponseWriter, r *http.Request) {
	d, err := h.Destinations.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err, "Destination not found", "Failed to retrieve destination")
		return
	}
	writeCached(w, r, envelope{Success: true, Data: d})
}

func (h *Handlers) createDestination(w http.ResponseWriter, r *http.Request) {
	var in domain.DestinationInput
	if err := decode(w, r, &in, "destination"); err != nil {
		writeError(w, r, err, "", "Failed to create destination")
		return
	}
	d, err := h.Destinations.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, err, "", "Failed to create destination")
		return
	}
	writeJSON(w, http.StatusCreated, envelope{Success: true, Message: "Destination created successfully", Data: d})
}

func (h *Handlers) updateDestination(w http.ResponseWriter, r *http.Request) {
	var in domain.DestinationInput
	if err := decode(w, r, &in, "destination"); err != nil {
		writeError(w, r, err, "", "Failed to update destination")
		return
	}
	d, err := h.Destinations.Update(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		writeError(w, r, err, "Destination not found", "Failed to update destination")
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Message: "Destination updated successfully", Data: d})
}

func (h *Handlers) deleteDestination(w http.ResponseWriter, r *http.Request) {
	d, err := h.Destinations.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err, "Destination not found", "Failed to delete destination")
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Message: "Destination deleted successfully", Data: d})
}

/********** hotels **********/

func (h *Handlers) listHotels(w http.ResponseWriter, r *http.Request) {
	hs, err := h.Hotels.List(r.Context(), r.URL.Query().Get("destinationId"))
	if err != nil {
		writeError(w, r, err, "", "Failed to retrieve hotels")
		return
	}
	writeCached(w, r, list(hs))
}

func (h *Handlers) listHotelsForDestination(w http.ResponseWriter, r *http.Request) {
	hs, err := h.Hotels.ListForDestination(r.Context(), chi.URLParam(r, "destinationId"))
	if err != nil {
		writeError(w, r, err, "", "Failed to retrieve hotels for destination")
		return
	}
	writeCached(w, r, list(hs))
}

func (h *Handlers) getHotel(w http.ResponseWriter, r *http.Request) {
	v, err := h.Hotels.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err, "Hotel not found", "Failed to retrieve hotel")
		return
	}
	writeCached(w, r, envelope{Success: true, Data: v})
}

func (h *Handlers) createHotel(w http.ResponseWriter, r *http.Request) {
	var in domain.HotelInput
	if err := decode(w, r, &in, "hotel"); err != nil {
		writeError(w, r, err, "", "Failed to create hotel")
		return
	}
	v, err := h.Hotels.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, err, "", "Failed to create hotel")
		return
	}
	writeJSON(w, http.StatusCreated, envelope{Success: true, Message: "Hotel created successfully", Data: v})
}

func (h *Handlers) updateHotel(w http.ResponseWriter, r *http.Request) {
	var in domain.HotelInput
	if err := decode(w, r, &in, "hotel"); err != nil {
		writeError(w, r, err, "", "Failed to update hotel")
		return
	}
	v, err := h.Hotels.Update(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		writeError(w, r, err, "Hotel not found", "Failed to update hotel")
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Message: "Hotel updated successfully", Data: v})
}

func (h *Handlers) deleteHotel(w http.ResponseWriter, r *http.Request) {
	v, err := h.Hotels.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err, "Hotel not found", "Failed to delete hotel")
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Message: "Hotel deleted successfully", Data: v})
}
