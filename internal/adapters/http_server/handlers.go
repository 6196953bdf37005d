package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"lodgeiq/internal/app"
	"lodgeiq/internal/domain"
)

type Handlers struct {
	Hotels      *app.HotelService
	Inspections *app.InspectionService
	Uploads     *app.UploadService
	Q           *app.QueryService
}

func (s *Server) MountHandlers(h *Handlers, authmw func(http.Handler) http.Handler) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Route("/v1", func(r chi.Router) {
		r.Use(authmw)

		r.Get("/hotels", h.listHotels)
		r.Post("/hotels", h.createHotel)
		r.Get("/hotels/{id}", h.getHotel)
		r.Put("/hotels/{id}", h.updateHotel)
		r.Delete("/hotels/{id}", h.deleteHotel)

		r.Get("/checklist-items", h.listChecklistItems)

		r.Post("/inspections", h.createInspection)
		r.Get("/inspections", h.listInspections)
		r.Get("/inspections/{id}", h.getInspection)
		r.Put("/inspections/{id}", h.updateInspection)

		r.Post("/inspection-results", h.recordResult)
		r.Post("/upload-photo", h.uploadPhoto)

		r.Get("/reports/summary", h.reportSummary)
	})
}

// ---- response helpers ----

type errBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errBody{Error: msg})
}

// mapError translates service errors to the wire taxonomy: validation 400,
// not-found 404 (with the entity-specific message), forbidden 403, everything
// else 500 with a generic message and a server-side log line.
func mapError(w http.ResponseWriter, err error, notFoundMsg, genericMsg string) {
	var ve domain.ValidationError
	switch {
	case errors.As(err, &ve):
		writeError(w, http.StatusBadRequest, string(ve))
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, notFoundMsg)
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, "Forbidden")
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "Authentication required")
	default:
		log.Error().Err(err).Msg(genericMsg)
		writeError(w, http.StatusInternalServerError, genericMsg)
	}
}

func actor(w http.ResponseWriter, r *http.Request) (domain.User, bool) {
	u, ok := UserFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
	}
	return u, ok
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return false
	}
	return true
}

// ---- hotels ----

func (h *Handlers) listHotels(w http.ResponseWriter, r *http.Request) {
	hotels, err := h.Hotels.List(r.Context())
	if err != nil {
		mapError(w, err, "", "Failed to fetch hotels")
		return
	}
	if hotels == nil {
		hotels = []domain.HotelSummary{}
	}
	writeJSON(w, http.StatusOK, hotels)
}

func (h *Handlers) createHotel(w http.ResponseWriter, r *http.Request) {
	u, ok := actor(w, r)
	if !ok {
		return
	}
	var p app.HotelParams
	if !decode(w, r, &p) {
		return
	}
	hotel, err := h.Hotels.Create(r.Context(), u, p)
	if err != nil {
		mapError(w, err, "Hotel not found", "Failed to create hotel")
		return
	}
	writeJSON(w, http.StatusCreated, hotel)
}

func (h *Handlers) getHotel(w http.ResponseWriter, r *http.Request) {
	detail, err := h.Hotels.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		mapError(w, err, "Hotel not found", "Failed to fetch hotel")
		return
	}
	if detail.Inspections == nil {
		detail.Inspections = []domain.InspectionSummary{}
	}
	writeJSON(w, http.StatusOK, detail)
}

func (h *Handlers) updateHotel(w http.ResponseWriter, r *http.Request) {
	u, ok := actor(w, r)
	if !ok {
		return
	}
	var p app.HotelParams
	if !decode(w, r, &p) {
		return
	}
	hotel, err := h.Hotels.Update(r.Context(), u, chi.URLParam(r, "id"), p)
	if err != nil {
		mapError(w, err, "Hotel not found", "Failed to update hotel")
		return
	}
	writeJSON(w, http.StatusOK, hotel)
}

func (h *Handlers) deleteHotel(w http.ResponseWriter, r *http.Request) {
	u, ok := actor(w, r)
	if !ok {
		return
	}
	if err := h.Hotels.Delete(r.Context(), u, chi.URLParam(r, "id")); err != nil {
		mapError(w, err, "Hotel not found", "Failed to delete hotel")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Hotel deleted successfully"})
}

// ---- checklist ----

func (h *Handlers) listChecklistItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.Q.ChecklistItems(r.Context())
	if err != nil {
		mapError(w, err, "", "Failed to fetch checklist items")
		return
	}
	if items == nil {
		items = []domain.ChecklistItem{}
	}
	writeJSON(w, http.StatusOK, items)
}

// ---- inspections ----

func (h *Handlers) createInspection(w http.ResponseWriter, r *http.Request) {
	u, ok := actor(w, r)
	if !ok {
		return
	}
	var p app.StartParams
	if !decode(w, r, &p) {
		return
	}
	inspection, err := h.Inspections.Start(r.Context(), u, p)
	if err != nil {
		mapError(w, err, "Hotel not found", "Failed to create inspection")
		return
	}
	writeJSON(w, http.StatusCreated, inspection)
}

func (h *Handlers) listInspections(w http.ResponseWriter, r *http.Request) {
	u, ok := actor(w, r)
	if !ok {
		return
	}
	var p app.ListParams
	if v := r.URL.Query().Get("hotelId"); v != "" {
		p.HotelID = &v
	}
	if v := r.URL.Query().Get("status"); v != "" {
		p.Status = &v
	}
	list, err := h.Inspections.List(r.Context(), u, p)
	if err != nil {
		mapError(w, err, "", "Failed to fetch inspections")
		return
	}
	if list == nil {
		list = []domain.InspectionSummary{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handlers) getInspection(w http.ResponseWriter, r *http.Request) {
	u, ok := actor(w, r)
	if !ok {
		return
	}
	detail, err := h.Inspections.Get(r.Context(), u, chi.URLParam(r, "id"))
	if err != nil {
		mapError(w, err, "Inspection not found", "Failed to fetch inspection")
		return
	}
	if detail.Results == nil {
		detail.Results = []domain.ResultDetail{}
	}
	writeJSON(w, http.StatusOK, detail)
}

func (h *Handlers) updateInspection(w http.ResponseWriter, r *http.Request) {
	u, ok := actor(w, r)
	if !ok {
		return
	}
	var p app.UpdateParams
	if !decode(w, r, &p) {
		return
	}
	inspection, err := h.Inspections.Update(r.Context(), u, chi.URLParam(r, "id"), p)
	if err != nil {
		mapError(w, err, "Inspection not found", "Failed to update inspection")
		return
	}
	writeJSON(w, http.StatusOK, inspection)
}

func (h *Handlers) recordResult(w http.ResponseWriter, r *http.Request) {
	u, ok := actor(w, r)
	if !ok {
		return
	}
	var p app.ResultParams
	if !decode(w, r, &p) {
		return
	}
	res, err := h.Inspections.RecordResult(r.Context(), u, p)
	if err != nil {
		mapError(w, err, "Inspection not found", "Failed to save inspection result")
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

// ---- photo upload ----

func (h *Handlers) uploadPhoto(w http.ResponseWriter, r *http.Request) {
	u, ok := actor(w, r)
	if !ok {
		return
	}

	// Cap slightly above the photo limit so oversized uploads still reach the
	// size validation instead of failing as a bare connection error.
	r.Body = http.MaxBytesReader(w, r.Body, app.MaxPhotoBytes+1<<20)
	if err := r.ParseMultipartForm(app.MaxPhotoBytes + 1<<20); err != nil {
		writeError(w, http.StatusBadRequest, "File too large. Maximum size is 4.5MB.")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read file")
		return
	}

	url, err := h.Uploads.UploadPhoto(r.Context(), u, app.PhotoParams{
		InspectionID:    r.FormValue("inspectionId"),
		ChecklistItemID: r.FormValue("checklistItemId"),
		Filename:        header.Filename,
		ContentType:     header.Header.Get("Content-Type"),
		Data:            data,
	})
	if err != nil {
		mapError(w, err, "Inspection not found", "Failed to upload photo")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"url": url})
}

// ---- reports ----

func (h *Handlers) reportSummary(w http.ResponseWriter, r *http.Request) {
	m, err := h.Q.ReportSummary(r.Context())
	if err != nil {
		mapError(w, err, "", "Failed to fetch report metrics")
		return
	}
	writeJSON(w, http.StatusOK, m)
}
