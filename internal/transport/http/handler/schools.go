package handler

import (
	"encoding/json"
	"mime"
	"net/http"

	"github.com/school-directory/internal/application/school"
	"github.com/school-directory/internal/domain"
)

// SchoolHandler handles the school directory endpoints.
type SchoolHandler struct {
	svc school.Service
}

func NewSchoolHandler(svc school.Service) *SchoolHandler { return &SchoolHandler{svc: svc} }

func (h *SchoolHandler) List(w http.ResponseWriter, r *http.Request) {
	schools, err := h.svc.List(r.Context())
	if err != nil {
		writeServiceError(w, err, "Failed to fetch schools")
		return
	}
	writeJSON(w, http.StatusOK, SchoolsEnvelope{Success: true, Schools: schools})
}

func (h *SchoolHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeSchool(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	sc, err := h.svc.Create(r.Context(), req)
	if err != nil {
		writeServiceError(w, err, "Failed to add school")
		return
	}
	writeJSON(w, http.StatusCreated, CreatedEnvelope{Success: true, Message: "School added", ID: sc.ID})
}

// decodeSchool accepts JSON, urlencoded and multipart bodies.
func decodeSchool(r *http.Request) (domain.CreateSchoolRequest, bool) {
	var req domain.CreateSchoolRequest
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/x-www-form-urlencoded", "multipart/form-data":
		if mediaType == "multipart/form-data" {
			if err := r.ParseMultipartForm(1 << 20); err != nil {
				return req, false
			}
		} else if err := r.ParseForm(); err != nil {
			return req, false
		}
		req.Name = r.FormValue("name")
		req.Address = r.FormValue("address")
		req.City = r.FormValue("city")
		req.State = r.FormValue("state")
		req.Contact = r.FormValue("contact")
		req.EmailID = r.FormValue("email_id")
		if img := r.FormValue("image"); img != "" {
			req.Image = &img
		}
		return req, true
	default:
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return req, false
		}
		return req, true
	}
}
