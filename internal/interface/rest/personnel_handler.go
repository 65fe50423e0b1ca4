package rest

import (
	"context"
	"net/http"

	"personnel-tracker/internal/domain/entity"
	"personnel-tracker/internal/usecase"
	"personnel-tracker/pkg/logger"

	"github.com/go-chi/chi/v5"
)

// PersonnelService manages the personnel directory
type PersonnelService interface {
	List(ctx context.Context) ([]*entity.Personnel, error)
	Get(ctx context.Context, id string) (*entity.Personnel, error)
	Create(ctx context.Context, in usecase.PersonnelInput) (*entity.Personnel, error)
	Update(ctx context.Context, id string, in usecase.PersonnelInput) (*entity.Personnel, error)
	Delete(ctx context.Context, id string, mode entity.DeleteMode) error
}

// PersonnelHandler serves /personnel
type PersonnelHandler struct {
	service PersonnelService
	logger  logger.Logger
}

// NewPersonnelHandler creates the personnel handler
func NewPersonnelHandler(service PersonnelService, logger logger.Logger) *PersonnelHandler {
	return &PersonnelHandler{
		service: service,
		logger:  logger,
	}
}

// Register mounts the personnel endpoints on the router
func (h *PersonnelHandler) Register(r chi.Router) {
	r.Route("/personnel", func(r chi.Router) {
		r.Get("/", h.HandleList)
		r.Post("/", h.HandleCreate)
		r.Get("/{id}", h.HandleGet)
		r.Put("/{id}", h.HandleUpdate)
		r.Delete("/{id}", h.HandleDelete)
	})
}

// HandleList handles GET /personnel
func (h *PersonnelHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	people, err := h.service.List(r.Context())
	if err != nil {
		h.fail(w, r, "list personnel", err)
		return
	}

	resp := make([]personnelResponse, 0, len(people))
	for _, p := range people {
		resp = append(resp, toPersonnelResponse(p))
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleGet handles GET /personnel/{id}
func (h *PersonnelHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	person, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, "get person", err)
		return
	}
	writeJSON(w, http.StatusOK, toPersonnelResponse(person))
}

// HandleCreate handles POST /personnel
func (h *PersonnelHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req personnelRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	person, err := h.service.Create(r.Context(), toPersonnelInput(req))
	if err != nil {
		h.fail(w, r, "create person", err)
		return
	}
	writeJSON(w, http.StatusCreated, toPersonnelResponse(person))
}

// HandleUpdate handles PUT /personnel/{id}
func (h *PersonnelHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req personnelRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	person, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), toPersonnelInput(req))
	if err != nil {
		h.fail(w, r, "update person", err)
		return
	}
	writeJSON(w, http.StatusOK, toPersonnelResponse(person))
}

// HandleDelete handles DELETE /personnel/{id}?mode=soft|hard
func (h *PersonnelHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	mode, err := entity.ParseDeleteMode(r.URL.Query().Get("mode"))
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id"), mode); err != nil {
		h.fail(w, r, "delete person", err)
		return
	}

	message := "Personnel deactivated successfully"
	if mode == entity.DeleteHard {
		message = "Personnel deleted permanently"
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: message})
}

func (h *PersonnelHandler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	logFailure(h.logger, r, op, err)
	writeError(w, err)
}

func toPersonnelInput(req personnelRequest) usecase.PersonnelInput {
	return usecase.PersonnelInput{
		Name:        req.Name,
		Role:        req.Role,
		Description: req.Description,
		Photo:       req.Photo,
	}
}
