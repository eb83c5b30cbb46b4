// Package handler exposes the claim orchestrator to the command
// collaborator over HTTP. This is thin platform glue: all identity rules
// live in the services it calls.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	claimservice "github.com/Malmz/TalesFromTheSprawl/internal/claim/service"
	handleservice "github.com/Malmz/TalesFromTheSprawl/internal/handle/service"
	"github.com/Malmz/TalesFromTheSprawl/internal/platform/middleware"
	templatestore "github.com/Malmz/TalesFromTheSprawl/internal/template/store"
	"github.com/Malmz/TalesFromTheSprawl/internal/transport/http/shared"
	dErrors "github.com/Malmz/TalesFromTheSprawl/pkg/domain-errors"
	"github.com/Malmz/TalesFromTheSprawl/pkg/platform/sentinel"
)

// Handler wires HTTP endpoints to the claim service and handle registry.
type Handler struct {
	claims     *claimservice.Service
	registry   *handleservice.Registry
	templates  templatestore.Store
	logger     *slog.Logger
	adminToken string
}

func New(claims *claimservice.Service, registry *handleservice.Registry, templates templatestore.Store, adminToken string, logger *slog.Logger) *Handler {
	return &Handler{
		claims:     claims,
		registry:   registry,
		templates:  templates,
		logger:     logger,
		adminToken: adminToken,
	}
}

// Register mounts the public and admin routes.
func (h *Handler) Register(r chi.Router) {
	public := chi.NewRouter()
	public.Use(middleware.Recovery(h.logger))
	public.Use(middleware.RequestID)
	public.Use(middleware.Logger(h.logger))
	public.Post("/join", h.handleJoin)
	public.Get("/handles/{id}", h.handleLookup)

	admin := chi.NewRouter()
	admin.Use(middleware.Recovery(h.logger))
	admin.Use(middleware.RequestID)
	admin.Use(middleware.Logger(h.logger))
	admin.Use(middleware.RequireAdminToken(h.adminToken, h.logger))
	admin.Post("/known-handles", h.handleAddKnownHandle)
	admin.Delete("/actors/{id}/handles", h.handleClearActor)

	r.Mount("/", public)
	r.Mount("/admin", admin)
}

type joinRequest struct {
	UserID string `json:"user_id"`
	Handle string `json:"handle"`
}

type joinResponse struct {
	Status string `json:"status"`
	Report string `json:"report"`
}

func (h *Handler) handleJoin(w http.ResponseWriter, r *http.Request) {
	var req joinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid JSON body"))
		return
	}
	if req.UserID == "" || req.Handle == "" {
		shared.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "user_id and handle are required"))
		return
	}

	// A join that sits behind a contended gate can take ~60s before the
	// forced-clear path resolves it; give the orchestration room.
	ctx, cancel := context.WithTimeout(r.Context(), 90*time.Second)
	defer cancel()

	result, err := h.claims.Claim(ctx, req.UserID, req.Handle)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "claim failed",
			"request_id", middleware.GetRequestID(r.Context()),
			"error", err,
		)
		shared.WriteError(w, err)
		return
	}

	status := http.StatusOK
	switch result.Status {
	case claimservice.StatusRejected:
		status = http.StatusConflict
	case claimservice.StatusBusy:
		status = http.StatusServiceUnavailable
	}
	shared.WriteJSON(w, status, joinResponse{Status: string(result.Status), Report: result.Report})
}

func (h *Handler) handleLookup(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	handle, err := h.registry.Lookup(r.Context(), id)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, handle)
}

type addKnownHandleRequest struct {
	Handle string `json:"handle"`
}

func (h *Handler) handleAddKnownHandle(w http.ResponseWriter, r *http.Request) {
	var req addKnownHandleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid JSON body"))
		return
	}
	if req.Handle == "" {
		shared.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "handle is required"))
		return
	}

	if err := h.templates.Add(r.Context(), req.Handle); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			shared.WriteError(w, dErrors.New(dErrors.CodeConflict,
				"a template for that handle already exists; edit the file manually instead"))
			return
		}
		shared.WriteError(w, dErrors.Wrap(err, dErrors.CodeUnavailable, "template store unavailable"))
		return
	}
	shared.WriteJSON(w, http.StatusCreated, map[string]string{
		"handle": req.Handle,
		"note":   "scaffold added; edit the known-handles file to fill it in",
	})
}

func (h *Handler) handleClearActor(w http.ResponseWriter, r *http.Request) {
	actorID := chi.URLParam(r, "id")
	n, err := h.registry.ClearActor(r.Context(), actorID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]int{"cleared": n})
}
