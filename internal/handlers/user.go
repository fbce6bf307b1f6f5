package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/stak-backend/internal/dto"
	"github.com/GregMSThompson/stak-backend/internal/middleware"
	"github.com/GregMSThompson/stak-backend/internal/models"
	"github.com/GregMSThompson/stak-backend/internal/response"
)

type UserService interface {
	GetProfile(ctx context.Context, uid, email string) (*models.User, error)
	UpdateProfile(ctx context.Context, uid, email string, req dto.UpdateProfileRequest) (*models.User, error)
	GetStak(ctx context.Context, uid, email string) ([]string, error)
	SetStak(ctx context.Context, uid, email string, stak []string) ([]string, error)
	GetPassed(ctx context.Context, uid, email string) ([]models.PassedBrand, error)
	SetPassed(ctx context.Context, uid, email string, passed []models.PassedBrand) ([]models.PassedBrand, error)
	GetIntelState(ctx context.Context, uid, email string) (models.IntelState, error)
	SetIntelState(ctx context.Context, uid, email string, state models.IntelState) (models.IntelState, error)
}

type userHandlers struct {
	ResponseHandler response.ResponseHandler
	UserSvc         UserService
}

func NewUserHandlers(deps *Deps) *userHandlers {
	return &userHandlers{
		ResponseHandler: deps.ResponseHandler,
		UserSvc:         deps.UserSvc,
	}
}

func (h *userHandlers) UserRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.GetMe)
	r.Put("/", h.UpdateMe)
	r.Get("/stak", h.GetStak)
	r.Put("/stak", h.PutStak)
	r.Get("/passed", h.GetPassed)
	r.Put("/passed", h.PutPassed)
	r.Get("/intel-state", h.GetIntelState)
	r.Put("/intel-state", h.PutIntelState)
	return r
}

func identity(r *http.Request) (string, string) {
	return middleware.UID(r.Context()), middleware.Email(r.Context())
}

func (h *userHandlers) GetMe(w http.ResponseWriter, r *http.Request) {
	uid, email := identity(r)
	user, err := h.UserSvc.GetProfile(r.Context(), uid, email)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, user)
}

func (h *userHandlers) UpdateMe(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateProfileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	uid, email := identity(r)
	user, err := h.UserSvc.UpdateProfile(r.Context(), uid, email, req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, user)
}

func (h *userHandlers) GetStak(w http.ResponseWriter, r *http.Request) {
	uid, email := identity(r)
	stak, err := h.UserSvc.GetStak(r.Context(), uid, email)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, dto.StakResponse{Stak: stak})
}

func (h *userHandlers) PutStak(w http.ResponseWriter, r *http.Request) {
	var req dto.StakRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	uid, email := identity(r)
	stak, err := h.UserSvc.SetStak(r.Context(), uid, email, req.Stak)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, dto.StakResponse{Stak: stak})
}

func (h *userHandlers) GetPassed(w http.ResponseWriter, r *http.Request) {
	uid, email := identity(r)
	passed, err := h.UserSvc.GetPassed(r.Context(), uid, email)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, dto.PassedResponse{Passed: passed})
}

func (h *userHandlers) PutPassed(w http.ResponseWriter, r *http.Request) {
	var req dto.PassedRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	uid, email := identity(r)
	passed, err := h.UserSvc.SetPassed(r.Context(), uid, email, req.Passed)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, dto.PassedResponse{Passed: passed})
}

func (h *userHandlers) GetIntelState(w http.ResponseWriter, r *http.Request) {
	uid, email := identity(r)
	state, err := h.UserSvc.GetIntelState(r.Context(), uid, email)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, state)
}

func (h *userHandlers) PutIntelState(w http.ResponseWriter, r *http.Request) {
	var req models.IntelState
	if err := decodeJSON(w, r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	uid, email := identity(r)
	state, err := h.UserSvc.SetIntelState(r.Context(), uid, email, req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, state)
}
