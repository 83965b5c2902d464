package transport

import (
	"errors"
	"net/http"

	"freshmind/internal/domain"
	"freshmind/internal/middleware"
	"freshmind/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ProfileRequest represents the profile save payload
type ProfileRequest struct {
	Name      string `json:"name" validate:"required,min=1,max=100"`
	BirthDate string `json:"birthDate" validate:"required,datetime=2006-01-02"`
	Gender    string `json:"gender" validate:"required,oneof=M F U"`
}

// ProfileHandler handles HTTP requests for the session profile
type ProfileHandler struct {
	profileService service.ProfileService
	logger         *zap.Logger
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(profileService service.ProfileService, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
		logger:         logger,
	}
}

// RegisterRoutes registers all profile routes
func (h *ProfileHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/profile", func(r chi.Router) {
		r.Get("/", h.GetProfile)
		r.Put("/", h.SaveProfile)
		r.Delete("/", h.ClearProfile)
	})
}

// SaveProfile overwrites the session's profile. The age group is derived
// from the birth date; any ageGroup in the payload is ignored.
func (h *ProfileHandler) SaveProfile(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := middleware.GetSessionID(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusInternalServerError, "missing session")
		return
	}

	var req ProfileRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Profile validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	profile := &domain.UserProfile{
		Name:      req.Name,
		BirthDate: req.BirthDate,
		Gender:    domain.Gender(req.Gender),
	}

	stored, err := h.profileService.Save(r.Context(), sessionID, profile)
	if err != nil {
		if errors.Is(err, service.ErrInvalidBirthDate) {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid birth date")
			return
		}

		h.logger.Error("Failed to save profile", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to save profile")
		return
	}

	h.logger.Info("Profile saved", zap.String("session_id", sessionID))
	middleware.RespondWithJSON(w, http.StatusOK, stored)
}

// GetProfile returns the session's profile, or 404 when none is saved.
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := middleware.GetSessionID(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusInternalServerError, "missing session")
		return
	}

	profile, err := h.profileService.Load(r.Context(), sessionID)
	if err != nil {
		h.logger.Error("Failed to load profile", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to load profile")
		return
	}
	if profile == nil {
		middleware.RespondWithError(w, http.StatusNotFound, "no profile saved")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, profile)
}

// ClearProfile removes the session's profile.
func (h *ProfileHandler) ClearProfile(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := middleware.GetSessionID(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusInternalServerError, "missing session")
		return
	}

	if err := h.profileService.Clear(r.Context(), sessionID); err != nil {
		h.logger.Error("Failed to clear profile", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to clear profile")
		return
	}

	h.logger.Info("Profile cleared", zap.String("session_id", sessionID))
	w.WriteHeader(http.StatusNoContent)
}
