package transport

import (
	"errors"
	"net/http"

	"freshmind/internal/middleware"
	"freshmind/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ChatbotHandler handles HTTP requests for the shopping assistant
type ChatbotHandler struct {
	chatbotService service.ChatbotService
	profileService service.ProfileService
	logger         *zap.Logger
}

// NewChatbotHandler creates a new ChatbotHandler
func NewChatbotHandler(chatbotService service.ChatbotService, profileService service.ProfileService, logger *zap.Logger) *ChatbotHandler {
	return &ChatbotHandler{
		chatbotService: chatbotService,
		profileService: profileService,
		logger:         logger,
	}
}

// RegisterRoutes registers all chatbot routes. rateLimiter guards the chat
// endpoint because each turn fans out to a paid model backend.
func (h *ChatbotHandler) RegisterRoutes(r chi.Router, rateLimiter func(http.Handler) http.Handler) {
	r.Route("/api/chatbot", func(r chi.Router) {
		r.Get("/history", h.History)

		r.Group(func(r chi.Router) {
			r.Use(rateLimiter)
			r.Post("/chat", h.Chat)
		})
	})
}

// Chat forwards one user turn to the assistant backend.
func (h *ChatbotHandler) Chat(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := middleware.GetSessionID(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusInternalServerError, "missing session")
		return
	}

	var req service.ChatRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Chat validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var userID int
	profile, err := h.profileService.Load(r.Context(), sessionID)
	if err != nil {
		h.logger.Warn("Failed to load profile for chat", zap.Error(err))
		profile = nil
	} else if profile != nil {
		userID, err = h.profileService.ResolveUserID(r.Context(), profile)
		if err != nil {
			h.logger.Warn("Failed to resolve profile for chat", zap.Error(err))
			userID = 0
		}
	}

	result, err := h.chatbotService.Chat(r.Context(), sessionID, userID, profile, req)
	if err != nil {
		if errors.Is(err, service.ErrUnknownModel) {
			middleware.RespondWithError(w, http.StatusBadRequest, "unknown model")
			return
		}
		if errors.Is(err, service.ErrChatbotUnavailable) {
			h.logger.Error("Chatbot backend unavailable", zap.Error(err))
			middleware.RespondWithError(w, http.StatusBadGateway, "assistant is unavailable")
			return
		}

		h.logger.Error("Chat failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to process chat")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, result)
}

// History returns the session's chat log.
func (h *ChatbotHandler) History(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := middleware.GetSessionID(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusInternalServerError, "missing session")
		return
	}

	messages, err := h.chatbotService.History(r.Context(), sessionID)
	if err != nil {
		h.logger.Error("Failed to load chat history", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to load chat history")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"messages": messages})
}
