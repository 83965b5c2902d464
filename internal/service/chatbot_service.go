package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"freshmind/internal/domain"
	"freshmind/internal/repository"
	"freshmind/internal/store"

	"go.uber.org/zap"
)

var (
	ErrChatbotUnavailable = errors.New("chatbot backend unavailable")
	ErrUnknownModel       = errors.New("unknown chatbot model")
)

// Chat models the backend knows how to drive.
const (
	ModelGPT    = "gpt"
	ModelGemini = "gemini"
)

// ChatRequest is one user turn sent to the assistant.
type ChatRequest struct {
	Message string `json:"message" validate:"required,min=1,max=2000"`
	Model   string `json:"model" validate:"omitempty,oneof=gpt gemini"`
}

// Recommendation is one product the assistant picked, with its reasoning.
type Recommendation struct {
	ID             int     `json:"id"`
	Name           string  `json:"name"`
	Reason         string  `json:"reason"`
	RelevanceScore float64 `json:"relevance_score"`
	Price          int     `json:"price"`
	Image          string  `json:"image"`
	Rating         float64 `json:"rating"`
	Reviews        int     `json:"reviews"`
	Category       string  `json:"category"`
}

// ChatResult is the assistant's reply. RecommendedProducts, when non-empty,
// becomes the storefront's override list.
type ChatResult struct {
	Message             string           `json:"message"`
	Sentiment           string           `json:"sentiment"`
	SentimentScore      float64          `json:"sentiment_score"`
	Keywords            []string         `json:"keywords"`
	RecommendedProducts []Recommendation `json:"recommended_products"`
}

// ChatbotService proxies chat turns to the model backend and records both
// sides of the conversation.
type ChatbotService interface {
	Chat(ctx context.Context, sessionID string, userID int, profile *domain.UserProfile, req ChatRequest) (*ChatResult, error)
	History(ctx context.Context, sessionID string) ([]domain.ChatMessage, error)
}

type chatbotService struct {
	baseURL      string
	defaultModel string
	client       *http.Client
	catalog      *store.Catalog
	purchases    repository.PurchaseRepository
	messages     repository.ChatMessageRepository
	log          *zap.Logger
	now          func() time.Time
}

// NewChatbotService creates a new instance of ChatbotService
func NewChatbotService(
	baseURL string,
	defaultModel string,
	timeout time.Duration,
	catalog *store.Catalog,
	purchases repository.PurchaseRepository,
	messages repository.ChatMessageRepository,
	log *zap.Logger,
) ChatbotService {
	return &chatbotService{
		baseURL:      baseURL,
		defaultModel: defaultModel,
		client:       &http.Client{Timeout: timeout},
		catalog:      catalog,
		purchases:    purchases,
		messages:     messages,
		log:          log,
		now:          time.Now,
	}
}

// backendProfile is the profile shape the model backend expects.
type backendProfile struct {
	Gender   string `json:"gender"`
	AgeGroup string `json:"ageGroup"`
	Name     string `json:"name"`
}

type backendRequest struct {
	Message         string                 `json:"message"`
	UserProfile     *backendProfile        `json:"user_profile"`
	Products        []domain.Product       `json:"products"`
	PurchaseHistory []domain.PurchaseEvent `json:"purchase_history"`
	Model           string                 `json:"model"`
}

// Chat forwards one turn to the model backend with the catalog, the user's
// purchase history, and the profile as context, then records the user message
// and the reply. Recording failures are logged, not surfaced: the user
// already has the reply.
func (s *chatbotService) Chat(ctx context.Context, sessionID string, userID int, profile *domain.UserProfile, req ChatRequest) (*ChatResult, error) {
	model := req.Model
	if model == "" {
		model = s.defaultModel
	}
	if model != ModelGPT && model != ModelGemini {
		return nil, fmt.Errorf("%w: %s", ErrUnknownModel, model)
	}

	payload := backendRequest{
		Message:         req.Message,
		Products:        s.catalog.Products(),
		PurchaseHistory: []domain.PurchaseEvent{},
		Model:           model,
	}
	if profile != nil {
		payload.UserProfile = &backendProfile{
			Gender:   string(profile.Gender),
			AgeGroup: string(profile.AgeGroup),
			Name:     profile.Name,
		}
	}
	if userID > 0 {
		history, err := s.purchases.ListByUser(ctx, userID)
		if err != nil {
			return nil, err
		}
		payload.PurchaseHistory = history
	}

	result, err := s.callBackend(ctx, payload)
	if err != nil {
		return nil, err
	}

	s.record(ctx, sessionID, userID, req.Message, result)

	return result, nil
}

// History returns the session's chat log in chronological order.
func (s *chatbotService) History(ctx context.Context, sessionID string) ([]domain.ChatMessage, error) {
	return s.messages.ListBySession(ctx, sessionID)
}

func (s *chatbotService) callBackend(ctx context.Context, payload backendRequest) (*ChatResult, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode chat request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/api/chatbot/chat", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build chat request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrChatbotUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: backend returned %d", ErrChatbotUnavailable, resp.StatusCode)
	}

	var result ChatResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: invalid response: %v", ErrChatbotUnavailable, err)
	}
	if result.Keywords == nil {
		result.Keywords = []string{}
	}
	if result.RecommendedProducts == nil {
		result.RecommendedProducts = []Recommendation{}
	}

	return &result, nil
}

func (s *chatbotService) record(ctx context.Context, sessionID string, userID int, message string, result *ChatResult) {
	now := s.now()

	var uid *int
	if userID > 0 {
		uid = &userID
	}

	userMsg := &domain.ChatMessage{
		SessionID: sessionID,
		UserID:    uid,
		Role:      domain.ChatRoleUser,
		Content:   message,
		CreatedAt: now,
	}
	if err := s.messages.Create(ctx, userMsg); err != nil {
		s.log.Warn("failed to record user chat message", zap.Error(err))
	}

	aiMsg := &domain.ChatMessage{
		SessionID:      sessionID,
		UserID:         uid,
		Role:           domain.ChatRoleAI,
		Content:        result.Message,
		Sentiment:      result.Sentiment,
		SentimentScore: result.SentimentScore,
		CreatedAt:      now,
	}
	if err := s.messages.Create(ctx, aiMsg); err != nil {
		s.log.Warn("failed to record assistant chat message", zap.Error(err))
	}
}
