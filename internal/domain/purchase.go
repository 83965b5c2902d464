package domain

import "time"

// PurchaseEvent is one historical purchase. Events are append-only; the
// process loads a fixed set at boot and never mutates it.
type PurchaseEvent struct {
	ID          int       `json:"purchaseId" db:"purchase_id"`
	UserID      int       `json:"userId" db:"user_id"`
	ProductID   int       `json:"productId" db:"product_id"`
	Quantity    int       `json:"quantity" db:"quantity"`
	PurchasedAt time.Time `json:"purchasedAt" db:"purchased_at"`
}

// Chat message roles.
const (
	ChatRoleUser = "user"
	ChatRoleAI   = "ai"
)

// ChatMessage is one side of a chatbot conversation, persisted for later
// analysis alongside the sentiment the backend reported for it.
type ChatMessage struct {
	ID             int64     `json:"messageId" db:"message_id"`
	SessionID      string    `json:"sessionId" db:"session_id"`
	UserID         *int      `json:"userId,omitempty" db:"user_id"`
	Role           string    `json:"role" db:"role"`
	Content        string    `json:"content" db:"content"`
	Sentiment      string    `json:"sentiment,omitempty" db:"sentiment"`
	SentimentScore float64   `json:"sentimentScore,omitempty" db:"sentiment_score"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
}
