package grpc

import (
	"encoding/json"

	"github.com/dmitrijs2005/pymax/internal/server/models"
)

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

type ConfirmRequest struct {
	Token string `json:"token"`
}

type ConfirmResponse struct {
	Outcome string `json:"outcome"`
	Message string `json:"message"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Message      string `json:"message"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	SessionToken string `json:"session_token"`
}

// AddTransactionRequest takes the amount as raw JSON so both numbers and
// numeric strings are accepted.
type AddTransactionRequest struct {
	Date     string          `json:"date"`
	Kind     string          `json:"kind"`
	Category string          `json:"category"`
	Amount   json.RawMessage `json:"amount"`
	Client   string          `json:"client"`
	Note     string          `json:"note"`
}

type AddTransactionResponse struct {
	Message string `json:"message"`
	ID      int64  `json:"id"`
}

type ListTransactionsRequest struct {
	Date string `json:"date,omitempty"`
}

type DateRangeRequest struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type ListTransactionsResponse struct {
	Transactions []models.Transaction `json:"transactions"`
}

type DailySummaryRequest struct {
	Date string `json:"date"`
}

type ExportResponse struct {
	Key  string `json:"key"`
	URL  string `json:"url"`
	Rows int    `json:"rows"`
}

type PingRequest struct{}

type PingResponse struct {
	Status string `json:"status"`
}
