package dto

import (
	"time"

	"github.com/lshigami/uteach/internal/model"
)

type UploadResponse struct {
	MaterialID string `json:"material_id"`
	Chars      int    `json:"chars"`
	Text       string `json:"text"` // first 500 characters of the extracted text
}

type GenerateQuestionsResponse struct {
	SessionID string           `json:"session_id"`
	Questions []model.Question `json:"questions"`
}

type FeedbackDTO struct {
	Score       int      `json:"score"`
	Strengths   []string `json:"strengths"`
	Suggestions []string `json:"suggestions"`
	ModelAnswer string   `json:"model_answer"`
}

type SubmitAnswerResponse struct {
	Feedback FeedbackDTO `json:"feedback"`
}

// SessionSummaryDTO is one entry of the history listing.
type SessionSummaryDTO struct {
	SessionID     string           `json:"session_id"`
	MaterialID    string           `json:"material_id"`
	MaterialTitle string           `json:"material_title"`
	Level         string           `json:"level"`
	Persona       string           `json:"persona,omitempty"`
	Questions     []model.Question `json:"questions"`
	CreatedAt     time.Time        `json:"created_at"`
}

type HistoryResponse struct {
	Sessions []SessionSummaryDTO `json:"sessions"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

// NewFeedbackDTO copies feedback, keeping both lists non-nil on the wire.
func NewFeedbackDTO(f model.Feedback) FeedbackDTO {
	out := FeedbackDTO{
		Score:       f.Score,
		Strengths:   append([]string{}, f.Strengths...),
		Suggestions: append([]string{}, f.Suggestions...),
		ModelAnswer: f.ModelAnswer,
	}
	return out
}
