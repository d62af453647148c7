package model

import (
	"time"

	"gorm.io/datatypes"
)

// Feedback is the evaluation of a teacher's answer. Every field is always populated;
// slices are empty rather than nil once normalized.
type Feedback struct {
	Score       int                         `json:"score" bson:"score"`
	Strengths   datatypes.JSONSlice[string] `json:"strengths" bson:"strengths"`
	Suggestions datatypes.JSONSlice[string] `json:"suggestions" bson:"suggestions"`
	ModelAnswer string                      `gorm:"type:text" json:"model_answer" bson:"model_answer"`
}

// Answer is appended under its session, one per submission.
type Answer struct {
	ID         string    `gorm:"primaryKey;size:64" json:"id" bson:"_id"`
	SessionID  string    `gorm:"index;size:64;not null" json:"session_id" bson:"session_id"`
	QuestionID string    `gorm:"size:16;not null" json:"question_id" bson:"question_id"`
	AnswerText string    `gorm:"type:text;not null" json:"answer_text" bson:"answer_text"`
	Feedback   Feedback  `gorm:"embedded;embeddedPrefix:feedback_" json:"feedback" bson:"feedback"`
	CreatedAt  time.Time `gorm:"index" json:"created_at" bson:"created_at"`
}
