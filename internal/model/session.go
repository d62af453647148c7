package model

import (
	"time"

	"gorm.io/datatypes"
)

const (
	LevelBeginner     = "beginner"
	LevelIntermediate = "intermediate"
	LevelAdvanced     = "advanced"
)

// Session is one generated question set. Questions are fixed at creation;
// answers live in their own collection keyed by SessionID.
type Session struct {
	ID            string                        `gorm:"primaryKey;size:64" json:"id" bson:"_id"`
	Owner         string                        `gorm:"index:idx_sessions_owner_created,priority:1;size:255" json:"owner,omitempty" bson:"owner"`
	MaterialID    string                        `gorm:"index;size:64;not null" json:"material_id" bson:"material_id"`
	MaterialTitle string                        `json:"material_title" bson:"material_title"`
	Level         string                        `gorm:"size:32;not null" json:"level" bson:"level"`
	Persona       string                        `gorm:"size:32" json:"persona,omitempty" bson:"persona,omitempty"`
	Questions     datatypes.JSONSlice[Question] `json:"questions" bson:"questions"`
	CreatedAt     time.Time                     `gorm:"index:idx_sessions_owner_created,priority:2" json:"created_at" bson:"created_at"`
}

// FindQuestion returns the question with the given positional id.
func (s *Session) FindQuestion(id string) (Question, bool) {
	for _, q := range s.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}
