package repository

import (
	"context"

	"github.com/lshigami/uteach/internal/model"
	"gorm.io/gorm"
)

type answerRepository struct {
	db *gorm.DB
}

func NewAnswerRepository(db *gorm.DB) AnswerRepository {
	return &answerRepository{db: db}
}

func (r *answerRepository) Append(ctx context.Context, answer *model.Answer) error {
	return r.db.WithContext(ctx).Create(answer).Error
}

func (r *answerRepository) ListBySession(ctx context.Context, sessionID string) ([]model.Answer, error) {
	var answers []model.Answer
	err := r.db.WithContext(ctx).Where("session_id = ?", sessionID).Order("created_at ASC").Find(&answers).Error
	return answers, err
}

// AutoMigrate creates the tables backing the gorm repositories.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&model.Material{}, &model.Session{}, &model.Answer{})
}
