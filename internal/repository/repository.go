package repository

import (
	"context"
	"errors"

	"github.com/lshigami/uteach/internal/model"
)

// ErrNotFound covers both a missing record and a record owned by someone else.
var ErrNotFound = errors.New("not found")

// HistoryLimit caps the number of sessions returned by ListRecentByOwner callers.
const HistoryLimit = 20

type MaterialRepository interface {
	Create(ctx context.Context, material *model.Material) error
	// FindOwned returns ErrNotFound when the material is absent or not owned by owner.
	FindOwned(ctx context.Context, id, owner string) (*model.Material, error)
}

type SessionRepository interface {
	Create(ctx context.Context, session *model.Session) error
	FindOwned(ctx context.Context, id, owner string) (*model.Session, error)
	// ListRecentByOwner returns sessions ordered by creation time, newest first.
	ListRecentByOwner(ctx context.Context, owner string, limit int) ([]model.Session, error)
}

type AnswerRepository interface {
	Append(ctx context.Context, answer *model.Answer) error
	ListBySession(ctx context.Context, sessionID string) ([]model.Answer, error)
}
