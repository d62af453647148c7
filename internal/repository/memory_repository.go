package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/lshigami/uteach/internal/model"
)

// MemoryStore is the in-process backend. It implements the material, session
// and answer repositories over maps guarded by one RWMutex.
type MemoryStore struct {
	mu        sync.RWMutex
	seq       uint64
	materials map[string]model.Material
	sessions  map[string]memorySession
	answers   map[string][]model.Answer
}

type memorySession struct {
	session model.Session
	seq     uint64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		materials: make(map[string]model.Material),
		sessions:  make(map[string]memorySession),
		answers:   make(map[string][]model.Answer),
	}
}

func (s *MemoryStore) Materials() MaterialRepository { return memoryMaterials{s} }
func (s *MemoryStore) Sessions() SessionRepository   { return memorySessions{s} }
func (s *MemoryStore) Answers() AnswerRepository     { return memoryAnswers{s} }

type memoryMaterials struct{ s *MemoryStore }

func (r memoryMaterials) Create(_ context.Context, material *model.Material) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.materials[material.ID] = *material
	return nil
}

func (r memoryMaterials) FindOwned(_ context.Context, id, owner string) (*model.Material, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	m, ok := r.s.materials[id]
	if !ok || m.Owner != owner {
		return nil, ErrNotFound
	}
	return &m, nil
}

type memorySessions struct{ s *MemoryStore }

func (r memorySessions) Create(_ context.Context, session *model.Session) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.seq++
	cp := *session
	cp.Questions = append(cp.Questions[:0:0], session.Questions...)
	r.s.sessions[session.ID] = memorySession{session: cp, seq: r.s.seq}
	return nil
}

func (r memorySessions) FindOwned(_ context.Context, id, owner string) (*model.Session, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	entry, ok := r.s.sessions[id]
	if !ok || entry.session.Owner != owner {
		return nil, ErrNotFound
	}
	session := entry.session
	return &session, nil
}

func (r memorySessions) ListRecentByOwner(_ context.Context, owner string, limit int) ([]model.Session, error) {
	r.s.mu.RLock()
	entries := make([]memorySession, 0, len(r.s.sessions))
	for _, e := range r.s.sessions {
		if e.session.Owner == owner {
			entries = append(entries, e)
		}
	}
	r.s.mu.RUnlock()

	// Insertion order breaks ties between sessions created in the same instant.
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.session.CreatedAt.Equal(b.session.CreatedAt) {
			return a.session.CreatedAt.After(b.session.CreatedAt)
		}
		return a.seq > b.seq
	})
	if limit >= 0 && len(entries) > limit {
		entries = entries[:limit]
	}

	sessions := make([]model.Session, len(entries))
	for i, e := range entries {
		sessions[i] = e.session
	}
	return sessions, nil
}

type memoryAnswers struct{ s *MemoryStore }

func (r memoryAnswers) Append(_ context.Context, answer *model.Answer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.answers[answer.SessionID] = append(r.s.answers[answer.SessionID], *answer)
	return nil
}

func (r memoryAnswers) ListBySession(_ context.Context, sessionID string) ([]model.Answer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return append([]model.Answer(nil), r.s.answers[sessionID]...), nil
}
