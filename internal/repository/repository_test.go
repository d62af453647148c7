package repository

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/lshigami/uteach/internal/model"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

type repos struct {
	materials MaterialRepository
	sessions  SessionRepository
	answers   AnswerRepository
}

func newSQLiteRepos(tb testing.TB) repos {
	tb.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(tb.TempDir(), "uteach.db")), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		tb.Fatalf("open sqlite: %v", err)
	}
	if err := AutoMigrate(db); err != nil {
		tb.Fatalf("migrate: %v", err)
	}
	tb.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return repos{NewMaterialRepository(db), NewSessionRepository(db), NewAnswerRepository(db)}
}

func newMemoryRepos(testing.TB) repos {
	s := NewMemoryStore()
	return repos{s.Materials(), s.Sessions(), s.Answers()}
}

func eachBackend(t *testing.T, fn func(t *testing.T, r repos)) {
	backends := map[string]func(testing.TB) repos{
		"memory": newMemoryRepos,
		"sqlite": newSQLiteRepos,
	}
	for name, build := range backends {
		t.Run(name, func(t *testing.T) {
			fn(t, build(t))
		})
	}
}

var base = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func TestMaterialOwnership(t *testing.T) {
	eachBackend(t, func(t *testing.T, r repos) {
		ctx := context.Background()
		for _, m := range []model.Material{
			{ID: "m1", Owner: "alice", Title: "a", SourceType: model.SourcePDF, Content: "alpha", CreatedAt: base},
			{ID: "m2", Owner: "", Title: "b", SourceType: model.SourceURL, SourceURL: "https://x.test/b", Content: "beta", CreatedAt: base},
		} {
			m := m
			if err := r.materials.Create(ctx, &m); err != nil {
				t.Fatalf("create %s: %v", m.ID, err)
			}
		}

		got, err := r.materials.FindOwned(ctx, "m1", "alice")
		if err != nil {
			t.Fatalf("FindOwned: %v", err)
		}
		if got.Content != "alpha" || got.Title != "a" {
			t.Errorf("material = %+v", got)
		}
		if _, err := r.materials.FindOwned(ctx, "m2", ""); err != nil {
			t.Errorf("anonymous material: %v", err)
		}

		for _, c := range []struct{ id, owner string }{{"m1", "bob"}, {"m1", ""}, {"m2", "alice"}, {"zz", "alice"}} {
			if _, err := r.materials.FindOwned(ctx, c.id, c.owner); !errors.Is(err, ErrNotFound) {
				t.Errorf("FindOwned(%s, %q) err = %v, want ErrNotFound", c.id, c.owner, err)
			}
		}
	})
}

func TestSessionRoundTripAndHistory(t *testing.T) {
	eachBackend(t, func(t *testing.T, r repos) {
		ctx := context.Background()
		for i := 0; i < 25; i++ {
			owner := "alice"
			if i%5 == 0 {
				owner = "bob"
			}
			s := &model.Session{
				ID:         fmt.Sprintf("s%02d", i),
				Owner:      owner,
				MaterialID: "m1",
				Level:      model.LevelIntermediate,
				Questions:  []model.Question{{ID: "q1", Question: "why?"}, {ID: "q2", Question: "how?"}},
				CreatedAt:  base.Add(time.Duration(i) * time.Minute),
			}
			if err := r.sessions.Create(ctx, s); err != nil {
				t.Fatalf("create %s: %v", s.ID, err)
			}
		}

		got, err := r.sessions.FindOwned(ctx, "s01", "alice")
		if err != nil {
			t.Fatalf("FindOwned: %v", err)
		}
		if q, ok := got.FindQuestion("q2"); !ok || q.Question != "how?" {
			t.Errorf("questions = %+v", got.Questions)
		}
		if _, err := r.sessions.FindOwned(ctx, "s01", "bob"); !errors.Is(err, ErrNotFound) {
			t.Errorf("cross-owner read err = %v, want ErrNotFound", err)
		}

		hist, err := r.sessions.ListRecentByOwner(ctx, "alice", 10)
		if err != nil {
			t.Fatalf("ListRecentByOwner: %v", err)
		}
		want := []string{"s24", "s23", "s22", "s21", "s19", "s18", "s17", "s16", "s14", "s13"}
		if len(hist) != len(want) {
			t.Fatalf("history length = %d, want %d", len(hist), len(want))
		}
		for i, s := range hist {
			if s.ID != want[i] {
				t.Errorf("history[%d] = %s, want %s", i, s.ID, want[i])
			}
		}

		none, err := r.sessions.ListRecentByOwner(ctx, "carol", 10)
		if err != nil || len(none) != 0 {
			t.Errorf("carol history = %v, %v", none, err)
		}
	})
}

func TestAnswersAppend(t *testing.T) {
	eachBackend(t, func(t *testing.T, r repos) {
		ctx := context.Background()
		for i, text := range []string{"first try", "second try"} {
			a := &model.Answer{
				ID:         fmt.Sprintf("a%d", i),
				SessionID:  "s1",
				QuestionID: "q1",
				AnswerText: text,
				Feedback: model.Feedback{
					Score:       60 + i*20,
					Strengths:   []string{"clear"},
					Suggestions: []string{},
					ModelAnswer: "model",
				},
				CreatedAt: base.Add(time.Duration(i) * time.Second),
			}
			if err := r.answers.Append(ctx, a); err != nil {
				t.Fatalf("append: %v", err)
			}
		}

		got, err := r.answers.ListBySession(ctx, "s1")
		if err != nil {
			t.Fatalf("ListBySession: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("got %d answers, want 2", len(got))
		}
		if got[0].AnswerText != "first try" || got[1].Feedback.Score != 80 {
			t.Errorf("answers = %+v", got)
		}
		if len(got[0].Feedback.Strengths) != 1 || got[0].Feedback.Strengths[0] != "clear" {
			t.Errorf("strengths = %v", got[0].Feedback.Strengths)
		}

		other, err := r.answers.ListBySession(ctx, "s2")
		if err != nil || len(other) != 0 {
			t.Errorf("s2 answers = %v, %v", other, err)
		}
	})
}
