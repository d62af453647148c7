package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"github.com/lshigami/uteach/internal/dto"
	"github.com/lshigami/uteach/internal/model"
	"github.com/lshigami/uteach/internal/repository"
	"github.com/rs/zerolog/log"
)

const defaultNumQuestions = 5

type SessionService interface {
	GenerateQuestions(ctx context.Context, owner string, req dto.GenerateQuestionsRequest) (*dto.GenerateQuestionsResponse, error)
	SubmitAnswer(ctx context.Context, owner string, req dto.SubmitAnswerRequest) (*dto.SubmitAnswerResponse, error)
	History(ctx context.Context, owner string) (*dto.HistoryResponse, error)
}

type sessionService struct {
	materialRepo repository.MaterialRepository
	sessionRepo  repository.SessionRepository
	answerRepo   repository.AnswerRepository
	generator    QuestionGenerator
	evaluator    FeedbackEvaluator
	now          func() time.Time
}

func NewSessionService(
	materialRepo repository.MaterialRepository,
	sessionRepo repository.SessionRepository,
	answerRepo repository.AnswerRepository,
	generator QuestionGenerator,
	evaluator FeedbackEvaluator,
) SessionService {
	return &sessionService{
		materialRepo: materialRepo,
		sessionRepo:  sessionRepo,
		answerRepo:   answerRepo,
		generator:    generator,
		evaluator:    evaluator,
		now:          time.Now,
	}
}

func (s *sessionService) GenerateQuestions(ctx context.Context, owner string, req dto.GenerateQuestionsRequest) (*dto.GenerateQuestionsResponse, error) {
	if req.Level == "" {
		req.Level = model.LevelBeginner
	}
	if req.NumQuestions == 0 {
		req.NumQuestions = defaultNumQuestions
	}

	material, err := s.materialRepo.FindOwned(ctx, req.MaterialID, owner)
	if err != nil {
		return nil, fmt.Errorf("material %s: %w", req.MaterialID, err)
	}

	questions, err := s.generator.Generate(ctx, material.Content, req.Level, req.Persona, req.NumQuestions)
	if err != nil {
		return nil, err
	}

	session := &model.Session{
		ID:            uuid.NewString(),
		Owner:         owner,
		MaterialID:    material.ID,
		MaterialTitle: material.Title,
		Level:         req.Level,
		Persona:       req.Persona,
		Questions:     questions,
		CreatedAt:     s.now().UTC(),
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	log.Info().Str("session_id", session.ID).Str("material_id", material.ID).Int("questions", len(questions)).Msg("Session created")

	return &dto.GenerateQuestionsResponse{SessionID: session.ID, Questions: nonNilQuestions(questions)}, nil
}

func (s *sessionService) SubmitAnswer(ctx context.Context, owner string, req dto.SubmitAnswerRequest) (*dto.SubmitAnswerResponse, error) {
	session, err := s.sessionRepo.FindOwned(ctx, req.SessionID, owner)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", req.SessionID, err)
	}
	question, ok := session.FindQuestion(req.QuestionID)
	if !ok {
		return nil, fmt.Errorf("question %s: %w", req.QuestionID, ErrNotFound)
	}

	// A material that disappeared after the session was created is evaluated without context.
	var materialText string
	material, err := s.materialRepo.FindOwned(ctx, session.MaterialID, owner)
	switch {
	case err == nil:
		materialText = material.Content
	case errors.Is(err, ErrNotFound):
		log.Warn().Str("session_id", session.ID).Str("material_id", session.MaterialID).Msg("Material missing for session, evaluating without context")
	default:
		return nil, fmt.Errorf("failed to load material: %w", err)
	}

	feedback, err := s.evaluator.Evaluate(ctx, question.Question, req.AnswerText, materialText)
	if err != nil {
		return nil, err
	}

	answer := &model.Answer{
		ID:         uuid.NewString(),
		SessionID:  session.ID,
		QuestionID: question.ID,
		AnswerText: req.AnswerText,
		Feedback:   feedback,
		CreatedAt:  s.now().UTC(),
	}
	if err := s.answerRepo.Append(ctx, answer); err != nil {
		return nil, fmt.Errorf("failed to save answer: %w", err)
	}
	log.Info().Str("session_id", session.ID).Str("question_id", question.ID).Int("score", feedback.Score).Msg("Answer evaluated")

	return &dto.SubmitAnswerResponse{Feedback: dto.NewFeedbackDTO(feedback)}, nil
}

func (s *sessionService) History(ctx context.Context, owner string) (*dto.HistoryResponse, error) {
	sessions, err := s.sessionRepo.ListRecentByOwner(ctx, owner, repository.HistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	resp := &dto.HistoryResponse{Sessions: make([]dto.SessionSummaryDTO, 0, len(sessions))}
	for _, sess := range sessions {
		var summary dto.SessionSummaryDTO
		if err := copier.Copy(&summary, &sess); err != nil {
			return nil, fmt.Errorf("failed to map session %s: %w", sess.ID, err)
		}
		summary.SessionID = sess.ID
		summary.Questions = nonNilQuestions(sess.Questions)
		resp.Sessions = append(resp.Sessions, summary)
	}
	return resp, nil
}

func nonNilQuestions(questions []model.Question) []model.Question {
	if questions == nil {
		return []model.Question{}
	}
	return questions
}
