package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/lshigami/uteach/config"
	"github.com/lshigami/uteach/internal/model"
	"github.com/rs/zerolog/log"
)

const (
	// maxContextRunes is the hard cut applied to material text in evaluation prompts.
	maxContextRunes = 4000
	defaultScore    = 70
	maxDiagnostic   = 100
)

type FeedbackEvaluator interface {
	// Evaluate fails only when the model call fails; malformed output degrades to FallbackFeedback.
	Evaluate(ctx context.Context, question, answer, material string) (model.Feedback, error)
}

type feedbackEvaluator struct {
	llm      LLMService
	language string
}

func NewFeedbackEvaluator(llm LLMService, cfg *config.Config) FeedbackEvaluator {
	return &feedbackEvaluator{llm: llm, language: cfg.LLM.ResponseLanguage}
}

func (e *feedbackEvaluator) Evaluate(ctx context.Context, question, answer, material string) (model.Feedback, error) {
	raw, err := e.llm.GenerateText(ctx, buildFeedbackInstruction(e.language), buildFeedbackInput(question, answer, material))
	if err != nil {
		return model.Feedback{}, fmt.Errorf("%w: %v", ErrEvaluation, err)
	}

	feedback, parseErr := ParseFeedback(raw)
	if parseErr != nil {
		log.Warn().Err(parseErr).Str("raw_response", truncateRunes(raw, 200)).Msg("Failed to parse feedback JSON, using fallback")
		return FallbackFeedback(parseErr), nil
	}
	return feedback, nil
}

func buildFeedbackInstruction(language string) string {
	var sb strings.Builder
	sb.WriteString("You are an experienced teaching assistant. Evaluate the answer a teacher gave to a student's question.\n\n")
	sb.WriteString("Evaluation criteria:\n")
	sb.WriteString("- Accuracy and completeness of the answer\n")
	sb.WriteString("- Explanation suited to the student's level\n")
	sb.WriteString("- Use of concrete examples\n")
	sb.WriteString("- Logical, easy-to-follow structure\n")
	sb.WriteString("- Content that motivates further learning\n\n")
	sb.WriteString("Respond ONLY with a JSON object in this format:\n")
	sb.WriteString("{\n")
	sb.WriteString(`  "score": <integer 0-100>,` + "\n")
	sb.WriteString(`  "strengths": ["strength 1", "strength 2", ...],` + "\n")
	sb.WriteString(`  "suggestions": ["suggestion 1", "suggestion 2", ...],` + "\n")
	sb.WriteString(`  "model_answer": "a better example answer"` + "\n")
	sb.WriteString("}\n\n")
	sb.WriteString("Make strengths and suggestions specific and constructive.")
	if language != "" {
		sb.WriteString(fmt.Sprintf(" Write every text field in %s.", language))
	}
	return sb.String()
}

func buildFeedbackInput(question, answer, material string) string {
	return fmt.Sprintf("# Student's question\n%s\n\n# Teacher's answer\n%s\n\n# Study material\n%s",
		question, answer, truncateRunes(material, maxContextRunes))
}

// ParseFeedback recovers a Feedback from raw model output, tolerating a surrounding
// code fence and loosely typed fields.
func ParseFeedback(raw string) (model.Feedback, error) {
	text := stripCodeFence(raw)

	var fields map[string]any
	if err := json.Unmarshal([]byte(text), &fields); err != nil {
		return model.Feedback{}, err
	}
	if fields == nil {
		return model.Feedback{}, fmt.Errorf("feedback is not a JSON object")
	}

	return model.Feedback{
		Score:       coerceScore(fields["score"]),
		Strengths:   coerceStrings(fields["strengths"]),
		Suggestions: coerceStrings(fields["suggestions"]),
		ModelAnswer: coerceText(fields["model_answer"]),
	}, nil
}

// FallbackFeedback is substituted whenever the model's output cannot be parsed.
func FallbackFeedback(parseErr error) model.Feedback {
	msg := "unknown error"
	if parseErr != nil {
		msg = parseErr.Error()
	}
	return model.Feedback{
		Score:       defaultScore,
		Strengths:   []string{},
		Suggestions: []string{"Failed to parse feedback: " + truncateRunes(msg, maxDiagnostic)},
		ModelAnswer: "",
	}
}

func stripCodeFence(raw string) string {
	text := strings.TrimSpace(raw)
	switch {
	case strings.HasPrefix(text, "```json"):
		text = text[len("```json"):]
	case strings.HasPrefix(text, "```"):
		text = text[len("```"):]
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}

func coerceScore(v any) int {
	var score float64
	switch x := v.(type) {
	case float64:
		score = x
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return defaultScore
		}
		score = f
	default:
		return defaultScore
	}
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return defaultScore
	}
	switch {
	case score < 0:
		return 0
	case score > 100:
		return 100
	}
	return int(score)
}

func coerceStrings(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, coerceText(item))
	}
	return out
}

func coerceText(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
