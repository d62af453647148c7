package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/lshigami/uteach/config"
	"github.com/lshigami/uteach/internal/model"
	"github.com/rs/zerolog/log"
)

const (
	PersonaCurious    = "curious"
	PersonaPractical  = "practical"
	PersonaAnalytical = "analytical"
	PersonaCustom     = "custom"
)

var personaDescriptions = map[string]string{
	PersonaCurious:    "a curious student who keeps asking \"why?\" and \"how?\" and wants to understand things deeply",
	PersonaPractical:  "a practical student who cares about real applications and concrete examples and wants usable knowledge",
	PersonaAnalytical: "an analytical student who prefers logical reasoning and wants a systematic understanding",
	PersonaCustom:     "a student with the personality and traits the user has described",
}

const defaultLearnerDescription = "a highly motivated student"

var levelLabels = map[string]string{
	model.LevelBeginner:     "beginner",
	model.LevelIntermediate: "intermediate",
	model.LevelAdvanced:     "advanced",
}

// PersonaDescription maps a persona key to its archetype. An empty key means no persona;
// an unrecognized key falls back to the curious student.
func PersonaDescription(persona string) string {
	if persona == "" {
		return defaultLearnerDescription
	}
	if d, ok := personaDescriptions[persona]; ok {
		return d
	}
	return personaDescriptions[PersonaCurious]
}

// IsKnownPersona reports whether persona is one of the enumerated archetypes.
func IsKnownPersona(persona string) bool {
	_, ok := personaDescriptions[persona]
	return ok
}

func levelLabel(level string) string {
	if l, ok := levelLabels[level]; ok {
		return l
	}
	return level
}

type QuestionGenerator interface {
	Generate(ctx context.Context, material, level, persona string, count int) ([]model.Question, error)
}

type questionGenerator struct {
	llm      LLMService
	language string
}

func NewQuestionGenerator(llm LLMService, cfg *config.Config) QuestionGenerator {
	return &questionGenerator{llm: llm, language: cfg.LLM.ResponseLanguage}
}

func (g *questionGenerator) Generate(ctx context.Context, material, level, persona string, count int) ([]model.Question, error) {
	instruction := buildQuestionInstruction(level, persona, count, g.language)

	raw, err := g.llm.GenerateText(ctx, instruction, material)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGeneration, err)
	}

	questions := ParseQuestions(raw, count)
	log.Info().
		Str("level", level).
		Str("persona", persona).
		Int("requested", count).
		Int("parsed", len(questions)).
		Msg("Generated student questions")
	return questions, nil
}

func buildQuestionInstruction(level, persona string, count int, language string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("You are %s. ", PersonaDescription(persona)))
	sb.WriteString(fmt.Sprintf("Read the study material provided and write %d questions about it ", count))
	sb.WriteString(fmt.Sprintf("as a learner at the %s level.\n\n", levelLabel(level)))
	sb.WriteString("Question requirements:\n")
	sb.WriteString(fmt.Sprintf("- Difficulty suited to a %s learner\n", levelLabel(level)))
	sb.WriteString("- Focus on the points that matter for understanding the material\n")
	if persona != "" {
		sb.WriteString("- Ask the kind of questions your personality would ask\n")
	}
	sb.WriteString("- Concrete questions that deepen the learner's understanding\n\n")
	sb.WriteString("Response format:\n")
	sb.WriteString("Q1: [question]\nQ2: [question]\nQ3: [question]\n...\n\n")
	sb.WriteString("Write each question on its own line. Do not use JSON or code blocks; plain question text only.")
	if language != "" {
		sb.WriteString(fmt.Sprintf(" Answer in %s.", language))
	}
	return sb.String()
}

// ParseQuestions turns free model text into at most count questions. Blank lines and
// lines opening a code fence or a JSON value are dropped; an enumeration label such as
// "Q1:" is removed by keeping the text after the first colon.
func ParseQuestions(text string, count int) []model.Question {
	questions := make([]model.Question, 0)
	if count <= 0 {
		return questions
	}
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "```") || strings.HasPrefix(line, "{") || strings.HasPrefix(line, "[") {
			continue
		}
		question := line
		if _, after, found := strings.Cut(line, ":"); found {
			question = strings.TrimSpace(after)
		}
		if question == "" {
			continue
		}
		questions = append(questions, model.Question{
			ID:       fmt.Sprintf("q%d", len(questions)+1),
			Question: question,
		})
		if len(questions) == count {
			break
		}
	}
	return questions
}
