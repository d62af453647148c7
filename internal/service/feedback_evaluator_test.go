package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestParseFeedback_FencedJSON(t *testing.T) {
	raw := "```json\n{\"score\": 85, \"strengths\": [\"clear\", \"uses examples\"], \"suggestions\": [\"add a diagram\"], \"model_answer\": \"A goroutine is...\"}\n```"

	fb, err := ParseFeedback(raw)
	if err != nil {
		t.Fatalf("ParseFeedback: %v", err)
	}
	if fb.Score != 85 {
		t.Errorf("score = %d, want 85", fb.Score)
	}
	if len(fb.Strengths) != 2 || fb.Strengths[1] != "uses examples" {
		t.Errorf("strengths = %v", fb.Strengths)
	}
	if len(fb.Suggestions) != 1 || fb.Suggestions[0] != "add a diagram" {
		t.Errorf("suggestions = %v", fb.Suggestions)
	}
	if fb.ModelAnswer != "A goroutine is..." {
		t.Errorf("model_answer = %q", fb.ModelAnswer)
	}
}

func TestParseFeedback_Coercions(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantScore int
		wantStr   []string
		wantModel string
	}{
		{"string score", `{"score": "92"}`, 92, []string{}, ""},
		{"missing score", `{"strengths": ["x"]}`, defaultScore, []string{"x"}, ""},
		{"non numeric score", `{"score": "great"}`, defaultScore, []string{}, ""},
		{"score above range", `{"score": 140}`, 100, []string{}, ""},
		{"score below range", `{"score": -3}`, 0, []string{}, ""},
		{"fractional score", `{"score": 77.6}`, 77, []string{}, ""},
		{"mixed strengths", `{"strengths": ["a", 2, true]}`, defaultScore, []string{"a", "2", "true"}, ""},
		{"strengths not a list", `{"strengths": "just one"}`, defaultScore, []string{}, ""},
		{"numeric model answer", `{"model_answer": 42}`, defaultScore, []string{}, "42"},
		{"bare fence", "```\n{\"score\": 10}\n```", 10, []string{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fb, err := ParseFeedback(tt.raw)
			if err != nil {
				t.Fatalf("ParseFeedback: %v", err)
			}
			if fb.Score != tt.wantScore {
				t.Errorf("score = %d, want %d", fb.Score, tt.wantScore)
			}
			if len(fb.Strengths) != len(tt.wantStr) {
				t.Fatalf("strengths = %v, want %v", fb.Strengths, tt.wantStr)
			}
			for i := range tt.wantStr {
				if fb.Strengths[i] != tt.wantStr[i] {
					t.Errorf("strengths[%d] = %q, want %q", i, fb.Strengths[i], tt.wantStr[i])
				}
			}
			if fb.Suggestions == nil {
				t.Error("suggestions should never be nil")
			}
			if fb.ModelAnswer != tt.wantModel {
				t.Errorf("model_answer = %q, want %q", fb.ModelAnswer, tt.wantModel)
			}
		})
	}
}

func TestParseFeedback_Rejects(t *testing.T) {
	for _, raw := range []string{"Great answer, 9/10!", "null", "[1,2]", ""} {
		if _, err := ParseFeedback(raw); err == nil {
			t.Errorf("ParseFeedback(%q) succeeded, want error", raw)
		}
	}
}

func TestFeedbackEvaluator_FallbackOnProse(t *testing.T) {
	eval := NewFeedbackEvaluator(&fakeLLM{reply: "This answer is quite good overall."}, testConfig())

	fb, err := eval.Evaluate(context.Background(), "Why?", "Because.", "material")
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if fb.Score != 70 {
		t.Errorf("score = %d, want 70", fb.Score)
	}
	if fb.Strengths == nil || len(fb.Strengths) != 0 {
		t.Errorf("strengths = %#v, want empty", fb.Strengths)
	}
	if len(fb.Suggestions) != 1 || !strings.HasPrefix(fb.Suggestions[0], "Failed to parse feedback: ") {
		t.Errorf("suggestions = %v", fb.Suggestions)
	}
	if fb.ModelAnswer != "" {
		t.Errorf("model_answer = %q, want empty", fb.ModelAnswer)
	}
}

func TestFallbackFeedback_TruncatesDiagnostic(t *testing.T) {
	fb := FallbackFeedback(errors.New(strings.Repeat("é", 300)))
	msg := strings.TrimPrefix(fb.Suggestions[0], "Failed to parse feedback: ")
	if n := utf8.RuneCountInString(msg); n != maxDiagnostic {
		t.Errorf("diagnostic length = %d, want %d", n, maxDiagnostic)
	}
}

func TestFeedbackEvaluator_TruncatesMaterial(t *testing.T) {
	llm := &fakeLLM{reply: `{"score": 80}`}
	eval := NewFeedbackEvaluator(llm, testConfig())
	material := strings.Repeat("あ", maxContextRunes) + "TAIL"

	if _, err := eval.Evaluate(context.Background(), "question text", "answer text", material); err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	input := llm.inputs[0]
	if strings.Contains(input, "TAIL") {
		t.Error("material beyond the context limit reached the model")
	}
	if strings.Count(input, "あ") != maxContextRunes {
		t.Errorf("material runes in input = %d, want %d", strings.Count(input, "あ"), maxContextRunes)
	}
	if !strings.Contains(input, "question text") || !strings.Contains(input, "answer text") {
		t.Errorf("question or answer missing from input:\n%s", input[:200])
	}
	if !strings.Contains(llm.instr[0], "Japanese") {
		t.Error("response language missing from instruction")
	}
}

func TestFeedbackEvaluator_ModelError(t *testing.T) {
	eval := NewFeedbackEvaluator(&fakeLLM{err: errors.New("timeout")}, testConfig())

	_, err := eval.Evaluate(context.Background(), "q", "a", "m")
	if !errors.Is(err, ErrEvaluation) {
		t.Fatalf("err = %v, want ErrEvaluation", err)
	}
}
