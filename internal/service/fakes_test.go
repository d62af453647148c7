package service

import (
	"context"
	"sync"

	"github.com/lshigami/uteach/config"
)

// fakeLLM returns a canned reply and records every call.
type fakeLLM struct {
	mu     sync.Mutex
	reply  string
	err    error
	calls  int
	inputs []string
	instr  []string
}

func (f *fakeLLM) GenerateText(_ context.Context, instruction, input string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.instr = append(f.instr, instruction)
	f.inputs = append(f.inputs, input)
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LLM.ResponseLanguage = "Japanese"
	return cfg
}
