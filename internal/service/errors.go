package service

import (
	"errors"

	"github.com/lshigami/uteach/internal/repository"
)

var (
	ErrDocumentParse = errors.New("document parse error")
	ErrFetch         = errors.New("fetch error")
	ErrGeneration    = errors.New("question generation error")
	ErrEvaluation    = errors.New("evaluation error")
	ErrInvalidInput  = errors.New("invalid input")

	// ErrNotFound is returned for absent and not-owned records alike.
	ErrNotFound = repository.ErrNotFound
)
