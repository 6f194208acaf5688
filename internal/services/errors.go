package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("record not found")

// ValidationError is a rejected input. Message is safe to show to the user.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalid(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// AnalysisError means a job description could not be parsed by the model.
type AnalysisError struct{ Err error }

func (e *AnalysisError) Error() string { return "job analysis failed: " + e.Err.Error() }
func (e *AnalysisError) Unwrap() error { return e.Err }

// ScoringError means a match score could not be produced.
type ScoringError struct{ Err error }

func (e *ScoringError) Error() string { return "match scoring failed: " + e.Err.Error() }
func (e *ScoringError) Unwrap() error { return e.Err }

// GenerationError means a cover letter could not be produced.
type GenerationError struct{ Err error }

func (e *GenerationError) Error() string { return "cover letter generation failed: " + e.Err.Error() }
func (e *GenerationError) Unwrap() error { return e.Err }

// notFound maps gorm's missing-row error onto ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
