package domain

import "errors"

var (
	// ErrSessionNotFound is returned when a user acts before starting a quiz.
	ErrSessionNotFound = errors.New("quiz session not found")
	// ErrSessionCompleted is returned when a user acts on a finished session.
	ErrSessionCompleted = errors.New("quiz session already completed")
	// ErrNoCategories rejects quiz start with an empty category selection.
	ErrNoCategories = errors.New("no categories selected")
	// ErrNoQuestions rejects quiz start when the filters match nothing.
	ErrNoQuestions = errors.New("no questions match the selected filters")
	// ErrBankNotFound indicates the question bank could not be loaded.
	ErrBankNotFound = errors.New("question bank not found")
)
