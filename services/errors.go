package services

import "errors"

// Errors shared by the services and mapped to HTTP statuses by the handlers.
var (
	// 404
	ErrNotFound          = errors.New("requested resource not found")
	ErrGameStateNotFound = errors.New("game state not found")
	ErrMatchdayNotFound  = errors.New("matchday not found")
	ErrMatchNotFound     = errors.New("match not found")

	// 400
	ErrValidationFailed    = errors.New("validation failed")
	ErrInvalidStage        = errors.New("invalid game stage")
	ErrInvalidMatchdayType = errors.New("invalid matchday type")

	// 500 once retries are exhausted
	ErrConcurrencyConflict = errors.New("concurrent update conflict")
)
