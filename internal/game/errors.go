package game

import "errors"

// Failures reported by the turn-cycle entry points. None of them end a run;
// callers match with errors.Is and carry on.
var (
	ErrInvalidPhase          = errors.New("operation not allowed in current phase")
	ErrInsufficientEnergy    = errors.New("insufficient energy")
	ErrInsufficientMaterials = errors.New("insufficient materials")
	ErrDegeneratePath        = errors.New("flight path needs at least 2 points")
	ErrUnknownArchetype      = errors.New("archetype not available in scenario")
	ErrOutOfBounds           = errors.New("cell outside sector grid")
)
