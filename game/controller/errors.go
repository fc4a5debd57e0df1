package controller

import (
	"errors"

	"github.com/partylab/guessroom/game/session"
)

// Sentinel errors for every way a command can be rejected. All of them are
// caller-recoverable: the command is acknowledged with the error and no room
// state changes.
var (
	ErrNotFound            = session.ErrNotFound
	ErrInvalidInput        = errors.New("invalid input")
	ErrAlreadyJoined       = errors.New("already joined")
	ErrRoundActive         = errors.New("game already in progress")
	ErrForbidden           = errors.New("only the master can do that")
	ErrInsufficientPlayers = errors.New("at least 3 players required")
	ErrQuestionMissing     = errors.New("set question/answer first")
	ErrNotActive           = errors.New("game not in progress")
	ErrNotAMember          = errors.New("not in session")
	ErrMasterCannotGuess   = errors.New("master cannot guess")
	ErrAlreadyWon          = errors.New("game already won")
	ErrNoAttemptsLeft      = errors.New("no attempts left")
)

// Kind returns the wire code for a command error, or "Internal" for anything
// outside the taxonomy.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "NotFound"
	case errors.Is(err, ErrInvalidInput):
		return "InvalidInput"
	case errors.Is(err, ErrAlreadyJoined):
		return "AlreadyJoined"
	case errors.Is(err, ErrRoundActive):
		return "RoundActive"
	case errors.Is(err, ErrForbidden):
		return "Forbidden"
	case errors.Is(err, ErrInsufficientPlayers):
		return "InsufficientPlayers"
	case errors.Is(err, ErrQuestionMissing):
		return "QuestionMissing"
	case errors.Is(err, ErrNotActive):
		return "NotActive"
	case errors.Is(err, ErrNotAMember):
		return "NotAMember"
	case errors.Is(err, ErrMasterCannotGuess):
		return "MasterCannotGuess"
	case errors.Is(err, ErrNoAttemptsLeft):
		return "NoAttemptsLeft"
	case errors.Is(err, ErrAlreadyWon):
		return "AlreadyWon"
	default:
		return "Internal"
	}
}
