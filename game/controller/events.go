package controller

import "github.com/partylab/guessroom/game/session"

// Broadcaster delivers an event to every connection currently in a room.
// Broadcast is called while the session lock is held, so implementations
// must only enqueue and must never call back into the controller.
type Broadcaster interface {
	Broadcast(sessionID, event string, payload any)
}

// Event names broadcast to a room.
const (
	EventSessionUpdate = "sessionUpdate"
	EventQuestionSet   = "questionSet"
	EventGameStarted   = "gameStarted"
	EventGameEnd       = "gameEnd"
)

// SessionUpdatePayload is sent whenever room membership or the master
// changes.
type SessionUpdatePayload struct {
	Players  []session.Member `json:"players"`
	MasterID string           `json:"masterId"`
	Scores   map[string]int   `json:"scores"`
}

// QuestionSetPayload announces that the master staged a question. The answer
// is never included.
type QuestionSetPayload struct {
	Question string `json:"question"`
}

// GameStartedPayload announces that a round began.
type GameStartedPayload struct {
	Question string `json:"question"`
}

// GameEndPayload announces round resolution: a win, a timeout, or the
// master leaving mid-round. Winner is empty when nobody won.
type GameEndPayload struct {
	Winner string         `json:"winner"`
	Answer string         `json:"answer"`
	Scores map[string]int `json:"scores"`
}
