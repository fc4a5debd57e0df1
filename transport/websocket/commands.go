package websocket

import "github.com/partylab/guessroom/game/controller"

// Command is an inbound frame from a client.
type Command struct {
	Action    string `json:"action"`
	RequestID string `json:"requestId,omitempty"`
	SessionID string `json:"sessionId,omitempty"`
	Name      string `json:"name,omitempty"`
	Question  string `json:"question,omitempty"`
	Answer    string `json:"answer,omitempty"`
	Guess     string `json:"guess,omitempty"`
}

// Ack is the reply to a single command, delivered only to its issuer.
type Ack struct {
	Type      string `json:"type"` // "ack"
	Action    string `json:"action"`
	RequestID string `json:"requestId,omitempty"`
	OK        bool   `json:"ok"`
	Error     string `json:"error,omitempty"`
	ErrorKind string `json:"errorKind,omitempty"`
	Result    any    `json:"result,omitempty"`
}

// Event is a room broadcast frame.
type Event struct {
	Type  string `json:"type"` // "event"
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// Welcome tells a freshly upgraded connection its connection id.
type Welcome struct {
	Type         string `json:"type"` // "welcome"
	ConnectionID string `json:"connectionId"`
}

// Action names accepted from clients.
const (
	ActionJoinSession  = "joinSession"
	ActionLeaveSession = "leaveSession"
	ActionSetQuestion  = "setQuestion"
	ActionStartGame    = "startGame"
	ActionGuess        = "guess"
)

// dispatch routes one command into the controller and acks the issuer.
func (h *Hub) dispatch(c *Client, cmd Command) {
	switch cmd.Action {
	case ActionJoinSession:
		// Enter the delivery set first so the joiner receives the
		// sessionUpdate its own join produces.
		h.joinRoom(c, cmd.SessionID)
		res, err := h.ctrl.Join(cmd.SessionID, c.id, cmd.Name)
		if err != nil {
			h.leaveRoom(c, cmd.SessionID)
			c.ack(cmd, nil, err)
			return
		}
		c.ack(cmd, res, nil)

	case ActionLeaveSession:
		// Leave the delivery set first so the leaver does not see the
		// room's final sessionUpdate. Not acknowledged.
		h.leaveRoom(c, cmd.SessionID)
		h.ctrl.Leave(cmd.SessionID, c.id)

	case ActionSetQuestion:
		err := h.ctrl.SetQuestion(cmd.SessionID, c.id, cmd.Question, cmd.Answer)
		c.ack(cmd, struct{}{}, err)

	case ActionStartGame:
		err := h.ctrl.StartGame(cmd.SessionID, c.id)
		c.ack(cmd, struct{}{}, err)

	case ActionGuess:
		res, err := h.ctrl.Guess(cmd.SessionID, c.id, cmd.Guess)
		if err != nil {
			c.ack(cmd, nil, err)
			return
		}
		c.ack(cmd, res, nil)

	default:
		c.enqueue(marshalFrame(Ack{
			Type:      "ack",
			Action:    cmd.Action,
			RequestID: cmd.RequestID,
			OK:        false,
			Error:     "unknown action",
			ErrorKind: "InvalidInput",
		}))
	}
}

// ack sends a success or error acknowledgement for cmd to the issuer.
func (c *Client) ack(cmd Command, result any, err error) {
	a := Ack{
		Type:      "ack",
		Action:    cmd.Action,
		RequestID: cmd.RequestID,
	}
	if err != nil {
		a.Error = err.Error()
		a.ErrorKind = controller.Kind(err)
	} else {
		a.OK = true
		a.Result = result
	}
	c.enqueue(marshalFrame(a))
}
