package controller

import (
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/partylab/guessroom/game/rules"
	"github.com/partylab/guessroom/game/session"
)

// Controller executes game commands against the session registry. It is safe
// for concurrent use; commands against the same room are serialized by the
// session lock, different rooms proceed in parallel.
type Controller struct {
	registry      *session.Registry
	rules         rules.Rules
	bc            Broadcaster
	roundDuration time.Duration
	randIntn      func(n int) int
}

// Option customizes a Controller.
type Option func(*Controller)

// WithRandIntn replaces the randomness source used for master reassignment.
// Tests inject a deterministic function here.
func WithRandIntn(fn func(n int) int) Option {
	return func(c *Controller) { c.randIntn = fn }
}

// WithRoundDuration overrides the round length from the ruleset. Tests use
// short durations; the server uses it for the -round-duration flag.
func WithRoundDuration(d time.Duration) Option {
	return func(c *Controller) { c.roundDuration = d }
}

// New creates a controller over the given registry and ruleset, broadcasting
// through bc.
func New(reg *session.Registry, r rules.Rules, bc Broadcaster, opts ...Option) *Controller {
	c := &Controller{
		registry:      reg,
		rules:         r,
		bc:            bc,
		roundDuration: r.RoundDuration(),
		randIntn:      rand.Intn,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// JoinResult is the acknowledgement for a successful join.
type JoinResult struct {
	Master bool `json:"master"`
}

// Join adds a connection to a room, creating the room if it does not exist.
// The first joiner becomes master. Joining is blocked only while a round is
// in progress.
func (c *Controller) Join(sessionID, connID, name string) (*JoinResult, error) {
	if sessionID == "" || connID == "" || name == "" {
		return nil, ErrInvalidInput
	}

	for {
		sess := c.registry.GetOrCreate(sessionID)
		sess.Lock()
		if sess.IsDestroyed() {
			// Lost a race with the last member leaving; the registry entry
			// is gone, so resolve a fresh one.
			sess.Unlock()
			continue
		}

		if sess.Phase == session.InProgress {
			sess.Unlock()
			return nil, ErrRoundActive
		}
		if sess.IsMember(connID) {
			sess.Unlock()
			return nil, ErrAlreadyJoined
		}

		sess.Members = append(sess.Members, session.Member{ConnID: connID, Name: name})
		if _, ok := sess.Scores[connID]; !ok {
			sess.Scores[connID] = 0
		}
		if sess.MasterID == "" {
			sess.MasterID = connID
		}
		master := sess.MasterID == connID

		c.broadcastSessionUpdate(sess)
		sess.Unlock()

		return &JoinResult{Master: master}, nil
	}
}

// Leave removes a connection from a room. Unknown rooms and non-members are
// ignored; leaving never fails.
func (c *Controller) Leave(sessionID, connID string) {
	sess, err := c.registry.Get(sessionID)
	if err != nil {
		return
	}

	sess.Lock()
	defer sess.Unlock()
	if sess.IsDestroyed() {
		return
	}
	c.removeLocked(sess, connID)
}

// Disconnect applies leave semantics to every room containing the
// connection. Called by the transport when a connection drops without an
// explicit leave.
func (c *Controller) Disconnect(connID string) {
	for _, sess := range c.registry.List() {
		sess.Lock()
		if !sess.IsDestroyed() {
			c.removeLocked(sess, connID)
		}
		sess.Unlock()
	}
}

// removeLocked removes the member and handles the fallout: destroying empty
// rooms, reassigning the master, and force-ending a round the departing
// master was running. Caller holds the session lock.
func (c *Controller) removeLocked(sess *session.Session, connID string) {
	if !sess.IsMember(connID) {
		return
	}

	sess.RemoveMember(connID)

	if len(sess.Members) == 0 {
		sess.StopRoundTimer()
		sess.MarkDestroyed()
		c.registry.Remove(sess.ID)
		return
	}

	if sess.MasterID == connID {
		next := sess.Members[c.randIntn(len(sess.Members))]
		sess.MasterID = next.ConnID

		if sess.Phase == session.InProgress {
			answer := sess.Answer
			if answer == "" {
				answer = "N/A"
			}
			c.bc.Broadcast(sess.ID, EventGameEnd, GameEndPayload{
				Answer: answer,
				Scores: sess.ScoresSnapshot(),
			})
			sess.ResetRound()
		}
	}

	c.broadcastSessionUpdate(sess)
}

// SetQuestion stages the prompt and answer for the next round. Master only,
// not allowed mid-round. May be called repeatedly to overwrite.
func (c *Controller) SetQuestion(sessionID, connID, question, answer string) error {
	sess, err := c.registry.Get(sessionID)
	if err != nil {
		return ErrNotFound
	}

	sess.Lock()
	defer sess.Unlock()
	switch {
	case sess.IsDestroyed():
		return ErrNotFound
	case sess.MasterID != connID:
		return ErrForbidden
	case sess.Phase == session.InProgress:
		return ErrRoundActive
	case question == "" || answer == "":
		return ErrInvalidInput
	}

	sess.Question = question
	sess.Answer = normalize(answer)
	sess.Phase = session.QuestionSet

	c.bc.Broadcast(sess.ID, EventQuestionSet, QuestionSetPayload{Question: question})
	return nil
}

// StartGame begins a round: master only, needs a staged question and enough
// players. Arms the round timer.
func (c *Controller) StartGame(sessionID, connID string) error {
	sess, err := c.registry.Get(sessionID)
	if err != nil {
		return ErrNotFound
	}

	sess.Lock()
	defer sess.Unlock()
	switch {
	case sess.IsDestroyed():
		return ErrNotFound
	case sess.MasterID != connID:
		return ErrForbidden
	case sess.Phase == session.InProgress:
		return ErrRoundActive
	case len(sess.Members) < c.rules.MinPlayers:
		return ErrInsufficientPlayers
	case sess.Question == "" || sess.Answer == "":
		return ErrQuestionMissing
	}

	sess.Phase = session.InProgress
	sess.Attempts = make(map[string]int)
	sess.WinnerID = ""
	sess.ArmRoundTimer(c.roundDuration, func(token uint64) {
		c.expireRound(sessionID, token)
	})

	c.bc.Broadcast(sess.ID, EventGameStarted, GameStartedPayload{Question: sess.Question})
	return nil
}

// GuessResult is the private acknowledgement for a guess. AttemptsRemaining
// is only present on incorrect guesses.
type GuessResult struct {
	Correct           bool `json:"correct"`
	AttemptsRemaining *int `json:"attemptsRemaining,omitempty"`
}

// Guess submits one answer attempt. The first correct guess wins the round,
// scores points, and ends the round for everyone; incorrect guesses are
// acknowledged privately with the remaining attempt count.
func (c *Controller) Guess(sessionID, connID, guess string) (*GuessResult, error) {
	sess, err := c.registry.Get(sessionID)
	if err != nil {
		return nil, ErrNotFound
	}

	sess.Lock()
	defer sess.Unlock()
	switch {
	case sess.IsDestroyed():
		return nil, ErrNotFound
	case sess.Phase != session.InProgress:
		return nil, ErrNotActive
	case sess.WinnerID != "":
		return nil, ErrAlreadyWon
	case !sess.IsMember(connID):
		return nil, ErrNotAMember
	case connID == sess.MasterID:
		return nil, ErrMasterCannotGuess
	}

	// The rejected attempt still counts: a player who burned all attempts
	// keeps incrementing past the cap and keeps getting rejected.
	sess.Attempts[connID]++
	count := sess.Attempts[connID]
	if count > c.rules.MaxAttempts {
		return nil, ErrNoAttemptsLeft
	}

	if normalize(guess) == sess.Answer {
		sess.WinnerID = connID
		sess.Scores[connID] += c.rules.PointsPerWin
		sess.StopRoundTimer()

		c.bc.Broadcast(sess.ID, EventGameEnd, GameEndPayload{
			Winner: connID,
			Answer: sess.Answer,
			Scores: sess.ScoresSnapshot(),
		})
		sess.ResetRound()

		return &GuessResult{Correct: true}, nil
	}

	remaining := c.rules.MaxAttempts - count
	return &GuessResult{Correct: false, AttemptsRemaining: &remaining}, nil
}

// expireRound is the round timer callback. It re-resolves the room and
// checks the round token so a timer whose round already ended (win, master
// departure, teardown) does nothing.
func (c *Controller) expireRound(sessionID string, token uint64) {
	sess, err := c.registry.Get(sessionID)
	if err != nil {
		return
	}

	sess.Lock()
	defer sess.Unlock()
	if sess.IsDestroyed() || sess.Phase != session.InProgress || sess.RoundToken() != token {
		return
	}

	c.bc.Broadcast(sess.ID, EventGameEnd, GameEndPayload{
		Answer: sess.Answer,
		Scores: sess.ScoresSnapshot(),
	})
	sess.ResetRound()
}

// SessionInfo is the read-only operational view of one room.
type SessionInfo struct {
	ID          string `json:"id"`
	PlayerCount int    `json:"playerCount"`
	InProgress  bool   `json:"inProgress"`
}

// ListSessions returns an operational snapshot of every live room, sorted by
// id for stable output.
func (c *Controller) ListSessions() []SessionInfo {
	sessions := c.registry.List()
	result := make([]SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		sess.Lock()
		if !sess.IsDestroyed() {
			result = append(result, SessionInfo{
				ID:          sess.ID,
				PlayerCount: len(sess.Members),
				InProgress:  sess.Phase == session.InProgress,
			})
		}
		sess.Unlock()
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

// DescribeSession returns the operational snapshot of one room.
func (c *Controller) DescribeSession(sessionID string) (*SessionInfo, error) {
	sess, err := c.registry.Get(sessionID)
	if err != nil {
		return nil, ErrNotFound
	}

	sess.Lock()
	defer sess.Unlock()
	if sess.IsDestroyed() {
		return nil, ErrNotFound
	}
	return &SessionInfo{
		ID:          sess.ID,
		PlayerCount: len(sess.Members),
		InProgress:  sess.Phase == session.InProgress,
	}, nil
}

// broadcastSessionUpdate pushes the current membership, master, and scores
// to the room. Caller holds the session lock.
func (c *Controller) broadcastSessionUpdate(sess *session.Session) {
	c.bc.Broadcast(sess.ID, EventSessionUpdate, SessionUpdatePayload{
		Players:  sess.MembersSnapshot(),
		MasterID: sess.MasterID,
		Scores:   sess.ScoresSnapshot(),
	})
}

// normalize folds a guess or answer to its canonical comparison form.
func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
