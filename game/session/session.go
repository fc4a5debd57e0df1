package session

import (
	"sync"
	"time"
)

// Phase is the round lifecycle state of a room.
type Phase int

const (
	// Idle means no question is set and no round is running.
	Idle Phase = iota
	// QuestionSet means the master has staged a question but the round has
	// not started. Behaviorally identical to Idle except Question is set.
	QuestionSet
	// InProgress means a round is running and guesses are accepted.
	InProgress
)

// String returns the wire name of the phase.
func (p Phase) String() string {
	switch p {
	case QuestionSet:
		return "questionSet"
	case InProgress:
		return "inProgress"
	default:
		return "idle"
	}
}

// Member is one joined connection in a room.
type Member struct {
	ConnID string `json:"id"`
	Name   string `json:"name"`
}

// Session is the per-room state. All fields are guarded by the session's
// lock; callers must hold it across a complete operation.
type Session struct {
	ID       string
	Members  []Member // insertion order = join order
	MasterID string
	Phase    Phase
	Question string
	Answer   string // trimmed, lower-cased canonical form
	Attempts map[string]int
	WinnerID string
	Scores   map[string]int

	// round is advanced whenever a round starts or resets; a pending timer
	// callback compares its captured token against it to detect staleness.
	round     uint64
	timer     *time.Timer
	destroyed bool

	mu sync.Mutex
}

// New returns an empty Idle session for the given room id.
func New(id string) *Session {
	return &Session{
		ID:       id,
		Attempts: make(map[string]int),
		Scores:   make(map[string]int),
	}
}

// Lock acquires the session's lock.
func (s *Session) Lock() { s.mu.Lock() }

// Unlock releases the session's lock.
func (s *Session) Unlock() { s.mu.Unlock() }

// MarkDestroyed flags the session as removed from the registry. Operations
// that obtained the pointer before removal check this after locking.
func (s *Session) MarkDestroyed() { s.destroyed = true }

// IsDestroyed reports whether the session has been removed from the registry.
func (s *Session) IsDestroyed() bool { return s.destroyed }

// IsMember reports whether the connection is currently joined.
func (s *Session) IsMember(connID string) bool {
	for _, m := range s.Members {
		if m.ConnID == connID {
			return true
		}
	}
	return false
}

// RemoveMember removes the connection from the member list along with its
// score and attempt entries. A no-op if the connection is not a member.
func (s *Session) RemoveMember(connID string) {
	dst := s.Members[:0]
	for _, m := range s.Members {
		if m.ConnID == connID {
			continue
		}
		dst = append(dst, m)
	}
	s.Members = dst
	delete(s.Scores, connID)
	delete(s.Attempts, connID)
}

// MembersSnapshot returns a copy of the member list safe to use outside the
// session lock.
func (s *Session) MembersSnapshot() []Member {
	out := make([]Member, len(s.Members))
	copy(out, s.Members)
	return out
}

// ScoresSnapshot returns a copy of the scores map safe to use outside the
// session lock.
func (s *Session) ScoresSnapshot() map[string]int {
	out := make(map[string]int, len(s.Scores))
	for id, score := range s.Scores {
		out[id] = score
	}
	return out
}

// RoundToken returns the current round generation.
func (s *Session) RoundToken() uint64 { return s.round }

// ArmRoundTimer starts a new round generation and schedules fn to fire after
// d, passing the generation token. Any previously scheduled timer is stopped.
func (s *Session) ArmRoundTimer(d time.Duration, fn func(token uint64)) {
	s.StopRoundTimer()
	s.round++
	token := s.round
	s.timer = time.AfterFunc(d, func() { fn(token) })
}

// StopRoundTimer stops and clears the round timer if one is scheduled. A
// callback that already fired but has not yet run is neutralized by the
// round token check, not by Stop.
func (s *Session) StopRoundTimer() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// ResetRound clears all round state and returns the session to Idle. Scores
// are kept. The round generation is advanced so any in-flight expiry
// callback becomes stale.
func (s *Session) ResetRound() {
	s.StopRoundTimer()
	s.round++
	s.Phase = Idle
	s.Question = ""
	s.Answer = ""
	s.Attempts = make(map[string]int)
	s.WinnerID = ""
}
