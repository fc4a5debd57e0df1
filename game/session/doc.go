// Package session provides the room data model and registry for guessroom.
//
// The session package implements:
//   - The Session entity: membership, master role, round phase, attempt
//     counters, cumulative scores, and the round timer handle
//   - The process-wide Registry mapping room ids to live sessions
//   - Per-session locking, the serialization point for all game operations
//
// Core Types:
//
// Session represents one active room. Registry is the sole owner of Session
// instances: rooms are created lazily on the first join to an unknown id and
// removed synchronously when the last member leaves.
//
// Concurrency:
//
// Every field of a Session is guarded by the session's own lock. A caller
// acquires it with Lock/Unlock and performs a complete read-modify-write
// cycle inside the critical section, so commands against the same room never
// interleave. Different rooms share no state and progress independently.
//
// The Registry's internal mutex only protects the id-to-session map itself
// (create/delete races); it is never held while a session is locked.
//
// Round Timers:
//
// ArmRoundTimer schedules a single-shot expiry callback and tags it with a
// round token. Both ResetRound and ArmRoundTimer advance the token, so a
// callback that was already queued when its round ended can detect it is
// stale and do nothing.
//
// Usage:
//
//	reg := session.NewRegistry()
//
//	sess := reg.GetOrCreate("room-1")
//	sess.Lock()
//	// ... mutate sess ...
//	sess.Unlock()
package session
