// Package controller implements the game operations for guessroom.
//
// The controller package implements:
//   - All inbound commands: join, leave, set question, start game, guess
//   - Implicit leave for abruptly disconnected connections
//   - Round expiry when the timer fires with no winner
//   - Read-only introspection of live rooms
//
// Architecture:
//
// The Controller sits between the transport layer (WebSocket/REST/MCP) and
// the session registry. Every operation resolves the room, locks it, and
// performs validation, mutation, and broadcasting as one atomic step.
// Validation failures return an error before any mutation and emit no
// broadcast; the transport reports them to the issuing connection only.
//
// Broadcasting:
//
// State changes that concern the whole room are pushed through the
// Broadcaster interface while the session lock is still held, so events from
// one command are enqueued before the next command against the same room can
// run. The WebSocket hub implements Broadcaster in production; tests use a
// recording fake.
//
// Errors:
//
// Each validation failure maps to one sentinel error (ErrForbidden,
// ErrRoundActive, ...). Kind converts a sentinel to its wire code for acks.
//
// Usage:
//
//	reg := session.NewRegistry()
//	ctrl := controller.New(reg, rules.Default(), hub)
//
//	res, err := ctrl.Join("room-1", connID, "alice")
//	if err != nil {
//		// rejected, nothing changed
//	}
package controller
