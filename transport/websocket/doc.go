// Package websocket provides the WebSocket transport for guessroom.
//
// The websocket package implements:
//   - Real-time bidirectional communication over gorilla/websocket
//   - JSON command dispatch into the game controller with per-command acks
//   - Room-scoped event broadcasting (the controller's Broadcaster)
//   - Connection lifecycle management, including implicit leave on close
//
// Architecture:
//
// The package uses a hub-and-spoke model: the Hub tracks which connections
// are in which room, and each connection runs a read pump and a write pump
// goroutine. Connections are identified by a uuid assigned at upgrade; the
// id doubles as the player's identity inside the game.
//
// Message Protocol:
//
// A connection receives a welcome frame with its connection id, then
// exchanges JSON frames:
//   - Inbound command: {"action":"joinSession","requestId":"1","sessionId":"r1","name":"alice"}
//   - Ack:             {"type":"ack","action":"joinSession","requestId":"1","ok":true,"result":{...}}
//   - Event:           {"type":"event","event":"sessionUpdate","data":{...}}
//
// Acks go only to the issuing connection; events go to every connection in
// the room. leaveSession is the one command that is not acknowledged.
//
// Connection Lifecycle:
//
// 1. Client connects, receives welcome with its connection id
// 2. Client joins a room, issues commands, receives acks and events
// 3. Disconnection removes the connection from all rooms and is treated as
//    an implicit leave in the game
//
// Concurrency:
//
// Broadcast only enqueues onto per-connection buffered channels, so it is
// safe to call from inside the controller's critical section. A connection
// that cannot keep up has its channel closed and is dropped.
package websocket
