// Package api provides the HTTP surface for guessroom.
//
// The api package implements:
//   - Read-only introspection of live rooms (/api/sessions) for operational
//     visibility; the game protocol itself runs over the WebSocket transport
//   - QR invite images encoding a room's join link
//   - Health check and WebSocket upgrade endpoints
//
// Routes:
//
//	GET /api/health                    — liveness probe
//	GET /api/sessions                  — list rooms: id, player count, in progress
//	GET /api/sessions/{id}             — one room's snapshot (404 if unknown)
//	GET /api/sessions/{id}/invite.png  — QR code of the room's join URL
//	GET /ws                            — WebSocket upgrade
package api
