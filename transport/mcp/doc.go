// Package mcp exposes guessroom's operational surface as MCP tools.
//
// The package follows a thin-client design: each tool call is proxied to the
// REST introspection API rather than touching the game directly, so the MCP
// surface can point at any running server. Tools are read-only — the game
// itself is played over the WebSocket transport by humans, not over MCP.
//
// Tools:
//   - list_sessions: all live rooms with player counts and round status
//   - get_session: one room's snapshot
//   - game_instructions: the rules of the game and how to connect
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
package mcp
