package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/partylab/guessroom/game/controller"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Guessroom",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Guessroom - MCP Interface

This is a thin client that proxies requests to the REST introspection API of
a running guessroom server.

GAME OVERVIEW:
Players join a named room over WebSocket. One player is the master: they set
a secret question/answer pair and start a round. Everyone else has a limited
number of guesses within the round's time window; the first correct guess
wins points. These tools are read-only operational views of the rooms.

AVAILABLE TOOLS:
- list_sessions: List all active rooms
- get_session: Get one room's player count and round status
- game_instructions: Full game rules and connection details`),
	)

	c.registerTools()
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game rooms with player counts and round status",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get the player count and round status of a specific room",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Room id to retrieve",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleGetSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get the rules of the guessing game and how clients connect",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// apiCall performs one REST request against the configured base URL.
func (c *Client) apiCall(method, path string, body interface{}, result interface{}) error {
	url := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

// Tool handlers

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var sessions []controller.SessionInfo
	if err := c.apiCall("GET", "/api/sessions", nil, &sessions); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if len(sessions) == 0 {
		return mcp.NewToolResultText("No active rooms."), nil
	}

	result := fmt.Sprintf("Active Rooms (%d):\n\n", len(sessions))
	for _, s := range sessions {
		status := "waiting"
		if s.InProgress {
			status = "round in progress"
		}
		result += fmt.Sprintf("- %s (%d players, %s)\n", s.ID, s.PlayerCount, status)
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var info controller.SessionInfo
	if err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s", sessionID), nil, &info); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	status := "waiting for the master to start a round"
	if info.InProgress {
		status = "round in progress"
	}
	result := fmt.Sprintf("Room: %s\nPlayers: %d\nStatus: %s\n", info.ID, info.PlayerCount, status)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instructions := `GUESSROOM - GAME RULES

SETUP:
- Players connect over WebSocket (GET /ws) and receive a connection id.
- A player joins a room by name; the room is created on first join and the
  first joiner becomes the master.
- Joining is blocked only while a round is in progress.

ROUNDS:
- The master stages a question and a secret answer (setQuestion), then
  starts the round (startGame). At least 3 players must be present.
- Every non-master player gets 3 guesses. Guesses are compared after
  trimming and case-folding.
- The first correct guess wins 10 points and ends the round for everyone.
- If nobody guesses within 60 seconds, the round ends with no winner and
  the answer is revealed.
- If the master leaves mid-round, the round is cancelled and a random
  remaining player becomes the new master.

ROOM LIFECYCLE:
- A room is destroyed the moment its last player leaves or disconnects.
- Scores accumulate per player while they stay in the room; leaving
  forfeits them.

OPERATIONAL API:
- GET /api/sessions            list rooms
- GET /api/sessions/{id}       one room's snapshot
- GET /api/sessions/{id}/invite.png   QR code of the room's join link`

	return mcp.NewToolResultText(instructions), nil
}
