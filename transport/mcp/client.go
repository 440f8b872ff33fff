package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/wricardo/battleplanes/game/engine"
	"github.com/wricardo/battleplanes/game/service"
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
		baseURL: strings.TrimRight(baseURL, "/"),
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
		"Battleplanes",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Battleplanes - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Destroy the opponent's three planes before it destroys yours. A plane dies
when its head is bombarded.

AVAILABLE TOOLS:
- create_session: Create new game session
- list_sessions: List all active sessions
- get_session: Get session details
- game_view: Your board, your scrapbook of shots and whose turn it is
- place_plane: Place one of your planes (head cell + orientation)
- bombard: Fire at a cell of the opponent's board
- new_game: Start over in the same session
- turn_history: View past turns
- list_configs: List available configurations
- game_instructions: Rules, plane shape and board legend
- describe_cell: What you know about one cell on both boards`),
	)

	c.registerTools()
}

func sessionProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session ID",
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session with optional config selection",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"config_name": map[string]interface{}{
					"type":        "string",
					"description": "Name of the config to use (optional)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleGetSession)

	// Game operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_view",
		Description: "Get your board, your scrapbook of shots and the current phase",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleGameView)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "place_plane",
		Description: "Place one of your planes. The head is a cell like C1, the orientation is where the nose points",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"head": map[string]interface{}{
					"type":        "string",
					"description": "Head cell, column A-J followed by row 1-10 (e.g. C1)",
				},
				"orientation": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"N", "E", "S", "W"},
					"description": "Direction the nose points to",
				},
			},
			Required: []string{"session_id", "head", "orientation"},
		},
	}, c.handlePlacePlane)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "bombard",
		Description: "Bombard a cell of the opponent's board. The opponent answers with its own shot",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"target": map[string]interface{}{
					"type":        "string",
					"description": "Target cell, column A-J followed by row 1-10 (e.g. E5)",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of why this cell (serves as a rubber duck to help explain your reasoning)",
				},
			},
			Required: []string{"session_id", "target"},
		},
	}, c.handleBombard)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "new_game",
		Description: "Start a new match in the session with the same rules",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleNewGame)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "turn_history",
		Description: "Get the turn log with pagination",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"page": map[string]interface{}{
					"type":        "number",
					"description": "Page number (default 1)",
				},
				"limit": map[string]interface{}{
					"type":        "number",
					"description": "Turns per page (default 20, max 100)",
				},
				"order": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"asc", "desc"},
					"description": "Sort order (default desc)",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleTurnHistory)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available game configurations",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListConfigs)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get the rules, the plane shape and the board legend",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "describe_cell",
		Description: "Describe what you know about one cell on your board and on your scrapbook",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"cell": map[string]interface{}{
					"type":        "string",
					"description": "Cell, column A-J followed by row 1-10 (e.g. E5)",
				},
			},
			Required: []string{"session_id", "cell"},
		},
	}, c.handleDescribeCell)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
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
		var errResp struct {
			Error string `json:"error"`
		}
		json.NewDecoder(resp.Body).Decode(&errResp)
		if errResp.Error != "" {
			return fmt.Errorf("%s", errResp.Error)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, _ := request.Params.Arguments.(map[string]interface{})
	if args == nil {
		return map[string]interface{}{}
	}
	return args
}

func sessionPath(args map[string]interface{}, suffix string) (string, error) {
	sessionID, _ := args["session_id"].(string)
	if sessionID == "" {
		return "", fmt.Errorf("session_id is required")
	}
	return "/api/sessions/" + url.PathEscape(sessionID) + suffix, nil
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	configName, _ := args["config_name"].(string)

	body := map[string]string{}
	if configName != "" {
		body["config_name"] = configName
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/api/sessions", body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nConfig: %s\n\n%s", session.ID, session.ConfigName, formatGameView(session.View))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	if err := c.apiCall(ctx, "GET", "/api/sessions", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		phase := "unknown"
		if s.View != nil {
			phase = s.View.Phase.String()
		}
		fmt.Fprintf(&b, "- %s (Config: %s, Phase: %s, Created: %s)\n",
			s.ID, s.ConfigName, phase, s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := sessionPath(arguments(request), "")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "GET", path, nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleGameView(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := sessionPath(arguments(request), "/view")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var view service.GameView
	if err := c.apiCall(ctx, "GET", path, nil, &view); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatGameView(&view)), nil
}

func (c *Client) handlePlacePlane(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	path, err := sessionPath(args, "/planes")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	head, _ := args["head"].(string)
	orientation, _ := args["orientation"].(string)

	body := map[string]string{
		"head":        strings.ToUpper(strings.TrimSpace(head)),
		"orientation": strings.ToUpper(strings.TrimSpace(orientation)),
	}

	var result service.TurnResult
	if err := c.apiCall(ctx, "POST", path, body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatTurnResult(&result)), nil
}

func (c *Client) handleBombard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	path, err := sessionPath(args, "/bombard")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	target, _ := args["target"].(string)

	var result service.TurnResult
	body := map[string]string{"target": strings.ToUpper(strings.TrimSpace(target))}
	if err := c.apiCall(ctx, "POST", path, body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	response := formatTurnResult(&result)
	if intent, _ := args["intent"].(string); intent != "" {
		response = fmt.Sprintf("Intent: %s\n\n%s", intent, response)
	}
	return mcp.NewToolResultText(response), nil
}

func (c *Client) handleNewGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := sessionPath(arguments(request), "/new-game")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var response struct {
		Message string            `json:"message"`
		View    *service.GameView `json:"view"`
	}
	if err := c.apiCall(ctx, "POST", path, nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText("New game started.\n\n" + formatGameView(response.View)), nil
}

func (c *Client) handleTurnHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	path, err := sessionPath(args, "/history")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	query := url.Values{}
	if page, ok := args["page"].(float64); ok {
		query.Set("page", strconv.Itoa(int(page)))
	}
	if limit, ok := args["limit"].(float64); ok {
		query.Set("limit", strconv.Itoa(int(limit)))
	}
	if order, ok := args["order"].(string); ok && order != "" {
		query.Set("order", order)
	}
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var history service.HistoryResponse
	if err := c.apiCall(ctx, "GET", path, nil, &history); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatHistory(&history)), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []service.ConfigInfo
	if err := c.apiCall(ctx, "GET", "/api/configs", nil, &configs); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString("Available Configurations:\n\n")
	for _, cfg := range configs {
		fmt.Fprintf(&b, "- %s: %s\n  %s\n  first turn: %s, reveal killed planes: %t\n",
			cfg.ConfigID, cfg.Name, cfg.Description, cfg.FirstTurn, cfg.RevealKilled)
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instructions := `BATTLEPLANES - RULES

BOARD:
Two 10x10 boards. Columns are letters A-J, rows are numbers 1-10. Cells are
written column first: A1 is the top-left corner, J10 the bottom-right.

PLANES:
Each side has 3 planes. A plane is a head plus 9 body cells. Facing north
(nose up) with its head at C1 it looks like this:

    A B C D E
  1 . . ^ . .
  2 o o o o o
  3 . . o . .
  4 . o o o .

Orientations N, E, S and W rotate this shape so the nose points that way.
Planes must fit entirely on the board and may not share cells.

TURNS:
1. Placement: you and the opponent take turns placing one plane each until
   both sides have 3. Use place_plane.
2. Bombardment: you and the opponent take turns firing one shot. Use bombard.
   - Miss: nothing there
   - Hit: a body cell of a plane
   - Kill: the head of a plane, which destroys the whole plane
   A target that is not a valid cell is answered with Retry and does not use
   your turn. Shooting the same cell twice is allowed but wasted.
3. The first side to lose all 3 planes loses.

The opponent always answers right after your action, so every place_plane and
bombard result includes the opponent's move.

LEGEND (game_view boards):
  .  unknown / empty
  o  plane body (your board; killed planes on the scrapbook when revealed)
  ^ > v <  plane head and the direction it points
  x  hit
  *  miss
  #  kill

STRATEGY:
- Heads are what matter. A hit tells you a plane is near; use the shape to
  work out where its head can be.
- Wings are 5 cells wide and one row behind the head, so hits in a line of
  five usually mark the wings.
- Use describe_cell to check what you already know about a cell.`

	return mcp.NewToolResultText(instructions), nil
}

func (c *Client) handleDescribeCell(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	path, err := sessionPath(args, "/view")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	cellText, _ := args["cell"].(string)

	cell, err := engine.ParseCoordinate(strings.ToUpper(strings.TrimSpace(cellText)))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("%v. Cells are a column A-J followed by a row 1-10, e.g. E5", err)), nil
	}

	var view service.GameView
	if err := c.apiCall(ctx, "GET", path, nil, &view); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Cell %s\n\n", cell)
	fmt.Fprintf(&b, "Your board: %s\n", describeOnBoard(view.YourBoard, cell))
	fmt.Fprintf(&b, "Scrapbook (opponent's board): %s\n", describeOnBoard(view.Scrapbook, cell))

	return mcp.NewToolResultText(b.String()), nil
}

func describeOnBoard(board service.BoardView, c engine.Coordinate) string {
	shot := ""
	switch {
	case containsCoordinate(board.Kills, c):
		shot = "bombarded, kill"
	case containsCoordinate(board.Hits, c):
		shot = "bombarded, hit"
	case containsCoordinate(board.Misses, c):
		shot = "bombarded, miss"
	}

	plane := ""
	for _, group := range [][]engine.Plane{board.Planes, board.KilledPlanes} {
		for _, p := range group {
			if p.Head == c {
				plane = fmt.Sprintf("head of plane %d facing %s", p.ID, p.Orientation)
			} else if p.HasTile(c) {
				plane = fmt.Sprintf("body of plane %d facing %s", p.ID, p.Orientation)
			}
		}
	}

	switch {
	case shot != "" && plane != "":
		return shot + " (" + plane + ")"
	case shot != "":
		return shot
	case plane != "":
		return plane + ", not bombarded"
	default:
		return "nothing known, not bombarded"
	}
}

func containsCoordinate(cells []engine.Coordinate, c engine.Coordinate) bool {
	for _, cell := range cells {
		if cell == c {
			return true
		}
	}
	return false
}

// Formatting helpers

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nConfig: %s\nGame: %s\nCreated: %s\n\n%s",
		session.ID, session.ConfigName, session.GameID,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		formatGameView(session.View))
}

func formatGameView(view *service.GameView) string {
	if view == nil {
		return "No game view available"
	}

	var b strings.Builder

	switch {
	case view.GameOver && view.Winner == service.ActorYou:
		b.WriteString("🏆 YOU WON\n")
	case view.GameOver:
		b.WriteString("💀 GAME OVER - the opponent won\n")
	case view.PlanesToPlace > 0:
		fmt.Fprintf(&b, "Phase: %s - place %d more plane(s)\n", view.Phase, view.PlanesToPlace)
	case view.YourTurn:
		fmt.Fprintf(&b, "Phase: %s - your shot\n", view.Phase)
	default:
		fmt.Fprintf(&b, "Phase: %s\n", view.Phase)
	}

	fmt.Fprintf(&b, "Your planes left: %d | Opponent planes left: %d | Turns: %d\n",
		view.YourPlanesLeft, view.OpponentPlanesLeft, view.TurnCount)
	if view.Message != "" {
		fmt.Fprintf(&b, "Message: %s\n", view.Message)
	}
	if view.YourBoard.LastError != "" {
		fmt.Fprintf(&b, "Last placement error: %s\n", view.YourBoard.LastError)
	}

	if len(view.YourBoardASCII) > 0 || len(view.ScrapbookASCII) > 0 {
		b.WriteString("\n")
		b.WriteString(engine.RenderSideBySide("YOUR BOARD", view.YourBoardASCII, "SCRAPBOOK", view.ScrapbookASCII))
	}

	return b.String()
}

func formatTurnResult(result *service.TurnResult) string {
	var b strings.Builder

	switch {
	case !result.Success && result.Outcome == engine.Retry.String():
		fmt.Fprintf(&b, "↻ Retry: %s\n", result.Message)
	case result.PlaneID > 0:
		fmt.Fprintf(&b, "✓ %s\n", result.Message)
	case result.Outcome != "":
		fmt.Fprintf(&b, "%s %s\n", outcomeMark(result.Outcome), result.Message)
	default:
		fmt.Fprintf(&b, "%s\n", result.Message)
	}

	for _, event := range result.Events {
		if event.Actor == service.ActorOpponent || event.Type == "game_over" {
			fmt.Fprintf(&b, "  - %s\n", event.Message)
		}
	}

	b.WriteString("\n")
	b.WriteString(formatGameView(result.View))
	return b.String()
}

func outcomeMark(outcome string) string {
	switch outcome {
	case engine.Kill.String():
		return "💥"
	case engine.Hit.String():
		return "🎯"
	default:
		return "🌊"
	}
}

func formatHistory(history *service.HistoryResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Turn History (Page %d/%d) - Total: %d\n\n",
		history.Page, history.TotalPages, history.TotalTurns)

	for _, turn := range history.Turns {
		switch turn.Action {
		case service.ActionPlace:
			if turn.Target == "" {
				fmt.Fprintf(&b, "%d. %s placed plane %d\n", turn.Number, turn.Actor, turn.PlaneID)
			} else {
				fmt.Fprintf(&b, "%d. %s placed plane %d at %s facing %s\n",
					turn.Number, turn.Actor, turn.PlaneID, turn.Target, turn.Orientation)
			}
		default:
			fmt.Fprintf(&b, "%d. %s bombarded %s: %s\n", turn.Number, turn.Actor, turn.Target, turn.Outcome)
		}
	}

	if history.HasNext {
		b.WriteString("\n(more turns on the next page)\n")
	}
	return b.String()
}
