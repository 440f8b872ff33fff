// Package mcp exposes Battleplanes to AI agents over the Model Context
// Protocol.
//
// The Client is a thin proxy: every tool call becomes a request to the REST
// API, and the JSON answer is formatted as text for the agent. The same
// server is served over stdio (the "mcp" command) or mounted on /mcp by the
// HTTP server.
//
// MCP Tools:
//   - create_session, list_sessions, get_session
//   - game_view: phase, plane counts and both boards as ASCII
//   - place_plane: head cell and orientation (N, E, S, W)
//   - bombard: one shot, answered by the opponent's move
//   - new_game, turn_history
//   - list_configs, game_instructions
//   - describe_cell: what is known about one cell on each board
//
// Cells and orientations are upper-cased before they are sent, so "e5" and
// "E5" are the same target.
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
package mcp
