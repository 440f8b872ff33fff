// Package api provides the HTTP REST API for Battleplanes.
//
// Endpoints:
//
// Sessions:
//   - POST /api/sessions - Create a session ({"config_id": "classic"})
//   - GET /api/sessions - List sessions (sort=created|accessed, order, limit)
//   - GET /api/sessions/{id} - Get a session with its current view
//   - DELETE /api/sessions/{id} - Delete a session
//
// Game Operations:
//   - GET /api/sessions/{id}/view - Current game view
//   - POST /api/sessions/{id}/planes - Place a plane ({"head": "C1", "orientation": "N"})
//   - POST /api/sessions/{id}/bombard - Bombard a cell ({"target": "E5"})
//   - POST /api/sessions/{id}/new-game - Start a fresh match in the session
//   - GET /api/sessions/{id}/history - Turn log (page, limit, order)
//
// Configuration:
//   - GET /api/configs - List presets
//   - GET /api/configs/{name} - Get one preset
//   - POST /api/configs - Save a preset
//
// Other:
//   - GET /api, GET /api/health
//   - GET /ws?session={id} - WebSocket view updates
//
// Errors are JSON objects {"error": "...", "code": 404}. Unknown sessions and
// presets are 404, acting out of turn or after the match is over is 409,
// illegal placements are 422 and malformed input is 400.
//
// Usage:
//
//	server := api.NewServer(gameService, hub, api.WithLogger(logger))
//	http.ListenAndServe(":8080", server)
package api
