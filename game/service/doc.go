// Package service provides the business logic layer for Battleplanes.
//
// The service package implements:
//   - Multi-session match management
//   - Turn orchestration, including every opponent move
//   - Player views that never expose the opponent's real board
//   - Paginated turn history
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// ConfigManager manages rule preset loading and validation.
//
// Turn Orchestration:
//
// The human only ever acts in you_place_new_plane and you_bombard. After each
// human action the service advances the engine's state machine and plays the
// opponent (placement from the session's pre-generated fleet, then random
// bombardment without replacement) until it is the human's turn again or the
// match is over. Acting in the wrong phase returns ErrNotYourTurn; acting on a
// finished match returns ErrGameOver until NewGame starts a rematch.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr, _ := config.NewManager("configs")
//	gameService := service.NewGameService(sessionMgr, configMgr)
//
//	info, err := gameService.CreateSession(ctx, "classic")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := gameService.PlacePlane(ctx, info.ID, "E5", "N")
//	result, err = gameService.Bombard(ctx, info.ID, "C3")
package service
