// Package engine provides the core rules for the Battleplanes game.
//
// Battleplanes is played on a 10x10 grid where each side hides three
// plane-shaped ships. A plane is a head cell plus nine body cells laid out
// in a fixed, orientation-dependent pattern. Shots on a body cell are hits,
// a shot on the head destroys the whole plane.
//
// Core Types:
//
// Coordinate addresses one cell ("A1" to "J10"). Plane combines a head,
// an Orientation and a board-assigned ID. Board owns placement validation
// and shot resolution for one side. Game drives two real boards and two
// scrapbooks through the GamePlay turn state machine.
//
// Usage:
//
//	game := engine.NewGame(true, engine.DefaultRand())
//	fleet, err := engine.GenerateRandomBoard(engine.DefaultRand(), engine.DefaultGenerationRounds)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Place your planes while it is your turn
//	id, err := game.BoardYou.AddPlane("E5", "N")
//	game.Advance()
//
//	// Opponent turns
//	game.OpponentPlacesPlane(fleet)
//	outcome, target, ok := game.OpponentBombards()
//
// Randomness:
//
// Every random decision goes through the Rand interface. Production code
// uses DefaultRand, tests pass a seeded *math/rand/v2.Rand.
//
// Concurrency:
//
// Nothing in this package locks. A Game must be owned by one goroutine at a
// time or guarded by the caller.
package engine
