// Package session provides session management for Battleplanes.
//
// A session owns one match: the engine.Game, the opponent's pre-generated
// fleet, the rule preset it was started with and the turn history kept by
// the service layer.
//
// Session Identifiers:
//
// Sessions use 4-character hex IDs for easy reference. Lookups are
// case-insensitive. Caller-chosen IDs may use letters, digits, '-' and '_'
// so they are safe as file names and URL path segments.
//
// Persistence:
//
// A Manager built WithPersistence saves sessions when they are created and
// when they are accessed, and loads sessions it does not hold in memory on
// demand. Two stores are provided:
//
//   - FilePersistence writes one JSON document per session
//   - GormPersistence keeps the same document in a SQLite or Postgres table
//
// Usage:
//
//	store, err := session.NewFilePersistence("sessions")
//	if err != nil {
//		log.Fatal(err)
//	}
//	manager := session.NewManager(session.WithPersistence(store))
//
//	sess, err := manager.Create("", "classic", config)
//	sess, err = manager.Get(sess.ID)
//
// CleanupExpiredSessions evicts idle sessions from memory only; their stored
// copies remain loadable.
package session
