// Package websocket pushes Battleplanes game views to browsers.
//
// A central Hub owns every connection. Clients subscribe to one session by
// connecting to /ws?session=<id>; after each placement, bombardment or new
// game the API broadcasts the player's GameView to every client of that
// session. The opponent's fleet is never part of a message.
//
// Message Protocol:
//
// Outgoing messages are JSON, one per frame:
//
//	{"session_id": "ab12", "event": "view_update", "view": {...}}
//
// Incoming frames are read and discarded; they only keep the connection
// alive.
//
// Usage:
//
//	hub := websocket.NewHub(websocket.WithLogger(logger))
//	go hub.Run(ctx)
//
//	hub.ServeWS(w, r, sessionID)
//	hub.BroadcastToSession(sessionID, view)
//
// Concurrency:
//
// Only the Run goroutine touches the client registry. Broadcasts are queued
// and never block the caller; when the queue is full they are dropped.
package websocket
