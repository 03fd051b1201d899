// Package websocket pushes game updates to open browser forms.
//
// A central Hub owns every connection. After each mutation of the active game
// the API calls Broadcast, and the hub fans the event out to all connected
// clients, so a form left open in another tab refreshes without polling.
//
// Message Protocol:
//
// Outgoing messages are JSON objects:
//
//	{"event": "state_update", "data": {...session info...}}
//
// Several queued messages may be written in one frame, separated by newlines.
// Incoming messages are read only to keep the connection alive.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run(ctx)
//
//	http.HandleFunc("/ws", hub.ServeWS)
//	hub.Broadcast(websocket.EventStateUpdate, info)
//
// Concurrency:
//
// Registration, removal and fan-out all happen on the Run goroutine. Each
// client has its own write pump and read pump; a client whose send buffer is
// full is dropped rather than allowed to stall the hub.
package websocket
