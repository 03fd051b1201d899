// Package session holds the single active game of the Number Guessing Game.
//
// The game is single-player: the Manager keeps at most one session, and
// creating a new one replaces the previous one. A session pairs the player
// identity with the round engine and the shell's presentation state.
//
// Session Identifiers:
//
// Sessions carry a 4-character hex ID so transports and logs can tell one
// game apart from the one that replaced it.
//
// Concurrency:
//
// The Manager is safe for concurrent use. The service layer additionally
// serialises every game operation, so the session's fields are only mutated
// by one caller at a time.
//
// Usage:
//
//	manager := session.NewManager()
//
//	sess, err := manager.Create("Ada", engine.Medium, nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	sess, err = manager.Get()
package session
