// Package session provides in-memory session management for Tap Merge.
//
// The session package implements:
//   - Thread-safe session storage and retrieval
//   - Unique session ID generation
//   - Session cleanup and expiration
//
// Each session owns its own engine.GameEngine, so boards never share tiles or
// random sources.
//
// Session Identifiers:
//
// Generated IDs are 4 hex characters from crypto/rand. Callers may also pick
// their own ID (letters, digits, '-' and '_'). Lookups are case-insensitive.
//
// Usage:
//
//	manager := session.NewManager()
//
//	sess, err := manager.Create("", config)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	sess, err = manager.Get(sessionID)
//
// Sessions live only as long as the process. CleanupExpiredSessions drops
// those that have not been touched within a given age.
package session
