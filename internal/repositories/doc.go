// Package repositories implements SQLite persistence for local client state.
//
// Key Implementations:
//   - [TokenRepository] : listener and contributor bearer tokens, one live token per role
//   - [FavoriteRepository] : songs starred from the player
//
// Tokens are soft-deleted via deleted_at, so logging out keeps a history of past sessions.
// Sequence numbers provide stable ordering independent of UUIDs and creation timestamps;
// [NextSequence] atomically increments per-table counters in dedicated sequence tables.
package repositories
