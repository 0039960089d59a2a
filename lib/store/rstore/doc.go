// Package rstore implements store.IStore on top of Redis using go-redis.
//
// A Store owns one long-lived client (go-redis pools the underlying
// connections). It is created by the caller with NewRedisStore, which
// verifies the connection with a PING, and released with Close. The DAO
// packages do not open connections themselves; they receive the client
// returned by Client() at construction time.
//
// All errors returned by the client are wrapped with store.Unavailable, so
// callers can match them with errors.Is(err, store.ErrStoreUnavailable).
// A missing key is not an error: Get reports it with loaded == false.
package rstore
