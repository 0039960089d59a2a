// Package store provides the interface for plain key-value operations against
// the store together with the error taxonomy used by all kvsolar libraries.
//
// Key Components:
//
//   - IStore Interface: The get/set surface used by the kv example commands
//     (Set, SetE, SetEIfUnset, Expire, Delete, Get, Has, Close). Lookups report
//     absent keys with a boolean instead of an error.
//
//   - Error System: A structured error reporting mechanism using typed error
//     codes and descriptive messages. Two codes matter to callers:
//
//   - RetCValidation: the caller passed invalid input (for example a site
//     without coordinate). Retrying without fixing the input is pointless.
//
//   - RetCStoreUnavailable: the store failed (network failure, command
//     error). The original client error stays reachable with errors.Unwrap.
//
//     Both can be matched with errors.Is against ErrValidation and
//     ErrStoreUnavailable.
//
// Implementations:
//
//	The Redis implementation lives in the "github.com/ValentinKolb/kvsolar/lib/store/rstore"
//	package. Besides IStore it exposes the underlying client, which the DAO
//	packages use for hashes, sorted sets, geo commands and pipelines.
package store
