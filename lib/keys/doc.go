// Package keys generates the names of all keys kvsolar reads and writes.
//
// Every key has the form "<prefix>:<type>:<parts...>", e.g.
//
//	kvsolar:sites:info:42          hash of site 42
//	kvsolar:sites:geo              geo index of all sites
//	kvsolar:sites:capacity:ranking sorted set site id -> excess capacity
//	kvsolar:metric:whG:42:2024-03-01 minute values of one metric of one day
//	kvsolar:tmp:<uuid>             scratch key of a single query
//
// Tests create a generator with a unique prefix to stay isolated from each
// other and from real data.
package keys
