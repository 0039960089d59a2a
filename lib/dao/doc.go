// Package dao defines the data access objects of kvsolar.
//
// Interfaces:
//
//   - ISiteGeoDAO: sites stored as hashes plus a geo index, with radius queries
//     and the excess capacity query that intersects the radius result with the
//     capacity ranking. Implemented in the sitegeo package.
//
//   - ICapacityDAO: the capacity ranking (sorted set site id -> excess
//     capacity). Implemented in the capacity package.
//
//   - IMetricDAO: per-minute time series of every site (one sorted set per
//     site, metric and day). Implemented in the metric package.
//
// The DAOs are stateless: they are created with an injected client and a key
// generator and issue one or more commands per call. Pipelines are only used
// to save round trips, no operation is atomic end-to-end.
//
// Every operation records its latency, number of calls and number of errors
// with Observe (VictoriaMetrics metrics, op label).
//
// A shared test suite for ISiteGeoDAO implementations lives in the testing
// subpackage.
package dao
