// Package cmd implements the command-line interface of kvsolar. It provides a
// hierarchical command structure to work with solar site data stored in redis.
//
// The package is organized into several subpackages:
//
//   - kv: Basic get/set commands on raw keys and a performance test
//   - sites: Commands to insert sites and run geo radius queries
//   - capacity: Commands for the capacity ranking (set, rank, report)
//   - metric: Commands to insert and read per-minute meter readings
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// All commands read their connection settings from flags or from KVSOLAR_*
// environment variables (also loaded from .env and .env.local).
//
// See kvsolar -help for a list of all commands.
package cmd
