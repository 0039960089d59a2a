// Package common provides the configuration structures and the logging setup
// shared by the kvsolar libraries and the command-line interface.
//
// Key Components:
//
//   - ClientConfig: Connection parameters for the key-value store (endpoints,
//     credentials, timeouts, pool size) together with the key prefix used to
//     namespace all generated keys. String() renders a human-readable report.
//
//   - Logger: Custom logging implementation that plugs into the logger package
//     of Dragonboat (logger.ILogger). Packages obtain named loggers with
//     logger.GetLogger("dao") and friends; InitLoggers installs the factory and
//     applies the configured level to every kvsolar logger.
package common
