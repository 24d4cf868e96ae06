// Package cmd implements the command-line interface for the ShibuDB client.
// It provides a hierarchical command structure for interacting with a
// ShibuDB server.
//
// The package is organized into several subpackages:
//
//   - space: Commands for space management (create, delete, list)
//   - kv: Commands for key-value operations (put, get, delete)
//   - vector: Commands for vector operations (insert, search, range, get)
//   - user: Commands for user administration (create, passwd, role, ...)
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// See shibudb-cli -help for a list of all commands.
package cmd
