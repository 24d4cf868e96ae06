// Package common defines the ShibuDB wire protocol types shared by the
// client, transport and pool packages.
//
// The protocol is newline-delimited JSON over a plain TCP socket: each
// request is exactly one UTF-8 JSON object terminated by '\n', each response
// is exactly one line, either a JSON object or arbitrary text.
//
// Key components:
//
//   - Request and the New*Request factory functions: canonical request
//     objects for every command the server understands. Every request
//     carries the command tag in "type" and the current username in "user".
//
//   - Credentials: the untagged handshake payload that must be the first
//     message on a new connection.
//
//   - Response and DecodeResponse: the reply codec. Replies that are not
//     JSON objects are passed through as successful plain-text replies with
//     the Raw marker set, preserving the server's historical contract.
//
//   - Error: the single error type used across the client, classified by
//     ErrorKind (connection, authentication, query, pool exhausted).
//
//   - ClientConfig and PoolConfig: configuration structs with formatted
//     String() output for diagnostics.
package common
