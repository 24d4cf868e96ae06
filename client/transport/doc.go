// Package transport implements the raw byte exchange with a ShibuDB server.
//
// A transport owns one TCP connection and moves newline-delimited messages
// across it: SendLine writes one framed request, ReceiveLine blocks for one
// framed response. There is no pipelining; within one transport a new
// request is never written before the previous response line has been fully
// read, which the owning connection enforces.
//
// All network calls carry the configured timeout as a socket deadline.
// Timeout expiry surfaces as a connection error on Connect and as a query
// error on SendLine/ReceiveLine. Close is idempotent and best-effort.
package transport
