// Package httputil provides HTTP helpers for the hiveplot API.
//
// # Overview
//
// This package provides infrastructure shared by every API handler:
//
//   - [WriteJSON] and [WriteError]: JSON responses with a uniform error body
//   - [DecodeJSON]: size-limited, strict request body decoding
//   - [StatusFor]: mapping from error codes to HTTP status codes
//   - [Instrument] and [RequestLogger]: chi middleware for metrics and logs
//
// # Errors
//
// Errors from pkg/errors carry a code; [WriteError] turns that code into
// a status and writes
//
//	{"error": {"code": "INVALID_CONFIG", "message": "num_axes must be greater than 0"}}
//
// Errors without a code are reported as 500 with a generic message, so
// internal details never leak to clients.
package httputil
