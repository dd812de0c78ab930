// Package api
// License: Apache-2.0
//
// Defines the shared contracts of the http-handler core: error values,
// byte pooling, and the chunked source/sink interfaces the host framework
// consumes. This package has no dependencies on the implementation
// packages; protocol and body both build on top of it.
package api
