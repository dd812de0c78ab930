// Package pool
// License: Apache-2.0
//
// Reusable []byte windows for the read paths of the http-handler core.
// The decoder and the body chunk adapter draw their fixed-size read
// windows from here instead of allocating one per read.
package pool
