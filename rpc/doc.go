// Package rpc is the runtime support library imported by facadegen output.
//
// Generated facades embed a Binding and issue calls through Invoke, which
// sends one request over a Connection and decodes the reply: an error field
// always wins over the declared result type, sequence results decode element
// by element, and unknown payload keys are kept on the decoded value.
//
// Facade version tables (Clients) resolve a requested version downwards, so
// clients built against older schemas still bind to newer servers.
//
// Everything in this package is safe for concurrent use once constructed.
// Generated tables are read-only and need no locking.
package rpc
