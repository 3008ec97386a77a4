// Package georender provides a client for a remote web-rendering service.
// Callers submit a URL plus rendering directives, the service renders the
// page asynchronously, and the client creates the job, polls it to a
// terminal state, and decodes the compressed payload fields.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., http/, compress/, goquery/).
package georender

// Version is the client version reported to the service.
var Version = "0.1.0"
