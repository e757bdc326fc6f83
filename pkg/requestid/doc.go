// Package requestid assigns every request an identifier.
//
// The identifier is taken from the incoming header when it is well formed and
// generated with a UUIDv4 otherwise. It is echoed in the response header and
// stored in the request context, from where LoggerExtractor adds it to log
// records.
package requestid
