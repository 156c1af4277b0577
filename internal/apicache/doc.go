// Package apicache provides a persistent TTL cache for remote API payloads.
//
// Entries live in a SQLite database, one row per cache key, each carrying the
// raw JSON payload and the wall-clock time it was stored. Reads treat expired
// and malformed rows as misses rather than errors, so cache corruption never
// surfaces beyond an extra network round trip. The cache survives across runs
// and can be dropped wholesale with Clear (surfaced as `dogwatch cache clear`).
//
// Key construction is owned by the callers; see the dtdd package for the
// namespacing scheme that keeps search, IMDB, and detail lookups disjoint.
package apicache
