// Package dtdd wraps the DoesTheDogDie.com API behind a caching, rate-limited
// client.
//
// Three operations are exposed: free-text search, IMDB-id search, and a detail
// fetch returning the per-topic crowd-vote statistics. Every call first
// consults the persistent cache (see the apicache package); only cache misses
// reach the network, and those are spaced out by a configurable global delay
// so batch runs stay polite to the service. Non-success responses fail the
// call and are never cached.
package dtdd
