// Package match maps local library items to DoesTheDogDie entries.
//
// Matching is an ordered fallback chain: IMDB-id search when an id is known,
// then a free-text title search whose results are filtered by release year,
// then by the "Movie" item type, and finally by taking the first result as-is.
// No fuzzy title comparison is attempted; the remote service's ranking is
// trusted and ties break in result order.
package match
