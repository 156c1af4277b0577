// Package plexserver is a thin client for the Plex media server HTTP API.
//
// It covers exactly what the annotation pipeline needs: enumerating movie
// library sections, listing items with their IMDB identifiers, exact-title
// lookup for single-movie runs, and writing back an updated (and locked)
// summary field.
package plexserver
