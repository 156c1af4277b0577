// Package pipeline orchestrates annotation runs across Plex movie libraries.
//
// A Processor walks the selected libraries strictly one item at a time,
// resolving each movie against DoesTheDogDie, classifying its crowd-sourced
// votes into warning lines, and rewriting the Plex summary idempotently.
// Per-item failures are recorded in the run summary without aborting the
// batch; only setup failures (unreachable server, no libraries) end a run.
package pipeline
