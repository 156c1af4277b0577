// Package warnings turns DoesTheDogDie vote statistics into short
// human-readable warning blocks and manages their placement in media
// summaries.
//
// Classification is threshold-based: a topic becomes a warning when its yes
// votes clear both an absolute count and a ratio of the total. The annotation
// protocol is reversible and idempotent: Apply always strips the previous
// block before appending, and Strip recognizes both the current separator
// banner and the legacy "doesthedogdie:" marker.
package warnings
