// Package logging builds slog loggers for the dogwatch CLI.
//
// It supports a human-oriented console format and a machine-oriented JSON
// format, multiplexes output across stdout and log files, and provides attr
// helpers plus component loggers so subsystems tag their records uniformly.
package logging
