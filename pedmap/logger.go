package main

import "log/slog"

// Logger bridges the slog loggers to the pedestal.Logger interface:
// info lines go to stdout through the custom text handler, errors go to
// stderr as JSON.
type Logger struct {
	InfoLog  *slog.Logger
	ErrorLog *slog.Logger
}

func (l Logger) Info(message string, module string) {
	l.InfoLog.Info(message, "module", module)
}

func (l Logger) Error(message string) {
	l.ErrorLog.Error(message)
}
