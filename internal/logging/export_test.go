package logging

// NewLoggerForTest exposes newLogger so tests can capture stdout.
var NewLoggerForTest = newLogger
