package pedestal

type Logger interface {
	Info(message string, module string)
	Error(string)
}

// noopLogger keeps the library usable before SetLogger is called.
type noopLogger struct{}

func (noopLogger) Info(string, string) {}
func (noopLogger) Error(string)        {}

var logger Logger = noopLogger{}

func SetLogger(l Logger) {
	logger = l
}
