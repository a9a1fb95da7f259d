package status

import "log/slog"

// Sink receives human-readable status lines. Notify has no result and callers never wait on delivery.
type Sink interface {
	Notify(text string)
}

type LogSink struct {
	logger *slog.Logger
}

func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logger.With("component", "status")}
}

func (that *LogSink) Notify(text string) {
	that.logger.Info("status", "text", text)
}

// Multi hands every line to each sink in turn.
type Multi []Sink

func (that Multi) Notify(text string) {
	for _, sink := range that {
		sink.Notify(text)
	}
}

type Nop struct{}

func (Nop) Notify(string) {}
