package notify

import "github.com/rs/zerolog"

// Notifier is the transient-notification side channel. Stores report
// every mutation outcome here; nothing blocks on it.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

type logNotifier struct {
	log zerolog.Logger
}

// NewLogNotifier returns a Notifier that writes notifications to the
// given logger.
func NewLogNotifier(log zerolog.Logger) Notifier {
	return &logNotifier{log: log}
}

func (n *logNotifier) Success(msg string) {
	n.log.Info().Str("kind", "success").Msg(msg)
}

func (n *logNotifier) Error(msg string) {
	n.log.Warn().Str("kind", "error").Msg(msg)
}

type noop struct{}

// Discard is a Notifier that drops everything.
var Discard Notifier = noop{}

func (noop) Success(string) {}
func (noop) Error(string)   {}
