package notify

import "github.com/rs/zerolog"

// Notifier receives the user-facing outcome of every store mutation. The
// presentation layer (toasts in the web client) is outside this service;
// here the sink decides what to do with the message.
type Notifier interface {
	Success(title, detail string)
	Error(title, detail string)
}

type logNotifier struct {
	logger zerolog.Logger
}

// NewLogNotifier returns a Notifier that writes notifications to the log.
func NewLogNotifier(logger zerolog.Logger) Notifier {
	return &logNotifier{logger: logger.With().Str("component", "notify").Logger()}
}

func (n *logNotifier) Success(title, detail string) {
	n.logger.Info().Str("title", title).Msg(detail)
}

func (n *logNotifier) Error(title, detail string) {
	n.logger.Error().Str("title", title).Msg(detail)
}
