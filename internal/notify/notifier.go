// Package notify is the user-facing notification collaborator. The core
// fires messages at it and never blocks on or inspects the outcome; how they
// reach the user (toast, log line, web socket) is up to the Presenter.
package notify

import "go.uber.org/zap"

// Kind classifies a notification for presentation.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindInfo    Kind = "info"
)

// Presenter shows a human-readable message to the user. Implementations must
// be cheap and non-blocking; failures are swallowed.
type Presenter interface {
	Present(message string, kind Kind)
}

// LogPresenter renders notifications as structured log lines. It is the
// default presenter for headless runs and tests.
type LogPresenter struct {
	logger *zap.Logger
}

// NewLogPresenter creates a presenter backed by the given logger.
func NewLogPresenter(logger *zap.Logger) *LogPresenter {
	return &LogPresenter{logger: logger}
}

// Present implements Presenter.
func (p *LogPresenter) Present(message string, kind Kind) {
	switch kind {
	case KindError:
		p.logger.Warn("notification", zap.String("kind", string(kind)), zap.String("message", message))
	default:
		p.logger.Info("notification", zap.String("kind", string(kind)), zap.String("message", message))
	}
}
