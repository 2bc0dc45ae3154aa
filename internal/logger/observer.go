package logger

import (
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// Observer exposes log entries captured by a logger from NewObserved.
type Observer struct {
	logs *observer.ObservedLogs
}

func newObserverCore(level zapcore.Level) (zapcore.Core, *observer.ObservedLogs) {
	return observer.New(level)
}

// Messages returns the messages logged so far, oldest first.
func (o *Observer) Messages() []string {
	entries := o.logs.All()
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Message)
	}
	return out
}

// Count returns how many entries carry msg.
func (o *Observer) Count(msg string) int {
	return o.logs.FilterMessage(msg).Len()
}
