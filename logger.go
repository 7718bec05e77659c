package duocore

import "log"

// Logger is a thin level-gated wrapper around the standard library's log
// package, matching the teacher's direct fmt/log call-site convention
// rather than pulling in a structured logging library (see DESIGN.md).
type Logger struct {
	Debug bool
}

func (l *Logger) Debugf(format string, args ...interface{}) {
	if l == nil || !l.Debug {
		return
	}
	log.Printf("[debug] "+format, args...)
}

func (l *Logger) Warnf(format string, args ...interface{}) {
	log.Printf("[warn] "+format, args...)
}

func (l *Logger) Errorf(format string, args ...interface{}) {
	log.Printf("[error] "+format, args...)
}
