package storage

import (
	"fmt"
	"strings"

	"github.com/go-logr/logr"
)

// badgerLogger routes BadgerDB's printf-style logging into logr. Badger is
// chatty at info level, so info and debug messages go to V(1) and V(2).
type badgerLogger struct {
	log logr.Logger
}

func newBadgerLogger(log logr.Logger) *badgerLogger {
	return &badgerLogger{log: log.WithName("badger")}
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.log.Error(nil, trim(format, args))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.log.Info(trim(format, args), "level", "warning")
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.log.V(1).Info(trim(format, args))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.log.V(2).Info(trim(format, args))
}

func trim(format string, args []interface{}) string {
	return strings.TrimSpace(fmt.Sprintf(format, args...))
}
