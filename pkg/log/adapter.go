// Package log bridges third-party logger interfaces onto logrus.
package log

import "github.com/sirupsen/logrus"

// BadgerLogger satisfies badger.Logger by forwarding to a logrus entry.
// Badger is chatty at Info, so Info is demoted to Debug.
type BadgerLogger struct {
	entry *logrus.Entry
}

// NewBadgerLogger wraps entry.
func NewBadgerLogger(entry *logrus.Entry) *BadgerLogger {
	return &BadgerLogger{entry: entry}
}

func (l *BadgerLogger) Errorf(f string, v ...interface{})   { l.entry.Errorf(f, v...) }
func (l *BadgerLogger) Warningf(f string, v ...interface{}) { l.entry.Warnf(f, v...) }
func (l *BadgerLogger) Infof(f string, v ...interface{})    { l.entry.Debugf(f, v...) }
func (l *BadgerLogger) Debugf(f string, v ...interface{})   { l.entry.Debugf(f, v...) }
