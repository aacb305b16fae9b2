package driver

import "github.com/sirupsen/logrus"

// LogrusReporter adapts disasm.Reporter onto a *logrus.Logger, the way
// containers-podman wires logrus across its own components instead of
// reaching for log.Printf. A nil Logger falls back to logrus's
// package-level standard logger.
type LogrusReporter struct {
	Logger *logrus.Logger
}

func (r LogrusReporter) Warnf(format string, args ...any) {
	if r.Logger != nil {
		r.Logger.Warnf(format, args...)
		return
	}
	logrus.Warnf(format, args...)
}

func (r LogrusReporter) Errorf(format string, args ...any) {
	if r.Logger != nil {
		r.Logger.Errorf(format, args...)
		return
	}
	logrus.Errorf(format, args...)
}
