package gc

import "github.com/sirupsen/logrus"

// SetLogger wires a logrus logger into the heap for event tracing. With
// no logger set (the default), the heap stays silent. Mirrors the
// teacher's internal/vm/machine_linux.go pattern of building a
// level-gated logrus.Logger and handing it to the library doing the
// real work, rather than reaching for the global logrus logger.
func (h *Heap) SetLogger(l *logrus.Logger) {
	h.logger = l
}

func (h *Heap) logTrace(op string, fields logrus.Fields) {
	if h.logger == nil {
		return
	}
	h.logger.WithFields(fields).Trace(op)
}

func (h *Heap) logInfo(op string, fields logrus.Fields) {
	if h.logger == nil {
		return
	}
	h.logger.WithFields(fields).Info(op)
}

func (h *Heap) logError(op string, fields logrus.Fields) {
	if h.logger == nil {
		return
	}
	h.logger.WithFields(fields).Error(op)
}
