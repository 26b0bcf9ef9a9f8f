package mylog

import (
	"context"
	"fmt"
	"os"
	"time"
)

func init() {
	if os.Getenv("GOOGLE_CLOUD_PROJECT") == "" {
		New = newStandardLogger
	}
}

type standardLogger struct {
	component string
	debug     bool
}

func newStandardLogger(component string) Logger {
	return standardLogger{
		component: component,
		debug:     os.Getenv("LOG_DEBUG") != "",
	}
}

func (l standardLogger) Log(c context.Context, traceLabel string, severity Severity, format string, a ...any) {
	if severity == SeverityDebug && !l.debug {
		return
	}
	fmt.Fprintf(os.Stderr, "%s %-5s %s [%s] %s\n", time.Now().Format("15:04:05.000"), severity, l.component, traceLabel, fmt.Sprintf(format, a...))
}
