package test

import (
	"bytes"
	"strings"
	"sync"

	"github.com/dogmatiq/projector/internal/telemetry"
	noopmetric "go.opentelemetry.io/otel/metric/noop"
	nooptrace "go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/exp/slog"
)

// NewTelemetryProvider returns a new telemetry provider for use in tests.
//
// Log messages are written to the test's log at the debug level.
func NewTelemetryProvider(t TestingT) *telemetry.Provider {
	t.Helper()

	return &telemetry.Provider{
		TracerProvider: nooptrace.NewTracerProvider(),
		MeterProvider:  noopmetric.NewMeterProvider(),
		Logger:         NewLogger(t),
	}
}

// NewLogger returns a logger that writes to the test's log.
func NewLogger(t TestingT) *slog.Logger {
	return slog.New(
		slog.NewTextHandler(
			&testLogWriter{T: t},
			&slog.HandlerOptions{
				Level: slog.LevelDebug,
			},
		),
	)
}

type testLogWriter struct {
	T TestingT

	m   sync.Mutex
	buf bytes.Buffer
}

func (w *testLogWriter) Write(data []byte) (int, error) {
	w.m.Lock()
	defer w.m.Unlock()

	w.buf.Write(data)

	for {
		line, err := w.buf.ReadString('\n')
		if err != nil {
			// put back the incomplete line
			w.buf.WriteString(line)
			break
		}
		w.T.Log(strings.TrimSuffix(line, "\n"))
	}

	return len(data), nil
}
