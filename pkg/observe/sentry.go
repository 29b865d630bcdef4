package observe

import (
	"bytes"
	"log"
	"sync/atomic"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"go.uber.org/zap/zapcore"

	"weather-explorer/pkg/logger"
)

const (
	_sentryMaxErrorDepth        int           = 9
	_sentryFlushTimeout         time.Duration = 5 * time.Second
	_sentryServerRequestTimeout time.Duration = 5 * time.Second
)

// SentryHook is an io.Writer for the zap core: it receives every encoded JSON log
// line and forwards error, fatal and panic records to Sentry.
type SentryHook struct {
	appZone   string
	appName   string
	l         *logger.Logger
	reporting atomic.Bool
}

func NewSentryHook(appZone, appName string, isDebug bool, dsn string) (*SentryHook, error) {
	if dsn == "" {
		return nil, errors.New("sentry: no DSN")
	}

	sentryTransport := sentry.NewHTTPTransport()
	sentryTransport.Timeout = _sentryServerRequestTimeout
	if err := sentry.Init(
		sentry.ClientOptions{
			AttachStacktrace: true,
			Debug:            isDebug,
			Dsn:              dsn,
			Environment:      appZone,
			MaxErrorDepth:    _sentryMaxErrorDepth,
			ServerName:       appName,
			Transport:        sentryTransport,
		}); err != nil {
		return nil, errors.Wrap(err, "sentry init")
	}

	return newSentryHook(appZone, appName), nil
}

func newSentryHook(appZone, appName string) *SentryHook {
	return &SentryHook{
		appZone: appZone,
		appName: appName,
	}
}

func (*SentryHook) mapLevel(zl zapcore.Level) sentry.Level {
	switch zl {
	case zapcore.DebugLevel, zapcore.InvalidLevel:
		return sentry.LevelDebug
	case zapcore.InfoLevel:
		return sentry.LevelInfo
	case zapcore.WarnLevel:
		return sentry.LevelWarning
	case zapcore.ErrorLevel:
		return sentry.LevelError
	case zapcore.FatalLevel, zapcore.PanicLevel:
		return sentry.LevelFatal
	}

	return sentry.LevelDebug
}

type logLine struct {
	Level      string `json:"level"`
	AppName    string `json:"app_name"`
	AppEnv     string `json:"app_zone"`
	CallerFile string `json:"caller_file"`
	CallerLine int    `json:"caller_line"`
	CallerFunc string `json:"caller_func"`
	Stack      string `json:"stack"`
	Message    string `json:"msg"`
	Error      string `json:"error"`
	Timestamp  string `json:"timestamp"`
}

func (h *SentryHook) Write(p []byte) (n int, err error) {
	if event := h.eventFor(p); event != nil {
		sentry.CaptureEvent(event)
	}

	return len(p), nil
}

// eventFor builds the Sentry event for an encoded log line, or nil when the line
// is below error level or cannot be parsed. Lines that are not JSON objects (console
// encoding) are ignored without a report.
func (h *SentryHook) eventFor(p []byte) *sentry.Event {
	if trimmed := bytes.TrimSpace(p); len(trimmed) == 0 || trimmed[0] != '{' {
		return nil
	}

	var t logLine
	if err := json.Unmarshal(p, &t); err != nil {
		h.report(errors.Wrap(err, "[SentryHook] json.Unmarshal data"))
		return nil
	}

	level, err := zapcore.ParseLevel(t.Level)
	if err != nil {
		h.report(errors.Wrap(err, "[SentryHook] parse zap level"))
		return nil
	}

	if len(t.Message) == 0 || level < zapcore.ErrorLevel {
		return nil
	}

	timestamp, _ := time.ParseInLocation(logger.TimestampLayout, t.Timestamp, time.UTC)

	event := sentry.NewEvent()
	event.Extra["AppName"] = h.appName
	event.Environment = h.appZone
	event.Level = h.mapLevel(level)
	event.Timestamp = timestamp
	event.Message = t.Message
	event.Extra["Error"] = t.Error
	event.Extra["CallerFile"] = t.CallerFile
	event.Extra["CallerLine"] = t.CallerLine
	event.Extra["CallerFunc"] = t.CallerFunc
	event.Extra["Stack"] = t.Stack
	event.Extra["TimeStamp"] = t.Timestamp
	event.Exception = append(event.Exception, sentry.Exception{
		Type:       t.Message,
		Value:      t.Error,
		Stacktrace: sentry.NewStacktrace(),
	})

	return event
}

// report logs a hook failure. The line it writes comes back through Write, so a
// report issued while another is in flight goes to the standard logger instead.
func (h *SentryHook) report(err error) {
	if h.l == nil || !h.reporting.CompareAndSwap(false, true) {
		log.Println(err.Error())
		return
	}
	defer h.reporting.Store(false)

	h.l.Warning(err.Error())
}

func (h *SentryHook) SetLogger(logger *logger.Logger) {
	if logger != nil {
		h.l = logger
	}
}

// Flush waits for buffered events to be delivered.
func (h *SentryHook) Flush() bool {
	return sentry.Flush(_sentryFlushTimeout)
}
