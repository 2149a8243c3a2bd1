package events

import (
	"time"

	"go.uber.org/zap"
)

const (
	RunStartedEvent     = "run.started"
	TableGeneratedEvent = "table.generated"
	RunValidatedEvent   = "run.validated"
	RunPersistedEvent   = "run.persisted"
)

// AllRunEvents lists every run event type
var AllRunEvents = []string{RunStartedEvent, TableGeneratedEvent, RunValidatedEvent, RunPersistedEvent}

type RunStarted struct {
	Seed     int64 `json:"seed"`
	Parallel bool  `json:"parallel"`
}

type TableGenerated struct {
	Table    string        `json:"table"`
	Rows     int           `json:"rows"`
	Duration time.Duration `json:"duration"`
}

type RunValidated struct {
	Tables int `json:"tables"`
}

type RunPersisted struct {
	Sink     string        `json:"sink"`
	Target   string        `json:"target"`
	Duration time.Duration `json:"duration"`
}

// LoggingHandler writes every run event to a zap logger at debug level
type LoggingHandler struct {
	logger *zap.Logger
}

func NewLoggingHandler(logger *zap.Logger) *LoggingHandler {
	return &LoggingHandler{logger: logger}
}

func (h *LoggingHandler) CanHandle(eventType string) bool {
	return true
}

func (h *LoggingHandler) Handle(event Event) error {
	fields := []zap.Field{
		zap.String("run", event.RunID()),
		zap.Int("seq", event.Sequence()),
	}
	switch data := event.Data().(type) {
	case TableGenerated:
		fields = append(fields, zap.String("table", data.Table), zap.Int("rows", data.Rows), zap.Duration("took", data.Duration))
	case RunPersisted:
		fields = append(fields, zap.String("sink", data.Sink), zap.String("target", data.Target), zap.Duration("took", data.Duration))
	case RunStarted:
		fields = append(fields, zap.Int64("seed", data.Seed), zap.Bool("parallel", data.Parallel))
	}
	h.logger.Debug(event.Type(), fields...)
	return nil
}
