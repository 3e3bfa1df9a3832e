package emit

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// LogEmitter writes events to an io.Writer, either as human-readable
// key=value text or as JSON Lines.
//
// Example:
//
//	emitter := emit.NewLogEmitter(os.Stderr, false)
//	b := braid.New(braid.WithEmitter(emitter))
type LogEmitter struct {
	writer   io.Writer
	jsonMode bool
}

// NewLogEmitter creates a LogEmitter. A nil writer defaults to os.Stderr.
func NewLogEmitter(writer io.Writer, jsonMode bool) *LogEmitter {
	if writer == nil {
		writer = os.Stderr
	}
	return &LogEmitter{writer: writer, jsonMode: jsonMode}
}

// Emit writes one line describing event to the configured writer.
func (l *LogEmitter) Emit(event Event) {
	if l.jsonMode {
		l.emitJSON(event)
		return
	}
	l.emitText(event)
}

func (l *LogEmitter) emitJSON(event Event) {
	data, err := json.Marshal(struct {
		Time string         `json:"time"`
		Kind string         `json:"kind"`
		Key  string         `json:"key"`
		Meta map[string]any `json:"meta,omitempty"`
	}{
		Time: event.Time.Format("2006-01-02T15:04:05.000Z07:00"),
		Kind: event.Kind,
		Key:  event.Key,
		Meta: event.Meta,
	})
	if err != nil {
		_, _ = fmt.Fprintf(l.writer, "{\"error\":\"failed to marshal event: %v\"}\n", err)
		return
	}
	_, _ = fmt.Fprintf(l.writer, "%s\n", data)
}

func (l *LogEmitter) emitText(event Event) {
	_, _ = fmt.Fprintf(l.writer, "[%s] key=%q", event.Kind, event.Key)
	if len(event.Meta) > 0 {
		if metaJSON, err := json.Marshal(event.Meta); err == nil {
			_, _ = fmt.Fprintf(l.writer, " meta=%s", metaJSON)
		}
	}
	_, _ = fmt.Fprint(l.writer, "\n")
}
