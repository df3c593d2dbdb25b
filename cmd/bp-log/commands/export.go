package commands

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/buttplug-go/buttplug/pkg/log"
)

// jsonEvent is the JSONL export shape. Message payloads are inlined as
// JSON rather than base64.
type jsonEvent struct {
	Timestamp    time.Time           `json:"timestamp"`
	ConnectionID string              `json:"connectionId,omitempty"`
	Direction    string              `json:"direction"`
	Layer        string              `json:"layer"`
	Category     string              `json:"category"`
	RemoteAddr   string              `json:"remoteAddr,omitempty"`
	DeviceIndex  *uint32             `json:"deviceIndex,omitempty"`
	DeviceName   string              `json:"deviceName,omitempty"`
	Message      *jsonMessage        `json:"message,omitempty"`
	Raw          *log.RawEvent       `json:"raw,omitempty"`
	StateChange  *jsonStateChange    `json:"stateChange,omitempty"`
	Error        *log.ErrorEventData `json:"error,omitempty"`
}

type jsonMessage struct {
	Kind             string          `json:"kind"`
	ID               uint32          `json:"id"`
	Payload          json.RawMessage `json:"payload,omitempty"`
	ProcessingTimeNs *int64          `json:"processingTimeNs,omitempty"`
}

type jsonStateChange struct {
	Entity   string `json:"entity"`
	OldState string `json:"oldState,omitempty"`
	NewState string `json:"newState"`
	Reason   string `json:"reason,omitempty"`
}

func toJSONEvent(e log.Event) jsonEvent {
	out := jsonEvent{
		Timestamp:    e.Timestamp.UTC(),
		ConnectionID: e.ConnectionID,
		Direction:    e.Direction.String(),
		Layer:        e.Layer.String(),
		Category:     e.Category.String(),
		RemoteAddr:   e.RemoteAddr,
		DeviceIndex:  e.DeviceIndex,
		DeviceName:   e.DeviceName,
		Raw:          e.Raw,
		Error:        e.Error,
	}
	if m := e.Message; m != nil {
		jm := &jsonMessage{Kind: m.Kind, ID: m.MessageID}
		if json.Valid(m.JSON) {
			jm.Payload = m.JSON
		}
		if m.ProcessingTime != nil {
			ns := m.ProcessingTime.Nanoseconds()
			jm.ProcessingTimeNs = &ns
		}
		out.Message = jm
	}
	if sc := e.StateChange; sc != nil {
		out.StateChange = &jsonStateChange{
			Entity:   sc.Entity.String(),
			OldState: sc.OldState,
			NewState: sc.NewState,
			Reason:   sc.Reason,
		}
	}
	return out
}

// RunExport exports the log file to the specified format.
func RunExport(path, format, output string) error {
	reader, err := log.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	var w io.Writer = os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	switch format {
	case "jsonl":
		return exportJSONL(reader, w)
	case "csv":
		return exportCSV(reader, w)
	default:
		return fmt.Errorf("unknown format: %s (supported: jsonl, csv)", format)
	}
}

func exportJSONL(reader *log.Reader, w io.Writer) error {
	encoder := json.NewEncoder(w)
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		if err := encoder.Encode(toJSONEvent(event)); err != nil {
			return fmt.Errorf("failed to encode event: %w", err)
		}
	}
	return nil
}

func exportCSV(reader *log.Reader, w io.Writer) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{"timestamp", "connection_id", "direction", "layer", "category", "device_index", "type", "message_id"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}

		eventType := "unknown"
		msgID := ""
		switch {
		case event.Message != nil:
			eventType = event.Message.Kind
			msgID = strconv.FormatUint(uint64(event.Message.MessageID), 10)
		case event.Raw != nil:
			eventType = "raw"
		case event.StateChange != nil:
			eventType = "state"
		case event.Error != nil:
			eventType = "error"
		}

		deviceIndex := ""
		if event.DeviceIndex != nil {
			deviceIndex = strconv.FormatUint(uint64(*event.DeviceIndex), 10)
		}

		row := []string{
			event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z"),
			event.ConnectionID,
			event.Direction.String(),
			event.Layer.String(),
			event.Category.String(),
			deviceIndex,
			eventType,
			msgID,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	return nil
}
