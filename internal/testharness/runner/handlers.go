package runner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/buttplug-go/buttplug/internal/testharness/engine"
	"github.com/buttplug-go/buttplug/internal/testharness/loader"
	"github.com/buttplug-go/buttplug/pkg/connector"
	"github.com/buttplug-go/buttplug/pkg/message"
)

// Action names, as they appear in scenario steps.
const (
	ActionSend             = "send"
	ActionSendBatch        = "send_batch"
	ActionWaitEvent        = "wait_event"
	ActionNoEvent          = "no_event"
	ActionWaitDisconnect   = "wait_disconnect"
	ActionAddDevice        = "add_device"
	ActionDeviceState      = "device_state"
	ActionDisconnectDevice = "disconnect_device"
	ActionFailWrites       = "fail_writes"
	ActionSleep            = "sleep"
)

// Handler parameter names.
const (
	ParamMessage  = "message"
	ParamMessages = "messages"
	ParamKind     = "kind"
	ParamDevice   = "device"
	ParamName     = "name"
	ParamMotors   = "motors"
	ParamBattery  = "battery"
)

// pollInterval paces wait_disconnect.
const pollInterval = 5 * time.Millisecond

func (r *Runner) registerHandlers(e *engine.Engine) {
	e.RegisterHandler(ActionSend, handleSend)
	e.RegisterHandler(ActionSendBatch, handleSendBatch)
	e.RegisterHandler(ActionWaitEvent, handleWaitEvent)
	e.RegisterHandler(ActionNoEvent, handleNoEvent)
	e.RegisterHandler(ActionWaitDisconnect, handleWaitDisconnect)
	e.RegisterHandler(ActionAddDevice, handleAddDevice)
	e.RegisterHandler(ActionDeviceState, handleDeviceState)
	e.RegisterHandler(ActionDisconnectDevice, handleDisconnectDevice)
	e.RegisterHandler(ActionFailWrites, handleFailWrites)
	e.RegisterHandler(ActionSleep, handleSleep)
}

func target(state *engine.ExecutionState) (*Target, error) {
	t, ok := state.Target.(*Target)
	if !ok || t == nil {
		return nil, errors.New("no connection to the server")
	}
	return t, nil
}

// parseMessage accepts a message as JSON text or as a YAML mapping in the
// same shape ({Ping: {Id: 2}}).
func parseMessage(v any) (message.Message, error) {
	var data []byte
	switch m := v.(type) {
	case string:
		data = []byte(m)
	case map[string]any:
		var err error
		if data, err = json.Marshal(m); err != nil {
			return nil, err
		}
	case nil:
		return nil, errors.New("missing message")
	default:
		return nil, fmt.Errorf("message must be JSON text or a mapping, got %T", v)
	}
	return message.Unmarshal(data)
}

// flatten turns a message into step outputs: kind, id and each field of
// the message object under its wire name.
func flatten(m message.Message) (map[string]any, error) {
	data, err := message.Marshal(m)
	if err != nil {
		return nil, err
	}
	var outer map[string]map[string]any
	if err := json.Unmarshal(data, &outer); err != nil {
		return nil, err
	}

	out := map[string]any{
		engine.KeyKind: m.Kind().String(),
		engine.KeyID:   m.ID(),
	}
	for _, fields := range outer {
		for k, v := range fields {
			if k == "Id" {
				continue
			}
			out[k] = v
		}
	}
	if list, ok := m.(*message.DeviceList); ok {
		out["device_count"] = len(list.Devices)
	}
	if e, ok := m.(*message.Error); ok {
		out["error_name"] = e.ErrorCode.String()
	}
	return out, nil
}

func handleSend(ctx context.Context, step *loader.Step, state *engine.ExecutionState) (map[string]any, error) {
	t, err := target(state)
	if err != nil {
		return nil, err
	}
	msg, err := parseMessage(step.Params[ParamMessage])
	if err != nil {
		return nil, err
	}

	start := time.Now()
	replies, err := t.Send(ctx, msg)
	if err != nil {
		return nil, err
	}
	out, err := flatten(replies[0])
	if err != nil {
		return nil, err
	}
	out[engine.KeyDuration] = time.Since(start)
	return out, nil
}

func handleSendBatch(ctx context.Context, step *loader.Step, state *engine.ExecutionState) (map[string]any, error) {
	t, err := target(state)
	if err != nil {
		return nil, err
	}
	raw, ok := step.Params[ParamMessages].([]any)
	if !ok || len(raw) == 0 {
		return nil, errors.New("messages must be a non-empty list")
	}
	msgs := make([]message.Message, 0, len(raw))
	for i, v := range raw {
		m, err := parseMessage(v)
		if err != nil {
			return nil, fmt.Errorf("message %d: %w", i+1, err)
		}
		msgs = append(msgs, m)
	}

	start := time.Now()
	replies, err := t.Send(ctx, msgs...)
	if err != nil {
		return nil, err
	}
	kinds := make([]any, 0, len(replies))
	ids := make([]any, 0, len(replies))
	for _, m := range replies {
		kinds = append(kinds, m.Kind().String())
		ids = append(ids, m.ID())
	}
	return map[string]any{
		"kinds":            kinds,
		"ids":              ids,
		"count":            len(replies),
		engine.KeyDuration: time.Since(start),
	}, nil
}

func handleWaitEvent(ctx context.Context, step *loader.Step, state *engine.ExecutionState) (map[string]any, error) {
	t, err := target(state)
	if err != nil {
		return nil, err
	}
	kind, _ := step.Params[ParamKind].(string)
	m, err := t.NextEvent(ctx, kind)
	if err != nil {
		if kind != "" && errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("no %s event: %w", kind, err)
		}
		return nil, err
	}
	return flatten(m)
}

func handleNoEvent(ctx context.Context, step *loader.Step, state *engine.ExecutionState) (map[string]any, error) {
	t, err := target(state)
	if err != nil {
		return nil, err
	}
	wait := engine.StepDuration(step.Params)
	if wait <= 0 {
		wait = 100 * time.Millisecond
	}
	kind, _ := step.Params[ParamKind].(string)

	waitCtx, cancel := context.WithTimeout(ctx, wait)
	defer cancel()
	m, err := t.NextEvent(waitCtx, kind)
	switch {
	case err == nil:
		return map[string]any{"received": true, engine.KeyKind: m.Kind().String()}, nil
	case errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil:
		return map[string]any{"received": false}, nil
	default:
		return nil, err
	}
}

func handleWaitDisconnect(ctx context.Context, step *loader.Step, state *engine.ExecutionState) (map[string]any, error) {
	t, err := target(state)
	if err != nil {
		return nil, err
	}
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		if s := t.State(); s == connector.StateDisconnected {
			return map[string]any{"state": s.String()}, nil
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("still %s: %w", t.State(), ctx.Err())
		case <-ticker.C:
		}
	}
}

func handleAddDevice(ctx context.Context, step *loader.Step, state *engine.ExecutionState) (map[string]any, error) {
	t, err := target(state)
	if err != nil {
		return nil, err
	}
	spec := loader.DeviceSpec{}
	spec.Name, _ = step.Params[ParamName].(string)
	if spec.Name == "" {
		return nil, errors.New("name is required")
	}
	if n, ok := engine.ToFloat64(step.Params[ParamMotors]); ok {
		spec.Motors = int(n)
	}
	if n, ok := engine.ToFloat64(step.Params[ParamBattery]); ok {
		spec.Battery = int(n)
	}
	d, err := t.AddDevice(spec)
	if err != nil {
		return nil, err
	}
	return map[string]any{"address": d.Address()}, nil
}

func handleDeviceState(ctx context.Context, step *loader.Step, state *engine.ExecutionState) (map[string]any, error) {
	t, err := target(state)
	if err != nil {
		return nil, err
	}
	key, _ := step.Params[ParamDevice].(string)
	d, err := t.Device(key)
	if err != nil {
		return nil, err
	}

	level, clockwise := d.Rotation()
	writes := d.Writes()
	out := map[string]any{
		"vibration":   d.Vibration(),
		"rotation":    level,
		"clockwise":   clockwise,
		"connected":   d.Connected(),
		"idle":        d.Idle(),
		"write_count": len(writes),
		"last_write":  "",
		"address":     d.Address(),
	}
	if len(writes) > 0 {
		out["last_write"] = writes[len(writes)-1]
	}
	return out, nil
}

func handleDisconnectDevice(ctx context.Context, step *loader.Step, state *engine.ExecutionState) (map[string]any, error) {
	t, err := target(state)
	if err != nil {
		return nil, err
	}
	key, _ := step.Params[ParamDevice].(string)
	d, err := t.Device(key)
	if err != nil {
		return nil, err
	}
	if err := d.Disconnect(); err != nil {
		return nil, err
	}
	return map[string]any{"connected": d.Connected()}, nil
}

func handleFailWrites(ctx context.Context, step *loader.Step, state *engine.ExecutionState) (map[string]any, error) {
	t, err := target(state)
	if err != nil {
		return nil, err
	}
	key, _ := step.Params[ParamDevice].(string)
	d, err := t.Device(key)
	if err != nil {
		return nil, err
	}
	var failure error
	if text, _ := step.Params[ParamMessage].(string); text != "" {
		failure = errors.New(text)
	}
	d.FailWrites(failure)
	return map[string]any{"failing": failure != nil}, nil
}

func handleSleep(ctx context.Context, step *loader.Step, state *engine.ExecutionState) (map[string]any, error) {
	wait := engine.StepDuration(step.Params)
	select {
	case <-time.After(wait):
		return map[string]any{"slept": wait}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// actionNames lists the registered actions, for help output.
func actionNames() []string {
	names := []string{
		ActionSend, ActionSendBatch, ActionWaitEvent, ActionNoEvent, ActionWaitDisconnect,
		ActionAddDevice, ActionDeviceState, ActionDisconnectDevice, ActionFailWrites, ActionSleep,
	}
	sort.Strings(names)
	return names
}
