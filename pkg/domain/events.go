package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventPluginUse   EventType = "plugin_use"
	EventPluginError EventType = "plugin_error"
	EventRun         EventType = "run"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// PluginEvent is fired for every plugin handed to the original registration.
type PluginEvent struct {
	EventBase
	Index int    `json:"index"`
	Name  string `json:"name"`
}

// ErrorEvent is fired for every contained failure.
type ErrorEvent struct {
	EventBase
	Stage Stage `json:"stage"`
	Err   error `json:"-"`
}

// RunEvent is fired once per run call.
type RunEvent struct {
	EventBase
	Keys   int  `json:"keys"`
	Failed bool `json:"failed,omitempty"`
}

// LifecycleHooks defines callbacks for decorator observability.
type LifecycleHooks struct {
	OnUse         func(context.Context, *PluginEvent)
	OnPluginError func(context.Context, *ErrorEvent)
	OnRun         func(context.Context, *RunEvent)
}

// NewEventBase stamps an event with the current time.
func NewEventBase(t EventType) EventBase {
	return EventBase{Timestamp: time.Now(), Type: t}
}
