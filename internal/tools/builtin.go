package tools

import (
	"context"
	"fmt"
	"time"
)

// Names of the built-in tools.
const (
	HelloTool = "hello"
	TimeTool  = "time"
)

// TimestampLayout is the ISO-8601 layout used by the time tool.
const TimestampLayout = time.RFC3339Nano

// Clock supplies the current time to the time tool.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// SystemClock reads the wall clock.
var SystemClock Clock = ClockFunc(time.Now)

// HelloDescriptor describes the greeting tool.
var HelloDescriptor = Descriptor{
	Name:        HelloTool,
	Description: "Say hello to someone",
	InputSchema: ObjectSchema(Property{
		Name:        "name",
		Type:        "string",
		Description: "The name to greet",
	}).WithRequired("name"),
}

// TimeDescriptor describes the clock tool.
var TimeDescriptor = Descriptor{
	Name:        TimeTool,
	Description: "Get the current time",
	InputSchema: ObjectSchema(),
}

// NewDefaultRegistry returns a registry holding hello and time, in that order.
// A nil clock falls back to SystemClock.
func NewDefaultRegistry(clock Clock) *Registry {
	if clock == nil {
		clock = SystemClock
	}

	r := NewRegistry()
	// Names are fixed and distinct, registration cannot fail.
	_ = r.Register(HelloDescriptor, handleHello)
	_ = r.Register(TimeDescriptor, timeHandler(clock))
	return r
}

func handleHello(_ context.Context, args Arguments) (Result, error) {
	name, err := args.RequireString(HelloTool, "name")
	if err != nil {
		return Result{}, err
	}
	return TextResult(fmt.Sprintf("Hello, %s! Welcome to MCP.", name)), nil
}

func timeHandler(clock Clock) Handler {
	return func(_ context.Context, _ Arguments) (Result, error) {
		return TextResult("Current time: " + clock.Now().Format(TimestampLayout)), nil
	}
}
