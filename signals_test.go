package udsv

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestEmitPlanBuilt(_ *testing.T) {
	// Should not panic
	emitPlanBuilt(context.Background(), "TestType", 7)
}

func TestEmitMarshalStart(_ *testing.T) {
	emitMarshalStart(context.Background(), "TestType")
}

func TestEmitMarshalComplete_Success(_ *testing.T) {
	emitMarshalComplete(context.Background(), "TestType", 64, 100*time.Millisecond, nil)
}

func TestEmitMarshalComplete_Error(_ *testing.T) {
	emitMarshalComplete(context.Background(), "TestType", 0, 100*time.Millisecond, errors.New("test error"))
}

func TestEmitUnmarshalStart(_ *testing.T) {
	emitUnmarshalStart(context.Background(), "TestType", 64)
}

func TestEmitUnmarshalComplete_Success(_ *testing.T) {
	emitUnmarshalComplete(context.Background(), "TestType", 64, 100*time.Millisecond, nil)
}

func TestEmitUnmarshalComplete_Error(_ *testing.T) {
	emitUnmarshalComplete(context.Background(), "TestType", 0, 100*time.Millisecond, errors.New("test error"))
}

func TestSignalVariables(t *testing.T) {
	// Verify signals are properly initialized
	signals := []struct {
		name   string
		signal interface{}
	}{
		{"SignalPlanBuilt", SignalPlanBuilt},
		{"SignalMarshalStart", SignalMarshalStart},
		{"SignalMarshalComplete", SignalMarshalComplete},
		{"SignalUnmarshalStart", SignalUnmarshalStart},
		{"SignalUnmarshalComplete", SignalUnmarshalComplete},
	}

	for _, s := range signals {
		if s.signal == nil {
			t.Errorf("%s is nil", s.name)
		}
	}
}

func TestKeyVariables(t *testing.T) {
	// Verify keys are properly initialized
	keys := []struct {
		name string
		key  interface{}
	}{
		{"KeyContentType", KeyContentType},
		{"KeyTypeName", KeyTypeName},
		{"KeySize", KeySize},
		{"KeyDuration", KeyDuration},
		{"KeyError", KeyError},
		{"KeyFieldCount", KeyFieldCount},
	}

	for _, k := range keys {
		if k.key == nil {
			t.Errorf("%s is nil", k.name)
		}
	}
}
