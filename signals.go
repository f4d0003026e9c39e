package udsv

import (
	"context"
	"time"

	"github.com/zoobzio/capitan"
)

// Signals for codec events.
var (
	SignalPlanBuilt         = capitan.NewSignal("udsv.plan.built", "Codec plan built for a type")
	SignalMarshalStart      = capitan.NewSignal("udsv.marshal.start", "Marshal operation beginning")
	SignalMarshalComplete   = capitan.NewSignal("udsv.marshal.complete", "Marshal operation finished")
	SignalUnmarshalStart    = capitan.NewSignal("udsv.unmarshal.start", "Unmarshal operation beginning")
	SignalUnmarshalComplete = capitan.NewSignal("udsv.unmarshal.complete", "Unmarshal operation finished")
)

// Keys for typed event data.
var (
	KeyContentType = capitan.NewStringKey("content_type")
	KeyTypeName    = capitan.NewStringKey("type_name")
	KeySize        = capitan.NewIntKey("size")
	KeyDuration    = capitan.NewDurationKey("duration")
	KeyError       = capitan.NewErrorKey("error")
	KeyFieldCount  = capitan.NewIntKey("field_count")
)

// emitPlanBuilt emits an event when a type's codec plan enters the cache.
func emitPlanBuilt(ctx context.Context, typeName string, fieldCount int) {
	capitan.Emit(ctx, SignalPlanBuilt,
		KeyContentType.Field(ContentType),
		KeyTypeName.Field(typeName),
		KeyFieldCount.Field(fieldCount),
	)
}

// emitMarshalStart emits an event when marshaling begins.
func emitMarshalStart(ctx context.Context, typeName string) {
	capitan.Emit(ctx, SignalMarshalStart,
		KeyContentType.Field(ContentType),
		KeyTypeName.Field(typeName),
	)
}

// emitMarshalComplete emits an event when marshaling finishes.
func emitMarshalComplete(ctx context.Context, typeName string, size int, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeyContentType.Field(ContentType),
		KeyTypeName.Field(typeName),
		KeySize.Field(size),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalMarshalComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalMarshalComplete, fields...)
	}
}

// emitUnmarshalStart emits an event when unmarshaling begins.
func emitUnmarshalStart(ctx context.Context, typeName string, size int) {
	capitan.Emit(ctx, SignalUnmarshalStart,
		KeyContentType.Field(ContentType),
		KeyTypeName.Field(typeName),
		KeySize.Field(size),
	)
}

// emitUnmarshalComplete emits an event when unmarshaling finishes.
func emitUnmarshalComplete(ctx context.Context, typeName string, size int, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeyContentType.Field(ContentType),
		KeyTypeName.Field(typeName),
		KeySize.Field(size),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalUnmarshalComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalUnmarshalComplete, fields...)
	}
}
