package jbind

import (
	"context"
	"time"

	"github.com/zoobzio/capitan"
)

// Signals for binding-core boundary events: engine lifecycle, codec
// resolution, and each marshal/unmarshal call.
var (
	SignalEngineCreated     = capitan.NewSignal("jbind.engine.created", "Engine instantiated")
	SignalResolveStart      = capitan.NewSignal("jbind.resolve.start", "Codec resolution beginning")
	SignalResolveComplete   = capitan.NewSignal("jbind.resolve.complete", "Codec resolution finished")
	SignalMarshalStart      = capitan.NewSignal("jbind.marshal.start", "Marshal beginning")
	SignalMarshalComplete   = capitan.NewSignal("jbind.marshal.complete", "Marshal finished")
	SignalUnmarshalStart    = capitan.NewSignal("jbind.unmarshal.start", "Unmarshal beginning")
	SignalUnmarshalComplete = capitan.NewSignal("jbind.unmarshal.complete", "Unmarshal finished")
	SignalRegistryFrozen    = capitan.NewSignal("jbind.registry.frozen", "Registry made unmodifiable")
)

// Keys for typed event data.
var (
	KeyTypeName = capitan.NewStringKey("type_name")
	KeySize     = capitan.NewIntKey("size")
	KeyDuration = capitan.NewDurationKey("duration")
	KeyError    = capitan.NewErrorKey("error")
	KeyCacheHit = capitan.NewStringKey("cache_hit")
)

func emitEngineCreated(typeName string) {
	capitan.Emit(context.Background(), SignalEngineCreated, KeyTypeName.Field(typeName))
}

func emitResolveStart(typeName string) {
	capitan.Emit(context.Background(), SignalResolveStart, KeyTypeName.Field(typeName))
}

func emitResolveComplete(typeName string, duration time.Duration, cacheHit bool, err error) {
	ctx := context.Background()
	hit := "miss"
	if cacheHit {
		hit = "hit"
	}
	fields := []capitan.Field{
		KeyTypeName.Field(typeName),
		KeyDuration.Field(duration),
		KeyCacheHit.Field(hit),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalResolveComplete, fields...)
		return
	}
	capitan.Emit(ctx, SignalResolveComplete, fields...)
}

func emitMarshalStart(typeName string) {
	capitan.Emit(context.Background(), SignalMarshalStart, KeyTypeName.Field(typeName))
}

func emitMarshalComplete(typeName string, size int, duration time.Duration, err error) {
	ctx := context.Background()
	fields := []capitan.Field{
		KeyTypeName.Field(typeName),
		KeySize.Field(size),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalMarshalComplete, fields...)
		return
	}
	capitan.Emit(ctx, SignalMarshalComplete, fields...)
}

func emitUnmarshalStart(typeName string) {
	capitan.Emit(context.Background(), SignalUnmarshalStart, KeyTypeName.Field(typeName))
}

func emitUnmarshalComplete(typeName string, size int, duration time.Duration, err error) {
	ctx := context.Background()
	fields := []capitan.Field{
		KeyTypeName.Field(typeName),
		KeySize.Field(size),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalUnmarshalComplete, fields...)
		return
	}
	capitan.Emit(ctx, SignalUnmarshalComplete, fields...)
}

func emitRegistryFrozen() {
	capitan.Emit(context.Background(), SignalRegistryFrozen)
}
