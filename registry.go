package udsv

import (
	"context"
	"reflect"
	"sync"

	"github.com/zoobzio/sentinel"
)

var (
	plans   = make(map[reflect.Type]*typePlan)
	plansMu sync.RWMutex
)

// planFor returns the cached codec plan for rt, building it on first use.
func planFor(rt reflect.Type) (*typePlan, error) {
	// Fast path: read-lock cache check
	plansMu.RLock()
	if cached, ok := plans[rt]; ok {
		plansMu.RUnlock()
		return cached, nil
	}
	plansMu.RUnlock()

	// Slow path: build and cache with write-lock
	plansMu.Lock()
	defer plansMu.Unlock()

	// Double-check pattern
	if cached, ok := plans[rt]; ok {
		return cached, nil
	}

	plan, err := buildPlan(rt, levelRecord)
	if err != nil {
		return nil, err
	}

	plans[rt] = plan
	emitPlanBuilt(context.Background(), rt.String(), plan.fieldCount())
	return plan, nil
}

// Prepare builds and caches the codec plan for T ahead of first use, so
// declaration problems (unsupported shapes, bad tags, invalid unions)
// surface at startup rather than on the first Marshal or Unmarshal. Struct
// metadata is registered with sentinel so other sentinel consumers see the
// same view of the type.
func Prepare[T any]() error {
	rt := reflect.TypeFor[T]()
	if rt.Kind() == reflect.Struct {
		_ = sentinel.Scan[T]()
	}
	_, err := planFor(rt)
	return err
}

// Reset clears the plan cache.
// This is primarily useful for test isolation.
func Reset() {
	plansMu.Lock()
	defer plansMu.Unlock()
	plans = make(map[reflect.Type]*typePlan)
}
