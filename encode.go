package udsv

import (
	"context"
	"reflect"
	"sort"
	"strconv"
	"time"
)

// Marshal encodes v as a single UDSV record. The value's type determines the
// grammar shape of each field: strings and numbers become scalars, slices
// become comma-separated lists, maps become key=value pair sequences, and a
// struct flattens into consecutive colon-delimited fields in declaration
// order with no field-name tags.
func Marshal(v any) ([]byte, error) {
	return MarshalContext(context.Background(), v)
}

// MarshalContext is Marshal with a caller-supplied context for signal
// emission. The codec never blocks on ctx.
func MarshalContext(ctx context.Context, v any) ([]byte, error) {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return []byte{}, nil
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		// Marshal(nil): the absent value is the empty record.
		return []byte{}, nil
	}

	rt := rv.Type()
	start := time.Now()
	emitMarshalStart(ctx, rt.String())

	var out string
	plan, err := planFor(rt)
	if err == nil {
		out, err = encodeRecord(rv, plan)
	}
	emitMarshalComplete(ctx, rt.String(), len(out), time.Since(start), err)

	if err != nil {
		return nil, err
	}
	return []byte(out), nil
}

// encodeRecord writes a whole record: a struct contributes one field per
// planned struct field, anything else is a single-field record.
func encodeRecord(rv reflect.Value, plan *typePlan) (string, error) {
	if plan.shape != shapeStruct {
		return encodeField(rv, plan)
	}

	fields := make([]string, 0, len(plan.fields))
	for _, f := range plan.fields {
		text, err := encodeField(rv.FieldByIndex(f.index), f.plan)
		if err != nil {
			return "", fieldErr(err, f.name)
		}
		fields = append(fields, text)
	}
	return joinEscaped(fields, ':'), nil
}

// encodeField writes one colon-delimited field.
func encodeField(rv reflect.Value, plan *typePlan) (string, error) {
	switch plan.shape {
	case shapeOption:
		if rv.IsNil() {
			return "", nil
		}
		return encodeField(rv.Elem(), plan.elem)

	case shapeList, shapeTuple:
		n := rv.Len()
		items := make([]string, n)
		for i := 0; i < n; i++ {
			item, err := encodeItem(rv.Index(i), plan.elem, PositionListItem)
			if err != nil {
				return "", err
			}
			items[i] = item
		}
		return joinEscaped(items, ','), nil

	case shapeMap:
		return encodeMap(rv, plan)

	case shapeUnion:
		return encodeUnion(rv, plan)

	default:
		return encodeScalar(rv, plan, PositionField)
	}
}

// encodeItem writes one list item or map value, where only a scalar or an
// absent option is legal.
func encodeItem(rv reflect.Value, plan *typePlan, pos Position) (string, error) {
	if plan.shape == shapeOption {
		if rv.IsNil() {
			return "", nil
		}
		rv = rv.Elem()
		plan = plan.elem
	}
	return encodeScalar(rv, plan, pos)
}

// encodeMap writes key=value pairs sorted by escaped key text. Go map
// iteration order is random and pair order carries no meaning on the wire,
// so sorting keeps output deterministic.
func encodeMap(rv reflect.Value, plan *typePlan) (string, error) {
	type pair struct {
		key, value string
	}
	pairs := make([]pair, 0, rv.Len())

	iter := rv.MapRange()
	for iter.Next() {
		k, err := encodeScalar(iter.Key(), plan.key, PositionMapKey)
		if err != nil {
			return "", err
		}
		v, err := encodeItem(iter.Value(), plan.elem, PositionMapValue)
		if err != nil {
			return "", err
		}
		pairs = append(pairs, pair{key: k, value: v})
	}

	sort.Slice(pairs, func(i, j int) bool { return pairs[i].key < pairs[j].key })

	items := make([]string, len(pairs))
	for i, p := range pairs {
		items[i] = p.key + "=" + p.value
	}
	return joinEscaped(items, ','), nil
}

// encodeUnion writes the externally tagged enum form: the bare tag for a unit
// variant, tag=payload for a data variant. Exactly one variant must be set.
func encodeUnion(rv reflect.Value, plan *typePlan) (string, error) {
	set := -1
	for i, v := range plan.variants {
		if rv.FieldByIndex(v.index).IsNil() {
			continue
		}
		if set >= 0 {
			return "", newTypeError(ErrAmbiguousVariant, plan.typ.String(),
				plan.variants[set].tag+","+v.tag)
		}
		set = i
	}
	if set < 0 {
		return "", newTypeError(ErrNoVariant, plan.typ.String(), "")
	}

	v := plan.variants[set]
	if v.unit {
		return Escape(v.tag, PositionField), nil
	}

	payload, err := encodeItem(rv.FieldByIndex(v.index).Elem(), v.elem, PositionMapValue)
	if err != nil {
		return "", fieldErr(err, v.tag)
	}
	return Escape(v.tag, PositionMapKey) + "=" + payload, nil
}

// encodeScalar writes the raw scalar text for rv and escapes it for the
// given grammar position.
func encodeScalar(rv reflect.Value, plan *typePlan, pos Position) (string, error) {
	switch plan.shape {
	case shapeText:
		m, ok := marshalerFor(rv)
		if !ok {
			return "", newTypeError(ErrUnsupportedType, plan.typ.String(), "")
		}
		raw, err := m.MarshalUDSV()
		if err != nil {
			return "", err
		}
		return Escape(raw, pos), nil

	case shapeString:
		return Escape(rv.String(), pos), nil

	case shapeBool:
		if rv.Bool() {
			return "true", nil
		}
		return "false", nil

	case shapeInt:
		return strconv.FormatInt(rv.Int(), 10), nil

	case shapeUint:
		return strconv.FormatUint(rv.Uint(), 10), nil

	case shapeFloat:
		return strconv.FormatFloat(rv.Float(), 'g', -1, rv.Type().Bits()), nil

	default:
		// The plan builder rejects composite shapes at scalar positions,
		// so this is unreachable from the public entry points.
		return "", newTypeError(ErrUnsupportedNesting, plan.typ.String(), "")
	}
}

// marshalerFor resolves the Marshaler implementation for rv, taking a copy
// when only the pointer receiver implements it and rv is not addressable.
func marshalerFor(rv reflect.Value) (Marshaler, bool) {
	if m, ok := rv.Interface().(Marshaler); ok {
		return m, true
	}
	if rv.CanAddr() {
		if m, ok := rv.Addr().Interface().(Marshaler); ok {
			return m, true
		}
	}
	ptr := reflect.New(rv.Type())
	ptr.Elem().Set(rv)
	if m, ok := ptr.Interface().(Marshaler); ok {
		return m, true
	}
	return nil, false
}
