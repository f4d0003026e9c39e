package udsv

import (
	"context"
	"fmt"
	"reflect"
	"strconv"
	"time"
)

// Unmarshal decodes a single UDSV record into the value pointed to by v. The
// format is not self-describing: the target type alone decides whether each
// field is read as a scalar, a list, a map, or a union. Decoding is
// fail-fast; a malformed field fails the whole record with no partial
// result.
func Unmarshal(data []byte, v any) error {
	return UnmarshalContext(context.Background(), data, v)
}

// UnmarshalContext is Unmarshal with a caller-supplied context for signal
// emission. The codec never blocks on ctx.
func UnmarshalContext(ctx context.Context, data []byte, v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return newTypeError(ErrUnsupportedType, fmt.Sprintf("%T", v), "")
	}
	target := rv.Elem()
	rt := target.Type()

	start := time.Now()
	emitUnmarshalStart(ctx, rt.String(), len(data))

	plan, err := planFor(rt)
	if err == nil {
		err = decodeRecord(string(data), target, plan)
	}
	emitUnmarshalComplete(ctx, rt.String(), len(data), time.Since(start), err)
	return err
}

// decodeRecord reads a whole record into rv. A struct consumes one field per
// planned struct field; anything else must be a single-field record.
func decodeRecord(text string, rv reflect.Value, plan *typePlan) error {
	switch plan.shape {
	case shapeStruct:
		return decodeStruct(text, rv, plan)

	case shapeOption:
		if text == "" {
			rv.SetZero()
			return nil
		}
		elem := reflect.New(rv.Type().Elem())
		if err := decodeRecord(text, elem.Elem(), plan.elem); err != nil {
			return err
		}
		rv.Set(elem)
		return nil

	default:
		fields := splitRecord(text)
		if len(fields) > 1 {
			off := len(fields[0]) + 1
			return newSyntaxError(ErrUnexpectedTrailingData, text[off:], off)
		}
		return decodeField(text, 0, rv, plan)
	}
}

// decodeStruct reads record fields into struct fields in declaration order.
// The record must carry exactly as many fields as the struct declares.
func decodeStruct(text string, rv reflect.Value, plan *typePlan) error {
	if len(plan.fields) == 0 {
		if text != "" {
			return newSyntaxError(ErrUnexpectedTrailingData, text, 0)
		}
		return nil
	}

	fields := splitRecord(text)
	if len(fields) > len(plan.fields) {
		off := 0
		for i := 0; i < len(plan.fields); i++ {
			off += len(fields[i]) + 1
		}
		return newSyntaxError(ErrUnexpectedTrailingData, text[off:], off)
	}
	if len(fields) < len(plan.fields) {
		return newTypeError(ErrArityMismatch, plan.typ.String(), plan.fields[len(fields)].name)
	}

	off := 0
	for i, f := range plan.fields {
		if err := decodeField(fields[i], off, rv.FieldByIndex(f.index), f.plan); err != nil {
			return fieldErr(err, f.name)
		}
		off += len(fields[i]) + 1
	}
	return nil
}

// decodeField reads one colon-delimited field into rv. off is the byte
// offset of the field within the record.
func decodeField(raw string, off int, rv reflect.Value, plan *typePlan) error {
	switch plan.shape {
	case shapeOption:
		// Empty text always decodes as absent; Some("") is not
		// recoverable (lossy by design).
		if raw == "" {
			rv.SetZero()
			return nil
		}
		elem := reflect.New(rv.Type().Elem())
		if err := decodeField(raw, off, elem.Elem(), plan.elem); err != nil {
			return err
		}
		rv.Set(elem)
		return nil

	case shapeList:
		items := splitList(raw)
		if len(items) == 0 {
			// Empty field text collapses to the nil slice, like the
			// option rule.
			rv.SetZero()
			return nil
		}
		slice := reflect.MakeSlice(rv.Type(), len(items), len(items))
		pos := off
		for i, item := range items {
			if err := decodeItem(item, pos, slice.Index(i), plan.elem); err != nil {
				return err
			}
			pos += len(item) + 1
		}
		rv.Set(slice)
		return nil

	case shapeTuple:
		items := splitList(raw)
		if len(items) != plan.arity {
			// The field text is well formed; its length disagrees with
			// the array type, so this is a type error.
			return newTypeError(ErrArityMismatch, plan.typ.String(), "")
		}
		arr := reflect.New(rv.Type()).Elem()
		pos := off
		for i, item := range items {
			if err := decodeItem(item, pos, arr.Index(i), plan.elem); err != nil {
				return err
			}
			pos += len(item) + 1
		}
		rv.Set(arr)
		return nil

	case shapeMap:
		return decodeMap(raw, off, rv, plan)

	case shapeUnion:
		return decodeUnion(raw, off, rv, plan)

	default:
		return decodeScalar(raw, off, rv, plan)
	}
}

// decodeItem reads one list item or map value, where only a scalar or an
// absent option is legal.
func decodeItem(raw string, off int, rv reflect.Value, plan *typePlan) error {
	if plan.shape == shapeOption {
		if raw == "" {
			rv.SetZero()
			return nil
		}
		elem := reflect.New(rv.Type().Elem())
		if err := decodeScalar(raw, off, elem.Elem(), plan.elem); err != nil {
			return err
		}
		rv.Set(elem)
		return nil
	}
	return decodeScalar(raw, off, rv, plan)
}

// decodeMap reads key=value pairs into a fresh map, preserving nothing of a
// previous value. Duplicate keys are rejected rather than silently resolved.
func decodeMap(raw string, off int, rv reflect.Value, plan *typePlan) error {
	items, err := splitMap(raw, off)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		rv.SetZero()
		return nil
	}

	m := reflect.MakeMapWithSize(rv.Type(), len(items))
	for _, it := range items {
		key := reflect.New(rv.Type().Key()).Elem()
		if err := decodeScalar(it.rawKey, it.offset, key, plan.key); err != nil {
			return err
		}
		if m.MapIndex(key).IsValid() {
			return newSyntaxError(ErrDuplicateKey, it.rawKey, it.offset)
		}
		val := reflect.New(rv.Type().Elem()).Elem()
		if err := decodeItem(it.rawValue, it.offset+len(it.rawKey)+1, val, plan.elem); err != nil {
			return err
		}
		m.SetMapIndex(key, val)
	}
	rv.Set(m)
	return nil
}

// decodeUnion reads an externally tagged enum field: a bare scalar selects a
// unit variant, a single tag=payload map item selects a data variant. This
// is a distinct path from map decoding so struct-with-map-field and enum
// never shade into each other.
func decodeUnion(raw string, off int, rv reflect.Value, plan *typePlan) error {
	// Clear every variant so a reused target ends up with exactly one set.
	for _, v := range plan.variants {
		rv.FieldByIndex(v.index).SetZero()
	}

	if indexUnescaped(raw, '=') < 0 {
		tag, err := unescapeAt(raw, off)
		if err != nil {
			return err
		}
		idx, ok := plan.byTag[tag]
		if !ok {
			return newTypeError(ErrUnknownVariant, plan.typ.String(), tag)
		}
		v := plan.variants[idx]
		if !v.unit {
			// Data variant with no payload.
			return newSyntaxError(ErrArityMismatch, raw, off)
		}
		f := rv.FieldByIndex(v.index)
		f.Set(reflect.New(f.Type().Elem()))
		return nil
	}

	items, err := splitMap(raw, off)
	if err != nil {
		return err
	}
	if len(items) > 1 {
		second := items[1]
		return newSyntaxError(ErrUnexpectedTrailingData,
			second.rawKey+"="+second.rawValue, second.offset)
	}

	it := items[0]
	tag, err := unescapeAt(it.rawKey, it.offset)
	if err != nil {
		return err
	}
	idx, ok := plan.byTag[tag]
	if !ok {
		return newTypeError(ErrUnknownVariant, plan.typ.String(), tag)
	}
	v := plan.variants[idx]
	if v.unit {
		// Unit variant with a payload attached.
		return newSyntaxError(ErrUnexpectedTrailingData, it.rawValue,
			it.offset+len(it.rawKey)+1)
	}

	f := rv.FieldByIndex(v.index)
	elem := reflect.New(f.Type().Elem())
	if err := decodeItem(it.rawValue, it.offset+len(it.rawKey)+1, elem.Elem(), v.elem); err != nil {
		return fieldErr(err, v.tag)
	}
	f.Set(elem)
	return nil
}

// decodeScalar unescapes raw and assigns it to rv per the planned scalar
// shape.
func decodeScalar(raw string, off int, rv reflect.Value, plan *typePlan) error {
	s, err := unescapeAt(raw, off)
	if err != nil {
		return err
	}

	switch plan.shape {
	case shapeText:
		if !plan.unmarshaler {
			return newTypeError(ErrUnsupportedType, plan.typ.String(), "")
		}
		return rv.Addr().Interface().(Unmarshaler).UnmarshalUDSV(s)

	case shapeString:
		rv.SetString(s)
		return nil

	case shapeBool:
		switch s {
		case "true":
			rv.SetBool(true)
		case "false":
			rv.SetBool(false)
		default:
			return newSyntaxError(ErrInvalidBoolean, raw, off)
		}
		return nil

	case shapeInt:
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil || rv.OverflowInt(n) {
			return newSyntaxError(ErrInvalidNumber, raw, off)
		}
		rv.SetInt(n)
		return nil

	case shapeUint:
		n, err := strconv.ParseUint(s, 10, 64)
		if err != nil || rv.OverflowUint(n) {
			return newSyntaxError(ErrInvalidNumber, raw, off)
		}
		rv.SetUint(n)
		return nil

	case shapeFloat:
		f, err := strconv.ParseFloat(s, rv.Type().Bits())
		if err != nil {
			return newSyntaxError(ErrInvalidNumber, raw, off)
		}
		rv.SetFloat(f)
		return nil

	default:
		return newTypeError(ErrUnsupportedNesting, plan.typ.String(), "")
	}
}
