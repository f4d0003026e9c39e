package udsv

import (
	"reflect"
	"strings"

	"github.com/zoobzio/sentinel"
)

func init() {
	// Register the udsv tag with sentinel
	sentinel.Tag("udsv")
}

// level identifies the grammar depth a type is being planned for. The format
// is one level deep: a record holds fields, a field holds items, and items
// hold only scalars.
type level uint8

const (
	levelRecord level = iota // the whole record
	levelField               // one colon-delimited field
	levelItem                // list item, map key/value, union payload
)

// shape classifies how a Go type maps onto the grammar.
type shape uint8

const (
	shapeString shape = iota
	shapeBool
	shapeInt
	shapeUint
	shapeFloat
	shapeText   // via Marshaler/Unmarshaler
	shapeOption // pointer: absent encodes as the empty scalar
	shapeList   // slice
	shapeTuple  // array: fixed arity, list encoding
	shapeMap
	shapeStruct // flattened record, top level only
	shapeUnion  // externally tagged enum
)

// typePlan is the immutable per-type codec plan. Plans are built once per
// reflect.Type and cached (see registry.go).
type typePlan struct {
	shape shape
	typ   reflect.Type

	elem  *typePlan // option elem, list/tuple item, map value
	key   *typePlan // map key
	arity int       // tuple length

	fields []fieldPlan

	variants []variantPlan
	byTag    map[string]int // variant tag -> index into variants

	marshaler   bool // shapeText: MarshalUDSV available
	unmarshaler bool // shapeText: UnmarshalUDSV available
}

// fieldPlan describes one struct field of a record.
type fieldPlan struct {
	name  string // field name or udsv tag, for error messages only
	index []int  // reflect.Value.FieldByIndex access path
	plan  *typePlan
}

// variantPlan describes one union variant.
type variantPlan struct {
	tag   string
	index []int
	unit  bool      // *struct{}: bare tag, no payload
	elem  *typePlan // payload plan for data variants
}

// scalar reports whether the plan produces a single scalar.
func (p *typePlan) scalar() bool {
	switch p.shape {
	case shapeString, shapeBool, shapeInt, shapeUint, shapeFloat, shapeText:
		return true
	}
	return false
}

// fieldCount returns the number of record fields the plan produces.
func (p *typePlan) fieldCount() int {
	if p.shape == shapeStruct {
		return len(p.fields)
	}
	return 1
}

var (
	marshalerType   = reflect.TypeOf((*Marshaler)(nil)).Elem()
	unmarshalerType = reflect.TypeOf((*Unmarshaler)(nil)).Elem()
)

// buildPlan maps rt onto a grammar shape legal at the given level, or fails
// with ErrUnsupportedType/ErrUnsupportedNesting. Nesting violations are
// caught here so encode and decode report them identically.
func buildPlan(rt reflect.Type, lvl level) (*typePlan, error) {
	if rt.Kind() != reflect.Pointer {
		m := rt.Implements(marshalerType) || reflect.PointerTo(rt).Implements(marshalerType)
		u := reflect.PointerTo(rt).Implements(unmarshalerType)
		if m || u {
			return &typePlan{shape: shapeText, typ: rt, marshaler: m, unmarshaler: u}, nil
		}
	}

	switch rt.Kind() {
	case reflect.String:
		return &typePlan{shape: shapeString, typ: rt}, nil

	case reflect.Bool:
		return &typePlan{shape: shapeBool, typ: rt}, nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return &typePlan{shape: shapeInt, typ: rt}, nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &typePlan{shape: shapeUint, typ: rt}, nil

	case reflect.Float32, reflect.Float64:
		return &typePlan{shape: shapeFloat, typ: rt}, nil

	case reflect.Pointer:
		elem, err := buildPlan(rt.Elem(), lvl)
		if err != nil {
			return nil, err
		}
		if elem.shape == shapeOption {
			// Absent-of-absent is not representable.
			return nil, newTypeError(ErrUnsupportedType, rt.String(), "")
		}
		return &typePlan{shape: shapeOption, typ: rt, elem: elem}, nil

	case reflect.Slice:
		if rt.Elem().Kind() == reflect.Uint8 {
			// Raw bytes have no textual carrier in this format.
			return nil, newTypeError(ErrUnsupportedType, rt.String(), "")
		}
		if lvl == levelItem {
			return nil, newTypeError(ErrUnsupportedNesting, rt.String(), "")
		}
		elem, err := buildPlan(rt.Elem(), levelItem)
		if err != nil {
			return nil, err
		}
		return &typePlan{shape: shapeList, typ: rt, elem: elem}, nil

	case reflect.Array:
		if lvl == levelItem {
			return nil, newTypeError(ErrUnsupportedNesting, rt.String(), "")
		}
		elem, err := buildPlan(rt.Elem(), levelItem)
		if err != nil {
			return nil, err
		}
		return &typePlan{shape: shapeTuple, typ: rt, elem: elem, arity: rt.Len()}, nil

	case reflect.Map:
		if lvl == levelItem {
			return nil, newTypeError(ErrUnsupportedNesting, rt.String(), "")
		}
		key, err := buildPlan(rt.Key(), levelItem)
		if err != nil {
			return nil, err
		}
		if !key.scalar() {
			return nil, newTypeError(ErrUnsupportedType, rt.String(), "")
		}
		elem, err := buildPlan(rt.Elem(), levelItem)
		if err != nil {
			return nil, err
		}
		return &typePlan{shape: shapeMap, typ: rt, key: key, elem: elem}, nil

	case reflect.Struct:
		if isUnion(rt) {
			if lvl == levelItem {
				return nil, newTypeError(ErrUnsupportedNesting, rt.String(), "")
			}
			return buildUnionPlan(rt)
		}
		if lvl != levelRecord {
			// A struct occupies a whole record; one inside a field would
			// need a second delimiter level that does not exist.
			return nil, newTypeError(ErrUnsupportedNesting, rt.String(), "")
		}
		return buildStructPlan(rt)

	default:
		return nil, newTypeError(ErrUnsupportedType, rt.String(), "")
	}
}

// buildStructPlan creates the record plan for a plain struct by scanning its
// field metadata.
func buildStructPlan(rt reflect.Type) (*typePlan, error) {
	meta := scanType(rt)
	plan := &typePlan{shape: shapeStruct, typ: rt}

	for _, field := range meta.Fields {
		if field.ReflectType == unionMarkerType {
			continue
		}
		name, skip, err := fieldName(rt, field)
		if err != nil {
			return nil, err
		}
		if skip {
			continue
		}
		sub, err := buildPlan(field.ReflectType, levelField)
		if err != nil {
			return nil, fieldErr(err, name)
		}
		plan.fields = append(plan.fields, fieldPlan{
			name:  name,
			index: field.Index,
			plan:  sub,
		})
	}

	return plan, nil
}

// buildUnionPlan creates the enum plan for a struct embedding Union. Every
// variant field must be a pointer; *struct{} fields are unit variants.
func buildUnionPlan(rt reflect.Type) (*typePlan, error) {
	meta := scanType(rt)
	plan := &typePlan{
		shape: shapeUnion,
		typ:   rt,
		byTag: make(map[string]int),
	}

	for _, field := range meta.Fields {
		if field.ReflectType == unionMarkerType {
			continue
		}
		tag, skip, err := fieldName(rt, field)
		if err != nil {
			return nil, err
		}
		if skip {
			continue
		}
		if field.ReflectType.Kind() != reflect.Pointer {
			return nil, newTypeError(ErrInvalidTag, rt.String(), field.Name)
		}
		if _, dup := plan.byTag[tag]; dup {
			return nil, newTypeError(ErrInvalidTag, rt.String(), tag)
		}

		v := variantPlan{tag: tag, index: field.Index}
		elemT := field.ReflectType.Elem()
		if elemT.Kind() == reflect.Struct && elemT.NumField() == 0 {
			v.unit = true
		} else {
			sub, err := buildPlan(elemT, levelItem)
			if err != nil {
				return nil, fieldErr(err, tag)
			}
			v.elem = sub
		}

		plan.byTag[tag] = len(plan.variants)
		plan.variants = append(plan.variants, v)
	}

	if len(plan.variants) == 0 {
		return nil, newTypeError(ErrInvalidTag, rt.String(), "")
	}
	return plan, nil
}

// fieldName resolves the udsv tag of a scanned field. A "-" tag skips the
// field; a tag containing delimiter characters is rejected.
func fieldName(rt reflect.Type, field sentinel.FieldMetadata) (name string, skip bool, err error) {
	name = field.Name
	tag, ok := field.Tags["udsv"]
	if !ok {
		return name, false, nil
	}
	if tag == "-" {
		return "", true, nil
	}
	if tag == "" || strings.ContainsAny(tag, ":,=\\") {
		return "", false, newTypeError(ErrInvalidTag, rt.String(), field.Name)
	}
	return tag, false, nil
}

// scanType returns sentinel metadata for a struct type, building it manually
// when the type has not been registered with sentinel.
func scanType(rt reflect.Type) sentinel.Metadata {
	if spec, ok := sentinel.Lookup(rt.String()); ok {
		return spec
	}

	spec := sentinel.Metadata{
		TypeName:    rt.Name(),
		PackageName: rt.PkgPath(),
		Fields:      make([]sentinel.FieldMetadata, 0, rt.NumField()),
	}

	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}

		fm := sentinel.FieldMetadata{
			Name:        sf.Name,
			Type:        sf.Type.String(),
			ReflectType: sf.Type,
			Index:       sf.Index,
			Tags:        parseUDSVTag(sf.Tag),
		}

		switch sf.Type.Kind() {
		case reflect.Struct:
			fm.Kind = sentinel.KindStruct
		case reflect.Ptr:
			fm.Kind = sentinel.KindPointer
		case reflect.Slice, reflect.Array:
			fm.Kind = sentinel.KindSlice
		case reflect.Map:
			fm.Kind = sentinel.KindMap
		case reflect.Interface:
			fm.Kind = sentinel.KindInterface
		default:
			fm.Kind = sentinel.KindScalar
		}

		spec.Fields = append(spec.Fields, fm)
	}

	return spec
}

// parseUDSVTag extracts the udsv tag from a struct tag.
func parseUDSVTag(tag reflect.StructTag) map[string]string {
	tags := make(map[string]string)
	if val, ok := tag.Lookup("udsv"); ok {
		tags["udsv"] = val
	}
	return tags
}
