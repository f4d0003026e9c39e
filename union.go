package udsv

import "reflect"

// Union marks a struct as an externally tagged union. A union struct embeds
// Union and declares one exported pointer field per variant; the field name
// (or its udsv tag) is the variant tag on the wire.
//
// A *struct{} field is a unit variant and encodes as the bare tag. Any other
// pointer field is a data variant and encodes as a tag=payload map item; the
// payload must be scalar-shaped. Exactly one variant may be non-nil.
//
//	type Status struct {
//	    udsv.Union
//	    Active *struct{}
//	    Failed *string
//	}
//
// Status{Active: &struct{}{}} encodes as "Active"; Status{Failed: &reason}
// encodes as "Failed=oom". Decoding a tag that matches no variant fails with
// ErrUnknownVariant.
type Union struct{}

var unionMarkerType = reflect.TypeOf(Union{})

// isUnion reports whether rt is a struct embedding the Union marker.
func isUnion(rt reflect.Type) bool {
	if rt.Kind() != reflect.Struct {
		return false
	}
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if sf.Anonymous && sf.Type == unionMarkerType {
			return true
		}
	}
	return false
}
