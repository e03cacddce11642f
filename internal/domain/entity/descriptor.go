package entity

import "github.com/go-gl/mathgl/mgl64"

// FieldKind is the type tag of an imported field value.
type FieldKind int

const (
	KindInt32 FieldKind = iota
	KindBool
)

func (k FieldKind) String() string {
	switch k {
	case KindInt32:
		return "int32"
	case KindBool:
		return "bool"
	default:
		return "unknown"
	}
}

// FieldValue is one named, typed value attached to an entity instance.
type FieldValue struct {
	Name string
	Kind FieldKind
	Int  int32
	Bool bool
}

// IntField builds an int32 field value.
func IntField(name string, v int32) FieldValue {
	return FieldValue{Name: name, Kind: KindInt32, Int: v}
}

// BoolField builds a bool field value.
func BoolField(name string, v bool) FieldValue {
	return FieldValue{Name: name, Kind: KindBool, Bool: v}
}

// EntityDescriptor is an entity instance as authored in a map, before it is
// materialised in the entity store.
type EntityDescriptor struct {
	Type     string
	Position mgl64.Vec2 // local map coordinates
	Fields   []FieldValue
}
