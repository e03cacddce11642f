package factory

import (
	"github.com/younwookim/timeloop/internal/domain/entity"
)

// FieldInfo describes one importable field of a component.
type FieldInfo struct {
	Name string
	Kind entity.FieldKind
}

type field[T any] struct {
	FieldInfo
	setInt  func(*T, int32)
	setBool func(*T, bool)
}

// Schema lists the fields of component T that can be filled from imported
// entity data. Each field carries a typed setter, so applying values never
// touches memory the component does not expose.
type Schema[T any] struct {
	fields []field[T]
	byName map[string]int
}

// NewSchema creates an empty schema.
func NewSchema[T any]() *Schema[T] {
	return &Schema[T]{byName: make(map[string]int)}
}

// Int32 declares an int32 field.
func (s *Schema[T]) Int32(name string, set func(*T, int32)) *Schema[T] {
	return s.add(field[T]{FieldInfo: FieldInfo{Name: name, Kind: entity.KindInt32}, setInt: set})
}

// Bool declares a bool field.
func (s *Schema[T]) Bool(name string, set func(*T, bool)) *Schema[T] {
	return s.add(field[T]{FieldInfo: FieldInfo{Name: name, Kind: entity.KindBool}, setBool: set})
}

func (s *Schema[T]) add(f field[T]) *Schema[T] {
	if i, ok := s.byName[f.Name]; ok {
		s.fields[i] = f
		return s
	}
	s.byName[f.Name] = len(s.fields)
	s.fields = append(s.fields, f)
	return s
}

// Fields returns the declared fields in declaration order.
func (s *Schema[T]) Fields() []FieldInfo {
	out := make([]FieldInfo, len(s.fields))
	for i, f := range s.fields {
		out[i] = f.FieldInfo
	}
	return out
}

// Apply copies every value whose name and kind match a declared field into
// dst and returns how many were applied. Unknown names and kind mismatches
// are skipped. Fields of dst that are undeclared or not supplied keep
// whatever they held.
func (s *Schema[T]) Apply(dst *T, values []entity.FieldValue) int {
	applied := 0
	for _, v := range values {
		i, ok := s.byName[v.Name]
		if !ok {
			continue
		}
		f := s.fields[i]
		if f.Kind != v.Kind {
			continue
		}
		switch f.Kind {
		case entity.KindInt32:
			f.setInt(dst, v.Int)
		case entity.KindBool:
			f.setBool(dst, v.Bool)
		default:
			continue
		}
		applied++
	}
	return applied
}
