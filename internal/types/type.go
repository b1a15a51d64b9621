package types

import (
	"fmt"
	"strings"

	"github.com/roach88/ldlayout/internal/rdf"
)

// Ordering is the result of a partial comparison.
type Ordering int8

const (
	Less         Ordering = -1
	Equal        Ordering = 0
	Greater      Ordering = 1
	Incomparable Ordering = 2
)

// Reverse mirrors the ordering: Less and Greater swap.
func (o Ordering) Reverse() Ordering {
	switch o {
	case Less:
		return Greater
	case Greater:
		return Less
	default:
		return o
	}
}

func (o Ordering) String() string {
	switch o {
	case Less:
		return "less"
	case Equal:
		return "equal"
	case Greater:
		return "greater"
	default:
		return "incomparable"
	}
}

// Kind categorizes types.
type Kind uint8

const (
	KindAny Kind = iota
	KindResource
	KindLiteral
	KindStruct
	KindEnum
	KindList
)

func (k Kind) String() string {
	switch k {
	case KindAny:
		return "any"
	case KindResource:
		return "resource"
	case KindLiteral:
		return "literal"
	case KindStruct:
		return "struct"
	case KindEnum:
		return "enum"
	case KindList:
		return "list"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Type is a type definition. Exactly one of the kind-specific fields is set,
// according to Kind (none for KindAny).
type Type struct {
	Kind     Kind
	Resource *ResourceType
	Literal  *LiteralType
	Struct   *StructType
	Enum     *EnumType
	List     *ListType
}

// ResourceType is a set of RDF resources. A nil Set means every resource.
type ResourceType struct {
	Set []rdf.Resource
}

// StructType is a map type with typed keys.
// Field key types are expected to be disjoint.
type StructType struct {
	Fields []Field
}

// Field is a struct field, keyed by a type (usually a text singleton).
type Field struct {
	Key      Ref
	Type     Ref
	Required bool
}

// EnumType is a tagged union.
type EnumType struct {
	Variants []Variant
}

// Variant is an enum case.
type Variant struct {
	Name string
	Type Ref
}

// ListType is a list with a fixed prefix and an optional uniform rest.
// A zero Rest means the list has exactly len(Prefix) items.
type ListType struct {
	Prefix []Ref
	Rest   Ref
}

// Any is the top type.
func Any() Type { return Type{Kind: KindAny} }

// AnyResource is the type of every resource.
func AnyResource() Type {
	return Type{Kind: KindResource, Resource: &ResourceType{}}
}

// ResourceIn is the type of the given resources.
func ResourceIn(rs ...rdf.Resource) Type {
	set := append([]rdf.Resource{}, rs...)
	return Type{Kind: KindResource, Resource: &ResourceType{Set: set}}
}

// Struct builds a struct type.
func Struct(fields ...Field) Type {
	return Type{Kind: KindStruct, Struct: &StructType{Fields: fields}}
}

// Enum builds an enum type.
func Enum(variants ...Variant) Type {
	return Type{Kind: KindEnum, Enum: &EnumType{Variants: variants}}
}

// Tuple builds a fixed-length list type.
func Tuple(items ...Ref) Type {
	return Type{Kind: KindList, List: &ListType{Prefix: items}}
}

// List builds a list type with a prefix and a uniform rest.
func List(prefix []Ref, rest Ref) Type {
	return Type{Kind: KindList, List: &ListType{Prefix: prefix, Rest: rest}}
}

// Uniform builds a list type whose items all have type item.
func Uniform(item Ref) Type {
	return Type{Kind: KindList, List: &ListType{Rest: item}}
}

// ItemType returns the type of item i, if the list may have one.
func (l *ListType) ItemType(i int) (Ref, bool) {
	if i < len(l.Prefix) {
		return l.Prefix[i], true
	}
	if l.Rest.IsValid() {
		return l.Rest, true
	}
	return Ref{}, false
}

// MinLen is the minimum number of items.
func (l *ListType) MinLen() int { return len(l.Prefix) }

// MaxLen is the maximum number of items, if bounded.
func (l *ListType) MaxLen() (int, bool) {
	if l.Rest.IsValid() {
		return 0, false
	}
	return len(l.Prefix), true
}

// Uniform returns the item type when every item has the same type.
func (l *ListType) Uniform() (Ref, bool) {
	if len(l.Prefix) == 0 && l.Rest.IsValid() {
		return l.Rest, true
	}
	return Ref{}, false
}

// Variant looks up an enum case by name.
func (e *EnumType) Variant(name string) (Ref, bool) {
	for _, v := range e.Variants {
		if v.Name == name {
			return v.Type, true
		}
	}
	return Ref{}, false
}

// MinLen is the number of required fields.
func (s *StructType) MinLen() int {
	n := 0
	for _, f := range s.Fields {
		if f.Required {
			n++
		}
	}
	return n
}

// MaxLen is the number of fields.
func (s *StructType) MaxLen() int { return len(s.Fields) }

func (t *Type) describe(depth int) string {
	if depth > 3 {
		return "…"
	}
	switch t.Kind {
	case KindAny:
		return "any"
	case KindResource:
		if t.Resource.Set == nil {
			return "resource"
		}
		parts := make([]string, len(t.Resource.Set))
		for i, r := range t.Resource.Set {
			parts[i] = r.String()
		}
		return "resource{" + strings.Join(parts, ", ") + "}"
	case KindLiteral:
		return t.Literal.String()
	case KindStruct:
		parts := make([]string, len(t.Struct.Fields))
		for i, f := range t.Struct.Fields {
			opt := ""
			if !f.Required {
				opt = "?"
			}
			parts[i] = f.Key.describe(depth+1) + opt + ": " + f.Type.describe(depth+1)
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case KindEnum:
		parts := make([]string, len(t.Enum.Variants))
		for i, v := range t.Enum.Variants {
			parts[i] = v.Name + "(" + v.Type.describe(depth+1) + ")"
		}
		return strings.Join(parts, " | ")
	case KindList:
		parts := make([]string, 0, len(t.List.Prefix)+1)
		for _, p := range t.List.Prefix {
			parts = append(parts, p.describe(depth+1))
		}
		if t.List.Rest.IsValid() {
			parts = append(parts, t.List.Rest.describe(depth+1)+"...")
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return t.Kind.String()
	}
}

func (t *Type) String() string { return t.describe(0) }
