package ast

import "fmt"

// Type is the static type annotation attached to parameters, return
// types, and array element types.
type Type struct {
	Name string // "int" | "float" | "bool" | "string" | "array"
	Elem *Type  // non-nil when Name == "array"
}

func (t Type) String() string {
	if t.Name == "array" && t.Elem != nil {
		return fmt.Sprintf("(array %s)", t.Elem)
	}
	return t.Name
}

var (
	TypeInt    = Type{Name: "int"}
	TypeFloat  = Type{Name: "float"}
	TypeBool   = Type{Name: "bool"}
	TypeString = Type{Name: "string"}
)

// ArrayType builds the array-of-elem type.
func ArrayType(elem Type) Type {
	return Type{Name: "array", Elem: &elem}
}

// Parameter is one (name type) pair in a function signature.
type Parameter struct {
	Name string
	Type Type
}

func (p Parameter) String() string {
	return fmt.Sprintf("%s: %s", p.Name, p.Type)
}

// ResourceKind names one axis of a resource budget or cost.
type ResourceKind string

const (
	ResourceTime    ResourceKind = "time"
	ResourceMemory  ResourceKind = "memory"
	ResourceNetwork ResourceKind = "network"
	ResourceStorage ResourceKind = "storage"
)

// ResourceType is the declared type of a DefCap resource parameter.
type ResourceType struct {
	Kind ResourceKind
}

func (r ResourceType) String() string { return string(r.Kind) }

// ResourceSpec is one "(time N)"-style entry inside a ResourceBudget
// form: a resource axis paired with its declared limit.
type ResourceSpec struct {
	Kind  ResourceKind
	Limit uint64
}

func (s ResourceSpec) String() string {
	return fmt.Sprintf("(%s %d)", s.Kind, s.Limit)
}
