// Package ast defines the abstract syntax tree for the Oblibeny
// embedded-deployment language: a closed set of expression kinds, each
// its own Go type implementing the Expr interface, in the idiom of the
// standard library's go/ast package rather than a single tagged struct.
//
// Nodes are produced once (by internal/sexpr, or by a caller building
// them directly for tests) and are never mutated by any analyzer.
package ast

import "fmt"

// Kind identifies an Expr's concrete variant. It exists alongside the
// type system itself (rather than relying purely on type switches) so
// that JSON rendering and diagnostics can name a node kind without a
// type assertion, matching the "kind" vocabulary spec callers expect.
type Kind string

const (
	KindInt             Kind = "int"
	KindFloat           Kind = "float"
	KindBool            Kind = "bool"
	KindString          Kind = "string"
	KindIdent           Kind = "ident"
	KindDefunDeploy     Kind = "defun-deploy"
	KindBoundedFor      Kind = "bounded-for"
	KindWithCapability  Kind = "with-capability"
	KindDefunCompile    Kind = "defun-compile"
	KindMacro           Kind = "macro"
	KindEvalCompile     Kind = "eval-compile"
	KindInclude         Kind = "include"
	KindFor             Kind = "for"
	KindWhile           Kind = "while"
	KindLet             Kind = "let"
	KindSet             Kind = "set"
	KindIf              Kind = "if"
	KindFunctionCall    Kind = "function-call"
	KindArrayLiteral    Kind = "array-literal"
	KindArrayGet        Kind = "array-get"
	KindArraySet        Kind = "array-set"
	KindArrayLength     Kind = "array-length"
	KindGpioSet         Kind = "gpio-set"
	KindGpioGet         Kind = "gpio-get"
	KindUartSend        Kind = "uart-send"
	KindUartRecv        Kind = "uart-recv"
	KindSensorRead      Kind = "sensor-read"
	KindNetworkSend     Kind = "network-send"
	KindNetworkRecv     Kind = "network-recv"
	KindSleepMs         Kind = "sleep-ms"
	KindTimestamp       Kind = "timestamp"
	KindResourceBudget  Kind = "resource-budget"
	KindDefCap          Kind = "defcap"
	KindProgram         Kind = "program"
)

// compileOnlyKinds lists the kinds that may never appear transitively
// inside a DefunDeploy body (spec invariant I1).
var compileOnlyKinds = map[Kind]bool{
	KindDefunCompile: true,
	KindMacro:        true,
	KindEvalCompile:  true,
	KindInclude:      true,
	KindFor:          true,
	KindWhile:        true,
}

// Expr is implemented by every AST node kind. The set of implementors
// is closed: see the Kind constants above for the exhaustive list.
type Expr interface {
	Kind() Kind
	fmt.Stringer
	isExpr()
}

// base is embedded by every concrete node to provide the unexported
// isExpr marker without repeating it on each type.
type base struct{}

func (base) isExpr() {}

// --- Literals & names ---

type Int struct {
	base
	Value int64
}

func (*Int) Kind() Kind      { return KindInt }
func (n *Int) String() string { return fmt.Sprintf("%d", n.Value) }

type Float struct {
	base
	Value float64
}

func (*Float) Kind() Kind      { return KindFloat }
func (n *Float) String() string { return fmt.Sprintf("%g", n.Value) }

type Bool struct {
	base
	Value bool
}

func (*Bool) Kind() Kind      { return KindBool }
func (n *Bool) String() string { return fmt.Sprintf("%t", n.Value) }

type String struct {
	base
	Value string
}

func (*String) Kind() Kind      { return KindString }
func (n *String) String() string { return fmt.Sprintf("%q", n.Value) }

type Ident struct {
	base
	Name string
}

func (*Ident) Kind() Kind      { return KindIdent }
func (n *Ident) String() string { return n.Name }

// --- Deploy-time forms ---

type DefunDeploy struct {
	base
	Name       string
	Params     []Parameter
	ReturnType *Type
	Body       []Expr
}

func (*DefunDeploy) Kind() Kind { return KindDefunDeploy }
func (n *DefunDeploy) String() string {
	return fmt.Sprintf("(defun-deploy %s (%s) ...)", n.Name, paramsString(n.Params))
}

type BoundedFor struct {
	base
	Var   string
	Start Expr
	End   Expr
	Body  []Expr
}

func (*BoundedFor) Kind() Kind { return KindBoundedFor }
func (n *BoundedFor) String() string {
	return fmt.Sprintf("(bounded-for %s %s %s ...)", n.Var, n.Start, n.End)
}

type WithCapability struct {
	base
	Capability Expr
	Body       []Expr
}

func (*WithCapability) Kind() Kind { return KindWithCapability }
func (n *WithCapability) String() string {
	return fmt.Sprintf("(with-capability %s ...)", n.Capability)
}

// --- Compile-time forms (illegal inside deploy bodies) ---

type DefunCompile struct {
	base
	Name       string
	Params     []Parameter
	ReturnType *Type
	Body       []Expr
}

func (*DefunCompile) Kind() Kind { return KindDefunCompile }
func (n *DefunCompile) String() string {
	return fmt.Sprintf("(defun-compile %s (%s) ...)", n.Name, paramsString(n.Params))
}

type Macro struct {
	base
	Name   string
	Params []Parameter
	Body   []Expr
}

func (*Macro) Kind() Kind      { return KindMacro }
func (n *Macro) String() string { return fmt.Sprintf("(macro %s (%s) ...)", n.Name, paramsString(n.Params)) }

type EvalCompile struct {
	base
	Value Expr
}

func (*EvalCompile) Kind() Kind      { return KindEvalCompile }
func (n *EvalCompile) String() string { return fmt.Sprintf("(eval-compile %s)", n.Value) }

type Include struct {
	base
	Path string
}

func (*Include) Kind() Kind      { return KindInclude }
func (n *Include) String() string { return fmt.Sprintf("(include %q)", n.Path) }

type For struct {
	base
	Var      string
	Iterable Expr
	Body     []Expr
}

func (*For) Kind() Kind      { return KindFor }
func (n *For) String() string { return fmt.Sprintf("(for %s %s ...)", n.Var, n.Iterable) }

type While struct {
	base
	Cond Expr
	Body []Expr
}

func (*While) Kind() Kind      { return KindWhile }
func (n *While) String() string { return fmt.Sprintf("(while %s ...)", n.Cond) }

// --- Common forms ---

// Binding is one (name expr) pair inside a Let.
type Binding struct {
	Name  string
	Value Expr
}

type Let struct {
	base
	Bindings []Binding
	Body     []Expr
}

func (*Let) Kind() Kind      { return KindLet }
func (n *Let) String() string { return fmt.Sprintf("(let (...%d bindings...) ...)", len(n.Bindings)) }

type Set struct {
	base
	Var   string
	Value Expr
}

func (*Set) Kind() Kind      { return KindSet }
func (n *Set) String() string { return fmt.Sprintf("(set %s %s)", n.Var, n.Value) }

type If struct {
	base
	Cond Expr
	Then Expr
	Else Expr
}

func (*If) Kind() Kind      { return KindIf }
func (n *If) String() string { return fmt.Sprintf("(if %s %s %s)", n.Cond, n.Then, n.Else) }

type FunctionCall struct {
	base
	Func Expr
	Args []Expr
}

func (*FunctionCall) Kind() Kind { return KindFunctionCall }
func (n *FunctionCall) String() string {
	return fmt.Sprintf("(%s ...%d args...)", n.Func, len(n.Args))
}

// --- Array forms ---

type ArrayLiteral struct {
	base
	ElemType Type
	Size     int
}

func (*ArrayLiteral) Kind() Kind { return KindArrayLiteral }
func (n *ArrayLiteral) String() string {
	return fmt.Sprintf("(array-literal %s %d)", n.ElemType, n.Size)
}

type ArrayGet struct {
	base
	Array Expr
	Index Expr
}

func (*ArrayGet) Kind() Kind      { return KindArrayGet }
func (n *ArrayGet) String() string { return fmt.Sprintf("(array-get %s %s)", n.Array, n.Index) }

type ArraySet struct {
	base
	Array Expr
	Index Expr
	Value Expr
}

func (*ArraySet) Kind() Kind { return KindArraySet }
func (n *ArraySet) String() string {
	return fmt.Sprintf("(array-set %s %s %s)", n.Array, n.Index, n.Value)
}

type ArrayLength struct {
	base
	Array Expr
}

func (*ArrayLength) Kind() Kind      { return KindArrayLength }
func (n *ArrayLength) String() string { return fmt.Sprintf("(array-length %s)", n.Array) }

// --- I/O forms ---

type GpioSet struct {
	base
	Device Expr
	Value  Expr
}

func (*GpioSet) Kind() Kind      { return KindGpioSet }
func (n *GpioSet) String() string { return fmt.Sprintf("(gpio-set %s %s)", n.Device, n.Value) }

type GpioGet struct {
	base
	Device Expr
}

func (*GpioGet) Kind() Kind      { return KindGpioGet }
func (n *GpioGet) String() string { return fmt.Sprintf("(gpio-get %s)", n.Device) }

type UartSend struct {
	base
	Device Expr
	Data   Expr
}

func (*UartSend) Kind() Kind      { return KindUartSend }
func (n *UartSend) String() string { return fmt.Sprintf("(uart-send %s %s)", n.Device, n.Data) }

type UartRecv struct {
	base
	Device Expr
}

func (*UartRecv) Kind() Kind      { return KindUartRecv }
func (n *UartRecv) String() string { return fmt.Sprintf("(uart-recv %s)", n.Device) }

type SensorRead struct {
	base
	Device Expr
}

func (*SensorRead) Kind() Kind      { return KindSensorRead }
func (n *SensorRead) String() string { return fmt.Sprintf("(sensor-read %s)", n.Device) }

type NetworkSend struct {
	base
	Device Expr
	Data   Expr
}

func (*NetworkSend) Kind() Kind { return KindNetworkSend }
func (n *NetworkSend) String() string {
	return fmt.Sprintf("(network-send %s %s)", n.Device, n.Data)
}

type NetworkRecv struct {
	base
	Device Expr
}

func (*NetworkRecv) Kind() Kind      { return KindNetworkRecv }
func (n *NetworkRecv) String() string { return fmt.Sprintf("(network-recv %s)", n.Device) }

type SleepMs struct {
	base
	Duration Expr
}

func (*SleepMs) Kind() Kind      { return KindSleepMs }
func (n *SleepMs) String() string { return fmt.Sprintf("(sleep-ms %s)", n.Duration) }

type Timestamp struct {
	base
}

func (*Timestamp) Kind() Kind      { return KindTimestamp }
func (*Timestamp) String() string { return "(timestamp)" }

// --- Resource forms ---

type ResourceBudget struct {
	base
	Specs []ResourceSpec
}

func (*ResourceBudget) Kind() Kind { return KindResourceBudget }
func (n *ResourceBudget) String() string {
	return fmt.Sprintf("(resource-budget ...%d specs...)", len(n.Specs))
}

type DefCap struct {
	base
	Name        string
	Params      []Parameter
	Description string
}

func (*DefCap) Kind() Kind      { return KindDefCap }
func (n *DefCap) String() string { return fmt.Sprintf("(defcap %s ...)", n.Name) }

// --- Program envelope ---

type Program struct {
	base
	Name   string
	Budget Expr // must be *ResourceBudget
	Forms  []Expr
}

func (*Program) Kind() Kind      { return KindProgram }
func (n *Program) String() string { return fmt.Sprintf("(program %q ...)", n.Name) }

func paramsString(params []Parameter) string {
	s := ""
	for i, p := range params {
		if i > 0 {
			s += " "
		}
		s += p.String()
	}
	return s
}

// IsCompileOnly reports whether e's kind may never appear transitively
// inside a DefunDeploy body (spec invariant I1).
func IsCompileOnly(e Expr) bool {
	return compileOnlyKinds[e.Kind()]
}
