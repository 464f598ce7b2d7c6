// Package sexpr reads the textual Oblibeny source form into
// internal/ast nodes. It is front-end glue only: none of the four core
// analyses (internal/phaseseparator, internal/callgraph,
// internal/termination, internal/resources) import this package, which
// is free to assume a concrete surface syntax the analyses themselves
// never need to know about.
package sexpr

import (
	"fmt"
	"io"
	"strconv"
	"text/scanner"

	"github.com/Hyperpolymath/boinc-boinc/internal/ast"
)

// node is the untyped reader-level tree: every parenthesized form is a
// list, every other token is an atom. Build turns this into ast.Expr.
type node struct {
	atom     string
	isAtom   bool
	children []node
	pos      scanner.Position
}

// Parse reads every top-level form in src and returns the resulting
// expressions in source order.
func Parse(name string, src io.Reader) ([]ast.Expr, error) {
	var s scanner.Scanner
	s.Init(src)
	s.Filename = name
	s.Mode = scanner.ScanIdents | scanner.ScanInts | scanner.ScanFloats | scanner.ScanStrings | scanner.ScanComments | scanner.SkipComments
	s.IsIdentRune = func(ch rune, i int) bool {
		return ch == '_' || ch == '-' || ch == '+' || ch == '*' || ch == '/' || ch == '!' || ch == '?' ||
			ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z' || ch >= '0' && ch <= '9' && i > 0
	}

	var forms []node
	for {
		n, err := readNode(&s)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		forms = append(forms, n)
	}

	exprs := make([]ast.Expr, len(forms))
	for i, f := range forms {
		e, err := build(f)
		if err != nil {
			return nil, err
		}
		exprs[i] = e
	}
	return exprs, nil
}

func readNode(s *scanner.Scanner) (node, error) {
	tok := s.Scan()
	if tok == scanner.EOF {
		return node{}, io.EOF
	}
	pos := s.Position
	if tok != '(' {
		return node{atom: s.TokenText(), isAtom: true, pos: pos}, nil
	}

	var children []node
	for {
		tok := s.Peek()
		for tok == ' ' || tok == '\t' || tok == '\n' || tok == '\r' {
			s.Next()
			tok = s.Peek()
		}
		if tok == ')' {
			s.Scan()
			break
		}
		if tok == scanner.EOF {
			return node{}, fmt.Errorf("sexpr: %s: unexpected EOF inside form", pos)
		}
		child, err := readNode(s)
		if err != nil {
			return node{}, err
		}
		children = append(children, child)
	}
	return node{children: children, pos: pos}, nil
}

func (n node) errf(format string, args ...interface{}) error {
	return fmt.Errorf("sexpr: %s: "+format, append([]interface{}{n.pos}, args...)...)
}

// build dispatches a reader node to the ast.Expr constructor matching
// its head symbol (an atom, for literals and idents; the first child's
// atom, for every list form).
func build(n node) (ast.Expr, error) {
	if n.isAtom {
		return buildAtom(n)
	}
	if len(n.children) == 0 {
		return nil, n.errf("empty form")
	}
	head := n.children[0]
	if !head.isAtom {
		return nil, n.errf("expected a symbol in head position")
	}

	rest := n.children[1:]
	switch head.atom {
	case "program":
		return buildProgram(n, rest)
	case "defun-deploy":
		return buildDefun(n, rest, true)
	case "defun-compile":
		return buildDefun(n, rest, false)
	case "macro":
		return buildMacro(n, rest)
	case "bounded-for":
		return buildBoundedFor(n, rest)
	case "for":
		return buildFor(n, rest)
	case "while":
		return buildWhile(n, rest)
	case "with-capability":
		return buildWithCapability(n, rest)
	case "eval-compile":
		return buildUnary(rest, func(v ast.Expr) ast.Expr { return &ast.EvalCompile{Value: v} }, n)
	case "include":
		return buildInclude(n, rest)
	case "let":
		return buildLet(n, rest)
	case "set":
		return buildSet(n, rest)
	case "if":
		return buildIf(n, rest)
	case "array-literal":
		return buildArrayLiteral(n, rest)
	case "array-get":
		return buildBinary(rest, func(a, b ast.Expr) ast.Expr { return &ast.ArrayGet{Array: a, Index: b} }, n)
	case "array-set":
		return buildArraySet(n, rest)
	case "array-length":
		return buildUnary(rest, func(a ast.Expr) ast.Expr { return &ast.ArrayLength{Array: a} }, n)
	case "gpio-set":
		return buildBinary(rest, func(a, b ast.Expr) ast.Expr { return &ast.GpioSet{Device: a, Value: b} }, n)
	case "gpio-get":
		return buildUnary(rest, func(a ast.Expr) ast.Expr { return &ast.GpioGet{Device: a} }, n)
	case "uart-send":
		return buildBinary(rest, func(a, b ast.Expr) ast.Expr { return &ast.UartSend{Device: a, Data: b} }, n)
	case "uart-recv":
		return buildUnary(rest, func(a ast.Expr) ast.Expr { return &ast.UartRecv{Device: a} }, n)
	case "sensor-read":
		return buildUnary(rest, func(a ast.Expr) ast.Expr { return &ast.SensorRead{Device: a} }, n)
	case "network-send":
		return buildBinary(rest, func(a, b ast.Expr) ast.Expr { return &ast.NetworkSend{Device: a, Data: b} }, n)
	case "network-recv":
		return buildUnary(rest, func(a ast.Expr) ast.Expr { return &ast.NetworkRecv{Device: a} }, n)
	case "sleep-ms":
		return buildUnary(rest, func(a ast.Expr) ast.Expr { return &ast.SleepMs{Duration: a} }, n)
	case "timestamp":
		return &ast.Timestamp{}, nil
	case "resource-budget":
		return buildResourceBudget(n, rest)
	case "defcap":
		return buildDefCap(n, rest)
	default:
		return buildFunctionCall(n, head, rest)
	}
}

func buildAtom(n node) (ast.Expr, error) {
	if len(n.atom) >= 2 && n.atom[0] == '"' {
		s, err := strconv.Unquote(n.atom)
		if err != nil {
			return nil, n.errf("bad string literal %q: %w", n.atom, err)
		}
		return &ast.String{Value: s}, nil
	}
	if n.atom == "true" || n.atom == "false" {
		return &ast.Bool{Value: n.atom == "true"}, nil
	}
	if i, err := strconv.ParseInt(n.atom, 10, 64); err == nil {
		return &ast.Int{Value: i}, nil
	}
	if f, err := strconv.ParseFloat(n.atom, 64); err == nil {
		return &ast.Float{Value: f}, nil
	}
	return &ast.Ident{Name: n.atom}, nil
}

func buildExprs(nodes []node) ([]ast.Expr, error) {
	out := make([]ast.Expr, len(nodes))
	for i, c := range nodes {
		e, err := build(c)
		if err != nil {
			return nil, err
		}
		out[i] = e
	}
	return out, nil
}

func buildUnary(rest []node, ctor func(ast.Expr) ast.Expr, n node) (ast.Expr, error) {
	if len(rest) != 1 {
		return nil, n.errf("expected 1 argument, got %d", len(rest))
	}
	a, err := build(rest[0])
	if err != nil {
		return nil, err
	}
	return ctor(a), nil
}

func buildBinary(rest []node, ctor func(a, b ast.Expr) ast.Expr, n node) (ast.Expr, error) {
	if len(rest) != 2 {
		return nil, n.errf("expected 2 arguments, got %d", len(rest))
	}
	a, err := build(rest[0])
	if err != nil {
		return nil, err
	}
	b, err := build(rest[1])
	if err != nil {
		return nil, err
	}
	return ctor(a, b), nil
}

func buildParams(n node) ([]ast.Parameter, error) {
	params := make([]ast.Parameter, len(n.children))
	for i, c := range n.children {
		if c.isAtom || len(c.children) != 2 {
			return nil, c.errf("expected (name type) parameter pair")
		}
		name := c.children[0]
		if !name.isAtom {
			return nil, name.errf("expected parameter name")
		}
		typ, err := buildType(c.children[1])
		if err != nil {
			return nil, err
		}
		params[i] = ast.Parameter{Name: name.atom, Type: typ}
	}
	return params, nil
}

func buildType(n node) (ast.Type, error) {
	if n.isAtom {
		return ast.Type{Name: n.atom}, nil
	}
	if len(n.children) == 2 && n.children[0].isAtom && n.children[0].atom == "array" {
		elem, err := buildType(n.children[1])
		if err != nil {
			return ast.Type{}, err
		}
		return ast.ArrayType(elem), nil
	}
	return ast.Type{}, n.errf("malformed type")
}

func buildDefun(n node, rest []node, deploy bool) (ast.Expr, error) {
	if len(rest) < 2 {
		return nil, n.errf("defun requires a name and parameter list")
	}
	name := rest[0]
	if !name.isAtom {
		return nil, name.errf("expected function name")
	}
	params, err := buildParams(rest[1])
	if err != nil {
		return nil, err
	}
	body, err := buildExprs(rest[2:])
	if err != nil {
		return nil, err
	}
	if deploy {
		return &ast.DefunDeploy{Name: name.atom, Params: params, Body: body}, nil
	}
	return &ast.DefunCompile{Name: name.atom, Params: params, Body: body}, nil
}

func buildMacro(n node, rest []node) (ast.Expr, error) {
	if len(rest) < 2 {
		return nil, n.errf("macro requires a name and parameter list")
	}
	name := rest[0]
	params, err := buildParams(rest[1])
	if err != nil {
		return nil, err
	}
	body, err := buildExprs(rest[2:])
	if err != nil {
		return nil, err
	}
	return &ast.Macro{Name: name.atom, Params: params, Body: body}, nil
}

func buildBoundedFor(n node, rest []node) (ast.Expr, error) {
	if len(rest) < 3 {
		return nil, n.errf("bounded-for requires var, start, end")
	}
	v := rest[0]
	start, err := build(rest[1])
	if err != nil {
		return nil, err
	}
	end, err := build(rest[2])
	if err != nil {
		return nil, err
	}
	body, err := buildExprs(rest[3:])
	if err != nil {
		return nil, err
	}
	return &ast.BoundedFor{Var: v.atom, Start: start, End: end, Body: body}, nil
}

func buildFor(n node, rest []node) (ast.Expr, error) {
	if len(rest) < 2 {
		return nil, n.errf("for requires var and an iterable")
	}
	v := rest[0]
	iter, err := build(rest[1])
	if err != nil {
		return nil, err
	}
	body, err := buildExprs(rest[2:])
	if err != nil {
		return nil, err
	}
	return &ast.For{Var: v.atom, Iterable: iter, Body: body}, nil
}

func buildWhile(n node, rest []node) (ast.Expr, error) {
	if len(rest) < 1 {
		return nil, n.errf("while requires a condition")
	}
	cond, err := build(rest[0])
	if err != nil {
		return nil, err
	}
	body, err := buildExprs(rest[1:])
	if err != nil {
		return nil, err
	}
	return &ast.While{Cond: cond, Body: body}, nil
}

func buildWithCapability(n node, rest []node) (ast.Expr, error) {
	if len(rest) < 1 {
		return nil, n.errf("with-capability requires a capability expression")
	}
	cap, err := build(rest[0])
	if err != nil {
		return nil, err
	}
	body, err := buildExprs(rest[1:])
	if err != nil {
		return nil, err
	}
	return &ast.WithCapability{Capability: cap, Body: body}, nil
}

func buildInclude(n node, rest []node) (ast.Expr, error) {
	if len(rest) != 1 || !rest[0].isAtom {
		return nil, n.errf("include requires a single path string")
	}
	e, err := buildAtom(rest[0])
	if err != nil {
		return nil, err
	}
	s, ok := e.(*ast.String)
	if !ok {
		return nil, n.errf("include path must be a string literal")
	}
	return &ast.Include{Path: s.Value}, nil
}

func buildLet(n node, rest []node) (ast.Expr, error) {
	if len(rest) < 1 {
		return nil, n.errf("let requires a binding list")
	}
	bindingsNode := rest[0]
	bindings := make([]ast.Binding, len(bindingsNode.children))
	for i, c := range bindingsNode.children {
		if c.isAtom || len(c.children) != 2 {
			return nil, c.errf("expected (name value) binding")
		}
		name := c.children[0]
		val, err := build(c.children[1])
		if err != nil {
			return nil, err
		}
		bindings[i] = ast.Binding{Name: name.atom, Value: val}
	}
	body, err := buildExprs(rest[1:])
	if err != nil {
		return nil, err
	}
	return &ast.Let{Bindings: bindings, Body: body}, nil
}

func buildSet(n node, rest []node) (ast.Expr, error) {
	if len(rest) != 2 || !rest[0].isAtom {
		return nil, n.errf("set requires a variable name and a value")
	}
	val, err := build(rest[1])
	if err != nil {
		return nil, err
	}
	return &ast.Set{Var: rest[0].atom, Value: val}, nil
}

func buildIf(n node, rest []node) (ast.Expr, error) {
	if len(rest) < 2 || len(rest) > 3 {
		return nil, n.errf("if requires a condition, a then-branch, and an optional else-branch")
	}
	cond, err := build(rest[0])
	if err != nil {
		return nil, err
	}
	then, err := build(rest[1])
	if err != nil {
		return nil, err
	}
	var els ast.Expr
	if len(rest) == 3 {
		els, err = build(rest[2])
		if err != nil {
			return nil, err
		}
	}
	return &ast.If{Cond: cond, Then: then, Else: els}, nil
}

func buildArrayLiteral(n node, rest []node) (ast.Expr, error) {
	if len(rest) != 2 || !rest[1].isAtom {
		return nil, n.errf("array-literal requires an element type and a size")
	}
	elem, err := buildType(rest[0])
	if err != nil {
		return nil, err
	}
	size, err := strconv.Atoi(rest[1].atom)
	if err != nil {
		return nil, n.errf("array-literal size must be an integer: %w", err)
	}
	return &ast.ArrayLiteral{ElemType: elem, Size: size}, nil
}

func buildArraySet(n node, rest []node) (ast.Expr, error) {
	if len(rest) != 3 {
		return nil, n.errf("array-set requires an array, an index, and a value")
	}
	arr, err := build(rest[0])
	if err != nil {
		return nil, err
	}
	idx, err := build(rest[1])
	if err != nil {
		return nil, err
	}
	val, err := build(rest[2])
	if err != nil {
		return nil, err
	}
	return &ast.ArraySet{Array: arr, Index: idx, Value: val}, nil
}

func buildResourceBudget(n node, rest []node) (ast.Expr, error) {
	specs := make([]ast.ResourceSpec, len(rest))
	for i, c := range rest {
		if c.isAtom || len(c.children) != 2 || !c.children[0].isAtom || !c.children[1].isAtom {
			return nil, c.errf("expected (kind limit) resource spec")
		}
		limit, err := strconv.ParseUint(c.children[1].atom, 10, 64)
		if err != nil {
			return nil, c.errf("resource limit must be a non-negative integer: %w", err)
		}
		specs[i] = ast.ResourceSpec{Kind: ast.ResourceKind(c.children[0].atom), Limit: limit}
	}
	return &ast.ResourceBudget{Specs: specs}, nil
}

func buildDefCap(n node, rest []node) (ast.Expr, error) {
	if len(rest) < 2 {
		return nil, n.errf("defcap requires a name and a parameter list")
	}
	name := rest[0]
	params, err := buildParams(rest[1])
	if err != nil {
		return nil, err
	}
	desc := ""
	if len(rest) >= 3 && rest[2].isAtom {
		if e, err := buildAtom(rest[2]); err == nil {
			if s, ok := e.(*ast.String); ok {
				desc = s.Value
			}
		}
	}
	return &ast.DefCap{Name: name.atom, Params: params, Description: desc}, nil
}

func buildFunctionCall(n node, head node, rest []node) (ast.Expr, error) {
	fn, err := build(head)
	if err != nil {
		return nil, err
	}
	args, err := buildExprs(rest)
	if err != nil {
		return nil, err
	}
	return &ast.FunctionCall{Func: fn, Args: args}, nil
}

func buildProgram(n node, rest []node) (ast.Expr, error) {
	if len(rest) < 1 || !rest[0].isAtom {
		return nil, n.errf("program requires a name string")
	}
	nameExpr, err := buildAtom(rest[0])
	if err != nil {
		return nil, err
	}
	nameStr, ok := nameExpr.(*ast.String)
	name := rest[0].atom
	if ok {
		name = nameStr.Value
	}

	var budget ast.Expr
	formsStart := 1
	if len(rest) > 1 && !rest[1].isAtom && len(rest[1].children) > 0 &&
		rest[1].children[0].isAtom && rest[1].children[0].atom == "resource-budget" {
		budget, err = build(rest[1])
		if err != nil {
			return nil, err
		}
		formsStart = 2
	}

	forms, err := buildExprs(rest[formsStart:])
	if err != nil {
		return nil, err
	}
	return &ast.Program{Name: name, Budget: budget, Forms: forms}, nil
}
