package ast

import (
	"strings"
)

// Pretty renders e as an indented s-expression, the textual form the
// `parse --pretty` subcommand prints. It is a deterministic function of
// the tree alone: no field ordering, whitespace, or indentation varies
// between calls on an equal tree.
func Pretty(e Expr) string {
	var b strings.Builder
	writePretty(&b, e, 0)
	return b.String()
}

func indent(b *strings.Builder, depth int) {
	for i := 0; i < depth; i++ {
		b.WriteString("  ")
	}
}

func writePretty(b *strings.Builder, e Expr, depth int) {
	indent(b, depth)
	if e == nil {
		b.WriteString("nil")
		return
	}

	switch n := e.(type) {
	case *Int, *Float, *Bool, *String, *Ident, *Timestamp, *Include, *ArrayLiteral:
		b.WriteString(n.String())

	case *DefunDeploy:
		b.WriteString("(defun-deploy " + n.Name + " (" + paramsString(n.Params) + ")\n")
		writeBody(b, n.Body, depth+1)
		closeParen(b, depth)

	case *DefunCompile:
		b.WriteString("(defun-compile " + n.Name + " (" + paramsString(n.Params) + ")\n")
		writeBody(b, n.Body, depth+1)
		closeParen(b, depth)

	case *Macro:
		b.WriteString("(macro " + n.Name + " (" + paramsString(n.Params) + ")\n")
		writeBody(b, n.Body, depth+1)
		closeParen(b, depth)

	case *BoundedFor:
		b.WriteString("(bounded-for " + n.Var + " " + n.Start.String() + " " + n.End.String() + "\n")
		writeBody(b, n.Body, depth+1)
		closeParen(b, depth)

	case *For:
		b.WriteString("(for " + n.Var + " " + n.Iterable.String() + "\n")
		writeBody(b, n.Body, depth+1)
		closeParen(b, depth)

	case *While:
		b.WriteString("(while " + n.Cond.String() + "\n")
		writeBody(b, n.Body, depth+1)
		closeParen(b, depth)

	case *WithCapability:
		b.WriteString("(with-capability " + n.Capability.String() + "\n")
		writeBody(b, n.Body, depth+1)
		closeParen(b, depth)

	case *Let:
		b.WriteString("(let (")
		for i, bind := range n.Bindings {
			if i > 0 {
				b.WriteString(" ")
			}
			b.WriteString("(" + bind.Name + " " + bind.Value.String() + ")")
		}
		b.WriteString(")\n")
		writeBody(b, n.Body, depth+1)
		closeParen(b, depth)

	case *If:
		b.WriteString("(if " + n.Cond.String() + "\n")
		writePretty(b, n.Then, depth+1)
		b.WriteString("\n")
		if n.Else != nil {
			writePretty(b, n.Else, depth+1)
			b.WriteString("\n")
		}
		closeParen(b, depth)

	case *FunctionCall:
		b.WriteString("(" + n.Func.String())
		for _, a := range n.Args {
			b.WriteString(" " + a.String())
		}
		b.WriteString(")")

	case *Program:
		b.WriteString("(program " + n.Name + "\n")
		if n.Budget != nil {
			writePretty(b, n.Budget, depth+1)
			b.WriteString("\n")
		}
		writeBody(b, n.Forms, depth+1)
		closeParen(b, depth)

	default:
		b.WriteString(e.String())
	}
}

func writeBody(b *strings.Builder, body []Expr, depth int) {
	for i, e := range body {
		writePretty(b, e, depth)
		if i < len(body)-1 {
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")
}

func closeParen(b *strings.Builder, depth int) {
	indent(b, depth)
	b.WriteString(")")
}
