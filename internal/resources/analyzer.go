package resources

import (
	"fmt"

	"github.com/Hyperpolymath/boinc-boinc/internal/ast"
	"github.com/Hyperpolymath/boinc-boinc/internal/consteval"
)

// Cost table, copied verbatim from spec.md §4.5's fixed per-operation
// costs (time units). These values are a contract, not a tuning knob:
// callers depending on a deterministic WCET figure need them to never
// silently drift.
const (
	costArithAddSub    = 1
	costArithMul       = 2
	costArithDivMod    = 10
	costArrayAccess    = 1
	costGpio           = 100
	costUart           = 200
	costSensor         = 500
	costNetwork        = 1000
	costSleep          = 0
	costFunctionCall   = 10
	costLiteral        = 1
	networkBytesPerOp  = 256 // fixed estimate, spec.md §4.5/§9
)

// ErrorKind distinguishes the resource-analysis failure modes spec.md
// §7 names.
type ErrorKind string

const (
	ErrUnknownBounds    ErrorKind = "unknown-bounds"
	ErrInfiniteResources ErrorKind = "infinite-resources"
)

// AnalysisError reports why a function's resource bounds could not be
// computed.
type AnalysisError struct {
	Kind     ErrorKind
	Function string
	Detail   string
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("resources: %s in %q: %s", e.Kind, e.Function, e.Detail)
}

// Analyzer computes worst-case resource bounds over deploy-phase code.
// It holds no mutable state between calls; every method is a pure
// function of its arguments, which is what lets internal/report run
// independent functions' analyses concurrently (spec.md §5).
type Analyzer struct{}

// NewAnalyzer constructs a resource Analyzer.
func NewAnalyzer() *Analyzer { return &Analyzer{} }

// Analyze computes the worst-case resource bounds of a single
// defun-deploy function body. Function calls to other deploy functions
// are charged only the fixed call/return overhead (costFunctionCall),
// not the callee's own transitive cost -- matching the Rust source's
// single-pass, non-inlining cost model.
func (a *Analyzer) Analyze(fnName string, body []ast.Expr) (Bounds, *AnalysisError) {
	var total Bounds
	for _, e := range body {
		b, err := a.analyzeExpr(fnName, e)
		if err != nil {
			return Bounds{}, err
		}
		total = total.Add(b)
	}
	return total, nil
}

func (a *Analyzer) analyzeBody(fnName string, body []ast.Expr) (Bounds, *AnalysisError) {
	var total Bounds
	for _, e := range body {
		b, err := a.analyzeExpr(fnName, e)
		if err != nil {
			return Bounds{}, err
		}
		total = total.Add(b)
	}
	return total, nil
}

func (a *Analyzer) analyzeExpr(fnName string, e ast.Expr) (Bounds, *AnalysisError) {
	switch n := e.(type) {
	case *ast.Int, *ast.Float, *ast.Bool, *ast.String, *ast.Ident:
		return costBounds(costLiteral), nil
	case *ast.Timestamp:
		return Bounds{}, nil

	case *ast.GpioSet:
		return costBounds(costGpio), nil
	case *ast.GpioGet:
		return costBounds(costGpio), nil
	case *ast.UartSend:
		return costBounds(costUart), nil
	case *ast.UartRecv:
		return costBounds(costUart), nil
	case *ast.SensorRead:
		return costBounds(costSensor), nil
	case *ast.NetworkSend:
		b := costBounds(costNetwork)
		b.NetworkBytes += networkBytesPerOp
		return b, nil
	case *ast.NetworkRecv:
		b := costBounds(costNetwork)
		b.NetworkBytes += networkBytesPerOp
		return b, nil
	case *ast.SleepMs:
		return costBounds(costSleep), nil

	case *ast.ArrayGet, *ast.ArraySet, *ast.ArrayLength:
		return costBounds(costArrayAccess), nil
	case *ast.ArrayLiteral:
		return Bounds{MemoryBytes: uint64(n.Size) * arrayElemSize}, nil

	case *ast.Let:
		var total Bounds
		for _, bnd := range n.Bindings {
			b, err := a.analyzeExpr(fnName, bnd.Value)
			if err != nil {
				return Bounds{}, err
			}
			total = total.Add(b)
		}
		body, err := a.analyzeBody(fnName, n.Body)
		if err != nil {
			return Bounds{}, err
		}
		return total.Add(body), nil

	case *ast.Set:
		return a.analyzeExpr(fnName, n.Value)

	case *ast.If:
		cond, err := a.analyzeExpr(fnName, n.Cond)
		if err != nil {
			return Bounds{}, err
		}
		then, err := a.analyzeExpr(fnName, n.Then)
		if err != nil {
			return Bounds{}, err
		}
		var els Bounds
		if n.Else != nil {
			els, err = a.analyzeExpr(fnName, n.Else)
			if err != nil {
				return Bounds{}, err
			}
		}
		return cond.Add(then.Max(els)), nil

	case *ast.FunctionCall:
		total := costBounds(costFunctionCall)
		for _, arg := range n.Args {
			b, err := a.analyzeExpr(fnName, arg)
			if err != nil {
				return Bounds{}, err
			}
			total = total.Add(b)
		}
		if isArithmeticCall(n) {
			total = total.Add(arithmeticCost(n))
		}
		return total, nil

	case *ast.BoundedFor:
		bodyBounds, err := a.analyzeBody(fnName, n.Body)
		if err != nil {
			return Bounds{}, err
		}
		iterations, ok := consteval.Iterations(n.Start, n.End)
		if !ok {
			return Bounds{}, &AnalysisError{
				Kind: ErrUnknownBounds, Function: fnName,
				Detail: fmt.Sprintf("bounded-for %s bounds are not compile-time constants", n.Var),
			}
		}
		return bodyBounds.Multiply(iterations), nil

	case *ast.WithCapability:
		cap, err := a.analyzeExpr(fnName, n.Capability)
		if err != nil {
			return Bounds{}, err
		}
		body, err := a.analyzeBody(fnName, n.Body)
		if err != nil {
			return Bounds{}, err
		}
		return cap.Add(body), nil

	default:
		return Bounds{}, nil
	}
}

func costBounds(timeMs uint64) Bounds { return Bounds{TimeMs: timeMs} }

// arrayElemSize is fixed at 8 bytes regardless of elem_type, per
// spec.md §4.5/§9: "Array element size. Fixed at 8 bytes in the
// baseline. Precise costing requires type inference for
// ArrayLiteral.elem_type; noted as a refinement" -- not part of the
// baseline contract this analyzer implements.
const arrayElemSize = 8

func isArithmeticCall(call *ast.FunctionCall) bool {
	id, ok := call.Func.(*ast.Ident)
	if !ok {
		return false
	}
	switch id.Name {
	case "+", "-", "*", "/", "%":
		return true
	}
	return false
}

func arithmeticCost(call *ast.FunctionCall) Bounds {
	id := call.Func.(*ast.Ident)
	switch id.Name {
	case "+", "-":
		return costBounds(costArithAddSub)
	case "*":
		return costBounds(costArithMul)
	case "/", "%":
		return costBounds(costArithDivMod)
	}
	return Bounds{}
}

// AnalyzeProgram computes per-function resource bounds for every
// top-level defun-deploy in forms (recursing into Program envelopes),
// and the sum across all of them, sequentially. The `resources`
// subcommand uses it; internal/report instead calls Analyze per
// function concurrently.
func (a *Analyzer) AnalyzeProgram(forms []ast.Expr) (map[string]Bounds, Bounds, *AnalysisError) {
	perFn := make(map[string]Bounds)
	var total Bounds
	var walk func(e ast.Expr) *AnalysisError
	walk = func(e ast.Expr) *AnalysisError {
		switch n := e.(type) {
		case *ast.DefunDeploy:
			b, err := a.Analyze(n.Name, n.Body)
			if err != nil {
				return err
			}
			perFn[n.Name] = b
			total = total.Add(b)
		case *ast.Program:
			for _, inner := range n.Forms {
				if err := walk(inner); err != nil {
					return err
				}
			}
		}
		return nil
	}
	for _, f := range forms {
		if err := walk(f); err != nil {
			return nil, Bounds{}, err
		}
	}
	return perFn, total, nil
}
