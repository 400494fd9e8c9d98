package symassign_test

import (
	"strings"
	"testing"

	"github.com/cwbudde/go-dws/internal/ir"
	"github.com/cwbudde/go-dws/internal/lexctx"
	"github.com/cwbudde/go-dws/internal/passes/symassign"
)

func runProgram(t *testing.T, body *ir.Block) (*ir.FunctionNode, error) {
	t.Helper()
	program := ir.NewFunctionNode("")
	program.IsProgram = true
	program.Body = body
	return symassign.Run(lexctx.New(), nil, program)
}

func TestGlobalIdentifierGetsScopeSymbol(t *testing.T) {
	ref := ir.NewIdentifier("x")
	result, err := runProgram(t, ir.NewBlock(&ir.ExpressionStatement{Expr: ref}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_ = result
	if ref.Symbol == nil || ref.Symbol.Kind != ir.SymGlobal || !ref.Symbol.IsScope {
		t.Fatalf("expected a scope-flagged global symbol, got %#v", ref.Symbol)
	}
}

func TestVarHoistedToFunctionScopeDespiteNestedDeclaration(t *testing.T) {
	use := ir.NewIdentifier("a")
	inner := ir.NewBlock(&ir.VarStatement{Kind: ir.SymVar, Names: []*ir.Identifier{ir.NewIdentifier("a")}, Inits: []ir.Expression{nil}})
	body := ir.NewBlock(
		&ir.IfStatement{Test: ir.NewBooleanLiteral(true), Then: inner},
		&ir.ExpressionStatement{Expr: use},
	)
	_, err := runProgram(t, body)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if use.Symbol == nil || use.Symbol.Kind != ir.SymVar {
		t.Fatalf("expected `a` to resolve to the hoisted var symbol, got %#v", use.Symbol)
	}
	if use.Symbol.DefiningBlock != body {
		t.Fatalf("expected var hoisted to the function body block, not the if-branch block")
	}
}

func TestDuplicateParameterIsSyntaxError(t *testing.T) {
	fn := ir.NewFunctionNode("f")
	fn.Params = []*ir.Parameter{{Name: "x"}, {Name: "x"}}
	fn.Body = ir.NewBlock()
	program := ir.NewFunctionNode("")
	program.IsProgram = true
	program.Body = ir.NewBlock(&ir.VarStatement{
		Kind:  ir.SymVar,
		Names: []*ir.Identifier{ir.NewIdentifier("f")},
		Inits: []ir.Expression{fn},
	})
	_, err := symassign.Run(lexctx.New(), nil, program)
	if err == nil || !strings.Contains(err.Error(), "duplicate parameter") {
		t.Fatalf("expected a duplicate parameter error, got %v", err)
	}
}

func TestCapturedVariablePromotesDefiningBlockToScope(t *testing.T) {
	inner := ir.NewFunctionNode("inner")
	capture := ir.NewIdentifier("a")
	inner.Body = ir.NewBlock(&ir.ReturnStatement{Expr: capture})

	outer := ir.NewFunctionNode("outer")
	outer.Body = ir.NewBlock(
		&ir.VarStatement{Kind: ir.SymVar, Names: []*ir.Identifier{ir.NewIdentifier("a")}, Inits: []ir.Expression{nil}},
		&ir.VarStatement{Kind: ir.SymVar, Names: []*ir.Identifier{ir.NewIdentifier("inner")}, Inits: []ir.Expression{inner}},
	)

	program := ir.NewFunctionNode("")
	program.IsProgram = true
	program.Body = ir.NewBlock(&ir.VarStatement{
		Kind:  ir.SymVar,
		Names: []*ir.Identifier{ir.NewIdentifier("outer")},
		Inits: []ir.Expression{outer},
	})

	_, err := symassign.Run(lexctx.New(), nil, program)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if capture.Symbol == nil || !capture.Symbol.IsScope {
		t.Fatalf("expected captured `a` to resolve to a scope symbol, got %#v", capture.Symbol)
	}
	if !outer.Body.NeedsScope {
		t.Fatalf("expected outer's body to be marked needs-scope")
	}
	if !inner.NeedsParentScope {
		t.Fatalf("expected inner to be marked needs-parent-scope")
	}
}

func TestTypeofOnUndeclaredNameRewritesToRuntimeCall(t *testing.T) {
	typeofExpr := &ir.UnaryNode{Op: ir.UnaryTypeof, Operand: ir.NewIdentifier("undeclared")}
	body := ir.NewBlock(&ir.ExpressionStatement{Expr: typeofExpr})
	_, err := runProgram(t, body)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	es := body.Statements[0].(*ir.ExpressionStatement)
	call, ok := es.Expr.(*ir.CallNode)
	if !ok || !call.IsRuntimeCall || call.RuntimeName != "ECMAErrors.TYPEOF" {
		t.Fatalf("expected a TYPEOF runtime call, got %#v", es.Expr)
	}
	if len(call.Args) != 2 {
		t.Fatalf("expected (scope, name-literal) args, got %#v", call.Args)
	}
	if lit, ok := call.Args[1].(*ir.StringLiteral); !ok || lit.Value != "undeclared" {
		t.Fatalf("expected the name literal as the second arg, got %#v", call.Args[1])
	}
}

func TestTypeofOnLocalVarUntouched(t *testing.T) {
	use := ir.NewIdentifier("a")
	body := ir.NewBlock(
		&ir.VarStatement{Kind: ir.SymVar, Names: []*ir.Identifier{ir.NewIdentifier("a")}, Inits: []ir.Expression{nil}},
		&ir.ExpressionStatement{Expr: &ir.UnaryNode{Op: ir.UnaryTypeof, Operand: use}},
	)
	_, err := runProgram(t, body)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	es := body.Statements[1].(*ir.ExpressionStatement)
	if _, ok := es.Expr.(*ir.UnaryNode); !ok {
		t.Fatalf("expected typeof of a purely local var to stay untouched, got %#v", es.Expr)
	}
}

func TestDeepEvalPromotesParamsToScope(t *testing.T) {
	fn := ir.NewFunctionNode("f")
	fn.Params = []*ir.Parameter{{Name: "x"}}
	fn.Body = ir.NewBlock(&ir.ExpressionStatement{Expr: &ir.CallNode{Callee: ir.NewIdentifier("eval"), Args: []ir.Expression{ir.NewStringLiteral("x")}}})

	program := ir.NewFunctionNode("")
	program.IsProgram = true
	program.Body = ir.NewBlock(&ir.VarStatement{
		Kind:  ir.SymVar,
		Names: []*ir.Identifier{ir.NewIdentifier("f")},
		Inits: []ir.Expression{fn},
	})

	_, err := symassign.Run(lexctx.New(), nil, program)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !fn.HasDeepEval {
		t.Fatalf("expected fn to be flagged HasDeepEval")
	}
	if fn.Params[0].Symbol == nil || !fn.Params[0].Symbol.IsScope {
		t.Fatalf("expected the parameter to be promoted to scope, got %#v", fn.Params[0].Symbol)
	}
}

func TestDeepEvalPropagatesToEnclosingFunction(t *testing.T) {
	inner := ir.NewFunctionNode("inner")
	inner.Body = ir.NewBlock(&ir.ExpressionStatement{Expr: &ir.CallNode{Callee: ir.NewIdentifier("eval")}})

	outer := ir.NewFunctionNode("outer")
	outer.Params = []*ir.Parameter{{Name: "y"}}
	outer.Body = ir.NewBlock(&ir.VarStatement{
		Kind:  ir.SymVar,
		Names: []*ir.Identifier{ir.NewIdentifier("inner")},
		Inits: []ir.Expression{inner},
	})

	program := ir.NewFunctionNode("")
	program.IsProgram = true
	program.Body = ir.NewBlock(&ir.VarStatement{
		Kind:  ir.SymVar,
		Names: []*ir.Identifier{ir.NewIdentifier("outer")},
		Inits: []ir.Expression{outer},
	})

	_, err := symassign.Run(lexctx.New(), nil, program)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !outer.HasDeepEval {
		t.Fatalf("expected outer to inherit HasDeepEval from its nested function")
	}
	if outer.Params[0].Symbol == nil || !outer.Params[0].Symbol.IsScope {
		t.Fatalf("expected outer's parameter to be promoted to scope by deep eval")
	}
}

func TestThisPropertyAssignmentRecorded(t *testing.T) {
	fn := ir.NewFunctionNode("Point")
	fn.Body = ir.NewBlock(&ir.ExpressionStatement{Expr: &ir.BinaryNode{
		Op:    ir.Assign,
		Left:  &ir.AccessNode{Base: ir.NewIdentifier("this"), Name: "x"},
		Right: ir.NewIntLiteral(0),
	}})

	program := ir.NewFunctionNode("")
	program.IsProgram = true
	program.Body = ir.NewBlock(&ir.VarStatement{
		Kind:  ir.SymVar,
		Names: []*ir.Identifier{ir.NewIdentifier("Point")},
		Inits: []ir.Expression{fn},
	})

	_, err := symassign.Run(lexctx.New(), nil, program)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !fn.ThisProperties["x"] {
		t.Fatalf("expected ThisProperties[%q] to be recorded, got %#v", "x", fn.ThisProperties)
	}
}
