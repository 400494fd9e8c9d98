package fold_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/cwbudde/go-dws/internal/ir"
	"github.com/cwbudde/go-dws/internal/lexctx"
	"github.com/cwbudde/go-dws/internal/passes/fold"
)

func foldExpr(t *testing.T, expr ir.Expression) ir.Expression {
	t.Helper()
	program := ir.NewFunctionNode("")
	program.IsProgram = true
	program.Body = ir.NewBlock(&ir.ExpressionStatement{Expr: expr})
	result := fold.Run(lexctx.New(), program)
	return result.Body.Statements[0].(*ir.ExpressionStatement).Expr
}

func TestFoldBinary_IntArithmetic(t *testing.T) {
	tests := []struct {
		name    string
		op      ir.BinaryOp
		left    int32
		right   int32
		wantInt int32
	}{
		{"add", ir.Add, 1, 2, 3},
		{"subtract", ir.Sub, 10, 3, 7},
		{"multiply", ir.Mul, 4, 5, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := foldExpr(t, &ir.BinaryNode{Op: tt.op, Left: ir.NewIntLiteral(tt.left), Right: ir.NewIntLiteral(tt.right)})
			lit, ok := result.(*ir.NumberLiteral)
			if !ok || lit.Kind != ir.LitInt {
				t.Fatalf("expected int literal, got %#v", result)
			}
			if lit.IntVal != tt.wantInt {
				t.Fatalf("got %d, want %d", lit.IntVal, tt.wantInt)
			}
		})
	}
}

func TestFoldBinary_DivisionByZeroNotFolded(t *testing.T) {
	bin := &ir.BinaryNode{Op: ir.Div, Left: ir.NewIntLiteral(1), Right: ir.NewIntLiteral(0)}
	result := foldExpr(t, bin)
	if _, ok := result.(*ir.BinaryNode); !ok {
		t.Fatalf("expected division by zero to stay unfolded, got %#v", result)
	}
}

func TestFoldBinary_StringConcat(t *testing.T) {
	bin := &ir.BinaryNode{Op: ir.Add, Left: ir.NewStringLiteral("a"), Right: ir.NewIntLiteral(1)}
	result := foldExpr(t, bin)
	lit, ok := result.(*ir.StringLiteral)
	if !ok || lit.Value != "a1" {
		t.Fatalf("expected string literal \"a1\", got %#v", result)
	}
}

func TestFoldUnary_NegateZeroProducesDouble(t *testing.T) {
	un := &ir.UnaryNode{Op: ir.UnaryMinus, Operand: ir.NewIntLiteral(0)}
	result := foldExpr(t, un)
	lit, ok := result.(*ir.NumberLiteral)
	if !ok || lit.Kind != ir.LitDouble {
		t.Fatalf("expected -0 to fold to a double literal, got %#v", result)
	}
}

func TestFoldUnary_TypeofNotFolded(t *testing.T) {
	un := &ir.UnaryNode{Op: ir.UnaryTypeof, Operand: ir.NewIntLiteral(1)}
	result := foldExpr(t, un)
	if _, ok := result.(*ir.UnaryNode); !ok {
		t.Fatalf("expected typeof to stay unfolded, got %#v", result)
	}
}

func TestFoldTernary_TakesLiveBranch(t *testing.T) {
	tern := &ir.TernaryNode{Test: ir.NewBooleanLiteral(false), Then: ir.NewIntLiteral(1), Else: ir.NewIntLiteral(2)}
	result := foldExpr(t, tern)
	lit, ok := result.(*ir.NumberLiteral)
	if !ok || lit.IntVal != 2 {
		t.Fatalf("expected else-branch literal 2, got %#v", result)
	}
}

func TestFoldIfStatement_PreservesDeadVarHoisting(t *testing.T) {
	deadVar := &ir.VarStatement{
		Kind:  ir.SymVar,
		Names: []*ir.Identifier{ir.NewIdentifier("hoisted")},
		Inits: []ir.Expression{ir.NewIntLiteral(99)},
	}
	ifStmt := &ir.IfStatement{
		Test: ir.NewBooleanLiteral(false),
		Then: ir.NewBlock(deadVar),
		Else: &ir.ExpressionStatement{Expr: ir.NewIntLiteral(1)},
	}

	program := ir.NewFunctionNode("")
	program.IsProgram = true
	program.Body = ir.NewBlock(ifStmt)
	result := fold.Run(lexctx.New(), program)

	block, ok := result.Body.Statements[0].(*ir.Block)
	if !ok {
		t.Fatalf("expected the dead var + live branch wrapped in a block, got %T", result.Body.Statements[0])
	}
	if len(block.Statements) != 2 {
		t.Fatalf("expected 2 statements (hoisted var + live branch), got %d", len(block.Statements))
	}
	hoisted, ok := block.Statements[0].(*ir.VarStatement)
	if !ok || hoisted.Inits[0] != nil {
		t.Fatalf("expected hoisted var with stripped initializer, got %#v", block.Statements[0])
	}
}

func TestFoldSwitch_UniqueIntegerCases(t *testing.T) {
	sw := &ir.SwitchStatement{
		Tag: ir.NewIdentifier("x"),
		Cases: []*ir.CaseClause{
			{Test: ir.NewIntLiteral(1), Body: ir.NewBlock()},
			{Test: ir.NewIntLiteral(2), Body: ir.NewBlock()},
			{Test: nil, Body: ir.NewBlock()},
		},
	}
	program := ir.NewFunctionNode("")
	program.IsProgram = true
	program.Body = ir.NewBlock(sw)
	result := fold.Run(lexctx.New(), program)

	got := result.Body.Statements[0].(*ir.SwitchStatement)
	if !got.UniqueInteger {
		t.Fatal("expected distinct integer case tests to set UniqueInteger")
	}
}

func TestFoldIsIdempotent(t *testing.T) {
	build := func() *ir.FunctionNode {
		program := ir.NewFunctionNode("")
		program.IsProgram = true
		program.Body = ir.NewBlock(&ir.ExpressionStatement{Expr: &ir.TernaryNode{
			Test: ir.NewBooleanLiteral(true),
			Then: &ir.BinaryNode{Op: ir.Add, Left: ir.NewIntLiteral(1), Right: ir.NewIntLiteral(2)},
			Else: ir.NewIntLiteral(0),
		}})
		return program
	}

	once := fold.Run(lexctx.New(), build())
	twice := fold.Run(lexctx.New(), once)

	ignorePositions := cmpopts.IgnoreFields(ir.BaseNode{}, "Tok", "FinishPos")
	if diff := cmp.Diff(once, twice, ignorePositions); diff != "" {
		t.Fatalf("fold(fold(t)) != fold(t):\n%s", diff)
	}
}

func TestFoldSwitch_DuplicateIntegerCasesNotUnique(t *testing.T) {
	sw := &ir.SwitchStatement{
		Tag: ir.NewIdentifier("x"),
		Cases: []*ir.CaseClause{
			{Test: ir.NewIntLiteral(1), Body: ir.NewBlock()},
			{Test: ir.NewIntLiteral(1), Body: ir.NewBlock()},
		},
	}
	program := ir.NewFunctionNode("")
	program.IsProgram = true
	program.Body = ir.NewBlock(sw)
	result := fold.Run(lexctx.New(), program)

	got := result.Body.Statements[0].(*ir.SwitchStatement)
	if got.UniqueInteger {
		t.Fatal("expected duplicate case values to clear UniqueInteger")
	}
}
