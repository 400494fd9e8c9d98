package lower_test

import (
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"

	"github.com/cwbudde/go-dws/internal/ir"
	"github.com/cwbudde/go-dws/internal/lexctx"
	"github.com/cwbudde/go-dws/internal/passes/lower"
)

func runBody(t *testing.T, stmts ...ir.Statement) *ir.Block {
	t.Helper()
	program := ir.NewFunctionNode("")
	program.IsProgram = true
	program.Body = ir.NewBlock(stmts...)
	result := lower.Run(lexctx.New(), program)
	return result.Body
}

func TestProgramLevelExpressionCapturesReturn(t *testing.T) {
	body := runBody(t, &ir.ExpressionStatement{Expr: ir.NewIntLiteral(42)})
	es, ok := body.Statements[0].(*ir.ExpressionStatement)
	if !ok {
		t.Fatalf("expected ExpressionStatement, got %#v", body.Statements[0])
	}
	bin, ok := es.Expr.(*ir.BinaryNode)
	if !ok || bin.Op != ir.Assign {
		t.Fatalf("expected `:return = expr` assignment, got %#v", es.Expr)
	}
	id, ok := bin.Left.(*ir.Identifier)
	if !ok || id.Name != ":return" {
		t.Fatalf("expected :return target, got %#v", bin.Left)
	}
}

func TestProgramLevelAssignmentToReturnNotDoubleWrapped(t *testing.T) {
	already := &ir.ExpressionStatement{Expr: &ir.BinaryNode{
		Op: ir.Assign, Left: ir.NewIdentifier(":return"), Right: ir.NewIntLiteral(1),
	}}
	body := runBody(t, already)
	es := body.Statements[0].(*ir.ExpressionStatement)
	bin := es.Expr.(*ir.BinaryNode)
	if _, ok := bin.Right.(*ir.NumberLiteral); !ok {
		t.Fatalf("expected a single assignment layer, got %#v", bin.Right)
	}
}

func TestIndexByIdentifierStringNarrowsToAccess(t *testing.T) {
	body := runBody(t, &ir.ExpressionStatement{Expr: &ir.IndexNode{
		Base: ir.NewIdentifier("obj"), Index: ir.NewStringLiteral("field"),
	}})
	es := body.Statements[0].(*ir.ExpressionStatement)
	bin := es.Expr.(*ir.BinaryNode)
	access, ok := bin.Right.(*ir.AccessNode)
	if !ok || access.Name != "field" {
		t.Fatalf("expected AccessNode(field), got %#v", bin.Right)
	}
}

func TestIndexByNonIdentifierStringStaysIndexed(t *testing.T) {
	body := runBody(t, &ir.ExpressionStatement{Expr: &ir.IndexNode{
		Base: ir.NewIdentifier("obj"), Index: ir.NewStringLiteral("not an ident"),
	}})
	es := body.Statements[0].(*ir.ExpressionStatement)
	bin := es.Expr.(*ir.BinaryNode)
	if _, ok := bin.Right.(*ir.IndexNode); !ok {
		t.Fatalf("expected IndexNode preserved, got %#v", bin.Right)
	}
}

func TestDeleteOfNonReferenceDesugarsToComma(t *testing.T) {
	body := runBody(t, &ir.ExpressionStatement{Expr: &ir.UnaryNode{
		Op: ir.UnaryDelete, Operand: &ir.CallNode{Callee: ir.NewIdentifier("f")},
	}})
	es := body.Statements[0].(*ir.ExpressionStatement)
	bin := es.Expr.(*ir.BinaryNode)
	comma, ok := bin.Right.(*ir.BinaryNode)
	if !ok || comma.Op != ir.Comma {
		t.Fatalf("expected comma desugaring, got %#v", bin.Right)
	}
	if b, ok := comma.Right.(*ir.BooleanLiteral); !ok || !b.Value {
		t.Fatalf("expected trailing `true`, got %#v", comma.Right)
	}
}

func TestDeleteOfReferenceUntouched(t *testing.T) {
	body := runBody(t, &ir.ExpressionStatement{Expr: &ir.UnaryNode{
		Op: ir.UnaryDelete, Operand: ir.NewIdentifier("x"),
	}})
	es := body.Statements[0].(*ir.ExpressionStatement)
	bin := es.Expr.(*ir.BinaryNode)
	if _, ok := bin.Right.(*ir.UnaryNode); !ok {
		t.Fatalf("expected delete preserved on a reference operand, got %#v", bin.Right)
	}
}

func TestInRewritesToRuntimeCall(t *testing.T) {
	body := runBody(t, &ir.ExpressionStatement{Expr: &ir.BinaryNode{
		Op: ir.In, Left: ir.NewStringLiteral("k"), Right: ir.NewIdentifier("obj"),
	}})
	es := body.Statements[0].(*ir.ExpressionStatement)
	bin := es.Expr.(*ir.BinaryNode)
	call, ok := bin.Right.(*ir.CallNode)
	if !ok || !call.IsRuntimeCall || call.RuntimeName != "ECMAErrors.IN" {
		t.Fatalf("expected IN runtime call, got %#v", bin.Right)
	}
}

func TestInstanceofRewritesToRuntimeCall(t *testing.T) {
	body := runBody(t, &ir.ExpressionStatement{Expr: &ir.BinaryNode{
		Op: ir.InstanceOf, Left: ir.NewIdentifier("x"), Right: ir.NewIdentifier("Ctor"),
	}})
	es := body.Statements[0].(*ir.ExpressionStatement)
	bin := es.Expr.(*ir.BinaryNode)
	call, ok := bin.Right.(*ir.CallNode)
	if !ok || !call.IsRuntimeCall || call.RuntimeName != "ECMAErrors.INSTANCEOF" {
		t.Fatalf("expected INSTANCEOF runtime call, got %#v", bin.Right)
	}
}

func TestWhileTrueBecomesTestlessFor(t *testing.T) {
	body := runBody(t, &ir.WhileStatement{
		Test: ir.NewBooleanLiteral(true),
		Body: &ir.BreakStatement{},
	})
	forLoop, ok := body.Statements[0].(*ir.ForStatement)
	if !ok || forLoop.Test != nil {
		t.Fatalf("expected testless ForStatement, got %#v", body.Statements[0])
	}
}

func TestAlwaysTrueForTestDropped(t *testing.T) {
	body := runBody(t, &ir.ForStatement{
		ForKind: ir.ForClassic,
		Test:    ir.NewBooleanLiteral(true),
		Body:    &ir.BreakStatement{},
	})
	forLoop := body.Statements[0].(*ir.ForStatement)
	if forLoop.Test != nil {
		t.Fatalf("expected nil test, got %#v", forLoop.Test)
	}
}

func TestLoopEscapeDetectedForUnlabeledBreak(t *testing.T) {
	body := runBody(t, &ir.WhileStatement{
		Test: ir.NewIdentifier("cond"),
		Body: ir.NewBlock(&ir.BreakStatement{}),
	})
	w := body.Statements[0].(*ir.WhileStatement)
	if !w.Escapes {
		t.Fatalf("expected Escapes true for a body containing break")
	}
}

func TestLoopEscapeFalseWhenBreakConsumedByNestedSwitch(t *testing.T) {
	body := runBody(t, &ir.WhileStatement{
		Test: ir.NewIdentifier("cond"),
		Body: ir.NewBlock(&ir.SwitchStatement{
			Tag: ir.NewIdentifier("x"),
			Cases: []*ir.CaseClause{
				{Test: ir.NewIntLiteral(1), Body: ir.NewBlock(&ir.BreakStatement{})},
			},
		}),
	})
	w := body.Statements[0].(*ir.WhileStatement)
	if w.Escapes {
		t.Fatalf("expected Escapes false: break is consumed by the nested switch")
	}
}

func TestDebuggerRewritesToRuntimeCall(t *testing.T) {
	body := runBody(t, &ir.DebuggerStatement{})
	es, ok := body.Statements[0].(*ir.ExpressionStatement)
	if !ok {
		t.Fatalf("expected ExpressionStatement, got %#v", body.Statements[0])
	}
	call, ok := es.Expr.(*ir.CallNode)
	if !ok || !call.IsRuntimeCall || call.RuntimeName != "Debugger" {
		t.Fatalf("expected Debugger runtime call, got %#v", es.Expr)
	}
}

func TestCaseTestIntegralDoubleNarrowedToInt(t *testing.T) {
	sw := &ir.SwitchStatement{
		Tag: ir.NewIdentifier("x"),
		Cases: []*ir.CaseClause{
			{Test: ir.NewDoubleLiteral(3), Body: ir.NewBlock()},
		},
	}
	body := runBody(t, sw)
	_ = body
	if lit, ok := sw.Cases[0].Test.(*ir.NumberLiteral); !ok || lit.Kind != ir.LitInt || lit.IntVal != 3 {
		t.Fatalf("expected case test narrowed to int 3, got %#v", sw.Cases[0].Test)
	}
}

func TestTryWithNoFinallyAndNoCatchesDegenerates(t *testing.T) {
	try := &ir.TryStatement{
		Body: ir.NewBlock(&ir.ExpressionStatement{Expr: ir.NewIdentifier("a")}),
	}
	body := runBody(t, try)
	if _, ok := body.Statements[0].(*ir.TryStatement); ok {
		t.Fatalf("expected try with no finally/catches to degenerate to its body")
	}
}

func TestTryFinallyInlinesFallThroughTail(t *testing.T) {
	cleanup := &ir.ExpressionStatement{Expr: &ir.CallNode{Callee: ir.NewIdentifier("cleanup")}}
	try := &ir.TryStatement{
		Body:    ir.NewBlock(&ir.ExpressionStatement{Expr: &ir.CallNode{Callee: ir.NewIdentifier("work")}}),
		Finally: ir.NewBlock(cleanup),
	}
	body := runBody(t, try)
	block, ok := body.Statements[0].(*ir.Block)
	if !ok {
		t.Fatalf("expected lowered try wrapped in a block, got %#v", body.Statements[0])
	}
	if len(block.Statements) < 2 {
		t.Fatalf("expected the rewrapped try plus a fall-through finally tail, got %d statements", len(block.Statements))
	}
	tail, ok := block.Statements[len(block.Statements)-1].(*ir.Block)
	if !ok || len(tail.Statements) == 0 {
		t.Fatalf("expected a finally clone as the last statement, got %#v", block.Statements[len(block.Statements)-1])
	}
}

func TestTryFinallyWrapsBreakExitInJumpStatement(t *testing.T) {
	brk := &ir.BreakStatement{}
	try := &ir.TryStatement{
		Body:    ir.NewBlock(brk),
		Finally: ir.NewBlock(&ir.ExpressionStatement{Expr: &ir.CallNode{Callee: ir.NewIdentifier("cleanup")}}),
	}
	loop := &ir.WhileStatement{Test: ir.NewIdentifier("cond"), Body: ir.NewBlock(try)}
	body := runBody(t, loop)
	w := body.Statements[0].(*ir.WhileStatement)
	innerBlock := w.Body.(*ir.Block)
	wrapped, ok := innerBlock.Statements[0].(*ir.Block)
	if !ok {
		t.Fatalf("expected lowered try to be a block, got %#v", innerBlock.Statements[0])
	}
	found := false
	var scan func(ir.Statement)
	scan = func(s ir.Statement) {
		switch n := s.(type) {
		case *ir.JumpToInlinedFinallyStatement:
			if _, ok := n.OriginalJump.(*ir.BreakStatement); ok {
				found = true
			}
		case *ir.Block:
			for _, c := range n.Statements {
				scan(c)
			}
		case *ir.TryStatement:
			scan(n.Body)
		}
	}
	for _, s := range wrapped.Statements {
		scan(s)
	}
	if !found {
		t.Fatalf("expected a JumpToInlinedFinallyStatement wrapping the break")
	}
}

func TestTryFinallySplicingGoldenTree(t *testing.T) {
	try := &ir.TryStatement{
		Body: ir.NewBlock(&ir.ReturnStatement{Expr: ir.NewIntLiteral(1)}),
		Catches: []*ir.CatchClause{
			{Param: ir.NewIdentifier("e"), Body: ir.NewBlock(&ir.ThrowStatement{Expr: ir.NewIdentifier("e")})},
		},
		Finally: ir.NewBlock(&ir.ExpressionStatement{Expr: &ir.CallNode{Callee: ir.NewIdentifier("cleanup")}}),
	}
	body := runBody(t, try)
	snaps.MatchSnapshot(t, "try_finally_splice", body.String())
}
