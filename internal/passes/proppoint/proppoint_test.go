package proppoint_test

import (
	"testing"

	"github.com/cwbudde/go-dws/internal/ir"
	"github.com/cwbudde/go-dws/internal/lexctx"
	"github.com/cwbudde/go-dws/internal/passes/proppoint"
)

func TestCallAndOperandsGetDistinctAscendingPoints(t *testing.T) {
	left := ir.NewIdentifier("a")
	right := ir.NewIdentifier("b")
	bin := &ir.BinaryNode{Op: ir.Add, Left: left, Right: right}
	call := &ir.CallNode{Callee: ir.NewIdentifier("f"), Args: []ir.Expression{bin}}

	program := ir.NewFunctionNode("")
	program.IsProgram = true
	program.Body = ir.NewBlock(&ir.ExpressionStatement{Expr: call})

	proppoint.MarkVarTargets(program)
	proppoint.Run(lexctx.New(), program)

	if left.ProgramPoint() == 0 || right.ProgramPoint() == 0 || bin.ProgramPoint() == 0 || call.ProgramPoint() == 0 {
		t.Fatalf("expected every operand to receive a nonzero program point")
	}
	if !(left.ProgramPoint() < right.ProgramPoint() && right.ProgramPoint() < bin.ProgramPoint() && bin.ProgramPoint() < call.ProgramPoint()) {
		t.Fatalf("expected ascending allocation order left < right < binary < call, got %d %d %d %d",
			left.ProgramPoint(), right.ProgramPoint(), bin.ProgramPoint(), call.ProgramPoint())
	}
}

func TestVarDeclarationTargetExcludedFromAllocation(t *testing.T) {
	target := ir.NewIdentifier("x")
	program := ir.NewFunctionNode("")
	program.IsProgram = true
	program.Body = ir.NewBlock(&ir.VarStatement{
		Kind:  ir.SymVar,
		Names: []*ir.Identifier{target},
		Inits: []ir.Expression{ir.NewIntLiteral(1)},
	})

	proppoint.MarkVarTargets(program)
	proppoint.Run(lexctx.New(), program)

	if target.ProgramPoint() != 0 {
		t.Fatalf("expected var-declaration target to be excluded, got program point %d", target.ProgramPoint())
	}
}

func TestCounterResetsAtFunctionBoundary(t *testing.T) {
	innerUse := ir.NewIdentifier("y")
	inner := ir.NewFunctionNode("inner")
	inner.Body = ir.NewBlock(&ir.ExpressionStatement{Expr: innerUse})

	outerUse := ir.NewIdentifier("z")
	program := ir.NewFunctionNode("")
	program.IsProgram = true
	program.Body = ir.NewBlock(
		&ir.ExpressionStatement{Expr: inner},
		&ir.ExpressionStatement{Expr: outerUse},
	)

	proppoint.MarkVarTargets(program)
	proppoint.Run(lexctx.New(), program)

	if innerUse.ProgramPoint() != proppoint.FirstProgramPoint {
		t.Fatalf("expected inner function's first allocation to restart at FirstProgramPoint, got %d", innerUse.ProgramPoint())
	}
}

func TestPreviouslyExcludedNodeNeverAllocated(t *testing.T) {
	id := ir.NewIdentifier("skip")
	proppoint.MarkNoProgramPoint(id)

	program := ir.NewFunctionNode("")
	program.IsProgram = true
	program.Body = ir.NewBlock(&ir.ExpressionStatement{Expr: id})

	proppoint.MarkVarTargets(program)
	proppoint.Run(lexctx.New(), program)

	if id.ProgramPoint() != 0 {
		t.Fatalf("expected previously excluded node to stay unallocated, got %d", id.ProgramPoint())
	}
}
