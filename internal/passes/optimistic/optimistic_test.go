package optimistic_test

import (
	"testing"

	"github.com/cwbudde/go-dws/internal/ir"
	"github.com/cwbudde/go-dws/internal/lexctx"
	"github.com/cwbudde/go-dws/internal/passes/optimistic"
)

type fakeStore struct {
	kind ir.TypeKind
}

func (f fakeStore) GetOptimisticType(ir.Expression) (ir.TypeKind, bool) {
	return f.kind, true
}

func scopedIdentifier(name string) *ir.Identifier {
	id := ir.NewIdentifier(name)
	id.Symbol = &ir.Symbol{Name: name, Kind: ir.SymVar, IsScope: true}
	return id
}

func TestPlainIdentifierGetsOptimisticType(t *testing.T) {
	use := scopedIdentifier("x")
	program := ir.NewFunctionNode("")
	program.IsProgram = true
	program.Body = ir.NewBlock(&ir.ReturnStatement{Expr: use})

	optimistic.Run(lexctx.New(), program, false, fakeStore{kind: ir.TypeInt})

	if use.GetType() == nil || use.GetType().Kind != ir.TypeInt || !use.GetType().Optimistic {
		t.Fatalf("expected an optimistic int type, got %#v", use.GetType())
	}
}

func TestAccessBaseExcludedFromOptimism(t *testing.T) {
	base := scopedIdentifier("obj")
	access := &ir.AccessNode{Base: base, Name: "field"}
	program := ir.NewFunctionNode("")
	program.IsProgram = true
	program.Body = ir.NewBlock(&ir.ExpressionStatement{Expr: access})

	optimistic.Run(lexctx.New(), program, false, fakeStore{kind: ir.TypeObject})

	if base.GetType() != nil {
		t.Fatalf("expected access base to stay untyped, got %#v", base.GetType())
	}
}

func TestAssignmentLHSExcludedRHSTyped(t *testing.T) {
	lhs := scopedIdentifier("x")
	rhs := scopedIdentifier("y")
	assign := &ir.BinaryNode{Op: ir.Assign, Left: lhs, Right: rhs}
	program := ir.NewFunctionNode("")
	program.IsProgram = true
	program.Body = ir.NewBlock(&ir.ExpressionStatement{Expr: assign})

	optimistic.Run(lexctx.New(), program, false, fakeStore{kind: ir.TypeInt})

	if lhs.GetType() != nil {
		t.Fatalf("expected assignment LHS to stay untyped, got %#v", lhs.GetType())
	}
	if rhs.GetType() == nil {
		t.Fatalf("expected assignment RHS to receive an optimistic type")
	}
}

func TestVarargParameterExcluded(t *testing.T) {
	param := scopedIdentifier("rest")
	param.Symbol.Kind = ir.SymParam
	program := ir.NewFunctionNode("")
	program.IsProgram = true
	program.Body = ir.NewBlock(&ir.ReturnStatement{Expr: param})

	optimistic.Run(lexctx.New(), program, false, fakeStore{kind: ir.TypeObject})

	if param.GetType() != nil {
		t.Fatalf("expected vararg parameter identifier to stay untyped, got %#v", param.GetType())
	}
}

func TestNestedFunctionSkippedDuringOnDemandCompilation(t *testing.T) {
	innerUse := scopedIdentifier("z")
	inner := ir.NewFunctionNode("inner")
	inner.Body = ir.NewBlock(&ir.ReturnStatement{Expr: innerUse})

	program := ir.NewFunctionNode("outer")
	program.Body = ir.NewBlock(&ir.ExpressionStatement{Expr: inner})

	optimistic.Run(lexctx.New(), program, true, fakeStore{kind: ir.TypeInt})

	if innerUse.GetType() != nil {
		t.Fatalf("expected nested function body to be skipped during on-demand compilation")
	}
}
