// Package proppoint implements the program-point allocator (spec §4.7,
// component H): a fixed-order walk that hands every optimistic-contract
// node (call, access, index, identifier, binary, unary) the next integer
// in its function, resetting the counter at each function boundary.
package proppoint

import (
	"github.com/cwbudde/go-dws/internal/diag"
	"github.com/cwbudde/go-dws/internal/ir"
	"github.com/cwbudde/go-dws/internal/lexctx"
	"github.com/cwbudde/go-dws/internal/visit"
)

// FirstProgramPoint is the first value allocated within a function's
// counter (spec §4.7 names a `FIRST_PROGRAM_POINT` constant; the teacher's
// bytecode layer reserves 0 as a not-yet-allocated sentinel, so this
// pipeline keeps the same convention and starts real points at 1).
const FirstProgramPoint = 1

// MaxProgramPointValue caps allocation per function; exceeding it is a
// hard failure (spec §4.7).
const MaxProgramPointValue = 1 << 20

// Allocator is the program-point visitor.
type Allocator struct {
	visit.BaseVisitor

	next  int
	saved []int
}

// Run allocates program points across every eagerly compiled function in
// program, in a fixed traversal order (spec §4.7).
func Run(ctx *lexctx.Context, program *ir.FunctionNode) *ir.FunctionNode {
	a := &Allocator{}
	return visit.WalkExpr(ctx, a, program).(*ir.FunctionNode)
}

// EnterFunctionNode resets the per-function counter (spec §4.7: "Program-
// point counters reset at each function boundary").
func (a *Allocator) EnterFunctionNode(fn *ir.FunctionNode) bool {
	a.saved = append(a.saved, a.next)
	a.next = FirstProgramPoint
	return true
}

// LeaveFunctionNode restores the enclosing function's counter, so the
// outer function's points continue after a nested function ends.
func (a *Allocator) LeaveFunctionNode(fn *ir.FunctionNode) ir.Expression {
	a.next = a.saved[len(a.saved)-1]
	a.saved = a.saved[:len(a.saved)-1]
	return fn
}

func (a *Allocator) allocate(e ir.Expression) {
	if e.ProgramPoint() != 0 {
		return
	}
	diag.Assert(a.next <= MaxProgramPointValue, "program-point-overflow", "program point %d exceeds MAX_PROGRAM_POINT_VALUE", a.next)
	e.SetProgramPoint(a.next)
	a.next++
}

// LeaveIdentifier allocates a point unless id is a var-declaration target,
// internal, or previously excluded (spec §4.7).
func (a *Allocator) LeaveIdentifier(id *ir.Identifier) ir.Expression {
	if id.IsPropertyName || id.NoPP {
		return id
	}
	if id.Symbol != nil && id.Symbol.IsInternal {
		return id
	}
	a.allocate(id)
	return id
}

func (a *Allocator) LeaveUnaryNode(n *ir.UnaryNode) ir.Expression {
	if !n.NoPP {
		a.allocate(n)
	}
	return n
}

func (a *Allocator) LeaveBinaryNode(n *ir.BinaryNode) ir.Expression {
	if !n.NoPP {
		a.allocate(n)
	}
	return n
}

func (a *Allocator) LeaveAccessNode(n *ir.AccessNode) ir.Expression {
	if !n.NoPP {
		a.allocate(n)
	}
	return n
}

func (a *Allocator) LeaveIndexNode(n *ir.IndexNode) ir.Expression {
	if !n.NoPP {
		a.allocate(n)
	}
	return n
}

func (a *Allocator) LeaveCallNode(n *ir.CallNode) ir.Expression {
	if !n.NoPP {
		a.allocate(n)
	}
	return n
}

// MarkNoProgramPoint adds e to the pass's "no-program-point" set (spec
// §4.7) — exposed so the var-declaration target exclusion and an earlier
// pass's exclusions can be applied before this pass runs, since the
// allocator itself only consults the flag, it never decides who sets it.
func MarkNoProgramPoint(e ir.Expression) {
	switch n := e.(type) {
	case *ir.Identifier:
		n.NoPP = true
	case *ir.UnaryNode:
		n.NoPP = true
	case *ir.BinaryNode:
		n.NoPP = true
	case *ir.AccessNode:
		n.NoPP = true
	case *ir.IndexNode:
		n.NoPP = true
	case *ir.CallNode:
		n.NoPP = true
	}
}

// MarkVarTargets flags every VarStatement's declared identifiers as
// excluded from allocation (spec §4.7: "identifiers that are the target
// of a var declaration" are never program-pointed). Called once before
// Run, mirroring how the lowerer's rewrites must happen before later
// passes consult their output.
func MarkVarTargets(fn *ir.FunctionNode) {
	markVarTargetsInBlock(fn.Body)
}

func markVarTargetsInBlock(b *ir.Block) {
	if b == nil {
		return
	}
	for _, s := range b.Statements {
		markVarTargetsInStmt(s)
	}
}

func markVarTargetsInStmt(stmt ir.Statement) {
	switch n := stmt.(type) {
	case nil:
		return
	case *ir.Block:
		markVarTargetsInBlock(n)
	case *ir.VarStatement:
		for _, name := range n.Names {
			name.NoPP = true
		}
		for _, init := range n.Inits {
			if fn, ok := init.(*ir.FunctionNode); ok {
				MarkVarTargets(fn)
			}
		}
	case *ir.IfStatement:
		markVarTargetsInStmt(n.Then)
		markVarTargetsInStmt(n.Else)
	case *ir.WhileStatement:
		markVarTargetsInStmt(n.Body)
	case *ir.ForStatement:
		if vs, ok := n.Init.(*ir.VarStatement); ok {
			markVarTargetsInStmt(vs)
		}
		markVarTargetsInStmt(n.Body)
	case *ir.SwitchStatement:
		for _, c := range n.Cases {
			markVarTargetsInBlock(c.Body)
		}
	case *ir.TryStatement:
		markVarTargetsInBlock(n.Body)
		for _, c := range n.Catches {
			markVarTargetsInBlock(c.Body)
		}
		if n.Finally != nil {
			markVarTargetsInBlock(n.Finally)
		}
	case *ir.LabelStatement:
		markVarTargetsInStmt(n.Body)
	}
}
