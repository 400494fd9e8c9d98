// Package splitter implements the weight-based function/block/literal
// splitter (spec §4.9, component J): once a function's tree weight
// exceeds a configured threshold, it partitions over-weight blocks and
// literals into pieces small enough for the backend's per-class ceiling,
// handing each piece its own compile unit.
package splitter

import (
	"github.com/cwbudde/go-dws/internal/ir"
	"github.com/cwbudde/go-dws/internal/lexctx"
	"github.com/cwbudde/go-dws/internal/visit"
)

// DefaultThreshold is the spec's default per-function weight ceiling
// before splitting kicks in (spec §4.9: "default 32 KiB").
const DefaultThreshold = 32 * 1024

// CompileUnitAllocator is the compiler collaborator producing a unit
// whose cumulative weight won't exceed a backend ceiling (spec §4.9/§6,
// "find_unit(weight) -> CompileUnit").
type CompileUnitAllocator interface {
	FindUnit(weight int) *ir.CompileUnitRef
}

// frame is the per-function bookkeeping the splitter keeps while
// descending a function's body — whether this function's total weight
// warrants splitting at all, and whether a split sub-structure actually
// got produced within it (spec §4.9, "set the is-split flag on every
// function that contains a split sub-structure").
type frame struct {
	fn         *ir.FunctionNode
	needsSplit bool
	didSplit   bool
}

// Splitter is the splitting visitor. One instance walks the whole tree;
// per-function frames give every nested function the same fresh
// threshold evaluation a standalone splitter instance would, while
// sharing alloc across every function (spec §4.9: "a fresh splitter
// instance that shares the compile-unit allocator").
type Splitter struct {
	visit.BaseVisitor

	threshold int
	alloc     CompileUnitAllocator
	stack     []*frame
}

// Run splits program and every function nested within it against
// threshold, allocating compile units from alloc.
func Run(ctx *lexctx.Context, program *ir.FunctionNode, threshold int, alloc CompileUnitAllocator) *ir.FunctionNode {
	s := &Splitter{threshold: threshold, alloc: alloc}
	return visit.WalkExpr(ctx, s, program).(*ir.FunctionNode)
}

func (s *Splitter) top() *frame {
	if len(s.stack) == 0 {
		return nil
	}
	return s.stack[len(s.stack)-1]
}

// EnterFunctionNode evaluates fn's total weight up front (spec §4.9: "If
// the total weight of a function exceeds the configured threshold...
// descend").
func (s *Splitter) EnterFunctionNode(fn *ir.FunctionNode) bool {
	s.stack = append(s.stack, &frame{fn: fn, needsSplit: weighBlock(fn.Body) > s.threshold})
	return true
}

// LeaveFunctionNode records whether fn ended up containing a split
// sub-structure.
func (s *Splitter) LeaveFunctionNode(fn *ir.FunctionNode) ir.Expression {
	f := s.top()
	if f == nil || f.fn != fn {
		return fn
	}
	s.stack = s.stack[:len(s.stack)-1]
	fn.IsSplit = f.didSplit
	return fn
}

// LeaveBlock replaces an over-weight block's statement list with terminal
// statements, block-scoped (let/const) vars, and SplitStatement wrappers
// around everything else, partitioned greedily by weight (spec §4.9).
func (s *Splitter) LeaveBlock(b *ir.Block) ir.Statement {
	f := s.top()
	if f == nil || !f.needsSplit {
		return b
	}
	if weighBlock(b) <= s.threshold {
		return b
	}
	rewritten, split := s.partitionBlock(b.Statements)
	if !split {
		return b
	}
	b.Statements = rewritten
	f.didSplit = true
	return b
}

func (s *Splitter) partitionBlock(stmts []ir.Statement) ([]ir.Statement, bool) {
	out := make([]ir.Statement, 0, len(stmts))
	var run []ir.Statement
	runWeight := 0
	split := false

	flush := func() {
		if len(run) == 0 {
			return
		}
		body := ir.NewBlock(run...)
		out = append(out, &ir.SplitStatement{Body: body, CompileUnit: s.alloc.FindUnit(runWeight)})
		split = true
		run = nil
		runWeight = 0
	}

	for _, stmt := range stmts {
		if isBlockScoped(stmt) || ir.IsTerminal(stmt) {
			flush()
			out = append(out, stmt)
			continue
		}
		w := weighStmt(stmt)
		if runWeight > 0 && runWeight+w > s.threshold {
			flush()
		}
		run = append(run, stmt)
		runWeight += w
	}
	flush()
	return out, split
}

func isBlockScoped(stmt ir.Statement) bool {
	vs, ok := stmt.(*ir.VarStatement)
	return ok && (vs.Kind == ir.SymLet || vs.Kind == ir.SymConst)
}

// LeaveArrayLiteral computes SplitRanges over an over-weight array
// literal's element list (spec §4.9).
func (s *Splitter) LeaveArrayLiteral(a *ir.ArrayLiteral) ir.Expression {
	f := s.top()
	if f == nil || !f.needsSplit {
		return a
	}
	if weighExpr(a) <= s.threshold {
		return a
	}
	ranges := s.greedyRanges(len(a.Elements), func(i int) int { return weighExpr(a.Elements[i]) })
	if len(ranges) <= 1 {
		return a
	}
	a.SplitRanges = ranges
	f.didSplit = true
	return a
}

// LeaveObjectLiteral mirrors LeaveArrayLiteral over an object literal's
// property list, skipping constant properties when weighing a range so
// they never force a spill group on their own (spec §4.9).
func (s *Splitter) LeaveObjectLiteral(o *ir.ObjectLiteral) ir.Expression {
	f := s.top()
	if f == nil || !f.needsSplit {
		return o
	}
	if weighExpr(o) <= s.threshold {
		return o
	}
	ranges := s.greedyRanges(len(o.Properties), func(i int) int {
		p := o.Properties[i]
		if p.IsConstant {
			return 0
		}
		return weighExpr(p.Key) + weighExpr(p.Value)
	})
	if len(ranges) <= 1 {
		return o
	}
	o.SplitRanges = ranges
	f.didSplit = true
	return o
}

func (s *Splitter) greedyRanges(n int, weightAt func(int) int) []ir.SplitRange {
	if n == 0 {
		return nil
	}
	var ranges []ir.SplitRange
	start := 0
	runWeight := 0
	for i := 0; i < n; i++ {
		w := weightAt(i)
		if runWeight > 0 && runWeight+w > s.threshold {
			ranges = append(ranges, ir.SplitRange{Start: start, End: i, CompileUnit: s.alloc.FindUnit(runWeight)})
			start = i
			runWeight = 0
		}
		runWeight += w
	}
	ranges = append(ranges, ir.SplitRange{Start: start, End: n, CompileUnit: s.alloc.FindUnit(runWeight)})
	return ranges
}
