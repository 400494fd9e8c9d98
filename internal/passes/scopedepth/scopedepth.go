// Package scopedepth implements the scope-depth analyzer (spec §4.6,
// component G): for each eagerly compiled function body it computes the
// set of symbols defined transitively within it and, for every symbol it
// merely captures from an enclosing scope, how many scope-bearing blocks
// separate the two. It also tracks `with`-body nesting to flag functions
// defined in a dynamic-scope context.
package scopedepth

import (
	"github.com/cwbudde/go-dws/internal/ir"
	"github.com/cwbudde/go-dws/internal/lexctx"
	"github.com/cwbudde/go-dws/internal/visit"
)

// RecompilableDataStore is the compiler-side cache on-demand mode reads
// instead of recomputing internal/external symbol maps (spec §4.6/§6,
// "get_script_function_data(fn_id) -> RecompilableData").
type RecompilableDataStore interface {
	Get(fn *ir.FunctionNode) (internalSymbols map[string]bool, externalDepths map[string]int, inDynamicContext bool, ok bool)
}

// funcAccum is the in-progress internal/external symbol tally for one
// function while its body is still being walked; accumulators nest one
// per currently-open FunctionNode, mirroring the lexical context's own
// function stack (spec §4.6 is itself scoped per function).
type funcAccum struct {
	fn             *ir.FunctionNode
	internalSyms   map[string]bool
	externalDepths map[string]int
}

// Analyzer is the scope-depth visitor. onDemand mirrors spec §4.6's
// on-demand compilation carve-out: when true, a function whose cache
// entry already exists is not re-descended into at all — its cached maps
// are reused verbatim (spec §4.6, "On-demand compilation skips this pass
// and reuses the previously computed maps").
type Analyzer struct {
	visit.BaseVisitor

	ctx       *lexctx.Context
	onDemand  bool
	cache     RecompilableDataStore
	funcStack []*funcAccum
}

// Run computes InternalSymbols/ExternalSymbolDepths/InDynamicContext for
// every eagerly compiled function in program.
func Run(ctx *lexctx.Context, program *ir.FunctionNode, onDemand bool, cache RecompilableDataStore) *ir.FunctionNode {
	a := &Analyzer{ctx: ctx, onDemand: onDemand, cache: cache}
	return visit.WalkExpr(ctx, a, program).(*ir.FunctionNode)
}

// EnterFunctionNode flags in-dynamic-context up front (it must reflect the
// `with` nesting active where fn was *defined*, i.e. right now, before
// descending) and opens a fresh accumulator. In on-demand mode a function
// with a cache entry takes its cached maps instead and is not descended.
func (a *Analyzer) EnterFunctionNode(fn *ir.FunctionNode) bool {
	if a.onDemand && a.cache != nil {
		if internalSyms, externalDepths, inDynamic, ok := a.cache.Get(fn); ok {
			fn.InternalSymbols = internalSyms
			fn.ExternalSymbolDepths = externalDepths
			fn.InDynamicContext = inDynamic
			return false
		}
	}
	fn.InDynamicContext = a.ctx.InDynamicScope()
	a.funcStack = append(a.funcStack, &funcAccum{fn: fn, internalSyms: map[string]bool{}, externalDepths: map[string]int{}})
	return true
}

// LeaveFunctionNode closes fn's accumulator and writes its results back.
func (a *Analyzer) LeaveFunctionNode(fn *ir.FunctionNode) ir.Expression {
	if len(a.funcStack) == 0 || a.funcStack[len(a.funcStack)-1].fn != fn {
		return fn
	}
	top := a.funcStack[len(a.funcStack)-1]
	a.funcStack = a.funcStack[:len(a.funcStack)-1]
	fn.InternalSymbols = top.internalSyms
	fn.ExternalSymbolDepths = top.externalDepths
	return fn
}

// EnterBlock records every symbol this block directly declares as
// internal to every currently-open function — hoisting means a block
// nested several levels deep in fn's body can still hold fn-scoped `var`
// symbols, so this intentionally attributes a block's declarations to
// every enclosing accumulator, not just the innermost.
func (a *Analyzer) EnterBlock(b *ir.Block) bool {
	for _, acc := range a.funcStack {
		for name := range b.Symbols {
			acc.internalSyms[name] = true
		}
	}
	return true
}

// LeaveIdentifier classifies id's resolved symbol: internal to the
// current (innermost) function if defined within its body, otherwise
// external at a computed scope depth (spec §4.6).
func (a *Analyzer) LeaveIdentifier(id *ir.Identifier) ir.Expression {
	if id.IsPropertyName || id.Symbol == nil || len(a.funcStack) == 0 {
		return id
	}
	cur := a.funcStack[len(a.funcStack)-1]
	sym := id.Symbol
	if sym.DefiningBlock == nil || sym.DefiningBlock == cur.fn.Body || a.ctx.FunctionOwnerOf(sym.DefiningBlock) == cur.fn {
		cur.internalSyms[sym.Name] = true
		return id
	}
	if _, already := cur.externalDepths[sym.Name]; already {
		return id
	}
	cur.externalDepths[sym.Name] = a.depthTo(sym.DefiningBlock)
	return id
}

// depthTo counts needs-scope blocks from the current block (itself
// included) outward up to, but not including, definer, walking the
// lexical context (spec §4.6:
// "the number of scope-bearing blocks between the function's body block
// and the block that defines the symbol, walking outward, counting only
// blocks with needs-scope").
func (a *Analyzer) depthTo(definer *ir.Block) int {
	block := a.ctx.CurrentBlock()
	if block == nil {
		return 0
	}
	depth := 0
	for _, b := range a.ctx.OuterBlocks(block) {
		if b == definer {
			return depth
		}
		if b.NeedsScope {
			depth++
		}
	}
	return depth
}
