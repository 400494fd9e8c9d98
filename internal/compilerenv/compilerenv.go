// Package compilerenv implements the Compiler collaborator spec §6
// describes as sitting behind every pass: source retrieval, on-demand
// compilation feedback caches, the compile-unit allocator, and the
// dual-fields backend switch. internal/pipeline wires one Env into every
// pass that needs a collaborator; internal/compileunit supplies the
// weight-bounded allocator half of it.
package compilerenv

import (
	"github.com/cwbudde/go-dws/internal/compileunit"
	"github.com/cwbudde/go-dws/internal/ir"
	"github.com/cwbudde/go-dws/internal/source"
)

// recompilableData is the cached per-function analysis on-demand
// compilation reuses instead of recomputing (spec §4.6/§6,
// "get_script_function_data(fn_id) -> RecompilableData").
type recompilableData struct {
	internalSymbols map[string]bool
	externalDepths  map[string]int
	inDynamicScope  bool
}

// Env is the concrete Compiler collaborator: it satisfies
// scopedepth.RecompilableDataStore, optimistic.FeedbackStore, and
// splitter.CompileUnitAllocator so a single value can be threaded through
// every pass that needs a compiler-side cache or allocator.
type Env struct {
	src          *source.Source
	onDemand     bool
	useDualFields bool

	units    *compileunit.Allocator
	cache    map[*ir.FunctionNode]recompilableData
	feedback *FeedbackStore
}

// New builds an Env for one compilation of src. unitCeiling bounds the
// weight of every compile unit the splitter draws from this Env (spec
// §4.9/§6, "a backend-determined per-class ceiling"). feedback may be
// shared across several Envs compiling the same script over time; pass a
// fresh NewFeedbackStore() when no prior history exists.
func New(src *source.Source, onDemand, useDualFields bool, unitCeiling int, feedback *FeedbackStore) *Env {
	return &Env{
		src:           src,
		onDemand:      onDemand,
		useDualFields: useDualFields,
		units:         compileunit.New(unitCeiling),
		cache:         make(map[*ir.FunctionNode]recompilableData),
		feedback:      feedback,
	}
}

// Source returns the text this compilation was built from (spec §6,
// "Source: the original source text").
func (e *Env) Source() *source.Source { return e.src }

// IsOnDemandCompilation reports whether this run is compiling a single
// function lazily rather than the whole program eagerly (spec §4.6/§4.8,
// "on-demand compilation").
func (e *Env) IsOnDemandCompilation() bool { return e.onDemand }

// UseDualFields reports whether the backend keeps a parallel typed-slot
// representation alongside the boxed one (spec §6, "UseDualFields").
// The core never branches on this itself — it is carried through so the
// emitter (out of scope here) can read it off the same collaborator.
func (e *Env) UseDualFields() bool { return e.useDualFields }

// Get implements scopedepth.RecompilableDataStore: on-demand mode reads a
// function's previously computed internal/external symbol maps here
// instead of recomputing them.
func (e *Env) Get(fn *ir.FunctionNode) (map[string]bool, map[string]int, bool, bool) {
	data, ok := e.cache[fn]
	if !ok {
		return nil, nil, false, false
	}
	return data.internalSymbols, data.externalDepths, data.inDynamicScope, true
}

// Remember stores fn's computed scope-depth data for a later on-demand
// compile to retrieve via Get. Called after an eager pass so a subsequent
// on-demand recompile of a nested function can skip redoing the work.
func (e *Env) Remember(fn *ir.FunctionNode) {
	e.cache[fn] = recompilableData{
		internalSymbols: fn.InternalSymbols,
		externalDepths:  fn.ExternalSymbolDepths,
		inDynamicScope:  fn.InDynamicContext,
	}
}

// RecordOptimisticType seeds feedback for node, as if a prior run of the
// interpreter/runtime had observed its value's shape. Tests and the demo
// CLI populate this directly; a real runtime would populate it from
// inline-cache telemetry between compiles.
func (e *Env) RecordOptimisticType(node ir.Expression, kind ir.TypeKind) {
	e.feedback.Record(node, kind)
}

// GetOptimisticType implements optimistic.FeedbackStore.
func (e *Env) GetOptimisticType(node ir.Expression) (ir.TypeKind, bool) {
	return e.feedback.Get(node)
}

// Feedback returns the shared store backing GetOptimisticType, for
// callers that want to SaveJSON/LoadJSON it between compiles.
func (e *Env) Feedback() *FeedbackStore { return e.feedback }

// FindUnit implements splitter.CompileUnitAllocator by delegating to the
// weight-bounded compileunit.Allocator.
func (e *Env) FindUnit(weight int) *ir.CompileUnitRef {
	return e.units.FindUnit(weight)
}

// Units returns every compile unit allocated so far.
func (e *Env) Units() []*ir.CompileUnitRef {
	return e.units.Units()
}
