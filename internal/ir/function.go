package ir

import "strings"

// Parameter is one entry of a FunctionNode's parameter list.
type Parameter struct {
	BaseNode
	Name   string
	Symbol *Symbol
}

func (p *Parameter) String() string { return p.Name }

// FunctionNode is, per spec §3, "a statement-bearing expression": it
// implements Expression (a function literal is a value) but carries a full
// Block body like a statement. The outermost script itself is a
// FunctionNode with IsProgram set.
type FunctionNode struct {
	BaseExpr

	ID   int
	Name string // "" for an anonymous function expression
	Params []*Parameter
	Body   *Block

	ReturnType *TypeAnnotation
	CompileUnit *CompileUnitRef // set by the splitter (component J)

	// Lifecycle flags, spec §3.
	IsProgram                     bool
	IsVararg                      bool
	NeedsArguments                bool
	NeedsCallee                   bool
	NeedsParentScope              bool
	UsesSelfSymbol                bool
	AllVarsInScope                bool
	IsSplit                       bool
	HasApplyToCallSpecialization  bool
	InDynamicContext              bool
	IsNamedFunctionExpression     bool

	// HasDeepEval is set by the symbol assigner when this function, or any
	// function nested inside it, directly calls `eval` (spec §4.5). It
	// forces every parameter to scope and conservatively marks a named
	// function expression's self-symbol as used, the same way IsVararg
	// already does.
	HasDeepEval bool

	// ThisProperties is the per-function set of `this.<name>` assignment
	// targets recorded by the symbol assigner for constructor-like
	// functions (spec §4.5) — its cardinality drives later allocation
	// layout in the (external) object-layout generator.
	ThisProperties map[string]bool

	// Internal/external symbol bookkeeping populated by the scope-depth
	// analyzer (component G).
	InternalSymbols       map[string]bool
	ExternalSymbolDepths  map[string]int

	// Compiler-constant symbols defined on function-body entry by the
	// symbol assigner (spec §4.5); any of these may be nil'd out again
	// during the prune-unneeded-slots step at function exit.
	CalleeSymbol    *Symbol
	ThisSymbol      *Symbol
	ScopeSymbol     *Symbol
	ReturnSymbol    *Symbol
	ArgumentsSymbol *Symbol
	VarargsSymbol   *Symbol

	// SelfSymbol is the synthetic self-binding a named function expression
	// gets so its body can refer to itself by name (spec §4.5).
	SelfSymbol *Symbol
}

func NewFunctionNode(name string) *FunctionNode {
	return &FunctionNode{Name: name, ThisProperties: map[string]bool{}}
}

func (f *FunctionNode) String() string {
	names := make([]string, len(f.Params))
	for i, p := range f.Params {
		names[i] = p.Name
	}
	label := f.Name
	if label == "" {
		label = "<anonymous>"
	}
	return "function " + label + "(" + strings.Join(names, ", ") + ") " + f.Body.String()
}

// CompileUnitRef is the splitter's/compile-unit allocator's handle on which
// emitted class a function (or split sub-range) maps to. The field itself
// is opaque to the core — the emitter (external, spec §6) interprets it.
type CompileUnitRef struct {
	ID     int
	Weight int
}
