// Package symassign implements the symbol assigner (spec §4.5, component
// F): the two-phase pass that hoists declarations, binds parameters,
// resolves every identifier to a Symbol, and promotes captured bindings to
// scope storage.
package symassign

import (
	"github.com/cwbudde/go-dws/internal/diag"
	"github.com/cwbudde/go-dws/internal/ir"
	"github.com/cwbudde/go-dws/internal/lexctx"
	"github.com/cwbudde/go-dws/internal/source"
	"github.com/cwbudde/go-dws/internal/token"
	"github.com/cwbudde/go-dws/internal/visit"
)

// Assigner is the symbol-assignment visitor. Globals are interned once per
// compilation (spec §9: "Global symbol interning... a compilation-scoped
// map of name -> symbol handle owned by the symbol-assigner"). ctx is the
// same lexical context WalkExpr/WalkBlock push/pop as they descend — the
// Visitor contract doesn't thread it through method arguments, so the
// assigner keeps its own handle to consult CurrentBlock/CurrentFunction
// from within Enter/Leave callbacks.
type Assigner struct {
	visit.BaseVisitor

	ctx     *lexctx.Context
	src     *source.Source
	globals map[string]*ir.Symbol
	errs    diag.Errors
}

// Run resolves every identifier in program to a Symbol, hoisting
// declarations and promoting captured bindings to scope as it goes.
// Returns the syntax errors encountered (duplicate parameter, redeclared
// variable, unprotected let/const), if any.
func Run(ctx *lexctx.Context, src *source.Source, program *ir.FunctionNode) (*ir.FunctionNode, error) {
	a := &Assigner{ctx: ctx, src: src, globals: map[string]*ir.Symbol{}}
	result := visit.WalkExpr(ctx, a, program).(*ir.FunctionNode)
	if a.errs.HasErrors() {
		return result, a.errs.Err()
	}
	return result, nil
}

// EnterFunctionNode performs the pre-order half of spec §4.5: define the
// function's compiler-constant symbols, bind its parameters, hoist its
// var/let/const declarations, and (for a named function expression)
// attach a self-symbol. Hoisting happens here, before WalkExpr descends
// into fn.Body, so every identifier reference inside the body sees a
// fully-populated declaration table regardless of where in the body a
// `var` textually appears.
func (a *Assigner) EnterFunctionNode(fn *ir.FunctionNode) bool {
	body := fn.Body
	if body == nil {
		return true
	}

	fn.CalleeSymbol = a.define(body, ":callee", ir.SymVar, true)
	fn.ThisSymbol = a.define(body, "this", ir.SymVar, true)
	fn.ReturnSymbol = a.define(body, ":return", ir.SymVar, true)
	fn.ScopeSymbol = a.define(body, ":scope", ir.SymVar, true)
	if fn.IsVararg {
		fn.VarargsSymbol = a.define(body, ":varargs", ir.SymVar, true)
		fn.ArgumentsSymbol = a.define(body, ":arguments", ir.SymVar, true)
	}

	// Deep eval also forces every parameter to scope (spec §4.5), but
	// HasDeepEval isn't known until the body has been walked; that half of
	// the promotion happens in LeaveFunctionNode instead.
	needsScopeParams := fn.IsVararg
	for _, p := range fn.Params {
		if existing, ok := body.Symbols[p.Name]; ok && existing.Kind == ir.SymParam {
			a.addSyntaxError(p.Tok, "duplicate parameter %q", p.Name)
			continue
		}
		sym := &ir.Symbol{Name: p.Name, Kind: ir.SymParam, DefiningBlock: body, HasBeenDeclared: true, IsScope: needsScopeParams}
		p.Symbol = sym
		body.DefineSymbol(p.Name, sym)
	}

	a.hoistBlock(body, body)

	if fn.IsNamedFunctionExpression && fn.Name != "" {
		if _, exists := body.Symbols[fn.Name]; !exists {
			self := &ir.Symbol{Name: fn.Name, Kind: ir.SymConst, IsFunctionSelf: true, DefiningBlock: body, HasBeenDeclared: true}
			body.DefineSymbol(fn.Name, self)
			fn.SelfSymbol = self
		}
	}

	return true
}

// LeaveFunctionNode prunes compiler-constant slots the body turned out not
// to need (spec §4.5, "prune unneeded slots"). It also finishes the
// deep-eval promotion EnterFunctionNode could not: HasDeepEval is only
// known for certain once the whole body has been walked, by which point
// every nested eval call has already propagated it up through
// LeaveCallNode, so the params' scope promotion and the self-symbol's
// conservative flagging both happen here instead of at parameter-binding
// time.
func (a *Assigner) LeaveFunctionNode(fn *ir.FunctionNode) ir.Expression {
	if fn.HasDeepEval {
		for _, p := range fn.Params {
			if p.Symbol != nil {
				p.Symbol.IsScope = true
			}
		}
		if fn.SelfSymbol != nil {
			fn.UsesSelfSymbol = true
		}
	}
	if fn.CalleeSymbol != nil && !fn.NeedsCallee {
		fn.CalleeSymbol = nil
	}
	if fn.ScopeSymbol != nil && fn.Body != nil && !fn.Body.NeedsScope && !fn.NeedsParentScope {
		fn.ScopeSymbol = nil
	}
	if fn.SelfSymbol != nil && !fn.UsesSelfSymbol {
		fn.SelfSymbol = nil
	}
	return fn
}

func (a *Assigner) define(block *ir.Block, name string, kind ir.SymbolKind, internal bool) *ir.Symbol {
	sym := &ir.Symbol{Name: name, Kind: kind, IsInternal: internal, DefiningBlock: block, HasBeenDeclared: true}
	block.DefineSymbol(name, sym)
	return sym
}

// hoistBlock walks every statement directly and transitively nested in
// block — crossing if/while/for/switch/try/label/block structure but never
// a nested FunctionNode — routing `var` names to funcBody and `let`/
// `const` names to the block they are declared directly in (spec §4.5).
// declBlock is the block the current statement is lexically inside of;
// it only changes at an explicit nested Block/case/catch/finally body.
func (a *Assigner) hoistBlock(declBlock *ir.Block, funcBody *ir.Block) {
	for _, s := range declBlock.Statements {
		a.hoistStmt(s, declBlock, funcBody)
	}
}

func (a *Assigner) hoistStmt(stmt ir.Statement, declBlock *ir.Block, funcBody *ir.Block) {
	switch n := stmt.(type) {
	case nil:
		return
	case *ir.Block:
		a.hoistBlock(n, funcBody)
	case *ir.IfStatement:
		a.hoistStmt(n.Then, declBlock, funcBody)
		a.hoistStmt(n.Else, declBlock, funcBody)
	case *ir.LabelStatement:
		a.hoistStmt(n.Body, declBlock, funcBody)
	case *ir.WhileStatement:
		a.hoistStmt(n.Body, declBlock, funcBody)
	case *ir.ForStatement:
		if vs, ok := n.Init.(*ir.VarStatement); ok {
			a.hoistVarStatement(vs, declBlock, funcBody)
		}
		a.hoistStmt(n.Body, declBlock, funcBody)
	case *ir.SwitchStatement:
		for _, c := range n.Cases {
			if c.Body.IsCaseBody {
				for _, s := range c.Body.Statements {
					if vs, ok := s.(*ir.VarStatement); ok && vs.Kind != ir.SymVar {
						a.addSyntaxError(vs.Tok, "let/const declaration directly in an unprotected switch case")
					}
				}
			}
			a.hoistBlock(c.Body, funcBody)
		}
	case *ir.TryStatement:
		a.hoistBlock(n.Body, funcBody)
		for _, c := range n.Catches {
			a.hoistBlock(c.Body, funcBody)
		}
		if n.Finally != nil {
			a.hoistBlock(n.Finally, funcBody)
		}
	case *ir.VarStatement:
		a.hoistVarStatement(n, declBlock, funcBody)
	default:
		// Other statement kinds (expression/throw/return/break/continue/
		// debugger/split) carry no declarations to hoist.
	}
}

func (a *Assigner) hoistVarStatement(vs *ir.VarStatement, declBlock *ir.Block, funcBody *ir.Block) {
	target := funcBody
	if vs.Kind != ir.SymVar {
		target = declBlock
	}
	for _, name := range vs.Names {
		if existing, ok := target.Symbols[name.Name]; ok {
			if vs.Kind == ir.SymVar && existing.Kind == ir.SymVar {
				name.Symbol = existing
				continue
			}
			a.addSyntaxError(name.Tok, "redeclared variable %q", name.Name)
			continue
		}
		sym := &ir.Symbol{Name: name.Name, Kind: vs.Kind, DefiningBlock: target, HasBeenDeclared: true}
		target.DefineSymbol(name.Name, sym)
		name.Symbol = sym
	}
}

// EnterBlock rejects a `let`/`const` VarStatement declared directly in an
// unprotected switch-case block (spec §4.5) — the check also runs here
// (in addition to hoistStmt's pre-pass) so a case block entered directly
// without ever being the Init of a for-loop still gets flagged via the
// lexical context's own notion of "unprotected" (spec §4.1).
func (a *Assigner) EnterBlock(b *ir.Block) bool {
	if a.ctx.InUnprotectedSwitchContext() {
		for _, s := range b.Statements {
			if vs, ok := s.(*ir.VarStatement); ok && vs.Kind != ir.SymVar {
				a.addSyntaxError(vs.Tok, "let/const declaration directly in an unprotected switch case")
			}
		}
	}
	return true
}

// LeaveIdentifier resolves a non-property-name identifier to a Symbol,
// walking blocks outward from the current block (spec §4.5). A reference
// that finds no definition anywhere defines (or reuses) an interned
// global. Crossing a function boundary promotes the symbol to scope and
// marks every function between the use and the definer as needing its
// parent scope.
func (a *Assigner) LeaveIdentifier(id *ir.Identifier) ir.Expression {
	if id.IsPropertyName || id.Symbol != nil {
		return id
	}

	sym := a.resolve(id.Name)
	if sym == nil {
		sym = a.internGlobal(id.Name)
	}
	sym.MarkUsed()
	id.Symbol = sym
	if sym.IsFunctionSelf {
		if fn := a.ctx.DefiningFunction(sym); fn != nil {
			fn.UsesSelfSymbol = true
		}
	}
	return id
}

// LeaveUnaryNode rewrites `typeof <ident>` into a runtime scope lookup when
// ident resolves to a non-local (scope) reference (spec §4.5): a plain
// `typeof` on a name the resolver had to promote to scope — a capture
// across a function boundary, or an interned global for a name that was
// never declared — would otherwise read the identifier directly and risk
// throwing a reference error on an undeclared global. Routing it through a
// runtime lookup instead lets "typeof undeclared" answer "undefined".
func (a *Assigner) LeaveUnaryNode(n *ir.UnaryNode) ir.Expression {
	if n.Op != ir.UnaryTypeof {
		return n
	}
	id, ok := ir.Unwrap(n.Operand).(*ir.Identifier)
	if !ok || id.Symbol == nil || !id.Symbol.IsScope {
		return n
	}
	if fn := a.ctx.CurrentFunction(); fn != nil && fn.Body != nil {
		fn.Body.NeedsScope = true
	}
	return &ir.CallNode{
		IsRuntimeCall: true,
		RuntimeName:   "ECMAErrors.TYPEOF",
		Args:          []ir.Expression{ir.NewIdentifier(":scope"), ir.NewStringLiteral(id.Name)},
	}
}

// LeaveBinaryNode records `this.<name> = ...` assignment targets into the
// enclosing function's ThisProperties set (spec §4.5) — later allocation
// layout consults its cardinality for constructor-like functions.
func (a *Assigner) LeaveBinaryNode(n *ir.BinaryNode) ir.Expression {
	if n.Op != ir.Assign {
		return n
	}
	acc, ok := n.Left.(*ir.AccessNode)
	if !ok {
		return n
	}
	base, ok := acc.Base.(*ir.Identifier)
	if !ok || base.Name != "this" {
		return n
	}
	if fn := a.ctx.CurrentFunction(); fn != nil {
		fn.ThisProperties[acc.Name] = true
	}
	return n
}

// LeaveCallNode flags the enclosing chain of functions with deep eval (spec
// §4.5) when the callee is a direct reference to `eval`. The check is
// conservative by name alone — a compiler cannot prove a local rebinding of
// the name isn't the real global eval — mirroring how the language itself
// treats any syntactic call shaped like `eval(...)` as potentially dynamic.
func (a *Assigner) LeaveCallNode(n *ir.CallNode) ir.Expression {
	if id, ok := ir.Unwrap(n.Callee).(*ir.Identifier); ok && id.Name == "eval" {
		for fn := a.ctx.CurrentFunction(); fn != nil; fn = a.ctx.EnclosingFunction(fn) {
			fn.HasDeepEval = true
		}
	}
	return n
}

// resolve walks blocks outward from the current block looking for name,
// crossing function boundaries freely (spec §4.5's "walking blocks
// outward from the current block" draws no distinction at function
// edges — that crossing is exactly what promotes the symbol to scope).
func (a *Assigner) resolve(name string) *ir.Symbol {
	block := a.ctx.CurrentBlock()
	if block == nil {
		return nil
	}
	currentFn := a.ctx.CurrentFunction()
	outer := a.ctx.OuterBlocks(block)
	for _, b := range outer {
		sym, ok := b.Symbols[name]
		if !ok {
			continue
		}
		owner := a.ctx.FunctionOwnerOf(b)
		if owner != currentFn {
			sym.IsScope = true
			b.NeedsScope = true
			a.markParentScopeChain(currentFn, owner)
		}
		return sym
	}
	return nil
}

// markParentScopeChain flags every function from use (inclusive) up to
// but not including definer as needing its parent scope threaded through
// (spec §4.5: "mark... every function up to (not including) the definer
// as needs-parent-scope"). Functions are visited via the lexical context's
// stack of currently-entered functions, since that is exactly the nesting
// chain between use and definer at the moment of resolution.
func (a *Assigner) markParentScopeChain(use, definer *ir.FunctionNode) {
	for fn := use; fn != nil && fn != definer; fn = a.ctx.EnclosingFunction(fn) {
		fn.NeedsParentScope = true
	}
}

func (a *Assigner) internGlobal(name string) *ir.Symbol {
	if sym, ok := a.globals[name]; ok {
		return sym
	}
	sym := &ir.Symbol{Name: name, Kind: ir.SymGlobal, IsScope: true, IsProgramLevel: true, HasBeenDeclared: true}
	a.globals[name] = sym
	return sym
}

func (a *Assigner) addSyntaxError(tok token.Token, format string, args ...any) {
	a.errs.Add(diag.NewSyntaxError(a.src, tok, format, args...))
}
