// Package optimistic implements the optimistic typer (spec §4.8,
// component I): for every program-pointed node it consults the compiler's
// feedback store for the narrowest type observed at runtime so far and,
// unless the node sits in a context that requires a specific coercion,
// assigns that type as an optimistic annotation a later de-optimization
// handler can fall back from.
package optimistic

import (
	"github.com/cwbudde/go-dws/internal/ir"
	"github.com/cwbudde/go-dws/internal/lexctx"
	"github.com/cwbudde/go-dws/internal/visit"
)

// FeedbackStore is the compiler collaborator the typer reads from (spec
// §6, "get_optimistic_type(node) -> Type").
type FeedbackStore interface {
	GetOptimisticType(node ir.Expression) (ir.TypeKind, bool)
}

// Typer is the optimistic-typing visitor.
type Typer struct {
	visit.BaseVisitor

	store    FeedbackStore
	onDemand bool
	depth    int
}

// Run assigns optimistic types under program's function (and, unless
// onDemand, every function nested within it).
func Run(ctx *lexctx.Context, program *ir.FunctionNode, onDemand bool, store FeedbackStore) *ir.FunctionNode {
	t := &Typer{store: store, onDemand: onDemand}
	return visit.WalkExpr(ctx, t, program).(*ir.FunctionNode)
}

// EnterFunctionNode refuses to descend into a nested function once
// on-demand compilation is typing just the outermost function passed to
// Run (spec §4.8, "Nested functions are not descended into during
// on-demand compilation").
func (t *Typer) EnterFunctionNode(fn *ir.FunctionNode) bool {
	if t.onDemand && t.depth > 0 {
		return false
	}
	t.depth++
	return true
}

func (t *Typer) LeaveFunctionNode(fn *ir.FunctionNode) ir.Expression {
	t.depth--
	return fn
}

func (t *Typer) assign(e ir.Expression) {
	if e == nil || isExcluded(e) {
		return
	}
	if t.store == nil {
		return
	}
	kind, ok := t.store.GetOptimisticType(e)
	if !ok {
		return
	}
	e.SetType(&ir.TypeAnnotation{Kind: kind, Optimistic: true})
}

func isExcluded(e ir.Expression) bool {
	switch n := e.(type) {
	case *ir.Identifier:
		if n.NoOptim || n.IsPropertyName {
			return true
		}
		sym := n.Symbol
		if sym == nil {
			return false
		}
		// "Parameters of variable-arity functions" are always
		// object-typed (spec §4.8). Every scope-promoted parameter is
		// excluded: the symbol assigner promotes all parameters of a
		// vararg function, and also the parameters of a function with
		// deep eval and any parameter captured by a nested function, so
		// those are excluded too.
		if sym.Kind == ir.SymParam && sym.IsScope {
			return true
		}
		// "Identifiers bound to local bytecode slots" are excluded —
		// a non-scope binding lives in a statically known slot (spec
		// §4.8).
		if !sym.IsScope {
			return true
		}
		return false
	default:
		return exprNoOptim(e)
	}
}

func exprNoOptim(e ir.Expression) bool {
	switch n := e.(type) {
	case *ir.NumberLiteral:
		return n.NoOptim
	case *ir.BooleanLiteral:
		return n.NoOptim
	case *ir.NullLiteral:
		return n.NoOptim
	case *ir.StringLiteral:
		return n.NoOptim
	case *ir.ArrayLiteral:
		return n.NoOptim
	case *ir.ObjectLiteral:
		return n.NoOptim
	case *ir.UnaryNode:
		return n.NoOptim
	case *ir.BinaryNode:
		return n.NoOptim
	case *ir.TernaryNode:
		return n.NoOptim
	case *ir.AccessNode:
		return n.NoOptim
	case *ir.IndexNode:
		return n.NoOptim
	case *ir.CallNode:
		return n.NoOptim
	case *ir.JoinPredecessorExpression:
		return n.NoOptim
	case *ir.FunctionNode:
		return n.NoOptim
	default:
		return false
	}
}

// setExcluded flags e so the typer's own assign() skips it — used by every
// Enter hook below to veto a child position before WalkExpr descends into
// it, mirroring proppoint's up-front exclusion marking.
func setExcluded(e ir.Expression) {
	switch n := e.(type) {
	case *ir.Identifier:
		n.NoOptim = true
	case *ir.NumberLiteral:
		n.NoOptim = true
	case *ir.BooleanLiteral:
		n.NoOptim = true
	case *ir.NullLiteral:
		n.NoOptim = true
	case *ir.StringLiteral:
		n.NoOptim = true
	case *ir.ArrayLiteral:
		n.NoOptim = true
	case *ir.ObjectLiteral:
		n.NoOptim = true
	case *ir.UnaryNode:
		n.NoOptim = true
	case *ir.BinaryNode:
		n.NoOptim = true
	case *ir.TernaryNode:
		n.NoOptim = true
	case *ir.AccessNode:
		n.NoOptim = true
	case *ir.IndexNode:
		n.NoOptim = true
	case *ir.CallNode:
		n.NoOptim = true
	case *ir.JoinPredecessorExpression:
		n.NoOptim = true
	case *ir.FunctionNode:
		n.NoOptim = true
	}
}

// EnterAccessNode excludes the base of every member access (spec §4.8).
func (t *Typer) EnterAccessNode(n *ir.AccessNode) bool {
	setExcluded(n.Base)
	return true
}

// EnterIndexNode excludes the base of every indexed access (spec §4.8).
func (t *Typer) EnterIndexNode(n *ir.IndexNode) bool {
	setExcluded(n.Base)
	return true
}

// EnterCallNode excludes the callee of every call, including `new` targets
// (spec §4.8: "Function of every call" and "Operand of new" — the new
// target *is* the callee here).
func (t *Typer) EnterCallNode(n *ir.CallNode) bool {
	if !n.IsRuntimeCall && n.Callee != nil {
		setExcluded(n.Callee)
	}
	return true
}

// EnterBinaryNode excludes the operands of strict equality/instanceof
// checks, and the assignment LHS (plus the RHS when the LHS resolves to an
// internal symbol, since an internal binding's value is never observed
// through the feedback store) (spec §4.8).
func (t *Typer) EnterBinaryNode(n *ir.BinaryNode) bool {
	switch n.Op {
	case ir.StrictEq, ir.StrictNeq, ir.InstanceOf:
		setExcluded(n.Left)
		setExcluded(n.Right)
	case ir.Assign:
		setExcluded(n.Left)
		if isInternalTarget(n.Left) {
			setExcluded(n.Right)
		}
	}
	return true
}

func isInternalTarget(e ir.Expression) bool {
	id, ok := e.(*ir.Identifier)
	return ok && id.Symbol != nil && id.Symbol.IsInternal
}

// EnterUnaryNode excludes the operand of logical negation (spec §4.8).
func (t *Typer) EnterUnaryNode(n *ir.UnaryNode) bool {
	if n.Op == ir.UnaryNot {
		setExcluded(n.Operand)
	}
	return true
}

// EnterTernaryNode excludes the test of a conditional expression (spec
// §4.8: "if/ternary tests").
func (t *Typer) EnterTernaryNode(n *ir.TernaryNode) bool {
	setExcluded(n.Test)
	return true
}

// EnterIfStatement excludes the test of an if (spec §4.8).
func (t *Typer) EnterIfStatement(n *ir.IfStatement) bool {
	setExcluded(n.Test)
	return true
}

// EnterWhileStatement excludes the loop test (spec §4.8: "Loop tests").
func (t *Typer) EnterWhileStatement(n *ir.WhileStatement) bool {
	setExcluded(n.Test)
	return true
}

// EnterForStatement excludes a classic loop's test and a for-in/for-of's
// iterable (spec §4.8).
func (t *Typer) EnterForStatement(n *ir.ForStatement) bool {
	if n.Test != nil {
		setExcluded(n.Test)
	}
	if n.Iterable != nil {
		setExcluded(n.Iterable)
	}
	return true
}

// EnterExpressionStatement excludes the statement's top-level expression
// unless it is itself an assignment, which already carries its own LHS
// exclusion (spec §4.8: "Top-level expression of every non-self-modifying
// expression statement").
func (t *Typer) EnterExpressionStatement(n *ir.ExpressionStatement) bool {
	if bin, ok := n.Expr.(*ir.BinaryNode); ok && bin.Op == ir.Assign {
		return true
	}
	setExcluded(n.Expr)
	return true
}

// EnterVarStatement excludes every declared name (spec §4.8: "The
// identifier target of a var").
func (t *Typer) EnterVarStatement(n *ir.VarStatement) bool {
	for _, name := range n.Names {
		setExcluded(name)
	}
	return true
}

// EnterCatchClause excludes the caught exception binding (spec §4.8:
// "Exception-condition of catches").
func (t *Typer) EnterCatchClause(c *ir.CatchClause) bool {
	if c.Param != nil {
		setExcluded(c.Param)
	}
	return true
}

// EnterProperty excludes the value of a `__proto__` property (spec §4.8).
func (t *Typer) EnterProperty(p *ir.Property) bool {
	if propertyKeyName(p.Key) == "__proto__" {
		setExcluded(p.Value)
	}
	return true
}

func propertyKeyName(key ir.Expression) string {
	switch k := key.(type) {
	case *ir.Identifier:
		return k.Name
	case *ir.StringLiteral:
		return k.Value
	default:
		return ""
	}
}

// LeaveIdentifier assigns the feedback store's type unless id was excluded
// (spec §4.8).
func (t *Typer) LeaveIdentifier(id *ir.Identifier) ir.Expression {
	t.assign(id)
	return id
}

func (t *Typer) LeaveUnaryNode(n *ir.UnaryNode) ir.Expression {
	t.assign(n)
	return n
}

func (t *Typer) LeaveBinaryNode(n *ir.BinaryNode) ir.Expression {
	t.assign(n)
	return n
}

func (t *Typer) LeaveAccessNode(n *ir.AccessNode) ir.Expression {
	t.assign(n)
	return n
}

func (t *Typer) LeaveIndexNode(n *ir.IndexNode) ir.Expression {
	t.assign(n)
	return n
}

func (t *Typer) LeaveCallNode(n *ir.CallNode) ir.Expression {
	t.assign(n)
	return n
}
