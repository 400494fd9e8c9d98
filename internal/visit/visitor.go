// Package visit implements the visitor protocol (spec §4.2, component C):
// one Enter/Leave pair per node variant, a default-traversal Walk that
// threads a lexical context across the descent, and a block-aware variant
// that enforces terminal-statement semantics as statements are appended.
//
// This is the static realization of the "tagged union of node variants
// plus a trait/interface Visitor" redesign spec §9 calls for in place of
// the source's double-dispatch: one method per variant, resolved at
// compile time by the embedding BaseVisitor rather than a runtime visit
// table.
package visit

import "github.com/cwbudde/go-dws/internal/ir"

// Visitor is implemented by every pass. EnterX returns false to skip
// descending into X's children (their Leave is still not called in that
// case — skipping a node skips it entirely). LeaveX returns the node that
// should replace X in its parent, or X itself to leave the tree unchanged.
//
// A pass that only cares about a handful of variants embeds BaseVisitor
// and overrides just those methods; the rest keep BaseVisitor's no-op
// descend-and-keep behavior.
type Visitor interface {
	EnterIdentifier(*ir.Identifier) bool
	LeaveIdentifier(*ir.Identifier) ir.Expression

	EnterNumberLiteral(*ir.NumberLiteral) bool
	LeaveNumberLiteral(*ir.NumberLiteral) ir.Expression

	EnterBooleanLiteral(*ir.BooleanLiteral) bool
	LeaveBooleanLiteral(*ir.BooleanLiteral) ir.Expression

	EnterNullLiteral(*ir.NullLiteral) bool
	LeaveNullLiteral(*ir.NullLiteral) ir.Expression

	EnterStringLiteral(*ir.StringLiteral) bool
	LeaveStringLiteral(*ir.StringLiteral) ir.Expression

	EnterArrayLiteral(*ir.ArrayLiteral) bool
	LeaveArrayLiteral(*ir.ArrayLiteral) ir.Expression

	EnterProperty(*ir.Property) bool
	LeaveProperty(*ir.Property) *ir.Property

	EnterObjectLiteral(*ir.ObjectLiteral) bool
	LeaveObjectLiteral(*ir.ObjectLiteral) ir.Expression

	EnterUnaryNode(*ir.UnaryNode) bool
	LeaveUnaryNode(*ir.UnaryNode) ir.Expression

	EnterBinaryNode(*ir.BinaryNode) bool
	LeaveBinaryNode(*ir.BinaryNode) ir.Expression

	EnterTernaryNode(*ir.TernaryNode) bool
	LeaveTernaryNode(*ir.TernaryNode) ir.Expression

	EnterAccessNode(*ir.AccessNode) bool
	LeaveAccessNode(*ir.AccessNode) ir.Expression

	EnterIndexNode(*ir.IndexNode) bool
	LeaveIndexNode(*ir.IndexNode) ir.Expression

	EnterCallNode(*ir.CallNode) bool
	LeaveCallNode(*ir.CallNode) ir.Expression

	EnterJoinPredecessorExpression(*ir.JoinPredecessorExpression) bool
	LeaveJoinPredecessorExpression(*ir.JoinPredecessorExpression) ir.Expression

	EnterParameter(*ir.Parameter) bool
	LeaveParameter(*ir.Parameter) *ir.Parameter

	EnterFunctionNode(*ir.FunctionNode) bool
	LeaveFunctionNode(*ir.FunctionNode) ir.Expression

	EnterBlock(*ir.Block) bool
	LeaveBlock(*ir.Block) ir.Statement

	EnterExpressionStatement(*ir.ExpressionStatement) bool
	LeaveExpressionStatement(*ir.ExpressionStatement) ir.Statement

	EnterEmptyStatement(*ir.EmptyStatement) bool
	LeaveEmptyStatement(*ir.EmptyStatement) ir.Statement

	EnterIfStatement(*ir.IfStatement) bool
	LeaveIfStatement(*ir.IfStatement) ir.Statement

	EnterCaseClause(*ir.CaseClause) bool
	LeaveCaseClause(*ir.CaseClause) *ir.CaseClause

	EnterSwitchStatement(*ir.SwitchStatement) bool
	LeaveSwitchStatement(*ir.SwitchStatement) ir.Statement

	EnterWhileStatement(*ir.WhileStatement) bool
	LeaveWhileStatement(*ir.WhileStatement) ir.Statement

	EnterForStatement(*ir.ForStatement) bool
	LeaveForStatement(*ir.ForStatement) ir.Statement

	EnterThrowStatement(*ir.ThrowStatement) bool
	LeaveThrowStatement(*ir.ThrowStatement) ir.Statement

	EnterReturnStatement(*ir.ReturnStatement) bool
	LeaveReturnStatement(*ir.ReturnStatement) ir.Statement

	EnterBreakStatement(*ir.BreakStatement) bool
	LeaveBreakStatement(*ir.BreakStatement) ir.Statement

	EnterContinueStatement(*ir.ContinueStatement) bool
	LeaveContinueStatement(*ir.ContinueStatement) ir.Statement

	EnterLabelStatement(*ir.LabelStatement) bool
	LeaveLabelStatement(*ir.LabelStatement) ir.Statement

	EnterCatchClause(*ir.CatchClause) bool
	LeaveCatchClause(*ir.CatchClause) *ir.CatchClause

	EnterTryStatement(*ir.TryStatement) bool
	LeaveTryStatement(*ir.TryStatement) ir.Statement

	EnterVarStatement(*ir.VarStatement) bool
	LeaveVarStatement(*ir.VarStatement) ir.Statement

	EnterJumpToInlinedFinallyStatement(*ir.JumpToInlinedFinallyStatement) bool
	LeaveJumpToInlinedFinallyStatement(*ir.JumpToInlinedFinallyStatement) ir.Statement

	EnterDebuggerStatement(*ir.DebuggerStatement) bool
	LeaveDebuggerStatement(*ir.DebuggerStatement) ir.Statement

	EnterSplitStatement(*ir.SplitStatement) bool
	LeaveSplitStatement(*ir.SplitStatement) ir.Statement
}

// BaseVisitor implements Visitor with the identity traversal: every Enter
// returns true (always descend), every Leave returns its argument
// unchanged. Passes embed BaseVisitor and override only the methods for
// the node kinds they care about.
type BaseVisitor struct{}

func (BaseVisitor) EnterIdentifier(*ir.Identifier) bool                 { return true }
func (BaseVisitor) LeaveIdentifier(n *ir.Identifier) ir.Expression       { return n }
func (BaseVisitor) EnterNumberLiteral(*ir.NumberLiteral) bool            { return true }
func (BaseVisitor) LeaveNumberLiteral(n *ir.NumberLiteral) ir.Expression { return n }
func (BaseVisitor) EnterBooleanLiteral(*ir.BooleanLiteral) bool          { return true }
func (BaseVisitor) LeaveBooleanLiteral(n *ir.BooleanLiteral) ir.Expression {
	return n
}
func (BaseVisitor) EnterNullLiteral(*ir.NullLiteral) bool            { return true }
func (BaseVisitor) LeaveNullLiteral(n *ir.NullLiteral) ir.Expression { return n }
func (BaseVisitor) EnterStringLiteral(*ir.StringLiteral) bool        { return true }
func (BaseVisitor) LeaveStringLiteral(n *ir.StringLiteral) ir.Expression {
	return n
}
func (BaseVisitor) EnterArrayLiteral(*ir.ArrayLiteral) bool { return true }
func (BaseVisitor) LeaveArrayLiteral(n *ir.ArrayLiteral) ir.Expression {
	return n
}
func (BaseVisitor) EnterProperty(*ir.Property) bool             { return true }
func (BaseVisitor) LeaveProperty(n *ir.Property) *ir.Property   { return n }
func (BaseVisitor) EnterObjectLiteral(*ir.ObjectLiteral) bool   { return true }
func (BaseVisitor) LeaveObjectLiteral(n *ir.ObjectLiteral) ir.Expression {
	return n
}
func (BaseVisitor) EnterUnaryNode(*ir.UnaryNode) bool             { return true }
func (BaseVisitor) LeaveUnaryNode(n *ir.UnaryNode) ir.Expression  { return n }
func (BaseVisitor) EnterBinaryNode(*ir.BinaryNode) bool           { return true }
func (BaseVisitor) LeaveBinaryNode(n *ir.BinaryNode) ir.Expression { return n }
func (BaseVisitor) EnterTernaryNode(*ir.TernaryNode) bool         { return true }
func (BaseVisitor) LeaveTernaryNode(n *ir.TernaryNode) ir.Expression {
	return n
}
func (BaseVisitor) EnterAccessNode(*ir.AccessNode) bool           { return true }
func (BaseVisitor) LeaveAccessNode(n *ir.AccessNode) ir.Expression { return n }
func (BaseVisitor) EnterIndexNode(*ir.IndexNode) bool             { return true }
func (BaseVisitor) LeaveIndexNode(n *ir.IndexNode) ir.Expression  { return n }
func (BaseVisitor) EnterCallNode(*ir.CallNode) bool               { return true }
func (BaseVisitor) LeaveCallNode(n *ir.CallNode) ir.Expression    { return n }
func (BaseVisitor) EnterJoinPredecessorExpression(*ir.JoinPredecessorExpression) bool {
	return true
}
func (BaseVisitor) LeaveJoinPredecessorExpression(n *ir.JoinPredecessorExpression) ir.Expression {
	return n
}
func (BaseVisitor) EnterParameter(*ir.Parameter) bool           { return true }
func (BaseVisitor) LeaveParameter(n *ir.Parameter) *ir.Parameter { return n }
func (BaseVisitor) EnterFunctionNode(*ir.FunctionNode) bool      { return true }
func (BaseVisitor) LeaveFunctionNode(n *ir.FunctionNode) ir.Expression {
	return n
}
func (BaseVisitor) EnterBlock(*ir.Block) bool           { return true }
func (BaseVisitor) LeaveBlock(n *ir.Block) ir.Statement { return n }
func (BaseVisitor) EnterExpressionStatement(*ir.ExpressionStatement) bool {
	return true
}
func (BaseVisitor) LeaveExpressionStatement(n *ir.ExpressionStatement) ir.Statement {
	return n
}
func (BaseVisitor) EnterEmptyStatement(*ir.EmptyStatement) bool { return true }
func (BaseVisitor) LeaveEmptyStatement(n *ir.EmptyStatement) ir.Statement {
	return n
}
func (BaseVisitor) EnterIfStatement(*ir.IfStatement) bool           { return true }
func (BaseVisitor) LeaveIfStatement(n *ir.IfStatement) ir.Statement { return n }
func (BaseVisitor) EnterCaseClause(*ir.CaseClause) bool             { return true }
func (BaseVisitor) LeaveCaseClause(n *ir.CaseClause) *ir.CaseClause { return n }
func (BaseVisitor) EnterSwitchStatement(*ir.SwitchStatement) bool   { return true }
func (BaseVisitor) LeaveSwitchStatement(n *ir.SwitchStatement) ir.Statement {
	return n
}
func (BaseVisitor) EnterWhileStatement(*ir.WhileStatement) bool { return true }
func (BaseVisitor) LeaveWhileStatement(n *ir.WhileStatement) ir.Statement {
	return n
}
func (BaseVisitor) EnterForStatement(*ir.ForStatement) bool           { return true }
func (BaseVisitor) LeaveForStatement(n *ir.ForStatement) ir.Statement { return n }
func (BaseVisitor) EnterThrowStatement(*ir.ThrowStatement) bool       { return true }
func (BaseVisitor) LeaveThrowStatement(n *ir.ThrowStatement) ir.Statement {
	return n
}
func (BaseVisitor) EnterReturnStatement(*ir.ReturnStatement) bool { return true }
func (BaseVisitor) LeaveReturnStatement(n *ir.ReturnStatement) ir.Statement {
	return n
}
func (BaseVisitor) EnterBreakStatement(*ir.BreakStatement) bool { return true }
func (BaseVisitor) LeaveBreakStatement(n *ir.BreakStatement) ir.Statement {
	return n
}
func (BaseVisitor) EnterContinueStatement(*ir.ContinueStatement) bool { return true }
func (BaseVisitor) LeaveContinueStatement(n *ir.ContinueStatement) ir.Statement {
	return n
}
func (BaseVisitor) EnterLabelStatement(*ir.LabelStatement) bool { return true }
func (BaseVisitor) LeaveLabelStatement(n *ir.LabelStatement) ir.Statement {
	return n
}
func (BaseVisitor) EnterCatchClause(*ir.CatchClause) bool             { return true }
func (BaseVisitor) LeaveCatchClause(n *ir.CatchClause) *ir.CatchClause { return n }
func (BaseVisitor) EnterTryStatement(*ir.TryStatement) bool           { return true }
func (BaseVisitor) LeaveTryStatement(n *ir.TryStatement) ir.Statement { return n }
func (BaseVisitor) EnterVarStatement(*ir.VarStatement) bool           { return true }
func (BaseVisitor) LeaveVarStatement(n *ir.VarStatement) ir.Statement { return n }
func (BaseVisitor) EnterJumpToInlinedFinallyStatement(*ir.JumpToInlinedFinallyStatement) bool {
	return true
}
func (BaseVisitor) LeaveJumpToInlinedFinallyStatement(n *ir.JumpToInlinedFinallyStatement) ir.Statement {
	return n
}
func (BaseVisitor) EnterDebuggerStatement(*ir.DebuggerStatement) bool { return true }
func (BaseVisitor) LeaveDebuggerStatement(n *ir.DebuggerStatement) ir.Statement {
	return n
}
func (BaseVisitor) EnterSplitStatement(*ir.SplitStatement) bool { return true }
func (BaseVisitor) LeaveSplitStatement(n *ir.SplitStatement) ir.Statement {
	return n
}
