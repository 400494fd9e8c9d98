package visit

import (
	"github.com/cwbudde/go-dws/internal/diag"
	"github.com/cwbudde/go-dws/internal/ir"
	"github.com/cwbudde/go-dws/internal/lexctx"
)

// WalkExpr descends into an expression, rewriting it and its children
// per v's Enter/Leave callbacks. Returns the (possibly replaced)
// expression, or expr unchanged if its EnterX returned false.
func WalkExpr(ctx *lexctx.Context, v Visitor, expr ir.Expression) ir.Expression {
	if expr == nil {
		return nil
	}
	switch n := expr.(type) {
	case *ir.Identifier:
		if !v.EnterIdentifier(n) {
			return n
		}
		return v.LeaveIdentifier(n)

	case *ir.NumberLiteral:
		if !v.EnterNumberLiteral(n) {
			return n
		}
		return v.LeaveNumberLiteral(n)

	case *ir.BooleanLiteral:
		if !v.EnterBooleanLiteral(n) {
			return n
		}
		return v.LeaveBooleanLiteral(n)

	case *ir.NullLiteral:
		if !v.EnterNullLiteral(n) {
			return n
		}
		return v.LeaveNullLiteral(n)

	case *ir.StringLiteral:
		if !v.EnterStringLiteral(n) {
			return n
		}
		return v.LeaveStringLiteral(n)

	case *ir.ArrayLiteral:
		if !v.EnterArrayLiteral(n) {
			return n
		}
		for i, e := range n.Elements {
			n.Elements[i] = WalkExpr(ctx, v, e)
		}
		return v.LeaveArrayLiteral(n)

	case *ir.ObjectLiteral:
		if !v.EnterObjectLiteral(n) {
			return n
		}
		for i, p := range n.Properties {
			n.Properties[i] = walkProperty(ctx, v, p)
		}
		return v.LeaveObjectLiteral(n)

	case *ir.UnaryNode:
		if !v.EnterUnaryNode(n) {
			return n
		}
		n.Operand = WalkExpr(ctx, v, n.Operand)
		return v.LeaveUnaryNode(n)

	case *ir.BinaryNode:
		if !v.EnterBinaryNode(n) {
			return n
		}
		n.Left = WalkExpr(ctx, v, n.Left)
		n.Right = WalkExpr(ctx, v, n.Right)
		return v.LeaveBinaryNode(n)

	case *ir.TernaryNode:
		if !v.EnterTernaryNode(n) {
			return n
		}
		n.Test = WalkExpr(ctx, v, n.Test)
		n.Then = WalkExpr(ctx, v, n.Then)
		n.Else = WalkExpr(ctx, v, n.Else)
		return v.LeaveTernaryNode(n)

	case *ir.AccessNode:
		if !v.EnterAccessNode(n) {
			return n
		}
		n.Base = WalkExpr(ctx, v, n.Base)
		return v.LeaveAccessNode(n)

	case *ir.IndexNode:
		if !v.EnterIndexNode(n) {
			return n
		}
		n.Base = WalkExpr(ctx, v, n.Base)
		n.Index = WalkExpr(ctx, v, n.Index)
		return v.LeaveIndexNode(n)

	case *ir.CallNode:
		if !v.EnterCallNode(n) {
			return n
		}
		if !n.IsRuntimeCall {
			n.Callee = WalkExpr(ctx, v, n.Callee)
		}
		for i, a := range n.Args {
			n.Args[i] = WalkExpr(ctx, v, a)
		}
		return v.LeaveCallNode(n)

	case *ir.JoinPredecessorExpression:
		if !v.EnterJoinPredecessorExpression(n) {
			return n
		}
		n.Expr = WalkExpr(ctx, v, n.Expr)
		return v.LeaveJoinPredecessorExpression(n)

	case *ir.FunctionNode:
		return walkFunction(ctx, v, n)

	default:
		diag.Assert(false, "visit-unknown-expr", "WalkExpr: unhandled expression type %T", expr)
		return expr
	}
}

func walkProperty(ctx *lexctx.Context, v Visitor, p *ir.Property) *ir.Property {
	if !v.EnterProperty(p) {
		return p
	}
	p.Key = WalkExpr(ctx, v, p.Key)
	p.Value = WalkExpr(ctx, v, p.Value)
	return v.LeaveProperty(p)
}

func walkParameter(ctx *lexctx.Context, v Visitor, p *ir.Parameter) *ir.Parameter {
	if !v.EnterParameter(p) {
		return p
	}
	return v.LeaveParameter(p)
}

func walkFunction(ctx *lexctx.Context, v Visitor, fn *ir.FunctionNode) ir.Expression {
	if !v.EnterFunctionNode(fn) {
		return fn
	}
	for i, p := range fn.Params {
		fn.Params[i] = walkParameter(ctx, v, p)
	}

	ctx.Push(fn)
	if fn.Body != nil {
		fn.Body = WalkBlock(ctx, v, fn.Body)
	}
	ctx.Pop(fn)

	return v.LeaveFunctionNode(fn)
}

// WalkBlock descends into block's statements, threading ctx across the
// push/pop boundary a Block introduces (spec §4.1). The block is already
// pushed when EnterBlock runs. A statement whose EnterX returns false is
// kept in the rewritten block unchanged.
func WalkBlock(ctx *lexctx.Context, v Visitor, block *ir.Block) *ir.Block {
	ctx.Push(block)
	if !v.EnterBlock(block) {
		ctx.Pop(block)
		return block
	}

	rewritten := make([]ir.Statement, 0, len(block.Statements))
	for _, s := range block.Statements {
		rewritten = append(rewritten, WalkStmt(ctx, v, s))
	}
	block.Statements = rewritten
	ctx.Pop(block)

	result := v.LeaveBlock(block)
	out, ok := result.(*ir.Block)
	diag.Assert(ok, "visit-leave-block-type", "LeaveBlock must return a *ir.Block, got %T", result)
	return out
}

// WalkStmt descends into a statement, rewriting it and its children.
func WalkStmt(ctx *lexctx.Context, v Visitor, stmt ir.Statement) ir.Statement {
	if stmt == nil {
		return nil
	}
	switch n := stmt.(type) {
	case *ir.Block:
		return WalkBlock(ctx, v, n)

	case *ir.ExpressionStatement:
		if !v.EnterExpressionStatement(n) {
			return n
		}
		n.Expr = WalkExpr(ctx, v, n.Expr)
		return v.LeaveExpressionStatement(n)

	case *ir.EmptyStatement:
		if !v.EnterEmptyStatement(n) {
			return n
		}
		return v.LeaveEmptyStatement(n)

	case *ir.IfStatement:
		if !v.EnterIfStatement(n) {
			return n
		}
		n.Test = WalkExpr(ctx, v, n.Test)
		n.Then = WalkStmt(ctx, v, n.Then)
		if n.Else != nil {
			n.Else = WalkStmt(ctx, v, n.Else)
		}
		return v.LeaveIfStatement(n)

	case *ir.SwitchStatement:
		if !v.EnterSwitchStatement(n) {
			return n
		}
		n.Tag = WalkExpr(ctx, v, n.Tag)
		for i, c := range n.Cases {
			n.Cases[i] = walkCaseClause(ctx, v, c)
		}
		return v.LeaveSwitchStatement(n)

	case *ir.WhileStatement:
		if !v.EnterWhileStatement(n) {
			return n
		}
		n.Test = WalkExpr(ctx, v, n.Test)
		n.Body = WalkStmt(ctx, v, n.Body)
		return v.LeaveWhileStatement(n)

	case *ir.ForStatement:
		if !v.EnterForStatement(n) {
			return n
		}
		if n.Init != nil {
			n.Init = walkForInit(ctx, v, n.Init)
		}
		if n.Test != nil {
			n.Test = WalkExpr(ctx, v, n.Test)
		}
		if n.Update != nil {
			n.Update = WalkExpr(ctx, v, n.Update)
		}
		if n.Iterable != nil {
			n.Iterable = WalkExpr(ctx, v, n.Iterable)
		}
		if n.Binding != nil {
			n.Binding = WalkExpr(ctx, v, n.Binding)
		}
		n.Body = WalkStmt(ctx, v, n.Body)
		return v.LeaveForStatement(n)

	case *ir.ThrowStatement:
		if !v.EnterThrowStatement(n) {
			return n
		}
		n.Expr = WalkExpr(ctx, v, n.Expr)
		return v.LeaveThrowStatement(n)

	case *ir.ReturnStatement:
		if !v.EnterReturnStatement(n) {
			return n
		}
		if n.Expr != nil {
			n.Expr = WalkExpr(ctx, v, n.Expr)
		}
		return v.LeaveReturnStatement(n)

	case *ir.BreakStatement:
		if !v.EnterBreakStatement(n) {
			return n
		}
		return v.LeaveBreakStatement(n)

	case *ir.ContinueStatement:
		if !v.EnterContinueStatement(n) {
			return n
		}
		return v.LeaveContinueStatement(n)

	case *ir.LabelStatement:
		if !v.EnterLabelStatement(n) {
			return n
		}
		n.Body = WalkStmt(ctx, v, n.Body)
		return v.LeaveLabelStatement(n)

	case *ir.TryStatement:
		if !v.EnterTryStatement(n) {
			return n
		}
		n.Body = WalkBlock(ctx, v, n.Body)
		for i, c := range n.Catches {
			n.Catches[i] = walkCatchClause(ctx, v, c)
		}
		if n.Finally != nil {
			n.Finally = WalkBlock(ctx, v, n.Finally)
		}
		for i, f := range n.InlinedFinallyBlocks {
			n.InlinedFinallyBlocks[i] = WalkBlock(ctx, v, f)
		}
		return v.LeaveTryStatement(n)

	case *ir.VarStatement:
		if !v.EnterVarStatement(n) {
			return n
		}
		for i, id := range n.Names {
			if w, ok := WalkExpr(ctx, v, id).(*ir.Identifier); ok {
				n.Names[i] = w
			}
		}
		for i, init := range n.Inits {
			if init != nil {
				n.Inits[i] = WalkExpr(ctx, v, init)
			}
		}
		return v.LeaveVarStatement(n)

	case *ir.JumpToInlinedFinallyStatement:
		if !v.EnterJumpToInlinedFinallyStatement(n) {
			return n
		}
		n.Finally = WalkBlock(ctx, v, n.Finally)
		n.OriginalJump = WalkStmt(ctx, v, n.OriginalJump)
		return v.LeaveJumpToInlinedFinallyStatement(n)

	case *ir.DebuggerStatement:
		if !v.EnterDebuggerStatement(n) {
			return n
		}
		return v.LeaveDebuggerStatement(n)

	case *ir.SplitStatement:
		if !v.EnterSplitStatement(n) {
			return n
		}
		n.Body = WalkBlock(ctx, v, n.Body)
		return v.LeaveSplitStatement(n)

	default:
		diag.Assert(false, "visit-unknown-stmt", "WalkStmt: unhandled statement type %T", stmt)
		return stmt
	}
}

func walkCaseClause(ctx *lexctx.Context, v Visitor, c *ir.CaseClause) *ir.CaseClause {
	if !v.EnterCaseClause(c) {
		return c
	}
	if c.Test != nil {
		c.Test = WalkExpr(ctx, v, c.Test)
	}
	c.Body = WalkBlock(ctx, v, c.Body)
	return v.LeaveCaseClause(c)
}

func walkCatchClause(ctx *lexctx.Context, v Visitor, c *ir.CatchClause) *ir.CatchClause {
	if !v.EnterCatchClause(c) {
		return c
	}
	if c.Param != nil {
		if w, ok := WalkExpr(ctx, v, c.Param).(*ir.Identifier); ok {
			c.Param = w
		}
	}
	c.Body = WalkBlock(ctx, v, c.Body)
	return v.LeaveCatchClause(c)
}

// walkForInit dispatches the loosely-typed ForStatement.Init field, which
// holds either an ExpressionStatement or a VarStatement (spec §3).
func walkForInit(ctx *lexctx.Context, v Visitor, init ir.Node) ir.Node {
	switch n := init.(type) {
	case ir.Statement:
		return WalkStmt(ctx, v, n)
	default:
		diag.Assert(false, "visit-unknown-for-init", "ForStatement.Init: unexpected type %T", init)
		return init
	}
}
