package splitter

import "github.com/cwbudde/go-dws/internal/ir"

// Per-node-kind cost table (spec §4.9: "function-weight 40, call 10,
// literal 10, access 4, loop 4, object 16, split 40, var 40, etc.").
// Kinds the spec's "etc." leaves unnamed get a flat minor cost reflecting
// their role as cheap connective tissue rather than allocation-heavy
// constructs.
const (
	weightFunction = 40
	weightCall     = 10
	weightLiteral  = 10
	weightAccess   = 4
	weightLoop     = 4
	weightObject   = 16
	weightSplit    = 40
	weightVar      = 40
	weightMinor    = 2
	weightLeaf     = 1
)

// weighBlock sums the weight of every statement directly in b. A nested
// FunctionNode contributes a flat weightFunction regardless of its own
// body's size — the nested function is weighed and split independently
// with its own threshold check (spec §4.9, "recursively split each nested
// function").
func weighBlock(b *ir.Block) int {
	if b == nil {
		return 0
	}
	total := 0
	for _, s := range b.Statements {
		total += weighStmt(s)
	}
	return total
}

func weighStmt(s ir.Statement) int {
	switch n := s.(type) {
	case nil:
		return 0
	case *ir.Block:
		return weighBlock(n)
	case *ir.ExpressionStatement:
		return weightMinor + weighExpr(n.Expr)
	case *ir.EmptyStatement:
		return 0
	case *ir.IfStatement:
		return weightMinor + weighExpr(n.Test) + weighStmt(n.Then) + weighStmt(n.Else)
	case *ir.SwitchStatement:
		total := weightMinor + weighExpr(n.Tag)
		for _, c := range n.Cases {
			if c.Test != nil {
				total += weighExpr(c.Test)
			}
			total += weighBlock(c.Body)
		}
		return total
	case *ir.WhileStatement:
		return weightLoop + weighExpr(n.Test) + weighStmt(n.Body)
	case *ir.ForStatement:
		total := weightLoop + weighStmt(n.Body)
		if vs, ok := n.Init.(*ir.VarStatement); ok {
			total += weighStmt(vs)
		} else if es, ok := n.Init.(*ir.ExpressionStatement); ok {
			total += weighStmt(es)
		}
		if n.Test != nil {
			total += weighExpr(n.Test)
		}
		if n.Update != nil {
			total += weighExpr(n.Update)
		}
		if n.Iterable != nil {
			total += weighExpr(n.Iterable)
		}
		if n.Binding != nil {
			total += weighExpr(n.Binding)
		}
		return total
	case *ir.ThrowStatement:
		return weightMinor + weighExpr(n.Expr)
	case *ir.ReturnStatement:
		if n.Expr == nil {
			return weightMinor
		}
		return weightMinor + weighExpr(n.Expr)
	case *ir.BreakStatement, *ir.ContinueStatement:
		return weightMinor
	case *ir.LabelStatement:
		return weightMinor + weighStmt(n.Body)
	case *ir.TryStatement:
		total := weightMinor + weighBlock(n.Body)
		for _, c := range n.Catches {
			total += weighBlock(c.Body)
		}
		if n.Finally != nil {
			total += weighBlock(n.Finally)
		}
		for _, f := range n.InlinedFinallyBlocks {
			total += weighBlock(f)
		}
		return total
	case *ir.VarStatement:
		total := weightVar
		for _, init := range n.Inits {
			if init != nil {
				total += weighExpr(init)
			}
		}
		return total
	case *ir.JumpToInlinedFinallyStatement:
		return weightMinor + weighBlock(n.Finally) + weighStmt(n.OriginalJump)
	case *ir.DebuggerStatement:
		return weightMinor
	case *ir.SplitStatement:
		return weightSplit
	default:
		return weightMinor
	}
}

func weighExpr(e ir.Expression) int {
	switch n := e.(type) {
	case nil:
		return 0
	case *ir.Identifier:
		return weightLeaf
	case *ir.NumberLiteral, *ir.BooleanLiteral, *ir.NullLiteral, *ir.StringLiteral:
		return weightLiteral
	case *ir.ArrayLiteral:
		total := weightObject
		for _, el := range n.Elements {
			total += weighExpr(el)
		}
		return total
	case *ir.ObjectLiteral:
		total := weightObject
		for _, p := range n.Properties {
			total += weighExpr(p.Key) + weighExpr(p.Value)
		}
		return total
	case *ir.UnaryNode:
		return weightMinor + weighExpr(n.Operand)
	case *ir.BinaryNode:
		return weightMinor + weighExpr(n.Left) + weighExpr(n.Right)
	case *ir.TernaryNode:
		return weightMinor + weighExpr(n.Test) + weighExpr(n.Then) + weighExpr(n.Else)
	case *ir.AccessNode:
		return weightAccess + weighExpr(n.Base)
	case *ir.IndexNode:
		return weightAccess + weighExpr(n.Base) + weighExpr(n.Index)
	case *ir.CallNode:
		total := weightCall
		if !n.IsRuntimeCall {
			total += weighExpr(n.Callee)
		}
		for _, a := range n.Args {
			total += weighExpr(a)
		}
		return total
	case *ir.JoinPredecessorExpression:
		return weighExpr(n.Expr)
	case *ir.FunctionNode:
		return weightFunction
	default:
		return weightMinor
	}
}
