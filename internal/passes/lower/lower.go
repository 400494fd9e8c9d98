// Package lower implements the lowerer (spec §4.4, component E): the
// pass that rewrites high-level constructs into the primitive
// shapes later passes and the (external) emitter expect — finally
// inlining, switch tag hoisting, delete/in/instanceof desugaring,
// index-by-constant-string narrowing, and program-level expression
// capture.
//
// Lowering never reports a syntax error itself. The synthetic label and
// rename generators (freshLabel, freshRenameSuffix) are plain counters
// with no assertion.
package lower

import (
	"math"
	"regexp"

	"github.com/cwbudde/go-dws/internal/ir"
	"github.com/cwbudde/go-dws/internal/lexctx"
	"github.com/cwbudde/go-dws/internal/visit"
)

// identLike matches an IndexNode key that can be rewritten to plain
// property access (spec §4.4).
var identLike = regexp.MustCompile(`^[A-Za-z_$][\w$]*$`)

// Lowerer is the visitor driving every spec §4.4 rewrite. It
// holds the program being lowered (to recognize top-level statements) and
// monotonic counters for the synthetic names try/finally inlining needs.
type Lowerer struct {
	visit.BaseVisitor

	program    *ir.FunctionNode
	labelSeq   int
	renameSeq  int
}

// Run lowers program in place and returns it.
func Run(ctx *lexctx.Context, program *ir.FunctionNode) *ir.FunctionNode {
	l := &Lowerer{program: program}
	return visit.WalkExpr(ctx, l, program).(*ir.FunctionNode)
}

func (l *Lowerer) freshLabel() string {
	l.labelSeq++
	return ":finally_" + itoa(l.labelSeq)
}

func (l *Lowerer) freshRenameSuffix() string {
	l.renameSeq++
	return "$f" + itoa(l.renameSeq)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// LeaveBlock applies the program-level `:return = expr` rewrite to the
// outermost script's body once its statements have already been lowered.
func (l *Lowerer) LeaveBlock(b *ir.Block) ir.Statement {
	if l.program != nil && b == l.program.Body {
		for i, s := range b.Statements {
			if es, ok := s.(*ir.ExpressionStatement); ok {
				b.Statements[i] = l.rewriteProgramLevel(es)
			}
		}
	}
	return b
}

// rewriteProgramLevel wraps a top-level expression statement's expression
// as an assignment to the compiler-synthesized `:return` eval-result
// identifier, unless it already is one or is itself an internal-symbol
// reference (spec §4.4, GLOSSARY "Internal symbol").
func (l *Lowerer) rewriteProgramLevel(es *ir.ExpressionStatement) ir.Statement {
	if isInternalSymbolRef(es.Expr) || isReturnAssignment(es.Expr) {
		return es
	}
	return &ir.ExpressionStatement{Expr: &ir.BinaryNode{
		Op:    ir.Assign,
		Left:  ir.NewIdentifier(":return"),
		Right: es.Expr,
	}}
}

func isInternalSymbolRef(e ir.Expression) bool {
	id, ok := ir.Unwrap(e).(*ir.Identifier)
	return ok && len(id.Name) > 0 && id.Name[0] == ':'
}

func isReturnAssignment(e ir.Expression) bool {
	bin, ok := e.(*ir.BinaryNode)
	if !ok || bin.Op != ir.Assign {
		return false
	}
	id, ok := bin.Left.(*ir.Identifier)
	return ok && id.Name == ":return"
}

// LeaveIndexNode narrows `base["name"]` to `base.name` when the index is
// an identifier-shaped string literal (spec §4.4).
func (l *Lowerer) LeaveIndexNode(n *ir.IndexNode) ir.Expression {
	if sl, ok := n.Index.(*ir.StringLiteral); ok && identLike.MatchString(sl.Value) {
		return &ir.AccessNode{BaseExpr: n.BaseExpr, Base: n.Base, Name: sl.Value}
	}
	return n
}

func isReferenceOperand(e ir.Expression) bool {
	switch e.(type) {
	case *ir.Identifier, *ir.AccessNode, *ir.IndexNode:
		return true
	default:
		return false
	}
}

// LeaveUnaryNode desugars `delete` of a non-reference operand to a comma
// expression that still evaluates the operand for its side effect, and
// rewrites IN/INSTANCEOF-adjacent unary forms untouched (those are binary
// nodes, handled in LeaveBinaryNode).
func (l *Lowerer) LeaveUnaryNode(n *ir.UnaryNode) ir.Expression {
	if n.Op != ir.UnaryDelete {
		return n
	}
	if isReferenceOperand(n.Operand) {
		return n
	}
	return &ir.BinaryNode{Op: ir.Comma, Left: n.Operand, Right: ir.NewBooleanLiteral(true)}
}

// LeaveBinaryNode rewrites IN/INSTANCEOF into runtime-service calls (spec
// §4.4); after lowering, no surviving BinaryNode carries either op.
func (l *Lowerer) LeaveBinaryNode(n *ir.BinaryNode) ir.Expression {
	switch n.Op {
	case ir.In:
		return &ir.CallNode{IsRuntimeCall: true, RuntimeName: "ECMAErrors.IN", Args: []ir.Expression{n.Left, n.Right}}
	case ir.InstanceOf:
		return &ir.CallNode{IsRuntimeCall: true, RuntimeName: "ECMAErrors.INSTANCEOF", Args: []ir.Expression{n.Left, n.Right}}
	default:
		return n
	}
}

// LeaveWhileStatement turns `while(true)` into a testless for loop (spec
// §4.4) and records break/continue escape analysis.
func (l *Lowerer) LeaveWhileStatement(n *ir.WhileStatement) ir.Statement {
	n.Escapes = loopBodyEscapes(n.Body, "")
	if b, ok := n.Test.(*ir.BooleanLiteral); ok && b.Value {
		forLoop := &ir.ForStatement{ForKind: ir.ForClassic, Body: n.Body, Escapes: n.Escapes}
		return forLoop
	}
	return n
}

// LeaveForStatement drops an always-true test and records escape analysis.
func (l *Lowerer) LeaveForStatement(n *ir.ForStatement) ir.Statement {
	if n.Test != nil {
		if b, ok := n.Test.(*ir.BooleanLiteral); ok && b.Value {
			n.Test = nil
		}
	}
	n.Escapes = loopBodyEscapes(n.Body, "")
	return n
}

// LeaveDebuggerStatement replaces `debugger;` with a runtime-call
// expression statement (spec §4.4).
func (l *Lowerer) LeaveDebuggerStatement(n *ir.DebuggerStatement) ir.Statement {
	return &ir.ExpressionStatement{Expr: &ir.CallNode{IsRuntimeCall: true, RuntimeName: "Debugger"}}
}

// LeaveCaseClause narrows a double case test that is exactly representable
// as int (spec §4.4 bullet: "Case-test numeric literals... narrowed").
func (l *Lowerer) LeaveCaseClause(c *ir.CaseClause) *ir.CaseClause {
	if lit, ok := c.Test.(*ir.NumberLiteral); ok && lit.Kind == ir.LitDouble {
		if lit.DoubleVal == math.Trunc(lit.DoubleVal) && lit.DoubleVal >= math.MinInt32 && lit.DoubleVal <= math.MaxInt32 {
			c.Test = ir.NewIntLiteral(int32(lit.DoubleVal))
		}
	}
	return c
}

// LeaveSwitchStatement wraps a non-unique-integer switch in its own block
// so the synthetic tag symbol's scope doesn't leak (spec §4.4).
func (l *Lowerer) LeaveSwitchStatement(n *ir.SwitchStatement) ir.Statement {
	if n.UniqueInteger {
		return n
	}
	return ir.NewBlock(n)
}

// LeaveTryStatement hands off to the try/finally inlining algorithm.
func (l *Lowerer) LeaveTryStatement(n *ir.TryStatement) ir.Statement {
	return l.lowerTry(n)
}
