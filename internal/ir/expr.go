package ir

import (
	"fmt"
	"strings"
)

// Identifier is a name reference. IsPropertyName distinguishes a leaf used
// as an object-literal/access property key (never resolved to a Symbol)
// from one that must resolve to a Symbol by the end of symbol assignment —
// the distinction spec §3's core invariant turns on.
type Identifier struct {
	BaseExpr
	Name           string
	IsPropertyName bool
}

func NewIdentifier(name string) *Identifier {
	return &Identifier{Name: name}
}

func (i *Identifier) String() string { return i.Name }

// NumberLiteral covers int/long/double per spec §3; Kind records which.
type NumberLiteral struct {
	BaseExpr
	Kind     LiteralKind // LitInt, LitLong, or LitDouble
	IntVal   int32
	LongVal  int64
	DoubleVal float64
}

func NewIntLiteral(v int32) *NumberLiteral  { return &NumberLiteral{Kind: LitInt, IntVal: v} }
func NewLongLiteral(v int64) *NumberLiteral { return &NumberLiteral{Kind: LitLong, LongVal: v} }
func NewDoubleLiteral(v float64) *NumberLiteral {
	return &NumberLiteral{Kind: LitDouble, DoubleVal: v}
}

func (n *NumberLiteral) String() string {
	switch n.Kind {
	case LitInt:
		return fmt.Sprintf("%d", n.IntVal)
	case LitLong:
		return fmt.Sprintf("%dL", n.LongVal)
	default:
		return fmt.Sprintf("%g", n.DoubleVal)
	}
}

type BooleanLiteral struct {
	BaseExpr
	Value bool
}

func NewBooleanLiteral(v bool) *BooleanLiteral { return &BooleanLiteral{Value: v} }
func (b *BooleanLiteral) String() string       { return fmt.Sprintf("%t", b.Value) }

type NullLiteral struct{ BaseExpr }

func NewNullLiteral() *NullLiteral  { return &NullLiteral{} }
func (*NullLiteral) String() string { return "null" }

type StringLiteral struct {
	BaseExpr
	Value string
}

func NewStringLiteral(v string) *StringLiteral { return &StringLiteral{Value: v} }
func (s *StringLiteral) String() string        { return fmt.Sprintf("%q", s.Value) }

// ArrayLiteral is never folded as an operand (spec §4.3) and is a
// candidate for splitting into SplitRanges (spec §4.9).
type ArrayLiteral struct {
	BaseExpr
	Elements []Expression

	// SplitRanges partitions Elements into per-compile-unit groups once
	// the literal's weight exceeds the splitter's threshold (spec §4.9).
	// Empty when the literal was never split.
	SplitRanges []SplitRange
}

func (a *ArrayLiteral) String() string {
	parts := make([]string, len(a.Elements))
	for i, e := range a.Elements {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Property is one key/value pair of an ObjectLiteral. IsConstant marks
// properties whose value is a compile-time constant — consulted by the
// splitter when deciding which entries belong in a spill object (spec
// §4.9: "skipping constant properties in spill objects").
type Property struct {
	BaseNode
	Key        Expression
	Value      Expression
	IsConstant bool
}

func (p *Property) String() string { return p.Key.String() + ": " + p.Value.String() }

type ObjectLiteral struct {
	BaseExpr
	Properties []*Property

	// SplitRanges mirrors ArrayLiteral.SplitRanges, partitioning
	// Properties instead of Elements; a constant property is skipped when
	// building a spill object for its range (spec §4.9).
	SplitRanges []SplitRange
}

func (o *ObjectLiteral) String() string {
	parts := make([]string, len(o.Properties))
	for i, p := range o.Properties {
		parts[i] = p.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// UnaryNode applies Op to Operand. The constant folder evaluates it when
// Operand is a primitive literal (spec §4.3); typeof/delete are excluded.
type UnaryNode struct {
	BaseExpr
	Op      UnaryOp
	Operand Expression
}

func (u *UnaryNode) String() string { return u.Op.String() + u.Operand.String() }

// BinaryNode applies Op to Left/Right. IN and INSTANCEOF get rewritten to
// runtime CallNodes during lowering (spec §4.4) so by the time the
// optimistic typer runs, no BinaryNode carries those two ops.
type BinaryNode struct {
	BaseExpr
	Op    BinaryOp
	Left  Expression
	Right Expression
}

func (b *BinaryNode) String() string {
	return fmt.Sprintf("(%s %s %s)", b.Left.String(), b.Op.String(), b.Right.String())
}

// TernaryNode is `Test ? Then : Else`.
type TernaryNode struct {
	BaseExpr
	Test Expression
	Then Expression
	Else Expression
}

func (t *TernaryNode) String() string {
	return fmt.Sprintf("(%s ? %s : %s)", t.Test.String(), t.Then.String(), t.Else.String())
}

// AccessNode is `Base.Name` — member access by a fixed, lexically-known
// name. IndexNode with a constant identifier-shaped string key is lowered
// into one of these (spec §4.4).
type AccessNode struct {
	BaseExpr
	Base Expression
	Name string
}

func (a *AccessNode) String() string { return a.Base.String() + "." + a.Name }

// IndexNode is `Base[Index]` — member access by a computed key.
type IndexNode struct {
	BaseExpr
	Base  Expression
	Index Expression
}

func (ix *IndexNode) String() string { return ix.Base.String() + "[" + ix.Index.String() + "]" }

// CallNode is a function call (or, after lowering, a runtime-service call
// such as the IN/INSTANCEOF/debugger rewrites — IsRuntimeCall marks those).
type CallNode struct {
	BaseExpr
	Callee        Expression
	Args          []Expression
	IsNew         bool
	IsRuntimeCall bool
	RuntimeName   string // set when IsRuntimeCall, e.g. "ECMAErrors.IN", "Debugger"
}

func (c *CallNode) String() string {
	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		parts[i] = a.String()
	}
	prefix := ""
	if c.IsNew {
		prefix = "new "
	}
	callee := "<runtime:" + c.RuntimeName + ">"
	if !c.IsRuntimeCall {
		callee = c.Callee.String()
	}
	return prefix + callee + "(" + strings.Join(parts, ", ") + ")"
}

// JoinPredecessorExpression wraps an expression position that may receive a
// local-variable-type conversion before evaluation (GLOSSARY: "Join
// predecessor"). It is transparent to String()/Pos() so it never changes
// how a tree prints, only how the optimistic typer and emitter see it.
type JoinPredecessorExpression struct {
	BaseExpr
	Expr             Expression
	ConversionToType *TypeAnnotation // non-nil if a conversion hint is attached
}

func (j *JoinPredecessorExpression) String() string { return j.Expr.String() }

// Unwrap returns the innermost non-JoinPredecessorExpression expression.
func Unwrap(e Expression) Expression {
	for {
		jp, ok := e.(*JoinPredecessorExpression)
		if !ok {
			return e
		}
		e = jp.Expr
	}
}
