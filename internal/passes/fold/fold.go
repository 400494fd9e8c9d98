// Package fold implements the constant folder (spec §4.3, component D):
// evaluating unary/binary/ternary ops on primitive literals, taking the
// live branch of an if/ternary whose test is a primitive literal (while
// preserving the dead branch's var hoisting), and flagging switch
// statements whose case tests are all distinct integer literals.
//
// Folding never fails — every entry point returns a tree, folded or not.
package fold

import (
	"math"
	"strconv"

	"github.com/cwbudde/go-dws/internal/ir"
	"github.com/cwbudde/go-dws/internal/lexctx"
	"github.com/cwbudde/go-dws/internal/visit"
)

// Folder is a visit.Visitor that folds constant expressions in place,
// grounded on the teacher's per-operator-kind fold* helpers in
// internal/bytecode/optimizer.go (foldIntegerOp/foldFloatOp/
// foldEqualityOp/foldComparisonOp), adapted from bytecode values to IR
// literal nodes.
type Folder struct {
	visit.BaseVisitor
}

// Run folds every constant-foldable node reachable from program.
func Run(ctx *lexctx.Context, program *ir.FunctionNode) *ir.FunctionNode {
	return visit.WalkExpr(ctx, &Folder{}, program).(*ir.FunctionNode)
}

func (f *Folder) LeaveUnaryNode(n *ir.UnaryNode) ir.Expression {
	if !isPrimitiveLiteral(n.Operand) {
		return n
	}
	if result, ok := foldUnary(n.Op, n.Operand); ok {
		return result
	}
	return n
}

func (f *Folder) LeaveBinaryNode(n *ir.BinaryNode) ir.Expression {
	if !isPrimitiveLiteral(n.Left) || !isPrimitiveLiteral(n.Right) {
		return n
	}
	if result, ok := foldBinary(n.Op, n.Left, n.Right); ok {
		return result
	}
	return n
}

func (f *Folder) LeaveTernaryNode(n *ir.TernaryNode) ir.Expression {
	truthy, ok := truthinessOf(n.Test)
	if !ok {
		return n
	}
	if truthy {
		return n.Then
	}
	return n.Else
}

func (f *Folder) LeaveIfStatement(n *ir.IfStatement) ir.Statement {
	truthy, ok := truthinessOf(n.Test)
	if !ok {
		return n
	}

	live, dead := n.Then, n.Else
	if !truthy {
		live, dead = n.Else, n.Then
	}

	hoisted := collectDeadVars(dead)
	if len(hoisted) == 0 {
		if live == nil {
			return &ir.EmptyStatement{}
		}
		return live
	}

	stmts := make([]ir.Statement, 0, len(hoisted)+1)
	for _, h := range hoisted {
		stmts = append(stmts, h)
	}
	if live != nil {
		stmts = append(stmts, live)
	}
	return ir.NewBlock(stmts...)
}

func (f *Folder) LeaveSwitchStatement(n *ir.SwitchStatement) ir.Statement {
	n.UniqueInteger = hasUniqueIntegerCases(n.Cases)
	return n
}

// hasUniqueIntegerCases reports whether every non-default case test is an
// int literal and all such values are pairwise distinct (spec §4.3).
func hasUniqueIntegerCases(cases []*ir.CaseClause) bool {
	seen := make(map[int32]bool, len(cases))
	for _, c := range cases {
		if c.Test == nil {
			continue
		}
		lit, ok := c.Test.(*ir.NumberLiteral)
		if !ok || lit.Kind != ir.LitInt {
			return false
		}
		if seen[lit.IntVal] {
			return false
		}
		seen[lit.IntVal] = true
	}
	return true
}

// collectDeadVars walks a dead branch and returns a hoisting-only clone
// (initializer stripped) of every `var`-kind declaration found, stopping
// at nested function bodies (those hoist into their own scope, not ours).
func collectDeadVars(stmt ir.Statement) []*ir.VarStatement {
	var out []*ir.VarStatement
	var walk func(ir.Statement)
	walk = func(s ir.Statement) {
		switch n := s.(type) {
		case nil:
			return
		case *ir.VarStatement:
			if n.Kind == ir.SymVar {
				out = append(out, &ir.VarStatement{
					Kind:  ir.SymVar,
					Names: n.Names,
					Inits: make([]ir.Expression, len(n.Inits)),
				})
			}
		case *ir.Block:
			for _, st := range n.Statements {
				walk(st)
			}
		case *ir.IfStatement:
			walk(n.Then)
			walk(n.Else)
		case *ir.WhileStatement:
			walk(n.Body)
		case *ir.ForStatement:
			if vs, ok := n.Init.(*ir.VarStatement); ok {
				walk(vs)
			}
			walk(n.Body)
		case *ir.LabelStatement:
			walk(n.Body)
		case *ir.TryStatement:
			walk(n.Body)
			for _, c := range n.Catches {
				walk(c.Body)
			}
			if n.Finally != nil {
				walk(n.Finally)
			}
		case *ir.SwitchStatement:
			for _, c := range n.Cases {
				walk(c.Body)
			}
		}
	}
	walk(stmt)
	return out
}

func isPrimitiveLiteral(e ir.Expression) bool {
	switch e.(type) {
	case *ir.NumberLiteral, *ir.BooleanLiteral, *ir.NullLiteral, *ir.StringLiteral:
		return true
	default:
		return false
	}
}

// numValue is a primitive literal coerced to a number, remembering its
// original int/long/double shape so arithmetic can apply spec §4.3's
// int-preferred promotion.
type numValue struct {
	isInt  bool
	isLong bool
	i32    int32
	i64    int64
	f64    float64
}

func (nv numValue) isDouble() bool { return !nv.isInt && !nv.isLong }

func numericOf(e ir.Expression) (numValue, bool) {
	switch n := e.(type) {
	case *ir.NumberLiteral:
		switch n.Kind {
		case ir.LitInt:
			return numValue{isInt: true, i32: n.IntVal, i64: int64(n.IntVal), f64: float64(n.IntVal)}, true
		case ir.LitLong:
			return numValue{isLong: true, i64: n.LongVal, f64: float64(n.LongVal)}, true
		case ir.LitDouble:
			return numValue{f64: n.DoubleVal}, true
		}
	case *ir.BooleanLiteral:
		v := int32(0)
		if n.Value {
			v = 1
		}
		return numValue{isInt: true, i32: v, f64: float64(v)}, true
	}
	return numValue{}, false
}

func truthinessOf(e ir.Expression) (bool, bool) {
	switch n := e.(type) {
	case *ir.BooleanLiteral:
		return n.Value, true
	case *ir.NumberLiteral:
		switch n.Kind {
		case ir.LitInt:
			return n.IntVal != 0, true
		case ir.LitLong:
			return n.LongVal != 0, true
		case ir.LitDouble:
			return n.DoubleVal != 0 && !math.IsNaN(n.DoubleVal), true
		}
	case *ir.NullLiteral:
		return false, true
	case *ir.StringLiteral:
		return n.Value != "", true
	}
	return false, false
}

func stringOf(e ir.Expression) (string, bool) {
	switch n := e.(type) {
	case *ir.StringLiteral:
		return n.Value, true
	case *ir.NumberLiteral:
		switch n.Kind {
		case ir.LitInt:
			return strconv.FormatInt(int64(n.IntVal), 10), true
		case ir.LitLong:
			return strconv.FormatInt(n.LongVal, 10), true
		case ir.LitDouble:
			return strconv.FormatFloat(n.DoubleVal, 'g', -1, 64), true
		}
	case *ir.BooleanLiteral:
		return strconv.FormatBool(n.Value), true
	case *ir.NullLiteral:
		return "null", true
	}
	return "", false
}

func withinInt32(f float64) bool {
	return f >= math.MinInt32 && f <= math.MaxInt32
}

func isIntegral(f float64) bool {
	return !math.IsInf(f, 0) && !math.IsNaN(f) && f == math.Trunc(f)
}

func numToLiteral(nv numValue) ir.Expression {
	if nv.isInt {
		return ir.NewIntLiteral(nv.i32)
	}
	if nv.isLong {
		return ir.NewLongLiteral(nv.i64)
	}
	return ir.NewDoubleLiteral(nv.f64)
}

func toInt32(nv numValue) int32 {
	if nv.isInt {
		return nv.i32
	}
	if math.IsNaN(nv.f64) || math.IsInf(nv.f64, 0) {
		return 0
	}
	return int32(int64(nv.f64))
}

// foldUnary evaluates Op on a known-primitive operand per spec §4.3.
// typeof/delete are deliberately excluded from folding.
func foldUnary(op ir.UnaryOp, operand ir.Expression) (ir.Expression, bool) {
	switch op {
	case ir.UnaryTypeof, ir.UnaryDelete, ir.UnaryVoid:
		return nil, false

	case ir.UnaryNot:
		b, ok := truthinessOf(operand)
		if !ok {
			return nil, false
		}
		return ir.NewBooleanLiteral(!b), true

	case ir.UnaryBitNot:
		nv, ok := numericOf(operand)
		if !ok {
			return nil, false
		}
		return ir.NewIntLiteral(^toInt32(nv)), true

	case ir.UnaryPlus:
		nv, ok := numericOf(operand)
		if !ok {
			return nil, false
		}
		return numToLiteral(nv), true

	case ir.UnaryMinus:
		nv, ok := numericOf(operand)
		if !ok {
			return nil, false
		}
		// -0 special case: skip the int path so negating zero produces the
		// distinct double -0.0 rather than int 0.
		if nv.isInt && nv.i32 != 0 {
			return ir.NewIntLiteral(-nv.i32), true
		}
		if nv.isLong {
			return ir.NewLongLiteral(-nv.i64), true
		}
		return ir.NewDoubleLiteral(-nv.f64), true
	}
	return nil, false
}

// foldBinary evaluates Op on two known-primitive operands per spec §4.3.
func foldBinary(op ir.BinaryOp, left, right ir.Expression) (ir.Expression, bool) {
	if op == ir.Add {
		if ls, ok := left.(*ir.StringLiteral); ok {
			rstr, ok2 := stringOf(right)
			if !ok2 {
				return nil, false
			}
			return ir.NewStringLiteral(ls.Value + rstr), true
		}
		if rs, ok := right.(*ir.StringLiteral); ok {
			lstr, ok2 := stringOf(left)
			if !ok2 {
				return nil, false
			}
			return ir.NewStringLiteral(lstr + rs.Value), true
		}
		return foldArithmetic(op, left, right)
	}

	if op.IsShiftOrBitwise() {
		return foldBitwise(op, left, right)
	}

	switch op {
	case ir.Sub, ir.Mul, ir.Div, ir.Mod:
		return foldArithmetic(op, left, right)
	case ir.Lt, ir.Gt, ir.Lte, ir.Gte:
		return foldRelational(op, left, right)
	case ir.Eq, ir.Neq, ir.StrictEq, ir.StrictNeq:
		return foldEquality(op, left, right)
	case ir.LogicalAnd, ir.LogicalOr:
		return foldLogical(op, left, right)
	}
	return nil, false
}

func foldArithmetic(op ir.BinaryOp, left, right ir.Expression) (ir.Expression, bool) {
	lv, lok := numericOf(left)
	rv, rok := numericOf(right)
	if !lok || !rok {
		return nil, false
	}

	var result float64
	switch op {
	case ir.Add:
		result = lv.f64 + rv.f64
	case ir.Sub:
		result = lv.f64 - rv.f64
	case ir.Mul:
		result = lv.f64 * rv.f64
	case ir.Div:
		if rv.f64 == 0 {
			return nil, false
		}
		result = lv.f64 / rv.f64
	case ir.Mod:
		if rv.f64 == 0 {
			return nil, false
		}
		result = math.Mod(lv.f64, rv.f64)
	default:
		return nil, false
	}

	if isIntegral(result) && withinInt32(result) {
		return ir.NewIntLiteral(int32(result)), true
	}
	if !lv.isDouble() && !rv.isDouble() && isIntegral(result) {
		return ir.NewLongLiteral(int64(result)), true
	}
	return ir.NewDoubleLiteral(result), true
}

// foldBitwise re-narrows through int32 (logical right shift through
// uint32) per spec §4.3: "Shift/bitwise ops always produce int".
func foldBitwise(op ir.BinaryOp, left, right ir.Expression) (ir.Expression, bool) {
	lv, lok := numericOf(left)
	rv, rok := numericOf(right)
	if !lok || !rok {
		return nil, false
	}
	li, ri := toInt32(lv), toInt32(rv)
	shift := uint32(ri) & 31

	switch op {
	case ir.BitAnd:
		return ir.NewIntLiteral(li & ri), true
	case ir.BitOr:
		return ir.NewIntLiteral(li | ri), true
	case ir.BitXor:
		return ir.NewIntLiteral(li ^ ri), true
	case ir.Shl:
		return ir.NewIntLiteral(li << shift), true
	case ir.Shr:
		return ir.NewIntLiteral(li >> shift), true
	case ir.UShr:
		return ir.NewIntLiteral(int32(uint32(li) >> shift)), true
	}
	return nil, false
}

func foldRelational(op ir.BinaryOp, left, right ir.Expression) (ir.Expression, bool) {
	if lv, lok := numericOf(left); lok {
		if rv, rok := numericOf(right); rok {
			return boolByRelOp(op, lv.f64 < rv.f64, lv.f64 > rv.f64, lv.f64 == rv.f64), true
		}
	}
	ls, lsok := left.(*ir.StringLiteral)
	rs, rsok := right.(*ir.StringLiteral)
	if lsok && rsok {
		return boolByRelOp(op, ls.Value < rs.Value, ls.Value > rs.Value, ls.Value == rs.Value), true
	}
	return nil, false
}

func boolByRelOp(op ir.BinaryOp, lt, gt, eq bool) ir.Expression {
	switch op {
	case ir.Lt:
		return ir.NewBooleanLiteral(lt)
	case ir.Gt:
		return ir.NewBooleanLiteral(gt)
	case ir.Lte:
		return ir.NewBooleanLiteral(lt || eq)
	case ir.Gte:
		return ir.NewBooleanLiteral(gt || eq)
	}
	return ir.NewBooleanLiteral(false)
}

func foldEquality(op ir.BinaryOp, left, right ir.Expression) (ir.Expression, bool) {
	strict := op == ir.StrictEq || op == ir.StrictNeq
	eq, ok := literalsEqual(left, right, strict)
	if !ok {
		return nil, false
	}
	if op == ir.Eq || op == ir.StrictEq {
		return ir.NewBooleanLiteral(eq), true
	}
	return ir.NewBooleanLiteral(!eq), true
}

func literalsEqual(left, right ir.Expression, strict bool) (bool, bool) {
	lv, lok := numericOf(left)
	rv, rok := numericOf(right)
	if lok && rok {
		if strict && isBoolLiteral(left) != isBoolLiteral(right) {
			return false, true
		}
		return lv.f64 == rv.f64, true
	}

	ls, lsok := left.(*ir.StringLiteral)
	rs, rsok := right.(*ir.StringLiteral)
	if lsok && rsok {
		return ls.Value == rs.Value, true
	}

	_, lnull := left.(*ir.NullLiteral)
	_, rnull := right.(*ir.NullLiteral)
	if lnull && rnull {
		return true, true
	}
	if lnull != rnull {
		return false, true
	}
	return false, false
}

func isBoolLiteral(e ir.Expression) bool {
	_, ok := e.(*ir.BooleanLiteral)
	return ok
}

// foldLogical applies short-circuit semantics to two primitive-literal
// operands, returning whichever side JS's && / || would yield.
func foldLogical(op ir.BinaryOp, left, right ir.Expression) (ir.Expression, bool) {
	lb, ok := truthinessOf(left)
	if !ok {
		return nil, false
	}
	switch op {
	case ir.LogicalAnd:
		if !lb {
			return left, true
		}
		return right, true
	case ir.LogicalOr:
		if lb {
			return left, true
		}
		return right, true
	}
	return nil, false
}
