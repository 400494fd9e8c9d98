package ir

// UnaryOp enumerates the unary operators the constant folder and lowerer
// need to recognize explicitly (spec §4.3: "typeof and delete are NOT
// folded", so they still need a name even though the folder skips them).
type UnaryOp int

const (
	UnaryPlus UnaryOp = iota
	UnaryMinus
	UnaryNot
	UnaryBitNot
	UnaryTypeof
	UnaryDelete
	UnaryVoid
)

func (op UnaryOp) String() string {
	switch op {
	case UnaryPlus:
		return "+"
	case UnaryMinus:
		return "-"
	case UnaryNot:
		return "!"
	case UnaryBitNot:
		return "~"
	case UnaryTypeof:
		return "typeof"
	case UnaryDelete:
		return "delete"
	case UnaryVoid:
		return "void"
	default:
		return "?"
	}
}

// BinaryOp enumerates binary operators, including IN/INSTANCEOF which the
// lowerer rewrites into runtime-call nodes (spec §4.4).
type BinaryOp int

const (
	Add BinaryOp = iota
	Sub
	Mul
	Div
	Mod
	BitAnd
	BitOr
	BitXor
	Shl
	Shr
	UShr
	Lt
	Gt
	Lte
	Gte
	Eq
	Neq
	StrictEq
	StrictNeq
	LogicalAnd
	LogicalOr
	In
	InstanceOf
	Assign

	// Comma is synthesized by the lowerer for `delete <non-reference>`,
	// which evaluates the operand for its side effect then yields `true`
	// (spec §4.4); source JS has no syntax that parses directly to it.
	Comma
)

func (op BinaryOp) String() string {
	names := map[BinaryOp]string{
		Add: "+", Sub: "-", Mul: "*", Div: "/", Mod: "%",
		BitAnd: "&", BitOr: "|", BitXor: "^", Shl: "<<", Shr: ">>", UShr: ">>>",
		Lt: "<", Gt: ">", Lte: "<=", Gte: ">=",
		Eq: "==", Neq: "!=", StrictEq: "===", StrictNeq: "!==",
		LogicalAnd: "&&", LogicalOr: "||",
		In: "in", InstanceOf: "instanceof", Assign: "=", Comma: ",",
	}
	if s, ok := names[op]; ok {
		return s
	}
	return "?"
}

// IsRelational reports whether op produces a boolean per spec §4.3
// ("Relational/equality ops produce boolean").
func (op BinaryOp) IsRelational() bool {
	switch op {
	case Lt, Gt, Lte, Gte, Eq, Neq, StrictEq, StrictNeq:
		return true
	default:
		return false
	}
}

// IsShiftOrBitwise reports whether op always produces an int result per
// spec §4.3 ("Shift/bitwise ops always produce int").
func (op BinaryOp) IsShiftOrBitwise() bool {
	switch op {
	case BitAnd, BitOr, BitXor, Shl, Shr, UShr:
		return true
	default:
		return false
	}
}
