package ir

import "strings"

// Block is a list of statements plus the scope-bearing bookkeeping the
// lexical context and symbol assigner attach to it: whether it needs a
// runtime scope object, and whether control falls off its end.
type Block struct {
	BaseStmt
	Statements []Statement

	// NeedsScope is set once any symbol defined directly in this block is
	// promoted to scope (GLOSSARY: "Needs scope (block)").
	NeedsScope bool

	// Terminal is true iff the block's last non-uninitialized-var
	// statement is terminal (spec §3's Block invariant). It is set by
	// visit.BlockBuilder.Finish; ForcedNonTerminal overrides it in
	// IsTerminal. The lowerer sets neither: its loop escape analysis is
	// recorded in the loop statement's Escapes field.
	Terminal         bool
	ForcedNonTerminal bool

	// IsCaseBody marks a case block entered directly (not wrapped), which
	// the lexical context's in_unprotected_switch_context analogue
	// consults so symbol assignment can reject unprotected let/const
	// (spec §4.5).
	IsCaseBody bool

	// Symbols is the block's own declaration table, populated by the
	// symbol assigner (component F): name -> the Symbol hoisted or
	// declared directly in this block. Resolution walks blocks outward
	// consulting this map (spec §4.5).
	Symbols map[string]*Symbol
}

// DefineSymbol records sym under name in b's declaration table, creating
// the table on first use.
func (b *Block) DefineSymbol(name string, sym *Symbol) {
	if b.Symbols == nil {
		b.Symbols = map[string]*Symbol{}
	}
	b.Symbols[name] = sym
}

func NewBlock(stmts ...Statement) *Block {
	return &Block{Statements: stmts}
}

func (b *Block) String() string {
	parts := make([]string, len(b.Statements))
	for i, s := range b.Statements {
		parts[i] = s.String()
	}
	return "{ " + strings.Join(parts, "; ") + " }"
}

// IsTerminal reports whether control cannot fall off the end of stmt,
// consulting Block.Terminal for blocks and a fixed classification for
// leaves (GLOSSARY: "Terminal statement").
func IsTerminal(stmt Statement) bool {
	switch s := stmt.(type) {
	case *Block:
		return s.Terminal && !s.ForcedNonTerminal
	case *ReturnStatement, *ThrowStatement, *JumpToInlinedFinallyStatement:
		return true
	case *BreakStatement, *ContinueStatement:
		return true
	case *IfStatement:
		return s.Else != nil && IsTerminal(s.Then) && IsTerminal(s.Else)
	case *TryStatement:
		if len(s.Catches) == 0 {
			return IsTerminal(s.Body)
		}
		allCatchesTerminal := true
		for _, c := range s.Catches {
			if !IsTerminal(c.Body) {
				allCatchesTerminal = false
				break
			}
		}
		return IsTerminal(s.Body) && allCatchesTerminal
	default:
		return false
	}
}

type ExpressionStatement struct {
	BaseStmt
	Expr Expression
}

func (e *ExpressionStatement) String() string { return e.Expr.String() + ";" }

type EmptyStatement struct{ BaseStmt }

func (*EmptyStatement) String() string { return ";" }

type IfStatement struct {
	BaseStmt
	Test Expression
	Then Statement
	Else Statement // nil if no else branch
}

func (s *IfStatement) String() string {
	out := "if (" + s.Test.String() + ") " + s.Then.String()
	if s.Else != nil {
		out += " else " + s.Else.String()
	}
	return out
}

// CaseClause is one `case <Test>:` arm of a switch, or the default arm
// when Test is nil.
type CaseClause struct {
	BaseNode
	Test Expression // nil for `default:`
	Body *Block
}

func (c *CaseClause) String() string {
	if c.Test == nil {
		return "default: " + c.Body.String()
	}
	return "case " + c.Test.String() + ": " + c.Body.String()
}

// SwitchStatement. UniqueInteger is computed by the constant folder
// (component D) and consulted by the lowerer to decide whether the
// tag-wrapping block and synthetic scope are needed (spec §4.3/§4.4).
type SwitchStatement struct {
	BaseStmt
	Tag           Expression
	Cases         []*CaseClause
	UniqueInteger bool
}

func (s *SwitchStatement) String() string {
	parts := make([]string, len(s.Cases))
	for i, c := range s.Cases {
		parts[i] = c.String()
	}
	return "switch (" + s.Tag.String() + ") { " + strings.Join(parts, " ") + " }"
}

// WhileStatement. After lowering, `while(true)` becomes a testless
// ForStatement (spec §4.4), so a surviving WhileStatement always has a
// non-trivial Test.
type WhileStatement struct {
	BaseStmt
	Test Expression
	Body Statement

	// Escapes is set by the lowerer when Body contains a break targeting
	// this loop or a continue targeting this or an ancestor loop (spec
	// §4.4): such a body cannot be treated as terminal regardless of its
	// last statement.
	Escapes bool
}

func (s *WhileStatement) String() string {
	return "while (" + s.Test.String() + ") " + s.Body.String()
}

// ForStatement covers classic C-style for loops as well as for-in/for-of,
// selected by ForKind. Init/Test/Update are nil when omitted — the
// lowerer produces a nil Test for `for(;;)`/lowered `while(true)` loops.
type ForStatement struct {
	BaseStmt
	ForKind  ForKind
	Init     Node // ExpressionStatement, VarStatement, or nil
	Test     Expression
	Update   Expression
	Iterable Expression // set when ForKind != ForClassic
	Binding  Expression // the loop variable for for-in/for-of
	Body     Statement

	// Escapes mirrors WhileStatement.Escapes (spec §4.4).
	Escapes bool
}

type ForKind int

const (
	ForClassic ForKind = iota
	ForIn
	ForOf
)

func (s *ForStatement) String() string {
	switch s.ForKind {
	case ForIn:
		return "for (" + s.Binding.String() + " in " + s.Iterable.String() + ") " + s.Body.String()
	case ForOf:
		return "for (" + s.Binding.String() + " of " + s.Iterable.String() + ") " + s.Body.String()
	default:
		test := ""
		if s.Test != nil {
			test = s.Test.String()
		}
		return "for (...; " + test + "; ...) " + s.Body.String()
	}
}

type ThrowStatement struct {
	BaseStmt
	Expr Expression
}

func (s *ThrowStatement) String() string { return "throw " + s.Expr.String() + ";" }

type ReturnStatement struct {
	BaseStmt
	Expr Expression // nil for bare `return;`
}

func (s *ReturnStatement) String() string {
	if s.Expr == nil {
		return "return;"
	}
	return "return " + s.Expr.String() + ";"
}

type BreakStatement struct {
	BaseStmt
	Label string // "" for unlabeled
}

func (s *BreakStatement) String() string {
	if s.Label == "" {
		return "break;"
	}
	return "break " + s.Label + ";"
}

type ContinueStatement struct {
	BaseStmt
	Label string
}

func (s *ContinueStatement) String() string {
	if s.Label == "" {
		return "continue;"
	}
	return "continue " + s.Label + ";"
}

type LabelStatement struct {
	BaseStmt
	Name string
	Body Statement
}

func (s *LabelStatement) String() string { return s.Name + ": " + s.Body.String() }

// CatchClause is one `catch (Param) { Body }` arm of a try. Param is nil
// for a parameterless catch.
type CatchClause struct {
	BaseNode
	Param *Identifier
	Body  *Block
}

func (c *CatchClause) String() string {
	if c.Param == nil {
		return "catch " + c.Body.String()
	}
	return "catch (" + c.Param.String() + ") " + c.Body.String()
}

// TryStatement. Per spec §3's post-lowering invariant, a fully-processed
// tree never has Finally set — InlinedFinallyBlocks instead holds the
// renamed clones spliced into each exit edge by the lowerer (spec §4.4).
type TryStatement struct {
	BaseStmt
	Body                 *Block
	Catches              []*CatchClause
	Finally              *Block // always nil after lowering
	InlinedFinallyBlocks []*Block
}

func (s *TryStatement) String() string {
	out := "try " + s.Body.String()
	for _, c := range s.Catches {
		out += " " + c.String()
	}
	if s.Finally != nil {
		out += " finally " + s.Finally.String()
	}
	return out
}

// VarStatement declares one or more names of the same Kind (var/let/const)
// in a single statement. Per spec §3, it "can wrap a function declaration"
// — Init[i] may be a *FunctionNode for `function f(){}`-shaped
// declarations alongside ordinary initializer expressions.
type VarStatement struct {
	BaseStmt
	Kind  SymbolKind // SymVar, SymLet, or SymConst
	Names []*Identifier
	Inits []Expression // parallel to Names; nil entry means no initializer
}

func (s *VarStatement) String() string {
	parts := make([]string, len(s.Names))
	for i, n := range s.Names {
		if s.Inits[i] != nil {
			parts[i] = n.String() + " = " + s.Inits[i].String()
		} else {
			parts[i] = n.String()
		}
	}
	return s.Kind.String() + " " + strings.Join(parts, ", ") + ";"
}

// JumpToInlinedFinallyStatement replaces a break/continue/return that must
// first run an inlined finally clone before transferring control
// (GLOSSARY: "Inlined finally"). TargetLabel names the wrapping label the
// lowerer generated; OriginalJump is the break/continue/return it replaced
// and is spliced in after the finally clone runs (spec §4.4 step 4).
type JumpToInlinedFinallyStatement struct {
	BaseStmt
	TargetLabel  string
	Finally      *Block
	OriginalJump Statement
}

func (s *JumpToInlinedFinallyStatement) String() string {
	return "jump->" + s.TargetLabel + " { " + s.Finally.String() + "; " + s.OriginalJump.String() + " }"
}

// DebuggerStatement becomes a runtime-call expression statement during
// lowering (spec §4.4); the pre-lowering shape is kept distinct so the
// folder/lowerer tests can assert on the rewrite.
type DebuggerStatement struct{ BaseStmt }

func (*DebuggerStatement) String() string { return "debugger;" }

// SplitStatement wraps a contiguous run of statements the splitter
// partitioned into their own compile unit (GLOSSARY: "Split node").
type SplitStatement struct {
	BaseStmt
	Body        *Block
	CompileUnit *CompileUnitRef
}

func (s *SplitStatement) String() string { return "split" + s.Body.String() }
