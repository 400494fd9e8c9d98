package ir

// SymbolKind distinguishes the binding forms spec §3 lists for Symbol
// flags: "kind ∈ {var, let, const, param, global, this}".
type SymbolKind int

const (
	SymVar SymbolKind = iota
	SymLet
	SymConst
	SymParam
	SymGlobal
	SymThis
)

func (k SymbolKind) String() string {
	switch k {
	case SymVar:
		return "var"
	case SymLet:
		return "let"
	case SymConst:
		return "const"
	case SymParam:
		return "param"
	case SymGlobal:
		return "global"
	case SymThis:
		return "this"
	default:
		return "unknown"
	}
}

// Symbol is a named binding created by the symbol-assignment pass
// (component F) and shared by every identifier reference that resolves to
// it. Symbols are never copied — their identity is their pointer, exactly
// as spec §9 describes for interned globals.
type Symbol struct {
	Name string
	Kind SymbolKind

	// IsInternal marks compiler-generated symbols whose name begins with
	// ':' (:callee, :scope, :return, :arguments, :varargs) — not visible
	// to source code per the GLOSSARY's "Internal symbol" entry.
	IsInternal bool

	// IsScope marks a symbol that must live in a runtime scope object
	// rather than a local slot — the GLOSSARY's "Scope symbol".
	IsScope bool

	// IsFunctionSelf marks the synthetic self-binding a named function
	// expression gets so it can refer to itself by name.
	IsFunctionSelf bool

	// IsProgramLevel marks a symbol declared directly in the outermost
	// script body (as opposed to inside a nested function).
	IsProgramLevel bool

	// HasObjectValue records that every value ever assigned to this
	// symbol statically appears to be a reference type — consulted by the
	// optimistic typer when deciding whether narrowing is safe.
	HasObjectValue bool

	// IsDead marks dead-code variable declarations preserved by the
	// block-aware visitor (spec §4.2) for hoisting semantics only; no
	// reads/writes against a dead symbol should ever execute.
	IsDead bool

	// HasBeenDeclared distinguishes the hoisted declaration from
	// subsequent redeclaration attempts, enabling spec §3's
	// duplicate/redeclare diagnostics.
	HasBeenDeclared bool

	// SlotFirst/SlotCount describe the local-variable slot(s) assigned to
	// this symbol by the (external) emitter. The symbol assigner only
	// records *slot need*; the emitter performs the actual allocation —
	// see spec §3, "Lifecycle".
	SlotFirst int
	SlotCount int

	// FieldIndex is set for parameters of variable-arity functions, which
	// are stored in an arguments array rather than a dedicated slot.
	FieldIndex int

	// UseCount is incremented every time an identifier resolves to this
	// symbol; it lets later passes and the emitter distinguish unused
	// bindings without a second full tree walk.
	UseCount int

	// DefiningBlock is the Block this symbol was declared in — var/let
	// hoisting rules mean this is not always the block syntactically
	// containing the declaration (spec §4.5).
	DefiningBlock *Block
}

// MarkUsed records one more reference to sym.
func (s *Symbol) MarkUsed() {
	if s == nil {
		return
	}
	s.UseCount++
}
