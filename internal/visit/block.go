package visit

import "github.com/cwbudde/go-dws/internal/ir"

// BlockBuilder is the block-aware visitor shape spec §4.2 describes:
// a pass appends statements one at a time via Append, and once the first
// terminal statement has been appended, every further statement is
// dropped except a `var` declaration, which is kept with its initializers
// stripped (JS var-hoisting still needs the binding to exist even when the
// code that would run it is dead).
type BlockBuilder struct {
	block      *ir.Block
	statements []ir.Statement
	terminal   bool
}

// NewBlockBuilder starts building a rewrite of block, discarding its
// existing statement list (the caller repopulates it via Append).
func NewBlockBuilder(block *ir.Block) *BlockBuilder {
	return &BlockBuilder{block: block, statements: make([]ir.Statement, 0, len(block.Statements))}
}

// Append adds stmt to the block being built, applying the post-terminal
// drop rule. A nil stmt (e.g. a visitor that deleted a node outright) is
// ignored.
func (b *BlockBuilder) Append(stmt ir.Statement) {
	if stmt == nil {
		return
	}
	if b.terminal {
		if vs, ok := stmt.(*ir.VarStatement); ok && vs.Kind == ir.SymVar {
			for i := range vs.Inits {
				vs.Inits[i] = nil
			}
			b.statements = append(b.statements, vs)
		}
		return
	}
	b.statements = append(b.statements, stmt)
	if ir.IsTerminal(stmt) {
		b.terminal = true
	}
}

// Finish writes the accumulated statement list back into the block being
// built and sets its computed Terminal flag, then returns it.
func (b *BlockBuilder) Finish() *ir.Block {
	b.block.Statements = b.statements
	b.block.Terminal = b.terminal
	return b.block
}

// Terminal reports whether a terminal statement has been appended so far.
func (b *BlockBuilder) Terminal() bool { return b.terminal }
