package lower

import "github.com/cwbudde/go-dws/internal/ir"

// lowerTry implements spec §4.4's try/finally inlining algorithm, the
// single most intricate rewrite in the pipeline (spec §9 REDESIGN FLAGS).
//
// Step 1: a try with no Finally and no Catches degenerates to its body.
// Step 2: otherwise Finally is stripped off the statement and the rest is
// wrapped in an outer try whose single synthetic catch-all rethrows, so
// every non-finally exit still funnels through one place; if there are
// catches, Body+Catches become a nested inner try inside that outer try's
// body. Step 3 truncates Finally at its first terminal
// statement to get the prototype clone F'. Step 4 walks every exit edge
// of the (possibly rewrapped) try and splices a uniquely-renamed clone of
// F' ahead of it, wrapped in a JumpToInlinedFinallyStatement. Step 5 is
// handled by finallyCloner. Step 6: splicing never descends into nested
// FunctionNodes.
func (l *Lowerer) lowerTry(try *ir.TryStatement) ir.Statement {
	if try.Finally == nil {
		if len(try.Catches) == 0 {
			return try.Body
		}
		return try
	}

	finallyProto := truncateAtTerminal(try.Finally)

	// The outer try always gets a single synthetic catch-all that rethrows,
	// so every path out of body+catches funnels through one identifiable
	// statement this function can splice a finally clone ahead of. When the
	// original statement had its own catches, those run inside a nested
	// inner try whose own exits (return/break/continue, including ones
	// reached from inside a catch body) are spliced separately; anything
	// that escapes the inner try uncaught — an uncaught exception from body,
	// or a rethrow from one of its catches — is caught by the outer
	// catch-all and re-thrown through rethrow, which is the only throw this
	// function recognizes as an exit edge at the outer level.
	var outerBody *ir.Block
	if len(try.Catches) > 0 {
		inner := &ir.TryStatement{BaseStmt: try.BaseStmt, Body: try.Body, Catches: try.Catches}
		l.spliceExitEdges(inner.Body, finallyProto, nil)
		for _, c := range inner.Catches {
			l.spliceExitEdges(c.Body, finallyProto, nil)
		}
		outerBody = ir.NewBlock(inner)
	} else {
		outerBody = try.Body
	}

	rethrowName := ":rethrow_" + itoa(l.labelSeq+1)
	param := ir.NewIdentifier(rethrowName)
	rethrow := &ir.ThrowStatement{Expr: ir.NewIdentifier(rethrowName)}
	outer := &ir.TryStatement{
		BaseStmt: try.BaseStmt,
		Body:     outerBody,
		Catches: []*ir.CatchClause{{
			Param: param,
			Body:  ir.NewBlock(rethrow),
		}},
	}

	l.spliceExitEdges(outer.Body, finallyProto, rethrow)
	for _, c := range outer.Catches {
		l.spliceExitEdges(c.Body, finallyProto, rethrow)
	}

	tail := l.cloneFinally(finallyProto)
	return ir.NewBlock(outer, tail)
}

// truncateAtTerminal returns a shallow copy of f whose Statements slice
// stops right after the first terminal statement (spec §4.4 step 3) — any
// statement that is itself unreachable dead code once control has already
// left the finally block via that terminal statement.
func truncateAtTerminal(f *ir.Block) *ir.Block {
	for i, s := range f.Statements {
		if ir.IsTerminal(s) {
			return &ir.Block{BaseStmt: f.BaseStmt, Statements: f.Statements[:i+1], Terminal: true}
		}
	}
	return &ir.Block{BaseStmt: f.BaseStmt, Statements: f.Statements}
}

// spliceExitEdges walks body (never descending into a nested FunctionNode,
// step 6) and replaces every break/continue/return that exits body's
// enclosing try with a JumpToInlinedFinallyStatement wrapping a fresh
// clone of proto ahead of the original jump. rethrowTarget, when non-nil,
// identifies the synthetic rethrow statement by pointer identity so it is
// recognized as an exit edge needing the finally splice like any other
// throw reaching past the try (the exception itself still propagates;
// only the finally needs to run first).
func (l *Lowerer) spliceExitEdges(body *ir.Block, proto *ir.Block, rethrowTarget *ir.ThrowStatement) {
	for i, s := range body.Statements {
		body.Statements[i] = l.spliceStmt(s, proto, rethrowTarget, 0)
	}
}

// spliceStmt recurses into s looking for exit edges, incrementing depth
// across nested loop/switch boundaries so an unlabeled break/continue
// found at depth > 0 is understood to target that nested construct, not
// the try being lowered.
func (l *Lowerer) spliceStmt(s ir.Statement, proto *ir.Block, rethrowTarget *ir.ThrowStatement, depth int) ir.Statement {
	switch n := s.(type) {
	case nil:
		return nil

	case *ir.Block:
		for i, st := range n.Statements {
			n.Statements[i] = l.spliceStmt(st, proto, rethrowTarget, depth)
		}
		return n

	case *ir.IfStatement:
		n.Then = l.spliceStmt(n.Then, proto, rethrowTarget, depth)
		n.Else = l.spliceStmt(n.Else, proto, rethrowTarget, depth)
		return n

	case *ir.LabelStatement:
		n.Body = l.spliceStmt(n.Body, proto, rethrowTarget, depth)
		return n

	case *ir.WhileStatement:
		n.Body = l.spliceStmt(n.Body, proto, rethrowTarget, depth+1)
		return n

	case *ir.ForStatement:
		n.Body = l.spliceStmt(n.Body, proto, rethrowTarget, depth+1)
		return n

	case *ir.SwitchStatement:
		for _, c := range n.Cases {
			for i, st := range c.Body.Statements {
				c.Body.Statements[i] = l.spliceStmt(st, proto, rethrowTarget, depth+1)
			}
		}
		return n

	case *ir.TryStatement:
		// A nested try's own lowering (already run, post-order) owns its
		// exit edges; this splice pass only escorts jumps that pass
		// through it without being consumed there, which the nested
		// lowering already arranged via its own inlined finally wrapping.
		return n

	case *ir.BreakStatement:
		if n.Label != "" || depth == 0 {
			return l.wrapJump(n, proto)
		}
		return n

	case *ir.ContinueStatement:
		if n.Label != "" || depth == 0 {
			return l.wrapJump(n, proto)
		}
		return n

	case *ir.ReturnStatement:
		return l.wrapReturn(n, proto)

	case *ir.ThrowStatement:
		if rethrowTarget != nil && n == rethrowTarget {
			return l.wrapJump(n, proto)
		}
		return n

	default:
		return s
	}
}

// wrapJump handles break/continue/the synthetic rethrow: these never
// carry a value the finally clone's own control flow could interfere
// with, so the clone always runs unconditionally in front of the jump
// (spec §4.4 step 4's break/continue sub-cases).
func (l *Lowerer) wrapJump(jump ir.Statement, proto *ir.Block) ir.Statement {
	return &ir.JumpToInlinedFinallyStatement{
		TargetLabel:  l.freshLabel(),
		Finally:      l.cloneFinally(proto),
		OriginalJump: jump,
	}
}

// wrapReturn implements the four-way split spec §4.4 draws for a return
// reaching past the try: a bare `return;` or `return null` needs no
// capture; a primitive literal or a bare `:return`-identifier read can be
// re-evaluated safely after the finally clone runs (the finally cannot
// observe or invalidate a literal, and `:return` is itself the
// program-level result slot the finally can freely re-read); anything
// else must be captured into a fresh temporary before the finally clone
// runs, since the finally's own statements might otherwise observe or
// mutate state the return expression depends on.
func (l *Lowerer) wrapReturn(ret *ir.ReturnStatement, proto *ir.Block) ir.Statement {
	if ret.Expr == nil || isNullLiteral(ret.Expr) {
		return l.wrapJump(ret, proto)
	}
	if isPrimitiveLiteral(ret.Expr) || isIdentifierNamed(ret.Expr, ":return") {
		return l.wrapJump(ret, proto)
	}

	tempName := ":tryresult_" + itoa(l.labelSeq+1)
	temp := ir.NewIdentifier(tempName)
	capture := &ir.VarStatement{
		Kind:  ir.SymVar,
		Names: []*ir.Identifier{ir.NewIdentifier(tempName)},
		Inits: []ir.Expression{ret.Expr},
	}
	finalReturn := &ir.ReturnStatement{Expr: temp}
	jump := l.wrapJump(finalReturn, proto)
	return ir.NewBlock(capture, jump)
}

func isNullLiteral(e ir.Expression) bool {
	_, ok := e.(*ir.NullLiteral)
	return ok
}

// isPrimitiveLiteral mirrors the fold package's helper of the same name;
// kept local since the two passes have no reason to share an import.
func isPrimitiveLiteral(e ir.Expression) bool {
	switch e.(type) {
	case *ir.NumberLiteral, *ir.BooleanLiteral, *ir.NullLiteral, *ir.StringLiteral:
		return true
	default:
		return false
	}
}

func isIdentifierNamed(e ir.Expression, name string) bool {
	id, ok := ir.Unwrap(e).(*ir.Identifier)
	return ok && id.Name == name
}

// cloneFinally deep-copies proto and applies finallyCloner so two clones
// spliced at different exit edges never share a label or inner function
// name (spec §4.4 step 5).
func (l *Lowerer) cloneFinally(proto *ir.Block) *ir.Block {
	clone := cloneBlock(proto)
	fc := &finallyCloner{suffix: l.freshRenameSuffix()}
	for i, s := range clone.Statements {
		clone.Statements[i] = fc.renameStmt(s)
	}
	return clone
}

// finallyCloner walks a cloned finally block renaming every label and
// named function it declares, so sibling clones of the same finally never
// collide (spec §4.4 step 5). It does not use the visit.Visitor plumbing
// since it operates on a block already detached from the tree being
// walked — a second concurrent WalkBlock pass over it would be redundant.
type finallyCloner struct{ suffix string }

func (fc *finallyCloner) renameStmt(s ir.Statement) ir.Statement {
	switch n := s.(type) {
	case nil:
		return nil
	case *ir.Block:
		for i, st := range n.Statements {
			n.Statements[i] = fc.renameStmt(st)
		}
		return n
	case *ir.LabelStatement:
		n.Name += fc.suffix
		n.Body = fc.renameStmt(n.Body)
		return n
	case *ir.IfStatement:
		n.Then = fc.renameStmt(n.Then)
		n.Else = fc.renameStmt(n.Else)
		return n
	case *ir.WhileStatement:
		n.Body = fc.renameStmt(n.Body)
		return n
	case *ir.ForStatement:
		n.Body = fc.renameStmt(n.Body)
		return n
	case *ir.SwitchStatement:
		for _, c := range n.Cases {
			for i, st := range c.Body.Statements {
				c.Body.Statements[i] = fc.renameStmt(st)
			}
		}
		return n
	case *ir.TryStatement:
		n.Body = fc.renameStmt(n.Body).(*ir.Block)
		for _, c := range n.Catches {
			c.Body = fc.renameStmt(c.Body).(*ir.Block)
		}
		return n
	case *ir.VarStatement:
		for i, init := range n.Inits {
			if fn, ok := init.(*ir.FunctionNode); ok && fn.Name != "" {
				renamed := *fn
				renamed.Name += fc.suffix
				init = &renamed
			}
			n.Inits[i] = init
		}
		return n
	default:
		return s
	}
}

// cloneBlock produces a structural copy of b deep enough that renaming or
// further lowering one clone never mutates another's shared subtrees
// (spec §4.4 step 5's "two in-scope clones never collide").
func cloneBlock(b *ir.Block) *ir.Block {
	if b == nil {
		return nil
	}
	clone := &ir.Block{
		BaseStmt:   b.BaseStmt,
		NeedsScope: b.NeedsScope,
		IsCaseBody: b.IsCaseBody,
		Statements: make([]ir.Statement, len(b.Statements)),
	}
	for i, s := range b.Statements {
		clone.Statements[i] = cloneStmt(s)
	}
	return clone
}

func cloneStmt(s ir.Statement) ir.Statement {
	switch n := s.(type) {
	case nil:
		return nil
	case *ir.Block:
		return cloneBlock(n)
	case *ir.ExpressionStatement:
		c := *n
		return &c
	case *ir.EmptyStatement:
		c := *n
		return &c
	case *ir.IfStatement:
		c := *n
		c.Then = cloneStmt(n.Then)
		c.Else = cloneStmt(n.Else)
		return &c
	case *ir.SwitchStatement:
		c := *n
		c.Cases = make([]*ir.CaseClause, len(n.Cases))
		for i, cc := range n.Cases {
			cco := *cc
			cco.Body = cloneBlock(cc.Body)
			c.Cases[i] = &cco
		}
		return &c
	case *ir.WhileStatement:
		c := *n
		c.Body = cloneStmt(n.Body)
		return &c
	case *ir.ForStatement:
		c := *n
		c.Body = cloneStmt(n.Body)
		return &c
	case *ir.ThrowStatement:
		c := *n
		return &c
	case *ir.ReturnStatement:
		c := *n
		return &c
	case *ir.BreakStatement:
		c := *n
		return &c
	case *ir.ContinueStatement:
		c := *n
		return &c
	case *ir.LabelStatement:
		c := *n
		c.Body = cloneStmt(n.Body)
		return &c
	case *ir.TryStatement:
		c := *n
		c.Body = cloneBlock(n.Body)
		c.Catches = make([]*ir.CatchClause, len(n.Catches))
		for i, cc := range n.Catches {
			cco := *cc
			cco.Body = cloneBlock(cc.Body)
			c.Catches[i] = &cco
		}
		if n.Finally != nil {
			c.Finally = cloneBlock(n.Finally)
		}
		return &c
	case *ir.VarStatement:
		c := *n
		c.Names = append([]*ir.Identifier(nil), n.Names...)
		c.Inits = append([]ir.Expression(nil), n.Inits...)
		return &c
	case *ir.DebuggerStatement:
		c := *n
		return &c
	default:
		return s
	}
}
