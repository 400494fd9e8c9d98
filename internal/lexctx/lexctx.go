// Package lexctx implements the lexical context (spec §4.1, component B):
// the stack of currently-entered scope-bearing nodes threaded through every
// visitor callback. It is a collaborator passed by reference, never a
// global — spec §9's "Lexical context as a stack" design note.
package lexctx

import (
	"fmt"

	"github.com/cwbudde/go-dws/internal/diag"
	"github.com/cwbudde/go-dws/internal/ir"
)

// frame is one entry of the context stack: the scope node itself, plus the
// function it belongs to (cached so current_function() is O(1)).
type frame struct {
	node ir.ScopeNode
	fn   *ir.FunctionNode
}

// Context is the lexical context. The zero value is a usable empty stack.
type Context struct {
	stack []frame

	// dynamicScopeCount tracks `with`-body nesting (spec §4.6); functions
	// defined while it is positive are flagged InDynamicContext.
	dynamicScopeCount int
}

// New returns an empty lexical context.
func New() *Context { return &Context{} }

// Push enters node, recording its owning function. Push must be paired
// with a matching Pop on every exit path from the visitor callback that
// pushed it (spec §4.2).
func (c *Context) Push(node ir.ScopeNode) {
	fn := c.currentFunctionUnsafe()
	if f, ok := node.(*ir.FunctionNode); ok {
		fn = f
	}
	c.stack = append(c.stack, frame{node: node, fn: fn})
}

// Pop removes the top frame, asserting it is node — an imbalance here is
// exactly the "lexical-context imbalance" fatal invariant spec §7/§9 call
// out as a fatal, non-recoverable assertion failure.
func (c *Context) Pop(node ir.ScopeNode) {
	diag.Assert(len(c.stack) > 0, "lexctx-imbalance", "pop(%v) called on empty lexical context", node)
	top := c.stack[len(c.stack)-1]
	diag.Assert(top.node == node, "lexctx-imbalance", "pop(%v) does not match top of stack (%v)", node, top.node)
	c.stack = c.stack[:len(c.stack)-1]
}

// Replace substitutes the top of the stack with newNode when a pass
// rewrites the currently-visited node in place (spec §4.1).
func (c *Context) Replace(newNode ir.ScopeNode) {
	diag.Assert(len(c.stack) > 0, "lexctx-imbalance", "replace(%v) called on empty lexical context", newNode)
	top := &c.stack[len(c.stack)-1]
	top.node = newNode
	if f, ok := newNode.(*ir.FunctionNode); ok {
		top.fn = f
	}
}

func (c *Context) currentFunctionUnsafe() *ir.FunctionNode {
	if len(c.stack) == 0 {
		return nil
	}
	return c.stack[len(c.stack)-1].fn
}

// CurrentFunction returns the innermost entered FunctionNode, or nil if
// none has been entered yet.
func (c *Context) CurrentFunction() *ir.FunctionNode { return c.currentFunctionUnsafe() }

// CurrentBlock returns the innermost entered Block, or nil.
func (c *Context) CurrentBlock() *ir.Block {
	for i := len(c.stack) - 1; i >= 0; i-- {
		if b, ok := c.stack[i].node.(*ir.Block); ok {
			return b
		}
	}
	return nil
}

// OutermostFunction returns the top-level script FunctionNode, or nil if
// no function has been entered.
func (c *Context) OutermostFunction() *ir.FunctionNode {
	for i := 0; i < len(c.stack); i++ {
		if f, ok := c.stack[i].node.(*ir.FunctionNode); ok {
			return f
		}
	}
	return nil
}

// BlocksFrom yields block followed by its enclosing blocks up to and
// including the nearest function body (spec §4.1).
func (c *Context) BlocksFrom(block *ir.Block) []*ir.Block {
	return c.walkBlocks(block, true)
}

// AncestorBlocks yields the blocks strictly above block.
func (c *Context) AncestorBlocks(block *ir.Block) []*ir.Block {
	return c.walkBlocks(block, false)
}

func (c *Context) walkBlocks(block *ir.Block, includeSelf bool) []*ir.Block {
	idx := -1
	for i := len(c.stack) - 1; i >= 0; i-- {
		if b, ok := c.stack[i].node.(*ir.Block); ok && b == block {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}

	var out []*ir.Block
	if includeSelf {
		out = append(out, block)
	}
	reachedFunctionBody := c.stack[idx].fn != nil && c.stack[idx].fn.Body == block
	for i := idx - 1; i >= 0 && !reachedFunctionBody; i-- {
		b, ok := c.stack[i].node.(*ir.Block)
		if !ok {
			continue
		}
		out = append(out, b)
		if c.stack[i].fn != nil && c.stack[i].fn.Body == b {
			reachedFunctionBody = true
		}
	}
	return out
}

// OuterBlocks returns every block above and including from, all the way to
// the outermost script body — unlike BlocksFrom/AncestorBlocks it does not
// stop at the nearest function boundary. Symbol resolution (spec §4.5)
// walks outward across function boundaries to find a captured variable's
// definition, so it needs the unbounded version; FunctionOwnerOf lets the
// caller tell, block by block, when the walk has crossed into an outer
// function (the point at which a found symbol must be promoted to scope).
func (c *Context) OuterBlocks(from *ir.Block) []*ir.Block {
	idx := -1
	for i := len(c.stack) - 1; i >= 0; i-- {
		if b, ok := c.stack[i].node.(*ir.Block); ok && b == from {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}
	out := []*ir.Block{from}
	for i := idx - 1; i >= 0; i-- {
		if b, ok := c.stack[i].node.(*ir.Block); ok {
			out = append(out, b)
		}
	}
	return out
}

// EnclosingFunction returns the function that directly contains fn's own
// definition — the function active on the stack at the frame just below
// fn's first pushed frame — or nil if fn is the outermost script or is not
// currently on the stack.
func (c *Context) EnclosingFunction(fn *ir.FunctionNode) *ir.FunctionNode {
	for i := 0; i < len(c.stack); i++ {
		if c.stack[i].fn == fn {
			if i == 0 {
				return nil
			}
			return c.stack[i-1].fn
		}
	}
	return nil
}

// FunctionOwnerOf returns the function whose body is block, or the
// function that directly contains block if block is not itself a function
// body — i.e. the function active at the point block was pushed.
func (c *Context) FunctionOwnerOf(block *ir.Block) *ir.FunctionNode {
	for i := len(c.stack) - 1; i >= 0; i-- {
		if b, ok := c.stack[i].node.(*ir.Block); ok && b == block {
			return c.stack[i].fn
		}
	}
	return nil
}

// DefiningFunction returns the innermost function whose body transitively
// contains sym's defining block.
func (c *Context) DefiningFunction(sym *ir.Symbol) *ir.FunctionNode {
	if sym == nil || sym.DefiningBlock == nil {
		return nil
	}
	for i := len(c.stack) - 1; i >= 0; i-- {
		if b, ok := c.stack[i].node.(*ir.Block); ok && b == sym.DefiningBlock {
			return c.stack[i].fn
		}
	}
	return nil
}

// IsFunctionBody reports whether the current block is the body of the
// current function.
func (c *Context) IsFunctionBody() bool {
	fn := c.CurrentFunction()
	block := c.CurrentBlock()
	return fn != nil && block != nil && fn.Body == block
}

// InUnprotectedSwitchContext reports whether the current block is directly
// a case block of a switch without an explicit enclosing block — the
// position spec §4.5 says must reject `let`/`const`.
func (c *Context) InUnprotectedSwitchContext() bool {
	block := c.CurrentBlock()
	return block != nil && block.IsCaseBody
}

// SetFlag mutates one of a function's lifecycle booleans via a setter
// callback, observable by subsequent passes (spec §4.1: "observable
// flag-setters that affect subsequent passes").
func (c *Context) SetFlag(fn *ir.FunctionNode, set func(*ir.FunctionNode)) {
	diag.Assert(fn != nil, "lexctx-nil-function", "SetFlag called with nil function")
	set(fn)
}

// SetBlockNeedsScope marks block (and implicitly every function between it
// and the symbol's use site, via the symbol assigner's own bookkeeping) as
// requiring a runtime scope object.
func (c *Context) SetBlockNeedsScope(block *ir.Block) {
	diag.Assert(block != nil, "lexctx-nil-block", "SetBlockNeedsScope called with nil block")
	block.NeedsScope = true
}

// EnterWith increments the dynamic-scope boundary counter (spec §4.6).
func (c *Context) EnterWith() { c.dynamicScopeCount++ }

// LeaveWith decrements it, asserting it never goes negative.
func (c *Context) LeaveWith() {
	diag.Assert(c.dynamicScopeCount > 0, "lexctx-with-imbalance", "LeaveWith called without a matching EnterWith")
	c.dynamicScopeCount--
}

// InDynamicScope reports whether a function defined right now should be
// flagged InDynamicContext.
func (c *Context) InDynamicScope() bool { return c.dynamicScopeCount > 0 }

// Depth returns the number of frames currently pushed — used by tests to
// assert push/pop balance at pass boundaries.
func (c *Context) Depth() int { return len(c.stack) }

func (c *Context) String() string {
	return fmt.Sprintf("lexctx(depth=%d, dynamicScopeCount=%d)", len(c.stack), c.dynamicScopeCount)
}
