package lower

import "github.com/cwbudde/go-dws/internal/ir"

// loopBodyEscapes reports whether body contains a break targeting the
// loop being lowered, or a continue targeting it or an ancestor (spec
// §4.4). ownLabel is the label directly wrapping this loop, if any.
//
// Nested loops and switches consume their own unlabeled break/continue;
// a labeled jump is treated as escaping unless its label matches one of
// the LabelStatements this walk has descended through, which
// conservatively over-approximates the rare case of a label naming a
// loop nested inside this one — the lowerer already won't mis-fold a
// genuinely non-terminal body, it can only be overly cautious about one.
func loopBodyEscapes(body ir.Statement, ownLabel string) bool {
	enclosing := map[string]bool{}
	if ownLabel != "" {
		enclosing[ownLabel] = true
	}
	return walkEscapes(body, false, enclosing)
}

func walkEscapes(s ir.Statement, nestedLoopOrSwitch bool, enclosing map[string]bool) bool {
	switch n := s.(type) {
	case nil:
		return false

	case *ir.Block:
		for _, st := range n.Statements {
			if walkEscapes(st, nestedLoopOrSwitch, enclosing) {
				return true
			}
		}
		return false

	case *ir.IfStatement:
		return walkEscapes(n.Then, nestedLoopOrSwitch, enclosing) || walkEscapes(n.Else, nestedLoopOrSwitch, enclosing)

	case *ir.LabelStatement:
		inner := make(map[string]bool, len(enclosing)+1)
		for k := range enclosing {
			inner[k] = true
		}
		inner[n.Name] = true
		return walkEscapes(n.Body, nestedLoopOrSwitch, inner)

	case *ir.TryStatement:
		if walkEscapes(n.Body, nestedLoopOrSwitch, enclosing) {
			return true
		}
		for _, c := range n.Catches {
			if walkEscapes(c.Body, nestedLoopOrSwitch, enclosing) {
				return true
			}
		}
		return n.Finally != nil && walkEscapes(n.Finally, nestedLoopOrSwitch, enclosing)

	case *ir.SwitchStatement:
		for _, c := range n.Cases {
			if walkEscapes(c.Body, true, enclosing) {
				return true
			}
		}
		return false

	case *ir.WhileStatement:
		return walkEscapes(n.Body, true, enclosing)

	case *ir.ForStatement:
		return walkEscapes(n.Body, true, enclosing)

	case *ir.BreakStatement:
		if n.Label == "" {
			return !nestedLoopOrSwitch
		}
		return !enclosing[n.Label]

	case *ir.ContinueStatement:
		if n.Label == "" {
			return !nestedLoopOrSwitch
		}
		return !enclosing[n.Label]

	case *ir.JumpToInlinedFinallyStatement:
		return walkEscapes(n.Finally, nestedLoopOrSwitch, enclosing) || walkEscapes(n.OriginalJump, nestedLoopOrSwitch, enclosing)

	default:
		return false
	}
}
