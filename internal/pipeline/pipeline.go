// Package pipeline orchestrates the seven compile passes in the fixed order
// spec §2 lays out: fold, lower, symassign, scopedepth, proppoint,
// optimistic, splitter. Run is the single entry point cmd/jscpipeline and
// any future embedder call once a parser has produced a FunctionNode.
package pipeline

import (
	"github.com/cwbudde/go-dws/internal/compilerenv"
	"github.com/cwbudde/go-dws/internal/config"
	"github.com/cwbudde/go-dws/internal/diag"
	"github.com/cwbudde/go-dws/internal/ir"
	"github.com/cwbudde/go-dws/internal/lexctx"
	"github.com/cwbudde/go-dws/internal/passes/fold"
	"github.com/cwbudde/go-dws/internal/passes/lower"
	"github.com/cwbudde/go-dws/internal/passes/optimistic"
	"github.com/cwbudde/go-dws/internal/passes/proppoint"
	"github.com/cwbudde/go-dws/internal/passes/scopedepth"
	"github.com/cwbudde/go-dws/internal/passes/splitter"
	"github.com/cwbudde/go-dws/internal/passes/symassign"
)

// Run drives program through every pass in order, against the collaborator
// state in env and the knobs in opts. A *diag.InternalError panicked by
// any pass's diag.Assert is recovered and returned as a plain error (spec
// §7, "Assertion failures are fatal (internal invariant violated)" — fatal
// to the compilation, not to the host process).
func Run(program *ir.FunctionNode, env *compilerenv.Env, opts config.Options, logger *diag.Logger) (result *ir.FunctionNode, err error) {
	defer func() {
		if r := recover(); r != nil {
			if ie, ok := r.(*diag.InternalError); ok {
				err = ie
				return
			}
			panic(r)
		}
	}()

	ctx := lexctx.New()

	program = fold.Run(ctx, program)
	program = lower.Run(ctx, program)

	program, symErr := symassign.Run(ctx, env.Source(), program)
	if symErr != nil {
		return nil, symErr
	}

	program = scopedepth.Run(ctx, program, opts.OnDemandCompilation, env)
	if !opts.OnDemandCompilation {
		rememberAll(program, env)
	}

	proppoint.MarkVarTargets(program)
	program = proppoint.Run(ctx, program)

	program = optimistic.Run(ctx, program, opts.OnDemandCompilation, env)

	program = splitter.Run(ctx, program, opts.SplitThreshold, env)

	if logger != nil {
		logger.Debug("pipeline", "compiled", "units", len(env.Units()), "split", program.IsSplit)
	}

	return program, nil
}

// rememberAll seeds env's recompilation cache with the freshly computed
// scope-depth data of fn and of its nested functions, the way an eager
// whole-program compile would prime an on-demand recompiler for later
// (spec §4.6, "On-demand compilation skips this pass and reuses the
// previously computed maps"). Only the statement and expression kinds
// handled in walkStmtForFunctions and walkExprForFunctions are searched;
// a function nested elsewhere (an array or object literal, a ternary, a
// throw, a for-loop header, an inlined finally clone) is not remembered.
func rememberAll(fn *ir.FunctionNode, env *compilerenv.Env) {
	env.Remember(fn)
	walkNestedFunctions(fn.Body, func(nested *ir.FunctionNode) {
		rememberAll(nested, env)
	})
}

func walkNestedFunctions(b *ir.Block, visit func(*ir.FunctionNode)) {
	if b == nil {
		return
	}
	for _, stmt := range b.Statements {
		walkStmtForFunctions(stmt, visit)
	}
}

func walkStmtForFunctions(stmt ir.Statement, visit func(*ir.FunctionNode)) {
	switch n := stmt.(type) {
	case nil:
	case *ir.Block:
		walkNestedFunctions(n, visit)
	case *ir.ExpressionStatement:
		walkExprForFunctions(n.Expr, visit)
	case *ir.IfStatement:
		walkExprForFunctions(n.Test, visit)
		walkStmtForFunctions(n.Then, visit)
		walkStmtForFunctions(n.Else, visit)
	case *ir.WhileStatement:
		walkExprForFunctions(n.Test, visit)
		walkStmtForFunctions(n.Body, visit)
	case *ir.ForStatement:
		walkStmtForFunctions(n.Body, visit)
	case *ir.SwitchStatement:
		for _, c := range n.Cases {
			walkNestedFunctions(c.Body, visit)
		}
	case *ir.TryStatement:
		walkNestedFunctions(n.Body, visit)
		for _, c := range n.Catches {
			walkNestedFunctions(c.Body, visit)
		}
		walkNestedFunctions(n.Finally, visit)
	case *ir.LabelStatement:
		walkStmtForFunctions(n.Body, visit)
	case *ir.VarStatement:
		for _, init := range n.Inits {
			walkExprForFunctions(init, visit)
		}
	case *ir.ReturnStatement:
		walkExprForFunctions(n.Expr, visit)
	}
}

func walkExprForFunctions(expr ir.Expression, visit func(*ir.FunctionNode)) {
	switch n := expr.(type) {
	case nil:
	case *ir.FunctionNode:
		visit(n)
	case *ir.BinaryNode:
		walkExprForFunctions(n.Left, visit)
		walkExprForFunctions(n.Right, visit)
	case *ir.UnaryNode:
		walkExprForFunctions(n.Operand, visit)
	case *ir.CallNode:
		walkExprForFunctions(n.Callee, visit)
		for _, a := range n.Args {
			walkExprForFunctions(a, visit)
		}
	case *ir.AccessNode:
		walkExprForFunctions(n.Base, visit)
	case *ir.IndexNode:
		walkExprForFunctions(n.Base, visit)
		walkExprForFunctions(n.Index, visit)
	}
}

