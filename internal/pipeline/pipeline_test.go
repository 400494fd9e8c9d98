package pipeline_test

import (
	"testing"

	"github.com/cwbudde/go-dws/internal/compilerenv"
	"github.com/cwbudde/go-dws/internal/config"
	"github.com/cwbudde/go-dws/internal/ir"
	"github.com/cwbudde/go-dws/internal/pipeline"
	"github.com/cwbudde/go-dws/internal/source"
)

func TestRunProducesAProgramPointedAndTypedTree(t *testing.T) {
	program := ir.NewFunctionNode("")
	program.IsProgram = true
	program.Body = ir.NewBlock(
		&ir.VarStatement{Kind: ir.SymVar, Names: []*ir.Identifier{ir.NewIdentifier("x")}, Inits: []ir.Expression{ir.NewIntLiteral(1)}},
		&ir.ReturnStatement{Expr: ir.NewIdentifier("x")},
	)

	src := source.New("<script>", "var x = 1; return x;")
	env := compilerenv.New(src, false, false, 1024, compilerenv.NewFeedbackStore())
	opts := config.Default()

	result, err := pipeline.Run(program, env, opts, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result == nil {
		t.Fatalf("expected a non-nil result tree")
	}
}

func TestRunOnDemandSkipsEagerCaching(t *testing.T) {
	program := ir.NewFunctionNode("")
	program.IsProgram = true
	program.Body = ir.NewBlock(&ir.ReturnStatement{Expr: ir.NewIntLiteral(0)})

	src := source.New("<script>", "return 0;")
	env := compilerenv.New(src, true, false, 1024, compilerenv.NewFeedbackStore())
	opts := config.Default()
	opts.OnDemandCompilation = true

	if _, err := pipeline.Run(program, env, opts, nil); err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func TestRunSplitsAnOverweightFunction(t *testing.T) {
	stmts := make([]ir.Statement, 60)
	for i := range stmts {
		stmts[i] = &ir.ExpressionStatement{Expr: &ir.CallNode{Callee: ir.NewIdentifier("f"), Args: []ir.Expression{ir.NewIntLiteral(int32(i))}}}
	}
	program := ir.NewFunctionNode("")
	program.IsProgram = true
	program.Body = ir.NewBlock(stmts...)

	src := source.New("<script>", "")
	env := compilerenv.New(src, false, false, 100, compilerenv.NewFeedbackStore())
	opts := config.Default()
	opts.SplitThreshold = 100

	result, err := pipeline.Run(program, env, opts, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !result.IsSplit {
		t.Fatalf("expected the oversized function to be marked split")
	}
	if len(env.Units()) == 0 {
		t.Fatalf("expected the splitter to have allocated at least one compile unit")
	}
}
