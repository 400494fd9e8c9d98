package cmd

import (
	"fmt"
	"os"

	"github.com/kr/pretty"
	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/cwbudde/go-dws/internal/compilerenv"
	"github.com/cwbudde/go-dws/internal/config"
	"github.com/cwbudde/go-dws/internal/diag"
	"github.com/cwbudde/go-dws/internal/ir"
	"github.com/cwbudde/go-dws/internal/pipeline"
	"github.com/cwbudde/go-dws/internal/source"
)

var (
	configPath   string
	reportPath   string
	onDemandFlag bool
	dualFields   bool
	runVerbose   bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the pipeline over a demo FunctionNode",
	Long: `run builds a small demo FunctionNode and drives it through every
compile pass, since this module takes a parsed tree as input rather than
source text.

Examples:
  # Run with the default options
  jscpipeline run

  # Run with options loaded from a YAML file, writing a JSON report
  jscpipeline run --config opts.yaml --report report.json`,
	RunE: runPipeline,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&configPath, "config", "", "path to a YAML options file (default: built-in defaults)")
	runCmd.Flags().StringVar(&reportPath, "report", "", "path to write a JSON summary report")
	runCmd.Flags().BoolVar(&onDemandFlag, "on-demand", false, "compile as a single on-demand function body")
	runCmd.Flags().BoolVar(&dualFields, "dual-fields", false, "tell the backend collaborator to use dual-typed-field storage")
	runCmd.Flags().BoolVarP(&runVerbose, "verbose", "v", false, "verbose output")
}

func runPipeline(_ *cobra.Command, _ []string) error {
	opts, err := loadOptions()
	if err != nil {
		return err
	}
	opts.OnDemandCompilation = opts.OnDemandCompilation || onDemandFlag
	opts.UseDualFields = opts.UseDualFields || dualFields

	program := demoProgram()
	src := source.New("<demo>", "// synthetic demo tree, not parsed from text")
	env := compilerenv.New(src, opts.OnDemandCompilation, opts.UseDualFields, opts.CompileUnitCeiling, compilerenv.NewFeedbackStore())
	logger := diag.NewLogger()

	result, err := pipeline.Run(program, env, opts, logger)
	if err != nil {
		return fmt.Errorf("pipeline failed: %w", err)
	}

	if runVerbose {
		fmt.Fprintf(os.Stderr, "%# v\n", pretty.Formatter(summarize(result, env)))
	}
	fmt.Printf("compiled demo program: split=%t units=%d\n", result.IsSplit, len(env.Units()))

	if reportPath != "" {
		if err := writeReport(reportPath, result, env); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
		fmt.Printf("report written to %s (units=%s)\n", reportPath, gjson.Get(mustRead(reportPath), "units").Raw)
	}

	return nil
}

func loadOptions() (config.Options, error) {
	if configPath == "" {
		return config.Default(), nil
	}
	return config.Load(configPath)
}

type summary struct {
	IsSplit    bool
	UnitCount  int
	UnitWeight []int
}

func summarize(result *ir.FunctionNode, env *compilerenv.Env) summary {
	weights := make([]int, len(env.Units()))
	for i, u := range env.Units() {
		weights[i] = u.Weight
	}
	return summary{IsSplit: result.IsSplit, UnitCount: len(env.Units()), UnitWeight: weights}
}

func writeReport(path string, result *ir.FunctionNode, env *compilerenv.Env) error {
	doc := "{}"
	var err error
	doc, err = sjson.Set(doc, "isSplit", result.IsSplit)
	if err != nil {
		return err
	}
	doc, err = sjson.Set(doc, "unitCount", len(env.Units()))
	if err != nil {
		return err
	}
	for i, u := range env.Units() {
		doc, err = sjson.Set(doc, fmt.Sprintf("units.%d", i), u.Weight)
		if err != nil {
			return err
		}
	}
	return os.WriteFile(path, []byte(doc), 0o644)
}

func mustRead(path string) string {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "{}"
	}
	return string(raw)
}

// demoProgram builds a synthetic function large enough to exercise every
// pass: constant folding (1+2), a var declaration for the symbol
// assigner/proppoint's exclusion rule, and enough call statements that the
// splitter has real work to do.
func demoProgram() *ir.FunctionNode {
	program := ir.NewFunctionNode("")
	program.IsProgram = true

	stmts := []ir.Statement{
		&ir.VarStatement{
			Kind:  ir.SymVar,
			Names: []*ir.Identifier{ir.NewIdentifier("total")},
			Inits: []ir.Expression{&ir.BinaryNode{Op: ir.Add, Left: ir.NewIntLiteral(1), Right: ir.NewIntLiteral(2)}},
		},
	}
	for i := 0; i < 40; i++ {
		stmts = append(stmts, &ir.ExpressionStatement{
			Expr: &ir.CallNode{
				Callee: ir.NewIdentifier("accumulate"),
				Args:   []ir.Expression{ir.NewIdentifier("total"), ir.NewIntLiteral(int32(i))},
			},
		})
	}
	stmts = append(stmts, &ir.ReturnStatement{Expr: ir.NewIdentifier("total")})

	program.Body = ir.NewBlock(stmts...)
	return program
}
