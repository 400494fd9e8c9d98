package compilerenv_test

import (
	"testing"

	"github.com/cwbudde/go-dws/internal/compilerenv"
	"github.com/cwbudde/go-dws/internal/ir"
	"github.com/cwbudde/go-dws/internal/source"
)

func TestSourceAndFlagsRoundTrip(t *testing.T) {
	src := source.New("<script>", "var x = 1;")
	env := compilerenv.New(src, true, false, 1024, compilerenv.NewFeedbackStore())

	if env.Source() != src {
		t.Fatalf("expected Source() to return the wrapped source")
	}
	if !env.IsOnDemandCompilation() {
		t.Fatalf("expected IsOnDemandCompilation to reflect the constructor argument")
	}
	if env.UseDualFields() {
		t.Fatalf("expected UseDualFields to reflect the constructor argument")
	}
}

func TestRememberThenGetRoundTrips(t *testing.T) {
	env := compilerenv.New(source.New("<script>", ""), false, false, 1024, compilerenv.NewFeedbackStore())
	fn := ir.NewFunctionNode("f")
	fn.InternalSymbols = map[string]bool{"x": true}
	fn.ExternalSymbolDepths = map[string]int{"y": 2}
	fn.InDynamicContext = true

	env.Remember(fn)

	internal, external, dynamic, ok := env.Get(fn)
	if !ok {
		t.Fatalf("expected a cache hit after Remember")
	}
	if !internal["x"] || external["y"] != 2 || !dynamic {
		t.Fatalf("expected cached data to round-trip, got %v %v %v", internal, external, dynamic)
	}
}

func TestGetMissReportsNotOK(t *testing.T) {
	env := compilerenv.New(source.New("<script>", ""), false, false, 1024, compilerenv.NewFeedbackStore())
	_, _, _, ok := env.Get(ir.NewFunctionNode("unseen"))
	if ok {
		t.Fatalf("expected a miss for a function never Remembered")
	}
}

func TestOptimisticFeedbackRoundTrips(t *testing.T) {
	env := compilerenv.New(source.New("<script>", ""), false, false, 1024, compilerenv.NewFeedbackStore())
	id := ir.NewIdentifier("x")

	if _, ok := env.GetOptimisticType(id); ok {
		t.Fatalf("expected no feedback before RecordOptimisticType")
	}

	env.RecordOptimisticType(id, ir.TypeDouble)
	kind, ok := env.GetOptimisticType(id)
	if !ok || kind != ir.TypeDouble {
		t.Fatalf("expected recorded feedback to round-trip, got %v %v", kind, ok)
	}
}

func TestFindUnitDelegatesToAllocator(t *testing.T) {
	env := compilerenv.New(source.New("<script>", ""), false, false, 50, compilerenv.NewFeedbackStore())

	u1 := env.FindUnit(30)
	u2 := env.FindUnit(30)
	if u1 == u2 {
		t.Fatalf("expected the allocator's ceiling to still apply through Env")
	}
	if len(env.Units()) != 2 {
		t.Fatalf("expected 2 units, got %d", len(env.Units()))
	}
}
