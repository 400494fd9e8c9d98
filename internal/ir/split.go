package ir

// SplitRange is a partition of an over-weight array or object literal's
// element list, each mapped to its own compile unit (GLOSSARY: "Split
// range"). Start/End are half-open indices into the literal's element
// slice.
type SplitRange struct {
	Start       int
	End         int
	CompileUnit *CompileUnitRef
}

// Weight is the cumulative cost table entry the splitter uses to decide
// how to partition a tree (spec §4.9). Callers pass the node-kind cost
// table in from internal/passes/splitter so this package stays free of
// splitter policy.
type Weight int
