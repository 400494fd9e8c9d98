// Package diag formats and aggregates the two error kinds spec §7 defines:
// recoverable SyntaxErrors (surfaced with source coordinates, aborting the
// current pass) and fatal InternalErrors (invariant violations, never
// recovered). It also wraps the ambient logger used for pass warnings.
package diag

import (
	"fmt"
	"strings"

	"go.uber.org/multierr"
	"golang.org/x/text/width"

	"github.com/cwbudde/go-dws/internal/source"
	"github.com/cwbudde/go-dws/internal/token"
)

// SyntaxError is a recoverable compilation error: duplicate parameter,
// redeclared variable, let/const in an unprotected switch context, or any
// error that originated earlier in parsing and was threaded through.
type SyntaxError struct {
	Message string
	Source  *source.Source
	Pos     token.Position
	Tok     token.Token
}

// NewSyntaxError builds a SyntaxError anchored at tok's position.
func NewSyntaxError(src *source.Source, tok token.Token, format string, args ...any) *SyntaxError {
	return &SyntaxError{
		Message: fmt.Sprintf(format, args...),
		Source:  src,
		Pos:     tok.Pos,
		Tok:     tok,
	}
}

func (e *SyntaxError) Error() string { return e.Format(false) }

// Format renders the error with a source snippet and caret, matching the
// teacher's CompilerError.Format — generalized to account for double-width
// runes (CJK, emoji) when placing the caret, via golang.org/x/text/width.
func (e *SyntaxError) Format(color bool) string {
	var sb strings.Builder

	name := "<script>"
	if e.Source != nil && e.Source.Name != "" {
		name = e.Source.Name
	}
	fmt.Fprintf(&sb, "Error in %s:%d:%d\n", name, e.Pos.Line, e.Pos.Column)

	var line string
	if e.Source != nil {
		line = e.Source.Line(e.Pos.Line)
	}
	if line != "" {
		lineNumStr := fmt.Sprintf("%4d | ", e.Pos.Line)
		sb.WriteString(lineNumStr)
		sb.WriteString(line)
		sb.WriteString("\n")

		caretOffset := len(lineNumStr) + displayColumns(line, e.Pos.Column-1)
		sb.WriteString(strings.Repeat(" ", caretOffset))
		if color {
			sb.WriteString("\033[1;31m")
		}
		sb.WriteString("^")
		if color {
			sb.WriteString("\033[0m")
		}
		sb.WriteString("\n")
	}

	if color {
		sb.WriteString("\033[1m")
	}
	sb.WriteString(e.Message)
	if color {
		sb.WriteString("\033[0m")
	}
	return sb.String()
}

// displayColumns sums the terminal display width of the first n runes of
// line, so a caret under a line containing full-width characters still
// lands under the right glyph instead of the right rune index.
func displayColumns(line string, n int) int {
	cols := 0
	idx := 0
	for _, r := range line {
		if idx >= n {
			break
		}
		idx++
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			cols += 2
		default:
			cols++
		}
	}
	return cols
}

// InternalError signals a fatal assertion failure: a contradiction the
// pipeline's invariants say can never happen (lexical-context imbalance, a
// missing symbol where one must exist, program-point overflow, ...).
// Passes panic with one; the pipeline entry point is the only place that
// recovers it, translating it back into a returned error (spec §7:
// "Assertion failures are fatal (internal invariant violated)").
type InternalError struct {
	Invariant string
	Detail    string
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("internal error: %s: %s", e.Invariant, e.Detail)
}

// Assert panics with an InternalError if cond is false. Used at pass
// boundaries to enforce invariants spec §3 requires (e.g. "every
// identifier reference has either a non-null Symbol or is a property
// name") rather than silently producing a malformed tree.
func Assert(cond bool, invariant, format string, args ...any) {
	if cond {
		return
	}
	panic(&InternalError{Invariant: invariant, Detail: fmt.Sprintf(format, args...)})
}

// Errors aggregates SyntaxErrors raised during one pass run. Passes never
// suppress errors (spec §7); they collect them here and the pass returns
// the aggregate, so a single compile can report more than the first
// mistake found in independent parts of the tree.
type Errors struct {
	err error
}

// Add appends e to the aggregate if non-nil.
func (a *Errors) Add(e error) {
	if e == nil {
		return
	}
	a.err = multierr.Append(a.err, e)
}

// Err returns the aggregated error, or nil if nothing was added.
func (a *Errors) Err() error { return a.err }

// HasErrors reports whether anything was aggregated.
func (a *Errors) HasErrors() bool { return a.err != nil }

// Errors unwraps the aggregate into its constituent errors, in the order
// they were added, mirroring multierr.Errors.
func (a *Errors) Errors() []error {
	return multierr.Errors(a.err)
}
