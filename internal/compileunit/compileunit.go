// Package compileunit implements the compile-unit allocator collaborator
// the splitter consults (spec §4.9/§6, "find_unit(weight) -> CompileUnit"):
// a simple bin-packer that hands out a fresh unit whenever the current
// one would grow past a configured per-class ceiling.
package compileunit

import "github.com/cwbudde/go-dws/internal/ir"

// Allocator packs split groups into CompileUnitRefs, opening a fresh unit
// whenever a group would push the current unit past ceiling. A single
// group heavier than ceiling still gets a unit of its own and is billed
// in full, so that unit's weight exceeds ceiling.
type Allocator struct {
	ceiling int
	units   []*ir.CompileUnitRef
	current *ir.CompileUnitRef
}

// New builds an Allocator with ceiling as the per-unit weight budget.
func New(ceiling int) *Allocator {
	return &Allocator{ceiling: ceiling}
}

// FindUnit returns the unit weight should be billed against, opening a
// fresh one if the current one is full or doesn't exist yet.
func (a *Allocator) FindUnit(weight int) *ir.CompileUnitRef {
	if a.current == nil || a.current.Weight+weight > a.ceiling {
		a.current = &ir.CompileUnitRef{ID: len(a.units) + 1}
		a.units = append(a.units, a.current)
	}
	a.current.Weight += weight
	return a.current
}

// Units returns every unit allocated so far, in allocation order.
func (a *Allocator) Units() []*ir.CompileUnitRef {
	return a.units
}
