package compilerenv

import "github.com/cwbudde/go-dws/internal/ir"

// CodeInstaller is the emitter-side collaborator Env.GetCodeInstaller
// returns (spec §6). The core never calls into it — every pass in
// this repository ends at the IR, one step before codegen — so Env's
// implementation is a documented no-op rather than a real installer.
type CodeInstaller interface {
	InstallMethod(unit *ir.CompileUnitRef, fn *ir.FunctionNode)
	InstallClass(unit *ir.CompileUnitRef, name string)
}

type noopInstaller struct{}

func (noopInstaller) InstallMethod(*ir.CompileUnitRef, *ir.FunctionNode) {}
func (noopInstaller) InstallClass(*ir.CompileUnitRef, string)           {}

// GetCodeInstaller is Env's emitter hook (spec §6). It always returns the no-op installer: wiring a real one
// requires a bytecode emitter, which is out of scope (spec §1's
// Non-goals name "bytecode emitter" explicitly).
func (e *Env) GetCodeInstaller() CodeInstaller { return noopInstaller{} }
