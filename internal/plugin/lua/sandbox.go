package lua

import (
	"slices"
	"strings"

	lua "github.com/yuin/gopher-lua"
)

// removedGlobals are base library functions that reach the file system,
// load arbitrary chunks or escape the environment.
var removedGlobals = []string{
	"dofile",
	"loadfile",
	"load",
	"loadstring",
	"require",
	"module",
	"getfenv",
	"setfenv",
	"collectgarbage",
	"newproxy",
	"_printregs",
}

// Sandbox restricts what scripts can reach.
type Sandbox struct {
	L *lua.LState

	print func(string)
}

// NewSandbox creates a sandbox for L.
func NewSandbox(L *lua.LState) *Sandbox {
	return &Sandbox{L: L}
}

// Install removes unsafe globals and replaces print.
func (s *Sandbox) Install() {
	for _, name := range removedGlobals {
		s.L.SetGlobal(name, lua.LNil)
	}
	s.installPrint()
}

// installPrint routes print to the configured function, discarding
// output when none is set.
func (s *Sandbox) installPrint() {
	s.L.SetGlobal("print", s.L.NewFunction(func(L *lua.LState) int {
		if s.print == nil {
			return 0
		}
		parts := make([]string, L.GetTop())
		for i := range parts {
			parts[i] = L.ToStringMeta(L.Get(i + 1)).String()
		}
		s.print(strings.Join(parts, "\t"))
		return 0
	}))
}

// Removed reports whether name is a global the sandbox strips.
func (s *Sandbox) Removed(name string) bool {
	return slices.Contains(removedGlobals, name)
}
