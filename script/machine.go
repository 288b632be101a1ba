package script

import (
	"fmt"
	"io"
	"log"
	"maps"
	"os"

	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"
	"go.starlark.net/syntax"

	"github.com/ezrec/z80/cpu"
)

// Module returns the z80 module.
func Module() *starlarkstruct.Module {
	members := starlark.StringDict{
		"Z80": starlark.NewBuiltin("Z80", newZ80),
	}

	// Constants do not depend on the bus.
	defines := cpu.NewCpu(&cpu.BusFuncs{}, false).Defines()
	for name, value := range defines {
		members[name] = starlark.MakeInt(value)
	}

	return &starlarkstruct.Module{
		Name:    "z80",
		Members: members,
	}
}

// Machine executes Starlark scripts against the z80 module.
type Machine struct {
	Verbose bool      // If set, logs script execution.
	Output  io.Writer // Destination of print(); os.Stdout if nil.

	Predeclared starlark.StringDict // Extra predeclared values.
}

var fileOptions = syntax.FileOptions{
	TopLevelControl: true,
	GlobalReassign:  true,
	While:           true,
}

// Exec runs a script. src may be a string, []byte, io.Reader, or nil to
// read the file named filename. The script globals are returned.
func (m *Machine) Exec(filename string, src any) (globals starlark.StringDict, err error) {
	output := m.Output
	if output == nil {
		output = os.Stdout
	}

	thread := &starlark.Thread{
		Name: filename,
		Print: func(thread *starlark.Thread, msg string) {
			fmt.Fprintln(output, msg)
		},
	}

	predeclared := starlark.StringDict{
		"z80": Module(),
	}
	maps.Copy(predeclared, m.Predeclared)

	if m.Verbose {
		log.Printf("script: exec %v", filename)
	}

	globals, err = starlark.ExecFileOptions(&fileOptions, thread, filename, src, predeclared)
	if evalErr, ok := err.(*starlark.EvalError); ok && m.Verbose {
		log.Printf("script: %v", evalErr.Backtrace())
	}

	return
}
