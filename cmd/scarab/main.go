// The scarab command is a line-based REPL for the Scarab expression
// language: each line read from stdin is parsed, compiled, and run as a
// complete, independent program, with any `debug` output and runtime
// errors written as it executes.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"

	"github.com/pkg/errors"

	"github.com/pianohacker/scarab/compiler"
	"github.com/pianohacker/scarab/internal/output"
	"github.com/pianohacker/scarab/parser"
	"github.com/pianohacker/scarab/vm"
)

var (
	raw         = flag.Bool("raw", false, "switch the terminal to raw IO before reading input")
	debug       = flag.Bool("debug", false, "print full error detail, including wrapped causes, on failure")
	disassemble = flag.Bool("disassemble", false, "print each line's compiled instructions instead of running them")
)

var stdout = output.NewErrWriter(os.Stdout)

func runLine(line string) error {
	program, positions, err := parser.ParseImplicitFormList(line)
	if err != nil {
		return errors.Wrap(err, "parse failed")
	}

	instructions, err := compiler.Compile(program, positions)
	if err != nil {
		return errors.Wrap(err, "compile failed")
	}

	if *disassemble {
		fmt.Fprint(stdout, compiler.Disassemble(instructions))
		return stdout.Err
	}

	m := vm.New(stdout)
	m.Load(instructions)
	if err := m.Run(); err != nil {
		return err
	}
	return stdout.Err
}

func main() {
	flag.Parse()

	if *raw {
		tearDown, err := setRawIO()
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not switch to raw IO: %v\n", err)
		} else {
			defer tearDown()
		}
	}

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}

		if err := runLine(line); err != nil {
			if *debug {
				fmt.Fprintf(os.Stderr, "%+v\n", err)
			} else {
				fmt.Fprintf(os.Stderr, "%v\n", err)
			}
		}
	}

	if err := scanner.Err(); err != nil {
		fmt.Fprintln(os.Stderr, errors.Wrap(err, "reading input failed"))
		os.Exit(1)
	}
}
