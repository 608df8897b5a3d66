/*
 * MIT License
 *
 * Copyright (c) 2024 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package console

import (
	"bufio"
	"io"
	"sort"
	"strings"
)

// Command is one named REPL verb. Run's arg is the remainder of the input
// line after the command word, unsplit — handlers that take free-form text
// (wall's message) would otherwise have to rejoin tokens.
type Command struct {
	Name string
	Help string
	Run  func(arg string) error
}

// REPL is a minimal line-oriented command loop: a prompt, a command
// table, and a Scanner-driven read loop. It carries no daemon-specific
// behaviour — callers register their own Command set (cmd/fus registers
// wall for the admin console); quit and help are always present.
type REPL struct {
	prompt string
	cmds   map[string]Command
	out    ColorType
}

// NewREPL builds a REPL with the given prompt text; help and quit are
// registered automatically. quit's Run is invoked but never overrides
// the loop's own exit — Serve returns as soon as it runs.
func NewREPL(prompt string) *REPL {
	r := &REPL{prompt: prompt, cmds: make(map[string]Command), out: ColorPrint}
	r.Register(Command{Name: "help", Help: "list available commands"})
	r.Register(Command{Name: "quit", Help: "shut the daemon down"})
	return r
}

// Register adds or replaces a command. Registering "help" or "quit"
// again overrides only their Help/Run, not the loop's built-in exit
// behaviour for "quit".
func (r *REPL) Register(c Command) {
	r.cmds[c.Name] = c
}

// Serve reads lines from in until EOF, a read error, or a "quit" command.
// Each line's first whitespace-delimited token selects the command; the
// remainder is passed verbatim as arg.
func (r *REPL) Serve(in io.Reader) error {
	scn := bufio.NewScanner(in)

	for {
		printPrompt(r.prompt)

		if !scn.Scan() {
			return scn.Err()
		}

		line := strings.TrimSpace(scn.Text())
		if line == "" {
			continue
		}

		name, arg, _ := strings.Cut(line, " ")
		cmd, ok := r.cmds[name]
		if !ok {
			r.out.PrintLnf("unknown command %q (try \"help\")", name)
			continue
		}

		if name == "help" {
			r.printHelp()
			continue
		}

		if cmd.Run != nil {
			if err := cmd.Run(strings.TrimSpace(arg)); err != nil {
				r.out.PrintLnf("%s: %v", name, err)
			}
		}

		if name == "quit" {
			return nil
		}
	}
}

func (r *REPL) printHelp() {
	names := make([]string, 0, len(r.cmds))
	for n := range r.cmds {
		names = append(names, n)
	}
	sort.Strings(names)

	for _, n := range names {
		r.out.PrintLnf("  %-10s %s", n, r.cmds[n].Help)
	}
}
