/*
 * T990 - Console reader.
 *
 * Copyright 2025, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

package reader

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/peterh/liner"

	"github.com/rcornwell/T990/command/parser"
	"github.com/rcornwell/T990/emu/core"
)

// Run the monitor prompt until quit or end of input.
//
// The prompt shows whether the machine is running. Control-C halts a
// running machine rather than leaving the monitor; at a stopped
// machine it exits, as does end of file. An empty line repeats the
// previous command, which makes stepping comfortable.
func ConsoleReader(sim *core.Core) {
	term := liner.NewLiner()
	defer term.Close()

	term.SetCtrlCAborts(true)
	term.SetTabCompletionStyle(liner.TabPrints)
	term.SetCompleter(parser.CompleteCmd)

	lastCommand := ""
	for {
		prompt := "T990> "
		if sim.Running() {
			prompt = "T990 [run]> "
		}

		input, err := term.Prompt(prompt)
		switch {
		case err == nil:
		case errors.Is(err, liner.ErrPromptAborted):
			if sim.Running() {
				sim.Send(core.Packet{Msg: core.Stop})
				fmt.Println("stopped")
				continue
			}
			return
		case errors.Is(err, io.EOF):
			fmt.Println()
			return
		default:
			fmt.Println("console: " + err.Error())
			return
		}

		command := strings.TrimSpace(input)
		if command == "" {
			// Repeat the last successful command.
			command = lastCommand
			if command == "" {
				continue
			}
		} else {
			term.AppendHistory(command)
		}

		quit, err := parser.ProcessCommand(command, sim)
		if err != nil {
			fmt.Println("Error: " + err.Error())
			continue
		}
		if quit {
			return
		}
		lastCommand = command
	}
}
