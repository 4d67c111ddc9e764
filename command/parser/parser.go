/*
 * T990 - Command parser.
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

package parser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rcornwell/T990/emu/core"
)

type cmd struct {
	name    string // Command name.
	min     int    // Minimum match size.
	help    string
	process func(*cmdLine, *core.Core) (bool, error)
}

type cmdLine struct {
	line string // Current command.
	pos  int    // Position in line.
}

var cmdList []cmd

func init() {
	cmdList = []cmd{
		{name: "examine", min: 1, help: "examine addr [count]", process: examine},
		{name: "deposit", min: 1, help: "deposit addr value ...", process: deposit},
		{name: "registers", min: 1, help: "registers [n [value]]", process: registers},
		{name: "status", min: 3, help: "status", process: showStatus},
		{name: "step", min: 3, help: "step [count]", process: step},
		{name: "start", min: 3, help: "start", process: start},
		{name: "continue", min: 1, help: "continue", process: start},
		{name: "stop", min: 3, help: "stop", process: stop},
		{name: "reset", min: 3, help: "reset", process: reset},
		{name: "int", min: 3, help: "int level", process: raiseInt},
		{name: "clear", min: 2, help: "clear level", process: clearInt},
		{name: "nmi", min: 3, help: "nmi", process: nmi},
		{name: "help", min: 1, help: "help", process: help},
		{name: "quit", min: 1, help: "quit", process: quit},
	}
}

// Execute the command line given.
func ProcessCommand(commandLine string, c *core.Core) (bool, error) {
	line := cmdLine{line: commandLine}
	name := line.getWord()
	if name == "" {
		return false, nil
	}

	match := matchList(name)
	if len(match) == 0 {
		return false, errors.New("command not found: " + name)
	}
	if len(match) > 1 {
		return false, errors.New("unique command not found: " + name)
	}
	return match[0].process(&line, c)
}

// Called to complete a command name during line editing.
func CompleteCmd(commandLine string) []string {
	line := cmdLine{line: commandLine}
	name := line.getWord()
	matches := []string{}
	for _, m := range matchList(name) {
		matches = append(matches, m.name)
	}
	return matches
}

// Check if the command matches at least to minimum length.
func matchCommand(match cmd, name string) bool {
	if len(name) < match.min || len(name) > len(match.name) {
		return false
	}
	return strings.HasPrefix(match.name, name)
}

func matchList(name string) []cmd {
	var out []cmd
	for _, m := range cmdList {
		if matchCommand(m, name) {
			out = append(out, m)
		}
	}
	return out
}

func (line *cmdLine) skipSpace() {
	for line.pos < len(line.line) && line.line[line.pos] == ' ' {
		line.pos++
	}
}

func (line *cmdLine) getWord() string {
	line.skipSpace()
	start := line.pos
	for line.pos < len(line.line) && line.line[line.pos] != ' ' {
		line.pos++
	}
	return strings.ToLower(line.line[start:line.pos])
}

// Numbers follow the 990 convention: > prefixes hexadecimal,
// anything else is decimal.
func (line *cmdLine) getNumber() (uint32, bool, error) {
	word := line.getWord()
	if word == "" {
		return 0, false, nil
	}
	base := 10
	if word[0] == '>' {
		base = 16
		word = word[1:]
	}
	value, err := strconv.ParseUint(word, base, 32)
	if err != nil {
		return 0, true, errors.New("bad number: " + word)
	}
	return uint32(value), true, nil
}

func needStopped(c *core.Core) error {
	if c.Running() {
		return errors.New("stop the machine first")
	}
	return nil
}

// Print memory words.
func examine(line *cmdLine, c *core.Core) (bool, error) {
	if err := needStopped(c); err != nil {
		return false, err
	}
	addr, ok, err := line.getNumber()
	if err != nil || !ok {
		if err == nil {
			err = errors.New("examine needs an address")
		}
		return false, err
	}
	count, ok, err := line.getNumber()
	if err != nil {
		return false, err
	}
	if !ok {
		count = 1
	}
	mem := c.Machine().Mem
	for i := uint32(0); i < count; i++ {
		a := uint16(addr + 2*i)
		if i%8 == 0 {
			if i != 0 {
				fmt.Println()
			}
			fmt.Printf("%04x:", a)
		}
		fmt.Printf(" %04x", mem.GetWord(a))
	}
	fmt.Println()
	return false, nil
}

// Write memory words.
func deposit(line *cmdLine, c *core.Core) (bool, error) {
	if err := needStopped(c); err != nil {
		return false, err
	}
	addr, ok, err := line.getNumber()
	if err != nil || !ok {
		if err == nil {
			err = errors.New("deposit needs an address")
		}
		return false, err
	}
	mem := c.Machine().Mem
	stored := 0
	for {
		value, ok, err := line.getNumber()
		if err != nil {
			return false, err
		}
		if !ok {
			break
		}
		mem.PutWord(uint16(addr), uint16(value))
		addr += 2
		stored++
	}
	if stored == 0 {
		return false, errors.New("deposit needs at least one value")
	}
	return false, nil
}

// Show or set workspace registers.
func registers(line *cmdLine, c *core.Core) (bool, error) {
	if err := needStopped(c); err != nil {
		return false, err
	}
	st := c.Machine()
	reg, ok, err := line.getNumber()
	if err != nil {
		return false, err
	}
	if !ok {
		for r := 0; r < 16; r++ {
			fmt.Printf("R%-2d %04x ", r, st.Register(r))
			if r%4 == 3 {
				fmt.Println()
			}
		}
		return false, nil
	}
	if reg > 15 {
		return false, errors.New("register must be 0..15")
	}
	value, ok, err := line.getNumber()
	if err != nil {
		return false, err
	}
	if !ok {
		fmt.Printf("R%d %04x\n", reg, st.Register(int(reg)))
		return false, nil
	}
	st.SetRegister(int(reg), uint16(value))
	return false, nil
}

// Show processor status.
func showStatus(_ *cmdLine, c *core.Core) (bool, error) {
	st := c.Machine()
	fmt.Printf("PC %04x  WP %04x  ST %04x  mask %x  flags %04x  state %s\n",
		st.PC, st.WP, st.ST.Word(), st.ST.Mask(), st.Flags, c.Flow().State())
	if inst := c.Flow().CurrentInstruction(); inst != nil {
		fmt.Printf("current %s\n", inst.Name())
	}
	return false, nil
}

// Single step instructions.
func step(line *cmdLine, c *core.Core) (bool, error) {
	count, ok, err := line.getNumber()
	if err != nil {
		return false, err
	}
	if !ok {
		count = 1
	}
	for i := uint32(0); i < count; i++ {
		c.Send(core.Packet{Msg: core.Step})
	}
	return false, nil
}

func start(_ *cmdLine, c *core.Core) (bool, error) {
	c.Send(core.Packet{Msg: core.Start})
	return false, nil
}

func stop(_ *cmdLine, c *core.Core) (bool, error) {
	c.Send(core.Packet{Msg: core.Stop})
	return false, nil
}

func reset(_ *cmdLine, c *core.Core) (bool, error) {
	c.Send(core.Packet{Msg: core.Reset})
	return false, nil
}

// Raise an external interrupt level.
func raiseInt(line *cmdLine, c *core.Core) (bool, error) {
	level, ok, err := line.getNumber()
	if err != nil || !ok {
		if err == nil {
			err = errors.New("int needs a level 0..15")
		}
		return false, err
	}
	c.Send(core.Packet{Msg: core.RaiseInt, Level: int(level)})
	return false, nil
}

// Clear an external interrupt level.
func clearInt(line *cmdLine, c *core.Core) (bool, error) {
	level, ok, err := line.getNumber()
	if err != nil || !ok {
		if err == nil {
			err = errors.New("clear needs a level 0..15")
		}
		return false, err
	}
	c.Send(core.Packet{Msg: core.ClearInt, Level: int(level)})
	return false, nil
}

func nmi(_ *cmdLine, c *core.Core) (bool, error) {
	c.Send(core.Packet{Msg: core.RaiseNMI})
	return false, nil
}

func help(_ *cmdLine, _ *core.Core) (bool, error) {
	for _, m := range cmdList {
		fmt.Printf("  %-12s %s\n", m.name, m.help)
	}
	return false, nil
}

func quit(_ *cmdLine, _ *core.Core) (bool, error) {
	return true, nil
}
