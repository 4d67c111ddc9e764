/*
 * T990 - Simulation state
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

package state

import (
	"github.com/rcornwell/T990/emu/interrupt"
	"github.com/rcornwell/T990/emu/memory"
	"github.com/rcornwell/T990/emu/status"
)

// EIST error flag numbers, bit 0 most significant. The simulator
// records exception causes here while raising the error interrupt.
const (
	FlagOverflow = 4  // Arithmetic overflow trap
	FlagIllop    = 13 // Illegal opcode
	FlagPrivop   = 14 // Privileged instruction violation
)

// State owns all mutable processor state: memory, program counter,
// workspace pointer, status register, error flags and interrupt
// lines. It is plain data with no references back into the machinery
// that drives it; the simulator borrows it for the duration of a run.
type State struct {
	Mem   *memory.Memory
	PC    uint16
	WP    uint16
	ST    status.Register
	Flags uint16 // EIST error flags
	Ints  interrupt.List
}

// Create a state with fresh memory.
func NewState() *State {
	return &State{Mem: memory.NewMemory()}
}

// Workspace register n lives at memory address WP + 2n. There is no
// separate register file.
func (s *State) Register(n int) uint16 {
	return s.Mem.GetWord(s.WP + 2*uint16(n&0xf))
}

// Store workspace register n.
func (s *State) SetRegister(n int, value uint16) {
	s.Mem.PutWord(s.WP+2*uint16(n&0xf), value)
}

// Advance the program counter one word.
func (s *State) AdvancePC() {
	s.PC += 2
}

// Back the program counter up one word.
func (s *State) ReducePC() {
	s.PC -= 2
}

// Set an EIST error flag, bit 0 most significant.
func (s *State) SetErrorFlag(flag int) {
	s.Flags |= 1 << (15 - flag)
}

// Test an EIST error flag.
func (s *State) ErrorFlag(flag int) bool {
	return (s.Flags & (1 << (15 - flag))) != 0
}

// Clear all EIST error flags.
func (s *State) ClearErrorFlags() {
	s.Flags = 0
}
