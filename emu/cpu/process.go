/*
 * T990 - Instruction cycle driver
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

package cpu

import (
	"github.com/rcornwell/T990/emu/state"
)

// Process holds the current and next instruction slots and walks the
// current one through its execution unit. It keeps no reference to
// the machine state; every phase borrows it from the caller.
type Process struct {
	current *execUnit
	next    *Instruction
	nextAPP bool // APP line state recorded when next was fetched
}

// Reset per instruction scratch for the current slot.
func (p *Process) Begin() {
	if p.current != nil {
		p.current = newExecUnit(p.current.inst)
	}
}

// Drop both slots, used by processor reset.
func (p *Process) Clear() {
	p.current = nil
	p.next = nil
	p.nextAPP = false
}

// Fetch the instruction at PC into the next slot. The opcode read
// itself does not move PC; each extension word consumed advances PC
// one word. An uncatalogued opcode still fills the slot so the MID
// and illegal opcode paths can examine it.
func (p *Process) FetchNextInstruction(st *state.State) {
	word := st.Mem.GetWord(st.PC)
	inst, err := NewInstruction(word)
	if err != nil {
		inst.Finalize()
		p.next = inst
		p.nextAPP = appLineActive()
		return
	}

	if inst.Def.HasSecondWord() {
		st.AdvancePC()
		_ = inst.SetSecondWord(st.Mem.GetWord(st.PC))
	}
	if inst.Def.HasImmediate() {
		st.AdvancePC()
		inst.Immediate = st.Mem.GetWord(st.PC)
		inst.HasImmediate = true
	}
	if inst.NeedsSourceWord() {
		st.AdvancePC()
		inst.SourceImm = st.Mem.GetWord(st.PC)
		inst.HasSourceImm = true
	}
	if inst.NeedsDestWord() {
		st.AdvancePC()
		inst.DestImm = st.Mem.GetWord(st.PC)
		inst.HasDestImm = true
	}
	inst.Finalize()
	p.next = inst
	p.nextAPP = appLineActive()
}

// The attached processor port is outside this core; the line never
// goes active.
func appLineActive() bool {
	return false
}

// Move next into current with a fresh execution unit.
func (p *Process) PromoteNextToCurrent() {
	if p.next == nil {
		p.current = nil
		return
	}
	p.current = newExecUnit(p.next)
	p.next = nil
}

// Current instruction, nil when the slot is empty.
func (p *Process) Current() *Instruction {
	if p.current == nil {
		return nil
	}
	return p.current.inst
}

// Fetch operands for the current instruction.
func (p *Process) FetchOperands(st *state.State) bool {
	if p.current == nil {
		return false
	}
	return p.current.fetchOperands(st)
}

// Execute the current instruction.
func (p *Process) Execute(st *state.State) (bool, error) {
	if p.current == nil {
		return false, nil
	}
	return p.current.execute(st)
}

// Write results of the current instruction.
func (p *Process) WriteResults(st *state.State) bool {
	if p.current == nil {
		return false
	}
	return p.current.writeResults(st)
}

// Validate the current instruction's parameters.
func (p *Process) ValidateParams() error {
	if p.current == nil {
		return nil
	}
	return p.current.validateParams()
}

// True when the current instruction needs privileged mode.
func (p *Process) CurrentNeedsPrivilege() bool {
	return p.current != nil && p.current.needsPrivilege()
}

// True when the current instruction is one of the jump family.
func (p *Process) CurrentIsJump() bool {
	return p.current != nil && p.current.inst.IsJump()
}

// True when the current instruction is a MID candidate or matched no
// catalogue entry.
func (p *Process) CurrentIsMID() bool {
	return p.current != nil && p.current.inst.IsMID()
}

// True when the current instruction carries a legal second opcode
// word: the format's unused field must read zero. Single word
// instructions are trivially legal.
func (p *Process) CurrentSecondWordLegal() bool {
	if p.current == nil || p.current.inst.Def == nil {
		return true
	}
	def := p.current.inst.Def
	if !def.HasSecondWord() {
		return true
	}
	for _, f := range def.FormatInfo().Fields {
		if f.Name == "nu" && f.Extract(p.current.inst.SecondWord) != 0 {
			return false
		}
	}
	return true
}

// APP line state latched at the last fetch.
func (p *Process) FetchedWithAPP() bool {
	return p.nextAPP
}
