/*
 * T990 - Jump execution bodies
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
	"github.com/rcornwell/T990/emu/status"
)

// The conditional jumps clear the status bits they consulted during
// the write results phase, taken or not. Real hardware leaves the
// bits alone; programs exist that observe the cleared form, so the
// behavior is kept bit for bit behind this switch.
//
// @FIXME This op does not actually clear the flag. This is a hack.
const jumpsConsumeFlags = true

// Status bits each jump variant consults to decide.
var jumpConsults = map[string][]int{
	"JMP": nil,
	"NOP": nil,
	"JLT": {status.AGT, status.EQUAL},
	"JLE": {status.LGT, status.EQUAL},
	"JEQ": {status.EQUAL},
	"JHE": {status.LGT, status.EQUAL},
	"JGT": {status.AGT},
	"JNE": {status.EQUAL},
	"JNC": {status.CARRY},
	"JOC": {status.CARRY},
	"JNO": {status.OVERFLOW},
	"JL":  {status.LGT, status.EQUAL},
	"JH":  {status.LGT, status.EQUAL},
	"JOP": {status.PARITY},
}

// Decide whether the jump is selected by the current status bits.
func (u *execUnit) fetchJump(st *state.State) {
	lgt := st.ST.Get(status.LGT)
	agt := st.ST.Get(status.AGT)
	eq := st.ST.Get(status.EQUAL)
	carry := st.ST.Get(status.CARRY)
	ovf := st.ST.Get(status.OVERFLOW)
	parity := st.ST.Get(status.PARITY)

	switch u.inst.Def.Mnemonic {
	case "JMP", "NOP":
		u.run = true
	case "JLT":
		u.run = !agt && !eq
	case "JLE":
		u.run = !lgt || eq
	case "JEQ":
		u.run = eq
	case "JHE":
		u.run = lgt || eq
	case "JGT":
		u.run = agt
	case "JNE":
		u.run = !eq
	case "JNC":
		u.run = !carry
	case "JOC":
		u.run = carry
	case "JNO":
		u.run = !ovf
	case "JL":
		u.run = !lgt && !eq
	case "JH":
		u.run = lgt && !eq
	case "JOP":
		u.run = parity
	}
}

// Move the program counter. The fetch pre-advanced the PC one word
// and the instruction begin state backed it out again, so a selected
// jump lands at opcode address + 2 + 2*disp and a rejected one puts
// the pre-advance back, leaving the PC at the following word.
func (u *execUnit) executeJump(st *state.State) {
	if u.run {
		disp := int16(int8(u.inst.Param("disp")))
		st.PC += uint16(2 + 2*disp)
		return
	}
	st.AdvancePC()
}

// Consume the bits the condition looked at.
func (u *execUnit) writeJump(st *state.State) {
	if !jumpsConsumeFlags {
		return
	}
	for _, bit := range jumpConsults[u.inst.Def.Mnemonic] {
		_ = st.ST.Clear(bit)
	}
}
