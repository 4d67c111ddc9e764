/*
 * T990 - Execution units
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
	"errors"
	"fmt"
	"math/bits"

	"github.com/rcornwell/T990/emu/state"
	"github.com/rcornwell/T990/emu/status"
)

// Op is in the catalogue but has no execution body in this core.
var ErrUnimplementedOp = errors.New("unimplemented op")

// Addressing modes of the T field.
const (
	modeRegister = 0 // workspace register direct
	modeIndirect = 1 // workspace register indirect
	modeSymbolic = 2 // symbolic, or indexed when the register is nonzero
	modeAutoInc  = 3 // register indirect with post increment
)

// A resolved operand location, either a workspace register or a
// memory address.
type operand struct {
	isReg bool
	reg   int
	addr  uint16
	valid bool
}

// execUnit drives one instruction through the fetch operands,
// execute, write results phases. Scratch staged between phases lives
// here and nowhere else; the unit is dropped with its instruction.
type execUnit struct {
	inst *Instruction

	src        operand
	dest       operand
	srcVal     uint16 // staged source value
	target     uint16 // staged result for write back
	haveTarget bool
	run        bool // conditional jump selected
	incremented int // register autoincremented by the source fetch, -1 none
}

func newExecUnit(inst *Instruction) *execUnit {
	return &execUnit{inst: inst, incremented: -1}
}

// Resolve an addressing mode and register pair to a location.
// Mode 3 increments the register as a side effect, by one for byte
// ops and two for word ops, wrapping modulo 2^16 without touching the
// overflow status bit. When source and destination name the same
// autoincrement register the increment already happened at the source
// fetch, so the destination reuses the source address unbumped.
func (u *execUnit) resolve(st *state.State, mode, reg int, addrWord uint16, byteOp bool) operand {
	switch mode {
	case modeRegister:
		return operand{isReg: true, reg: reg, valid: true}
	case modeIndirect:
		return operand{addr: st.Register(reg), valid: true}
	case modeSymbolic:
		addr := addrWord
		if reg != 0 {
			addr += st.Register(reg)
		}
		return operand{addr: addr, valid: true}
	case modeAutoInc:
		if u.incremented == reg {
			return operand{addr: u.src.addr, valid: true}
		}
		addr := st.Register(reg)
		inc := uint16(2)
		if byteOp {
			inc = 1
		}
		st.SetRegister(reg, addr+inc)
		u.incremented = reg
		return operand{addr: addr, valid: true}
	}
	return operand{}
}

// Read a word operand.
func readWord(st *state.State, op operand) uint16 {
	if op.isReg {
		return st.Register(op.reg)
	}
	return st.Mem.GetWord(op.addr)
}

// Write a word operand.
func writeWord(st *state.State, op operand, value uint16) {
	if op.isReg {
		st.SetRegister(op.reg, value)
		return
	}
	st.Mem.PutWord(op.addr, value)
}

// Read a byte operand. Register direct byte operands use the most
// significant byte of the register.
func readByte(st *state.State, op operand) uint8 {
	if op.isReg {
		return uint8(st.Register(op.reg) >> 8)
	}
	return st.Mem.GetByte(op.addr)
}

// Write a byte operand.
func writeByte(st *state.State, op operand, value uint8) {
	if op.isReg {
		word := st.Register(op.reg)
		st.SetRegister(op.reg, (word&0x00ff)|(uint16(value)<<8))
		return
	}
	st.Mem.PutByte(op.addr, value)
}

// Set EQUAL from a comparison.
func updateEq(st *state.State, a, b uint16) {
	_ = st.ST.Clear(status.EQUAL)
	if a == b {
		_ = st.ST.Set(status.EQUAL)
	}
}

// Set LGT from the unsigned and AGT from the signed comparison.
func updateGt(st *state.State, a, b uint16) {
	_ = st.ST.Clear(status.LGT)
	_ = st.ST.Clear(status.AGT)
	if a > b {
		_ = st.ST.Set(status.LGT)
	}
	if int16(a) > int16(b) {
		_ = st.ST.Set(status.AGT)
	}
}

// Word add or subtract with carry and overflow per the status rules:
// carry on unsigned overflow or underflow, overflow on signed
// overflow. Returns the clamped result.
func clampAndUpdateCarryOverflow(st *state.State, a, b uint16, subtract bool) uint16 {
	var result uint16
	_ = st.ST.Clear(status.CARRY)
	_ = st.ST.Clear(status.OVERFLOW)
	if subtract {
		result = a - b
		if a < b {
			_ = st.ST.Set(status.CARRY)
		}
		if (a^b)&(a^result)&0x8000 != 0 {
			_ = st.ST.Set(status.OVERFLOW)
		}
	} else {
		sum := uint32(a) + uint32(b)
		result = uint16(sum)
		if sum > 0xffff {
			_ = st.ST.Set(status.CARRY)
		}
		if (a^result)&(b^result)&0x8000 != 0 {
			_ = st.ST.Set(status.OVERFLOW)
		}
	}
	return result
}

// Byte flavor of the carry and overflow update.
func clampByteCarryOverflow(st *state.State, a, b uint8, subtract bool) uint8 {
	var result uint8
	_ = st.ST.Clear(status.CARRY)
	_ = st.ST.Clear(status.OVERFLOW)
	if subtract {
		result = a - b
		if a < b {
			_ = st.ST.Set(status.CARRY)
		}
		if (a^b)&(a^result)&0x80 != 0 {
			_ = st.ST.Set(status.OVERFLOW)
		}
	} else {
		sum := uint16(a) + uint16(b)
		result = uint8(sum)
		if sum > 0xff {
			_ = st.ST.Set(status.CARRY)
		}
		if (a^result)&(b^result)&0x80 != 0 {
			_ = st.ST.Set(status.OVERFLOW)
		}
	}
	return result
}

// Odd parity of a result byte.
func updateParity(st *state.State, value uint8) {
	_ = st.ST.Clear(status.PARITY)
	if bits.OnesCount8(value)%2 == 1 {
		_ = st.ST.Set(status.PARITY)
	}
}

// Compare a word result against zero.
func updateCmpZero(st *state.State, value uint16) {
	updateGt(st, value, 0)
	updateEq(st, value, 0)
}

// Compare a byte result against zero.
func updateCmpZeroByte(st *state.State, value uint8) {
	_ = st.ST.Clear(status.LGT)
	_ = st.ST.Clear(status.AGT)
	if value != 0 {
		_ = st.ST.Set(status.LGT)
	}
	if int8(value) > 0 {
		_ = st.ST.Set(status.AGT)
	}
	updateEq(st, uint16(value), 0)
}

// True for the byte flavor of the two address ops.
func isByteOp(name string) bool {
	switch name {
	case "MOVB", "AB", "SB", "CB", "SOCB", "SZCB":
		return true
	}
	return false
}

// Fetch operands for the current instruction. Returns whether the
// phase staged anything.
func (u *execUnit) fetchOperands(st *state.State) bool {
	if u.inst == nil || u.inst.Def == nil {
		return false
	}
	switch u.inst.Def.Mnemonic {
	case "MOV", "MOVB", "A", "AB", "S", "SB", "C", "CB", "SOC", "SOCB", "SZC", "SZCB":
		u.fetchFormat1(st)
		return true
	case "JMP", "NOP", "JLT", "JLE", "JEQ", "JHE", "JGT", "JNE", "JNC", "JOC", "JNO", "JL", "JH", "JOP":
		u.fetchJump(st)
		return true
	case "INC", "INCT", "DEC", "DECT":
		u.src = u.resolve(st, int(u.inst.Param("Ts")), int(u.inst.Param("S")), u.inst.SourceImm, false)
		u.srcVal = readWord(st, u.src)
		return true
	case "LI":
		// Immediate travels with the instruction, nothing to stage.
		return false
	}
	return false
}

// Execute the current instruction. The error reports catalogued ops
// that have no body in this core; processor conditions are status and
// error flag bits, never errors.
func (u *execUnit) execute(st *state.State) (bool, error) {
	if u.inst == nil || u.inst.Def == nil {
		// Uncatalogued word. The flow raises the illegal opcode trap
		// from its MID path; executing it moves nothing.
		return false, nil
	}
	name := u.inst.Def.Mnemonic
	switch name {
	case "MOV", "MOVB", "A", "AB", "S", "SB", "C", "CB", "SOC", "SOCB", "SZC", "SZCB":
		u.executeFormat1(st)
		return true, nil
	case "JMP", "NOP", "JLT", "JLE", "JEQ", "JHE", "JGT", "JNE", "JNC", "JOC", "JNO", "JL", "JH", "JOP":
		u.executeJump(st)
		return true, nil
	case "INC", "INCT", "DEC", "DECT":
		amount := uint16(1)
		if name == "INCT" || name == "DECT" {
			amount = 2
		}
		u.target = clampAndUpdateCarryOverflow(st, u.srcVal, amount, name == "DEC" || name == "DECT")
		updateCmpZero(st, u.target)
		u.haveTarget = true
		return true, nil
	case "LI":
		u.target = u.inst.Immediate
		updateCmpZero(st, u.target)
		u.haveTarget = true
		return true, nil
	}
	return false, fmt.Errorf("%w: %s", ErrUnimplementedOp, name)
}

// Commit results of the current instruction.
func (u *execUnit) writeResults(st *state.State) bool {
	if u.inst == nil || u.inst.Def == nil {
		return false
	}
	switch u.inst.Def.Mnemonic {
	case "MOV", "MOVB", "A", "AB", "S", "SB", "SOC", "SOCB", "SZC", "SZCB":
		u.writeFormat1(st)
		return true
	case "C", "CB":
		// Compares stage no result.
		return false
	case "JMP", "NOP", "JLT", "JLE", "JEQ", "JHE", "JGT", "JNE", "JNC", "JOC", "JNO", "JL", "JH", "JOP":
		u.writeJump(st)
		return true
	case "INC", "INCT", "DEC", "DECT":
		if u.haveTarget {
			writeWord(st, u.src, u.target)
			return true
		}
	case "LI":
		if u.haveTarget {
			st.SetRegister(int(u.inst.Param("W")), u.target)
			return true
		}
	}
	return false
}

// Sanity check the extracted parameters. Field extraction already
// bounds every value; this guards the codec against hand built
// instructions.
func (u *execUnit) validateParams() error {
	if u.inst == nil || u.inst.Def == nil {
		return nil
	}
	for _, name := range []string{"Ts", "Td"} {
		if v, ok := u.inst.Params[name]; ok && v > 3 {
			return fmt.Errorf("%s: %s mode %d out of range", u.inst.Def.Mnemonic, name, v)
		}
	}
	for _, name := range []string{"S", "D", "W", "C"} {
		if v, ok := u.inst.Params[name]; ok && v > 15 {
			return fmt.Errorf("%s: %s value %d out of range", u.inst.Def.Mnemonic, name, v)
		}
	}
	return nil
}

// True when the op may only run in privileged mode.
func (u *execUnit) needsPrivilege() bool {
	return u.inst != nil && u.inst.Def != nil && u.inst.Def.Privileged
}
