/*
 * T990 - Two address execution bodies
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

// The two address skeleton shared by the format 1 family: fetch the
// source through (Ts,S), fetch the old destination value into the
// target slot when the op consumes it, run the per op body over the
// staged values, then store the target back through (Td,D).

// Ops that read the destination before computing.
func readsDest(name string) bool {
	switch name {
	case "A", "AB", "S", "SB", "C", "CB", "SOC", "SOCB", "SZC", "SZCB":
		return true
	}
	return false
}

func (u *execUnit) fetchFormat1(st *state.State) {
	name := u.inst.Def.Mnemonic
	byteOp := isByteOp(name)

	u.src = u.resolve(st, int(u.inst.Param("Ts")), int(u.inst.Param("S")), u.inst.SourceImm, byteOp)
	if byteOp {
		u.srcVal = uint16(readByte(st, u.src))
	} else {
		u.srcVal = readWord(st, u.src)
	}

	if readsDest(name) {
		u.dest = u.resolve(st, int(u.inst.Param("Td")), int(u.inst.Param("D")), u.inst.DestImm, byteOp)
		if byteOp {
			u.target = uint16(readByte(st, u.dest))
		} else {
			u.target = readWord(st, u.dest)
		}
		u.haveTarget = true
	}
}

func (u *execUnit) executeFormat1(st *state.State) {
	switch u.inst.Def.Mnemonic {
	case "MOV":
		u.target = u.srcVal
		u.haveTarget = true
		updateCmpZero(st, u.target)
	case "MOVB":
		u.target = u.srcVal & 0xff
		u.haveTarget = true
		updateCmpZeroByte(st, uint8(u.target))
		updateParity(st, uint8(u.target))
	case "A":
		u.target = clampAndUpdateCarryOverflow(st, u.target, u.srcVal, false)
		updateCmpZero(st, u.target)
	case "AB":
		u.target = uint16(clampByteCarryOverflow(st, uint8(u.target), uint8(u.srcVal), false))
		updateCmpZeroByte(st, uint8(u.target))
		updateParity(st, uint8(u.target))
	case "S":
		u.target = clampAndUpdateCarryOverflow(st, u.target, u.srcVal, true)
		updateCmpZero(st, u.target)
	case "SB":
		u.target = uint16(clampByteCarryOverflow(st, uint8(u.target), uint8(u.srcVal), true))
		updateCmpZeroByte(st, uint8(u.target))
		updateParity(st, uint8(u.target))
	case "C":
		updateGt(st, u.srcVal, u.target)
		updateEq(st, u.srcVal, u.target)
		u.haveTarget = false
	case "CB":
		cmpByte(st, uint8(u.srcVal), uint8(u.target))
		updateParity(st, uint8(u.srcVal))
		u.haveTarget = false
	case "SOC":
		u.target |= u.srcVal
		updateCmpZero(st, u.target)
	case "SOCB":
		u.target = (u.target | u.srcVal) & 0xff
		updateCmpZeroByte(st, uint8(u.target))
		updateParity(st, uint8(u.target))
	case "SZC":
		u.target &= ^u.srcVal
		updateCmpZero(st, u.target)
	case "SZCB":
		u.target = (u.target &^ u.srcVal) & 0xff
		updateCmpZeroByte(st, uint8(u.target))
		updateParity(st, uint8(u.target))
	}
}

func (u *execUnit) writeFormat1(st *state.State) {
	if !u.haveTarget {
		return
	}
	name := u.inst.Def.Mnemonic
	byteOp := isByteOp(name)
	if !u.dest.valid {
		// MOV family resolves the destination here, so the
		// autoincrement side effect lands in the write phase.
		u.dest = u.resolve(st, int(u.inst.Param("Td")), int(u.inst.Param("D")), u.inst.DestImm, byteOp)
	}
	if byteOp {
		writeByte(st, u.dest, uint8(u.target))
	} else {
		writeWord(st, u.dest, u.target)
	}
}

// Byte compare, LGT from the unsigned and AGT from the signed bytes.
func cmpByte(st *state.State, a, b uint8) {
	_ = st.ST.Clear(status.LGT)
	_ = st.ST.Clear(status.AGT)
	if a > b {
		_ = st.ST.Set(status.LGT)
	}
	if int8(a) > int8(b) {
		_ = st.ST.Set(status.AGT)
	}
	updateEq(st, uint16(a), uint16(b))
}
