/*
 * T990 - Execution unit test cases.
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
	"testing"

	"github.com/rcornwell/T990/emu/state"
	"github.com/rcornwell/T990/emu/status"
)

// Fresh machine with the workspace at 0200.
func testState() *state.State {
	st := state.NewState()
	st.WP = 0x0200
	return st
}

// Run one decoded instruction through all three phases.
func runInst(t *testing.T, st *state.State, words ...uint16) *execUnit {
	t.Helper()
	inst, err := Decode(words)
	if err != nil {
		t.Fatalf("decode %04x failed: %v", words[0], err)
	}
	u := newExecUnit(inst)
	u.fetchOperands(st)
	if _, err := u.execute(st); err != nil {
		t.Fatalf("execute %s failed: %v", inst.Name(), err)
	}
	u.writeResults(st)
	return u
}

// Addressing law: a get followed by a set through the same resolved
// operand reads the stored value back, for every mode and register.
func TestAddressingModeLaws(t *testing.T) {
	for mode := 0; mode <= 3; mode++ {
		for reg := 0; reg <= 15; reg++ {
			if mode == modeSymbolic && reg != 0 {
				// Indexed uses the register as a base.
				continue
			}
			st := testState()
			if mode != modeRegister {
				st.SetRegister(reg, 0x3000)
			}
			u := newExecUnit(nil)
			op := u.resolve(st, mode, reg, 0x3000, false)
			u.src = op
			_ = readWord(st, op)
			op2 := u.resolve(st, mode, reg, 0x3000, false)
			writeWord(st, op2, 0x4242)
			op3 := u.resolve(st, mode, reg, 0x3000, false)
			if got := readWord(st, op3); got != 0x4242 {
				t.Errorf("mode %d reg %d: readback got %04x", mode, reg, got)
			}
		}
	}
}

// Indexed mode adds the register to the address word.
func TestIndexedMode(t *testing.T) {
	st := testState()
	st.SetRegister(7, 0x0010)
	st.Mem.PutWord(0x3010, 0x7777)
	u := newExecUnit(nil)
	op := u.resolve(st, modeSymbolic, 7, 0x3000, false)
	if got := readWord(st, op); got != 0x7777 {
		t.Errorf("indexed read got %04x", got)
	}
}

// Autoincrement bumps the register by two for word ops and one for
// byte ops, exactly once per operand fetch.
func TestAutoincrementStep(t *testing.T) {
	st := testState()
	st.SetRegister(5, 0x3000)
	u := newExecUnit(nil)
	u.src = u.resolve(st, modeAutoInc, 5, 0, false)
	if st.Register(5) != 0x3002 {
		t.Errorf("word autoincrement got %04x", st.Register(5))
	}

	st.SetRegister(6, 0x3000)
	u2 := newExecUnit(nil)
	u2.src = u2.resolve(st, modeAutoInc, 6, 0, true)
	if st.Register(6) != 0x3001 {
		t.Errorf("byte autoincrement got %04x", st.Register(6))
	}
}

// Autoincrement wraps modulo 2^16 and never touches OVERFLOW.
func TestAutoincrementWrap(t *testing.T) {
	st := testState()
	st.SetRegister(3, 0xfffe)
	u := newExecUnit(nil)
	op := u.resolve(st, modeAutoInc, 3, 0, false)
	if op.addr != 0xfffe {
		t.Errorf("operand address should be the pre increment value: %04x", op.addr)
	}
	if st.Register(3) != 0x0000 {
		t.Errorf("autoincrement should wrap to 0000: %04x", st.Register(3))
	}
	if st.ST.Get(status.OVERFLOW) {
		t.Error("autoincrement wrap must not set OVERFLOW")
	}
}

// MOV flags track the moved value.
func TestMOVFlags(t *testing.T) {
	st := testState()
	st.SetRegister(3, 0xbeef)
	runInst(t, st, 0xc103) // MOV R3,R4
	if st.Register(4) != 0xbeef {
		t.Errorf("R4 got %04x", st.Register(4))
	}
	if !st.ST.Get(status.LGT) {
		t.Error("LGT should be set, beef > 0 unsigned")
	}
	if st.ST.Get(status.AGT) {
		t.Error("AGT should be clear, beef is negative signed")
	}
	if st.ST.Get(status.EQUAL) {
		t.Error("EQUAL should be clear")
	}
}

// Add with unsigned carry out.
func TestAddCarry(t *testing.T) {
	st := testState()
	st.SetRegister(1, 0xffff)
	st.SetRegister(2, 0x0001)
	runInst(t, st, 0xa042) // A R2,R1
	if st.Register(1) != 0 {
		t.Errorf("R1 got %04x", st.Register(1))
	}
	if !st.ST.Get(status.CARRY) {
		t.Error("CARRY should be set")
	}
	if st.ST.Get(status.OVERFLOW) {
		t.Error("OVERFLOW should be clear")
	}
	if !st.ST.Get(status.EQUAL) {
		t.Error("EQUAL should be set, result is zero")
	}
}

// Signed overflow on add of two positives.
func TestAddOverflow(t *testing.T) {
	st := testState()
	st.SetRegister(1, 0x7fff)
	st.SetRegister(2, 0x0001)
	runInst(t, st, 0xa042) // A R2,R1
	if st.Register(1) != 0x8000 {
		t.Errorf("R1 got %04x", st.Register(1))
	}
	if !st.ST.Get(status.OVERFLOW) {
		t.Error("OVERFLOW should be set")
	}
	if st.ST.Get(status.CARRY) {
		t.Error("CARRY should be clear")
	}
}

// Subtract sets carry on unsigned underflow.
func TestSubtractBorrow(t *testing.T) {
	st := testState()
	st.SetRegister(1, 0x0001)
	st.SetRegister(2, 0x0002)
	runInst(t, st, 0x6042) // S R2,R1
	if st.Register(1) != 0xffff {
		t.Errorf("R1 got %04x", st.Register(1))
	}
	if !st.ST.Get(status.CARRY) {
		t.Error("CARRY should flag the underflow")
	}
}

// Compare leaves both operands alone.
func TestCompare(t *testing.T) {
	st := testState()
	st.SetRegister(1, 0x0005)
	st.SetRegister(2, 0x0009)
	runInst(t, st, 0x8042) // C R2,R1
	if st.Register(1) != 5 || st.Register(2) != 9 {
		t.Error("C must not move data")
	}
	if !st.ST.Get(status.LGT) || !st.ST.Get(status.AGT) || st.ST.Get(status.EQUAL) {
		t.Errorf("C 9,5 flags wrong: %04x", st.ST.Word())
	}
}

func TestSOCAndSZC(t *testing.T) {
	st := testState()
	st.SetRegister(1, 0x00f0)
	st.SetRegister(2, 0x0f0f)
	runInst(t, st, 0xe042) // SOC R2,R1
	if st.Register(1) != 0x0fff {
		t.Errorf("SOC got %04x", st.Register(1))
	}

	st.SetRegister(1, 0x0fff)
	st.SetRegister(2, 0x00ff)
	runInst(t, st, 0x4042) // SZC R2,R1
	if st.Register(1) != 0x0f00 {
		t.Errorf("SZC got %04x", st.Register(1))
	}
}

// Byte ops use the high byte of register operands and set parity.
func TestByteOps(t *testing.T) {
	st := testState()
	st.SetRegister(3, 0x0700) // byte 07, three one bits
	st.SetRegister(4, 0x0000)
	runInst(t, st, 0xd103) // MOVB R3,R4
	if st.Register(4) != 0x0700 {
		t.Errorf("MOVB should land in the high byte: %04x", st.Register(4))
	}
	if !st.ST.Get(status.PARITY) {
		t.Error("PARITY should be set for three one bits")
	}

	st.SetRegister(1, 0xff00)
	st.SetRegister(2, 0x0100)
	runInst(t, st, 0xb042) // AB R2,R1
	if st.Register(1) != 0x0000 {
		t.Errorf("AB wrap got %04x", st.Register(1))
	}
	if !st.ST.Get(status.CARRY) {
		t.Error("AB carry out of 8 bits should set CARRY")
	}
	if !st.ST.Get(status.EQUAL) {
		t.Error("AB zero result should set EQUAL")
	}
}

// A byte op through autoincrement bumps the pointer by one.
func TestByteAutoincrement(t *testing.T) {
	st := testState()
	st.SetRegister(3, 0x3000)
	st.Mem.PutByte(0x3000, 0x41)
	// MOVB *R3+,R4: Ts=3 S=3 D=4.
	runInst(t, st, 0xd000|3<<4|3|4<<6)
	if st.Register(3) != 0x3001 {
		t.Errorf("byte autoincrement got %04x", st.Register(3))
	}
	if st.Register(4)>>8 != 0x41 {
		t.Errorf("MOVB value got %04x", st.Register(4))
	}
}

// Source and destination naming the same autoincrement register
// increment once and address the same word.
func TestSharedAutoincrement(t *testing.T) {
	st := testState()
	st.SetRegister(3, 0x3000)
	st.Mem.PutWord(0x3000, 0x0011)
	// A *R3+,*R3+: Td=3 D=3 Ts=3 S=3.
	runInst(t, st, 0xa000|3<<10|3<<6|3<<4|3)
	if st.Register(3) != 0x3002 {
		t.Errorf("shared autoincrement should bump once: %04x", st.Register(3))
	}
	if got := st.Mem.GetWord(0x3000); got != 0x0022 {
		t.Errorf("doubling in place got %04x", got)
	}
	if got := st.Mem.GetWord(0x3002); got != 0 {
		t.Errorf("word after the operand must stay clear: %04x", got)
	}
}

func TestIncDecFamily(t *testing.T) {
	st := testState()
	st.SetRegister(1, 0x0000)
	runInst(t, st, 0x0581) // INC R1
	if st.Register(1) != 1 || !st.ST.Get(status.AGT) || st.ST.Get(status.EQUAL) {
		t.Errorf("INC got %04x flags %04x", st.Register(1), st.ST.Word())
	}
	runInst(t, st, 0x05c1) // INCT R1
	if st.Register(1) != 3 {
		t.Errorf("INCT got %04x", st.Register(1))
	}
	runInst(t, st, 0x0641) // DECT R1
	if st.Register(1) != 1 {
		t.Errorf("DECT got %04x", st.Register(1))
	}
	runInst(t, st, 0x0601) // DEC R1
	if st.Register(1) != 0 || !st.ST.Get(status.EQUAL) {
		t.Errorf("DEC got %04x flags %04x", st.Register(1), st.ST.Word())
	}
	// DEC through zero underflows and flags carry.
	runInst(t, st, 0x0601)
	if st.Register(1) != 0xffff || !st.ST.Get(status.CARRY) {
		t.Errorf("DEC underflow got %04x flags %04x", st.Register(1), st.ST.Word())
	}
}

func TestLI(t *testing.T) {
	st := testState()
	runInst(t, st, 0x0205, 0x8000) // LI R5,>8000
	if st.Register(5) != 0x8000 {
		t.Errorf("LI got %04x", st.Register(5))
	}
	if !st.ST.Get(status.LGT) || st.ST.Get(status.AGT) || st.ST.Get(status.EQUAL) {
		t.Errorf("LI flags wrong: %04x", st.ST.Word())
	}
}

// Every jump variant selects on the right bits.
func TestJumpConditions(t *testing.T) {
	cases := []struct {
		name string
		bits []int
		run  bool
	}{
		{"JMP", nil, true},
		{"JEQ", []int{status.EQUAL}, true},
		{"JEQ", nil, false},
		{"JNE", nil, true},
		{"JNE", []int{status.EQUAL}, false},
		{"JGT", []int{status.AGT}, true},
		{"JGT", nil, false},
		{"JLT", nil, true},
		{"JLT", []int{status.AGT}, false},
		{"JLT", []int{status.EQUAL}, false},
		{"JHE", []int{status.LGT}, true},
		{"JHE", []int{status.EQUAL}, true},
		{"JHE", nil, false},
		{"JH", []int{status.LGT}, true},
		{"JH", []int{status.LGT, status.EQUAL}, false},
		{"JL", nil, true},
		{"JL", []int{status.LGT}, false},
		{"JLE", nil, true},
		{"JLE", []int{status.LGT}, false},
		{"JLE", []int{status.LGT, status.EQUAL}, true},
		{"JNC", nil, true},
		{"JNC", []int{status.CARRY}, false},
		{"JOC", []int{status.CARRY}, true},
		{"JOC", nil, false},
		{"JNO", nil, true},
		{"JNO", []int{status.OVERFLOW}, false},
		{"JOP", []int{status.PARITY}, true},
		{"JOP", nil, false},
	}
	for _, tc := range cases {
		st := testState()
		for _, bit := range tc.bits {
			_ = st.ST.Set(bit)
		}
		def, err := GetByName(tc.name)
		if err != nil {
			t.Fatalf("%s missing: %v", tc.name, err)
		}
		inst, _ := Decode([]uint16{def.Opcode | 0x01})
		u := newExecUnit(inst)
		u.fetchOperands(st)
		if u.run != tc.run {
			t.Errorf("%s with bits %v: run %v want %v", tc.name, tc.bits, u.run, tc.run)
		}
	}
}

// A selected jump moves the PC by the signed word displacement; a
// rejected one restores the pre advance. The instruction begin state
// has already backed the PC to the opcode address here.
func TestJumpDisplacement(t *testing.T) {
	st := testState()
	st.PC = 0x0100
	inst, _ := Decode([]uint16{0x1004}) // JMP +4
	u := newExecUnit(inst)
	u.fetchOperands(st)
	u.execute(st)
	if st.PC != 0x010a {
		t.Errorf("JMP +4 got PC %04x", st.PC)
	}

	st.PC = 0x0100
	inst, _ = Decode([]uint16{0x10fe}) // JMP -2
	u = newExecUnit(inst)
	u.fetchOperands(st)
	u.execute(st)
	if st.PC != 0x00fe {
		t.Errorf("JMP -2 got PC %04x", st.PC)
	}

	// Rejected conditional falls through to the next word.
	st.PC = 0x0100
	_ = st.ST.Set(status.CARRY)
	inst, _ = Decode([]uint16{0x1702}) // JNC +2
	u = newExecUnit(inst)
	u.fetchOperands(st)
	u.execute(st)
	if st.PC != 0x0102 {
		t.Errorf("JNC fall through got PC %04x", st.PC)
	}
}

// Conditional jumps consume the bits they looked at.
func TestJumpConsumesFlags(t *testing.T) {
	st := testState()
	st.PC = 0x0100
	_ = st.ST.Set(status.CARRY)
	runInst(t, st, 0x1702) // JNC, not taken
	if st.ST.Get(status.CARRY) {
		t.Error("JNC should consume CARRY even when not taken")
	}

	st = testState()
	st.PC = 0x0100
	_ = st.ST.Set(status.EQUAL)
	_ = st.ST.Set(status.CARRY)
	runInst(t, st, 0x1304) // JEQ, taken
	if st.ST.Get(status.EQUAL) {
		t.Error("JEQ should consume EQUAL")
	}
	if !st.ST.Get(status.CARRY) {
		t.Error("JEQ must leave CARRY alone")
	}
}

// Catalogued ops without a body report unimplemented and move
// nothing.
func TestUnimplementedOp(t *testing.T) {
	for _, words := range [][]uint16{
		{0x3802}, // MPY R2
		{0x0380}, // RTWP
		{0x0a25}, // SLA R5,2
		{0x002a, 0x0003, 0x0000, 0x0000}, // AM
	} {
		st := testState()
		st.SetRegister(2, 0x1234)
		before := st.ST.Word()
		inst, err := Decode(words)
		if err != nil {
			t.Fatalf("decode %04x failed: %v", words[0], err)
		}
		u := newExecUnit(inst)
		u.fetchOperands(st)
		_, err = u.execute(st)
		if !errors.Is(err, ErrUnimplementedOp) {
			t.Errorf("%s should report unimplemented, got: %v", inst.Name(), err)
		}
		if st.ST.Word() != before || st.Register(2) != 0x1234 {
			t.Errorf("%s mutated state", inst.Name())
		}
	}
}

func TestValidateAndPrivilege(t *testing.T) {
	inst, _ := Decode([]uint16{0xc103})
	u := newExecUnit(inst)
	if err := u.validateParams(); err != nil {
		t.Errorf("MOV params should validate: %v", err)
	}
	if u.needsPrivilege() {
		t.Error("MOV needs no privilege")
	}

	inst, _ = Decode([]uint16{0x03e0}) // LREX
	u = newExecUnit(inst)
	if !u.needsPrivilege() {
		t.Error("LREX should need privilege")
	}
}
