/*
 * T990 - Control flow test cases.
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
	"testing"

	"github.com/rcornwell/T990/emu/state"
	"github.com/rcornwell/T990/emu/status"
)

// Stage a program and the reset vectors: workspace at wp, entry at
// pc. Returns a flow sitting at PowerOn.
func testFlow(prog []uint16, pc, wp uint16) *Flow {
	st := state.NewState()
	st.Mem.PutWord(0x0000, wp)
	st.Mem.PutWord(0x0002, pc)
	for i, w := range prog {
		st.Mem.PutWord(pc+uint16(2*i), w)
	}
	return NewFlow(st)
}

// States from power on through the first executed instruction:
// PowerOn Reset Begin C C2 A A2 B. Each following instruction costs
// five more: D C2 A A2 B.
const (
	statesFirstInst = 8
	statesPerInst   = 5
)

// LI R0,>0042 then INC R1.
func TestScenarioLIThenINC(t *testing.T) {
	f := testFlow([]uint16{0x0200, 0x0042, 0x0581}, 0x0100, 0x0200)
	st := f.Machine()
	f.Run(statesFirstInst + statesPerInst)
	if st.Register(0) != 0x0042 {
		t.Errorf("R0 got %04x", st.Register(0))
	}
	if st.Register(1) != 0x0001 {
		t.Errorf("R1 got %04x", st.Register(1))
	}
	if st.ST.Get(status.EQUAL) {
		t.Error("EQUAL should be clear")
	}
	if !st.ST.Get(status.AGT) {
		t.Error("AGT should be set")
	}
}

// MOV R3,R4 with a negative value.
func TestScenarioMOV(t *testing.T) {
	f := testFlow([]uint16{0xc103}, 0x0100, 0x0200)
	st := f.Machine()
	st.Mem.PutWord(0x0200+2*3, 0xbeef)
	f.Run(statesFirstInst)
	if st.Register(4) != 0xbeef {
		t.Errorf("R4 got %04x", st.Register(4))
	}
	if !st.ST.Get(status.LGT) || st.ST.Get(status.AGT) || st.ST.Get(status.EQUAL) {
		t.Errorf("MOV flags wrong: %04x", st.ST.Word())
	}
}

// A R2,R1 carries out of the word.
func TestScenarioAddCarry(t *testing.T) {
	f := testFlow([]uint16{0xa042}, 0x0100, 0x0200)
	st := f.Machine()
	st.Mem.PutWord(0x0200+2*1, 0xffff)
	st.Mem.PutWord(0x0200+2*2, 0x0001)
	f.Run(statesFirstInst)
	if st.Register(1) != 0 {
		t.Errorf("R1 got %04x", st.Register(1))
	}
	if !st.ST.Get(status.CARRY) || st.ST.Get(status.OVERFLOW) || !st.ST.Get(status.EQUAL) {
		t.Errorf("A flags wrong: %04x", st.ST.Word())
	}
}

// A taken JMP lands at opcode + 2 + 2*disp. The
// marker instruction there proves where execution resumed.
func TestScenarioJumpTaken(t *testing.T) {
	prog := []uint16{0x1004} // JMP +4 words
	f := testFlow(prog, 0x0100, 0x0200)
	st := f.Machine()
	st.Mem.PutWord(0x010a, 0x0205) // LI R5,>1234
	st.Mem.PutWord(0x010c, 0x1234)
	f.Run(statesFirstInst + statesPerInst)
	if st.Register(5) != 0x1234 {
		t.Errorf("jump should land at 010a, R5 got %04x", st.Register(5))
	}
}

// JNC with CARRY set falls through to the next word
// and consumes the carry bit.
func TestScenarioJNCNotTaken(t *testing.T) {
	prog := []uint16{0x1702, 0x0205, 0x1234} // JNC +2; LI R5,>1234
	f := testFlow(prog, 0x0100, 0x0200)
	st := f.Machine()
	// Park the flow right before instruction begin, then raise carry.
	f.Run(5)
	if f.State() != FlowA {
		t.Fatalf("expected state A after 5 changes, got %v", f.State())
	}
	_ = st.ST.Set(status.CARRY)
	f.Run(statesFirstInst + statesPerInst - 5)
	if st.Register(5) != 0x1234 {
		t.Errorf("fall through should execute the LI at 0102, R5 got %04x", st.Register(5))
	}
	if st.ST.Get(status.CARRY) {
		t.Error("CARRY should have been consumed by the check")
	}
}

// Word 0000 is in a MID range; the flow routes
// through F and G, flags ILLOP, and moves no register.
func TestScenarioIllop(t *testing.T) {
	f := testFlow([]uint16{0x0000}, 0x0100, 0x0200)
	st := f.Machine()
	f.Run(7) // PowerOn Reset Begin C C2 F G
	if f.State() != FlowA {
		t.Fatalf("expected state A after G, got %v", f.State())
	}
	if !st.ErrorFlag(state.FlagIllop) {
		t.Error("error flag 13 should be set")
	}
	for reg := 0; reg <= 12; reg++ {
		if st.Register(reg) != 0 {
			t.Errorf("R%d mutated to %04x", reg, st.Register(reg))
		}
	}
}

// The ILLOP path runs on to the internal trap vector.
func TestIllopDispatch(t *testing.T) {
	f := testFlow([]uint16{0x0000}, 0x0100, 0x0200)
	st := f.Machine()
	st.Mem.PutWord(0x0008, 0x0300) // internal trap workspace
	st.Mem.PutWord(0x000a, 0x0180) // internal trap entry
	// PowerOn Reset Begin C C2 F G A B D E Begin.
	f.Run(12)
	if f.State() != FlowC {
		t.Fatalf("expected C after trap context switch, got %v", f.State())
	}
	if st.WP != 0x0300 || st.PC != 0x0180 {
		t.Errorf("trap context wrong: WP %04x PC %04x", st.WP, st.PC)
	}
	if st.ST.Mask() != 1 {
		t.Errorf("internal trap mask should be 1, got %x", st.ST.Mask())
	}
}

// External interrupt dispatch through state E: context switch to the
// level vectors, mask drops to level minus one, old context lands in
// R13..R15.
func TestExternalInterruptDispatch(t *testing.T) {
	prog := []uint16{0x0200, 0x0042} // LI R0,>0042
	f := testFlow(prog, 0x0100, 0x0200)
	st := f.Machine()
	st.Mem.PutWord(4*3, 0x0300)   // level 3 workspace
	st.Mem.PutWord(4*3+2, 0x0180) // level 3 entry
	st.Mem.PutWord(0x0180, 0x0205) // LI R5,>4321
	st.Mem.PutWord(0x0182, 0x4321)

	f.Run(5)
	st.ST.SetMask(5)
	_ = st.Ints.Raise(3)

	// A A2 B D E Begin C C2 A A2 B: run the first handler
	// instruction to completion; its post execute check runs below.
	f.Run(11)
	if st.WP != 0x0300 {
		t.Fatalf("handler workspace not installed: %04x", st.WP)
	}
	if st.ST.Mask() != 2 {
		t.Errorf("mask should drop to level-1: %x", st.ST.Mask())
	}
	if st.Register(13) != 0x0200 {
		t.Errorf("old WP should be in R13: %04x", st.Register(13))
	}
	if st.Register(14) != 0x0104 {
		t.Errorf("old PC should point at the next instruction: %04x", st.Register(14))
	}
	if st.Register(5) != 0x4321 {
		t.Errorf("handler first instruction did not run, R5 %04x", st.Register(5))
	}
	if !f.ActiveInterruptRequest() {
		t.Fatal("request should still be in service before D")
	}
	f.Run(1) // D clears the in service latch
	if f.ActiveInterruptRequest() {
		t.Error("request should clear after the first handler instruction")
	}
}

// A masked external level does not dispatch.
func TestMaskedInterruptHeld(t *testing.T) {
	prog := []uint16{0x0200, 0x0042, 0x0581} // LI then INC
	f := testFlow(prog, 0x0100, 0x0200)
	st := f.Machine()
	f.Run(5)
	// Mask stays 0 after reset; level 3 is not permitted.
	_ = st.Ints.Raise(3)
	f.Run(statesFirstInst + statesPerInst - 5)
	if st.WP != 0x0200 {
		t.Errorf("masked interrupt must not context switch: WP %04x", st.WP)
	}
	if st.Register(1) != 1 {
		t.Errorf("program should keep running, R1 %04x", st.Register(1))
	}
}

// NMI dispatch uses the top of memory vectors, PC word first.
func TestNMIDispatch(t *testing.T) {
	prog := []uint16{0x0200, 0x0042}
	f := testFlow(prog, 0x0100, 0x0200)
	st := f.Machine()
	st.Mem.PutWord(0xfffc, 0x0180) // NMI PC
	st.Mem.PutWord(0xfffe, 0x0300) // NMI WP

	f.Run(5)
	st.Ints.RaiseNMI()
	f.Run(6) // A A2 B D E Begin
	if f.State() != FlowC {
		t.Fatalf("expected C after NMI switch, got %v", f.State())
	}
	if st.WP != 0x0300 || st.PC != 0x0180 {
		t.Errorf("NMI context wrong: WP %04x PC %04x", st.WP, st.PC)
	}
	if st.Ints.NMI() {
		t.Error("NMI line should clear on dispatch")
	}
}

// IDLE parks the run loop; a raised interrupt releases it.
func TestIdleStopsRunLoop(t *testing.T) {
	f := testFlow([]uint16{0x0340}, 0x0100, 0x0200)
	st := f.Machine()
	n := f.Run(100)
	if n != 7 {
		t.Fatalf("IDLE should stop after 7 changes, ran %d", n)
	}
	if f.State() != FlowA2 {
		t.Fatalf("expected to park in A2, got %v", f.State())
	}

	// Still parked on re-entry.
	if n := f.Run(1); n != 1 || f.State() != FlowA2 {
		t.Fatalf("IDLE should keep parking, state %v", f.State())
	}

	_ = st.Ints.Raise(0)
	f.Run(1)
	if f.State() != FlowB {
		t.Errorf("interrupt should release IDLE into B, got %v", f.State())
	}
}

// A privileged op in non privileged mode flags the violation and,
// with the mask open, dispatches the error trap.
func TestPrivilegedViolation(t *testing.T) {
	f := testFlow([]uint16{0x03e0}, 0x0100, 0x0200) // LREX
	st := f.Machine()
	st.Mem.PutWord(0x0008, 0x0300)
	st.Mem.PutWord(0x000a, 0x0180)

	f.Run(4)
	if f.State() != FlowC2 {
		t.Fatalf("expected C2, got %v", f.State())
	}
	_ = st.ST.Set(status.PRIVILEGED)
	st.ST.SetMask(5)
	f.Run(1)
	if f.State() != FlowE {
		t.Fatalf("violation should head to E, got %v", f.State())
	}
	if !st.ErrorFlag(state.FlagPrivop) {
		t.Error("error flag 14 should be set")
	}
	f.Run(2) // E Begin
	if st.WP != 0x0300 || st.PC != 0x0180 {
		t.Errorf("error trap context wrong: WP %04x PC %04x", st.WP, st.PC)
	}
}

// With the mask closed the violation is flagged but execution
// continues.
func TestPrivilegedViolationMasked(t *testing.T) {
	f := testFlow([]uint16{0x03e0}, 0x0100, 0x0200)
	st := f.Machine()
	f.Run(4)
	_ = st.ST.Set(status.PRIVILEGED)
	// Mask is 0.
	f.Run(1)
	if f.State() != FlowA {
		t.Fatalf("masked violation should continue to A, got %v", f.State())
	}
	if !st.ErrorFlag(state.FlagPrivop) {
		t.Error("error flag 14 should still be set")
	}
}

// Overflow with the overflow interrupt enabled flags the trap.
func TestOverflowTrap(t *testing.T) {
	prog := []uint16{0xa042} // A R2,R1 overflowing
	f := testFlow(prog, 0x0100, 0x0200)
	st := f.Machine()
	st.Mem.PutWord(0x0200+2*1, 0x7fff)
	st.Mem.PutWord(0x0200+2*2, 0x0001)
	st.Mem.PutWord(0x0008, 0x0300)
	st.Mem.PutWord(0x000a, 0x0180)

	f.Run(5)
	_ = st.ST.Set(status.OVERFLOW_INT_ENAB)
	st.ST.SetMask(5)
	f.Run(3) // A A2 B
	f.Run(1) // D sees overflow
	if f.State() != FlowE {
		t.Fatalf("overflow should dispatch, got %v", f.State())
	}
	if !st.ErrorFlag(state.FlagOverflow) {
		t.Error("error flag 4 should be set")
	}
}

// Run never leaves the state tag outside the declared set and
// resumes exactly where it stopped.
func TestFlowStateAlwaysKnown(t *testing.T) {
	for k := 0; k <= 30; k++ {
		f := testFlow([]uint16{0x0200, 0x0042, 0x0581}, 0x0100, 0x0200)
		f.Run(k)
		if _, ok := flowStateNames[f.State()]; !ok {
			t.Fatalf("run(%d) left unknown state %d", k, int(f.State()))
		}
	}

	// Stepwise and batch runs land in the same place.
	a := testFlow([]uint16{0x0200, 0x0042, 0x0581}, 0x0100, 0x0200)
	b := testFlow([]uint16{0x0200, 0x0042, 0x0581}, 0x0100, 0x0200)
	a.Run(13)
	for i := 0; i < 13; i++ {
		b.Run(1)
	}
	if a.State() != b.State() {
		t.Errorf("stepped run diverged: %v vs %v", a.State(), b.State())
	}
	if a.Machine().PC != b.Machine().PC {
		t.Errorf("stepped PC diverged: %04x vs %04x", a.Machine().PC, b.Machine().PC)
	}
}

// Reset returns the flow to the power up path without touching
// memory.
func TestFlowReset(t *testing.T) {
	f := testFlow([]uint16{0x0200, 0x0042}, 0x0100, 0x0200)
	st := f.Machine()
	f.Run(statesFirstInst)
	if st.Register(0) != 0x0042 {
		t.Fatalf("program did not run")
	}
	f.Reset()
	if f.State() != FlowReset {
		t.Errorf("Reset should rewind the state machine, got %v", f.State())
	}
	f.Run(statesFirstInst - 1)
	if st.Register(0) != 0x0042 {
		t.Errorf("rerun should reload R0: %04x", st.Register(0))
	}
}
