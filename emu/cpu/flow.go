/*
 * T990 - Processor control flow
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

/*
   The control flow follows the 990 operation flowchart. One state
   handler runs per iteration of the driver loop and names its
   successor; the state tag is stored before the successor runs so an
   interrupted run resumes exactly where it stopped.

   Deliberate deviation from the hardware: the manual prefetches the
   next instruction before the current one writes its results. Here
   state B executes and writes first, then prefetches. A functional
   simulator sees no difference through memory, only through the
   relative order of fetch and store on the bus, which this core does
   not model.
*/

import (
	"fmt"

	"github.com/rcornwell/T990/emu/interrupt"
	"github.com/rcornwell/T990/emu/state"
	"github.com/rcornwell/T990/emu/status"
)

// Flow state tags.
type FlowState int

const (
	FlowPowerOn FlowState = iota
	FlowReset
	FlowBegin
	FlowA
	FlowA2
	FlowB
	FlowC
	FlowC2
	FlowD
	FlowE
	FlowF
	FlowF2
	FlowG
	FlowCrash
)

var flowStateNames = map[FlowState]string{
	FlowPowerOn: "PowerOn",
	FlowReset:   "Reset",
	FlowBegin:   "Begin",
	FlowA:       "A",
	FlowA2:      "A2",
	FlowB:       "B",
	FlowC:       "C",
	FlowC2:      "C2",
	FlowD:       "D",
	FlowE:       "E",
	FlowF:       "F",
	FlowF2:      "F2",
	FlowG:       "G",
	FlowCrash:   "Crash",
}

func (fs FlowState) String() string {
	if name, ok := flowStateNames[fs]; ok {
		return name
	}
	return fmt.Sprintf("FlowState(%d)", int(fs))
}

// Interrupt request latch. A request is locked in by instruction
// begin and consumed by the post execute checks; in service marks the
// window from dispatch until the first instruction of the handler
// completes, and guards against reentering dispatch inside it.
type irqLatch int

const (
	latchNone irqLatch = iota
	latchRequest
	latchInService
)

// Internal trap taken by the last context switch. The deeper
// semantics of the RESET and ILLOP begin-time checks were never
// implemented in the original; these hooks carry exactly what the
// flowchart needs and nothing more.
type lastTrap int

const (
	trapNone lastTrap = iota
	trapReset
	trapIllop
)

// Vector addresses.
const (
	vecResetWP  = 0x0000
	vecResetPC  = 0x0002
	vecErrorWP  = 0x0008 // internal trap 2, dual mapped
	vecErrorPC  = 0x000a
	vecNMIPC    = 0xfffc // note PC first, the reverse of normal vectors
	vecNMIWP    = 0xfffe
)

// Flow owns the processor state machine. It borrows the machine
// state for the duration of every Run call and stores no pointers
// back into the execution machinery.
type Flow struct {
	st    *state.State
	proc  Process
	state FlowState

	// Reset vector triple staged by Reset or E and consumed by Begin.
	stagedWP   uint16
	stagedPC   uint16
	stagedMask uint16

	latch     irqLatch
	last      lastTrap
	macroExit bool // G handed an instruction back to A

	execErr  error  // last unimplemented op report
	crashMsg string // reason the machine reached Crash
}

// Create a flow over a machine state.
func NewFlow(st *state.State) *Flow {
	return &Flow{st: st, state: FlowPowerOn}
}

// Back to the power on path. The staged vectors and instruction
// slots are dropped; memory and registers keep their contents.
func (f *Flow) Reset() {
	f.state = FlowReset
	f.latch = latchNone
	f.last = trapNone
	f.macroExit = false
	f.execErr = nil
	f.crashMsg = ""
	f.proc.Clear()
}

// Current state tag.
func (f *Flow) State() FlowState {
	return f.state
}

// Machine state the flow drives.
func (f *Flow) Machine() *state.State {
	return f.st
}

// Instruction in the current slot, for the console.
func (f *Flow) CurrentInstruction() *Instruction {
	return f.proc.Current()
}

// Last unimplemented op error reported by state B, if any.
func (f *Flow) ExecErr() error {
	return f.execErr
}

// Why the machine crashed, empty otherwise.
func (f *Flow) CrashReason() string {
	return f.crashMsg
}

// True while an interrupt request is locked in or being serviced.
func (f *Flow) ActiveInterruptRequest() bool {
	return f.latch != latchNone
}

// Run the state machine for at most maxStateChanges handler
// invocations. Returns the number actually performed; fewer than
// asked means a handler stopped the loop (IDLE, F2 or Crash).
func (f *Flow) Run(maxStateChanges int) int {
	for i := 0; i < maxStateChanges; i++ {
		next, cont := f.step()
		f.state = next
		if !cont {
			return i + 1
		}
	}
	return maxStateChanges
}

// Invoke the handler for the current state. Returns the successor
// tag and whether the run loop should continue.
func (f *Flow) step() (FlowState, bool) {
	switch f.state {
	case FlowPowerOn:
		return FlowReset, true
	case FlowReset:
		return f.stateReset()
	case FlowBegin:
		return f.stateBegin()
	case FlowA:
		return f.stateA()
	case FlowA2:
		return f.stateA2()
	case FlowB:
		return f.stateB()
	case FlowC:
		return f.stateC()
	case FlowC2:
		return f.stateC2()
	case FlowD:
		return f.stateD()
	case FlowE:
		return f.stateE()
	case FlowF:
		return f.stateF()
	case FlowF2:
		// Attached processor hand off is not simulated; yield to the
		// host instead of busy waiting.
		return FlowF2, false
	case FlowG:
		return f.stateG()
	case FlowCrash:
		return FlowCrash, false
	}
	f.crashMsg = fmt.Sprintf("unknown flow state %d", int(f.state))
	return FlowCrash, false
}

// Stage the power up vectors.
func (f *Flow) stateReset() (FlowState, bool) {
	f.stagedWP = f.st.Mem.GetWord(vecResetWP)
	f.stagedPC = f.st.Mem.GetWord(vecResetPC)
	f.stagedMask = 0
	f.last = trapReset
	return FlowBegin, true
}

// Context switch into the staged vectors. The old context lands in
// R13..R15 of the new workspace.
func (f *Flow) stateBegin() (FlowState, bool) {
	oldWP := f.st.WP
	oldPC := f.st.PC
	oldST := f.st.ST.Word()

	f.st.WP = f.stagedWP
	f.st.SetRegister(13, oldWP)
	f.st.SetRegister(14, oldPC)
	f.st.SetRegister(15, oldST)
	f.st.PC = f.stagedPC
	f.st.ST.SetMask(f.stagedMask)

	for bit := status.PRIVILEGED; bit <= status.WCS_ENABLED; bit++ {
		_ = f.st.ST.Clear(bit)
	}

	trap := f.last
	f.last = trapNone
	switch trap {
	case trapReset:
		f.st.ST.SetWord(0)
		f.st.ClearErrorFlags()
		if f.st.Ints.NMI() {
			return FlowB, true
		}
		return FlowC, true
	case trapIllop:
		if f.st.Ints.NMI() {
			return FlowB, true
		}
	}
	return FlowC, true
}

// Instruction begin.
func (f *Flow) stateA() (FlowState, bool) {
	if f.proc.CurrentIsJump() {
		// The fetch pre-advanced PC past the jump; back it out so the
		// displacement math in the jump body starts from the opcode.
		f.st.ReducePC()
	}
	f.proc.FetchOperands(f.st)

	if f.macroExit {
		// The only macrostore exit this core produces carries ILLOP;
		// lock in the interrupt request and run the instruction out.
		f.macroExit = false
		f.latch = latchRequest
		return FlowB, true
	}

	if !f.st.Ints.NMI() {
		switch f.currentMnemonic() {
		case "XOP", "BLWP", "X":
			// These finish before any interrupt is honored.
			return FlowB, true
		}
	}
	return FlowA2, true
}

// Interrupt check before execution.
func (f *Flow) stateA2() (FlowState, bool) {
	if f.latch != latchInService && f.interruptPermitted() {
		f.latch = latchRequest
		return FlowB, true
	}
	if f.currentMnemonic() == "IDLE" {
		// Hardware busywaits here; yield to the host instead.
		return FlowA2, false
	}
	return FlowB, true
}

// Execute the current instruction, then prefetch the next. See the
// ordering note at the top of the file.
func (f *Flow) stateB() (FlowState, bool) {
	if f.proc.Current() != nil {
		if _, err := f.proc.Execute(f.st); err != nil {
			f.execErr = err
		}
		f.proc.WriteResults(f.st)
	}
	f.proc.FetchNextInstruction(f.st)
	f.st.AdvancePC()
	f.proc.PromoteNextToCurrent()
	return FlowD, true
}

// First fetch after a context switch.
func (f *Flow) stateC() (FlowState, bool) {
	f.proc.FetchNextInstruction(f.st)
	f.st.AdvancePC()
	f.proc.PromoteNextToCurrent()
	return FlowC2, true
}

// Pre execution checks on the freshly fetched instruction.
func (f *Flow) stateC2() (FlowState, bool) {
	if f.proc.CurrentNeedsPrivilege() && f.st.ST.Get(status.PRIVILEGED) {
		f.st.SetErrorFlag(state.FlagPrivop)
		if f.st.ST.Mask() > 2 {
			f.st.Ints.RaiseInternal(interrupt.ILLOP)
			return FlowE, true
		}
	}
	if f.proc.CurrentIsMID() || f.proc.FetchedWithAPP() {
		return FlowF, true
	}
	return FlowA, true
}

// Post execution checks.
func (f *Flow) stateD() (FlowState, bool) {
	if f.st.ST.Get(status.OVERFLOW) && f.st.ST.Get(status.OVERFLOW_INT_ENAB) {
		f.st.SetErrorFlag(state.FlagOverflow)
		if f.st.ST.Mask() > 2 {
			f.st.Ints.RaiseInternal(interrupt.ILLOP)
			f.st.ReducePC()
			return FlowE, true
		}
	}
	if f.latch == latchInService {
		// The first instruction of the handler just completed.
		f.latch = latchNone
	} else if f.latch == latchRequest {
		f.st.ReducePC()
		return FlowE, true
	}
	return FlowC2, true
}

// Interrupt dispatch: stage the vectors for Begin.
func (f *Flow) stateE() (FlowState, bool) {
	f.latch = latchInService
	il := &f.st.Ints

	if il.NMI() {
		f.stagedPC = f.st.Mem.GetWord(vecNMIPC)
		f.stagedWP = f.st.Mem.GetWord(vecNMIWP)
		f.stagedMask = 0
		il.ClearNMI()
		return FlowBegin, true
	}
	if il.HasRaisedInternal(interrupt.ILLOP) {
		f.stagedWP = f.st.Mem.GetWord(vecErrorWP)
		f.stagedPC = f.st.Mem.GetWord(vecErrorPC)
		f.stagedMask = 1
		il.ClearInternal(interrupt.ILLOP)
		f.last = trapIllop
		return FlowBegin, true
	}
	level, ok := il.LowestRaised()
	if !ok {
		f.crashMsg = "interrupt dispatch entered with nothing raised"
		return FlowCrash, false
	}
	if level == 0 {
		f.stagedWP = f.st.Mem.GetWord(vecResetWP)
		f.stagedPC = f.st.Mem.GetWord(vecResetPC)
		f.stagedMask = 0
		return FlowBegin, true
	}
	f.stagedWP = f.st.Mem.GetWord(uint16(4 * level))
	f.stagedPC = f.st.Mem.GetWord(uint16(4*level + 2))
	f.stagedMask = uint16(level - 1)
	return FlowBegin, true
}

// Macrostore entry. The attached processor line is never active in
// this core, so control always falls through to G.
func (f *Flow) stateF() (FlowState, bool) {
	if f.proc.FetchedWithAPP() {
		return FlowF2, true
	}
	return FlowG, true
}

// Macrostore execution. Macrostore is permanently disabled here, so
// the instruction comes back as an illegal opcode.
func (f *Flow) stateG() (FlowState, bool) {
	f.st.SetErrorFlag(state.FlagIllop)
	f.st.Ints.RaiseInternal(interrupt.ILLOP)
	f.macroExit = true
	return FlowA, true
}

// Mnemonic of the current instruction, empty for an empty slot or an
// uncatalogued word.
func (f *Flow) currentMnemonic() string {
	inst := f.proc.Current()
	if inst == nil || inst.Def == nil {
		return ""
	}
	return inst.Def.Mnemonic
}

// A pending interrupt the processor would honor: the non maskable
// line, an internal trap, level zero, or an external level enabled by
// the current mask.
func (f *Flow) interruptPermitted() bool {
	il := &f.st.Ints
	if il.NMI() {
		return true
	}
	if il.AnyInternal() {
		return true
	}
	if level, ok := il.LowestRaised(); ok {
		return level == 0 || uint16(level) <= f.st.ST.Mask()
	}
	return false
}
