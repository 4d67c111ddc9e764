/*
 * T990 - Core simulator loop.
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

package core

import (
	"log/slog"
	"sync"
	"time"

	"github.com/rcornwell/T990/emu/cpu"
	"github.com/rcornwell/T990/emu/state"
)

// Control messages the host can send a running simulator.
type MsgType int

const (
	Start MsgType = iota
	Stop
	Step
	Reset
	RaiseInt
	ClearInt
	RaiseNMI
)

// Packet carries one control message; Level is the interrupt level
// for the interrupt messages.
type Packet struct {
	Msg   MsgType
	Level int
}

// State handler invocations per slice of the run loop. The bound
// keeps the loop responsive to control packets; the flow machine
// resumes mid instruction without noticing.
const runSlice = 5000

// Core owns the machine and drives the flow state machine on its own
// goroutine. All mutation while running goes through control
// packets; direct state access is for a stopped machine.
type Core struct {
	wg      sync.WaitGroup
	done    chan struct{}
	control chan Packet
	running bool
	flow    *cpu.Flow
}

// Create a simulator around a machine state.
func NewCore(st *state.State) *Core {
	return &Core{
		done:    make(chan struct{}),
		control: make(chan Packet, 8),
		flow:    cpu.NewFlow(st),
	}
}

// The flow under simulation, for console inspection while stopped.
func (c *Core) Flow() *cpu.Flow {
	return c.flow
}

// Machine state, for console inspection while stopped.
func (c *Core) Machine() *state.State {
	return c.flow.Machine()
}

// True while the run loop is executing instructions.
func (c *Core) Running() bool {
	return c.running
}

// Queue a control packet.
func (c *Core) Send(p Packet) {
	c.control <- p
}

// Run the simulator until Shutdown.
func (c *Core) StartLoop() {
	c.wg.Add(1)
	defer c.wg.Done()
	for {
		if c.running {
			n := c.flow.Run(runSlice)
			if n < runSlice {
				// The machine parked itself: IDLE, an attached
				// processor wait, or a crash.
				c.running = false
				slog.Info("simulator stopped", "state", c.flow.State().String())
				if reason := c.flow.CrashReason(); reason != "" {
					slog.Error("machine crashed", "reason", reason)
				}
			}
		}
		select {
		case <-c.done:
			slog.Info("shutdown simulator core")
			return
		case packet := <-c.control:
			c.processPacket(packet)
		default:
			if !c.running {
				// Nothing to do until the host says otherwise.
				select {
				case <-c.done:
					slog.Info("shutdown simulator core")
					return
				case packet := <-c.control:
					c.processPacket(packet)
				}
			}
		}
	}
}

// Stop the simulator loop and wait for it to drain.
func (c *Core) Shutdown() {
	close(c.done)
	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return
	case <-time.After(time.Second):
		slog.Warn("timed out waiting for simulator to finish")
		return
	}
}

// Apply one control packet.
func (c *Core) processPacket(packet Packet) {
	switch packet.Msg {
	case Start:
		c.running = true
	case Stop:
		c.running = false
	case Step:
		// One full instruction: begin through post execute checks.
		c.flow.Run(5)
	case Reset:
		c.running = false
		c.flow.Reset()
	case RaiseInt:
		if err := c.Machine().Ints.Raise(packet.Level); err != nil {
			slog.Error("bad interrupt level", "level", packet.Level)
		}
	case ClearInt:
		if err := c.Machine().Ints.Clear(packet.Level); err != nil {
			slog.Error("bad interrupt level", "level", packet.Level)
		}
	case RaiseNMI:
		c.Machine().Ints.RaiseNMI()
	}
}
