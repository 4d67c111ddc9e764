/*
 * T990 - Interrupt request lines
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

package interrupt

import "errors"

// Internal trap kinds raised by the processor itself rather than a
// device line.
type Internal int

const (
	RESET Internal = iota // Power up or console reset
	ILLOP                 // Illegal opcode / error trap
)

// Level outside 0..15.
var ErrBadLevel = errors.New("interrupt level out of range")

// List tracks the sixteen prioritized external request lines, the
// non-maskable line, and the internal traps. Level 0 is the highest
// priority.
type List struct {
	pending  uint16 // bit n = level n requested
	nmi      bool
	internal [2]bool
}

// Raise an external interrupt level.
func (il *List) Raise(level int) error {
	if level < 0 || level > 15 {
		return ErrBadLevel
	}
	il.pending |= 1 << level
	return nil
}

// Clear an external interrupt level.
func (il *List) Clear(level int) error {
	if level < 0 || level > 15 {
		return ErrBadLevel
	}
	il.pending &= ^(1 << uint16(level))
	return nil
}

// Lowest numbered (highest priority) raised level.
func (il *List) LowestRaised() (int, bool) {
	if il.pending == 0 {
		return 0, false
	}
	for level := 0; level <= 15; level++ {
		if (il.pending & (1 << level)) != 0 {
			return level, true
		}
	}
	return 0, false
}

// True if any external level is requested.
func (il *List) AnyRaised() bool {
	return il.pending != 0
}

// Raise the non-maskable line.
func (il *List) RaiseNMI() {
	il.nmi = true
}

// Clear the non-maskable line.
func (il *List) ClearNMI() {
	il.nmi = false
}

// State of the non-maskable line.
func (il *List) NMI() bool {
	return il.nmi
}

// Raise an internal trap.
func (il *List) RaiseInternal(kind Internal) {
	il.internal[kind] = true
}

// Clear an internal trap.
func (il *List) ClearInternal(kind Internal) {
	il.internal[kind] = false
}

// State of an internal trap.
func (il *List) HasRaisedInternal(kind Internal) bool {
	return il.internal[kind]
}

// True if any internal trap is raised.
func (il *List) AnyInternal() bool {
	return il.internal[RESET] || il.internal[ILLOP]
}

// Drop every request, used by reset.
func (il *List) ClearAll() {
	il.pending = 0
	il.nmi = false
	il.internal[RESET] = false
	il.internal[ILLOP] = false
}
