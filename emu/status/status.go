/*
 * T990 - Processor status register
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

package status

import "errors"

// The status register is a packed 16 bit word. Bits are numbered in
// 990 order, bit 0 being the most significant. Bits 0 to 11 are single
// condition and mode flags, bits 12 to 15 hold the interrupt mask.
const (
	LGT               = 0  // Logical greater than
	AGT               = 1  // Arithmetic greater than
	EQUAL             = 2  // Equal
	CARRY             = 3  // Carry out
	OVERFLOW          = 4  // Signed overflow
	PARITY            = 5  // Odd parity
	XOP               = 6  // XOP in progress
	PRIVILEGED        = 7  // Non-privileged mode
	MAPFILE_ENABLED   = 8  // Map file selection
	MEMORY_MAPPED     = 9  // Memory mapping on
	OVERFLOW_INT_ENAB = 10 // Overflow interrupt enable
	WCS_ENABLED       = 11 // Writable control store enable
)

// First and last bit of the interrupt mask field.
const (
	maskFirst = 12
	maskLast  = 15
)

// Attempt to touch bits 12..15 through the single bit API.
var ErrMaskBit = errors.New("interrupt mask bits are not addressable as flags")

// Register is the packed status word.
type Register struct {
	word uint16
}

// Mask for a bit in 990 numbering, bit 0 most significant.
func bitMask(bit int) uint16 {
	return 1 << (15 - bit)
}

// Get a single status bit.
func (st *Register) Get(bit int) bool {
	return (st.word & bitMask(bit)) != 0
}

// Set a single status bit. The interrupt mask field is refused.
func (st *Register) Set(bit int) error {
	if bit >= maskFirst && bit <= maskLast {
		return ErrMaskBit
	}
	st.word |= bitMask(bit)
	return nil
}

// Clear a single status bit. The interrupt mask field is refused.
func (st *Register) Clear(bit int) error {
	if bit >= maskFirst && bit <= maskLast {
		return ErrMaskBit
	}
	st.word &= ^bitMask(bit)
	return nil
}

// Get the 4 bit interrupt mask.
func (st *Register) Mask() uint16 {
	return st.word & 0x000f
}

// Set the 4 bit interrupt mask.
func (st *Register) SetMask(mask uint16) {
	st.word = (st.word & 0xfff0) | (mask & 0x000f)
}

// Full status word, used by context switches.
func (st *Register) Word() uint16 {
	return st.word
}

// Load the full status word, used by context switches.
func (st *Register) SetWord(value uint16) {
	st.word = value
}
