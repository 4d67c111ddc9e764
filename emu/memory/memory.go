/*
 * T990 - Low level memory
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

package memory

// The 990 address space is 64K bytes organized as 32K 16 bit words.
// Addresses are byte addresses; word access ignores the low address
// bit. The even byte of a word is the most significant byte.
type Memory struct {
	mem [32 * 1024]uint16
}

const (
	// Size of memory in bytes.
	Size uint32 = 64 * 1024
)

// Create a new memory, all words zero.
func NewMemory() *Memory {
	return &Memory{}
}

// Get a word from memory. Odd addresses read the containing word.
func (m *Memory) GetWord(addr uint16) uint16 {
	return m.mem[addr>>1]
}

// Put a word to memory. Odd addresses write the containing word.
func (m *Memory) PutWord(addr uint16, data uint16) {
	m.mem[addr>>1] = data
}

// Get a byte from memory. Even addresses are the high byte of the word.
func (m *Memory) GetByte(addr uint16) uint8 {
	word := m.mem[addr>>1]
	if (addr & 1) == 0 {
		return uint8(word >> 8)
	}
	return uint8(word & 0xff)
}

// Put a byte to memory, leaving the other byte of the word alone.
func (m *Memory) PutByte(addr uint16, data uint8) {
	word := m.mem[addr>>1]
	if (addr & 1) == 0 {
		word = (word & 0x00ff) | (uint16(data) << 8)
	} else {
		word = (word & 0xff00) | uint16(data)
	}
	m.mem[addr>>1] = word
}
