/*
 * T990 - Instruction codec
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
)

// Fewer words supplied than the instruction requires.
var ErrTruncated = errors.New("truncated instruction")

// Decode a word stream into one instruction. The stream must hold the
// opcode word and every extension word the instruction takes, in
// order: opcode, second opcode word, immediate, source address word,
// destination address word.
func Decode(words []uint16) (*Instruction, error) {
	if len(words) == 0 {
		return nil, ErrTruncated
	}
	inst, err := NewInstruction(words[0])
	if err != nil {
		return inst, err
	}
	next := 1
	take := func() (uint16, bool) {
		if next >= len(words) {
			return 0, false
		}
		w := words[next]
		next++
		return w, true
	}

	if inst.Def.HasSecondWord() {
		w, ok := take()
		if !ok {
			return nil, fmt.Errorf("%w: %s needs a second opcode word", ErrTruncated, inst.Name())
		}
		_ = inst.SetSecondWord(w)
	}
	if inst.Def.HasImmediate() {
		w, ok := take()
		if !ok {
			return nil, fmt.Errorf("%w: %s needs an immediate word", ErrTruncated, inst.Name())
		}
		inst.Immediate = w
		inst.HasImmediate = true
	}
	if inst.NeedsSourceWord() {
		w, ok := take()
		if !ok {
			return nil, fmt.Errorf("%w: %s needs a source address word", ErrTruncated, inst.Name())
		}
		inst.SourceImm = w
		inst.HasSourceImm = true
	}
	if inst.NeedsDestWord() {
		w, ok := take()
		if !ok {
			return nil, fmt.Errorf("%w: %s needs a destination address word", ErrTruncated, inst.Name())
		}
		inst.DestImm = w
		inst.HasDestImm = true
	}
	inst.Finalize()
	return inst, nil
}

// Encode an instruction back into 1..4 words, the exact inverse of
// Decode over well formed instructions.
func Encode(inst *Instruction) ([]uint16, error) {
	if inst.Def == nil {
		return []uint16{inst.Opcode}, nil
	}
	def := inst.Def

	words := []uint16{}
	if def.HasSecondWord() {
		second := uint16(0)
		for _, f := range def.FormatInfo().Fields {
			second = f.Insert(second, inst.Params[f.Name])
		}
		words = append(words, def.Opcode, second)
	} else {
		opcode := def.Opcode
		off := def.ArgStart
		for _, a := range def.Args {
			f := Field{Name: a.Name, Off: off, Width: a.Width}
			opcode = f.Insert(opcode, inst.Params[a.Name])
			off += a.Width
		}
		if opcode < def.Opcode || opcode > def.OpcodeMax {
			return nil, fmt.Errorf("%s parameters escape the legal opcode range: %04x", def.Mnemonic, opcode)
		}
		words = append(words, opcode)
	}

	if def.HasImmediate() {
		words = append(words, inst.Immediate)
	}
	if inst.NeedsSourceWord() {
		words = append(words, inst.SourceImm)
	}
	if inst.NeedsDestWord() {
		words = append(words, inst.DestImm)
	}
	return words, nil
}
