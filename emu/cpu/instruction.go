/*
 * T990 - Decoded instruction
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

// Mutation attempted on a finalized instruction.
var ErrFinalized = errors.New("instruction is finalized")

// Instruction is one decoded instruction. It is mutable while being
// assembled from the word stream or from a mnemonic, then finalized
// and handed to an execution unit.
//
// Def is nil when the opcode word matched no catalogue entry; such an
// instruction still carries the raw word so the MID check and the
// illegal opcode trap can act on it.
type Instruction struct {
	Def          *OpDef
	Opcode       uint16 // effective opcode word
	SecondWord   uint16
	HasSecond    bool
	Immediate    uint16 // general immediate operand
	HasImmediate bool
	SourceImm    uint16 // symbolic or indexed source address word
	HasSourceImm bool
	DestImm      uint16 // symbolic or indexed destination address word
	HasDestImm   bool
	Params       map[string]uint16
	final        bool
}

// Decode an opcode word into an instruction. Unknown words produce an
// instruction with a nil Def and ErrIllegalOpcode.
func NewInstruction(opcode uint16) (*Instruction, error) {
	inst := &Instruction{Opcode: opcode, Params: map[string]uint16{}}
	def, err := GetByOpcode(opcode)
	if err != nil {
		return inst, err
	}
	inst.Def = def
	if !def.HasSecondWord() {
		inst.extractParams(opcode, def.Args, def.ArgStart)
	}
	return inst, nil
}

// Build an instruction from a mnemonic with all parameters zero.
func NewInstructionByName(name string) (*Instruction, error) {
	def, err := GetByName(name)
	if err != nil {
		return nil, err
	}
	inst := &Instruction{Def: def, Opcode: def.Opcode, Params: map[string]uint16{}}
	if def.HasSecondWord() {
		for _, f := range def.FormatInfo().Fields {
			inst.Params[f.Name] = 0
		}
		inst.HasSecond = true
	} else {
		for _, a := range def.Args {
			inst.Params[a.Name] = 0
		}
	}
	return inst, nil
}

// Pull the argument fields out of an instruction word. Fields are
// packed msb first beginning at startBit.
func (inst *Instruction) extractParams(word uint16, args []ArgField, startBit int) {
	off := startBit
	for _, a := range args {
		f := Field{Name: a.Name, Off: off, Width: a.Width}
		inst.Params[a.Name] = f.Extract(word)
		off += a.Width
	}
}

// Set one named parameter.
func (inst *Instruction) SetParam(name string, value uint16) error {
	if inst.final {
		return ErrFinalized
	}
	if _, ok := inst.Params[name]; !ok {
		return fmt.Errorf("op %s has no parameter %s", inst.Def.Mnemonic, name)
	}
	inst.Params[name] = value
	return nil
}

// Get one named parameter, zero when absent.
func (inst *Instruction) Param(name string) uint16 {
	return inst.Params[name]
}

// Load the second opcode word and extract its fields.
func (inst *Instruction) SetSecondWord(word uint16) error {
	if inst.final {
		return ErrFinalized
	}
	inst.SecondWord = word
	inst.HasSecond = true
	if inst.Def != nil && inst.Def.HasSecondWord() {
		for _, f := range inst.Def.FormatInfo().Fields {
			inst.Params[f.Name] = f.Extract(word)
		}
	}
	return nil
}

// Mark the instruction immutable.
func (inst *Instruction) Finalize() {
	inst.final = true
}

// True once finalized.
func (inst *Instruction) Finalized() bool {
	return inst.final
}

// True when the opcode word matched no catalogue entry.
func (inst *Instruction) Illegal() bool {
	return inst.Def == nil
}

// True when the opcode word lands in a MID reserved range or matched
// no entry at all; either way macrostore would have to handle it.
func (inst *Instruction) IsMID() bool {
	if inst.Def == nil {
		return true
	}
	return OpcodeCouldBeMID(inst.Opcode)
}

// True when the instruction is one of the jump family.
func (inst *Instruction) IsJump() bool {
	if inst.Def == nil || inst.Def.Format != 2 {
		return false
	}
	return inst.Def.Variant != VariantCRU
}

// True when a symbolic or indexed source address word follows.
func (inst *Instruction) NeedsSourceWord() bool {
	if inst.Def == nil {
		return false
	}
	ts, ok := inst.Params["Ts"]
	return ok && ts == 2
}

// True when a symbolic or indexed destination address word follows.
func (inst *Instruction) NeedsDestWord() bool {
	if inst.Def == nil {
		return false
	}
	td, ok := inst.Params["Td"]
	return ok && td == 2
}

// Mnemonic, or a hex rendering for uncatalogued words.
func (inst *Instruction) Name() string {
	if inst.Def == nil {
		return fmt.Sprintf("DATA %04x", inst.Opcode)
	}
	return inst.Def.Mnemonic
}
