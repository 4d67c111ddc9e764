/*
 * T990 - Instruction catalogue
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

	"github.com/rcornwell/T990/emu/status"
)

// Processors the catalogue knows about.
type Platform uint16

const (
	TI990_4 Platform = 1 << iota
	TI990_10
	TI990_12
	TMS9900
	TMS9995
	TMS99105
	TMS99110
)

// Support groups.
const (
	platAll   = TI990_4 | TI990_10 | TI990_12 | TMS9900 | TMS9995 | TMS99105 | TMS99110
	platExt95 = TI990_12 | TMS9995 | TMS99105 | TMS99110
	platExt05 = TI990_12 | TMS99105 | TMS99110
	platMap   = TI990_10 | TI990_12
	platFloat = TI990_12 | TMS99110
)

// Format 8 and format 2 variants.
const (
	VariantNone   = 0
	VariantRegImm = 1 // register plus immediate word
	VariantReg    = 2 // register only, no immediate
	VariantImm    = 3 // immediate word only, no register
	VariantCRU    = 4 // format 2 with a CRU bit displacement
)

// One positional argument field, msb first, starting at ArgStart.
type ArgField struct {
	Name  string
	Width int
}

// OpDef is one immutable catalogue entry.
type OpDef struct {
	Mnemonic   string
	Opcode     uint16   // first legal opcode
	OpcodeMax  uint16   // last legal opcode
	ArgStart   int      // bit where argument bits begin, 16 = none
	Args       []ArgField
	Format     int
	Variant    int
	Privileged bool
	Status     []int    // status bits the op writes
	Platforms  Platform
	Alias      bool     // alternate mnemonic inside another entry's range
}

var (
	// Catalogue lookup miss by mnemonic.
	ErrUnknownOp = errors.New("unknown op name")
	// Opcode word falls inside no catalogued range.
	ErrIllegalOpcode = errors.New("illegal opcode")
)

// Argument field layouts shared by the single word formats.
var (
	argsTwoAddr = []ArgField{{"Td", 2}, {"D", 4}, {"Ts", 2}, {"S", 4}}
	argsJump    = []ArgField{{"disp", 8}}
	argsDual    = []ArgField{{"D", 4}, {"Ts", 2}, {"S", 4}}
	argsCRU     = []ArgField{{"C", 4}, {"Ts", 2}, {"S", 4}}
	argsShift   = []ArgField{{"C", 4}, {"W", 4}}
	argsSingle  = []ArgField{{"Ts", 2}, {"S", 4}}
	argsImm     = []ArgField{{"nu", 1}, {"W", 4}}
	argsMap     = []ArgField{{"M", 1}, {"W", 4}}
	argsReg     = []ArgField{{"W", 4}}
)

// Status bit groups.
var (
	stCmp      = []int{status.LGT, status.AGT, status.EQUAL}
	stCmpB     = []int{status.LGT, status.AGT, status.EQUAL, status.PARITY}
	stArith    = []int{status.LGT, status.AGT, status.EQUAL, status.CARRY, status.OVERFLOW}
	stArithB   = []int{status.LGT, status.AGT, status.EQUAL, status.CARRY, status.OVERFLOW, status.PARITY}
	stShift    = []int{status.LGT, status.AGT, status.EQUAL, status.CARRY}
	stShiftOvf = []int{status.LGT, status.AGT, status.EQUAL, status.CARRY, status.OVERFLOW}
	stEq       = []int{status.EQUAL}
	stCmpOvf   = []int{status.LGT, status.AGT, status.EQUAL, status.OVERFLOW}
	stAll      = []int{status.LGT, status.AGT, status.EQUAL, status.CARRY, status.OVERFLOW,
		status.PARITY, status.XOP, status.PRIVILEGED, status.MAPFILE_ENABLED,
		status.MEMORY_MAPPED, status.OVERFLOW_INT_ENAB, status.WCS_ENABLED}
)

// The catalogue. Ranges must not overlap except for aliases, which
// ride inside the range of the owning entry and never land in the
// dense opcode map.
var opDefs = []OpDef{
	// Format 1, two general addresses.
	{Mnemonic: "SZC", Opcode: 0x4000, OpcodeMax: 0x4fff, ArgStart: 4, Args: argsTwoAddr, Format: 1, Status: stCmp, Platforms: platAll},
	{Mnemonic: "SZCB", Opcode: 0x5000, OpcodeMax: 0x5fff, ArgStart: 4, Args: argsTwoAddr, Format: 1, Status: stCmpB, Platforms: platAll},
	{Mnemonic: "S", Opcode: 0x6000, OpcodeMax: 0x6fff, ArgStart: 4, Args: argsTwoAddr, Format: 1, Status: stArith, Platforms: platAll},
	{Mnemonic: "SB", Opcode: 0x7000, OpcodeMax: 0x7fff, ArgStart: 4, Args: argsTwoAddr, Format: 1, Status: stArithB, Platforms: platAll},
	{Mnemonic: "C", Opcode: 0x8000, OpcodeMax: 0x8fff, ArgStart: 4, Args: argsTwoAddr, Format: 1, Status: stCmp, Platforms: platAll},
	{Mnemonic: "CB", Opcode: 0x9000, OpcodeMax: 0x9fff, ArgStart: 4, Args: argsTwoAddr, Format: 1, Status: stCmpB, Platforms: platAll},
	{Mnemonic: "A", Opcode: 0xa000, OpcodeMax: 0xafff, ArgStart: 4, Args: argsTwoAddr, Format: 1, Status: stArith, Platforms: platAll},
	{Mnemonic: "AB", Opcode: 0xb000, OpcodeMax: 0xbfff, ArgStart: 4, Args: argsTwoAddr, Format: 1, Status: stArithB, Platforms: platAll},
	{Mnemonic: "MOV", Opcode: 0xc000, OpcodeMax: 0xcfff, ArgStart: 4, Args: argsTwoAddr, Format: 1, Status: stCmp, Platforms: platAll},
	{Mnemonic: "MOVB", Opcode: 0xd000, OpcodeMax: 0xdfff, ArgStart: 4, Args: argsTwoAddr, Format: 1, Status: stCmpB, Platforms: platAll},
	{Mnemonic: "SOC", Opcode: 0xe000, OpcodeMax: 0xefff, ArgStart: 4, Args: argsTwoAddr, Format: 1, Status: stCmp, Platforms: platAll},
	{Mnemonic: "SOCB", Opcode: 0xf000, OpcodeMax: 0xffff, ArgStart: 4, Args: argsTwoAddr, Format: 1, Status: stCmpB, Platforms: platAll},

	// Format 2, jumps. NOP assembles as JMP with zero displacement.
	{Mnemonic: "JMP", Opcode: 0x1000, OpcodeMax: 0x10ff, ArgStart: 8, Args: argsJump, Format: 2, Platforms: platAll},
	{Mnemonic: "NOP", Opcode: 0x1000, OpcodeMax: 0x10ff, ArgStart: 8, Args: argsJump, Format: 2, Platforms: platAll, Alias: true},
	{Mnemonic: "JLT", Opcode: 0x1100, OpcodeMax: 0x11ff, ArgStart: 8, Args: argsJump, Format: 2, Platforms: platAll},
	{Mnemonic: "JLE", Opcode: 0x1200, OpcodeMax: 0x12ff, ArgStart: 8, Args: argsJump, Format: 2, Platforms: platAll},
	{Mnemonic: "JEQ", Opcode: 0x1300, OpcodeMax: 0x13ff, ArgStart: 8, Args: argsJump, Format: 2, Platforms: platAll},
	{Mnemonic: "JHE", Opcode: 0x1400, OpcodeMax: 0x14ff, ArgStart: 8, Args: argsJump, Format: 2, Platforms: platAll},
	{Mnemonic: "JGT", Opcode: 0x1500, OpcodeMax: 0x15ff, ArgStart: 8, Args: argsJump, Format: 2, Platforms: platAll},
	{Mnemonic: "JNE", Opcode: 0x1600, OpcodeMax: 0x16ff, ArgStart: 8, Args: argsJump, Format: 2, Platforms: platAll},
	{Mnemonic: "JNC", Opcode: 0x1700, OpcodeMax: 0x17ff, ArgStart: 8, Args: argsJump, Format: 2, Platforms: platAll},
	{Mnemonic: "JOC", Opcode: 0x1800, OpcodeMax: 0x18ff, ArgStart: 8, Args: argsJump, Format: 2, Platforms: platAll},
	{Mnemonic: "JNO", Opcode: 0x1900, OpcodeMax: 0x19ff, ArgStart: 8, Args: argsJump, Format: 2, Platforms: platAll},
	{Mnemonic: "JL", Opcode: 0x1a00, OpcodeMax: 0x1aff, ArgStart: 8, Args: argsJump, Format: 2, Platforms: platAll},
	{Mnemonic: "JH", Opcode: 0x1b00, OpcodeMax: 0x1bff, ArgStart: 8, Args: argsJump, Format: 2, Platforms: platAll},
	{Mnemonic: "JOP", Opcode: 0x1c00, OpcodeMax: 0x1cff, ArgStart: 8, Args: argsJump, Format: 2, Platforms: platAll},

	// Format 2, CRU single bit.
	{Mnemonic: "SBO", Opcode: 0x1d00, OpcodeMax: 0x1dff, ArgStart: 8, Args: argsJump, Format: 2, Variant: VariantCRU, Platforms: platAll},
	{Mnemonic: "SBZ", Opcode: 0x1e00, OpcodeMax: 0x1eff, ArgStart: 8, Args: argsJump, Format: 2, Variant: VariantCRU, Platforms: platAll},
	{Mnemonic: "TB", Opcode: 0x1f00, OpcodeMax: 0x1fff, ArgStart: 8, Args: argsJump, Format: 2, Variant: VariantCRU, Status: stEq, Platforms: platAll},

	// Format 3, logical dual operand.
	{Mnemonic: "COC", Opcode: 0x2000, OpcodeMax: 0x23ff, ArgStart: 6, Args: argsDual, Format: 3, Status: stEq, Platforms: platAll},
	{Mnemonic: "CZC", Opcode: 0x2400, OpcodeMax: 0x27ff, ArgStart: 6, Args: argsDual, Format: 3, Status: stEq, Platforms: platAll},
	{Mnemonic: "XOR", Opcode: 0x2800, OpcodeMax: 0x2bff, ArgStart: 6, Args: argsDual, Format: 3, Status: stCmp, Platforms: platAll},

	// Format 9, XOP and multiply/divide.
	{Mnemonic: "XOP", Opcode: 0x2c00, OpcodeMax: 0x2fff, ArgStart: 6, Args: argsDual, Format: 9, Status: []int{status.XOP}, Platforms: platAll},
	{Mnemonic: "MPY", Opcode: 0x3800, OpcodeMax: 0x3bff, ArgStart: 6, Args: argsDual, Format: 9, Platforms: platAll},
	{Mnemonic: "DIV", Opcode: 0x3c00, OpcodeMax: 0x3fff, ArgStart: 6, Args: argsDual, Format: 9, Status: []int{status.OVERFLOW}, Platforms: platAll},

	// Format 4, CRU multi bit.
	{Mnemonic: "LDCR", Opcode: 0x3000, OpcodeMax: 0x33ff, ArgStart: 6, Args: argsCRU, Format: 4, Status: stCmpB, Platforms: platAll},
	{Mnemonic: "STCR", Opcode: 0x3400, OpcodeMax: 0x37ff, ArgStart: 6, Args: argsCRU, Format: 4, Status: stCmpB, Platforms: platAll},

	// Format 5, register shifts.
	{Mnemonic: "SRA", Opcode: 0x0800, OpcodeMax: 0x08ff, ArgStart: 8, Args: argsShift, Format: 5, Status: stShift, Platforms: platAll},
	{Mnemonic: "SRL", Opcode: 0x0900, OpcodeMax: 0x09ff, ArgStart: 8, Args: argsShift, Format: 5, Status: stShift, Platforms: platAll},
	{Mnemonic: "SLA", Opcode: 0x0a00, OpcodeMax: 0x0aff, ArgStart: 8, Args: argsShift, Format: 5, Status: stShiftOvf, Platforms: platAll},
	{Mnemonic: "SRC", Opcode: 0x0b00, OpcodeMax: 0x0bff, ArgStart: 8, Args: argsShift, Format: 5, Status: stShift, Platforms: platAll},

	// Format 6, single general address.
	{Mnemonic: "BLWP", Opcode: 0x0400, OpcodeMax: 0x043f, ArgStart: 10, Args: argsSingle, Format: 6, Platforms: platAll},
	{Mnemonic: "B", Opcode: 0x0440, OpcodeMax: 0x047f, ArgStart: 10, Args: argsSingle, Format: 6, Platforms: platAll},
	{Mnemonic: "X", Opcode: 0x0480, OpcodeMax: 0x04bf, ArgStart: 10, Args: argsSingle, Format: 6, Platforms: platAll},
	{Mnemonic: "CLR", Opcode: 0x04c0, OpcodeMax: 0x04ff, ArgStart: 10, Args: argsSingle, Format: 6, Platforms: platAll},
	{Mnemonic: "NEG", Opcode: 0x0500, OpcodeMax: 0x053f, ArgStart: 10, Args: argsSingle, Format: 6, Status: stArith, Platforms: platAll},
	{Mnemonic: "INV", Opcode: 0x0540, OpcodeMax: 0x057f, ArgStart: 10, Args: argsSingle, Format: 6, Status: stCmp, Platforms: platAll},
	{Mnemonic: "INC", Opcode: 0x0580, OpcodeMax: 0x05bf, ArgStart: 10, Args: argsSingle, Format: 6, Status: stArith, Platforms: platAll},
	{Mnemonic: "INCT", Opcode: 0x05c0, OpcodeMax: 0x05ff, ArgStart: 10, Args: argsSingle, Format: 6, Status: stArith, Platforms: platAll},
	{Mnemonic: "DEC", Opcode: 0x0600, OpcodeMax: 0x063f, ArgStart: 10, Args: argsSingle, Format: 6, Status: stArith, Platforms: platAll},
	{Mnemonic: "DECT", Opcode: 0x0640, OpcodeMax: 0x067f, ArgStart: 10, Args: argsSingle, Format: 6, Status: stArith, Platforms: platAll},
	{Mnemonic: "BL", Opcode: 0x0680, OpcodeMax: 0x06bf, ArgStart: 10, Args: argsSingle, Format: 6, Platforms: platAll},
	{Mnemonic: "SWPB", Opcode: 0x06c0, OpcodeMax: 0x06ff, ArgStart: 10, Args: argsSingle, Format: 6, Platforms: platAll},
	{Mnemonic: "SETO", Opcode: 0x0700, OpcodeMax: 0x073f, ArgStart: 10, Args: argsSingle, Format: 6, Platforms: platAll},
	{Mnemonic: "ABS", Opcode: 0x0740, OpcodeMax: 0x077f, ArgStart: 10, Args: argsSingle, Format: 6, Status: stArith, Platforms: platAll},

	// Long distance addressing, map option processors only.
	{Mnemonic: "LDS", Opcode: 0x0780, OpcodeMax: 0x07bf, ArgStart: 10, Args: argsSingle, Format: 6, Privileged: true, Platforms: platMap},
	{Mnemonic: "LDD", Opcode: 0x07c0, OpcodeMax: 0x07ff, ArgStart: 10, Args: argsSingle, Format: 6, Privileged: true, Platforms: platMap},

	// Format 7, control.
	{Mnemonic: "IDLE", Opcode: 0x0340, OpcodeMax: 0x0340, ArgStart: 16, Format: 7, Privileged: true, Platforms: platAll},
	{Mnemonic: "RSET", Opcode: 0x0360, OpcodeMax: 0x0360, ArgStart: 16, Format: 7, Privileged: true, Platforms: platAll},
	{Mnemonic: "RTWP", Opcode: 0x0380, OpcodeMax: 0x0380, ArgStart: 16, Format: 7, Status: stAll, Platforms: platAll},
	{Mnemonic: "CKON", Opcode: 0x03a0, OpcodeMax: 0x03a0, ArgStart: 16, Format: 7, Privileged: true, Platforms: platAll},
	{Mnemonic: "CKOF", Opcode: 0x03c0, OpcodeMax: 0x03c0, ArgStart: 16, Format: 7, Privileged: true, Platforms: platAll},
	{Mnemonic: "LREX", Opcode: 0x03e0, OpcodeMax: 0x03e0, ArgStart: 16, Format: 7, Privileged: true, Platforms: platAll},

	// Format 8, immediates and internal registers.
	{Mnemonic: "LI", Opcode: 0x0200, OpcodeMax: 0x021f, ArgStart: 11, Args: argsImm, Format: 8, Variant: VariantRegImm, Status: stCmp, Platforms: platAll},
	{Mnemonic: "AI", Opcode: 0x0220, OpcodeMax: 0x023f, ArgStart: 11, Args: argsImm, Format: 8, Variant: VariantRegImm, Status: stArith, Platforms: platAll},
	{Mnemonic: "ANDI", Opcode: 0x0240, OpcodeMax: 0x025f, ArgStart: 11, Args: argsImm, Format: 8, Variant: VariantRegImm, Status: stCmp, Platforms: platAll},
	{Mnemonic: "ORI", Opcode: 0x0260, OpcodeMax: 0x027f, ArgStart: 11, Args: argsImm, Format: 8, Variant: VariantRegImm, Status: stCmp, Platforms: platAll},
	{Mnemonic: "CI", Opcode: 0x0280, OpcodeMax: 0x029f, ArgStart: 11, Args: argsImm, Format: 8, Variant: VariantRegImm, Status: stCmp, Platforms: platAll},
	{Mnemonic: "STWP", Opcode: 0x02a0, OpcodeMax: 0x02bf, ArgStart: 11, Args: argsImm, Format: 8, Variant: VariantReg, Platforms: platAll},
	{Mnemonic: "STST", Opcode: 0x02c0, OpcodeMax: 0x02df, ArgStart: 11, Args: argsImm, Format: 8, Variant: VariantReg, Platforms: platAll},
	{Mnemonic: "LWPI", Opcode: 0x02e0, OpcodeMax: 0x02ff, ArgStart: 11, Args: argsImm, Format: 8, Variant: VariantImm, Platforms: platAll},
	{Mnemonic: "LIMI", Opcode: 0x0300, OpcodeMax: 0x031f, ArgStart: 11, Args: argsImm, Format: 8, Variant: VariantImm, Privileged: true, Platforms: platAll},

	// Format 10, map file load.
	{Mnemonic: "LMF", Opcode: 0x0320, OpcodeMax: 0x033f, ArgStart: 11, Args: argsMap, Format: 10, Privileged: true, Platforms: platMap},

	// Format 18, single register.
	{Mnemonic: "LST", Opcode: 0x0080, OpcodeMax: 0x008f, ArgStart: 12, Args: argsReg, Format: 18, Platforms: platExt95},
	{Mnemonic: "LWP", Opcode: 0x0090, OpcodeMax: 0x009f, ArgStart: 12, Args: argsReg, Format: 18, Platforms: platExt95},

	// Extended set: BLSK and BIND 99105 and up, DIVS and MPYS 9995 and up.
	{Mnemonic: "BLSK", Opcode: 0x00b0, OpcodeMax: 0x00bf, ArgStart: 12, Args: argsReg, Format: 8, Variant: VariantRegImm, Platforms: platExt05},
	{Mnemonic: "BIND", Opcode: 0x0140, OpcodeMax: 0x017f, ArgStart: 10, Args: argsSingle, Format: 6, Platforms: platExt05},
	{Mnemonic: "DIVS", Opcode: 0x0180, OpcodeMax: 0x01bf, ArgStart: 10, Args: argsSingle, Format: 6, Status: stCmpOvf, Platforms: platExt95},
	{Mnemonic: "MPYS", Opcode: 0x01c0, OpcodeMax: 0x01ff, ArgStart: 10, Args: argsSingle, Format: 6, Status: stCmp, Platforms: platExt95},

	// Extended set, two word instructions.
	{Mnemonic: "SRAM", Opcode: 0x001c, OpcodeMax: 0x001c, ArgStart: 16, Format: 13, Status: stShift, Platforms: platExt05},
	{Mnemonic: "SLAM", Opcode: 0x001d, OpcodeMax: 0x001d, ArgStart: 16, Format: 13, Status: stShiftOvf, Platforms: platExt05},
	{Mnemonic: "SM", Opcode: 0x0029, OpcodeMax: 0x0029, ArgStart: 16, Format: 11, Status: stArith, Platforms: platExt05},
	{Mnemonic: "AM", Opcode: 0x002a, OpcodeMax: 0x002a, ArgStart: 16, Format: 11, Status: stArith, Platforms: platExt05},
	{Mnemonic: "TMB", Opcode: 0x0c09, OpcodeMax: 0x0c09, ArgStart: 16, Format: 14, Status: stEq, Platforms: platExt05},
	{Mnemonic: "TCMB", Opcode: 0x0c0a, OpcodeMax: 0x0c0a, ArgStart: 16, Format: 14, Status: stEq, Platforms: platExt05},
	{Mnemonic: "TSMB", Opcode: 0x0c0b, OpcodeMax: 0x0c0b, ArgStart: 16, Format: 14, Status: stEq, Platforms: platExt05},

	// Floating point, 99110 and 990/12. Declared but pending.
	{Mnemonic: "CRI", Opcode: 0x0c00, OpcodeMax: 0x0c00, ArgStart: 16, Format: 7, Status: stCmpOvf, Platforms: platFloat},
	{Mnemonic: "CDI", Opcode: 0x0c01, OpcodeMax: 0x0c01, ArgStart: 16, Format: 7, Status: stCmpOvf, Platforms: platFloat},
	{Mnemonic: "NEGR", Opcode: 0x0c02, OpcodeMax: 0x0c02, ArgStart: 16, Format: 7, Status: stCmp, Platforms: platFloat},
	{Mnemonic: "NEGD", Opcode: 0x0c03, OpcodeMax: 0x0c03, ArgStart: 16, Format: 7, Status: stCmp, Platforms: platFloat},
	{Mnemonic: "CRE", Opcode: 0x0c04, OpcodeMax: 0x0c04, ArgStart: 16, Format: 7, Status: stCmpOvf, Platforms: platFloat},
	{Mnemonic: "CDE", Opcode: 0x0c05, OpcodeMax: 0x0c05, ArgStart: 16, Format: 7, Status: stCmpOvf, Platforms: platFloat},
	{Mnemonic: "CER", Opcode: 0x0c06, OpcodeMax: 0x0c06, ArgStart: 16, Format: 7, Status: stCmpOvf, Platforms: platFloat},
	{Mnemonic: "CED", Opcode: 0x0c07, OpcodeMax: 0x0c07, ArgStart: 16, Format: 7, Status: stCmpOvf, Platforms: platFloat},
	{Mnemonic: "AR", Opcode: 0x0c40, OpcodeMax: 0x0c7f, ArgStart: 10, Args: argsSingle, Format: 6, Status: stCmpOvf, Platforms: platFloat},
	{Mnemonic: "CIR", Opcode: 0x0c80, OpcodeMax: 0x0cbf, ArgStart: 10, Args: argsSingle, Format: 6, Status: stCmpOvf, Platforms: platFloat},
	{Mnemonic: "SR", Opcode: 0x0cc0, OpcodeMax: 0x0cff, ArgStart: 10, Args: argsSingle, Format: 6, Status: stCmpOvf, Platforms: platFloat},
	{Mnemonic: "MR", Opcode: 0x0d00, OpcodeMax: 0x0d3f, ArgStart: 10, Args: argsSingle, Format: 6, Status: stCmpOvf, Platforms: platFloat},
	{Mnemonic: "DR", Opcode: 0x0d40, OpcodeMax: 0x0d7f, ArgStart: 10, Args: argsSingle, Format: 6, Status: stCmpOvf, Platforms: platFloat},
	{Mnemonic: "LR", Opcode: 0x0d80, OpcodeMax: 0x0dbf, ArgStart: 10, Args: argsSingle, Format: 6, Status: stCmp, Platforms: platFloat},
	{Mnemonic: "STR", Opcode: 0x0dc0, OpcodeMax: 0x0dff, ArgStart: 10, Args: argsSingle, Format: 6, Platforms: platFloat},
	{Mnemonic: "AD", Opcode: 0x0e40, OpcodeMax: 0x0e7f, ArgStart: 10, Args: argsSingle, Format: 6, Status: stCmpOvf, Platforms: platFloat},
	{Mnemonic: "CID", Opcode: 0x0e80, OpcodeMax: 0x0ebf, ArgStart: 10, Args: argsSingle, Format: 6, Status: stCmpOvf, Platforms: platFloat},
	{Mnemonic: "SD", Opcode: 0x0ec0, OpcodeMax: 0x0eff, ArgStart: 10, Args: argsSingle, Format: 6, Status: stCmpOvf, Platforms: platFloat},
	{Mnemonic: "MD", Opcode: 0x0f00, OpcodeMax: 0x0f3f, ArgStart: 10, Args: argsSingle, Format: 6, Status: stCmpOvf, Platforms: platFloat},
	{Mnemonic: "DD", Opcode: 0x0f40, OpcodeMax: 0x0f7f, ArgStart: 10, Args: argsSingle, Format: 6, Status: stCmpOvf, Platforms: platFloat},
	{Mnemonic: "LD", Opcode: 0x0f80, OpcodeMax: 0x0fbf, ArgStart: 10, Args: argsSingle, Format: 6, Status: stCmp, Platforms: platFloat},
	{Mnemonic: "STD", Opcode: 0x0fc0, OpcodeMax: 0x0fff, ArgStart: 10, Args: argsSingle, Format: 6, Platforms: platFloat},
}

// MID reserved opcode ranges. Opcode words landing here belong to the
// macrostore emulation mechanism; with macrostore disabled they raise
// the illegal opcode trap.
var midRanges = [16][2]uint16{
	{0x0000, 0x001b},
	{0x001e, 0x0028},
	{0x002b, 0x003f},
	{0x0040, 0x007f},
	{0x00a0, 0x00af},
	{0x00c0, 0x00ff},
	{0x0100, 0x013f},
	{0x0341, 0x035f},
	{0x0361, 0x037f},
	{0x0381, 0x039f},
	{0x03a1, 0x03bf},
	{0x03c1, 0x03df},
	{0x03e1, 0x03ff},
	{0x0c08, 0x0c08},
	{0x0c0c, 0x0c3f},
	{0x0e00, 0x0e3f},
}

var (
	opByName map[string]*OpDef
	// Dense function map: every code in an entry's legal range points
	// back at the entry. -1 marks an uncatalogued code.
	opByCode [65536]int16
)

func init() {
	opByName = make(map[string]*OpDef, len(opDefs))
	for i := range opByCode {
		opByCode[i] = -1
	}
	for i := range opDefs {
		def := &opDefs[i]
		opByName[def.Mnemonic] = def
		if def.Alias {
			continue
		}
		for code := uint32(def.Opcode); code <= uint32(def.OpcodeMax); code++ {
			if opByCode[code] >= 0 {
				panic(fmt.Sprintf("opcode range overlap at %04x: %s and %s",
					code, opDefs[opByCode[code]].Mnemonic, def.Mnemonic))
			}
			opByCode[code] = int16(i)
		}
	}
}

// True if the mnemonic is in the catalogue.
func OpNameIsValid(name string) bool {
	_, ok := opByName[name]
	return ok
}

// True if the opcode word falls inside some entry's legal range.
func OpcodeIsValid(code uint16) bool {
	return opByCode[code] >= 0
}

// Look up a catalogue entry by mnemonic.
func GetByName(name string) (*OpDef, error) {
	def, ok := opByName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownOp, name)
	}
	return def, nil
}

// Look up the catalogue entry whose legal range covers the opcode.
func GetByOpcode(code uint16) (*OpDef, error) {
	index := opByCode[code]
	if index < 0 {
		return nil, fmt.Errorf("%w: %04x", ErrIllegalOpcode, code)
	}
	return &opDefs[index], nil
}

// True if the opcode word lands in a MID reserved range.
func OpcodeCouldBeMID(code uint16) bool {
	for _, r := range midRanges {
		if code >= r[0] && code <= r[1] {
			return true
		}
	}
	return false
}

// All catalogue mnemonics, aliases included, in declaration order.
func Mnemonics() []string {
	names := make([]string, 0, len(opDefs))
	for i := range opDefs {
		names = append(names, opDefs[i].Mnemonic)
	}
	return names
}

// True if the platform runs this instruction.
func (def *OpDef) SupportedOn(p Platform) bool {
	return (def.Platforms & p) != 0
}

// FormatInfo for this entry's format.
func (def *OpDef) FormatInfo() *FormatInfo {
	return Format(def.Format)
}

// True if the entry takes a second opcode word carrying its operand
// fields.
func (def *OpDef) HasSecondWord() bool {
	fmtInfo := def.FormatInfo()
	return fmtInfo != nil && fmtInfo.SecondWord
}

// True if the entry is followed by a general immediate word.
func (def *OpDef) HasImmediate() bool {
	if def.Format != 8 {
		return false
	}
	return def.Variant == VariantRegImm || def.Variant == VariantImm
}
