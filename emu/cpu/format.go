/*
 * T990 - Instruction word formats
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
   The 990 family encodes instructions in twenty one word formats.
   The ones the 9900 processors use:

    Format 1:  (Two general addresses, byte or word).

      +--------+--+-----+------------+-----+------------+
      | opcode |B | Td  |     D      | Ts  |     S      |
      +--------+--+-----+------------+-----+------------+
        0    2  3  4  5  6         9 10 11 12         15

    Format 2:  (Jump / CRU single bit).

      +------------------------+------------------------+
      |        opcode          |      displacement      |
      +------------------------+------------------------+
        0                    7  8                     15

    Format 3/9: (Dual operand, one workspace register).

      +-----------------+------------+-----+------------+
      |     opcode      |     D      | Ts  |     S      |
      +-----------------+------------+-----+------------+

    Format 4:  (CRU multi bit transfer, C is bit count).

      +-----------------+------------+-----+------------+
      |     opcode      |     C      | Ts  |     S      |
      +-----------------+------------+-----+------------+

    Format 5:  (Workspace register shift).

      +-----------------------+------------+------------+
      |        opcode         |     C      |     W      |
      +-----------------------+------------+------------+

    Format 6:  (Single general address).

      +-----------------------------+-----+------------+
      |           opcode            | Ts  |     S      |
      +-----------------------------+-----+------------+

    Format 7:  (Control, no operands).
    Format 8:  (Immediate / internal register: opcode, register,
                optionally followed by one immediate word).

   Formats 10 and up belong to the 990/10 map file and the 990/12 and
   99105/99110 extended set. The extended two word formats (11 to 17,
   19 and up) carry their operand fields in a second instruction
   word; the first word is the full opcode.
*/

// One positional bit field inside an instruction word.
type Field struct {
	Name  string
	Off   int // offset of the field msb, bit 0 most significant
	Width int
}

// FormatInfo describes the layout of one of the 21 word formats:
// the positional fields, where those fields live, and how many
// instruction words the format may span.
type FormatInfo struct {
	Number     int
	Fields     []Field
	MinWords   int
	MaxWords   int
	SecondWord bool // operand fields live in a second opcode word
}

var formats = [...]FormatInfo{
	{Number: 1, MinWords: 1, MaxWords: 3,
		Fields: []Field{{"Td", 4, 2}, {"D", 6, 4}, {"Ts", 10, 2}, {"S", 12, 4}}},
	{Number: 2, MinWords: 1, MaxWords: 1,
		Fields: []Field{{"disp", 8, 8}}},
	{Number: 3, MinWords: 1, MaxWords: 2,
		Fields: []Field{{"D", 6, 4}, {"Ts", 10, 2}, {"S", 12, 4}}},
	{Number: 4, MinWords: 1, MaxWords: 2,
		Fields: []Field{{"C", 6, 4}, {"Ts", 10, 2}, {"S", 12, 4}}},
	{Number: 5, MinWords: 1, MaxWords: 1,
		Fields: []Field{{"C", 8, 4}, {"W", 12, 4}}},
	{Number: 6, MinWords: 1, MaxWords: 2,
		Fields: []Field{{"Ts", 10, 2}, {"S", 12, 4}}},
	{Number: 7, MinWords: 1, MaxWords: 1},
	{Number: 8, MinWords: 1, MaxWords: 2,
		Fields: []Field{{"nu", 11, 1}, {"W", 12, 4}}},
	{Number: 9, MinWords: 1, MaxWords: 2,
		Fields: []Field{{"D", 6, 4}, {"Ts", 10, 2}, {"S", 12, 4}}},
	{Number: 10, MinWords: 1, MaxWords: 1,
		Fields: []Field{{"M", 11, 1}, {"W", 12, 4}}},
	{Number: 11, MinWords: 2, MaxWords: 4, SecondWord: true,
		Fields: []Field{{"nu", 0, 4}, {"Td", 4, 2}, {"D", 6, 4}, {"Ts", 10, 2}, {"S", 12, 4}}},
	{Number: 12, MinWords: 2, MaxWords: 4, SecondWord: true,
		Fields: []Field{{"CKPT", 0, 4}, {"Td", 4, 2}, {"D", 6, 4}, {"Ts", 10, 2}, {"S", 12, 4}}},
	{Number: 13, MinWords: 2, MaxWords: 3, SecondWord: true,
		Fields: []Field{{"nu", 0, 6}, {"C", 6, 4}, {"Ts", 10, 2}, {"S", 12, 4}}},
	{Number: 14, MinWords: 2, MaxWords: 3, SecondWord: true,
		Fields: []Field{{"nu", 0, 6}, {"pos", 6, 4}, {"Ts", 10, 2}, {"S", 12, 4}}},
	{Number: 15, MinWords: 2, MaxWords: 3, SecondWord: true,
		Fields: []Field{{"W", 0, 4}, {"pos", 4, 4}, {"width", 8, 4}, {"Ts", 10, 2}, {"S", 12, 4}}},
	{Number: 16, MinWords: 2, MaxWords: 4, SecondWord: true,
		Fields: []Field{{"pos", 0, 4}, {"Td", 4, 2}, {"D", 6, 4}, {"Ts", 10, 2}, {"S", 12, 4}}},
	{Number: 17, MinWords: 2, MaxWords: 2, SecondWord: true,
		Fields: []Field{{"disp", 0, 8}, {"pos", 8, 4}, {"W", 12, 4}}},
	{Number: 18, MinWords: 1, MaxWords: 1,
		Fields: []Field{{"W", 12, 4}}},
	{Number: 19, MinWords: 2, MaxWords: 4, SecondWord: true,
		Fields: []Field{{"nu", 0, 4}, {"Td", 4, 2}, {"D", 6, 4}, {"Ts", 10, 2}, {"S", 12, 4}}},
	{Number: 20, MinWords: 2, MaxWords: 4, SecondWord: true,
		Fields: []Field{{"cond", 0, 4}, {"Td", 4, 2}, {"D", 6, 4}, {"Ts", 10, 2}, {"S", 12, 4}}},
	{Number: 21, MinWords: 2, MaxWords: 4, SecondWord: true,
		Fields: []Field{{"dw", 0, 4}, {"Td", 4, 2}, {"D", 6, 4}, {"Ts", 10, 2}, {"S", 12, 4}}},
}

// Format returns the layout record for format numbers 1..21.
func Format(number int) *FormatInfo {
	if number < 1 || number > len(formats) {
		return nil
	}
	return &formats[number-1]
}

// Extract a positional field from an instruction word.
func (f Field) Extract(word uint16) uint16 {
	return (word >> (16 - f.Off - f.Width)) & ((1 << f.Width) - 1)
}

// Insert a field value into an instruction word.
func (f Field) Insert(word uint16, value uint16) uint16 {
	mask := uint16((1<<f.Width)-1) << (16 - f.Off - f.Width)
	return (word & ^mask) | ((value << (16 - f.Off - f.Width)) & mask)
}
