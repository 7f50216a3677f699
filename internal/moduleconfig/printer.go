package moduleconfig

import (
	"fmt"
	"io"
	"strings"
)

// indentStep is the number of spaces per nesting level, matching the
// original config writer's INDENT_STEP.
const indentStep = 4

// Printer writes an indented block-structured configuration file,
// grounded on print_begin_block/print_end_block/print_line.
type Printer struct {
	w      io.Writer
	indent int
	err    error
}

// NewPrinter returns a Printer writing to w.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

// Err returns the first write error encountered, if any.
func (p *Printer) Err() error {
	return p.err
}

func (p *Printer) pad() string {
	return strings.Repeat(" ", p.indent*indentStep)
}

func (p *Printer) write(s string) {
	if p.err != nil {
		return
	}
	_, p.err = io.WriteString(p.w, s)
}

// BeginBlock opens a named block, optionally with an identifier, and
// increases the indent for everything printed until EndBlock.
func (p *Printer) BeginBlock(name, id string) {
	if id != "" {
		p.write(fmt.Sprintf("%s%s\t%s\n", p.pad(), name, id))
	} else {
		p.write(fmt.Sprintf("%s%s\n", p.pad(), name))
	}
	p.write(fmt.Sprintf("%s{\n", p.pad()))
	p.indent++
}

// EndBlock closes the innermost open block.
func (p *Printer) EndBlock() {
	p.indent--
	p.write(fmt.Sprintf("%s}\n", p.pad()))
}

// Line prints one indented, newline-terminated parameter line.
func (p *Printer) Line(format string, args ...interface{}) {
	p.write(p.pad())
	p.write(fmt.Sprintf(format, args...))
	p.write("\n")
}

// Comment prints an indented "# ..." comment line.
func (p *Printer) Comment(format string, args ...interface{}) {
	p.Line("# "+format, args...)
}

// Blank prints a single blank line.
func (p *Printer) Blank() {
	p.write("\n")
}
