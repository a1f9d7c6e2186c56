package gen

import (
	"fmt"
	"io"
	"strings"

	"github.com/kr/text"
)

// Writer emits indented lines. The first write error is kept and returned by
// `Err`; everything written after it is dropped.
type Writer struct {
	w          io.Writer
	indentUnit string
	indent     int
	err        error
}

func NewWriter(w io.Writer, indentUnit string) *Writer {
	return &Writer{
		w:          w,
		indentUnit: indentUnit,
	}
}

func (w *Writer) Indent() {
	w.indent += 1
}

func (w *Writer) DeIndent() {
	w.indent -= 1
}

// IndentWidth is the number of characters the current indentation takes.
func (w *Writer) IndentWidth() int {
	return w.indent * len(w.indentUnit)
}

// Emit writes `line` on its own line at the current indentation. Empty lines
// are written without indentation.
func (w *Writer) Emit(line string) {
	if line == "" {
		w.write("\n")
		return
	}

	w.write(strings.Repeat(w.indentUnit, w.indent) + line + "\n")
}

func (w *Writer) Emitf(format string, args ...any) {
	w.Emit(fmt.Sprintf(format, args...))
}

// EmitWrapped word-wraps `s` so that indentation, `prefix` and text fit in
// `width` columns and emits each line with `prefix`. A single word longer than
// the available space gets a line of its own.
func (w *Writer) EmitWrapped(s string, prefix string, width int) {
	available := width - w.IndentWidth() - len(prefix)
	if available < 1 {
		available = 1
	}

	for _, line := range strings.Split(text.Wrap(s, available), "\n") {
		w.Emit(prefix + line)
	}
}

// Block emits `header {`, runs `body` one level deeper and closes the block
// with `}`. Errors from `body` are returned as is and the block is left open.
func (w *Writer) Block(header string, body func() error) error {
	w.Emit(header + " {")
	w.Indent()

	if err := body(); err != nil {
		return err
	}

	w.DeIndent()
	w.Emit("}")

	return w.err
}

func (w *Writer) Err() error {
	return w.err
}

func (w *Writer) write(s string) {
	if w.err != nil {
		return
	}

	_, w.err = io.WriteString(w.w, s)
}
