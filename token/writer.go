package token

import (
	"bytes"
	"fmt"
	"io"

	gojson "github.com/goccy/go-json"
)

//Writer emits compact RFC 4627 JSON text for a token sequence. Output is
//UTF-8; strings are escaped through the goccy encoder.
type Writer struct {
	out     io.Writer
	stack   []frame
	pending bool //comma needed before the next entry
	err     error
}

// NewWriter returns a Sink writing compact JSON text to out.
func NewWriter(out io.Writer) *Writer {
	return &Writer{out: out}
}

func (w *Writer) StartObject() error {
	if err := w.beforeValue(); err != nil {
		return err
	}
	w.stack = append(w.stack, frameObject)
	w.pending = false
	return w.write("{")
}

func (w *Writer) EndObject() error {
	if err := w.close(frameObject); err != nil {
		return err
	}
	return w.write("}")
}

func (w *Writer) StartArray() error {
	if err := w.beforeValue(); err != nil {
		return err
	}
	w.stack = append(w.stack, frameArray)
	w.pending = false
	return w.write("[")
}

func (w *Writer) EndArray() error {
	if err := w.close(frameArray); err != nil {
		return err
	}
	return w.write("]")
}

func (w *Writer) FieldName(name string) error {
	if w.err != nil {
		return w.err
	}
	if len(w.stack) == 0 || w.stack[len(w.stack)-1] != frameObject {
		return fmt.Errorf("field name outside object: %s", name)
	}
	if w.pending {
		if err := w.write(","); err != nil {
			return err
		}
	}
	w.pending = false
	if err := w.writeEscaped(name); err != nil {
		return err
	}
	return w.write(":")
}

func (w *Writer) String(value string) error {
	if err := w.beforeValue(); err != nil {
		return err
	}
	return w.writeEscaped(value)
}

func (w *Writer) Number(literal string) error {
	if err := w.beforeValue(); err != nil {
		return err
	}
	return w.write(literal)
}

func (w *Writer) Bool(value bool) error {
	if err := w.beforeValue(); err != nil {
		return err
	}
	if value {
		return w.write("true")
	}
	return w.write("false")
}

func (w *Writer) Null() error {
	if err := w.beforeValue(); err != nil {
		return err
	}
	return w.write("null")
}

func (w *Writer) beforeValue() error {
	if w.err != nil {
		return w.err
	}
	if len(w.stack) > 0 && w.stack[len(w.stack)-1] == frameArray {
		if w.pending {
			if err := w.write(","); err != nil {
				return err
			}
		}
	}
	w.pending = true
	return nil
}

func (w *Writer) close(f frame) error {
	if w.err != nil {
		return w.err
	}
	if len(w.stack) == 0 || w.stack[len(w.stack)-1] != f {
		return fmt.Errorf("unbalanced %c", f)
	}
	w.stack = w.stack[:len(w.stack)-1]
	w.pending = true
	return nil
}

func (w *Writer) write(text string) error {
	if w.err != nil {
		return w.err
	}
	if _, err := io.WriteString(w.out, text); err != nil {
		w.err = err
		return err
	}
	return nil
}

func (w *Writer) writeEscaped(value string) error {
	data, err := gojson.Marshal(value)
	if err != nil {
		w.err = err
		return err
	}
	data = bytes.TrimRight(data, "\n")
	return w.write(string(data))
}
