package golog

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"
)

// Entry is a single log event.
type Entry struct {
	Time time.Time
	Lvl  Level
	Msg  string
	Ctx  []interface{}
}

// Handler delivers formatted log entries to their destination.
type Handler interface {
	Log(e *Entry) error
}

type HandlerFunc func(e *Entry) error

func (h HandlerFunc) Log(e *Entry) error {
	return h(e)
}

// IOHandler returns a handler that writes logfmt formatted entries,
// routing WARN and above to err and the rest to out.
func IOHandler(out, err io.Writer) Handler {
	return &ioHandler{out: out, err: err}
}

type ioHandler struct {
	out, err io.Writer
}

func (h *ioHandler) Log(e *Entry) error {
	m := formatLogfmt(e)
	if e.Lvl <= WARN {
		_, err := h.err.Write(m)
		return err
	}
	_, err := h.out.Write(m)
	return err
}

func formatLogfmt(e *Entry) []byte {
	var b bytes.Buffer
	b.WriteString("t=")
	b.WriteString(e.Time.UTC().Format(time.RFC3339))
	b.WriteString(" lvl=")
	b.WriteString(e.Lvl.String())
	b.WriteString(" msg=")
	b.WriteString(quoteIfNeeded(e.Msg))
	for i := 0; i+1 < len(e.Ctx); i += 2 {
		b.WriteByte(' ')
		fmt.Fprintf(&b, "%v=%s", e.Ctx[i], quoteIfNeeded(fmt.Sprintf("%v", e.Ctx[i+1])))
	}
	b.WriteByte('\n')
	return b.Bytes()
}

func quoteIfNeeded(s string) string {
	if strings.ContainsAny(s, " \t\"=") {
		return fmt.Sprintf("%q", s)
	}
	return s
}
