package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/vburojevic/platescan/internal/domain"
)

// TextWriter writes human-readable output
type TextWriter struct {
	w      io.Writer
	styles StyleSet
}

// NewTextWriter creates a text writer, colored only on a terminal
func NewTextWriter(w io.Writer) *TextWriter {
	return &TextWriter{w: w, styles: StylesFor(w)}
}

// NewTextWriterWithStyles creates a text writer with explicit styles
func NewTextWriterWithStyles(w io.Writer, styles StyleSet) *TextWriter {
	return &TextWriter{w: w, styles: styles}
}

// WriteError outputs a styled error
func (w *TextWriter) WriteError(code, message string, hint ...string) error {
	line := w.styles.Danger.Render("Error") + " " + w.styles.Warning.Render("["+code+"]") + ": " + message + "\n"
	if len(hint) > 0 && hint[0] != "" {
		line += "  " + w.styles.Muted.Render("hint: "+hint[0]) + "\n"
	}
	_, err := io.WriteString(w.w, line)
	return err
}

// WriteWarning outputs a styled warning
func (w *TextWriter) WriteWarning(message string) error {
	_, err := io.WriteString(w.w, w.styles.Warning.Render("Warning")+": "+message+"\n")
	return err
}

// WriteRecognition renders the result line followed by a table of attempts
func (w *TextWriter) WriteRecognition(rec *RecognitionOutput) error {
	label := domain.ReadingKind(rec.Kind).Label() + ":"
	var status string
	if rec.Success {
		status = w.styles.Success.Render("OK") + " " + w.styles.Label.Render(label) + " " + w.styles.Value.Render(rec.Text) +
			" " + w.styles.Muted.Render(fmt.Sprintf("(%s, confidence %.2f)", rec.Engine, rec.Confidence))
	} else {
		status = w.styles.Danger.Render("FAILED") + " " + w.styles.Label.Render(label) + " " + rec.Error
	}
	if _, err := fmt.Fprintf(w.w, "%s\n%s\n", w.styles.Header.Render(rec.File), status); err != nil {
		return err
	}
	if len(rec.Attempts) == 0 {
		return nil
	}

	table := tablewriter.NewWriter(w.w)
	table.Header("Engine", "Raw", "Error", "Duration")
	for _, a := range rec.Attempts {
		if err := table.Append([]string{a.Engine, oneLine(a.Raw), oneLine(a.Error), strconv.FormatInt(a.DurationMS, 10) + "ms"}); err != nil {
			return err
		}
	}
	return table.Render()
}

// WriteKeyValues renders rows as a two column table
func (w *TextWriter) WriteKeyValues(title string, rows [][2]string) error {
	if title != "" {
		if _, err := fmt.Fprintln(w.w, w.styles.Header.Render(title)); err != nil {
			return err
		}
	}
	table := tablewriter.NewWriter(w.w)
	table.Header("Key", "Value")
	for _, r := range rows {
		if err := table.Append([]string{r[0], r[1]}); err != nil {
			return err
		}
	}
	return table.Render()
}

func oneLine(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) > 60 {
		return s[:57] + "..."
	}
	return s
}
