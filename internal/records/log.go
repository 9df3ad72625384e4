package records

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/farxc/folha-inspecao/internal/data"
	"github.com/farxc/folha-inspecao/internal/logger"
	"github.com/farxc/folha-inspecao/internal/spreadsheet"
)

// MaxLineBytes bounds a single log line. Longer lines are skipped on read.
const MaxLineBytes = 1024 * 1024

// Log is a headerless, append-only comma separated file. Fields are joined
// without escaping, so an embedded comma shifts the line's field count and the
// line is skipped on read. Writers are not locked against each other.
type Log[T any] struct {
	path   string
	layout Layout[T]
	logger *logger.Logger
}

// Listing is the best-effort content of a log file.
type Listing[T any] struct {
	Records      []T   `json:"records"`
	Skipped      int   `json:"skipped"`
	SkippedLines []int `json:"skipped_lines,omitempty"`
	path         string
}

// Err reports the skipped lines as a *data.PartialReadError, or nil.
func (l Listing[T]) Err() error {
	if l.Skipped == 0 {
		return nil
	}
	return &data.PartialReadError{Path: l.path, Skipped: l.Skipped, Lines: l.SkippedLines}
}

func NewLog[T any](path string, layout Layout[T], appLogger *logger.Logger) *Log[T] {
	return &Log[T]{path: path, layout: layout, logger: appLogger}
}

func NewInspectionLog(path string, appLogger *logger.Logger) *Log[InspectionRecord] {
	return NewLog[InspectionRecord](path, InspectionLayout{}, appLogger)
}

func NewClientLog(path string, appLogger *logger.Logger) *Log[ClientRecord] {
	return NewLog[ClientRecord](path, ClientLayout{}, appLogger)
}

func (l *Log[T]) Path() string {
	return l.path
}

func (l *Log[T]) Columns() []string {
	return l.layout.Columns()
}

// Append writes rec as one line at the end of the file, creating it if needed.
// A record whose fields hold a line break is rejected with ErrMalformedData.
func (l *Log[T]) Append(rec T) error {
	const component = "RecordLog"

	line := strings.Join(l.layout.Encode(rec), ",")
	if strings.ContainsAny(line, "\r\n") {
		return fmt.Errorf("%w: record for %s spans more than one line", data.ErrMalformedData, l.path)
	}
	line += "\n"

	if dir := filepath.Dir(l.path); dir != "." {
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return fmt.Errorf("failed to create log dir %s: %w", dir, err)
		}
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log %s: %w", l.path, err)
	}

	if _, err := f.WriteString(line); err != nil {
		f.Close()
		return fmt.Errorf("failed to append to %s: %w", l.path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", l.path, err)
	}

	l.logger.Debug(component, "Record appended: path=%s bytes=%d", l.path, len(line))
	return nil
}

// ListAll reads every parseable line in file order. A missing file yields an
// empty listing; unparseable lines are counted in Skipped.
func (l *Log[T]) ListAll() (Listing[T], error) {
	const component = "RecordLog"

	listing := Listing[T]{Records: []T{}, path: l.path}

	f, err := os.Open(l.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return listing, nil
		}
		return listing, fmt.Errorf("failed to open log %s: %w", l.path, err)
	}
	defer f.Close()

	br := bufio.NewReaderSize(f, 64*1024)
	lineNo := 0
	for {
		raw, tooLong, err := readLine(br)
		if len(raw) > 0 || tooLong {
			lineNo++
			l.decodeLine(&listing, lineNo, raw, tooLong)
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return listing, fmt.Errorf("failed to read log %s: %w", l.path, err)
		}
	}

	if listing.Skipped > 0 {
		l.logger.Warn(component, "Partial read: path=%s records=%d skipped=%d", l.path, len(listing.Records), listing.Skipped)
	}
	return listing, nil
}

func (l *Log[T]) decodeLine(listing *Listing[T], lineNo int, raw []byte, tooLong bool) {
	const component = "RecordLog"

	var err error
	if tooLong {
		err = fmt.Errorf("line exceeds %d bytes", MaxLineBytes)
	} else {
		line := strings.TrimRight(string(raw), "\r\n")
		if strings.TrimSpace(line) == "" {
			return
		}
		var rec T
		if rec, err = l.layout.Decode(strings.Split(line, ",")); err == nil {
			listing.Records = append(listing.Records, rec)
			return
		}
	}

	listing.Skipped++
	listing.SkippedLines = append(listing.SkippedLines, lineNo)
	l.logger.Debug(component, "Skipping line: path=%s line=%d error=%v", l.path, lineNo, err)
}

// readLine returns the next line including its terminator. Lines longer than
// MaxLineBytes are consumed up to their newline and reported as tooLong with
// no content.
func readLine(br *bufio.Reader) ([]byte, bool, error) {
	var (
		line    []byte
		tooLong bool
	)
	for {
		chunk, err := br.ReadSlice('\n')
		if !tooLong {
			if len(line)+len(chunk) > MaxLineBytes {
				tooLong, line = true, nil
			} else {
				line = append(line, chunk...)
			}
		}
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		return line, tooLong, err
	}
}

// Export writes every parseable record to a one-sheet spreadsheet at dest,
// replacing any previous file, and returns the number of data rows.
func (l *Log[T]) Export(dest string) (int, error) {
	listing, err := l.ListAll()
	if err != nil {
		return 0, err
	}
	return l.ExportRecords(listing.Records, dest)
}

func (l *Log[T]) ExportRecords(recs []T, dest string) (int, error) {
	rows := make([][]any, len(recs))
	for i, rec := range recs {
		rows[i] = l.layout.Cells(rec)
	}

	if err := spreadsheet.Write(dest, l.layout.Columns(), rows); err != nil {
		return 0, err
	}
	l.logger.Info("RecordLog", "Export written: source=%s dest=%s rows=%d", l.path, dest, len(rows))
	return len(rows), nil
}
