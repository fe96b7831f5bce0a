package parser

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/KaramelBytes/nearabl-cli/internal/record"
	"github.com/jszwec/csvutil"
)

// standardDecoder reads conventional CSV: quoted fields may hold commas,
// newlines and "" escaped quotes.
type standardDecoder struct{}

func (standardDecoder) Name() string { return DecoderStandard }

func (standardDecoder) DecodeText(text string) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = Result{}
		}
	}()

	cr := csv.NewReader(strings.NewReader(normalizeNewlines(text)))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true
	rows := &rowReader{r: cr}

	raw, err := rows.Read()
	if err != nil {
		return Result{}
	}
	res.Header, res.HeaderSubstituted = cleanHeader(raw)

	dec, err := csvutil.NewDecoder(rows, res.Header...)
	if err != nil {
		return Result{}
	}

	for {
		var rec record.Record
		err := dec.Decode(&rec)
		if err == nil {
			// encoding/csv has already unquoted the field.
			rec.Map(strings.TrimSpace)
			res.Records = append(res.Records, rec)
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}
		var perr *csv.ParseError
		switch {
		case errors.Is(err, csvutil.ErrFieldCount):
			res.Dropped = append(res.Dropped, DroppedLine{
				Line:   rows.line,
				Fields: len(rows.last),
				Reason: fmt.Sprintf("expected %d fields, got %d", len(res.Header), len(rows.last)),
			})
		case errors.As(err, &perr):
			res.Dropped = append(res.Dropped, DroppedLine{Line: perr.StartLine, Reason: perr.Err.Error()})
		default:
			// Not a per-row problem; keep what was decoded so far.
			return res
		}
	}
	return res
}

// rowReader feeds csvutil while skipping blank lines and remembering the
// position of the most recent row.
type rowReader struct {
	r    *csv.Reader
	line int
	last []string
}

func (rr *rowReader) Read() ([]string, error) {
	for {
		rec, err := rr.r.Read()
		if err != nil {
			return nil, err
		}
		if isBlank(rec) {
			continue
		}
		rr.line, _ = rr.r.FieldPos(0)
		rr.last = rec
		return rec, nil
	}
}

func isBlank(rec []string) bool {
	return len(rec) == 1 && strings.TrimSpace(rec[0]) == ""
}
