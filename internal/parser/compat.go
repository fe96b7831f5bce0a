package parser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/KaramelBytes/nearabl-cli/internal/record"
)

// tokenPattern matches a run of plain characters or quoted sections with no
// separator in between. Empty fields produce no token at all.
var tokenPattern = regexp.MustCompile(`(?:[^,"]+|"[^"]*")+`)

// compatDecoder reproduces the line based tokenizer of the original web
// page, including its quirks: "" is collapsed everywhere, quoted newlines
// are not supported and rows with empty fields are dropped.
type compatDecoder struct{}

func (compatDecoder) Name() string { return DecoderCompat }

func (compatDecoder) DecodeText(text string) Result {
	cleaned := normalizeNewlines(text)
	cleaned = strings.ReplaceAll(cleaned, `""`, `"`)
	cleaned = strings.TrimSpace(cleaned)

	type line struct {
		no   int
		text string
	}
	var lines []line
	for i, l := range strings.Split(cleaned, "\n") {
		if strings.TrimSpace(l) == "" {
			continue
		}
		lines = append(lines, line{no: i + 1, text: l})
	}
	if len(lines) < 2 {
		return Result{}
	}

	var res Result
	res.Header, res.HeaderSubstituted = cleanHeader(strings.Split(lines[0].text, ","))
	fields := make([]record.Field, len(res.Header))
	for i, h := range res.Header {
		if f, err := record.ParseField(h); err == nil {
			fields[i] = f
		}
	}

	for _, ln := range lines[1:] {
		tokens := tokenPattern.FindAllString(ln.text, -1)
		if len(tokens) != len(fields) {
			res.Dropped = append(res.Dropped, DroppedLine{
				Line:   ln.no,
				Fields: len(tokens),
				Reason: fmt.Sprintf("expected %d fields, got %d", len(fields), len(tokens)),
			})
			continue
		}
		var rec record.Record
		for i, tok := range tokens {
			rec.Set(fields[i], cleanValue(tok))
		}
		res.Records = append(res.Records, rec)
	}
	return res
}
