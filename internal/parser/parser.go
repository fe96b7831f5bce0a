package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/KaramelBytes/nearabl-cli/internal/record"
)

// Decoder names accepted by Lookup.
const (
	DecoderStandard = "standard"
	DecoderCompat   = "compat"
)

// Decoder turns raw CSV text into records. Implementations never fail:
// an empty Result means nothing usable was found.
type Decoder interface {
	Name() string
	DecodeText(text string) Result
}

// DroppedLine describes a data row that could not be mapped onto a record.
type DroppedLine struct {
	Line   int    `json:"line"`
	Fields int    `json:"fields"`
	Reason string `json:"reason"`
}

// Result carries decoded records plus the rows that were skipped.
type Result struct {
	Records record.Dataset
	// Header is the effective header after cleaning or substitution.
	Header []string
	// HeaderSubstituted is set when the canonical names replaced the input header.
	HeaderSubstituted bool
	Dropped           []DroppedLine
}

var registry []Decoder

// Register adds a decoder implementation to the registry.
func Register(d Decoder) {
	registry = append(registry, d)
}

// Lookup returns the decoder registered under name. An empty name selects
// the standard decoder.
func Lookup(name string) (Decoder, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" {
		n = DecoderStandard
	}
	for _, d := range registry {
		if d.Name() == n {
			return d, nil
		}
	}
	return nil, fmt.Errorf("%w: %q (available: %s)", ErrUnsupported, name, strings.Join(Names(), ", "))
}

// Names lists registered decoder names in registration order.
func Names() []string {
	out := make([]string, 0, len(registry))
	for _, d := range registry {
		out = append(out, d.Name())
	}
	return out
}

// Decode parses text with the standard decoder and returns only the records.
// Dropped rows are not reported; use a Decoder directly for that.
func Decode(text string) record.Dataset {
	return standardDecoder{}.DecodeText(text).Records
}

func init() {
	Register(standardDecoder{})
	Register(compatDecoder{})
}

// ErrUnsupported indicates an unknown decoder name.
var ErrUnsupported = errors.New("unsupported decoder")

var newlines = strings.NewReplacer("\r\n", "\n", "\r", "\n")

func normalizeNewlines(s string) string { return newlines.Replace(s) }

// cleanValue strips one surrounding quote on each side, then trims.
func cleanValue(s string) string {
	s = strings.TrimPrefix(s, `"`)
	s = strings.TrimSuffix(s, `"`)
	return strings.TrimSpace(s)
}

// cleanHeader normalizes header names and substitutes the canonical layout
// when the column count does not match the record shape or a name repeats.
func cleanHeader(raw []string) ([]string, bool) {
	if len(raw) != record.Count() {
		return record.FieldNames(), true
	}
	out := make([]string, len(raw))
	seen := make(map[string]bool, len(raw))
	for i, h := range raw {
		name := cleanValue(h)
		if f, err := record.ParseField(name); err == nil {
			name = string(f)
		}
		// A repeated name would let the later column shadow the earlier one.
		if seen[name] {
			return record.FieldNames(), true
		}
		seen[name] = true
		out[i] = name
	}
	return out, false
}
