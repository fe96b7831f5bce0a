package loader

import (
	"context"
	"errors"
	"time"

	"github.com/KaramelBytes/nearabl-cli/internal/parser"
	"github.com/KaramelBytes/nearabl-cli/internal/record"
	"github.com/KaramelBytes/nearabl-cli/internal/source"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DecodeError means the payload arrived but produced no usable records.
type DecodeError struct {
	// Dropped counts rows rejected by the decoder.
	Dropped int
}

func (e *DecodeError) Error() string {
	return "CSV parsing completed but no valid data found"
}

// Result is the outcome of a single load. Exactly one of the live dataset
// or the fallback dataset is held in Records.
type Result struct {
	ID           string
	Source       string
	Decoder      string
	Records      record.Dataset
	UsedFallback bool
	// Err is the typed failure when UsedFallback is set.
	Err error
	// Message is the display form of Err.
	Message string
	Dropped []parser.DroppedLine
	Elapsed time.Duration
}

// Loader fetches, decodes and falls back.
type Loader struct {
	src source.Source
	dec parser.Decoder
	log *zap.Logger
}

// Option customizes a Loader.
type Option func(*Loader)

// WithLogger sets the logger used for load diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(ld *Loader) {
		if l != nil {
			ld.log = l
		}
	}
}

// WithDecoder overrides the standard decoder.
func WithDecoder(d parser.Decoder) Option {
	return func(ld *Loader) {
		if d != nil {
			ld.dec = d
		}
	}
}

// New returns a Loader reading from src.
func New(src source.Source, opts ...Option) *Loader {
	dec, _ := parser.Lookup(parser.DecoderStandard)
	l := &Loader{src: src, dec: dec, log: zap.NewNop()}
	for _, o := range opts {
		o(l)
	}
	return l
}

// Load performs the fetch-then-decode sequence once. It never returns an
// error: failures are folded into a fallback Result.
func (l *Loader) Load(ctx context.Context) *Result {
	start := time.Now()
	res := &Result{
		ID:      uuid.NewString(),
		Source:  l.src.Location(),
		Decoder: l.dec.Name(),
	}
	log := l.log.With(zap.String("load_id", res.ID), zap.String("source", res.Source))
	log.Debug("loading dataset", zap.String("decoder", res.Decoder))

	records, dropped, err := l.fetchAndDecode(ctx)
	res.Dropped = dropped
	if len(dropped) > 0 {
		log.Info("rows dropped during decode", zap.Int("count", len(dropped)))
		for _, d := range dropped {
			log.Debug("dropped row", zap.Int("line", d.Line), zap.Int("fields", d.Fields), zap.String("reason", d.Reason))
		}
	}
	if err != nil {
		res.Err = err
		res.Message = message(err)
		res.UsedFallback = true
		res.Records = record.Fallback()
		log.Warn("dataset load failed, using fallback", zap.Error(err))
	} else {
		res.Records = records
		log.Info("dataset loaded", zap.Int("records", len(records)))
	}
	res.Elapsed = time.Since(start)
	return res
}

func (l *Loader) fetchAndDecode(ctx context.Context) (record.Dataset, []parser.DroppedLine, error) {
	text, err := l.src.Fetch(ctx)
	if err != nil {
		return nil, nil, err
	}
	out := l.dec.DecodeText(text)
	if len(out.Records) == 0 {
		return nil, out.Dropped, &DecodeError{Dropped: len(out.Dropped)}
	}
	return out.Records, out.Dropped, nil
}

func message(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.Canceled):
		return "load cancelled"
	case errors.Is(err, context.DeadlineExceeded):
		return "load timed out"
	case err.Error() == "":
		return "failed to load data"
	}
	return err.Error()
}
