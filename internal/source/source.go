package source

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Source yields the raw CSV payload of a dataset.
type Source interface {
	Fetch(ctx context.Context) (string, error)
	Location() string
}

// Options configures how a location is opened.
type Options struct {
	// HTTPTimeout bounds a single HTTP attempt; zero waits indefinitely.
	HTTPTimeout time.Duration
	// RetryMaxAttempts is the total number of attempts; values below 1 mean one.
	RetryMaxAttempts int
	RetryBaseDelay   time.Duration
	RetryMaxDelay    time.Duration
	// HTTPClient overrides the client built from HTTPTimeout.
	HTTPClient *http.Client
	S3         S3Options
	Logger     *zap.Logger
}

// S3Options configures access to S3-compatible object storage.
type S3Options struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Region    string
	Secure    bool
}

// Open picks a Source implementation from the location's scheme:
// http(s):// URLs, s3://bucket/key objects, file:// URLs or bare paths.
func Open(location string, opt Options) (Source, error) {
	loc := strings.TrimSpace(location)
	if loc == "" {
		return nil, fmt.Errorf("empty source location")
	}
	u, err := url.Parse(loc)
	// Single letter schemes are Windows drive letters.
	if err != nil || len(u.Scheme) <= 1 {
		return NewFileSource(loc), nil
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return NewHTTPSource(loc, opt), nil
	case "file":
		p := u.Path
		if u.Host != "" && u.Host != "localhost" {
			p = u.Host + p
		}
		return NewFileSource(p), nil
	case "s3":
		key := strings.TrimPrefix(u.Path, "/")
		if u.Host == "" || key == "" {
			return nil, fmt.Errorf("s3 location must look like s3://bucket/key, got %q", location)
		}
		return NewObjectSource(u.Host, key, opt.S3)
	default:
		return nil, fmt.Errorf("unsupported source scheme %q", u.Scheme)
	}
}

func logger(opt Options) *zap.Logger {
	if opt.Logger != nil {
		return opt.Logger
	}
	return zap.NewNop()
}
