package source

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"sync/atomic"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ipv4Server struct {
	URL string
	srv *http.Server
	ln  net.Listener
}

func newIPv4Server(t *testing.T, handler http.Handler) *ipv4Server {
	t.Helper()
	ln, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		if errors.Is(err, syscall.EACCES) || errors.Is(err, syscall.EPERM) {
			t.Skipf("skipping test: cannot open local listener (%v)", err)
		}
		t.Fatalf("listen tcp4: %v", err)
	}
	srv := &http.Server{Handler: handler}
	s := &ipv4Server{
		URL: "http://" + ln.Addr().String(),
		srv: srv,
		ln:  ln,
	}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			panic(fmt.Sprintf("test server serve: %v", err))
		}
	}()
	return s
}

func (s *ipv4Server) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_ = s.srv.Shutdown(ctx)
}

func statusSequence(t *testing.T, statuses []int, body string, hits *int32) *ipv4Server {
	t.Helper()
	return newIPv4Server(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		i := int(atomic.AddInt32(hits, 1)) - 1
		if i >= len(statuses) {
			i = len(statuses) - 1
		}
		w.WriteHeader(statuses[i])
		if statuses[i] == http.StatusOK {
			_, _ = w.Write([]byte(body))
		}
	}))
}

func TestHTTPSourceSendsNoCacheHeaders(t *testing.T) {
	var gotCache, gotPragma, gotMethod string
	srv := newIPv4Server(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotCache = r.Header.Get("Cache-Control")
		gotPragma = r.Header.Get("Pragma")
		_, _ = w.Write([]byte("a,b\n1,2\n"))
	}))
	defer srv.Close()

	src := NewHTTPSource(srv.URL+"/us-500.csv", Options{HTTPTimeout: 2 * time.Second})
	body, err := src.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,2\n", body)
	assert.Equal(t, http.MethodGet, gotMethod)
	assert.Contains(t, gotCache, "no-cache")
	assert.Contains(t, gotCache, "no-store")
	assert.Equal(t, "no-cache", gotPragma)
}

func TestHTTPSourceServerErrorIsFetchError(t *testing.T) {
	var hits int32
	srv := statusSequence(t, []int{http.StatusInternalServerError, http.StatusOK}, "x", &hits)
	defer srv.Close()

	src := NewHTTPSource(srv.URL, Options{})
	_, err := src.Fetch(context.Background())
	var ferr *FetchError
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, 500, ferr.Status)
	assert.Contains(t, err.Error(), "server returned 500")
	// Default policy is a single attempt.
	assert.EqualValues(t, 1, atomic.LoadInt32(&hits))
}

func TestHTTPSourceRetriesWhenEnabled(t *testing.T) {
	var hits int32
	srv := statusSequence(t, []int{http.StatusServiceUnavailable, http.StatusOK}, "ok", &hits)
	defer srv.Close()

	src := NewHTTPSource(srv.URL, Options{
		RetryMaxAttempts: 3,
		RetryBaseDelay:   time.Millisecond,
		RetryMaxDelay:    10 * time.Millisecond,
	})
	body, err := src.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ok", body)
	assert.EqualValues(t, 2, atomic.LoadInt32(&hits))
}

func TestHTTPSourceDoesNotRetryClientErrors(t *testing.T) {
	var hits int32
	srv := statusSequence(t, []int{http.StatusNotFound}, "", &hits)
	defer srv.Close()

	src := NewHTTPSource(srv.URL, Options{RetryMaxAttempts: 3, RetryBaseDelay: time.Millisecond})
	_, err := src.Fetch(context.Background())
	var ferr *FetchError
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, 404, ferr.Status)
	assert.EqualValues(t, 1, atomic.LoadInt32(&hits))
}

func TestHTTPSourceUnreachable(t *testing.T) {
	ln, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		t.Skipf("skipping test: cannot open local listener (%v)", err)
	}
	addr := ln.Addr().String()
	_ = ln.Close()

	src := NewHTTPSource("http://"+addr+"/data.csv", Options{HTTPTimeout: time.Second})
	_, err = src.Fetch(context.Background())
	var uerr *UnreachableError
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, addr, uerr.Host)
}

func TestParseRetryAfter(t *testing.T) {
	d, err := parseRetryAfter("3")
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, d)

	_, err = parseRetryAfter("soon")
	assert.Error(t, err)
}

func TestFileSource(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "people.csv")
	require.NoError(t, os.WriteFile(p, []byte("hello"), 0o644))

	body, err := NewFileSource(p).Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "hello", body)

	_, err = NewFileSource(filepath.Join(dir, "missing.csv")).Fetch(context.Background())
	var ferr *FetchError
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, http.StatusNotFound, ferr.Status)
}

func TestOpenSelectsImplementation(t *testing.T) {
	src, err := Open("https://example.com/us-500.csv", Options{})
	require.NoError(t, err)
	assert.IsType(t, &HTTPSource{}, src)

	src, err = Open("/tmp/us-500.csv", Options{})
	require.NoError(t, err)
	assert.IsType(t, &FileSource{}, src)

	src, err = Open("file:///tmp/us-500.csv", Options{})
	require.NoError(t, err)
	assert.Equal(t, "/tmp/us-500.csv", src.Location())

	src, err = Open("s3://datasets/contacts/us-500.csv", Options{S3: S3Options{Endpoint: "localhost:9000"}})
	require.NoError(t, err)
	obj, ok := src.(*ObjectSource)
	require.True(t, ok)
	assert.Equal(t, "datasets", obj.bucket)
	assert.Equal(t, "contacts/us-500.csv", obj.key)
	assert.Equal(t, "s3://datasets/contacts/us-500.csv", obj.Location())

	_, err = Open("s3://bucket-only", Options{})
	assert.Error(t, err)
	_, err = Open("ftp://example.com/x.csv", Options{})
	assert.Error(t, err)
	_, err = Open("  ", Options{})
	assert.Error(t, err)
}

// TestObjectSourceIntegration requires a running MinIO instance with the
// object already uploaded. Skip if not configured.
func TestObjectSourceIntegration(t *testing.T) {
	endpoint := os.Getenv("NEARABL_TEST_S3_ENDPOINT")
	if endpoint == "" {
		t.Skip("NEARABL_TEST_S3_ENDPOINT not set")
	}
	src, err := NewObjectSource("nearabl", "missing-object.csv", S3Options{
		Endpoint:  endpoint,
		AccessKey: "minioadmin",
		SecretKey: "minioadmin",
		Region:    "us-east-1",
	})
	require.NoError(t, err)

	_, err = src.Fetch(context.Background())
	var ferr *FetchError
	var uerr *UnreachableError
	if !errors.As(err, &ferr) && !errors.As(err, &uerr) {
		t.Fatalf("expected typed error, got %v", err)
	}
}
