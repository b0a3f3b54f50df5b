package audio

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/sonata/internal/shared"
)

var _ io.ReadSeekCloser = (*Reader)(nil)

// NewStreamClient returns an HTTP client tuned for long-lived audio downloads.
//
// There is no overall timeout; only connection setup and headers are bounded.
func NewStreamClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   30 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			TLSHandshakeTimeout:   10 * time.Second,
			ResponseHeaderTimeout: 30 * time.Second,
			IdleConnTimeout:       300 * time.Second,
			MaxIdleConns:          10,
			MaxIdleConnsPerHost:   2,
			ExpectContinueTimeout: 1 * time.Second,
		},
	}
}

// Reader streams an audio resource over HTTP through a buffer.
//
// Seeking reopens the stream with a Range request, so a decoder can seek in
// a remote file without downloading it first.
type Reader struct {
	ctx        context.Context
	client     *http.Client
	url        string
	bufferSize int

	body   io.ReadCloser
	reader *bufio.Reader
	offset int64
	size   int64 // -1 when the server did not report it
}

// NewReader opens url and positions the stream at byte 0.
func NewReader(ctx context.Context, client *http.Client, url string, bufferSize int) (*Reader, error) {
	if client == nil {
		client = NewStreamClient()
	}
	if bufferSize <= 0 {
		bufferSize = 256 * 1024
	}

	r := &Reader{ctx: ctx, client: client, url: url, bufferSize: bufferSize, size: -1}
	if err := r.open(0); err != nil {
		return nil, err
	}
	return r, nil
}

// Size returns the total resource length in bytes, or -1 if unknown.
func (r *Reader) Size() int64 { return r.size }

func (r *Reader) open(offset int64) error {
	req, err := http.NewRequestWithContext(r.ctx, http.MethodGet, r.url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept-Encoding", "identity")
	req.Header.Set("Range", fmt.Sprintf("bytes=%d-", offset))
	req.Header.Set("User-Agent", "sonata/1.0")

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrStreamFailure, err)
	}

	switch resp.StatusCode {
	case http.StatusPartialContent:
		if total := parseContentRangeTotal(resp.Header.Get("Content-Range")); total >= 0 {
			r.size = total
		}
	case http.StatusOK:
		if resp.ContentLength >= 0 {
			r.size = resp.ContentLength
		}
		// server ignored Range: skip forward to the requested offset
		if offset > 0 {
			if _, err := io.CopyN(io.Discard, resp.Body, offset); err != nil {
				resp.Body.Close()
				return fmt.Errorf("%w: failed to skip to offset %d: %v", shared.ErrStreamFailure, offset, err)
			}
		}
	case http.StatusRequestedRangeNotSatisfiable:
		resp.Body.Close()
		return fmt.Errorf("%w: offset %d past end of stream", shared.ErrInvalidInput, offset)
	default:
		resp.Body.Close()
		return fmt.Errorf("%w: HTTP %s", shared.ErrStreamFailure, resp.Status)
	}

	if r.body != nil {
		r.body.Close()
	}
	r.body = resp.Body
	r.reader = bufio.NewReaderSize(resp.Body, r.bufferSize)
	r.offset = offset
	return nil
}

// Read implements [io.Reader].
func (r *Reader) Read(p []byte) (int, error) {
	if r.reader == nil {
		return 0, io.ErrClosedPipe
	}
	n, err := r.reader.Read(p)
	r.offset += int64(n)
	return n, err
}

// Seek implements [io.Seeker]. [io.SeekEnd] needs a known size.
func (r *Reader) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = r.offset + offset
	case io.SeekEnd:
		if r.size < 0 {
			return 0, errors.New("seek from end: size unknown")
		}
		abs = r.size + offset
	default:
		return 0, fmt.Errorf("invalid whence %d", whence)
	}

	if abs < 0 {
		return 0, errors.New("seek to negative offset")
	}
	if abs == r.offset {
		return abs, nil
	}
	if r.size >= 0 && abs >= r.size {
		// nothing left to read; park at EOF without a request
		if r.body != nil {
			r.body.Close()
		}
		r.body = io.NopCloser(strings.NewReader(""))
		r.reader = bufio.NewReader(r.body)
		r.offset = abs
		return abs, nil
	}

	if err := r.open(abs); err != nil {
		return 0, err
	}
	return abs, nil
}

// Close releases the underlying connection.
func (r *Reader) Close() error {
	if r.body == nil {
		return nil
	}
	err := r.body.Close()
	r.body = nil
	r.reader = nil
	return err
}

// parseContentRangeTotal extracts the total from "bytes 0-99/1000", or -1.
func parseContentRangeTotal(v string) int64 {
	_, total, ok := strings.Cut(v, "/")
	if !ok || total == "*" {
		return -1
	}
	n, err := strconv.ParseInt(strings.TrimSpace(total), 10, 64)
	if err != nil {
		return -1
	}
	return n
}
