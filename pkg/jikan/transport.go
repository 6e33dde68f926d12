package jikan

import (
	"compress/gzip"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/zstd"
)

const acceptEncoding = "gzip, br, zstd"

// compressionTransport advertises gzip, brotli and zstd support and decodes
// the response body accordingly.
type compressionTransport struct {
	next http.RoundTripper
}

func newCompressionTransport(next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return &compressionTransport{next: next}
}

// RoundTrip implements http.RoundTripper.
func (t *compressionTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// RoundTrippers must not modify the caller's request.
	req = req.Clone(req.Context())
	if req.Header.Get("Accept-Encoding") == "" {
		req.Header.Set("Accept-Encoding", acceptEncoding)
	}

	resp, err := t.next.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if resp.Body == nil || resp.Body == http.NoBody {
		return resp, nil
	}

	codings := contentCodings(resp.Header.Get("Content-Encoding"))
	if len(codings) == 0 {
		return resp, nil
	}
	for _, coding := range codings {
		if !supportedCoding(coding) {
			return resp, nil
		}
	}

	// Codings are listed in the order they were applied; undo them last first.
	body := &decodedBody{raw: resp.Body}
	var r io.Reader = resp.Body
	for i := len(codings) - 1; i >= 0; i-- {
		dec, err := newDecoder(codings[i], r)
		if err != nil {
			body.Close()
			return nil, err
		}
		body.decoders = append(body.decoders, dec)
		r = dec
	}

	resp.Body = body
	resp.Header.Del("Content-Encoding")
	resp.Header.Del("Content-Length")
	resp.ContentLength = -1
	resp.Uncompressed = true

	return resp, nil
}

func supportedCoding(coding string) bool {
	switch coding {
	case "gzip", "br", "zstd":
		return true
	}
	return false
}

func newDecoder(coding string, r io.Reader) (io.ReadCloser, error) {
	switch coding {
	case "gzip":
		return gzip.NewReader(r)
	case "br":
		return io.NopCloser(brotli.NewReader(r)), nil
	case "zstd":
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		return zr.IOReadCloser(), nil
	}
	return nil, fmt.Errorf("unsupported content coding %q", coding)
}

// decodedBody reads through a chain of decoders and closes every one of
// them along with the raw response body.
type decodedBody struct {
	decoders []io.ReadCloser
	raw      io.ReadCloser
}

func (b *decodedBody) Read(p []byte) (int, error) {
	return b.decoders[len(b.decoders)-1].Read(p)
}

func (b *decodedBody) Close() error {
	var first error
	for i := len(b.decoders) - 1; i >= 0; i-- {
		if err := b.decoders[i].Close(); err != nil && first == nil {
			first = err
		}
	}
	if err := b.raw.Close(); err != nil && first == nil {
		first = err
	}
	return first
}

// contentCodings splits a Content-Encoding header into lowercased codings in
// the order they were applied. identity entries are dropped.
func contentCodings(header string) []string {
	var codings []string
	for _, part := range strings.Split(header, ",") {
		coding := strings.ToLower(strings.TrimSpace(part))
		if coding == "" || coding == "identity" {
			continue
		}
		codings = append(codings, coding)
	}
	return codings
}
