// Package fetcher issues the single HTTP(S) or file request a fetch worker
// needs for one destination and reports what happened on the wire.
package fetcher

import (
	"compress/flate"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/andybalholm/brotli"

	"github.com/5l1v3r1/linkcheck/pkg/types"
)

// Options controls HTTP fetching behaviour.
type Options struct {
	UserAgent    string
	Headers      map[string]string
	Timeout      time.Duration
	MaxBodyBytes int64
	MaxRedirects int
}

// Response is what one fetch learned about a destination.
type Response struct {
	StatusCode  int
	PrimaryType string
	SubType     string
	FinalURL    *url.URL
	Redirects   []types.BasicRedirectInfo
	Body        []byte
}

// Fetcher performs single-destination fetches over a shared transport so
// workers benefit from connection pooling.
type Fetcher struct {
	transport    http.RoundTripper
	userAgent    string
	extraHeaders map[string]string
	timeout      time.Duration
	maxBodyBytes int64
	maxRedirects int
}

// New constructs a fetcher using the provided options. Proxies are taken
// from the standard environment variables.
func New(opts Options) *Fetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = 20 * time.Second
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 6 * 1024 * 1024
	}
	if opts.MaxRedirects <= 0 {
		opts.MaxRedirects = 10
	}

	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: 10 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
		TLSHandshakeTimeout:   10 * time.Second,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	headers := make(map[string]string, len(opts.Headers))
	for k, v := range opts.Headers {
		headers[k] = v
	}

	return &Fetcher{
		transport:    transport,
		userAgent:    opts.UserAgent,
		extraHeaders: headers,
		timeout:      opts.Timeout,
		maxBodyBytes: opts.MaxBodyBytes,
		maxRedirects: opts.MaxRedirects,
	}
}

// Fetch retrieves u, following redirects and recording each hop. The body
// is read only when readBody is set; otherwise at most 4 KiB of it is
// drained and discarded before the body is closed.
func (f *Fetcher) Fetch(ctx context.Context, u *url.URL, readBody bool) (*Response, error) {
	if u == nil {
		return nil, errors.New("fetch: nil url")
	}
	if strings.EqualFold(u.Scheme, "file") {
		return f.fetchFile(u, readBody)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml,text/css;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Encoding", "gzip, deflate, br")
	for k, v := range f.extraHeaders {
		req.Header.Set(k, v)
	}

	// Each request gets its own client value so the redirect hook can
	// accumulate the chain without sharing state across workers. The
	// transport underneath stays shared.
	var redirects []types.BasicRedirectInfo
	client := &http.Client{
		Transport: f.transport,
		Timeout:   f.timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= f.maxRedirects {
				return fmt.Errorf("stopped after %d redirects", f.maxRedirects)
			}
			status := 0
			if req.Response != nil {
				status = req.Response.StatusCode
			}
			redirects = append(redirects, types.BasicRedirectInfo{
				URL:        req.URL.String(),
				StatusCode: status,
			})
			return nil
		},
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}

	var body []byte
	if readBody {
		body, err = f.readBody(resp)
		if err != nil {
			return nil, err
		}
	} else {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		_ = resp.Body.Close()
	}

	finalURL := u
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL
	}

	primary, sub := splitMediaType(resp.Header.Get("Content-Type"))
	return &Response{
		StatusCode:  resp.StatusCode,
		PrimaryType: primary,
		SubType:     sub,
		FinalURL:    finalURL,
		Redirects:   redirects,
		Body:        body,
	}, nil
}

func (f *Fetcher) fetchFile(u *url.URL, readBody bool) (*Response, error) {
	path := u.Path
	if path == "" {
		path = u.Opaque
	}

	resp := &Response{FinalURL: u}
	if readBody {
		body, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		resp.Body = body
	} else {
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}
		if info.IsDir() {
			return nil, fmt.Errorf("file fetch: %s is a directory", path)
		}
	}

	resp.StatusCode = http.StatusOK
	resp.PrimaryType, resp.SubType = splitMediaType(mime.TypeByExtension(filepath.Ext(path)))
	if resp.PrimaryType == "" {
		// mime tables vary across platforms; .html and .css must not.
		switch strings.ToLower(filepath.Ext(path)) {
		case ".html", ".htm":
			resp.PrimaryType, resp.SubType = "text", "html"
		case ".css":
			resp.PrimaryType, resp.SubType = "text", "css"
		}
	}
	return resp, nil
}

func (f *Fetcher) readBody(resp *http.Response) ([]byte, error) {
	if resp == nil || resp.Body == nil {
		return nil, errors.New("empty response body")
	}

	reader := io.Reader(resp.Body)
	closers := []io.Closer{resp.Body}

	encoding := strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Encoding")))
	switch encoding {
	case "gzip":
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("gzip decode: %w", err)
		}
		reader = gz
		closers = append(closers, gz)
	case "br":
		reader = brotli.NewReader(resp.Body)
	case "deflate":
		fl := flate.NewReader(resp.Body)
		reader = fl
		closers = append(closers, fl)
	}

	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			_ = closers[i].Close()
		}
	}()

	limited := io.LimitReader(reader, f.maxBodyBytes+1)
	body, err := io.ReadAll(limited)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if int64(len(body)) > f.maxBodyBytes {
		return nil, fmt.Errorf("response body exceeds limit of %d bytes", f.maxBodyBytes)
	}
	return body, nil
}

func splitMediaType(contentType string) (primary, sub string) {
	if contentType == "" {
		return "", ""
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.TrimSpace(strings.Split(contentType, ";")[0])
	}
	parts := strings.SplitN(strings.ToLower(mediaType), "/", 2)
	if len(parts) != 2 {
		return parts[0], ""
	}
	return parts[0], parts[1]
}
