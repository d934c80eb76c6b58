package notion

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
)

type captureKey struct{}

// capture receives the body of the last successful response made with a
// context returned by withCapture
type capture struct {
	body []byte
}

func withCapture(ctx context.Context) (context.Context, *capture) {
	c := &capture{}
	return context.WithValue(ctx, captureKey{}, c), c
}

// captureTransport copies response bodies for requests that ask for it, so
// blocks can be decoded from the wire JSON rather than from notionapi's typed
// blocks, which have no representation for block types the library does not
// know.
type captureTransport struct {
	base http.RoundTripper
}

func (t *captureTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return resp, err
	}

	c, ok := req.Context().Value(captureKey{}).(*capture)
	if !ok || resp.StatusCode/100 != 2 {
		return resp, nil
	}

	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	c.body = body
	resp.Body = io.NopCloser(bytes.NewReader(body))
	return resp, nil
}
