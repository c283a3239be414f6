package session

import (
	"bytes"
	"io"
	"net/http"

	"github.com/google/uuid"
)

const headerRequestID = "X-Request-ID"

// replayableRequest can be sent more than once. The body is taken from GetBody when the
// caller provided it, otherwise it is buffered once.
type replayableRequest struct {
	req       *http.Request
	body      []byte
	getBody   func() (io.ReadCloser, error)
	requestID string
}

func (c *Client) newReplayableRequest(req *http.Request) (*replayableRequest, error) {
	call := &replayableRequest{req: req}
	if c.requestID && req.Header.Get(headerRequestID) == "" {
		call.requestID = uuid.NewString()
	}
	if req.Body == nil || req.Body == http.NoBody {
		return call, nil
	}
	defer req.Body.Close()
	if req.GetBody != nil {
		call.getBody = req.GetBody
		return call, nil
	}
	data, err := io.ReadAll(req.Body)
	if err != nil {
		return nil, err
	}
	call.body = data
	return call, nil
}

func (r *replayableRequest) build(token string) (*http.Request, error) {
	out := r.req.Clone(r.req.Context())
	switch {
	case r.getBody != nil:
		body, err := r.getBody()
		if err != nil {
			return nil, err
		}
		out.Body = body
	case r.body != nil:
		out.Body = io.NopCloser(bytes.NewReader(r.body))
		out.GetBody = func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(r.body)), nil
		}
	}
	if token != "" {
		out.Header.Set("Authorization", "Bearer "+token)
	}
	if r.requestID != "" {
		out.Header.Set(headerRequestID, r.requestID)
	}
	return out, nil
}
