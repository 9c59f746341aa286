package monerorpc_test

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hedisam/monerorpc"
)

// rpcRequest is what the fake server saw. Raw endpoint calls carry the path name as Method and the body as Params.
type rpcRequest struct {
	Path          string
	Header        http.Header
	ContentLength int64
	BodySize      int
	JSONRPC       string          `json:"jsonrpc"`
	ID            string          `json:"id"`
	Method        string          `json:"method"`
	Params        json.RawMessage `json:"params"`
}

type fakeRemote struct {
	mu       sync.Mutex
	requests []rpcRequest
}

func (f *fakeRemote) recorded() []rpcRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]rpcRequest(nil), f.requests...)
}

// newFakeRemote starts a server answering every request with the body respond returns.
func newFakeRemote(t *testing.T, respond func(req rpcRequest) string) (*fakeRemote, *httptest.Server) {
	t.Helper()

	remote := &fakeRemote{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)

		req := rpcRequest{
			Path:          r.URL.Path,
			Header:        r.Header.Clone(),
			ContentLength: r.ContentLength,
			BodySize:      len(body),
		}
		if r.URL.Path == "/json_rpc" {
			assert.NoError(t, json.Unmarshal(body, &req))
		} else {
			req.Method = strings.TrimPrefix(r.URL.Path, "/")
			req.Params = body
		}

		remote.mu.Lock()
		remote.requests = append(remote.requests, req)
		remote.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, respond(req))
	}))
	t.Cleanup(srv.Close)

	return remote, srv
}

func newTestClient(t *testing.T, respond func(req rpcRequest) string) (*monerorpc.Client, *fakeRemote) {
	t.Helper()

	remote, srv := newFakeRemote(t, respond)
	client, err := monerorpc.New(logrus.New(), monerorpc.Config{URL: srv.URL})
	require.NoError(t, err)

	return client, remote
}

// respondWith answers every call with the same body.
func respondWith(body string) func(rpcRequest) string {
	return func(rpcRequest) string {
		return body
	}
}

func result(v string) string {
	return `{"jsonrpc":"2.0","id":"0","result":` + v + `}`
}

func rpcError(code int, message string) string {
	return fmt.Sprintf(`{"jsonrpc":"2.0","id":"0","error":{"code":%d,"message":%q}}`, code, message)
}

func mustHash(t *testing.T, s string) monerorpc.Hash {
	t.Helper()
	h, err := monerorpc.ParseHash(s)
	require.NoError(t, err)
	return h
}

func ptr[T any](v T) *T {
	return &v
}

const (
	hashA = "e22cf75f39ae720e8b71b3d120a5ac03f0db50bba6379e2850975b4859190bc6"
	hashB = "0ad6e4e14f0c21f4a02f9e47e1e3e5d6bd5b4be5fa9d5ab0dc8c16e9ea8c1f11"
	hashC = "d59297784ee7d8398d82c9d0e6b2a8aee5e02dc5ca6e0d3ba64cd20fab3f6b29"
)
