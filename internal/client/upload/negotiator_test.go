package upload

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/dmitrijs2005/docupload/internal/netx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func infoServer(t *testing.T, status int, body string, seen func(r *http.Request, req negotiationRequest)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req negotiationRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if seen != nil {
			seen(r, req)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

const negotiatedBody = `{
  "parameters": {"url": "https://x/store", "method": "post", "data": {"token": "abc"}},
  "document": {"id": "d-1", "name": "report.pdf", "metadata": {"bucket": "docs"}}
}`

func TestHTTPNegotiator_SendsRequestAndParsesResponse(t *testing.T) {
	var (
		gotMethod string
		gotAuth   string
		gotType   string
		gotReq    negotiationRequest
	)
	srv := infoServer(t, http.StatusOK, negotiatedBody, func(r *http.Request, req negotiationRequest) {
		gotMethod = r.Method
		gotAuth = r.Header.Get("Authorization")
		gotType = r.Header.Get("Content-Type")
		gotReq = req
	})

	n := NewHTTPNegotiator(srv.Client(), srv.URL, DescriptorFromNegotiation, WithToken("tkn"), WithCorpus("papers"))
	neg, err := n.Negotiate(context.Background(), NewMemoryFile("report.pdf", nil))
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "Bearer tkn", gotAuth)
	assert.Equal(t, "application/json", gotType)
	assert.Equal(t, negotiationRequest{Name: "report.pdf", Corpus: "papers"}, gotReq)

	assert.Equal(t, Parameters{URL: "https://x/store", Method: "POST", Data: map[string]string{"token": "abc"}}, neg.Parameters)
	require.NotNil(t, neg.Document)
	assert.Equal(t, "d-1", neg.Document.ID)
	assert.Equal(t, "docs", neg.Document.Metadata["bucket"])
}

func TestHTTPNegotiator_NoTokenNoAuthorizationHeader(t *testing.T) {
	hasAuth := true
	srv := infoServer(t, http.StatusOK, negotiatedBody, func(r *http.Request, _ negotiationRequest) {
		_, hasAuth = r.Header["Authorization"]
	})

	_, err := NewHTTPNegotiator(srv.Client(), srv.URL, DescriptorFromNegotiation).
		Negotiate(context.Background(), NewMemoryFile("a.txt", nil))
	require.NoError(t, err)
	assert.False(t, hasAuth)
}

func TestHTTPNegotiator_EmptyNameIsRejectedWithoutRequest(t *testing.T) {
	var calls atomic.Int32
	srv := infoServer(t, http.StatusOK, negotiatedBody, func(*http.Request, negotiationRequest) { calls.Add(1) })

	_, err := NewHTTPNegotiator(srv.Client(), srv.URL, DescriptorFromNegotiation).
		Negotiate(context.Background(), NewMemoryFile("  ", nil))

	var ne *NegotiationError
	require.ErrorAs(t, err, &ne)
	require.ErrorIs(t, err, ErrEmptyName)
	assert.Zero(t, calls.Load())
}

func TestHTTPNegotiator_Failures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		mode    DescriptorMode
		wantErr error
	}{
		{
			name:    "malformed json",
			status:  http.StatusOK,
			body:    `{"parameters":`,
			mode:    DescriptorFromNegotiation,
			wantErr: ErrMalformedResponse,
		},
		{
			name:    "missing parameters",
			status:  http.StatusOK,
			body:    `{"document": {"id": "d"}}`,
			mode:    DescriptorFromNegotiation,
			wantErr: ErrMalformedResponse,
		},
		{
			name:    "missing method",
			status:  http.StatusOK,
			body:    `{"parameters": {"url": "https://x/store"}, "document": {"id": "d"}}`,
			mode:    DescriptorFromNegotiation,
			wantErr: ErrMalformedResponse,
		},
		{
			name:    "relative destination",
			status:  http.StatusOK,
			body:    `{"parameters": {"url": "/store", "method": "POST"}, "document": {"id": "d"}}`,
			mode:    DescriptorFromNegotiation,
			wantErr: ErrMalformedResponse,
		},
		{
			name:    "flattened shape",
			status:  http.StatusOK,
			body:    `{"url": "https://x/store", "method": "POST", "data": {}, "document": {"id": "d"}}`,
			mode:    DescriptorFromNegotiation,
			wantErr: ErrProtocolMismatch,
		},
		{
			name:    "document missing in negotiation mode",
			status:  http.StatusOK,
			body:    `{"parameters": {"url": "https://x/store", "method": "POST"}}`,
			mode:    DescriptorFromNegotiation,
			wantErr: ErrProtocolMismatch,
		},
		{
			name:    "document present in transfer mode",
			status:  http.StatusOK,
			body:    negotiatedBody,
			mode:    DescriptorFromTransfer,
			wantErr: ErrProtocolMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := infoServer(t, tt.status, tt.body, nil)

			_, err := NewHTTPNegotiator(srv.Client(), srv.URL, tt.mode).
				Negotiate(context.Background(), NewMemoryFile("a.txt", nil))

			var ne *NegotiationError
			require.ErrorAs(t, err, &ne)
			assert.Equal(t, "a.txt", ne.File)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestHTTPNegotiator_NonSuccessStatus(t *testing.T) {
	srv := infoServer(t, http.StatusUnauthorized, `{"message":"missing token"}`, nil)

	_, err := NewHTTPNegotiator(srv.Client(), srv.URL, DescriptorFromNegotiation).
		Negotiate(context.Background(), NewMemoryFile("a.txt", nil))

	var se *netx.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusUnauthorized, se.StatusCode)
}

func TestHTTPNegotiator_TransferModeWithoutDocument(t *testing.T) {
	srv := infoServer(t, http.StatusOK, `{"parameters": {"url": "http://127.0.0.1/document", "method": "PUT", "data": {"token": "t"}}}`, nil)

	neg, err := NewHTTPNegotiator(srv.Client(), srv.URL, DescriptorFromTransfer).
		Negotiate(context.Background(), NewMemoryFile("a.txt", nil))
	require.NoError(t, err)
	assert.Nil(t, neg.Document)
	assert.Equal(t, "PUT", neg.Parameters.Method)
}

func TestHTTPNegotiator_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewHTTPNegotiator(nil, url, DescriptorFromNegotiation).
		Negotiate(context.Background(), NewMemoryFile("a.txt", nil))

	var ne *NegotiationError
	require.True(t, errors.As(err, &ne))
}
