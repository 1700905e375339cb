package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/docupload/internal/common"
	"github.com/dmitrijs2005/docupload/internal/netx"
)

// Negotiator obtains upload parameters for a single file.
type Negotiator interface {
	Negotiate(ctx context.Context, file FileHandle) (Negotiation, error)
}

type negotiationRequest struct {
	Name   string `json:"name"`
	Corpus string `json:"corpus,omitempty"`
}

type negotiationResponse struct {
	Parameters *Parameters `json:"parameters"`
	Document   *Document   `json:"document"`

	// Set only by servers speaking the flattened shape, which is rejected.
	FlatURL string `json:"url"`
}

// HTTPNegotiator talks to the information endpoint over HTTP/JSON.
type HTTPNegotiator struct {
	client   *http.Client
	endpoint string
	mode     DescriptorMode
	token    string
	corpus   string
}

type NegotiatorOption func(*HTTPNegotiator)

// WithToken sends token as a bearer credential on every negotiation.
func WithToken(token string) NegotiatorOption {
	return func(n *HTTPNegotiator) { n.token = token }
}

// WithCorpus attaches a corpus identifier to every negotiation.
func WithCorpus(corpus string) NegotiatorOption {
	return func(n *HTTPNegotiator) { n.corpus = corpus }
}

func NewHTTPNegotiator(client *http.Client, endpoint string, mode DescriptorMode, opts ...NegotiatorOption) *HTTPNegotiator {
	if client == nil {
		client = http.DefaultClient
	}
	n := &HTTPNegotiator{client: client, endpoint: endpoint, mode: mode}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

func (n *HTTPNegotiator) Negotiate(ctx context.Context, file FileHandle) (Negotiation, error) {
	name := file.Name()
	fail := func(err error) (Negotiation, error) {
		return Negotiation{}, &NegotiationError{File: name, Err: err}
	}

	if strings.TrimSpace(name) == "" {
		return fail(ErrEmptyName)
	}

	body, err := json.Marshal(negotiationRequest{Name: name, Corpus: n.corpus})
	if err != nil {
		return fail(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, bytes.NewReader(body))
	if err != nil {
		return fail(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if n.token != "" {
		req.Header.Set(common.AuthorizationHeader, common.BearerPrefix+n.token)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fail(err)
	}
	defer netx.DrainAndClose(resp.Body)

	if err := netx.CheckResponse(resp); err != nil {
		return fail(err)
	}

	var nr negotiationResponse
	if err := json.NewDecoder(resp.Body).Decode(&nr); err != nil {
		return fail(fmt.Errorf("%w: %v", ErrMalformedResponse, err))
	}

	neg, err := nr.validate(n.mode)
	if err != nil {
		return fail(err)
	}
	return neg, nil
}

func (nr negotiationResponse) validate(mode DescriptorMode) (Negotiation, error) {
	if nr.Parameters == nil {
		if nr.FlatURL != "" {
			return Negotiation{}, fmt.Errorf("%w: parameters are not nested under \"parameters\"", ErrProtocolMismatch)
		}
		return Negotiation{}, fmt.Errorf("%w: missing parameters", ErrMalformedResponse)
	}

	p := *nr.Parameters
	p.Method = strings.ToUpper(strings.TrimSpace(p.Method))
	if p.Method == "" {
		return Negotiation{}, fmt.Errorf("%w: missing method", ErrMalformedResponse)
	}
	u, err := url.Parse(p.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return Negotiation{}, fmt.Errorf("%w: bad destination %q", ErrMalformedResponse, p.URL)
	}
	if p.Data == nil {
		p.Data = map[string]string{}
	}

	switch mode {
	case DescriptorFromTransfer:
		if nr.Document != nil {
			return Negotiation{}, fmt.Errorf("%w: negotiation carries a document in transfer mode", ErrProtocolMismatch)
		}
		return Negotiation{Parameters: p}, nil
	default:
		if nr.Document == nil || nr.Document.ID == "" {
			return Negotiation{}, fmt.Errorf("%w: negotiation carries no document", ErrProtocolMismatch)
		}
		doc := *nr.Document
		return Negotiation{Parameters: p, Document: &doc}, nil
	}
}
