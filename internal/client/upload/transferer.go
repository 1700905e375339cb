package upload

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"slices"
	"strings"

	"github.com/dmitrijs2005/docupload/internal/common"
	"github.com/dmitrijs2005/docupload/internal/netx"
	"github.com/gabriel-vasile/mimetype"
)

// sniffLen is how much content is peeked for MIME detection.
const sniffLen = 3072

// Transferer delivers a file to the destination named by a negotiation.
type Transferer interface {
	Transfer(ctx context.Context, file FileHandle, neg Negotiation) (Document, error)
}

// HTTPTransferer sends multipart form uploads.
type HTTPTransferer struct {
	client *http.Client
	mode   DescriptorMode
}

func NewHTTPTransferer(client *http.Client, mode DescriptorMode) *HTTPTransferer {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPTransferer{client: client, mode: mode}
}

func (t *HTTPTransferer) Transfer(ctx context.Context, file FileHandle, neg Negotiation) (Document, error) {
	fail := func(err error) (Document, error) {
		return Document{}, &TransferError{File: file.Name(), Err: err}
	}

	if err := t.checkMode(neg); err != nil {
		return fail(err)
	}

	src, err := file.Open()
	if err != nil {
		return fail(fmt.Errorf("open: %w", err))
	}
	defer src.Close()

	body, contentType, length, err := buildForm(neg.Parameters.Data, file, src)
	if err != nil {
		return fail(err)
	}

	req, err := http.NewRequestWithContext(ctx, neg.Parameters.Method, neg.Parameters.URL, body)
	if err != nil {
		return fail(err)
	}
	req.ContentLength = length
	req.Header.Set("Content-Type", contentType)

	resp, err := t.client.Do(req)
	if err != nil {
		return fail(err)
	}
	defer netx.DrainAndClose(resp.Body)

	if err := netx.CheckResponse(resp); err != nil {
		return fail(err)
	}

	if t.mode != DescriptorFromTransfer {
		return *neg.Document, nil
	}

	var doc Document
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return fail(fmt.Errorf("%w: %v", ErrMalformedResponse, err))
	}
	if doc.ID == "" {
		return fail(fmt.Errorf("%w: transfer response carries no document", ErrProtocolMismatch))
	}
	return doc, nil
}

func (t *HTTPTransferer) checkMode(neg Negotiation) error {
	switch {
	case t.mode == DescriptorFromTransfer && neg.Document != nil:
		return fmt.Errorf("%w: negotiated document in transfer mode", ErrProtocolMismatch)
	case t.mode != DescriptorFromTransfer && neg.Document == nil:
		return fmt.Errorf("%w: no negotiated document", ErrProtocolMismatch)
	}
	return nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// buildForm lays out the multipart body: every data field, then the content
// under common.FileFieldName. The content itself is streamed from src; only
// the form framing is buffered. For handles of unknown size the whole body is
// buffered so the request still carries a Content-Length, which presigned
// POST destinations require.
func buildForm(data map[string]string, file FileHandle, src io.Reader) (io.Reader, string, int64, error) {
	content := bufio.NewReaderSize(src, sniffLen)
	head, err := content.Peek(sniffLen)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, "", 0, fmt.Errorf("read: %w", err)
	}

	var frame bytes.Buffer
	mw := multipart.NewWriter(&frame)

	for _, k := range slices.Sorted(maps.Keys(data)) {
		if err := mw.WriteField(k, data[k]); err != nil {
			return nil, "", 0, err
		}
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		quoteEscaper.Replace(common.FileFieldName), quoteEscaper.Replace(file.Name())))
	h.Set("Content-Type", mimetype.Detect(head).String())
	if _, err := mw.CreatePart(h); err != nil {
		return nil, "", 0, err
	}

	prefixLen := frame.Len()
	if err := mw.Close(); err != nil {
		return nil, "", 0, err
	}
	prefix := frame.Bytes()[:prefixLen]
	suffix := frame.Bytes()[prefixLen:]

	body := io.MultiReader(bytes.NewReader(prefix), content, bytes.NewReader(suffix))

	if s, ok := file.(Sizer); ok {
		return body, mw.FormDataContentType(), int64(len(prefix)) + s.Size() + int64(len(suffix)), nil
	}

	buf, err := io.ReadAll(body)
	if err != nil {
		return nil, "", 0, fmt.Errorf("read: %w", err)
	}
	return bytes.NewReader(buf), mw.FormDataContentType(), int64(len(buf)), nil
}
