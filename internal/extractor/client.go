package extractor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/dgallion1/docstruct/internal/document"
)

// Client calls a remote extraction service for formats the local adapters
// cannot read (DOCX, OCR output for scans). The service replies with the
// same page model the local adapters produce.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

// Extract uploads the document and decodes the extraction response.
func (c *Client) Extract(ctx context.Context, r io.Reader, filename string) (*document.Extraction, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, fmt.Errorf("write form file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/extract", &body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("extract request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("extract %s: status %d: %s", filename, resp.StatusCode, string(respBody))
	}

	var ext document.Extraction
	if err := json.NewDecoder(resp.Body).Decode(&ext); err != nil {
		return nil, fmt.Errorf("decode extraction: %w", err)
	}
	if ext.Filename == "" {
		ext.Filename = filename
	}
	ext.EnsureCharCounts()
	if len(ext.TOCCandidates) == 0 {
		ext.TOCCandidates = tocCandidates(ext.Pages)
	}
	return &ext, nil
}

// Close releases idle connections.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}
