package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// DocumentKind names a backend-generated document.
type DocumentKind string

const (
	FinalReport    DocumentKind = "final-report"
	ChainOfCustody DocumentKind = "chain-of-custody"
	StatusSummary  DocumentKind = "status-summary"
)

// Downloadable reports whether the kind has a PDF endpoint.
func (k DocumentKind) Downloadable() bool {
	return k == FinalReport || k == ChainOfCustody
}

// Filename derives the download name from the sample code, or the id when the code is empty.
func (k DocumentKind) Filename(sampleID int, sampleCode string) string {
	prefix := "documento"
	switch k {
	case FinalReport:
		prefix = "reporte_final"
	case ChainOfCustody:
		prefix = "cadena_custodia"
	case StatusSummary:
		prefix = "resumen_estado"
	}
	if code := safeName(sampleCode); code != "" {
		return fmt.Sprintf("%s_%s.pdf", prefix, code)
	}
	return fmt.Sprintf("%s_%d.pdf", prefix, sampleID)
}

// safeName keeps letters, digits, '-' and '_' so a code can be used as a
// ZIP entry or Content-Disposition file name. Other runes become '_'.
func safeName(code string) string {
	code = strings.TrimSpace(code)
	var b strings.Builder
	for _, r := range code {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	if strings.Trim(b.String(), "_") == "" {
		return ""
	}
	return b.String()
}

// ParseDocumentKind accepts the kinds exposed to the browser.
func ParseDocumentKind(raw string) (DocumentKind, bool) {
	switch k := DocumentKind(raw); k {
	case FinalReport, ChainOfCustody, StatusSummary:
		return k, true
	}
	return "", false
}

// Document fetches the JSON data of a document.
func (c *Client) Document(ctx context.Context, kind DocumentKind, sampleID int) (json.RawMessage, error) {
	var out json.RawMessage
	err := c.do(ctx, call{
		method:   http.MethodGet,
		path:     fmt.Sprintf("/api/documents/%s/%d", kind, sampleID),
		resource: "documents",
		out:      &out,
	})
	return out, err
}

// DocumentInto decodes the JSON data of a document into out.
func (c *Client) DocumentInto(ctx context.Context, kind DocumentKind, sampleID int, out any) error {
	return c.do(ctx, call{
		method:   http.MethodGet,
		path:     fmt.Sprintf("/api/documents/%s/%d", kind, sampleID),
		resource: "documents",
		out:      out,
	})
}

// DocumentPDF downloads the rendered PDF of a document.
func (c *Client) DocumentPDF(ctx context.Context, kind DocumentKind, sampleID int) ([]byte, error) {
	if !kind.Downloadable() {
		return nil, fmt.Errorf("document %s has no pdf", kind)
	}
	raw, _, err := c.roundTrip(ctx, call{
		method:   http.MethodGet,
		path:     fmt.Sprintf("/api/documents/%s-pdf/%d", kind, sampleID),
		resource: "documents-pdf",
	}, "application/pdf")
	return raw, err
}

// Ping checks that the backend answers at all. Any HTTP response counts.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/sample-status", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return &UnreachableError{BaseURL: c.baseURL, Err: err}
	}
	resp.Body.Close()
	return nil
}
