package client

import (
	"errors"
	"net/url"
)

// ErrUnknownDocType is returned for a document type the backend does not serve.
var ErrUnknownDocType = errors.New("unknown document type")

// DocType describes one downloadable offer document.
type DocType struct {
	Key   string
	Label string
}

// DocTypes lists the offer documents in display order.
var DocTypes = []DocType{
	{Key: "ratios", Label: "Ratios / Basis Issue Price (PDF)"},
	{Key: "rhp", Label: "Red Herring Prospectus (RHP)"},
	{Key: "bidding_centers", Label: "Bidding Centers (PDF)"},
	{Key: "forms", Label: "Sample Application Forms (PDF)"},
	{Key: "security_pre", Label: "Security Parameters (Pre-Anchor)"},
	{Key: "security_post", Label: "Security Parameters (Post-Anchor)"},
}

// IsDocType reports whether key is a known document type.
func IsDocType(key string) bool {
	for _, d := range DocTypes {
		if d.Key == key {
			return true
		}
	}
	return false
}

// DocumentURL returns the absolute backend link for a document.
// Documents are not JSON, so they are linked to rather than fetched.
func (c *Client) DocumentURL(symbol, docType string) (string, error) {
	if !IsDocType(docType) {
		return "", ErrUnknownDocType
	}
	return c.baseURL + "/api/docs/" + url.PathEscape(NormalizeSymbol(symbol)) + "/" + docType, nil
}
