package listings

import (
	"fmt"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"

	"github.com/bobmcallan/iposhala-portal/internal/models"
)

// Listing statuses recorded in the index.
const (
	StatusLive     = "live"
	StatusUpcoming = "upcoming"
	StatusClosed   = "closed"
	StatusGMP      = "gmp"
)

// DefaultSearchLimit caps search results when no limit is given.
const DefaultSearchLimit = 25

var searchFields = []string{"symbol", "name", "type", "status"}

// Document is one searchable listing.
type Document struct {
	ID     string
	Symbol string
	Name   string
	Type   string
	Status string
}

func (d Document) fields() map[string]any {
	return map[string]any{
		"symbol": d.Symbol,
		"name":   d.Name,
		"type":   d.Type,
		"status": d.Status,
	}
}

// Hit is a search result.
type Hit struct {
	Symbol string
	Name   string
	Type   string
	Status string
	Score  float64
}

// Documents merges the listings into one document per company. A company
// seen in several lists keeps the most current status: live, then upcoming,
// then closed. GMP rows only add companies not listed elsewhere.
func Documents(closed, live, upcoming []models.IPO, gmp []models.GMPEntry) []Document {
	var docs []Document
	seen := make(map[string]bool)
	names := make(map[string]bool)

	add := func(ipos []models.IPO, status string) {
		for _, ipo := range ipos {
			key := ipo.Key()
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			names[strings.ToLower(strings.TrimSpace(ipo.CompanyName))] = true
			docs = append(docs, Document{
				ID:     key,
				Symbol: key,
				Name:   ipo.CompanyName,
				Type:   ipo.SecurityType,
				Status: status,
			})
		}
	}
	add(live, StatusLive)
	add(upcoming, StatusUpcoming)
	add(closed, StatusClosed)

	for _, e := range gmp {
		symbol := strings.ToUpper(strings.TrimSpace(e.Symbol))
		name := strings.ToLower(strings.TrimSpace(e.Name))
		if name == "" || names[name] || (symbol != "" && seen[symbol]) {
			continue
		}
		names[name] = true
		docs = append(docs, Document{
			ID:     "gmp:" + name,
			Symbol: symbol,
			Name:   e.Name,
			Type:   e.Type,
			Status: StatusGMP,
		})
	}
	return docs
}

// Index is an in-memory full-text index over listings. Rebuild swaps in a
// fresh index so searches never see a half built one.
type Index struct {
	mu    sync.RWMutex
	index bleve.Index
}

// NewIndex creates an empty index.
func NewIndex() (*Index, error) {
	idx, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create search index: %w", err)
	}
	return &Index{index: idx}, nil
}

func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	listingMapping := bleve.NewDocumentMapping()

	textFieldMapping := bleve.NewTextFieldMapping()
	textFieldMapping.Store = true
	textFieldMapping.Index = true
	for _, f := range searchFields {
		listingMapping.AddFieldMappingsAt(f, textFieldMapping)
	}

	indexMapping.DefaultMapping = listingMapping
	return indexMapping
}

// Rebuild replaces the index contents with docs.
func (i *Index) Rebuild(docs []Document) error {
	fresh, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return err
	}
	batch := fresh.NewBatch()
	for _, d := range docs {
		if err := batch.Index(d.ID, d.fields()); err != nil {
			fresh.Close()
			return fmt.Errorf("failed to add %s to batch: %w", d.ID, err)
		}
	}
	if err := fresh.Batch(batch); err != nil {
		fresh.Close()
		return fmt.Errorf("failed to execute batch: %w", err)
	}

	i.mu.Lock()
	old := i.index
	i.index = fresh
	i.mu.Unlock()

	return old.Close()
}

// Count returns the number of indexed documents.
func (i *Index) Count() uint64 {
	i.mu.RLock()
	defer i.mu.RUnlock()
	n, _ := i.index.DocCount()
	return n
}

// Search matches query against symbols and company names. Exact symbol
// matches rank first, then symbol prefixes, then name matches.
func (i *Index) Search(query string, limit int) ([]Hit, error) {
	q := strings.ToLower(strings.TrimSpace(strings.NewReplacer("*", "", "?", "").Replace(query)))
	if q == "" {
		return []Hit{}, nil
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	exact := bleve.NewTermQuery(q)
	exact.SetField("symbol")
	exact.SetBoost(10.0)

	prefix := bleve.NewPrefixQuery(q)
	prefix.SetField("symbol")
	prefix.SetBoost(5.0)

	nameMatch := bleve.NewMatchQuery(q)
	nameMatch.SetField("name")
	nameMatch.SetBoost(3.0)

	namePrefix := bleve.NewPrefixQuery(q)
	namePrefix.SetField("name")
	namePrefix.SetBoost(2.0)

	nameWildcard := bleve.NewWildcardQuery("*" + q + "*")
	nameWildcard.SetField("name")
	nameWildcard.SetBoost(1.5)

	req := bleve.NewSearchRequest(bleve.NewDisjunctionQuery(exact, prefix, nameMatch, namePrefix, nameWildcard))
	req.Fields = searchFields
	req.Size = limit

	i.mu.RLock()
	res, err := i.index.Search(req)
	i.mu.RUnlock()
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	getString := func(fields map[string]any, key string) string {
		if val, ok := fields[key].(string); ok {
			return val
		}
		return ""
	}

	hits := make([]Hit, 0, len(res.Hits))
	for _, h := range res.Hits {
		hits = append(hits, Hit{
			Symbol: getString(h.Fields, "symbol"),
			Name:   getString(h.Fields, "name"),
			Type:   getString(h.Fields, "type"),
			Status: getString(h.Fields, "status"),
			Score:  h.Score,
		})
	}
	return hits, nil
}

// Close releases the index.
func (i *Index) Close() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.index.Close()
}
