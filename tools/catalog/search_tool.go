package catalog

import (
	"context"
	"encoding/json"

	"github.com/cockroachdb/errors"
	"github.com/salesdesk-ai/salesdesk/chatmodel"
	"github.com/salesdesk-ai/salesdesk/llmutils"
	"github.com/salesdesk-ai/salesdesk/schema"
	"github.com/salesdesk-ai/salesdesk/tools"
)

const (
	// SearchToolName is the free-text catalog search tool name.
	SearchToolName = "SearchCatalog"
	// StructuredSearchToolName is the filtered catalog search tool name.
	StructuredSearchToolName = "StructuredSearchCatalog"
)

// SearchRequest is the free-text search input.
type SearchRequest struct {
	Query string `json:"Query" jsonschema:"title=Query,description=Text to match against product names and descriptions."`
}

// StructuredSearchRequest is the filtered search input.
type StructuredSearchRequest struct {
	Category    string  `json:"Category,omitempty" jsonschema:"title=Category,description=Product category to filter by."`
	MaxPrice    float64 `json:"MaxPrice,omitempty" jsonschema:"title=MaxPrice,description=Maximum price; zero means no limit."`
	InStockOnly bool    `json:"InStockOnly,omitempty" jsonschema:"title=InStockOnly,description=Only return products that are in stock."`
}

// SearchResult is the response of both catalog search tools.
type SearchResult struct {
	Products []Product `json:"products"`
}

// SearchTool searches the catalog by free text.
type SearchTool struct {
	catalog    *Catalog
	funcParams any
}

var _ tools.Tool[SearchRequest, SearchResult] = (*SearchTool)(nil)

func NewSearchTool(c *Catalog) *SearchTool {
	return &SearchTool{
		catalog:    c,
		funcParams: schema.MustParameters(SearchRequest{}),
	}
}

func (t *SearchTool) Name() string { return SearchToolName }
func (t *SearchTool) Description() string {
	return "Search the product catalog by name, category, or description."
}
func (t *SearchTool) Parameters() any { return t.funcParams }

func (t *SearchTool) Run(ctx context.Context, req *SearchRequest) (*SearchResult, error) {
	if req.Query == "" {
		return nil, errors.New("invalid request: empty query")
	}
	return &SearchResult{Products: t.catalog.Search(req.Query)}, nil
}

func (t *SearchTool) Call(ctx context.Context, input string) (string, error) {
	var req SearchRequest
	if err := json.Unmarshal(llmutils.CleanJSON([]byte(input)), &req); err != nil {
		return "", errors.WithStack(chatmodel.ErrFailedUnmarshalInput)
	}
	out, err := t.Run(ctx, &req)
	if err != nil {
		return "", err
	}
	if len(out.Products) == 0 {
		return "No products matched the search.", nil
	}
	return llmutils.ToJSON(out), nil
}

// StructuredSearchTool searches the catalog with explicit filters.
type StructuredSearchTool struct {
	catalog    *Catalog
	funcParams any
}

var _ tools.Tool[StructuredSearchRequest, SearchResult] = (*StructuredSearchTool)(nil)

func NewStructuredSearchTool(c *Catalog) *StructuredSearchTool {
	return &StructuredSearchTool{
		catalog:    c,
		funcParams: schema.MustParameters(StructuredSearchRequest{}),
	}
}

func (t *StructuredSearchTool) Name() string { return StructuredSearchToolName }
func (t *StructuredSearchTool) Description() string {
	return "Search the product catalog by category, price limit, and stock availability."
}
func (t *StructuredSearchTool) Parameters() any { return t.funcParams }

func (t *StructuredSearchTool) Run(ctx context.Context, req *StructuredSearchRequest) (*SearchResult, error) {
	return &SearchResult{
		Products: t.catalog.Filter(req.Category, req.MaxPrice, req.InStockOnly),
	}, nil
}

func (t *StructuredSearchTool) Call(ctx context.Context, input string) (string, error) {
	var req StructuredSearchRequest
	if err := json.Unmarshal(llmutils.CleanJSON([]byte(input)), &req); err != nil {
		return "", errors.WithStack(chatmodel.ErrFailedUnmarshalInput)
	}
	out, err := t.Run(ctx, &req)
	if err != nil {
		return "", err
	}
	if len(out.Products) == 0 {
		return "No products matched the filters.", nil
	}
	return llmutils.ToJSON(out), nil
}
