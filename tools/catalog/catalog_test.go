package catalog_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/cockroachdb/errors"
	"github.com/salesdesk-ai/salesdesk/chatmodel"
	"github.com/salesdesk-ai/salesdesk/llmutils"
	"github.com/salesdesk-ai/salesdesk/tools/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_LoadFile(t *testing.T) {
	c, err := catalog.LoadFile("testdata/catalog.toml")
	require.NoError(t, err)
	require.Len(t, c.Products, 4)

	p, ok := c.Get("sku-1001")
	require.True(t, ok)
	assert.Equal(t, "Wireless Mouse", p.Name)
	assert.Equal(t, 29.99, p.Price)

	_, ok = c.Get("SKU-9999")
	assert.False(t, ok)

	_, err = catalog.LoadFile("testdata/missing.toml")
	assert.Error(t, err)
}

func Test_Search(t *testing.T) {
	c, err := catalog.LoadFile("testdata/catalog.toml")
	require.NoError(t, err)

	assert.Empty(t, c.Search(""))
	assert.Empty(t, c.Search("   "))
	assert.Empty(t, c.Search("typewriter"))

	matches := c.Search("MOUSE")
	require.Len(t, matches, 1)
	assert.Equal(t, "SKU-1001", matches[0].SKU)

	// matches description text too
	matches = c.Search("usb-c")
	require.Len(t, matches, 1)
	assert.Equal(t, "SKU-2001", matches[0].SKU)

	matches = c.Search("accessories")
	assert.Len(t, matches, 2)
}

func Test_Filter(t *testing.T) {
	c, err := catalog.LoadFile("testdata/catalog.toml")
	require.NoError(t, err)

	all := c.Filter("", 0, false)
	assert.Len(t, all, 4)

	inStock := c.Filter("", 0, true)
	assert.Len(t, inStock, 3)

	cheap := c.Filter("", 100, false)
	assert.Len(t, cheap, 2)

	audio := c.Filter("Audio", 0, false)
	require.Len(t, audio, 1)
	assert.Equal(t, "SKU-3001", audio[0].SKU)

	none := c.Filter("Audio", 100, false)
	assert.Empty(t, none)
}

func Test_SearchTool(t *testing.T) {
	c, err := catalog.LoadFile("testdata/catalog.toml")
	require.NoError(t, err)
	tool := catalog.NewSearchTool(c)

	assert.Equal(t, catalog.SearchToolName, tool.Name())
	assert.NotEmpty(t, tool.Description())
	assert.NotNil(t, tool.Parameters())

	ctx := context.Background()

	_, err = tool.Call(ctx, "not json")
	assert.True(t, errors.Is(err, chatmodel.ErrFailedUnmarshalInput))

	_, err = tool.Call(ctx, `{}`)
	assert.EqualError(t, err, "invalid request: empty query")

	res, err := tool.Call(ctx, llmutils.ToJSON(&catalog.SearchRequest{Query: "keyboard"}))
	require.NoError(t, err)
	assert.Contains(t, res, "SKU-1002")
	assert.Contains(t, res, "Mechanical Keyboard")

	res, err = tool.Call(ctx, llmutils.ToJSON(&catalog.SearchRequest{Query: "typewriter"}))
	require.NoError(t, err)
	assert.Equal(t, "No products matched the search.", res)
}

func Test_StructuredSearchTool(t *testing.T) {
	c, err := catalog.LoadFile("testdata/catalog.toml")
	require.NoError(t, err)
	tool := catalog.NewStructuredSearchTool(c)

	assert.Equal(t, catalog.StructuredSearchToolName, tool.Name())
	assert.NotNil(t, tool.Parameters())

	ctx := context.Background()

	_, err = tool.Call(ctx, "not json")
	assert.True(t, errors.Is(err, chatmodel.ErrFailedUnmarshalInput))

	res, err := tool.Call(ctx, llmutils.ToJSON(&catalog.StructuredSearchRequest{
		Category: "Accessories",
		MaxPrice: 50,
	}))
	require.NoError(t, err)
	assert.Contains(t, res, "SKU-1001")
	assert.NotContains(t, res, "SKU-1002")

	res, err = tool.Call(ctx, llmutils.ToJSON(&catalog.StructuredSearchRequest{
		Category:    "Displays",
		InStockOnly: true,
	}))
	require.NoError(t, err)
	assert.Equal(t, "No products matched the filters.", res)
}

func Test_Search_Generated(t *testing.T) {
	faker := gofakeit.New(11)

	products := make([]catalog.Product, 0, 50)
	for i := range 50 {
		products = append(products, catalog.Product{
			SKU:         fmt.Sprintf("GEN-%04d", i),
			Name:        faker.ProductName(),
			Category:    faker.ProductCategory(),
			Price:       faker.Price(5, 500),
			Description: faker.ProductDescription(),
			InStock:     faker.Bool(),
		})
	}
	// one known product among the generated ones
	products = append(products, catalog.Product{
		SKU:      "GEN-KNOWN",
		Name:     "Quantum Flux Capacitor",
		Category: "Gadgets",
		Price:    88.00,
		InStock:  true,
	})
	c := catalog.New(products...)

	matches := c.Search("quantum flux")
	require.Len(t, matches, 1)
	assert.Equal(t, "GEN-KNOWN", matches[0].SKU)

	// every search hit actually contains the query
	for _, p := range c.Search("pro") {
		hay := strings.ToLower(fmt.Sprintf("%s %s %s", p.Name, p.Category, p.Description))
		assert.Containsf(t, hay, "pro", "product %s", p.SKU)
	}
}
