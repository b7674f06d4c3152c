// Package cart provides the shopping-cart tools for the sales assistant.
// The cart is keyed by the conversation thread id carried in the request
// context, so concurrent conversations never see each other's items.
package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/salesdesk-ai/salesdesk/chatmodel"
	"github.com/salesdesk-ai/salesdesk/llmutils"
	"github.com/salesdesk-ai/salesdesk/schema"
	"github.com/salesdesk-ai/salesdesk/store"
	"github.com/salesdesk-ai/salesdesk/tools"
	"github.com/salesdesk-ai/salesdesk/tools/catalog"
)

const (
	// AddToolName is the add-to-cart tool name.
	AddToolName = "AddToCart"
	// ViewToolName is the view-cart tool name.
	ViewToolName = "ViewCart"
)

// AddRequest is the add-to-cart input.
type AddRequest struct {
	SKU      string `json:"SKU" jsonschema:"title=SKU,description=The SKU of the product to add."`
	Quantity int    `json:"Quantity,omitempty" jsonschema:"title=Quantity,description=How many to add; defaults to one."`
}

// AddResult is the add-to-cart response.
type AddResult struct {
	Item    *store.CartItem `json:"item,omitempty"`
	Message string          `json:"message"`
}

// ViewRequest is the view-cart input; it has no fields.
type ViewRequest struct{}

// ViewResult is the view-cart response.
type ViewResult struct {
	Items []store.CartItem `json:"items"`
	Total float64          `json:"total"`
}

// AddTool adds a catalog product to the current thread's cart.
type AddTool struct {
	catalog    *catalog.Catalog
	carts      store.CartStore
	funcParams any
}

var _ tools.Tool[AddRequest, AddResult] = (*AddTool)(nil)

func NewAddTool(c *catalog.Catalog, carts store.CartStore) *AddTool {
	return &AddTool{
		catalog:    c,
		carts:      carts,
		funcParams: schema.MustParameters(AddRequest{}),
	}
}

func (t *AddTool) Name() string { return AddToolName }
func (t *AddTool) Description() string {
	return "Add a product from the catalog to the customer's shopping cart."
}
func (t *AddTool) Parameters() any { return t.funcParams }

func (t *AddTool) Run(ctx context.Context, req *AddRequest) (*AddResult, error) {
	if req.SKU == "" {
		return nil, errors.New("invalid request: empty SKU")
	}
	quantity := req.Quantity
	if quantity <= 0 {
		quantity = 1
	}

	product, ok := t.catalog.Get(req.SKU)
	if !ok {
		return &AddResult{
			Message: fmt.Sprintf("Product %s was not found in the catalog.", req.SKU),
		}, nil
	}
	if !product.InStock {
		return &AddResult{
			Message: fmt.Sprintf("Product %s (%s) is out of stock.", product.SKU, product.Name),
		}, nil
	}

	item := store.CartItem{
		SKU:      product.SKU,
		Name:     product.Name,
		Price:    product.Price,
		Quantity: quantity,
		AddedAt:  time.Now().UTC(),
	}
	threadID := chatmodel.GetThreadID(ctx)
	if err := t.carts.Add(ctx, threadID, item); err != nil {
		return nil, errors.WithMessage(err, "failed to add item to cart")
	}

	return &AddResult{
		Item:    &item,
		Message: fmt.Sprintf("Added %d x %s to the cart.", quantity, product.Name),
	}, nil
}

func (t *AddTool) Call(ctx context.Context, input string) (string, error) {
	var req AddRequest
	if err := json.Unmarshal(llmutils.CleanJSON([]byte(input)), &req); err != nil {
		return "", errors.WithStack(chatmodel.ErrFailedUnmarshalInput)
	}
	out, err := t.Run(ctx, &req)
	if err != nil {
		return "", err
	}
	return llmutils.ToJSON(out), nil
}

// ViewTool returns the current thread's cart contents.
type ViewTool struct {
	carts      store.CartStore
	funcParams any
}

var _ tools.Tool[ViewRequest, ViewResult] = (*ViewTool)(nil)

func NewViewTool(carts store.CartStore) *ViewTool {
	return &ViewTool{
		carts:      carts,
		funcParams: schema.MustParameters(ViewRequest{}),
	}
}

func (t *ViewTool) Name() string { return ViewToolName }
func (t *ViewTool) Description() string {
	return "Show the contents of the customer's shopping cart."
}
func (t *ViewTool) Parameters() any { return t.funcParams }

func (t *ViewTool) Run(ctx context.Context, _ *ViewRequest) (*ViewResult, error) {
	threadID := chatmodel.GetThreadID(ctx)
	items, err := t.carts.Items(ctx, threadID)
	if err != nil {
		return nil, errors.WithMessage(err, "failed to read cart")
	}
	res := &ViewResult{Items: items}
	for _, item := range items {
		res.Total += item.Price * float64(item.Quantity)
	}
	return res, nil
}

func (t *ViewTool) Call(ctx context.Context, input string) (string, error) {
	out, err := t.Run(ctx, &ViewRequest{})
	if err != nil {
		return "", err
	}
	if len(out.Items) == 0 {
		return "The cart is empty.", nil
	}
	return llmutils.ToJSON(out), nil
}
