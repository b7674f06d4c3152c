package assistants

import (
	"github.com/salesdesk-ai/salesdesk/store"
	"github.com/salesdesk-ai/salesdesk/tools"
	"github.com/salesdesk-ai/salesdesk/tools/cart"
	"github.com/salesdesk-ai/salesdesk/tools/catalog"
	"github.com/salesdesk-ai/salesdesk/tools/handoff"
)

// DefaultSalesTools returns the toolset the sales assistant is bound with:
// catalog search, cart management, and routing to customer support.
func DefaultSalesTools(c *catalog.Catalog, carts store.CartStore) []tools.ITool {
	return []tools.ITool{
		handoff.NewRouteToSupport(),
		catalog.NewSearchTool(c),
		catalog.NewStructuredSearchTool(c),
		cart.NewAddTool(c, carts),
		cart.NewViewTool(carts),
	}
}

// DefaultSupportTools returns the toolset the support assistant is bound
// with. Extra tools, such as the web search set, are appended by the caller.
func DefaultSupportTools() []tools.ITool {
	return []tools.ITool{
		handoff.NewEscalateToHuman(),
	}
}
