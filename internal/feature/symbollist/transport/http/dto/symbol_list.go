// Package dto defines data transfer objects for the symbollist HTTP API.
package dto

import "stock_insights/internal/feature/symbollist/domain/entity"

// SymbolItem is one suggested ticker. Storage fields (ID, SortKey, IsActive) stay internal.
type SymbolItem struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Exchange string `json:"exchange"`
}

// NewSymbolItems converts entities, always returning a non-nil slice so the body is `[]` when empty.
func NewSymbolItems(symbols []entity.Symbol) []SymbolItem {
	out := make([]SymbolItem, 0, len(symbols))
	for _, s := range symbols {
		out = append(out, SymbolItem{Code: s.Code, Name: s.Name, Exchange: s.Exchange})
	}
	return out
}
