// Package usecase implements the business logic for symbol-related operations.
package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"stock_insights/internal/feature/symbollist/domain/entity"
)

// SymbolRepository abstracts the persistence layer for suggested tickers.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type SymbolRepository interface {
	ListActive(ctx context.Context) ([]entity.Symbol, error)
	ListActiveCodes(ctx context.Context) ([]string, error)
	Count(ctx context.Context) (int64, error)
	InsertMissing(ctx context.Context, symbols []entity.Symbol) error
}

// SymbolUsecase provides business logic for symbol operations.
type SymbolUsecase struct {
	repo SymbolRepository
}

// NewSymbolUsecase creates a new SymbolUsecase with the given repository.
func NewSymbolUsecase(r SymbolRepository) *SymbolUsecase {
	return &SymbolUsecase{repo: r}
}

// Suggest returns active symbols whose code starts with q or whose name contains q,
// ignoring case. An empty q returns every active symbol. Code matches come first.
func (u *SymbolUsecase) Suggest(ctx context.Context, q string) ([]entity.Symbol, error) {
	symbols, err := u.repo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	q = strings.ToUpper(strings.TrimSpace(q))
	if q == "" {
		return symbols, nil
	}

	var byCode, byName []entity.Symbol
	for _, s := range symbols {
		switch {
		case strings.HasPrefix(s.Code, q):
			byCode = append(byCode, s)
		case strings.Contains(strings.ToUpper(s.Name), q):
			byName = append(byName, s)
		}
	}
	return append(byCode, byName...), nil
}

// ListActiveCodes returns the codes of all active symbols; used by the cache warm-up.
func (u *SymbolUsecase) ListActiveCodes(ctx context.Context) ([]string, error) {
	return u.repo.ListActiveCodes(ctx)
}

// SeedDefaults はテーブルが空の場合にのみ entity.DefaultSymbols を投入します。
// 運用中に無効化された銘柄を復活させないよう、既存データがあれば何もしません。
func (u *SymbolUsecase) SeedDefaults(ctx context.Context) error {
	n, err := u.repo.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count symbols: %w", err)
	}
	if n > 0 {
		return nil
	}
	if err := u.repo.InsertMissing(ctx, entity.DefaultSymbols); err != nil {
		return fmt.Errorf("failed to seed symbols: %w", err)
	}
	slog.InfoContext(ctx, "seeded default symbols", "count", len(entity.DefaultSymbols))
	return nil
}
