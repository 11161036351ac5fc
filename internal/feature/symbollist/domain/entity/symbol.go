// Package entity defines the domain models for the symbollist feature.
package entity

import "time"

// Symbol is a suggested ticker shown to users before they type their own.
type Symbol struct {
	ID        uint      `gorm:"primaryKey"`
	Code      string    `gorm:"size:20;not null;uniqueIndex"`
	Name      string    `gorm:"size:255;not null"`
	Exchange  string    `gorm:"size:50;not null"`
	IsActive  bool      `gorm:"not null;default:true"`
	SortKey   int       `gorm:"not null;default:0"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// DefaultSymbols はDBが空のときに投入される初期銘柄です。
var DefaultSymbols = []Symbol{
	{Code: "AAPL", Name: "Apple Inc.", Exchange: "NASDAQ", IsActive: true, SortKey: 1},
	{Code: "TSLA", Name: "Tesla, Inc.", Exchange: "NASDAQ", IsActive: true, SortKey: 2},
	{Code: "AMZN", Name: "Amazon.com, Inc.", Exchange: "NASDAQ", IsActive: true, SortKey: 3},
	{Code: "MSFT", Name: "Microsoft Corporation", Exchange: "NASDAQ", IsActive: true, SortKey: 4},
	{Code: "GOOGL", Name: "Alphabet Inc.", Exchange: "NASDAQ", IsActive: true, SortKey: 5},
	{Code: "NVDA", Name: "NVIDIA Corporation", Exchange: "NASDAQ", IsActive: true, SortKey: 6},
	{Code: "META", Name: "Meta Platforms, Inc.", Exchange: "NASDAQ", IsActive: true, SortKey: 7},
	{Code: "JPM", Name: "JPMorgan Chase & Co.", Exchange: "NYSE", IsActive: true, SortKey: 8},
}
