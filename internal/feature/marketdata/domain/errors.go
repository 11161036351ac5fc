// Package domain defines domain-level errors for the marketdata feature.
package domain

import "errors"

// Failure kinds returned by market data providers.
// Adapters wrap these with fmt.Errorf("...: %w") so callers can classify with errors.Is.
var (
	// ErrInvalidTicker indicates that the ticker symbol failed validation before any network call.
	ErrInvalidTicker = errors.New("invalid ticker symbol")

	// ErrInvalidRange indicates an unsupported period or interval.
	ErrInvalidRange = errors.New("invalid range")

	// ErrQuotaExceeded indicates that the provider signalled a rate limit (HTTP 429).
	// It is never retried.
	ErrQuotaExceeded = errors.New("provider quota exceeded")

	// ErrSymbolNotFound indicates that the provider does not know the symbol.
	ErrSymbolNotFound = errors.New("symbol not found")

	// ErrNoDataReturned indicates that the request succeeded but the body held no usable data.
	ErrNoDataReturned = errors.New("no data returned")

	// ErrTransportTimeout indicates that every attempt timed out.
	ErrTransportTimeout = errors.New("transport timeout")

	// ErrDataUnavailable covers any other upstream failure (5xx, connection refused, bad auth).
	ErrDataUnavailable = errors.New("data unavailable")
)

// UserMessage は失敗の種類ごとにエンドユーザー向けのメッセージを返します。
// 生のエラーテキストは返さず、ログにのみ出力する前提です。
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidTicker):
		return "Please enter a valid ticker symbol (1-5 letters, e.g. AAPL)."
	case errors.Is(err, ErrInvalidRange):
		return "The requested period or interval is not supported."
	case errors.Is(err, ErrQuotaExceeded):
		return "The market data provider's quota has been exceeded. Please try again later."
	case errors.Is(err, ErrSymbolNotFound):
		return "That ticker symbol was not found. Please check the symbol and try again."
	case errors.Is(err, ErrNoDataReturned):
		return "No data was returned for that symbol. Check the symbol or the requested period."
	case errors.Is(err, ErrTransportTimeout):
		return "The market data provider did not respond in time. Please try again."
	default:
		return "Market data is temporarily unavailable. Please try again later."
	}
}
