package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestUserMessage は失敗の種類ごとに異なるメッセージが返り、生のエラーテキストが含まれないことを検証します。
func TestUserMessage(t *testing.T) {
	t.Parallel()

	kinds := []error{
		ErrInvalidTicker,
		ErrInvalidRange,
		ErrQuotaExceeded,
		ErrSymbolNotFound,
		ErrNoDataReturned,
		ErrTransportTimeout,
		ErrDataUnavailable,
	}

	seen := map[string]error{}
	for _, kind := range kinds {
		msg := UserMessage(fmt.Errorf("yahoo: %w: status 503 body=<html>", kind))
		assert.NotEmpty(t, msg)
		assert.NotContains(t, msg, "<html>")
		if prev, dup := seen[msg]; dup {
			t.Errorf("%v and %v share the message %q", prev, kind, msg)
		}
		seen[msg] = kind
	}

	assert.Empty(t, UserMessage(nil))
	assert.Equal(t, UserMessage(ErrDataUnavailable), UserMessage(errors.New("unclassified")))
}
