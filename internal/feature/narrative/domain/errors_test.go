package domain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserMessage(t *testing.T) {
	t.Parallel()

	assert.Empty(t, UserMessage(nil))
	msg := UserMessage(fmt.Errorf("%w: summarize_trend: 401 invalid x-api-key", ErrNarrativeUnavailable))
	assert.NotEmpty(t, msg)
	assert.NotContains(t, msg, "x-api-key")
}
