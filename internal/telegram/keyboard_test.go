package telegram

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginationRow(t *testing.T) {
	first := PaginationRow(0, 3, "page", "noop")
	assert.Len(t, first, 2)
	assert.Equal(t, "1/3", first[0].Text)
	assert.Equal(t, "noop", first[0].CallbackData)
	assert.Equal(t, "page:1", first[1].CallbackData)

	middle := PaginationRow(1, 3, "page", "noop")
	assert.Len(t, middle, 3)
	assert.Equal(t, "page:0", middle[0].CallbackData)
	assert.Equal(t, "page:2", middle[2].CallbackData)

	last := PaginationRow(2, 3, "page", "noop")
	assert.Len(t, last, 2)
	assert.Equal(t, "page:1", last[0].CallbackData)
	assert.Equal(t, "3/3", last[1].Text)
}

func TestInlineKeyboardNeverNilRows(t *testing.T) {
	kb := InlineKeyboard()
	assert.NotNil(t, kb.InlineKeyboard)
	assert.Empty(t, kb.InlineKeyboard)
}
