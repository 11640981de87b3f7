package lang

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestT(t *testing.T) {
	tests := []struct {
		name string
		code string
		key  string
		args []interface{}
		want string
	}{
		{"ja literal", Ja, "no_items_selected", nil, "選択された商品がありません"},
		{"en literal", En, "no_items_selected", nil, "No items selected"},
		{"format", En, "total", []interface{}{"¥", int64(1000)}, "Total: ¥1000"},
		{"unknown code falls back to ja", "uz", "place_order", nil, "注文する"},
		{"unknown key returns key", En, "nope", nil, "nope"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, T(tt.code, tt.key, tt.args...))
		})
	}
}

func TestTablesHaveSameKeys(t *testing.T) {
	for key := range messages[Ja] {
		_, ok := messages[En][key]
		assert.True(t, ok, "en is missing %q", key)
	}
	for key := range messages[En] {
		_, ok := messages[Ja][key]
		assert.True(t, ok, "ja is missing %q", key)
	}
}

func TestValid(t *testing.T) {
	assert.True(t, Valid(Ja))
	assert.True(t, Valid(En))
	assert.False(t, Valid("ru"))
}
