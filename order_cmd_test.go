package main

import (
	"bytes"
	"testing"

	"storefront/lang"
	"storefront/models"
	"storefront/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOrderArg(t *testing.T) {
	tests := []struct {
		in      string
		want    orderArg
		wantErr bool
	}{
		{"m1=2", orderArg{id: "m1", qty: 2}, false},
		{"d1:L=3", orderArg{id: "d1", size: "L", qty: 3}, false},
		{"m1=-1", orderArg{id: "m1", qty: -1}, false},
		{"m1", orderArg{}, true},
		{"=2", orderArg{}, true},
		{"m1=two", orderArg{}, true},
	}
	for _, tt := range tests {
		got, err := parseOrderArg(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestPrintOrder(t *testing.T) {
	p := func(v int64) *int64 { return &v }
	catalog := []models.CatalogItem{
		{ID: "m1", Name: "Burger", Price: p(500)},
		{ID: "d1", Name: "Cola", Sizes: []models.Size{{Name: "S", Price: p(150)}, {Name: "L", Price: p(200)}}},
	}
	var out, errOut bytes.Buffer
	err := printOrder(&out, &errOut, catalog, lang.En, "¥", []string{"m1=1", "m1=1", "d1:L=3", "x9=1", "d1=1"})
	require.NoError(t, err)

	assert.Equal(t, "Order confirmation\nBurger x2 - ¥1000\nCola (L) x3 - ¥600\n\nTotal: ¥1600\n", out.String())
	assert.Contains(t, errOut.String(), `unknown item "x9"`)
	assert.Contains(t, errOut.String(), `item "d1" needs a size (S, L)`)
}

func TestPrintOrder_Empty(t *testing.T) {
	var out, errOut bytes.Buffer
	require.NoError(t, printOrder(&out, &errOut, nil, lang.Ja, "¥", nil))
	assert.Equal(t, "ご注文の確認\n選択された商品がありません\n\n合計: ¥0\n", out.String())
}

func TestPrintOrder_HugeQuantity(t *testing.T) {
	p := func(v int64) *int64 { return &v }
	catalog := []models.CatalogItem{{ID: "m1", Name: "Burger", Price: p(500)}}
	var out, errOut bytes.Buffer
	require.NoError(t, printOrder(&out, &errOut, catalog, lang.En, "¥", []string{"m1=18446744073709551", "m1=18446744073709551"}))
	assert.Contains(t, out.String(), "Total: ¥9223372036854775807")
	assert.NotContains(t, out.String(), "¥-")
}

func TestPrintOrder_BadArg(t *testing.T) {
	var out, errOut bytes.Buffer
	assert.Error(t, printOrder(&out, &errOut, nil, lang.Ja, "¥", []string{"oops"}))
}

func TestMigrationsEmbedded(t *testing.T) {
	names, err := migrationNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"migrations/001_catalog.sql", "migrations/002_orders.sql"}, names)
}

func TestSampleCatalog(t *testing.T) {
	catalog, err := services.LoadCatalogFile("products.json")
	require.NoError(t, err)
	require.Len(t, catalog, 6)

	var out, errOut bytes.Buffer
	require.NoError(t, printOrder(&out, &errOut, catalog, lang.Ja, "¥", []string{"m1=1", "s1:M=2", "d1:L=1"}))
	assert.Contains(t, out.String(), "ポテト (M) x2 - ¥560")
	assert.Contains(t, out.String(), "合計: ¥1260")
	assert.Empty(t, errOut.String())
}
