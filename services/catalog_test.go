package services

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"storefront/db"
	"storefront/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleJSON = `{
  "items": [
    {"id": "m1", "name": "Burger", "price": 500, "image": "burger.png"},
    {"id": "d1", "name": "Cola", "sizes": [{"name": "S", "price": 150}, {"name": "L", "price": 200}]},
    {"id": "s1", "name": "Fries", "price": null},
    {"name": "Sticker", "price": 50}
  ]
}`

func TestParseCatalog(t *testing.T) {
	items, err := ParseCatalog(strings.NewReader(sampleJSON))
	require.NoError(t, err)
	require.Len(t, items, 4)

	assert.Equal(t, "burger.png", items[0].Image)
	assert.Equal(t, int64(500), items[0].BasePrice())
	assert.True(t, items[1].Sized())
	assert.Nil(t, items[1].Price)
	assert.Equal(t, int64(200), *items[1].Sizes[1].Price)
	assert.Nil(t, items[2].Price)
	assert.Zero(t, items[2].BasePrice())
	assert.Empty(t, items[3].ID)
}

func TestParseCatalog_NoItems(t *testing.T) {
	items, err := ParseCatalog(strings.NewReader(`{}`))
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestParseCatalog_Malformed(t *testing.T) {
	_, err := ParseCatalog(strings.NewReader(`{"items": [`))
	assert.Error(t, err)

	_, err = ParseCatalog(strings.NewReader(`{"items": [{"name": "X", "price": "free"}]}`))
	assert.Error(t, err)
}

func TestParseCatalog_TrailingData(t *testing.T) {
	for _, doc := range []string{`{"items":[]} junk`, `{"items":[]}}`, `{"items":[]} {"items":[]}`} {
		_, err := ParseCatalog(strings.NewReader(doc))
		assert.Error(t, err, doc)
	}

	items, err := ParseCatalog(strings.NewReader("{\"items\":[]}\n  \n"))
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestLoadCatalogFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "products.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleJSON), 0o644))

	items, err := LoadCatalogFile(path)
	require.NoError(t, err)
	assert.Len(t, items, 4)

	_, err = LoadCatalogFile(filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestGroupOf(t *testing.T) {
	tests := []struct {
		id   string
		want string
	}{
		{"m1", models.GroupMain},
		{"s12", models.GroupSide},
		{"d3", models.GroupDrink},
		{"x1", models.GroupOther},
		{"", models.GroupOther},
		{"M1", models.GroupOther},
	}
	for _, tt := range tests {
		if got := GroupOf(tt.id); got != tt.want {
			t.Errorf("GroupOf(%q) = %q, want %q", tt.id, got, tt.want)
		}
	}
}

func TestGroupItems(t *testing.T) {
	items, err := ParseCatalog(strings.NewReader(sampleJSON))
	require.NoError(t, err)

	got := GroupItems(items)
	assert.Equal(t, []CatalogGroup{
		{Group: models.GroupMain, Indexes: []int{0}},
		{Group: models.GroupSide, Indexes: []int{2}},
		{Group: models.GroupDrink, Indexes: []int{1}},
		{Group: models.GroupOther, Indexes: []int{3}},
	}, got)
	assert.Empty(t, GroupItems(nil))
}

func TestLoadCatalog(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	good := filepath.Join(dir, "products.json")
	bad := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(good, []byte(sampleJSON), 0o644))
	require.NoError(t, os.WriteFile(bad, []byte(`{"items": [{"name": }]}`), 0o644))

	items, err := LoadCatalog(ctx, "file", good)
	require.NoError(t, err)
	assert.Len(t, items, 4)

	for _, path := range []string{bad, filepath.Join(dir, "missing.json")} {
		items, err = LoadCatalog(ctx, "file", path)
		assert.Error(t, err, path)
		assert.NotNil(t, items)
		assert.Empty(t, items)
	}

	if db.Pool == nil {
		items, err = LoadCatalog(ctx, "db", "")
		assert.ErrorIs(t, err, db.ErrNoDB)
		assert.Empty(t, items)
	}
}
