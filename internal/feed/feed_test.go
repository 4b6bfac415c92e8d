// internal/feed/feed_test.go
package feed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/procurehub/orders-backend/internal/apperrors"
)

const validFeed = `shop: TechDepot
categories:
  - id: 224
    name: Smartphones
goods:
  - id: 4216292
    category: 224
    model: apple/iphone/xs-max
    name: Smartphone Apple iPhone XS Max 512GB (gold)
    price: 110000
    price_rrc: 116990
    quantity: 14
    parameters:
      "Color": "gold"
`

func TestParseValidDocument(t *testing.T) {
	doc, err := Parse([]byte(validFeed))
	require.NoError(t, err)

	assert.Equal(t, "TechDepot", doc.Shop)
	require.Len(t, doc.Categories, 1)
	assert.Equal(t, uint(224), doc.Categories[0].ID)
	require.Len(t, doc.Goods, 1)

	good := doc.Goods[0]
	assert.Equal(t, uint(4216292), good.ID)
	assert.Equal(t, uint(224), good.Category)
	assert.Equal(t, 110000, good.Price)
	assert.Equal(t, 116990, good.PriceRRC)
	assert.Equal(t, 14, good.Quantity)
	assert.Equal(t, "gold", good.Parameters["Color"])
}

func TestParseJSONBody(t *testing.T) {
	body := `{"shop": "TechDepot", "categories": [{"id": 1, "name": "Phones"}], "goods": [{"id": 7, "category": 1, "name": "Phone X", "model": "x", "price": 100, "price_rrc": 120, "quantity": 2}]}`

	doc, err := Parse([]byte(body))
	require.NoError(t, err)
	assert.Equal(t, "TechDepot", doc.Shop)
	require.Len(t, doc.Goods, 1)
	assert.Equal(t, uint(7), doc.Goods[0].ID)
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	_, err := Parse([]byte("shop: TechDepot\nwarehouse: north\n"))
	require.Error(t, err)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}

func TestParseRejectsMalformedYAML(t *testing.T) {
	_, err := Parse([]byte("shop: [unclosed"))
	require.Error(t, err)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}

func TestValidateSemanticErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"missing shop", "categories:\n  - id: 1\n    name: Phones\n"},
		{"category missing name", "shop: S\ncategories:\n  - id: 1\n"},
		{"duplicate category id", "shop: S\ncategories:\n  - id: 1\n    name: A\n  - id: 1\n    name: B\n"},
		{"good missing name", "shop: S\ngoods:\n  - id: 1\n    category: 2\n"},
		{"good missing category", "shop: S\ngoods:\n  - id: 1\n    name: X\n"},
		{"negative quantity", "shop: S\ngoods:\n  - id: 1\n    name: X\n    category: 2\n    quantity: -1\n"},
		{"negative price", "shop: S\ngoods:\n  - id: 1\n    name: X\n    category: 2\n    price: -5\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.Error(t, err)
			assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
		})
	}
}

func TestParseWithoutCategoriesSection(t *testing.T) {
	// Delete documents and merge documents referencing already-imported
	// categories omit the categories list; resolution is the importer's
	// job, not the parser's.
	doc, err := Parse([]byte("shop: S\ngoods:\n  - id: 1\n    name: X\n    category: 2\n"))
	require.NoError(t, err)
	assert.Len(t, doc.Goods, 1)
}
