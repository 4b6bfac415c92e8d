// internal/feed/feed.go
package feed

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/procurehub/orders-backend/internal/apperrors"
)

// Document is a partner price-list feed. YAML is the canonical encoding;
// JSON bodies parse through the same decoder.
type Document struct {
	Shop       string     `yaml:"shop" json:"shop"`
	Categories []Category `yaml:"categories" json:"categories"`
	Goods      []Good     `yaml:"goods" json:"goods"`
}

type Category struct {
	ID   uint   `yaml:"id" json:"id"`
	Name string `yaml:"name" json:"name"`
}

type Good struct {
	ID         uint              `yaml:"id" json:"id"`
	Name       string            `yaml:"name" json:"name"`
	Category   uint              `yaml:"category" json:"category"`
	Quantity   int               `yaml:"quantity" json:"quantity"`
	Model      string            `yaml:"model" json:"model"`
	Price      int               `yaml:"price" json:"price"`
	PriceRRC   int               `yaml:"price_rrc" json:"price_rrc"`
	Parameters map[string]string `yaml:"parameters" json:"parameters"`
}

// Parse decodes and validates a feed document. Any structural or semantic
// problem surfaces as a Validation error before the importer touches the
// store.
func Parse(data []byte) (*Document, error) {
	var doc Document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, apperrors.Wrap(apperrors.KindValidation, "malformed feed document", err)
	}

	if err := doc.Validate(); err != nil {
		return nil, err
	}

	return &doc, nil
}

func (d *Document) Validate() error {
	if d.Shop == "" {
		return apperrors.Validation("feed is missing required key: shop")
	}

	seenCategories := make(map[uint]bool, len(d.Categories))
	for i, c := range d.Categories {
		if c.ID == 0 {
			return apperrors.Newf(apperrors.KindValidation, "category %d is missing required key: id", i)
		}
		if c.Name == "" {
			return apperrors.Newf(apperrors.KindValidation, "category %d is missing required key: name", c.ID)
		}
		if seenCategories[c.ID] {
			return apperrors.Newf(apperrors.KindValidation, "duplicate category id %d in feed", c.ID)
		}
		seenCategories[c.ID] = true
	}

	for i, g := range d.Goods {
		if g.ID == 0 {
			return apperrors.Newf(apperrors.KindValidation, "good %d is missing required key: id", i)
		}
		if g.Name == "" {
			return apperrors.Newf(apperrors.KindValidation, "good %d is missing required key: name", g.ID)
		}
		if g.Category == 0 {
			return apperrors.Newf(apperrors.KindValidation, "good %d is missing required key: category", g.ID)
		}
		// Category membership is not checked here: the importer resolves
		// each good's category against the document and the store, so a
		// merge document may reference categories from earlier imports.
		if g.Quantity < 0 {
			return apperrors.Newf(apperrors.KindValidation, "good %d has negative quantity", g.ID)
		}
		if g.Price < 0 || g.PriceRRC < 0 {
			return apperrors.Newf(apperrors.KindValidation, "good %d has negative price", g.ID)
		}
	}

	return nil
}

func (d *Document) String() string {
	return fmt.Sprintf("feed{shop=%s categories=%d goods=%d}", d.Shop, len(d.Categories), len(d.Goods))
}
