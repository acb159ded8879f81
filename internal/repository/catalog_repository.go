// backend-go/internal/repository/catalog_repository.go
package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/andresuchdata/shoppos/backend-go/internal/domain"
	"github.com/andresuchdata/shoppos/backend-go/internal/rowstore"
)

type CatalogRepository interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
}

type catalogRepository struct {
	store rowstore.Store
}

func NewCatalogRepository(store rowstore.Store) CatalogRepository {
	return &catalogRepository{store: store}
}

var barcodeInImage = regexp.MustCompile(`(\d{8,13})\.\w+$`)

func (r *catalogRepository) ListProducts(ctx context.Context) ([]domain.Product, error) {
	rows, err := r.store.GetRows(ctx, ProductsTable)
	if errors.Is(err, rowstore.ErrTableNotFound) {
		return nil, fmt.Errorf("%w: sheet %q", domain.ErrNotFound, ProductsTable)
	}
	if err != nil {
		return nil, fmt.Errorf("error reading products: %w", err)
	}

	products := make([]domain.Product, 0, len(rows))
	seen := make(map[string]string, len(rows))
	for _, row := range rows {
		p, synthesized, ok := productFromRow(row)
		if !ok {
			continue
		}
		if name, dup := seen[p.SKU]; dup {
			if !synthesized || name == p.Name {
				continue
			}
			p.SKU = synthesizeSKU(p.Name, true)
			if _, dup := seen[p.SKU]; dup {
				continue
			}
		}
		seen[p.SKU] = p.Name
		products = append(products, p)
	}
	return products, nil
}

// productFromRow applies the catalog cleanup rules. Rows without a name or a
// positive price are not products. synthesized reports a SKU derived from the name.
func productFromRow(row rowstore.Row) (p domain.Product, synthesized, ok bool) {
	name := row.String(colProductName...)
	price := row.Decimal(colProductPrice...)
	if name == "" || !price.IsPositive() {
		return domain.Product{}, false, false
	}

	image := normalizeImagePath(row.String(colProductImage...))
	sku := repairSKU(row.String(colProductSKU...), image)
	if sku == "" {
		sku = synthesizeSKU(name, false)
		synthesized = true
	}

	return domain.Product{
		SKU:                sku,
		Name:               name,
		UnitPrice:          price,
		Category:           row.String(colProductCategory...),
		Image:              image,
		IsInventoryTracked: row.Bool(colProductTracked...),
		PiecesPerPack:      nonNegative(row.Int(colPiecesPerPack...)),
		PacksPerCrate:      nonNegative(row.Int(colPacksPerCrate...)),
	}, synthesized, true
}

var skuNamespace = uuid.NewSHA1(uuid.NameSpaceOID, []byte("shoppos/catalog"))

// synthesizeSKU derives a SKU from the product name so it survives rows being
// inserted or reordered. long is used when two names share the short form.
func synthesizeSKU(name string, long bool) string {
	hex := strings.ReplaceAll(uuid.NewSHA1(skuNamespace, []byte(name)).String(), "-", "")
	if !long {
		hex = hex[:8]
	}
	return "ITEM_" + strings.ToUpper(hex)
}

func normalizeImagePath(image string) string {
	if image == "" ||
		strings.HasPrefix(image, "http") ||
		strings.HasPrefix(image, "image/") ||
		strings.HasPrefix(image, "/") {
		return image
	}
	return "image/" + image
}

// repairSKU undoes the spreadsheet turning long barcodes into scientific
// notation ("8.85029E+12"). The image filename usually still carries the
// full barcode; otherwise the rounded number is the best we have.
func repairSKU(raw, image string) string {
	if !strings.Contains(strings.ToLower(raw), "e+") {
		return raw
	}
	if m := barcodeInImage.FindStringSubmatch(image); m != nil {
		return m[1]
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return ""
	}
	return d.Round(0).String()
}

func nonNegative(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
