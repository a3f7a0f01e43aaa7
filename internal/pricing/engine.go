package pricing

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Kabir4874/AnondoShop-Backend/internal/domain"
)

var (
	ErrEmptyCart          = errors.New("cart has no valid items")
	ErrProductUnavailable = errors.New("product unavailable")
)

// Per-unit surcharge for oversized variants.
const (
	sizeSurcharge       = 50.0
	sizeSurchargePrefix = "XXL"
)

// ProductReader is the slice of the record store the engine needs: one
// batch lookup by id set.
type ProductReader interface {
	GetProductsByIDs(ctx context.Context, ids []string) (map[string]domain.Product, error)
}

// Quote is the authoritative pricing of a cart. Callers persist it;
// the engine itself writes nothing.
type Quote struct {
	TotalAmount   float64
	DeliveryFee   float64
	DeliveryLabel string
	FeeSource     string
	Lines         []domain.LineItem
}

type Engine struct {
	products ProductReader
	fees     FeeTable
}

func NewEngine(products ProductReader, fees FeeTable) *Engine {
	return &Engine{products: products, fees: fees}
}

// PriceCart computes order totals from the current product state and
// the delivery destination. Client-supplied prices are never consulted.
// Resolution is all-or-nothing: if any referenced product is missing
// the whole cart fails with ErrProductUnavailable.
func (e *Engine) PriceCart(ctx context.Context, items []domain.CartItem, addr domain.Address, override *domain.DeliveryOverride) (*Quote, error) {
	valid := make([]domain.CartItem, 0, len(items))
	for _, it := range items {
		if it.ProductID == "" || it.Quantity <= 0 {
			continue
		}
		valid = append(valid, it)
	}
	if len(valid) == 0 {
		return nil, ErrEmptyCart
	}

	seen := make(map[string]struct{}, len(valid))
	ids := make([]string, 0, len(valid))
	for _, it := range valid {
		if _, ok := seen[it.ProductID]; ok {
			continue
		}
		seen[it.ProductID] = struct{}{}
		ids = append(ids, it.ProductID)
	}

	products, err := e.products.GetProductsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("product lookup: %w", err)
	}
	for _, id := range ids {
		if _, ok := products[id]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrProductUnavailable, id)
		}
	}

	delivery := e.fees.Resolve(addr, override)

	quote := &Quote{
		DeliveryFee:   delivery.Fee,
		DeliveryLabel: delivery.Label,
		FeeSource:     delivery.Source,
		Lines:         make([]domain.LineItem, 0, len(valid)),
	}

	var subtotal float64
	for _, it := range valid {
		p := products[it.ProductID]

		unitFinal := p.Price - p.Price*p.Discount/100
		if unitFinal < 0 {
			unitFinal = 0
		}

		var surcharge float64
		if strings.HasPrefix(strings.ToUpper(it.Size), sizeSurchargePrefix) {
			surcharge = sizeSurcharge * float64(it.Quantity)
		}

		line := domain.LineItem{
			ProductID:       p.ProductID,
			Name:            p.Name,
			Size:            it.Size,
			Quantity:        it.Quantity,
			UnitBasePrice:   p.Price,
			UnitDiscountPct: p.Discount,
			UnitFinalPrice:  unitFinal,
			LineSubtotal:    unitFinal*float64(it.Quantity) + surcharge,
			Surcharge:       surcharge,
		}
		subtotal += line.LineSubtotal
		quote.Lines = append(quote.Lines, line)
	}

	quote.TotalAmount = subtotal + delivery.Fee
	return quote, nil
}
