// internal/domain/cart/transform.go
package cart

import (
	"github.com/your-org/storefront-cart/internal/remotecart"
)

// ItemFromWire flattens an upstream cart line into its display form.
// Display attributes come from the nested product sub-object when present.
// An item-level price of zero falls back to the product price, since some
// upstream responses only carry the price on the product.
func ItemFromWire(wire remotecart.WireItem) Item {
	item := Item{
		ID:             wire.ID,
		ProductID:      wire.ProductID,
		Quantity:       wire.Quantity,
		Price:          wire.Price.Decimal,
		Color:          wire.Color,
		Size:           wire.Size,
		CustomText:     wire.CustomText,
		CustomImageURL: wire.CustomImageURL,
		Subtotal:       wire.Subtotal.Decimal,
	}

	if wire.Product != nil {
		item.Title = wire.Product.Title
		item.Image = wire.Product.Image
		if wire.ProductID == 0 {
			item.ProductID = wire.Product.ID
		}
		if item.Price.IsZero() {
			item.Price = wire.Product.Price.Decimal
		}
	}

	return item
}

// ItemsFromWire maps a full upstream cart into a line mapping keyed by
// cart line ID
func ItemsFromWire(wires []remotecart.WireItem) map[int64]Item {
	items := make(map[int64]Item, len(wires))
	for _, wire := range wires {
		items[wire.ID] = ItemFromWire(wire)
	}
	return items
}

// AddPayload builds the minimal wire payload for an add-to-cart intent.
// Quantity defaults to 1 and empty customization fields are omitted.
func AddPayload(productID int64, details AddDetails) remotecart.AddItemRequest {
	details = details.Normalized()

	quantity := details.Quantity
	if quantity <= 0 {
		quantity = 1
	}

	return remotecart.AddItemRequest{
		ProductID:      productID,
		Quantity:       quantity,
		Color:          details.Color,
		Size:           details.Size,
		CustomText:     details.CustomText,
		CustomImageURL: details.CustomImageURL,
	}
}
