// =============================================================================
// eFactura Client - Gateway Payload
// =============================================================================
//
// Serialization of a draft into the exact JSON structure the gateway's
// invoice-creation endpoint expects.
//
// WIRE CONTRACT:
//   {
//     "cliente": {"nombre": ..., "direccion": ..., "identificacion": ...},
//     "items":   [{"descripcion": ..., "cantidad": ..., "precio": ...}]
//   }
//
// The canonical unit-price key is "precio". Quantities travel as integers
// and prices as plain JSON numbers; decimals are narrowed to float64 only
// here, at the serialization boundary.
//
// =============================================================================

package invoice

// PayloadItem is one line item in the creation request.
type PayloadItem struct {
	Description string  `json:"descripcion"`
	Quantity    int     `json:"cantidad"`
	Price       float64 `json:"precio"`
}

// Payload is the body of POST /factura.
type Payload struct {
	Customer Customer      `json:"cliente"`
	Items    []PayloadItem `json:"items"`
}

// Payload produces the creation request body for the current draft state.
func (d *Draft) Payload() Payload {
	items := make([]PayloadItem, 0, len(d.Items))
	for _, it := range d.Items {
		items = append(items, PayloadItem{
			Description: it.Description,
			Quantity:    it.Quantity,
			Price:       it.UnitPrice.InexactFloat64(),
		})
	}
	return Payload{Customer: d.Customer, Items: items}
}
