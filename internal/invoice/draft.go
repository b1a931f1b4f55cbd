// =============================================================================
// eFactura Client - Invoice Draft Model
// =============================================================================
//
// This module holds the in-progress invoice being composed on the client:
// the customer record, the ordered line items, and the derived totals.
//
// INVARIANTS:
//   - A draft always contains at least one line item. Removing the last
//     remaining item is a no-op.
//   - Totals are derived from the items on every call, never cached, so a
//     read can never observe a stale figure.
//   - Amounts are kept as decimals at full precision; rounding to two
//     decimals happens only at render or serialization time.
//
// =============================================================================

package invoice

import "github.com/shopspring/decimal"

// taxRate is the VAT rate applied to every invoice (21% Spanish IVA).
// Unexported so no importer can change it process-wide; read it through
// TaxRate().
var taxRate = decimal.NewFromFloat(0.21)

// TaxRate returns the VAT rate applied to every invoice.
func TaxRate() decimal.Decimal {
	return taxRate
}

// Customer identifies the invoice recipient. All three fields must be
// non-empty before a draft can be submitted.
type Customer struct {
	Name    string `json:"nombre" yaml:"nombre"`
	Address string `json:"direccion" yaml:"direccion"`
	TaxID   string `json:"identificacion" yaml:"identificacion"`
}

// LineItem is a single invoice line. Its subtotal is quantity times unit
// price, computed on read.
type LineItem struct {
	Description string
	Quantity    int
	UnitPrice   decimal.Decimal
}

// Subtotal returns quantity x unit price at full precision.
func (it LineItem) Subtotal() decimal.Decimal {
	return it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity)))
}

// Totals carries the derived amounts of a draft.
type Totals struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// Draft is an in-progress, unsaved invoice.
type Draft struct {
	Customer Customer
	Items    []LineItem
}

// blankItem is the line item a fresh draft starts with and the one appended
// by AddItem.
func blankItem() LineItem {
	return LineItem{Description: "", Quantity: 1, UnitPrice: decimal.Zero}
}

// NewDraft returns a pristine draft: an empty customer and one blank item.
func NewDraft() *Draft {
	return &Draft{Items: []LineItem{blankItem()}}
}

// Reset returns the draft to its pristine state. Called after a successful
// submission; a failed submission leaves the draft untouched.
func (d *Draft) Reset() {
	d.Customer = Customer{}
	d.Items = []LineItem{blankItem()}
}

// CustomerField names one editable attribute of the customer record.
type CustomerField string

const (
	CustomerName  CustomerField = "nombre"
	CustomerAddr  CustomerField = "direccion"
	CustomerTaxID CustomerField = "identificacion"
)

// SetCustomerField updates one customer attribute. No validation happens
// here; required-ness is enforced by the validation layer before submit.
func (d *Draft) SetCustomerField(field CustomerField, value string) {
	switch field {
	case CustomerName:
		d.Customer.Name = value
	case CustomerAddr:
		d.Customer.Address = value
	case CustomerTaxID:
		d.Customer.TaxID = value
	}
}

// SetItemDescription updates the description of the item at index.
// An out-of-range index is a no-op; a well-formed view never produces one.
func (d *Draft) SetItemDescription(index int, value string) {
	if index < 0 || index >= len(d.Items) {
		return
	}
	d.Items[index].Description = value
}

// SetItemQuantity updates the quantity of the item at index.
// An out-of-range index is a no-op.
func (d *Draft) SetItemQuantity(index, quantity int) {
	if index < 0 || index >= len(d.Items) {
		return
	}
	d.Items[index].Quantity = quantity
}

// SetItemPrice updates the unit price of the item at index.
// An out-of-range index is a no-op.
func (d *Draft) SetItemPrice(index int, price decimal.Decimal) {
	if index < 0 || index >= len(d.Items) {
		return
	}
	d.Items[index].UnitPrice = price
}

// AddItem appends a blank line item (empty description, quantity 1, price 0)
// and returns its index.
func (d *Draft) AddItem() int {
	d.Items = append(d.Items, blankItem())
	return len(d.Items) - 1
}

// RemoveItem removes the item at index. The removal is refused when it would
// leave the draft empty or when the index is out of range; it reports
// whether an item was actually removed.
func (d *Draft) RemoveItem(index int) bool {
	if len(d.Items) <= 1 {
		return false
	}
	if index < 0 || index >= len(d.Items) {
		return false
	}
	d.Items = append(d.Items[:index], d.Items[index+1:]...)
	return true
}

// ComputeTotals derives subtotal, tax and total from the current items.
// It is a pure read: no caching, no side effects.
func (d *Draft) ComputeTotals() Totals {
	subtotal := decimal.Zero
	for _, it := range d.Items {
		subtotal = subtotal.Add(it.Subtotal())
	}
	tax := subtotal.Mul(taxRate)
	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal.Add(tax),
	}
}
