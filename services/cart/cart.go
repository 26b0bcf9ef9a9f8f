package cart

import (
	"slices"
	"strings"

	"github.com/MarcGrol/phoneloom/services/orderapi"
	"github.com/MarcGrol/phoneloom/services/pricing"
)

// Product is the point-in-time snapshot of a phone the cart works with
type Product struct {
	UID                string
	Brand              string
	Model              string
	Image              string
	Price              float64
	DiscountPercentage float64
	Stock              int
	Colors             []string
	Storage            []string
	RAM                []string
}

type Variant struct {
	Color   string `json:"selectedColor" form:"color"`
	Storage string `json:"selectedStorage" form:"storage"`
	RAM     string `json:"selectedRam" form:"ram"`
}

// VariantUpdate leaves a selection unchanged when its field is empty
type VariantUpdate = Variant

// Options are the option lists of the product as they were when the line was added
type Options struct {
	Colors  []string `json:"colors"`
	Storage []string `json:"storage"`
	RAM     []string `json:"ramSize"`
}

type Line struct {
	Key                string  `json:"compositeKey"`
	ProductUID         string  `json:"productUid"`
	Brand              string  `json:"brand"`
	Model              string  `json:"model"`
	Image              string  `json:"image,omitempty"`
	Quantity           int     `json:"quantity"`
	UnitPrice          float64 `json:"unitPrice"`
	BasePrice          float64 `json:"basePrice"`
	DiscountPercentage float64 `json:"discountPercentage"`
	Stock              int     `json:"stock"`
	Variant
	Options Options `json:"options"`
}

func (l Line) Total() float64 {
	return pricing.LineTotal(l.UnitPrice, l.Quantity)
}

func (l Line) maxQuantity() int {
	return pricing.MaxQuantity(l.Stock)
}

type Cart struct {
	SessionUID  string  `json:"sessionUid"`
	Lines       []Line  `json:"lines"`
	ShippingFee float64 `json:"shippingFee"`
	IsOpen      bool    `json:"isOpen"`
}

func New(sessionUID string) *Cart {
	return &Cart{
		SessionUID: sessionUID,
		Lines:      []Line{},
	}
}

var keyPartEscaper = strings.NewReplacer(`\`, `\\`, "|", `\|`)

// CompositeKey identifies a line by product and variant. Separators inside a part are escaped.
func CompositeKey(productUID string, v Variant) string {
	parts := []string{productUID, v.Color, v.Storage, v.RAM}
	for i, part := range parts {
		parts[i] = keyPartEscaper.Replace(part)
	}
	return strings.Join(parts, "|")
}

func (c *Cart) indexOf(key string) int {
	return slices.IndexFunc(c.Lines, func(l Line) bool {
		return l.Key == key
	})
}

func (c *Cart) Line(key string) (Line, bool) {
	idx := c.indexOf(key)
	if idx < 0 {
		return Line{}, false
	}
	return c.Lines[idx], true
}

// AddLine adds one unit of the given variant. An existing line is incremented up to
// its maximum, a new line is priced now and snapshots the product options.
func (c *Cart) AddLine(p Product, v Variant) {
	defer c.recalculate()

	key := CompositeKey(p.UID, v)
	if idx := c.indexOf(key); idx >= 0 {
		line := &c.Lines[idx]
		line.Quantity = min(line.Quantity+1, line.maxQuantity())
		return
	}

	if pricing.MaxQuantity(p.Stock) < 1 {
		return
	}

	c.Lines = append(c.Lines, Line{
		Key:                key,
		ProductUID:         p.UID,
		Brand:              p.Brand,
		Model:              p.Model,
		Image:              p.Image,
		Quantity:           1,
		UnitPrice:          pricing.CalculatePrice(p.Price, p.DiscountPercentage, p.Storage, v.Storage, p.RAM, v.RAM),
		BasePrice:          p.Price,
		DiscountPercentage: p.DiscountPercentage,
		Stock:              p.Stock,
		Variant:            v,
		Options: Options{
			Colors:  slices.Clone(p.Colors),
			Storage: slices.Clone(p.Storage),
			RAM:     slices.Clone(p.RAM),
		},
	})
}

// SetQuantity clamps to the allowed range; reaching zero removes the line
func (c *Cart) SetQuantity(key string, quantity int) {
	idx := c.indexOf(key)
	if idx < 0 {
		return
	}
	defer c.recalculate()

	line := &c.Lines[idx]
	quantity = max(0, min(quantity, line.maxQuantity()))
	if quantity == 0 {
		c.Lines = slices.Delete(c.Lines, idx, idx+1)
		return
	}
	line.Quantity = quantity
}

func (c *Cart) RemoveLine(key string) {
	idx := c.indexOf(key)
	if idx < 0 {
		return
	}
	c.Lines = slices.Delete(c.Lines, idx, idx+1)
	c.recalculate()
}

// ReconfigureLine changes the variant of a line and reprices it from its snapshot.
// When the new variant matches another line both are merged; units above the
// maximum of the surviving line are dropped and their number is returned.
func (c *Cart) ReconfigureLine(key string, update VariantUpdate) int {
	idx := c.indexOf(key)
	if idx < 0 {
		return 0
	}
	defer c.recalculate()

	line := c.Lines[idx]
	variant := mergeVariant(line.Variant, update)
	newKey := CompositeKey(line.ProductUID, variant)
	unitPrice := pricing.CalculatePrice(line.BasePrice, line.DiscountPercentage, line.Options.Storage, variant.Storage, line.Options.RAM, variant.RAM)

	if newKey == key {
		c.Lines[idx].Variant = variant
		c.Lines[idx].UnitPrice = unitPrice
		return 0
	}

	c.Lines = slices.Delete(c.Lines, idx, idx+1)

	if targetIdx := c.indexOf(newKey); targetIdx >= 0 {
		target := &c.Lines[targetIdx]
		wanted := target.Quantity + line.Quantity
		target.Quantity = min(wanted, target.maxQuantity())
		return wanted - target.Quantity
	}

	line.Key = newKey
	line.Variant = variant
	line.UnitPrice = unitPrice
	c.Lines = append(c.Lines, line)

	return 0
}

func mergeVariant(current Variant, update VariantUpdate) Variant {
	if update.Color != "" {
		current.Color = update.Color
	}
	if update.Storage != "" {
		current.Storage = update.Storage
	}
	if update.RAM != "" {
		current.RAM = update.RAM
	}
	return current
}

func (c *Cart) Clear() {
	c.Lines = []Line{}
	c.recalculate()
}

func (c *Cart) SetOpen(isOpen bool) {
	c.IsOpen = isOpen
}

func (c *Cart) ItemCount() int {
	count := 0
	for _, l := range c.Lines {
		count += l.Quantity
	}
	return count
}

func (c *Cart) TotalPrice() float64 {
	totals := make([]float64, 0, len(c.Lines))
	for _, l := range c.Lines {
		totals = append(totals, l.Total())
	}
	return pricing.Sum(totals...)
}

func (c *Cart) GrandTotal() float64 {
	return pricing.Sum(c.TotalPrice(), c.ShippingFee)
}

// Clone returns a copy that shares no slices with the original
func (c Cart) Clone() Cart {
	clone := c
	clone.Lines = make([]Line, 0, len(c.Lines))
	for _, l := range c.Lines {
		l.Options = Options{
			Colors:  slices.Clone(l.Options.Colors),
			Storage: slices.Clone(l.Options.Storage),
			RAM:     slices.Clone(l.Options.RAM),
		}
		clone.Lines = append(clone.Lines, l)
	}
	return clone
}

func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// OrderItems is the outbound payload for order submission, in line order
func (c *Cart) OrderItems() []orderapi.OrderItem {
	items := make([]orderapi.OrderItem, 0, len(c.Lines))
	for _, l := range c.Lines {
		items = append(items, orderapi.OrderItem{
			Phone:           l.ProductUID,
			Quantity:        l.Quantity,
			SelectedColor:   l.Color,
			SelectedStorage: l.Storage,
			SelectedRam:     l.RAM,
		})
	}
	return items
}

// RestoreLines replays an order payload onto the cart. Items whose product is not
// known are skipped and returned.
func (c *Cart) RestoreLines(items []orderapi.OrderItem, products map[string]Product) []orderapi.OrderItem {
	skipped := []orderapi.OrderItem{}
	for _, item := range items {
		p, found := products[item.Phone]
		if !found || item.Quantity <= 0 {
			skipped = append(skipped, item)
			continue
		}
		v := Variant{
			Color:   item.SelectedColor,
			Storage: item.SelectedStorage,
			RAM:     item.SelectedRam,
		}
		key := CompositeKey(p.UID, v)
		existing, exists := c.Line(key)
		if !exists {
			c.AddLine(p, v)
			existing, exists = c.Line(key)
			if !exists {
				skipped = append(skipped, item)
				continue
			}
			existing.Quantity = 0
		}
		c.SetQuantity(key, existing.Quantity+item.Quantity)
	}
	return skipped
}

// recalculate derives the shipping fee from scratch after every mutation
func (c *Cart) recalculate() {
	c.ShippingFee = pricing.ShippingFee(c.ItemCount())
}
