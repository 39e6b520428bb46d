package document

import (
	"strings"
	"sync"

	"montago/models"
	"montago/services"
)

// DefaultVariant is the registry key of the standard layout; unknown
// mandant codes fall back to it.
const (
	DefaultVariant = "DEFAULT"
	AbraVariant    = "ABRA"
)

// Generator produces one finished handover document. A nil order yields
// a template-only preview: placeholder fields and no machine-readable
// code. km and zona are the pre-resolved transport inputs and are
// ignored for previews.
type Generator interface {
	Variant() string
	Generate(order *models.Order, km, zona float64) ([]byte, error)
}

var (
	registryMu sync.RWMutex
	registry   = map[string]Generator{}
)

// Register adds a generator under a variant key. Adding a partner layout
// is a registration here, never a branch inside an existing generator.
func Register(g Generator) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[strings.ToUpper(g.Variant())] = g
}

// ForMandant selects the generator for an order's mandant code, falling
// back to the default layout for unknown codes.
func ForMandant(code string) Generator {
	registryMu.RLock()
	defer registryMu.RUnlock()
	if g, ok := registry[strings.ToUpper(strings.TrimSpace(code))]; ok {
		return g
	}
	return registry[DefaultVariant]
}

// RegisterStandardVariants wires the built-in layouts with the given
// pricing configuration and company identity.
func RegisterStandardVariants(pricing services.PricingConfig, company CompanyInfo) {
	Register(&defaultGenerator{pricing: pricing, company: company})
	Register(&abraGenerator{pricing: pricing, company: company})
}

// defaultChecklist holds the work-scope attestations of the standard
// handover protocol.
var defaultChecklist = []string{
	"All ordered furniture was assembled completely",
	"Assembly surfaces and premises are undamaged",
	"Packaging material was removed from the premises",
	"Operation of moving parts was demonstrated",
	"The customer accepts the work without reservations",
}

// defaultGenerator renders the standard handover protocol: customer,
// invoicing and team blocks, the attestation checklist, and a code
// encoding the order number.
type defaultGenerator struct {
	pricing services.PricingConfig
	company CompanyInfo
}

func (g *defaultGenerator) Variant() string { return DefaultVariant }

func (g *defaultGenerator) Generate(order *models.Order, km, zona float64) ([]byte, error) {
	l := newLayout()
	l.Watermark(g.company.Name)
	y := drawHeader(l, g.company, "HANDOVER PROTOCOL")

	if order == nil {
		bottom := drawCustomerBlock(l, y, nil)
		drawTeamBlock(l, y, nil)
		y = drawInvoicingBlock(l, bottom+4, nil)
		drawChecklistBlock(l, y+4, defaultChecklist)
		drawFooter(l, g.company)
		return l.Finalize()
	}

	l.TextRight(MarginRight, y, 10, "B", "Order "+order.CanonicalNumber())
	y += 6

	bottom := drawCustomerBlock(l, y, &order.Client)
	drawTeamBlock(l, y, order)
	y = bottom

	price := g.pricing.ComputeOrderPrice(order, km, zona)
	y = drawInvoicingBlock(l, y+4, &price)
	y = drawChecklistBlock(l, y+4, defaultChecklist)

	if err := l.QRCode(order.CanonicalNumber(), MarginRight-30, y, 28); err != nil {
		return nil, err
	}
	l.Text(MarginLeft, y+10, 8, "", "Scan of the signed protocol closes the order.")

	drawFooter(l, g.company)
	return l.Finalize()
}

// abraClause is the partner-specific contract wording that replaces the
// standard invoicing block and checklist on ABRA documents.
const abraClause = "The assembly service was commissioned under the ABRA partner framework agreement. Settlement takes place between ABRA and the contractor; no payment is collected from the customer on site. The customer confirms with their signature that the articles listed below were assembled and handed over."

// abraGenerator renders the ABRA partner layout: the partner contract
// clause plus a per-article table instead of the aggregated price block.
type abraGenerator struct {
	pricing services.PricingConfig
	company CompanyInfo
}

func (g *abraGenerator) Variant() string { return AbraVariant }

func (g *abraGenerator) Generate(order *models.Order, km, zona float64) ([]byte, error) {
	l := newLayout()
	l.Watermark(g.company.Name)
	y := drawHeader(l, g.company, "ABRA HANDOVER PROTOCOL")

	if order == nil {
		bottom := drawCustomerBlock(l, y, nil)
		drawTeamBlock(l, y, nil)
		y = bottom
		l.Paragraph(MarginLeft, y+4, MarginRight-MarginLeft, 8, "", abraClause)
		drawArticleTable(l, y+28, nil)
		drawFooter(l, g.company)
		return l.Finalize()
	}

	l.TextRight(MarginRight, y, 10, "B", "Order "+order.CanonicalNumber())
	y += 6

	bottom := drawCustomerBlock(l, y, &order.Client)
	drawTeamBlock(l, y, order)
	y = bottom

	l.Paragraph(MarginLeft, y+4, MarginRight-MarginLeft, 8, "", abraClause)
	y = drawArticleTable(l, y+28, order.Articles)

	price := g.pricing.ComputeOrderPrice(order, km, zona)
	l.Text(MarginLeft, y+4, 9, "B", "Assembly charge")
	l.TextRight(MarginRight, y+4, 9, "B", money(price.TotalPrice))
	y += 10

	if err := l.QRCode(order.CanonicalNumber(), MarginRight-30, y, 28); err != nil {
		return nil, err
	}

	drawFooter(l, g.company)
	return l.Finalize()
}
