package document

import (
	"fmt"
	"os"

	"montago/models"
)

// CompanyInfo is the identity block printed on every document variant.
type CompanyInfo struct {
	Name    string
	Street  string
	City    string
	Phone   string
	Email   string
	TaxID   string
	Footer  string
}

// LoadCompanyInfo reads the company identity from the environment with
// sensible defaults for development.
func LoadCompanyInfo() CompanyInfo {
	info := CompanyInfo{
		Name:   envOr("COMPANY_NAME", "Montago"),
		Street: envOr("COMPANY_STREET", "Przemyslowa 12"),
		City:   envOr("COMPANY_CITY", "61-001 Poznan"),
		Phone:  envOr("COMPANY_PHONE", "+48 61 000 00 00"),
		Email:  envOr("COMPANY_EMAIL", "biuro@montago.example.com"),
		TaxID:  envOr("COMPANY_TAX_ID", "PL0000000000"),
	}
	info.Footer = envOr("COMPANY_FOOTER",
		"The signed handover protocol confirms that the assembly service was performed completely and accepted without reservations. Claims reported after signing are handled under the statutory warranty.")
	return info
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// money formats a monetary figure the way every variant prints it.
func money(v float64) string {
	return fmt.Sprintf("%.2f zl", v)
}

// drawHeader renders the company identity block and the document title.
// Returns the Y offset where the body may start.
func drawHeader(l *Layout, company CompanyInfo, title string) float64 {
	l.Text(MarginLeft, 18, 16, "B", company.Name)
	l.Text(MarginLeft, 24, 8, "", company.Street+", "+company.City)
	l.Text(MarginLeft, 28, 8, "", "Tel: "+company.Phone+"   "+company.Email)
	l.Text(MarginLeft, 32, 8, "", "Tax ID: "+company.TaxID)

	l.TextRight(MarginRight, 20, 13, "B", title)

	l.DottedRule(MarginLeft, 36, MarginRight)
	return 42
}

// drawCustomerBlock renders the client identity and address fields.
func drawCustomerBlock(l *Layout, y float64, client *models.Client) float64 {
	l.Text(MarginLeft, y, 10, "B", "Customer")
	y += 6
	if client == nil {
		l.LabelledField(MarginLeft, y, 85, 7, "name")
		l.LabelledField(MarginLeft, y+10, 85, 7, "address")
		l.LabelledField(MarginLeft, y+20, 85, 7, "phone")
		return y + 30
	}
	l.Text(MarginLeft, y+4, 9, "", client.Name)
	l.Text(MarginLeft, y+9, 9, "", client.Street)
	l.Text(MarginLeft, y+14, 9, "", client.PostalCode+" "+client.City)
	l.Text(MarginLeft, y+19, 9, "", "Tel: "+client.Phone)
	if client.Email != "" {
		l.Text(MarginLeft, y+24, 9, "", client.Email)
	}
	return y + 30
}

// drawTeamBlock renders the montage crew and the scheduled date.
func drawTeamBlock(l *Layout, y float64, order *models.Order) float64 {
	x := 115.0
	l.Text(x, y, 10, "B", "Montage team")
	y += 6
	if order == nil || order.Team == nil {
		l.LabelledField(x, y, 80, 7, "team")
		l.LabelledField(x, y+10, 80, 7, "montage date")
		return y + 20
	}
	l.Text(x, y+4, 9, "", order.Team.Name)
	if order.Team.Phone != "" {
		l.Text(x, y+9, 9, "", "Tel: "+order.Team.Phone)
	}
	if order.MontageAt != nil {
		l.Text(x, y+14, 9, "", "Montage date: "+order.MontageAt.Format("02-01-2006"))
	}
	return y + 20
}

// drawInvoicingBlock renders the aggregated price breakdown with every
// monetary figure right-aligned against the fixed right margin.
func drawInvoicingBlock(l *Layout, y float64, price *models.PriceBreakdown) float64 {
	l.Text(MarginLeft, y, 10, "B", "Invoicing")
	y += 7

	row := func(label, value string, bold bool) {
		style := ""
		if bold {
			style = "B"
		}
		l.Text(MarginLeft, y, 9, style, label)
		l.TextRight(MarginRight, y, 9, style, value)
		y += 5.5
	}

	if price == nil {
		for _, label := range []string{"Goods value", "Assembly charge", "Transport"} {
			l.Text(MarginLeft, y, 9, "", label)
			l.DottedRule(MarginRight-40, y+0.5, MarginRight)
			y += 5.5
		}
		l.Text(MarginLeft, y, 9, "B", "Total")
		l.DottedRule(MarginRight-40, y+0.5, MarginRight)
		return y + 8
	}

	row("Goods value", money(price.GoodsValue), false)
	if price.SofaCount > 0 {
		row(fmt.Sprintf("Upholstered items (%d pcs)", price.SofaCount), money(price.PriceWithSofa), false)
	}
	row("Assembly charge", money(price.MontagePrice), false)
	row(fmt.Sprintf("Transport (%.0f km)", price.Km), money(price.Zona), false)
	l.DottedRule(MarginRight-60, y-2.5, MarginRight)
	row("Total", money(price.TotalPrice), true)
	return y + 3
}

// drawChecklistBlock renders the yes/no work-scope attestations.
func drawChecklistBlock(l *Layout, y float64, items []string) float64 {
	l.Text(MarginLeft, y, 10, "B", "Handover checklist")
	y += 7
	for _, item := range items {
		l.Checkbox(MarginLeft, y-3.2, 4, false)
		l.Text(MarginLeft+7, y, 9, "", item)
		l.Text(MarginRight-24, y, 8, "", "yes / no")
		y += 7
	}
	return y + 2
}

// drawArticleTable renders each article on its own row with a running
// vertical offset: name, quantity, unit price and line value.
func drawArticleTable(l *Layout, y float64, articles []models.Article) float64 {
	l.Text(MarginLeft, y, 10, "B", "Articles")
	y += 6

	l.Text(MarginLeft, y, 8, "B", "Item")
	l.TextRight(MarginRight-60, y, 8, "B", "Qty")
	l.TextRight(MarginRight-30, y, 8, "B", "Unit price")
	l.TextRight(MarginRight, y, 8, "B", "Value")
	y += 2
	l.DottedRule(MarginLeft, y, MarginRight)
	y += 5

	if len(articles) == 0 {
		for i := 0; i < 3; i++ {
			l.DottedRule(MarginLeft, y, MarginRight)
			y += 7
		}
		return y + 2
	}

	for _, a := range articles {
		name := a.Name
		if a.IsSofa {
			name += " (upholstered)"
		}
		l.Text(MarginLeft, y, 9, "", name)
		l.TextRight(MarginRight-60, y, 9, "", fmt.Sprintf("%d", a.Quantity))
		if a.Price != nil {
			l.TextRight(MarginRight-30, y, 9, "", money(*a.Price))
			l.TextRight(MarginRight, y, 9, "", money(*a.Price*float64(a.Quantity)))
		} else {
			l.TextRight(MarginRight-30, y, 9, "", "-")
			l.TextRight(MarginRight, y, 9, "", "-")
		}
		if a.Note != "" {
			y += 4
			l.Text(MarginLeft+4, y, 7, "I", a.Note)
		}
		y += 6
	}
	return y + 2
}

// drawFooter renders signature lines and the legal boilerplate at a
// fixed position near the page bottom.
func drawFooter(l *Layout, company CompanyInfo) {
	y := PageHeight - 40
	l.DottedRule(MarginLeft, y, MarginLeft+60)
	l.Text(MarginLeft+8, y+4, 7, "", "customer signature")
	l.DottedRule(MarginRight-60, y, MarginRight)
	l.Text(MarginRight-52, y+4, 7, "", "team signature")

	l.Paragraph(MarginLeft, y+10, MarginRight-MarginLeft, 6, "", company.Footer)
}
