package document

import (
	"bytes"
	"fmt"
	"os"
	"testing"
	"time"

	"montago/models"
	"montago/services"
	"montago/storage"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupDocumentTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := storage.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func testPricing() services.PricingConfig {
	return services.PricingConfig{
		MinimalMontagePrice: services.DefaultMinimalMontagePrice,
		MarkupRate:          services.DefaultMarkupRate,
		SofaUnitPrice:       services.DefaultSofaUnitPrice,
	}
}

func seedDocumentOrder(t *testing.T, db *gorm.DB, mandant string) *models.Order {
	t.Helper()
	client := models.Client{Name: "Jan Kowalski", Street: "Polna 3", City: "Poznan", PostalCode: "61-001", Phone: "+48 600 000 000", Email: "jan@test"}
	if err := db.Create(&client).Error; err != nil {
		t.Fatalf("client: %v", err)
	}
	team := models.Team{Name: "Team A", Phone: "+48 601 000 000"}
	if err := db.Create(&team).Error; err != nil {
		t.Fatalf("team: %v", err)
	}
	when := time.Date(2026, 9, 14, 9, 0, 0, 0, time.UTC)
	price := 1000.0
	order := models.Order{
		Number:    "12345-R",
		Mandant:   mandant,
		Status:    models.StatusNew,
		MontageAt: &when,
		ClientID:  client.ID,
		TeamID:    &team.ID,
	}
	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("order: %v", err)
	}
	articles := []models.Article{
		{OrderID: order.ID, Name: "Wardrobe", Price: &price, Quantity: 2},
		{OrderID: order.ID, Name: "Sofa", Quantity: 1, IsSofa: true, Note: "corner model"},
	}
	if err := db.Create(&articles).Error; err != nil {
		t.Fatalf("articles: %v", err)
	}
	order.Client = client
	order.Team = &team
	order.Articles = articles
	return &order
}

func TestDefaultVariantGeneratesPDF(t *testing.T) {
	RegisterStandardVariants(testPricing(), LoadCompanyInfo())
	db := setupDocumentTestDB(t)
	order := seedDocumentOrder(t, db, "")

	data, err := ForMandant(order.Mandant).Generate(order, 10, 313)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("expected a PDF document, got %q", data[:8])
	}
	if len(data) < 2000 {
		t.Fatalf("document suspiciously small: %d bytes", len(data))
	}
}

func TestAbraVariantGeneratesPDF(t *testing.T) {
	RegisterStandardVariants(testPricing(), LoadCompanyInfo())
	db := setupDocumentTestDB(t)
	order := seedDocumentOrder(t, db, "abra")

	g := ForMandant(order.Mandant)
	if g.Variant() != AbraVariant {
		t.Fatalf("mandant %q selected variant %q", order.Mandant, g.Variant())
	}
	data, err := g.Generate(order, 30, 379)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("expected a PDF document")
	}
}

func TestUnknownMandantFallsBackToDefault(t *testing.T) {
	RegisterStandardVariants(testPricing(), LoadCompanyInfo())

	if g := ForMandant("no-such-partner"); g.Variant() != DefaultVariant {
		t.Fatalf("expected fallback to default, got %q", g.Variant())
	}
	if g := ForMandant(""); g.Variant() != DefaultVariant {
		t.Fatalf("expected fallback to default for empty mandant, got %q", g.Variant())
	}
}

func TestTemplatePreviewNeedsNoOrder(t *testing.T) {
	RegisterStandardVariants(testPricing(), LoadCompanyInfo())

	for _, key := range []string{DefaultVariant, AbraVariant} {
		data, err := ForMandant(key).Generate(nil, 0, 0)
		if err != nil {
			t.Fatalf("preview %s: %v", key, err)
		}
		if !bytes.HasPrefix(data, []byte("%PDF")) {
			t.Fatalf("preview %s: expected a PDF document", key)
		}
	}
}

func TestPersistOutboundReplacesNotDuplicates(t *testing.T) {
	RegisterStandardVariants(testPricing(), LoadCompanyInfo())
	db := setupDocumentTestDB(t)
	order := seedDocumentOrder(t, db, "")

	files, err := storage.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("file store: %v", err)
	}

	first, err := ForMandant(order.Mandant).Generate(order, 10, 313)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	created, err := PersistOutbound(db, files, order, DefaultVariant, first)
	if err != nil {
		t.Fatalf("persist: %v", err)
	}
	if !created {
		t.Fatalf("first persist should create the document row")
	}

	second, err := ForMandant(order.Mandant).Generate(order, 10, 313)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	created, err = PersistOutbound(db, files, order, DefaultVariant, second)
	if err != nil {
		t.Fatalf("persist: %v", err)
	}
	if created {
		t.Fatalf("second persist should overwrite, not create")
	}

	var count int64
	if err := db.Model(&models.OutboundDocument{}).Where("order_id = ?", order.ID).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected exactly one outbound document row, got %d", count)
	}

	entries, err := os.ReadDir(files.Root())
	if err != nil {
		t.Fatalf("read blob dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected exactly one stored blob, got %d", len(entries))
	}
	if entries[0].Name() != OutboundName(order.Number) {
		t.Fatalf("unexpected blob name %q", entries[0].Name())
	}
}
