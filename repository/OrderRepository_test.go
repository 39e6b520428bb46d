package repository

import (
	"fmt"
	"testing"
	"time"

	"montago/models"
	"montago/storage"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupRepositoryTestDB(t *testing.T) *gorm.DB {
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

func seedOrder(t *testing.T, db *gorm.DB, number string) *models.Order {
	t.Helper()
	client := models.Client{Name: "Anna Wisniewska", City: "Wroclaw"}
	if err := db.Create(&client).Error; err != nil {
		t.Fatalf("client: %v", err)
	}
	order := models.Order{Number: number, Status: models.StatusNew, ClientID: client.ID}
	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("order: %v", err)
	}
	return &order
}

func seedZones(t *testing.T, db *gorm.DB) {
	t.Helper()
	zones := []models.ShippingZone{
		{Zone: 1, MaxKm: 20, Price: 313},
		{Zone: 2, MaxKm: 50, Price: 379},
		{Zone: 3, MaxKm: 100, Price: 560},
	}
	if err := db.Create(&zones).Error; err != nil {
		t.Fatalf("zones: %v", err)
	}
}

func TestFindOrderByNumberIsCaseInsensitive(t *testing.T) {
	db := setupRepositoryTestDB(t)
	seedOrder(t, db, "ABC123-R")

	for _, number := range []string{"ABC123-R", "abc123-r", "  Abc123-R  "} {
		got, err := FindOrderByNumber(db, number)
		if err != nil {
			t.Fatalf("lookup %q: %v", number, err)
		}
		if got.Number != "ABC123-R" {
			t.Fatalf("lookup %q returned %q", number, got.Number)
		}
	}

	if _, err := FindOrderByNumber(db, "NOPE-1"); err != ErrOrderNotFound {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestMarkRealizedRecordsActor(t *testing.T) {
	db := setupRepositoryTestDB(t)
	order := seedOrder(t, db, "ABC123-R")

	user := models.User{Email: "monter@test", FirstName: "Piotr", LastName: "Nowak"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("user: %v", err)
	}

	if err := MarkRealized(db, order, models.KnownActor(&user)); err != nil {
		t.Fatalf("mark realized: %v", err)
	}

	var reloaded models.Order
	if err := db.First(&reloaded, order.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Status != models.StatusRealized {
		t.Fatalf("expected REALIZED, got %s", reloaded.Status)
	}
	if reloaded.UpdatedBy == nil || *reloaded.UpdatedBy != user.ID {
		t.Fatalf("change not attributed")
	}

	var entry models.ActivityLog
	if err := db.Where("order_id = ?", order.ID).First(&entry).Error; err != nil {
		t.Fatalf("activity: %v", err)
	}
	if entry.Action != "status:"+models.StatusRealized {
		t.Fatalf("unexpected action %q", entry.Action)
	}
	if entry.Actor != "Piotr Nowak" {
		t.Fatalf("unexpected actor %q", entry.Actor)
	}
}

func TestResolveZonaPicksLowestCoveringZone(t *testing.T) {
	db := setupRepositoryTestDB(t)
	seedZones(t, db)

	cases := []struct {
		km   float64
		want float64
	}{
		{0, 313},
		{20, 313},
		{20.5, 379},
		{50, 379},
		{99, 560},
		// beyond the last ceiling the most expensive zone applies
		{500, 560},
	}
	for _, tc := range cases {
		got, err := ResolveZona(db, tc.km)
		if err != nil {
			t.Fatalf("resolve %.1f km: %v", tc.km, err)
		}
		if got != tc.want {
			t.Fatalf("%.1f km: expected %.0f, got %.0f", tc.km, tc.want, got)
		}
	}
}

func TestReplaceVerificationTokenKeepsSingleton(t *testing.T) {
	db := setupRepositoryTestDB(t)
	order := seedOrder(t, db, "ABC123-R")

	first := models.VerificationToken{OrderID: order.ID, TokenHash: "first", ExpiresAt: time.Now().Add(time.Hour), CreatedAt: time.Now()}
	if err := ReplaceVerificationToken(db, &first); err != nil {
		t.Fatalf("first token: %v", err)
	}
	second := models.VerificationToken{OrderID: order.ID, TokenHash: "second", ExpiresAt: time.Now().Add(time.Hour), CreatedAt: time.Now()}
	if err := ReplaceVerificationToken(db, &second); err != nil {
		t.Fatalf("second token: %v", err)
	}

	var count int64
	if err := db.Model(&models.VerificationToken{}).Where("order_id = ?", order.ID).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected one live token, got %d", count)
	}

	live, err := GetVerificationToken(db, order.ID)
	if err != nil {
		t.Fatalf("get token: %v", err)
	}
	if live == nil || live.TokenHash != "second" {
		t.Fatalf("latest token must win")
	}
}

func TestPurgeExpiredTokens(t *testing.T) {
	db := setupRepositoryTestDB(t)
	fresh := seedOrder(t, db, "ABC123-R")
	stale := seedOrder(t, db, "DEF456-R")

	tokens := []models.VerificationToken{
		{OrderID: fresh.ID, TokenHash: "fresh", ExpiresAt: time.Now().Add(time.Hour), CreatedAt: time.Now()},
		{OrderID: stale.ID, TokenHash: "stale", ExpiresAt: time.Now().Add(-time.Hour), CreatedAt: time.Now().Add(-8 * 24 * time.Hour)},
	}
	if err := db.Create(&tokens).Error; err != nil {
		t.Fatalf("tokens: %v", err)
	}

	purged, err := PurgeExpiredTokens(db)
	if err != nil {
		t.Fatalf("purge: %v", err)
	}
	if purged != 1 {
		t.Fatalf("expected 1 purged token, got %d", purged)
	}

	if live, _ := GetVerificationToken(db, fresh.ID); live == nil {
		t.Fatalf("unexpired token must survive the purge")
	}
	if gone, _ := GetVerificationToken(db, stale.ID); gone != nil {
		t.Fatalf("expired token must be purged")
	}
}
