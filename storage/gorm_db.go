package storage

import (
	"fmt"
	"log"
	"os"
	"time"

	"montago/models"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var gormDB *gorm.DB

// InitGormDB initializes GORM database connection
func InitGormDB() *gorm.DB {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment")
	}

	user := os.Getenv("DB_USER")
	password := os.Getenv("DB_PASSWORD")
	dbname := os.Getenv("DB_NAME")
	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=Europe/Warsaw",
		host, user, password, dbname, port)

	var err error
	gormDB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Warn),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		log.Fatal("Failed to connect to database with GORM:", err)
	}

	// Get the underlying sql.DB object
	sqlDB, err := gormDB.DB()
	if err != nil {
		log.Fatal("Failed to get underlying sql.DB:", err)
	}

	// Set connection pool settings optimized for light server load
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	if err := AutoMigrate(gormDB); err != nil {
		log.Fatal("Failed to migrate database schema:", err)
	}
	if err := seedShippingZones(gormDB); err != nil {
		log.Fatal("Failed to seed shipping zones:", err)
	}

	return gormDB
}

// seedShippingZones inserts the default zone table on first run. A
// non-empty table is left alone, so operators can maintain their own
// zones.
func seedShippingZones(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.ShippingZone{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	zones := []models.ShippingZone{
		{Zone: 1, MaxKm: 20, Price: 313},
		{Zone: 2, MaxKm: 40, Price: 379},
	}
	return db.Create(&zones).Error
}

// AutoMigrate creates or updates the tables for every model the
// application owns. Tests call this against an in-memory database.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Client{},
		&models.Team{},
		&models.User{},
		&models.Order{},
		&models.Article{},
		&models.ProtocolFile{},
		&models.OutboundDocument{},
		&models.VerificationToken{},
		&models.ShippingZone{},
		&models.ActivityLog{},
	)
}

// GetGormDB returns the GORM database instance
func GetGormDB() *gorm.DB {
	return gormDB
}
