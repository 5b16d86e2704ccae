package database

import (
	"log"
	"os"
	"time"

	"gudang-backend/internal/config"
	"gudang-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	gormLogger := logger.New(
		log.New(os.Stdout, "[GORM] ", log.LstdFlags),
		logger.Config{
			SlowThreshold:             cfg.SlowQueryThreshold,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	var err error
	for i := 0; i < 5; i++ {
		DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{Logger: gormLogger})
		if err == nil {
			break
		}
		log.Printf("Gagal konek ke database, coba lagi dalam 2 detik... (%d/5)", i+1)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		log.Fatalf("Gagal konek ke database: %v", err)
	}

	if err := Migrate(DB); err != nil {
		log.Fatalf("AutoMigrate gagal: %v", err)
	}
	if err := Seed(DB); err != nil {
		log.Fatalf("Seed gagal: %v", err)
	}

	log.Println("Koneksi database berhasil. Migrasi selesai.")
}

// Migrate creates or updates every table the service owns.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Profile{},
		&models.Branch{},
		&models.Product{},
		&models.OutboundCategory{},
		&models.InboundCategory{},
		&models.StockIn{},
		&models.StockOut{},
		&models.AuditLog{},
	)
}
