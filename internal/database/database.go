package database

import (
	"log"

	"shere/config"
	"shere/internal/domain"
	"shere/internal/models"
	"shere/internal/repository"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.DSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error), // Only log errors, not every SQL query
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	return db, nil
}

// AutoMigrate runs Gorm auto-migration for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.ReferralCode{},
		&models.Referral{},
		&models.SharePurchase{},
		&models.Withdrawal{},
		&models.SystemSetting{},
		&models.Notification{},
		&models.AuditLog{},
	)
}

// SeedAdmin creates the initial admin account if none exists. Skipped when
// ADMIN_PASSWORD is unset.
func SeedAdmin(db *gorm.DB, cfg *config.AppConfig) {
	if cfg.AdminPassword == "" {
		return
	}
	var count int64
	db.Model(&models.User{}).Where("role = ?", domain.RoleAdmin).Count(&count)
	if count > 0 {
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("[seed] admin password hash: %v", err)
		return
	}
	admin := &models.User{
		Name:         "Administrator",
		Email:        cfg.AdminEmail,
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
	}
	if err := db.Create(admin).Error; err != nil {
		log.Printf("[seed] admin user: %v", err)
		return
	}
	log.Printf("[seed] created admin account %s", cfg.AdminEmail)
}

// SeedSettings inserts the pricing variables on first boot.
func SeedSettings(db *gorm.DB) {
	settingRepo := repository.NewSettingRepository(db)
	err := settingRepo.SeedDefaults(map[string]string{
		domain.SettingPricePerPercent:  "200",
		domain.SettingPayoutNumber:     "683583297",
		domain.SettingPayoutNumberName: "RIVANO DESTIN NGUEFACK",
		domain.SettingMinWithdrawal:    "1000",
	})
	if err != nil {
		log.Printf("[seed] settings: %v", err)
	}
}
