package db

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"wavecrate/config"
	"wavecrate/model"
)

// Migrate runs the schema migration through GORM and closes its
// connection afterwards. Repositories speak database/sql against the
// pool from Connect; GORM is used for migration only.
func Migrate(cfg *config.Config) error {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)

	gormDB, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return fmt.Errorf("failed to connect database with GORM: %w", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	defer sqlDB.Close()

	// playlist_songs carries FK constraints with ON DELETE CASCADE, so
	// deleting a song or playlist removes its membership rows in-engine.
	if err := gormDB.AutoMigrate(&model.Song{}, &model.Playlist{}, &model.PlaylistSong{}); err != nil {
		return fmt.Errorf("failed to auto migrate models: %w", err)
	}

	return nil
}
