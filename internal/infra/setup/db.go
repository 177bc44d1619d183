// Package setup 负责初始化基础设施 (数据库连接、迁移、Redis)。
package setup

import (
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/MiltonKlun/blog-post/internal/domain"
)

// InitDB 打开 (必要时创建) 本地 SQLite 数据库文件并返回连接。
// path 形如 "blog.db"，由配置提供。
func InitDB(path string) (*gorm.DB, error) {
	if path == "" {
		return nil, fmt.Errorf("database path cannot be empty")
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database at %s: %w", path, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	// SQLite 是单文件库，写操作串行化；限制单连接避免 SQLITE_BUSY
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	return db, nil
}

// MigrateDB 自动迁移博客的三张表。
func MigrateDB(db *gorm.DB) error {
	err := db.AutoMigrate(&domain.User{}, &domain.Post{}, &domain.Comment{})
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}
