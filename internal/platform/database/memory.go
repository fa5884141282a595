package database

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// OpenInMemory 打开一个以name命名的SQLite内存数据库，连接之间共享数据。
// 供测试和试运行脚本使用。
func OpenInMemory(name string) (*gorm.DB, error) {
	db, err := Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), false)
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// 内存库在最后一个连接关闭时消失
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetConnMaxLifetime(0)
	return db, nil
}
