// database_utils should be the canonical place to put shared DB utils.
// It should not include:
// 1. Any util that doesn't manipulate DB
// 2. Any util that contains business logic
package utils

import (
	"fmt"
	"os"
	"testing"

	"github.com/bitejournal/bitejournal/model"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	TestDBNameCharLength = 8
)

// GetDBConnection get a connection to the database specified by env
func GetDBConnection() (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"), os.Getenv("DB_USER"), os.Getenv("DB_PASS"), os.Getenv("DB_NAME"), os.Getenv("DB_PORT"))
	return getDB(dsn)
}

func getDB(connectionString string) (db *gorm.DB, err error) {
	return gorm.Open(postgres.Open(connectionString), gormConfig())
}

// Referential integrity is deliberately not enforced: deleting a review
// observably orphans its comments and dangles bookmark ids. Skipping FK
// constraint creation keeps that behavior visible instead of hiding it behind
// the relational engine.
func gormConfig() *gorm.Config {
	return &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	}
}

// DatabaseSetupAndMigration migrates every entity this service persists.
func DatabaseSetupAndMigration(db *gorm.DB) {
	err := db.AutoMigrate(
		&model.User{},
		&model.Review{},
		&model.Comment{},
		&model.Like{},
		&model.Notification{},
		&model.RefreshToken{},
	)
	if err != nil {
		panic("failed to migrate database")
	}
}

// CreateTestDB creates a uniquely named in-memory database for a single test,
// migrated and ready to use. Note that this function should only be called in a
// testing environment with test state manager testing.T. The database lives in
// shared-cache memory so every pooled connection sees the same data, and is
// dropped automatically when the last connection closes after test cleanup.
func CreateTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:testonlydb_%s?mode=memory&cache=shared", RandomAlphabetString(TestDBNameCharLength))
	db, err := gorm.Open(sqlite.Open(dsn), gormConfig())
	if err != nil {
		t.Fatalf("cannot open test DB: %v", err)
	}
	DatabaseSetupAndMigration(db)
	t.Cleanup(func() {
		// Proactively clean up the DB connections instead of deferring to GC.
		// Otherwise, we might exceed the max open file limit in test and
		// causing some tests to fail.
		conn, _ := db.DB()
		conn.Close()
	})
	return db
}
