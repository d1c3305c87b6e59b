package db

import (
	"fmt"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupUserTestDB(t *testing.T) {
	t.Helper()
	dsn := fmt.Sprintf("file:user-db-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := gdb.AutoMigrate(&User{}, &Post{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	prev := DB
	DB = gdb
	t.Cleanup(func() { DB = prev })
}

func TestEnsureUserCreatesHashedUser(t *testing.T) {
	setupUserTestDB(t)

	if err := EnsureUser("root", "secret-pass"); err != nil {
		t.Fatalf("ensure user: %v", err)
	}

	var user User
	if err := DB.Where("username = ?", "root").First(&user).Error; err != nil {
		t.Fatalf("load created user: %v", err)
	}
	if user.Password == "secret-pass" {
		t.Fatal("password should be stored hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("secret-pass")); err != nil {
		t.Fatalf("hash does not match original password: %v", err)
	}
}

func TestEnsureUserSkipsExistingAndBlank(t *testing.T) {
	setupUserTestDB(t)

	if err := EnsureUser("root", "first-pass"); err != nil {
		t.Fatalf("ensure user: %v", err)
	}
	if err := EnsureUser("root", "second-pass"); err != nil {
		t.Fatalf("ensure existing user: %v", err)
	}

	var count int64
	if err := DB.Model(&User{}).Count(&count).Error; err != nil {
		t.Fatalf("count users: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected single user, got %d", count)
	}

	if err := EnsureUser("", "whatever"); err != nil {
		t.Fatalf("blank username should be a no-op: %v", err)
	}
	if err := EnsureUser("someone", "  "); err != nil {
		t.Fatalf("blank password should be a no-op: %v", err)
	}
	if err := DB.Model(&User{}).Count(&count).Error; err != nil {
		t.Fatalf("count users: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected no extra users, got %d", count)
	}
}
