// Package testutil provides shared test fixtures: a fresh in-memory
// database per test and seeded users.
package testutil

import (
	"fmt"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/taskflow-dev/taskflow/db"
	"github.com/taskflow-dev/taskflow/internal/auth"
	"github.com/taskflow-dev/taskflow/internal/services"
)

const TestJWTSecret = "test-secret"

// SetupDB points db.DB at an in-memory sqlite database named after the
// test, migrates the schema and closes the pool on cleanup. Each test
// gets its own database.
func SetupDB(t *testing.T) {
	t.Helper()

	if err := auth.InitJWTSecret(TestJWTSecret); err != nil {
		t.Fatalf("init JWT secret: %v", err)
	}

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", name)

	if err := db.Connect(sqlite.Open(dsn)); err != nil {
		t.Fatalf("connect test database: %v", err)
	}

	if err := db.MigrateDatabase(); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	t.Cleanup(func() {
		sqlDB, err := db.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	})
}

// RegisterUser registers a user through the auth service and fails the
// test on any error.
func RegisterUser(t *testing.T, name, email, password string) *services.Session {
	t.Helper()

	session, err := services.Register(services.RegisterInput{
		Name:     name,
		Email:    email,
		Password: password,
	})

	if err != nil {
		t.Fatalf("register %s: %v", email, err)
	}

	return session
}
