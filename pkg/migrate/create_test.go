package migrate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCreateSQLMigrationWritesGooseTemplate(t *testing.T) {
	dir := t.TempDir()

	path, err := CreateSQLMigration(dir, "Add Order Refund Columns!")
	if err != nil {
		t.Fatalf("CreateSQLMigration: %v", err)
	}

	name := filepath.Base(path)
	if !sqlFileRe.MatchString(name) {
		t.Fatalf("filename %q does not match the timestamped scheme", name)
	}
	if !strings.HasSuffix(name, "_add_order_refund_columns.sql") {
		t.Fatalf("filename %q, want sanitized suffix", name)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read migration: %v", err)
	}
	for _, marker := range []string{"-- +goose Up", "-- +goose Down"} {
		if !strings.Contains(string(data), marker) {
			t.Fatalf("template missing %q", marker)
		}
	}

	if err := ValidateDir(dir); err != nil {
		t.Fatalf("generated migration fails validation: %v", err)
	}
}

func TestCreateSQLMigrationRejectsUnusableName(t *testing.T) {
	if _, err := CreateSQLMigration(t.TempDir(), "!!!"); err == nil {
		t.Fatal("expected an error for a name that sanitizes to nothing")
	}
	if _, err := CreateSQLMigration(t.TempDir(), ""); err == nil {
		t.Fatal("expected an error for an empty name")
	}
}
