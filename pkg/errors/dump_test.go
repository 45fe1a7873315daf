package errors

import (
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

func TestDumpExtractsPgxDetails(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23514", ConstraintName: "products_price_check", TableName: "products"}
	dump := Dump(Wrap(CodeDependency, fmt.Errorf("upsert: %w", pgErr), "save product"))

	if dump.PGCode != "23514" || dump.PGConstraint != "products_price_check" || dump.PGTable != "products" {
		t.Fatalf("unexpected pg details: %+v", dump)
	}
	fields := dump.Fields()
	if fields["pg_code"] != "23514" {
		t.Fatalf("expected pg_code field, got %v", fields)
	}
}

func TestDumpExtractsPqDetails(t *testing.T) {
	dump := Dump(&pq.Error{Code: "23505", Constraint: "storage_entries_pkey", Table: "storage_entries"})
	if dump.PGCode != "23505" || dump.PGTable != "storage_entries" {
		t.Fatalf("unexpected pq details: %+v", dump)
	}
}

func TestFieldsOmitEmptyPostgresDetails(t *testing.T) {
	fields := Dump(New(CodeValidation, "bad")).Fields()
	if _, ok := fields["pg_code"]; ok {
		t.Fatalf("pg fields should be omitted: %v", fields)
	}
	if fields["error_code"] != CodeValidation {
		t.Fatalf("expected error_code, got %v", fields["error_code"])
	}
}
