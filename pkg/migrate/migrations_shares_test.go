package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSharesMigrationContainsConstraints(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_available_shares.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no shares migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE IF NOT EXISTS available_shares",
		"FOREIGN KEY (farm_id) REFERENCES farms(id) ON DELETE CASCADE",
		"CHECK (quantity_available >= 0)",
		"CHECK (price_cents > 0)",
		"DROP TABLE IF EXISTS available_shares",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestPurchasesMigrationContainsSchemas(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_share_purchases.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no purchases migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE IF NOT EXISTS share_purchases",
		"status purchase_status NOT NULL DEFAULT 'pending'",
		"CREATE UNIQUE INDEX IF NOT EXISTS share_purchases_stripe_session_id_key",
		"DROP TABLE IF EXISTS share_purchases",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestEnumsMigrationDefinesMarketplaceTypes(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_marketplace_enums.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no enums migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TYPE animal_type AS ENUM ('beef', 'pork')",
		"CREATE TYPE share_portion AS ENUM ('1/8', '1/4', '1/2', '3/4', 'whole')",
		"CREATE TYPE purchase_status AS ENUM ('pending', 'confirmed', 'completed', 'cancelled')",
		"CREATE TYPE farmer_request_status AS ENUM ('pending', 'approved', 'rejected')",
		"CREATE TYPE app_role AS ENUM ('admin', 'farmer', 'buyer')",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}
