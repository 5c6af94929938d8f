package db

import (
	"context"
	"strings"
	"testing"

	"github.com/spf13/afero"
)

func TestInitSchemaAndSeed(t *testing.T) {
	ctx := context.Background()
	database, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory failed: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	if err := InitSchema(ctx, database, GetSchemaSQL()); err != nil {
		t.Fatalf("InitSchema failed: %v", err)
	}
	// Idempotent
	if err := InitSchema(ctx, database, GetSchemaSQL()); err != nil {
		t.Fatalf("second InitSchema failed: %v", err)
	}
	if err := SeedFixtures(ctx, database); err != nil {
		t.Fatalf("SeedFixtures failed: %v", err)
	}

	counts := map[string]int{
		"PERSONNEL": 8,
		"GRUNT":     3,
		"SCIENTIST": 3,
		"BOSS":      2,
		"BASE":      3,
		"MISSION":   4,
		"OWNERSHIP": 5,
	}
	for table, want := range counts {
		var got int
		if err := database.GetContext(ctx, &got, "SELECT COUNT(*) FROM "+table); err != nil {
			t.Fatalf("count %s: %v", table, err)
		}
		if got != want {
			t.Errorf("%s: expected %d rows, got %d", table, want, got)
		}
	}

	// Every personnel row has exactly one subtype row matching its rank.
	var mismatched int
	err = database.GetContext(ctx, &mismatched, `
		SELECT COUNT(*) FROM PERSONNEL p
		WHERE (p.`+"`Rank`"+` = 'Grunt') + (p.Personnel_ID IN (SELECT Grunt_Personnel_ID FROM GRUNT)) = 1
		   OR (p.`+"`Rank`"+` = 'Scientist') + (p.Personnel_ID IN (SELECT Scientist_Personnel_ID FROM SCIENTIST)) = 1
		   OR (p.`+"`Rank`"+` = 'Boss') + (p.Personnel_ID IN (SELECT Boss_Personnel_ID FROM BOSS)) = 1`)
	if err != nil {
		t.Fatalf("subtype check: %v", err)
	}
	if mismatched != 0 {
		t.Errorf("expected every personnel row to match its subtype, %d do not", mismatched)
	}
}

func TestForeignKeysEnforced(t *testing.T) {
	ctx := context.Background()
	database, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory failed: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	if err := InitSchema(ctx, database, GetSchemaSQL()); err != nil {
		t.Fatalf("InitSchema failed: %v", err)
	}

	_, err = database.ExecContext(ctx,
		"INSERT INTO PERSONNEL (FName, LName, `Rank`, StartDate, Base_ID) VALUES ('A', 'B', 'Grunt', '2026-01-01', 999)")
	if err == nil || !strings.Contains(err.Error(), "FOREIGN KEY") {
		t.Errorf("expected foreign key failure, got %v", err)
	}
}

func TestLoadSchema(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "/etc/chimera/schema.sql", []byte("CREATE TABLE X (id INTEGER);"), 0644); err != nil {
		t.Fatalf("failed to write schema: %v", err)
	}
	if err := afero.WriteFile(fs, "/empty.sql", nil, 0644); err != nil {
		t.Fatalf("failed to write empty schema: %v", err)
	}

	tests := []struct {
		name    string
		path    string
		want    string
		wantErr bool
	}{
		{name: "default", path: "", want: SchemaSQL},
		{name: "from file", path: "/etc/chimera/schema.sql", want: "CREATE TABLE X (id INTEGER);"},
		{name: "missing file", path: "/nope.sql", wantErr: true},
		{name: "empty file", path: "/empty.sql", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LoadSchema(fs, tt.path)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadSchema failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("unexpected schema: %q", got)
			}
		})
	}
}
