package seeder

import (
	"context"
	"strings"
	"testing"

	"skill-swap/internal/database"
	"skill-swap/internal/database/dbtest"
)

func columnRows(cols ...string) *dbtest.Rows {
	rows := &dbtest.Rows{}
	for _, c := range cols {
		rows.Data = append(rows.Data, []any{c})
	}
	return rows
}

func schemaDB() *dbtest.DB {
	return &dbtest.DB{
		QueryFn: func(_ string, args []any) (database.Rows, error) {
			switch args[0] {
			case "profiles":
				return columnRows("id", "username", "title", "bio", "location", "time_balance", "avatar_url"), nil
			case "skills":
				return columnRows("id", "user_id", "name", "type"), nil
			}
			return columnRows(), nil
		},
	}
}

func TestEnsureTableColumns_ReportsMissingColumn(t *testing.T) {
	db := schemaDB()
	err := EnsureTableColumns(context.Background(), db, "skills", "id", "level")
	if err == nil || !strings.Contains(err.Error(), "skills.level") {
		t.Fatalf("expected missing column error, got %v", err)
	}
	if err := EnsureTableColumns(context.Background(), db, "skills", "id", "name"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
}

func TestDemoProfilesSeeder_SkipsExistingAccounts(t *testing.T) {
	db := schemaDB()
	existing := demoProfiles[1].Email
	db.ExecFn = func(q string, args []any) (int64, error) {
		if strings.Contains(q, "INSERT INTO users") && args[1] == existing {
			return 0, nil
		}
		return 1, nil
	}

	if err := (DemoProfilesSeeder{StartingHours: 5}).Run(context.Background(), db); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if db.Commits != 1 {
		t.Fatalf("expected one commit, got %d", db.Commits)
	}

	var profiles, skills int
	for _, c := range db.Calls {
		if c.Kind != "exec" {
			continue
		}
		switch {
		case strings.HasPrefix(c.SQL, "INSERT INTO profiles"):
			profiles++
			if c.Args[0] == demoProfiles[1].ID {
				t.Fatalf("existing account must not get a new profile")
			}
			if c.Args[5] != 5 {
				t.Fatalf("expected starting balance 5, got %v", c.Args[5])
			}
		case strings.HasPrefix(c.SQL, "INSERT INTO skills"):
			skills++
		}
	}
	if profiles != 2 {
		t.Fatalf("expected 2 profiles, got %d", profiles)
	}
	want := len(demoProfiles[0].Offering) + len(demoProfiles[0].Seeking) + len(demoProfiles[2].Offering) + len(demoProfiles[2].Seeking)
	if skills != want {
		t.Fatalf("expected %d skills, got %d", want, skills)
	}
}

func TestRunner_WrapsSeederName(t *testing.T) {
	db := &dbtest.DB{QueryFn: func(string, []any) (database.Rows, error) { return columnRows(), nil }}
	err := Runner{Seeders: Defaults(5)}.Run(context.Background(), db)
	if err == nil || !strings.Contains(err.Error(), "seed demo_profiles") {
		t.Fatalf("expected wrapped seeder error, got %v", err)
	}
}
