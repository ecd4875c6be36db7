package seeder

import (
	"context"
	"fmt"

	"skill-swap/internal/database"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const demoPassword = "swap-demo-123"

type demoProfile struct {
	ID       uuid.UUID
	Email    string
	Username string
	Title    string
	Bio      string
	Location string
	Offering []string
	Seeking  []string
}

var demoProfiles = []demoProfile{
	{
		ID:       uuid.MustParse("7a1f4c2e-0d8b-4e51-9c33-2f6a1b0e9d01"),
		Email:    "maya@demo.skillswap.local",
		Username: "maya_bakes",
		Title:    "Pastry chef",
		Bio:      "Sourdough nerd. Will trade bread for web help.",
		Location: "Lisbon",
		Offering: []string{"Baking", "Sourdough"},
		Seeking:  []string{"Web design", "Photography"},
	},
	{
		ID:       uuid.MustParse("7a1f4c2e-0d8b-4e51-9c33-2f6a1b0e9d02"),
		Email:    "theo@demo.skillswap.local",
		Username: "theo_builds",
		Title:    "Frontend developer",
		Bio:      "I build small sites and want to learn guitar.",
		Location: "Berlin",
		Offering: []string{"Web design", "JavaScript"},
		Seeking:  []string{"Guitar", "Baking"},
	},
	{
		ID:       uuid.MustParse("7a1f4c2e-0d8b-4e51-9c33-2f6a1b0e9d03"),
		Email:    "ines@demo.skillswap.local",
		Username: "ines_strings",
		Title:    "Session guitarist",
		Bio:      "Twenty years on six strings.",
		Location: "Porto",
		Offering: []string{"Guitar", "Music theory"},
		Seeking:  []string{"Spanish", "Photography"},
	},
}

// DemoProfilesSeeder creates a handful of login-ready accounts with skills.
// Accounts that already exist are left untouched.
type DemoProfilesSeeder struct {
	StartingHours int
}

func (DemoProfilesSeeder) Name() string { return "demo_profiles" }

func (s DemoProfilesSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "profiles", "id", "username", "title", "bio", "location", "time_balance"); err != nil {
		return err
	}
	if err := EnsureTableColumns(ctx, db, "skills", "id", "user_id", "name", "type"); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash demo password: %w", err)
	}

	return database.WithTx(ctx, db, func(tx database.Tx) error {
		for _, p := range demoProfiles {
			affected, err := tx.Exec(ctx,
				`INSERT INTO users (id, email, password_hash) VALUES ($1, $2, $3) ON CONFLICT DO NOTHING`,
				p.ID, p.Email, string(hash),
			)
			if err != nil {
				return err
			}
			if affected == 0 {
				continue
			}

			if _, err := tx.Exec(ctx,
				`INSERT INTO profiles (id, username, title, bio, location, time_balance) VALUES ($1, $2, $3, $4, $5, $6)`,
				p.ID, p.Username, p.Title, p.Bio, p.Location, s.StartingHours,
			); err != nil {
				return err
			}

			for typ, names := range map[string][]string{"offering": p.Offering, "seeking": p.Seeking} {
				for _, name := range names {
					if _, err := tx.Exec(ctx,
						`INSERT INTO skills (user_id, name, type) VALUES ($1, $2, $3)`,
						p.ID, name, typ,
					); err != nil {
						return err
					}
				}
			}
		}
		return nil
	})
}
