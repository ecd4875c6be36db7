package repository

import (
	"context"
	"errors"

	"skill-swap/internal/database"
	"skill-swap/internal/domain/profile"

	"github.com/google/uuid"
)

var ErrProfileNotFound = errors.New("profile not found")

// ProfileUpdate carries the editable display fields. Nil pointers leave the
// stored value untouched.
type ProfileUpdate struct {
	Title        *string
	Bio          *string
	Location     *string
	PortfolioURL *string
	AvatarURL    *string
	CoverURL     *string
}

type ProfileRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (profile.Profile, error)
	// Update applies upd and, for every skill type present in skills, replaces
	// that type's skill set. Both happen in one transaction.
	Update(ctx context.Context, id uuid.UUID, upd ProfileUpdate, skills map[profile.SkillType][]string) error
	// ListFeedCandidates returns profiles with at least one offering skill,
	// excluding viewerID and everyone the viewer already shares a swap with.
	ListFeedCandidates(ctx context.Context, viewerID uuid.UUID, limit int) ([]profile.Profile, error)
}

type PostgresProfileRepository struct {
	db database.DB
}

func NewPostgresProfileRepository(db database.DB) *PostgresProfileRepository {
	return &PostgresProfileRepository{db: db}
}

const profileColumns = `id, username, title, bio, location, portfolio_url, avatar_url, cover_url, time_balance, created_at, updated_at`

func scanProfile(row database.Row) (profile.Profile, error) {
	var p profile.Profile
	err := row.Scan(&p.ID, &p.Username, &p.Title, &p.Bio, &p.Location, &p.PortfolioURL, &p.AvatarURL, &p.CoverURL, &p.TimeBalance, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (r *PostgresProfileRepository) GetByID(ctx context.Context, id uuid.UUID) (profile.Profile, error) {
	p, err := scanProfile(r.db.QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id))
	if err != nil {
		if database.IsNoRows(err) {
			return profile.Profile{}, ErrProfileNotFound
		}
		return profile.Profile{}, err
	}

	skills, err := r.skillsFor(ctx, []uuid.UUID{id})
	if err != nil {
		return profile.Profile{}, err
	}
	p.Skills = skills[id]
	if p.Skills == nil {
		p.Skills = []profile.Skill{}
	}
	return p, nil
}

func (r *PostgresProfileRepository) Update(ctx context.Context, id uuid.UUID, upd ProfileUpdate, skills map[profile.SkillType][]string) error {
	return database.WithTx(ctx, r.db, func(tx database.Tx) error {
		affected, err := tx.Exec(ctx,
			`UPDATE profiles
			 SET title = COALESCE($2, title),
			     bio = COALESCE($3, bio),
			     location = COALESCE($4, location),
			     portfolio_url = COALESCE($5, portfolio_url),
			     avatar_url = COALESCE($6, avatar_url),
			     cover_url = COALESCE($7, cover_url),
			     updated_at = now()
			 WHERE id = $1`,
			id, upd.Title, upd.Bio, upd.Location, upd.PortfolioURL, upd.AvatarURL, upd.CoverURL,
		)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrProfileNotFound
		}

		for _, t := range []profile.SkillType{profile.SkillOffering, profile.SkillSeeking} {
			names, ok := skills[t]
			if !ok {
				continue
			}
			if _, err := tx.Exec(ctx, `DELETE FROM skills WHERE user_id = $1 AND type = $2`, id, string(t)); err != nil {
				return err
			}
			for _, name := range names {
				if _, err := tx.Exec(ctx,
					`INSERT INTO skills (id, user_id, name, type) VALUES ($1, $2, $3, $4)`,
					uuid.New(), id, name, string(t),
				); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func (r *PostgresProfileRepository) ListFeedCandidates(ctx context.Context, viewerID uuid.UUID, limit int) ([]profile.Profile, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.Query(ctx,
		`SELECT `+profileColumns+`
		 FROM profiles p
		 WHERE p.id <> $1
		   AND EXISTS (SELECT 1 FROM skills s WHERE s.user_id = p.id AND s.type = 'offering')
		   AND NOT EXISTS (
		       SELECT 1 FROM swaps sw
		       WHERE (sw.sender_id = $1 AND sw.receiver_id = p.id)
		          OR (sw.receiver_id = $1 AND sw.sender_id = p.id)
		   )
		 ORDER BY p.created_at DESC, p.id
		 LIMIT $2`,
		viewerID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]profile.Profile, 0, limit)
	ids := make([]uuid.UUID, 0, limit)
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
		ids = append(ids, p.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return out, nil
	}

	skills, err := r.skillsFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Skills = skills[out[i].ID]
	}
	return out, nil
}

func (r *PostgresProfileRepository) skillsFor(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID][]profile.Skill, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, name, type, years_exp, created_at
		 FROM skills
		 WHERE user_id = ANY($1)
		 ORDER BY created_at ASC, name ASC`,
		userIDs,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[uuid.UUID][]profile.Skill, len(userIDs))
	for rows.Next() {
		var s profile.Skill
		var typ string
		if err := rows.Scan(&s.ID, &s.UserID, &s.Name, &typ, &s.YearsExp, &s.CreatedAt); err != nil {
			return nil, err
		}
		st, err := profile.ParseSkillType(typ)
		if err != nil {
			return nil, err
		}
		s.Type = st
		out[s.UserID] = append(out[s.UserID], s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
