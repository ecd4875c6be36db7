package usecase

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"skill-swap/internal/domain/profile"
	"skill-swap/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

type ProfileView struct {
	Profile profile.Profile
	Stats   profile.Stats
	// PendingIncoming is only filled when the viewer looks at their own profile.
	PendingIncoming *int
}

// UpdateProfileInput fields left nil are not touched. Offering and Seeking are
// comma separated skill lists that replace the stored set of that type.
type UpdateProfileInput struct {
	Title        *string
	Bio          *string
	Location     *string
	PortfolioURL *string
	AvatarURL    *string
	CoverURL     *string
	Offering     *string
	Seeking      *string
}

type ProfileUsecase interface {
	Get(ctx context.Context, viewerID, userID uuid.UUID) (ProfileView, error)
	Update(ctx context.Context, userID uuid.UUID, in UpdateProfileInput) (ProfileView, error)
	Stats(ctx context.Context, userID uuid.UUID) (profile.Stats, error)
}

type profileUsecase struct {
	profiles repository.ProfileRepository
	swaps    repository.SwapRepository
	cache    StatsCache
	cacheTTL time.Duration
	logger   *log.Logger
}

func NewProfileUsecase(profiles repository.ProfileRepository, swaps repository.SwapRepository, cache StatsCache, cacheTTL time.Duration, logger *log.Logger) ProfileUsecase {
	return &profileUsecase{profiles: profiles, swaps: swaps, cache: cache, cacheTTL: cacheTTL, logger: logger}
}

func (u *profileUsecase) Get(ctx context.Context, viewerID, userID uuid.UUID) (ProfileView, error) {
	if userID == uuid.Nil {
		return ProfileView{}, ErrInvalidInput
	}

	var view ProfileView
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		p, err := u.profiles.GetByID(gctx, userID)
		if err != nil {
			if errors.Is(err, repository.ErrProfileNotFound) {
				return ErrProfileNotFound
			}
			return persistence("get profile", err)
		}
		view.Profile = p
		return nil
	})

	g.Go(func() error {
		st, err := u.Stats(gctx, userID)
		if err != nil {
			return err
		}
		view.Stats = st
		return nil
	})

	if viewerID == userID {
		g.Go(func() error {
			n, err := u.swaps.CountPendingIncoming(gctx, userID)
			if err != nil {
				return persistence("count pending swaps", err)
			}
			view.PendingIncoming = &n
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return ProfileView{}, err
	}
	return view, nil
}

// Stats serves the read-side aggregation, through the cache when one is set.
func (u *profileUsecase) Stats(ctx context.Context, userID uuid.UUID) (profile.Stats, error) {
	key := UserStatsCacheKey(userID)
	if u.cache != nil {
		var cached profile.Stats
		hit, err := u.cache.GetJSON(ctx, key, &cached)
		if err == nil && hit {
			return cached, nil
		}
	}

	st, err := u.swaps.GetUserStats(ctx, userID)
	if err != nil {
		return profile.Stats{}, persistence("get user stats", err)
	}

	if u.cache != nil {
		if err := u.cache.SetJSON(ctx, key, st, u.cacheTTL); err != nil {
			u.logf("stats_cache_set user_id=%s status=error err=%v", userID, err)
		}
	}
	return st, nil
}

func (u *profileUsecase) Update(ctx context.Context, userID uuid.UUID, in UpdateProfileInput) (ProfileView, error) {
	if userID == uuid.Nil {
		return ProfileView{}, ErrUnauthorized
	}

	upd := repository.ProfileUpdate{
		Title:        trimmedPtr(in.Title),
		Bio:          trimmedPtr(in.Bio),
		Location:     trimmedPtr(in.Location),
		PortfolioURL: trimmedPtr(in.PortfolioURL),
		AvatarURL:    nonBlankPtr(in.AvatarURL),
		CoverURL:     nonBlankPtr(in.CoverURL),
	}

	skills := make(map[profile.SkillType][]string, 2)
	if in.Offering != nil {
		skills[profile.SkillOffering] = profile.SplitSkillList(*in.Offering)
	}
	if in.Seeking != nil {
		skills[profile.SkillSeeking] = profile.SplitSkillList(*in.Seeking)
	}

	if err := u.profiles.Update(ctx, userID, upd, skills); err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return ProfileView{}, ErrProfileNotFound
		}
		u.logf("profile_update user_id=%s status=error err=%v", userID, err)
		return ProfileView{}, persistence("update profile", err)
	}

	u.logf("profile_update user_id=%s offering=%d seeking=%d status=ok", userID, len(skills[profile.SkillOffering]), len(skills[profile.SkillSeeking]))
	return u.Get(ctx, userID, userID)
}

func trimmedPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

// nonBlankPtr treats a blank value as "keep the current one".
func nonBlankPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func (u *profileUsecase) logf(format string, args ...any) {
	if u.logger != nil {
		u.logger.Printf(format, args...)
	}
}
