package usecase

import (
	"context"
	"errors"

	"skill-swap/internal/domain/matching"
	"skill-swap/internal/domain/profile"
	"skill-swap/internal/repository"

	"github.com/google/uuid"
)

const feedLimit = 20

type FeedItem struct {
	Profile profile.Profile
	// Matched lists the candidate's offering skills the viewer is seeking.
	Matched []string
}

type FeedUsecase interface {
	Feed(ctx context.Context, viewerID uuid.UUID) ([]FeedItem, error)
}

type feedUsecase struct {
	profiles repository.ProfileRepository
}

func NewFeedUsecase(profiles repository.ProfileRepository) FeedUsecase {
	return &feedUsecase{profiles: profiles}
}

func (u *feedUsecase) Feed(ctx context.Context, viewerID uuid.UUID) ([]FeedItem, error) {
	if viewerID == uuid.Nil {
		return nil, ErrUnauthorized
	}

	viewer, err := u.profiles.GetByID(ctx, viewerID)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, persistence("get viewer profile", err)
	}

	candidates, err := u.profiles.ListFeedCandidates(ctx, viewerID, feedLimit)
	if err != nil {
		return nil, persistence("list feed candidates", err)
	}

	byID := make(map[uuid.UUID]profile.Profile, len(candidates))
	in := make([]matching.Candidate, 0, len(candidates))
	for _, c := range candidates {
		byID[c.ID] = c
		in = append(in, matching.Candidate{UserID: c.ID, Offering: c.SkillNames(profile.SkillOffering)})
	}

	ranked := matching.Rank(in, viewer.SkillNames(profile.SkillSeeking))
	out := make([]FeedItem, 0, len(ranked))
	for _, r := range ranked {
		out = append(out, FeedItem{Profile: byID[r.UserID], Matched: r.Matched})
	}
	return out, nil
}
