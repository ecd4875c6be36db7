package dto

import (
	"time"

	"skill-swap/internal/domain/profile"
	"skill-swap/internal/usecase"

	"github.com/google/uuid"
)

type StatsResponse struct {
	MatchesCount  int `json:"matches_count"`
	HoursInvested int `json:"hours_invested"`
}

type ProfileResponse struct {
	ID              uuid.UUID     `json:"id"`
	Username        string        `json:"username"`
	Title           *string       `json:"title"`
	Bio             *string       `json:"bio"`
	Location        *string       `json:"location"`
	PortfolioURL    *string       `json:"portfolio_url"`
	AvatarURL       *string       `json:"avatar_url"`
	CoverURL        *string       `json:"cover_url"`
	TimeBalance     int           `json:"time_balance"`
	SkillsOffering  []string      `json:"skills_offering"`
	SkillsSeeking   []string      `json:"skills_seeking"`
	Stats           StatsResponse `json:"stats"`
	PendingIncoming *int          `json:"pending_incoming,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
}

func NewProfileResponse(v usecase.ProfileView) ProfileResponse {
	p := v.Profile
	return ProfileResponse{
		ID:              p.ID,
		Username:        p.Username,
		Title:           p.Title,
		Bio:             p.Bio,
		Location:        p.Location,
		PortfolioURL:    p.PortfolioURL,
		AvatarURL:       p.AvatarURL,
		CoverURL:        p.CoverURL,
		TimeBalance:     p.TimeBalance,
		SkillsOffering:  p.SkillNames(profile.SkillOffering),
		SkillsSeeking:   p.SkillNames(profile.SkillSeeking),
		Stats:           StatsResponse{MatchesCount: v.Stats.MatchesCount, HoursInvested: v.Stats.HoursInvested},
		PendingIncoming: v.PendingIncoming,
		CreatedAt:       p.CreatedAt,
	}
}

type FeedItemResponse struct {
	ID             uuid.UUID `json:"id"`
	Username       string    `json:"username"`
	Title          *string   `json:"title"`
	Location       *string   `json:"location"`
	AvatarURL      *string   `json:"avatar_url"`
	SkillsOffering []string  `json:"skills_offering"`
	SkillsSeeking  []string  `json:"skills_seeking"`
	MatchedSkills  []string  `json:"matched_skills"`
}

func NewFeedResponse(items []usecase.FeedItem) []FeedItemResponse {
	out := make([]FeedItemResponse, 0, len(items))
	for _, it := range items {
		p := it.Profile
		out = append(out, FeedItemResponse{
			ID:             p.ID,
			Username:       p.Username,
			Title:          p.Title,
			Location:       p.Location,
			AvatarURL:      p.AvatarURL,
			SkillsOffering: p.SkillNames(profile.SkillOffering),
			SkillsSeeking:  p.SkillNames(profile.SkillSeeking),
			MatchedSkills:  it.Matched,
		})
	}
	return out
}
