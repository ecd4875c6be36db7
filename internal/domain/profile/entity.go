package profile

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("profile not found")

type SkillType string

const (
	SkillOffering SkillType = "offering"
	SkillSeeking  SkillType = "seeking"
)

func ParseSkillType(raw string) (SkillType, error) {
	switch SkillType(strings.ToLower(strings.TrimSpace(raw))) {
	case SkillOffering:
		return SkillOffering, nil
	case SkillSeeking:
		return SkillSeeking, nil
	default:
		return "", fmt.Errorf("unknown skill type %q", raw)
	}
}

type Skill struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Name      string
	Type      SkillType
	YearsExp  int
	CreatedAt time.Time
}

type Profile struct {
	ID           uuid.UUID
	Username     string
	Title        *string
	Bio          *string
	Location     *string
	PortfolioURL *string
	AvatarURL    *string
	CoverURL     *string
	TimeBalance  int
	Skills       []Skill
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (p Profile) SkillsOfType(t SkillType) []Skill {
	out := make([]Skill, 0, len(p.Skills))
	for _, s := range p.Skills {
		if s.Type == t {
			out = append(out, s)
		}
	}
	return out
}

func (p Profile) SkillNames(t SkillType) []string {
	skills := p.SkillsOfType(t)
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		out = append(out, s.Name)
	}
	return out
}

// Stats is the read-side aggregation over a user's swaps.
type Stats struct {
	MatchesCount  int `json:"matches_count"`
	HoursInvested int `json:"hours_invested"`
}

// SplitSkillList turns a comma separated list into trimmed, non-empty names,
// dropping case-insensitive duplicates while keeping first-seen order.
func SplitSkillList(raw string) []string {
	parts := strings.Split(raw, ",")
	seen := make(map[string]struct{}, len(parts))
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		name := strings.Join(strings.Fields(p), " ")
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, name)
	}
	return out
}
