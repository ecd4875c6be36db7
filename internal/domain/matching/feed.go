package matching

import (
	"sort"
	"strings"

	"github.com/google/uuid"
)

type Candidate struct {
	UserID   uuid.UUID
	Offering []string
}

type Ranked struct {
	UserID uuid.UUID
	// Matched holds the candidate's offering skills the viewer is seeking.
	Matched []string
}

// Rank orders candidates so that anyone offering a skill the viewer seeks
// comes first. The sort is stable: within each group the input order holds.
// Candidates with no offering skills are dropped.
func Rank(candidates []Candidate, seeking []string) []Ranked {
	want := make(map[string]struct{}, len(seeking))
	for _, s := range seeking {
		k := normalize(s)
		if k == "" {
			continue
		}
		want[k] = struct{}{}
	}

	out := make([]Ranked, 0, len(candidates))
	for _, c := range candidates {
		if c.UserID == uuid.Nil || len(c.Offering) == 0 {
			continue
		}
		r := Ranked{UserID: c.UserID, Matched: []string{}}
		for _, o := range c.Offering {
			if _, ok := want[normalize(o)]; ok {
				r.Matched = append(r.Matched, o)
			}
		}
		out = append(out, r)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return len(out[i].Matched) > 0 && len(out[j].Matched) == 0
	})
	return out
}

func normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
