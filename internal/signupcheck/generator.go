package signupcheck

import (
	"sort"

	"github.com/google/uuid"
)

// emailDomain keeps generated addresses clearly apart from real students.
const emailDomain = "signup-check.invalid"

// generateAssignments creates n unique emails spread round-robin over the
// activity names in sorted order.
func generateAssignments(listing Listing, n int) []Assignment {
	names := make([]string, 0, len(listing))
	for name := range listing {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]Assignment, n)
	for i := range out {
		out[i] = Assignment{
			Activity: names[i%len(names)],
			Email:    "check-" + uuid.NewString() + "@" + emailDomain,
		}
	}
	return out
}
