package signupcheck

import "fmt"

// verifySignedUp checks each accepted email appears exactly once in its
// activity and that participant counts grew by the accepted amount.
func verifySignedUp(initial, current Listing, accepted []Assignment) error {
	added := make(map[string]int, len(initial))
	for _, a := range accepted {
		view, ok := current[a.Activity]
		if !ok {
			return fmt.Errorf("%w: activity %q disappeared", ErrVerification, a.Activity)
		}
		seen := 0
		for _, p := range view.Participants {
			if p == a.Email {
				seen++
			}
		}
		if seen != 1 {
			return fmt.Errorf("%w: %s listed %d times in %q", ErrVerification, a.Email, seen, a.Activity)
		}
		added[a.Activity]++
	}

	for name, before := range initial {
		after, ok := current[name]
		if !ok {
			return fmt.Errorf("%w: activity %q disappeared", ErrVerification, name)
		}
		want := len(before.Participants) + added[name]
		if got := len(after.Participants); got != want {
			return fmt.Errorf("%w: %q has %d participants, want %d", ErrVerification, name, got, want)
		}
	}
	return nil
}

// verifyRestored checks counts match the initial listing and no email
// generated by this run is left behind.
func verifyRestored(initial, current Listing, generated []Assignment) error {
	if len(current) != len(initial) {
		return fmt.Errorf("%w: %d activities listed, want %d", ErrVerification, len(current), len(initial))
	}
	ours := make(map[string]struct{}, len(generated))
	for _, a := range generated {
		ours[a.Email] = struct{}{}
	}
	for name, before := range initial {
		after, ok := current[name]
		if !ok {
			return fmt.Errorf("%w: activity %q disappeared", ErrVerification, name)
		}
		if len(after.Participants) != len(before.Participants) {
			return fmt.Errorf("%w: %q has %d participants, want %d",
				ErrVerification, name, len(after.Participants), len(before.Participants))
		}
		for _, p := range after.Participants {
			if _, left := ours[p]; left {
				return fmt.Errorf("%w: %s still signed up for %q", ErrVerification, p, name)
			}
		}
	}
	return nil
}
