package registry

import "github.com/okian/activities/internal/domain/model"

// DefaultActivities returns the built-in activity set in display order.
// Each call returns fresh slices.
func DefaultActivities() []model.Activity {
	return []model.Activity{
		{
			Name:            "Chess Club",
			Description:     "Learn strategies and compete in chess tournaments",
			Schedule:        "Fridays, 3:30 PM - 5:00 PM",
			MaxParticipants: 12,
			Participants:    []string{"michael@mergington.edu", "daniel@mergington.edu"},
		},
		{
			Name:            "Programming Class",
			Description:     "Learn programming fundamentals and build software projects",
			Schedule:        "Tuesdays and Thursdays, 3:30 PM - 4:30 PM",
			MaxParticipants: 20,
			Participants:    []string{"emma@mergington.edu", "sophia@mergington.edu"},
		},
		{
			Name:            "Gym Class",
			Description:     "Physical education and sports activities",
			Schedule:        "Mondays, Wednesdays, Fridays, 2:00 PM - 3:00 PM",
			MaxParticipants: 30,
			Participants:    []string{"john@mergington.edu", "olivia@mergington.edu"},
		},
		{
			Name:            "Basketball Team",
			Description:     "Practice drills and play in the inter-school league",
			Schedule:        "Mondays and Wednesdays, 4:00 PM - 5:30 PM",
			MaxParticipants: 15,
			Participants:    []string{"james@mergington.edu"},
		},
		{
			Name:            "Tennis Club",
			Description:     "Improve your serve and play friendly matches",
			Schedule:        "Tuesdays and Thursdays, 4:00 PM - 5:00 PM",
			MaxParticipants: 10,
			Participants:    []string{"ava@mergington.edu"},
		},
		{
			Name:            "Art Club",
			Description:     "Explore painting, drawing and sculpture",
			Schedule:        "Wednesdays, 3:30 PM - 5:00 PM",
			MaxParticipants: 18,
			Participants:    []string{"mia@mergington.edu"},
		},
		{
			Name:            "Drama Club",
			Description:     "Act, direct and stage the school plays",
			Schedule:        "Thursdays, 3:30 PM - 5:30 PM",
			MaxParticipants: 20,
			Participants:    []string{"liam@mergington.edu"},
		},
		{
			Name:            "Math Club",
			Description:     "Solve challenging problems and prepare for competitions",
			Schedule:        "Tuesdays, 3:30 PM - 4:30 PM",
			MaxParticipants: 16,
			Participants:    []string{"noah@mergington.edu"},
		},
		{
			Name:            "Debate Team",
			Description:     "Sharpen public speaking and argumentation skills",
			Schedule:        "Fridays, 4:00 PM - 5:30 PM",
			MaxParticipants: 12,
			Participants:    []string{"isabella@mergington.edu"},
		},
	}
}
