package config

import (
	"context"
	"fmt"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/okian/activities/internal/domain/model"
)

// seedEntry mirrors one item of the "activities" list in a seed file:
//
//	activities:
//	  - name: Chess Club
//	    description: Learn strategies and compete in chess tournaments
//	    schedule: Fridays, 3:30 PM - 5:00 PM
//	    max_participants: 12
//	    participants: [michael@mergington.edu]
type seedEntry struct {
	Name            string   `koanf:"name"`
	Description     string   `koanf:"description"`
	Schedule        string   `koanf:"schedule"`
	MaxParticipants int      `koanf:"max_participants"`
	Participants    []string `koanf:"participants"`
}

// LoadSeed reads activities from a YAML seed file, keeping file order.
// Structural checks (duplicates, empty names) are left to the registry.
func LoadSeed(_ context.Context, path string) ([]model.Activity, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
	}

	var entries []seedEntry
	if err := k.UnmarshalWithConf("activities", &entries, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidSeed, path, err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: %s: no activities", ErrInvalidSeed, path)
	}

	out := make([]model.Activity, len(entries))
	for i, e := range entries {
		out[i] = model.Activity{
			Name:            e.Name,
			Description:     e.Description,
			Schedule:        e.Schedule,
			MaxParticipants: e.MaxParticipants,
			Participants:    e.Participants,
		}
	}
	return out, nil
}
