package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
)

// Preference lists that populate the drive form's pickers. Per user,
// configuration data rather than domain data.
const (
	PrefFeatures  = "features"
	PrefFeedbacks = "feedbacks"
)

// Defaults served until a user saves their own lists.
var defaultPreferences = map[string][]string{
	PrefFeatures: {
		"Resident App", "Utility Billing", "Security Mgt", "Visitor Control", "Facility Mgt",
	},
	PrefFeedbacks: {
		"Landlord is very interested in the billing automation.",
		"Security is the main priority for this facility manager.",
		"Property currently uses manual receipts and wants to go digital.",
		"Concerns about the initial setup fee for the hardware.",
		"Requested a follow-up demo for the board members.",
		"High occupancy but struggles with debt recovery from tenants.",
	},
}

// ConfigStore keeps per-user preference lists. Backed by Redis in
// production; the interface exists so routes can be tested with an
// in-memory store.
type ConfigStore interface {
	GetList(ctx context.Context, userID uint, kind string) ([]string, error)
	SetList(ctx context.Context, userID uint, kind string, values []string) error
}

type RedisConfigStore struct {
	Client *redis.Client
}

func NewConfigStore() *RedisConfigStore {
	return &RedisConfigStore{Client: Redis}
}

func prefKey(userID uint, kind string) string {
	return fmt.Sprintf("prefs:%d:%s", userID, kind)
}

func (s *RedisConfigStore) GetList(ctx context.Context, userID uint, kind string) ([]string, error) {
	raw, err := s.Client.Get(ctx, prefKey(userID, kind)).Result()
	if err == redis.Nil {
		if defaults, ok := defaultPreferences[kind]; ok {
			return append([]string{}, defaults...), nil
		}
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}

	var values []string
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil, err
	}
	return values, nil
}

func (s *RedisConfigStore) SetList(ctx context.Context, userID uint, kind string, values []string) error {
	if values == nil {
		values = []string{}
	}
	raw, err := json.Marshal(values)
	if err != nil {
		return err
	}
	return s.Client.Set(ctx, prefKey(userID, kind), raw, 0).Err()
}
