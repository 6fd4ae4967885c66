package types

import "time"

// Role is the fixed archetype assigned to a character.
type Role string

const (
	RoleWarrior  Role = "warrior"
	RoleMerchant Role = "merchant"
	RoleScholar  Role = "scholar"
	RoleGuard    Role = "guard"
	RoleVillager Role = "villager"
	RoleMystic   Role = "mystic"
)

// Roles lists every valid archetype.
var Roles = []Role{RoleWarrior, RoleMerchant, RoleScholar, RoleGuard, RoleVillager, RoleMystic}

// Valid reports whether r is a known archetype.
func (r Role) Valid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

// MediatorRoles are the archetypes that jump the speaking queue when a
// conversation turns into a conflict.
var MediatorRoles = map[Role]bool{
	RoleScholar: true,
	RoleMystic:  true,
}

// EmotionalWeights holds the six emotional dispositions, each in [0,1].
type EmotionalWeights struct {
	Happiness float64 `json:"happiness"`
	Sadness   float64 `json:"sadness"`
	Anger     float64 `json:"anger"`
	Fear      float64 `json:"fear"`
	Surprise  float64 `json:"surprise"`
	Disgust   float64 `json:"disgust"`
}

// BehavioralTraits holds the five behavioral dispositions, each in [0,1].
type BehavioralTraits struct {
	Sociability float64 `json:"sociability"`
	Curiosity   float64 `json:"curiosity"`
	Aggression  float64 `json:"aggression"`
	Loyalty     float64 `json:"loyalty"`
	Humor       float64 `json:"humor"`
}

// Character is the persisted NPC profile.
type Character struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Role        Role             `json:"role"`
	Emotions    EmotionalWeights `json:"emotions"`
	Traits      BehavioralTraits `json:"traits"`
	// CurrentMood is a scalar in [0,1], nudged after every turn.
	CurrentMood float64  `json:"current_mood"`
	Memories    []string `json:"memories"`
	Routines    []string `json:"routines"`
	Actions     []string `json:"actions"`
	// IsActive is flipped off instead of deleting the row.
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
