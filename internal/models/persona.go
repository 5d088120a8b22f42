package models

import "time"

// PersonaRole is the relationship role the assistant plays for the user.
type PersonaRole string

const (
	RoleFriend       PersonaRole = "friend"
	RoleBoyfriend    PersonaRole = "boyfriend"
	RoleGirlfriend   PersonaRole = "girlfriend"
	RoleSpouseMale   PersonaRole = "spouse_male"
	RoleSpouseFemale PersonaRole = "spouse_female"
	RoleBrother      PersonaRole = "brother"
	RoleSister       PersonaRole = "sister"
	RoleMentor       PersonaRole = "mentor"
	RoleAdvisor      PersonaRole = "advisor"
	RoleAcademician  PersonaRole = "academician"
)

// ValidPersonaRole reports whether the role is one of the ten known roles.
func ValidPersonaRole(r PersonaRole) bool {
	switch r {
	case RoleFriend, RoleBoyfriend, RoleGirlfriend, RoleSpouseMale,
		RoleSpouseFemale, RoleBrother, RoleSister, RoleMentor,
		RoleAdvisor, RoleAcademician:
		return true
	default:
		return false
	}
}

// PersonaTrait is a personality trait toggled on the persona.
type PersonaTrait string

const (
	TraitConfident PersonaTrait = "Confident"
	TraitShy       PersonaTrait = "Shy"
	TraitEnergetic PersonaTrait = "Energetic"
	TraitMellow    PersonaTrait = "Mellow"
	TraitCaring    PersonaTrait = "Caring"
	TraitSassy     PersonaTrait = "Sassy"
	TraitPractical PersonaTrait = "Practical"
	TraitDreamy    PersonaTrait = "Dreamy"
	TraitArtistic  PersonaTrait = "Artistic"
	TraitLogical   PersonaTrait = "Logical"
)

// ValidPersonaTrait reports whether the trait belongs to the fixed set.
func ValidPersonaTrait(t PersonaTrait) bool {
	switch t {
	case TraitConfident, TraitShy, TraitEnergetic, TraitMellow, TraitCaring,
		TraitSassy, TraitPractical, TraitDreamy, TraitArtistic, TraitLogical:
		return true
	default:
		return false
	}
}

// PersonaInterests is the whitelist of selectable interests.
var PersonaInterests = []string{
	"Board games", "Comics", "Manga", "History", "Philosophy",
	"Cooking & Baking", "Anime", "Basketball", "Football", "Sci-fi",
	"Sneakers", "Gardening", "Skincare & Makeup", "Cars", "Space",
	"Soccer", "K-pop", "Fitness", "Physics", "Mindfulness",
}

// ValidPersonaInterest reports whether the interest is selectable.
func ValidPersonaInterest(interest string) bool {
	for _, i := range PersonaInterests {
		if i == interest {
			return true
		}
	}
	return false
}

// Persona is the per-user assistant personality record.
type Persona struct {
	UserID    int64          `json:"user_id"`
	Role      PersonaRole    `json:"role"`
	Backstory string         `json:"backstory"`
	Traits    []PersonaTrait `json:"personality_traits"`
	Interests []string       `json:"interests"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// DefaultPersona returns the scaffold persona used when none is stored.
func DefaultPersona(userID int64) *Persona {
	return &Persona{
		UserID:    userID,
		Role:      RoleFriend,
		Backstory: "",
		Traits:    []PersonaTrait{},
		Interests: []string{},
	}
}
