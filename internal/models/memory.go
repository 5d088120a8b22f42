package models

import "time"

// MemoryCategory is one of the seven fixed long-term memory buckets.
type MemoryCategory string

const (
	CategoryFamilyFriends MemoryCategory = "family_friends"
	CategoryFavorites     MemoryCategory = "favorites"
	CategoryOpinions      MemoryCategory = "opinions"
	CategorySkills        MemoryCategory = "skills"
	CategoryPersonality   MemoryCategory = "personality"
	CategoryHealth        MemoryCategory = "health"
	CategoryOthers        MemoryCategory = "others"
)

// MemoryCategories lists every category in render order.
func MemoryCategories() []MemoryCategory {
	return []MemoryCategory{
		CategoryFamilyFriends,
		CategoryFavorites,
		CategoryOpinions,
		CategorySkills,
		CategoryPersonality,
		CategoryHealth,
		CategoryOthers,
	}
}

// ValidMemoryCategory reports whether the category is one of the seven.
func ValidMemoryCategory(c MemoryCategory) bool {
	switch c {
	case CategoryFamilyFriends, CategoryFavorites, CategoryOpinions,
		CategorySkills, CategoryPersonality, CategoryHealth, CategoryOthers:
		return true
	default:
		return false
	}
}

// CategoryLabel returns the human-readable label used when rendering memory.
func CategoryLabel(c MemoryCategory) string {
	switch c {
	case CategoryFamilyFriends:
		return "Family & Friends"
	case CategoryFavorites:
		return "Favorites"
	case CategoryOpinions:
		return "Opinions"
	case CategorySkills:
		return "Skills"
	case CategoryPersonality:
		return "Personality"
	case CategoryHealth:
		return "Health"
	case CategoryOthers:
		return "Others"
	default:
		return string(c)
	}
}

// Memory is the per-user long-term fact store. Facts always carries every
// category key; absent categories hold empty lists.
type Memory struct {
	UserID    int64                       `json:"user_id"`
	Facts     map[MemoryCategory][]string `json:"facts"`
	CreatedAt time.Time                   `json:"created_at"`
	UpdatedAt time.Time                   `json:"updated_at"`
}

// EmptyFacts returns a fact map with all seven categories initialized.
func EmptyFacts() map[MemoryCategory][]string {
	facts := make(map[MemoryCategory][]string, 7)
	for _, c := range MemoryCategories() {
		facts[c] = []string{}
	}
	return facts
}
