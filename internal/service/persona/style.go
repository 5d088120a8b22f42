// Package persona derives the response style a persona imposes on generated
// replies: a per-role tone table, additive trait adjustments, and a
// cooperation level computed from recent message feedback.
package persona

import (
	"fmt"

	"companiongo/internal/models"
)

// StyleDescriptor is the tone/format/approach/avoid quadruple for a role.
type StyleDescriptor struct {
	Tone     string `json:"tone"`
	Format   string `json:"format"`
	Approach string `json:"approach"`
	Avoid    string `json:"avoid"`
}

// ResponseStyle bundles the resolved style with the cooperation directive.
type ResponseStyle struct {
	Style                  StyleDescriptor `json:"style"`
	CooperationLevel       int             `json:"cooperation_level"`
	CooperationInstruction string          `json:"cooperation_instructions"`
}

// RoleStyle returns the base style for a role. Unknown roles fall back to
// the friend style.
func RoleStyle(role models.PersonaRole) StyleDescriptor {
	switch role {
	case models.RoleBoyfriend:
		return StyleDescriptor{
			Tone:     "sevgi dolu, koruyucu ve anlayışlı",
			Format:   "romantik ve destekleyici, kişisel",
			Approach: "duygusal destek ver, birlikte çözüm ara, şefkat göster",
			Avoid:    "soğuk analiz, impersonal tavsiyeler",
		}
	case models.RoleGirlfriend:
		return StyleDescriptor{
			Tone:     "sevgi dolu, empatik ve sıcak",
			Format:   "samimi kız arkadaş sohbeti tarzında",
			Approach: "duygularını anla, deneyim paylaş, moral ver",
			Avoid:    "teknik analiz, robotik çözümler, soğuk tavsiyeler",
		}
	case models.RoleSpouseMale:
		return StyleDescriptor{
			Tone:     "destekleyici eş, güvenilir ve anlayışlı",
			Format:   "evlilik deneyimi olan, olgun yaklaşım",
			Approach: "beraber düşün, uzun vadeli çözümler öner, sabırlı ol",
			Avoid:    "otoriter tavır, hızlı yargılar",
		}
	case models.RoleSpouseFemale:
		return StyleDescriptor{
			Tone:     "destekleyici eş, sıcak ve pratik",
			Format:   "evlilik deneyimi olan, anlayışlı yaklaşım",
			Approach: "duygusal destek ver, pratik çözümler öner, sabırlı ol",
			Avoid:    "eleştirel tavır, soğuk analiz",
		}
	case models.RoleBrother:
		return StyleDescriptor{
			Tone:     "koruyucu kardeş, samimi ve direkt",
			Format:   "kardeşçe sohbet, açık ve dürüst",
			Approach: "koruyucu ol, deneyim paylaş, pratik çözümler ver",
			Avoid:    "fazla ciddi ton, resmi dil",
		}
	case models.RoleSister:
		return StyleDescriptor{
			Tone:     "destekleyici kız kardeş, anlayışlı",
			Format:   "kız kardeş sohbeti, samimi ve eğlenceli",
			Approach: "empati göster, deneyim paylaş, moral ver",
			Avoid:    "ağabeylik taslama, otoriter tavır",
		}
	case models.RoleMentor:
		return StyleDescriptor{
			Tone:     "deneyimli rehber, bilge ve destekleyici",
			Format:   "rehberlik eden ama baskıcı olmayan",
			Approach: "deneyim paylaş, adım adım yönlendir, motivasyon ver",
			Avoid:    "ders verici tavır, fazla teorik bilgi",
		}
	case models.RoleAdvisor:
		return StyleDescriptor{
			Tone:     "profesyonel danışman, objektif",
			Format:   "danışmanlık tarzında ama sıcak",
			Approach: "seçenekleri göster, pros/cons analizi, kararı sana bırak",
			Avoid:    "kesin yargılar, tek çözüm dayatma",
		}
	case models.RoleAcademician:
		return StyleDescriptor{
			Tone:     "bilgili öğretmen, sabırlı ve açıklayıcı",
			Format:   "eğitici ama sıkıcı olmayan",
			Approach: "kavramları açıkla, örnekler ver, merak uyandır",
			Avoid:    "fazla akademik jargon, sıkıcı dersler",
		}
	case models.RoleFriend:
		fallthrough
	default:
		return StyleDescriptor{
			Tone:     "samimi ve destekleyici",
			Format:   "doğal sohbet tarzında, arkadaşça",
			Approach: "empati göster, deneyim paylaş, pratik öneriler ver",
			Avoid:    "resmi dil, madde listesi, robotik cevaplar",
		}
	}
}

// applyTraits appends trait-specific adjustments in a fixed check order,
// regardless of how the persona lists its traits. Each trait contributes at
// most once.
func applyTraits(style StyleDescriptor, traits []models.PersonaTrait) StyleDescriptor {
	has := make(map[models.PersonaTrait]bool, len(traits))
	for _, t := range traits {
		has[t] = true
	}
	if has[models.TraitShy] {
		style.Tone += ", nazik ve anlayışlı"
	}
	if has[models.TraitEnergetic] {
		style.Tone += ", enerjik ve coşkulu"
	}
	if has[models.TraitCaring] {
		style.Approach += ", ekstra empati göster"
	}
	if has[models.TraitSassy] {
		style.Tone += ", esprili ve özgüvenli"
	}
	if has[models.TraitArtistic] {
		style.Approach += ", yaratıcı çözümler öner"
	}
	if has[models.TraitLogical] {
		style.Approach += ", mantıklı yaklaşım sergile"
	}
	return style
}

// CooperationLevel maps recent feedback tags to a 1-5 level. Only love and
// funny count positive; an empty history scores the neutral 3.
func CooperationLevel(history []models.FeedbackTag) int {
	if len(history) == 0 {
		return 3
	}
	positive := 0
	for _, tag := range history {
		if tag == models.FeedbackLove || tag == models.FeedbackFunny {
			positive++
		}
	}
	ratio := float64(positive) / float64(len(history))
	switch {
	case ratio >= 0.8:
		return 5
	case ratio >= 0.6:
		return 4
	case ratio >= 0.4:
		return 3
	case ratio >= 0.2:
		return 2
	default:
		return 1
	}
}

// CooperationInstruction returns the directive for a cooperation level.
// Out-of-range levels read as the balanced level 3.
func CooperationInstruction(level int) string {
	switch level {
	case 1:
		return "Kısa ve öz cevaplar ver. Kullanıcı daha az detay istiyor gibi görünüyor."
	case 2:
		return "Orta uzunlukta cevaplar ver. Fazla detaya girme."
	case 4:
		return "Detaylı ve yardımcı cevaplar ver. Kullanıcı memnun görünüyor."
	case 5:
		return "Çok detaylı, yaratıcı ve kapsamlı cevaplar ver. Kullanıcı yanıtlarından çok memnun."
	case 3:
		fallthrough
	default:
		return "Dengeli cevaplar ver. Ne çok kısa ne çok uzun."
	}
}

// Resolve combines the persona record and feedback history into the full
// response style. A nil persona resolves with the friend defaults.
func Resolve(p *models.Persona, history []models.FeedbackTag) ResponseStyle {
	role := models.RoleFriend
	var traits []models.PersonaTrait
	if p != nil {
		role = p.Role
		traits = p.Traits
	}
	level := CooperationLevel(history)
	return ResponseStyle{
		Style:                  applyTraits(RoleStyle(role), traits),
		CooperationLevel:       level,
		CooperationInstruction: CooperationInstruction(level),
	}
}

// PromptBlock renders the style as the system-prompt suffix appended to
// every pipeline stage.
func (rs ResponseStyle) PromptBlock() string {
	return fmt.Sprintf(`

--- PERSONA RESPONSE STYLE ---
Tone: %s
Format: %s
Approach: %s
Avoid: %s

Respond according to these persona characteristics. %s
`, rs.Style.Tone, rs.Style.Format, rs.Style.Approach, rs.Style.Avoid, rs.CooperationInstruction)
}
