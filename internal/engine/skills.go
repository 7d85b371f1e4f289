package engine

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// SkillID is the stable key of a skill track. Labels are for display only.
type SkillID string

const (
	SkillDiscipline   SkillID = "discipline"
	SkillFocus        SkillID = "focus"
	SkillEnergie      SkillID = "energie"
	SkillCreativite   SkillID = "creativite"
	SkillSante        SkillID = "sante"
	SkillSocial       SkillID = "social"
	SkillBusiness     SkillID = "business"
	SkillIntelligence SkillID = "intelligence"
)

type SkillInfo struct {
	ID    SkillID
	Label string
	Icon  string
}

var skillCatalog = []SkillInfo{
	{SkillDiscipline, "Discipline", "🛡️"},
	{SkillFocus, "Focus", "🎯"},
	{SkillEnergie, "Énergie", "⚡"},
	{SkillCreativite, "Créativité", "🎨"},
	{SkillSante, "Santé", "❤️"},
	{SkillSocial, "Social", "👥"},
	{SkillBusiness, "Business", "💼"},
	{SkillIntelligence, "Intelligence", "🧠"},
}

// SkillCatalog returns every skill track in display order.
func SkillCatalog() []SkillInfo {
	out := make([]SkillInfo, len(skillCatalog))
	copy(out, skillCatalog)
	return out
}

func lookupSkill(id SkillID) (SkillInfo, bool) {
	for _, s := range skillCatalog {
		if s.ID == id {
			return s, true
		}
	}
	return SkillInfo{}, false
}

func (id SkillID) IsValid() bool {
	_, ok := lookupSkill(id)
	return ok
}

// Label returns the display label, or the raw key for unknown ids.
func (id SkillID) Label() string {
	if s, ok := lookupSkill(id); ok {
		return s.Label
	}
	return string(id)
}

func (id SkillID) Icon() string {
	if s, ok := lookupSkill(id); ok {
		return s.Icon
	}
	return ""
}

// ParseSkill accepts a key or a label, ignoring case and accents
// ("Énergie", "energie" and "ENERGIE" all resolve to SkillEnergie).
func ParseSkill(input string) (SkillID, error) {
	s := foldKey(input)
	if s == "" {
		return "", fmt.Errorf("%w: empty", ErrUnknownSkill)
	}
	for _, sk := range skillCatalog {
		if s == string(sk.ID) || s == foldKey(sk.Label) {
			return sk.ID, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSkill, input)
}

func foldKey(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, strings.TrimSpace(s))
	if err != nil {
		folded = strings.TrimSpace(s)
	}
	return strings.ToLower(folded)
}
