package models

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Category represents the legal foundation of an extracted argument
type Category string

const (
	CategoryPrescription Category = "PRESCRIPTION"
	CategoryLapse        Category = "LAPSE"
	CategoryNullity      Category = "NULLITY"
	CategoryMerit        Category = "MERIT"
	CategoryFormal       Category = "FORMAL"
	CategoryProcedural   Category = "PROCEDURAL"
	CategoryOther        Category = "OTHER"
)

// categoryLabels maps model labels (Portuguese as requested by the prompt, or the
// English names) to categories. Keys are upper-case without diacritics.
var categoryLabels = map[string]Category{
	"PRESCRICAO":   CategoryPrescription,
	"PRESCRIPTION": CategoryPrescription,
	"DECADENCIA":   CategoryLapse,
	"LAPSE":        CategoryLapse,
	"NULIDADE":     CategoryNullity,
	"NULLITY":      CategoryNullity,
	"MERITO":       CategoryMerit,
	"MERIT":        CategoryMerit,
	"FORMAL":       CategoryFormal,
	"PROCESSUAL":   CategoryProcedural,
	"PROCEDURAL":   CategoryProcedural,
	"OUTROS":       CategoryOther,
	"OTHER":        CategoryOther,
}

// ParseCategory resolves a model label to a Category. Matching ignores case,
// surrounding whitespace and accents ("Prescrição" == "PRESCRICAO").
// Unknown labels resolve to CategoryOther.
func ParseCategory(label string) Category {
	key := strings.ToUpper(strings.TrimSpace(foldAccents(label)))
	if category, ok := categoryLabels[key]; ok {
		return category
	}
	return CategoryOther
}

func foldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return folded
}

// Argument represents one legal contention extracted from a defense document
type Argument struct {
	Category   Category `json:"category"`
	LegalBasis string   `json:"legal_basis"`
	Text       string   `json:"text"`
	Evidence   []string `json:"evidence"`
	Relevance  int      `json:"relevance"` // Always within [1,10]
	PageRef    string   `json:"page_ref"`
}
