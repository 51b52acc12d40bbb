package leaderboard

import "fmt"

// StyleControl is the style-control axis of a leaderboard variant.
// Arena publishes text and vision rankings both with and without the
// style-control adjustment; the image board has no such axis.
type StyleControl int

const (
	StyleControlAbsent StyleControl = iota
	StyleControlOn
	StyleControlOff
)

// Variant is one output file: a modality plus a style-control setting,
// covering a fixed set of ranked categories.
type Variant struct {
	Name         string
	Modality     string
	StyleControl StyleControl
	// output file key -> arena category slug
	Categories map[string]string
}

func (v Variant) File() string {
	return fmt.Sprintf("leaderboard-%s.json", v.Name)
}

// LeaderboardPath builds the arena page path for one category of this
// variant. Pages are style-controlled by default; the no-style-control
// rankings live under a suffixed slug.
func (v Variant) LeaderboardPath(slug string) string {
	if v.StyleControl == StyleControlOff {
		return fmt.Sprintf("/leaderboard/%s/%s-no-style-control", v.Modality, slug)
	}
	return fmt.Sprintf("/leaderboard/%s/%s", v.Modality, slug)
}

var textCategorySlugs = map[string]string{
	"chinese":          "chinese",
	"coding":           "coding",
	"creative_writing": "creative-writing",
	"english":          "english",
	"expert":           "expert",
	"french":           "french",
	"full":             "overall",
	"german":           "german",
	"hard_6":           "hard-prompts",
	"hard_english_6":   "hard-prompts-english",
	"if":               "instruction-following",
	"industry_business_and_management_and_financial_operations": "industry-business-and-management-and-financial-operations",
	"industry_entertainment_and_sports_and_media":               "industry-entertainment-and-sports-and-media",
	"industry_legal_and_government":                             "industry-legal-and-government",
	"industry_life_and_physical_and_social_science":             "industry-life-and-physical-and-social-science",
	"industry_mathematical":                                     "industry-mathematical",
	"industry_medicine_and_healthcare":                          "industry-medicine-and-healthcare",
	"industry_software_and_it_services":                         "industry-software-and-it-services",
	"industry_writing_and_literature_and_language":              "industry-writing-and-literature-and-language",
	"japanese":  "japanese",
	"korean":    "korean",
	"long_user": "longer-query",
	"math":      "math",
	"multiturn": "multi-turn",
	"no_tie":    "exclude-ties",
	"russian":   "russian",
	"spanish":   "spanish",
}

var visionCategorySlugs = map[string]string{
	"captioning":              "captioning",
	"chinese":                 "chinese",
	"creative_writing_vision": "creative-writing",
	"diagram":                 "diagram",
	"english":                 "english",
	"entity_recognition":      "entity-recognition",
	"full":                    "overall",
	"homework":                "homework",
	"humor":                   "humor",
	"ocr":                     "ocr",
}

var imageCategorySlugs = map[string]string{
	"full": "overall",
}

// DefaultVariants lists the five published output files.
func DefaultVariants() []Variant {
	return []Variant{
		{
			Name:         "text",
			Modality:     "text",
			StyleControl: StyleControlOff,
			Categories:   textCategorySlugs,
		},
		{
			Name:         "text-style-control",
			Modality:     "text",
			StyleControl: StyleControlOn,
			Categories:   textCategorySlugs,
		},
		{
			Name:         "vision",
			Modality:     "vision",
			StyleControl: StyleControlOff,
			Categories:   visionCategorySlugs,
		},
		{
			Name:         "vision-style-control",
			Modality:     "vision",
			StyleControl: StyleControlOn,
			Categories:   visionCategorySlugs,
		},
		{
			Name:         "image",
			Modality:     "text-to-image",
			StyleControl: StyleControlAbsent,
			Categories:   imageCategorySlugs,
		},
	}
}

// SelectVariants filters the default variants down to the given names,
// returning an error naming any unknown selection.
func SelectVariants(names []string) ([]Variant, error) {
	all := DefaultVariants()
	if len(names) == 0 {
		return all, nil
	}

	byName := map[string]Variant{}
	for _, v := range all {
		byName[v.Name] = v
	}

	var selected []Variant
	for _, name := range names {
		v, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("unknown leaderboard variant: %s", name)
		}
		selected = append(selected, v)
	}
	return selected, nil
}
