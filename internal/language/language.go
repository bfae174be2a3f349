package language

import (
	"fmt"
	"strings"

	xlanguage "golang.org/x/text/language"
)

type entry struct {
	code2   string   // ISO 639-1 (2-letter)
	code3   string   // ISO 639-2 primary (3-letter)
	alt3    string   // ISO 639-2 alternate (e.g. "fre" vs "fra")
	display string   // Human-readable name
	words   []string // Full word forms (e.g. "english")
}

var languages = []entry{
	{"ar", "ara", "", "Arabic", []string{"arabic"}},
	{"en", "eng", "", "English", []string{"english"}},
	{"fa", "fas", "per", "Persian", []string{"persian", "farsi"}},
	{"ur", "urd", "", "Urdu", []string{"urdu"}},
	{"tr", "tur", "", "Turkish", []string{"turkish"}},
	{"fr", "fra", "fre", "French", []string{"french"}},
	{"es", "spa", "", "Spanish", []string{"spanish"}},
	{"de", "deu", "ger", "German", []string{"german"}},
	{"id", "ind", "", "Indonesian", []string{"indonesian"}},
	{"ms", "msa", "may", "Malay", []string{"malay"}},
}

var (
	byCode2 map[string]*entry
	byCode3 map[string]*entry
	byWord  map[string]*entry
)

func init() {
	byCode2 = make(map[string]*entry, len(languages))
	byCode3 = make(map[string]*entry, len(languages)*2)
	byWord = make(map[string]*entry, len(languages))
	for i := range languages {
		e := &languages[i]
		byCode2[e.code2] = e
		byCode3[e.code3] = e
		if e.alt3 != "" {
			byCode3[e.alt3] = e
		}
		for _, w := range e.words {
			byWord[w] = e
		}
	}
}

func lookup(code string) *entry {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return nil
	}
	if e, ok := byCode2[code]; ok {
		return e
	}
	if e, ok := byCode3[code]; ok {
		return e
	}
	if e, ok := byWord[code]; ok {
		return e
	}
	return nil
}

// ToISO2 converts any recognized language code or word to ISO 639-1 (2-letter).
// Returns empty string for unrecognized input.
// If the input is already a 2-letter code (even if unknown), it passes through.
func ToISO2(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return ""
	}
	if e := lookup(code); e != nil {
		return e.code2
	}
	if len(code) == 2 {
		return code
	}
	return ""
}

// DisplayName returns a human-readable language name for any recognized code.
// Returns "Unknown" for empty input, or the uppercased code for unrecognized input.
func DisplayName(code string) string {
	if strings.TrimSpace(code) == "" {
		return "Unknown"
	}
	if e := lookup(code); e != nil {
		return e.display
	}
	if tag, err := xlanguage.Parse(strings.TrimSpace(code)); err == nil {
		if e := lookup(baseCode(tag)); e != nil {
			return e.display
		}
	}
	return strings.ToUpper(strings.TrimSpace(code))
}

// WhisperCode resolves a configured language value into the two-letter code
// passed to Whisper's --language flag. BCP 47 tags keep only their base
// language; region and script subtags are dropped.
func WhisperCode(value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", fmt.Errorf("language: empty value")
	}
	if e := lookup(trimmed); e != nil {
		return e.code2, nil
	}
	tag, err := xlanguage.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("language: parse %q: %w", trimmed, err)
	}
	code := baseCode(tag)
	if len(code) != 2 {
		if mapped := ToISO2(code); mapped != "" {
			return mapped, nil
		}
		return "", fmt.Errorf("language: %q has no two-letter code", trimmed)
	}
	return code, nil
}

func baseCode(tag xlanguage.Tag) string {
	base, confidence := tag.Base()
	if confidence == xlanguage.No {
		return ""
	}
	return strings.ToLower(base.String())
}
