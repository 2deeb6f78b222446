package arabic

import "strings"

// defectiveStems are words, in normalized form, whose standard spelling
// leaves out the long alef that Uthmani script writes as a superscript alef.
var defectiveStems = map[string]bool{
	"الرحمن": true,
	"رحمن":   true,
	"الله":   true,
	"لله":    true,
	"اللهم":  true,
	"اله":    true,
	"هذا":    true,
	"هذه":    true,
	"هذان":   true,
	"هذين":   true,
	"هكذا":   true,
	"ذلك":    true,
	"ذلكم":   true,
	"ذلكما":  true,
	"لكن":    true,
	"اوليك":  true,
	"هؤلاء":  true,
}

// Proclitics and pronoun suffixes that may surround a defective stem.
var (
	stemPrefixes = []string{"", "و", "ف", "ب", "ل", "ك", "لل", "وب", "ول", "وك", "فب", "فل"}
	stemSuffixes = []string{"", "ه", "ها", "هم", "هما", "هن", "ك", "كم", "كما", "كن", "نا", "ني", "ي", "ا"}
)

// resolveDaggers decides, word by word, what every superscript alef
// becomes:
//   - nothing in a word with a defective standard spelling (ذَٰلِكَ, هَٰذَا);
//   - nothing after yeh or alef maksura (عَلَىٰ);
//   - a long alef replacing its waw seat before taa marbuta (ٱلصَّلَوٰةِ),
//     or nothing with the seat dropped before a written alef (ٱلرِّبَوٰا۟);
//   - a plain alef everywhere else (ٱلْكِتَٰبُ, ٱلسَّمَٰوَٰتِ).
func resolveDaggers(units []unit) []unit {
	if !hasDagger(units) {
		return units
	}

	out := make([]unit, 0, len(units))
	for i := 0; i < len(units); {
		if units[i].space() {
			out = append(out, units[i])
			i++
			continue
		}

		j := i
		for j < len(units) && !units[j].space() {
			j++
		}
		out = resolveWord(out, units[i:j])
		i = j
	}

	return out
}

func resolveWord(out, word []unit) []unit {
	if !hasDagger(word) {
		return append(out, word...)
	}

	if defective(word) {
		for _, u := range word {
			if !u.dagger {
				out = append(out, u)
			}
		}
		return out
	}

	for k, u := range word {
		if !u.dagger {
			out = append(out, u)
			continue
		}

		// A dagger is only emitted right after its carrier letter.
		carrier := &out[len(out)-1]

		var next rune
		if k+1 < len(word) {
			next = word[k+1].r
		}

		switch {
		case carrier.r == 'ي':
			continue
		case carrier.r == 'و' && (next == 'ه' || next == 0):
			carrier.r = 'ا'
			continue
		case carrier.r == 'و' && next == 'ا':
			out = out[:len(out)-1]
			continue
		}

		u.dagger = false
		out = append(out, u)
	}

	return out
}

func hasDagger(units []unit) bool {
	for _, u := range units {
		if u.dagger {
			return true
		}
	}
	return false
}

// defective reports whether the word without its superscript alefs is a
// defective stem with optional proclitics and a pronoun suffix.
func defective(word []unit) bool {
	var sb strings.Builder
	for _, u := range word {
		if !u.dagger {
			sb.WriteRune(u.r)
		}
	}
	w := sb.String()

	for _, p := range stemPrefixes {
		if !strings.HasPrefix(w, p) {
			continue
		}
		rest := w[len(p):]
		for _, s := range stemSuffixes {
			if len(rest) > len(s) && strings.HasSuffix(rest, s) && defectiveStems[rest[:len(rest)-len(s)]] {
				return true
			}
		}
	}

	return false
}
