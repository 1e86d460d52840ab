package lemma

import "strings"

// Czech inflection suffixes by the minimum word length (in runes) at which
// they may be removed. Longer suffixes are tried first.
var czechCaseSuffixes = []struct {
	minLen   int
	suffixes []string
}{
	{8, []string{"atech"}},
	{7, []string{"ětem", "etem", "atům"}},
	{6, []string{
		"ech", "ich", "ích", "ého", "ěmi", "emi", "ému", "ěte", "ete", "ěti", "eti",
		"ího", "iho", "ími", "ímu", "imu", "ách", "ata", "aty", "ých", "ama", "ami",
		"ové", "ovi", "ými",
	}},
	{5, []string{"em", "es", "ém", "ím", "ům", "at", "ám", "os", "us", "ým", "mi", "ou"}},
}

const czechVowels = "aeiouůyáéíýě"

// stemCzech strips case and possessive endings from a lower-case Czech form
// and undoes the common consonant alternations, so that the inflections of one
// noun or adjective share a stem:
//
//	politika, politiky, politice → politik
//	koloniální, koloniálním → koloniáln
//	Praha, Praze → prah
//
// Irregular forms (suppletion, vowel changes) are left to the lemma tables.
func stemCzech(token string) string {
	r := []rune(token)
	r = r[:czechCaseEnd(r)]
	if len(r) > 5 {
		for _, s := range []string{"ov", "in", "ův"} {
			if strings.HasSuffix(string(r), s) {
				r = r[:len(r)-2]
				break
			}
		}
	}
	if len(r) == 0 {
		return token
	}
	return string(czechNormalize(r))
}

// czechNormalize maps alternating final consonants back to one form:
// čt→ck, št→sk, c/č→k, z/ž→h, drops a fleeting e before the final
// consonant and turns a ů before it into o.
func czechNormalize(r []rune) []rune {
	n := len(r)
	if n >= 2 {
		switch string(r[n-2:]) {
		case "čt":
			return append(r[:n-2], 'c', 'k')
		case "št":
			return append(r[:n-2], 's', 'k')
		}
	}
	switch r[n-1] {
	case 'c', 'č':
		r[n-1] = 'k'
		return r
	case 'z', 'ž':
		r[n-1] = 'h'
		return r
	}
	if n > 1 && r[n-2] == 'e' {
		r[n-2] = r[n-1]
		return r[:n-1]
	}
	if n > 2 && r[n-2] == 'ů' {
		r[n-2] = 'o'
	}
	return r
}

func czechCaseEnd(r []rune) int {
	word := string(r)
	for _, group := range czechCaseSuffixes {
		if len(r) < group.minLen {
			continue
		}
		for _, s := range group.suffixes {
			if strings.HasSuffix(word, s) {
				return len(r) - len([]rune(s))
			}
		}
	}
	if len(r) > 3 && strings.ContainsRune(czechVowels, r[len(r)-1]) {
		return len(r) - 1
	}
	return len(r)
}
