package listing

import (
	"regexp"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// FuzzyCutoff es el umbral de similitud para el empate difuso contra un
// vocabulario controlado. Valor heredado de la operación: por debajo de
// 0.9 el riesgo de elegir un valor equivocado supera al de dejar el
// original sin alinear.
const FuzzyCutoff = 0.9

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	foldCaser    = cases.Fold()
)

// NormalizeText deja un valor en forma canónica para comparar: NFKC,
// case folding Unicode, espacios internos colapsados y "-"/"_" tratados
// como espacio simple.
func NormalizeText(s string) string {
	s = norm.NFKC.String(s)
	s = foldCaser.String(s)
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// MatchVocabulary alinea un valor candidato a la entrada más cercana de un
// vocabulario controlado. Prueba en orden: empate exacto, empate
// normalizado y empate difuso con corte FuzzyCutoff. Devuelve la entrada
// del vocabulario con su casing canónico y true, o el valor original y
// false si nada supera el corte (no es un error).
func MatchVocabulary(value string, vocabulary []string) (string, bool) {
	if value == "" || len(vocabulary) == 0 {
		return value, false
	}

	for _, candidate := range vocabulary {
		if candidate == value {
			return candidate, true
		}
	}

	normValue := NormalizeText(value)
	for _, candidate := range vocabulary {
		if NormalizeText(candidate) == normValue {
			return candidate, true
		}
	}

	best := ""
	bestRatio := 0.0
	for _, candidate := range vocabulary {
		ratio := similarity(normValue, NormalizeText(candidate))
		if ratio > bestRatio {
			bestRatio = ratio
			best = candidate
		}
	}
	if bestRatio >= FuzzyCutoff {
		return best, true
	}
	return value, false
}

// similarity calcula el ratio de similitud entre dos cadenas con el
// SequenceMatcher de difflib (2*M/T sobre caracteres), el mismo criterio
// que usa el corte FuzzyCutoff.
func similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	if a == "" || b == "" {
		return 0.0
	}
	matcher := difflib.NewMatcher(strings.Split(a, ""), strings.Split(b, ""))
	return matcher.Ratio()
}
