package listing

import (
	"regexp"
	"strings"
)

var (
	trailingQualifierRe = regexp.MustCompile(`\s*-\s*\w+$`)
	htmlTagRe           = regexp.MustCompile(`<[^>]+>`)
)

// GeneralizeParentTitle adapta el título de un hijo para usarlo como título
// del padre: elimina el sufijo "- <palabra>" final, que en los catálogos de
// proveedor suele ser el color o estilo concreto de la variante.
//
//	"Modern Cabinet - White" -> "Modern Cabinet"
//	"Vanity 24 Inch - Black" -> "Vanity 24 Inch"
func GeneralizeParentTitle(title string) string {
	if title == "" {
		return title
	}
	return trailingQualifierRe.ReplaceAllString(title, "")
}

// StripHTML elimina etiquetas de marcado y colapsa el espacio en blanco.
// Las descripciones de proveedor llegan como HTML y los perfiles que se
// envían al servicio de generación deben ser texto plano.
func StripHTML(s string) string {
	if s == "" {
		return ""
	}
	s = htmlTagRe.ReplaceAllString(s, "")
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
