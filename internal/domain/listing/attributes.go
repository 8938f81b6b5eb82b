package listing

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// AttributeSignature reduce un mapa de atributos a una firma estable:
// pares "clave:valor" ordenados por clave y unidos con "|". Dos miembros
// de una familia con la misma firma son indistinguibles para el comprador.
func AttributeSignature(attrs map[string]any) string {
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", k, attrs[k]))
	}
	return strings.Join(parts, "|")
}

// AttributesUnique verifica que las combinaciones de atributos sean
// distintas dos a dos entre los miembros. Devuelve false y la primera
// firma repetida si hay colisión.
func AttributesUnique(memberAttrs map[string]map[string]any) (bool, string) {
	seen := make(map[string]bool, len(memberAttrs))
	for _, attrs := range memberAttrs {
		sig := AttributeSignature(attrs)
		if seen[sig] {
			return false, sig
		}
		seen[sig] = true
	}
	return true, ""
}

// FormatAttributes convierte los atributos crudos asignados por el modelo
// en los valores finales de publicación. Todo atributo cuyo nombre contiene
// "size" se redondea al entero más cercano y se convierte en cadena
// (19.88 -> "20"); el resto se serializa tal cual.
func FormatAttributes(memberAttrs map[string]map[string]any) map[string]map[string]string {
	if len(memberAttrs) == 0 {
		return map[string]map[string]string{}
	}

	formatted := make(map[string]map[string]string, len(memberAttrs))
	for sku, attrs := range memberAttrs {
		out := make(map[string]string, len(attrs))
		for key, value := range attrs {
			if strings.Contains(strings.ToLower(key), "size") {
				if rounded, ok := roundToString(value); ok {
					out[key] = rounded
					continue
				}
			}
			out[key] = stringify(value)
		}
		formatted[sku] = out
	}
	return formatted
}

// roundToString intenta interpretar el valor como número y devolverlo
// redondeado al entero más cercano, como cadena.
func roundToString(value any) (string, bool) {
	var f float64
	switch v := value.(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return "", false
		}
		f = parsed
	default:
		return "", false
	}
	return strconv.Itoa(int(math.Round(f))), true
}

// stringify serializa un valor escalar sin notación exponencial para los
// números que llegan como float64 del JSON.
func stringify(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}
