package listing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Publicador-api/internal/domain/listing"
)

func TestAttributeSignature_OrdenaPorClave(t *testing.T) {
	a := listing.AttributeSignature(map[string]any{"size_name": "36", "color_name": "White"})
	b := listing.AttributeSignature(map[string]any{"color_name": "White", "size_name": "36"})
	assert.Equal(t, a, b, "la firma no depende del orden de inserción")
	assert.Equal(t, "color_name:White|size_name:36", a)
}

func TestAttributesUnique(t *testing.T) {
	unique, _ := listing.AttributesUnique(map[string]map[string]any{
		"SKU-1": {"color_name": "White", "size_name": "36"},
		"SKU-2": {"color_name": "Black", "size_name": "36"},
	})
	assert.True(t, unique)

	unique, sig := listing.AttributesUnique(map[string]map[string]any{
		"SKU-1": {"color_name": "White"},
		"SKU-2": {"color_name": "White"},
	})
	assert.False(t, unique)
	assert.Equal(t, "color_name:White", sig)
}

func TestFormatAttributes_RedondeaTamanos(t *testing.T) {
	formatted := listing.FormatAttributes(map[string]map[string]any{
		"SKU-1": {"size_name": 19.88, "color_name": "White"},
		"SKU-2": {"size_name": "23.4", "color_name": "Black"},
	})

	require.Contains(t, formatted, "SKU-1")
	assert.Equal(t, "20", formatted["SKU-1"]["size_name"], "19.88 redondea a 20")
	assert.Equal(t, "White", formatted["SKU-1"]["color_name"], "los atributos sin 'size' pasan tal cual")
	assert.Equal(t, "23", formatted["SKU-2"]["size_name"], "23.4 redondea a 23")
}

func TestFormatAttributes_TamanoNoNumericoSeConserva(t *testing.T) {
	formatted := listing.FormatAttributes(map[string]map[string]any{
		"SKU-1": {"size_name": "King"},
	})
	assert.Equal(t, "King", formatted["SKU-1"]["size_name"])
}

func TestFormatAttributes_NumerosSinNotacionExponencial(t *testing.T) {
	formatted := listing.FormatAttributes(map[string]map[string]any{
		"SKU-1": {"capacity": 1200000.0},
	})
	assert.Equal(t, "1200000", formatted["SKU-1"]["capacity"])
}

func TestFormatAttributes_Vacio(t *testing.T) {
	assert.Empty(t, listing.FormatAttributes(nil))
}
