package listing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Publicador-api/internal/application/dto"
	"github.com/jhoicas/Publicador-api/internal/application/ports"
	"github.com/jhoicas/Publicador-api/internal/domain"
	"github.com/jhoicas/Publicador-api/internal/domain/entity"
	"github.com/jhoicas/Publicador-api/pkg/logger"
)

func pipelineItemRepo() *fakeItemRepo {
	return &fakeItemRepo{
		pending: []string{"INT-A", "INT-B", "INT-C", "INT-D"},
		categories: map[string]string{
			"INT-A": "Cabinet",
			"INT-B": "Cabinet",
			"INT-C": "Cabinet",
			"INT-D": "HOME_MIRROR",
		},
		associations: []entity.AssociationRecord{
			{InternalSKU: "INT-A", VendorSKU: "VEN-A", Associates: []string{"VEN-B"}},
			{InternalSKU: "INT-B", VendorSKU: "VEN-B", Associates: []string{}},
			{InternalSKU: "INT-C", VendorSKU: "VEN-C", Associates: []string{}},
		},
		items: assemblerItems(),
	}
}

func newPipeline(itemRepo *fakeItemRepo, tplRepo *fakeTemplateRepo, llm *fakeLLM, writer *fakeWriter, logRepo *fakeLogRepo) *GenerateListingsUseCase {
	engine := NewMappingEngine(assemblerRules(), nil, nil, logger.Nop())
	resolver := NewThemeResolver(llm, time.Second, logger.Nop())
	asm := NewAssembler(engine, resolver, itemRepo, logger.Nop())
	return NewGenerateListingsUseCase(itemRepo, tplRepo, asm, writer, &fakeTxRunner{logRepo: logRepo}, 2, logger.Nop())
}

func TestGenerate_CorridaCompleta(t *testing.T) {
	llm := &fakeLLM{
		themeResults: []*ports.ThemeAssignment{{
			Theme: "Color",
			MemberAttributes: map[string]map[string]any{
				"INT-A": {"color_name": "White"},
				"INT-B": {"color_name": "Black"},
			},
		}},
	}
	writer := &fakeWriter{}
	logRepo := &fakeLogRepo{}
	uc := newPipeline(pipelineItemRepo(), &fakeTemplateRepo{tpl: testTemplate()}, llm, writer, logRepo)

	result, err := uc.Generate(context.Background(), dto.GenerateListingsRequest{Category: "cabinet"})
	require.NoError(t, err)

	// INT-D es de otra categoría; INT-A e INT-B forman familia; INT-C suelto.
	assert.Equal(t, "CABINET", result.Category)
	assert.Equal(t, 4, result.TotalRows, "1 suelto + padre + 2 hijos")
	assert.Equal(t, 1, result.FamilyCount)
	assert.Equal(t, 1, result.StandaloneCount)
	assert.Empty(t, result.SkippedSKUs)
	assert.Equal(t, "output/listing_test.xlsm", result.OutputFile)

	require.Len(t, writer.rows, 4)
	assert.Equal(t, "INT-C", writer.rows[0][entity.FieldSKU], "los sueltos van primero, en orden del feed")
	assert.Equal(t, entity.ParentageParent, writer.rows[1][entity.FieldParentageLevel], "cada familia contigua, padre delante")
	assert.Equal(t, "INT-A", writer.rows[2][entity.FieldSKU])
	assert.Equal(t, "INT-B", writer.rows[3][entity.FieldSKU])

	require.Len(t, logRepo.entries, 3, "una entrada de log por producto")
	bySKU := map[string]entity.ListingLogEntry{}
	for _, e := range logRepo.entries {
		bySKU[e.InternalSKU] = e
	}
	assert.Equal(t, entity.ParentSKUStandalone, bySKU["INT-C"].ParentSKU)
	assert.Equal(t, bySKU["INT-A"].ParentSKU, bySKU["INT-B"].ParentSKU, "los miembros comparten el padre sintético")
	assert.Equal(t, result.BatchID, bySKU["INT-A"].BatchID.String())
}

func TestGenerate_SinPlantillaAborta(t *testing.T) {
	uc := newPipeline(pipelineItemRepo(), &fakeTemplateRepo{}, &fakeLLM{}, &fakeWriter{}, &fakeLogRepo{})

	_, err := uc.Generate(context.Background(), dto.GenerateListingsRequest{Category: "CABINET"})
	assert.ErrorIs(t, err, domain.ErrTemplateNotFound, "sin plantilla la corrida entera debe abortar")
}

func TestGenerate_SinPendientes(t *testing.T) {
	repo := pipelineItemRepo()
	repo.pending = nil
	uc := newPipeline(repo, &fakeTemplateRepo{tpl: testTemplate()}, &fakeLLM{}, &fakeWriter{}, &fakeLogRepo{})

	_, err := uc.Generate(context.Background(), dto.GenerateListingsRequest{Category: "CABINET"})
	assert.ErrorIs(t, err, domain.ErrNoPendingItems)
}

func TestGenerate_CategoriaSinPendientes(t *testing.T) {
	uc := newPipeline(pipelineItemRepo(), &fakeTemplateRepo{tpl: testTemplate()}, &fakeLLM{}, &fakeWriter{}, &fakeLogRepo{})

	_, err := uc.Generate(context.Background(), dto.GenerateListingsRequest{Category: "SOFA"})
	assert.ErrorIs(t, err, domain.ErrNoPendingItems)
}

func TestGenerate_CategoriaVacia(t *testing.T) {
	uc := newPipeline(pipelineItemRepo(), &fakeTemplateRepo{tpl: testTemplate()}, &fakeLLM{}, &fakeWriter{}, &fakeLogRepo{})

	_, err := uc.Generate(context.Background(), dto.GenerateListingsRequest{Category: "  "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGenerate_SKUSinDatosSeReporta(t *testing.T) {
	repo := pipelineItemRepo()
	delete(repo.items, "INT-C")
	llm := &fakeLLM{
		themeResults: []*ports.ThemeAssignment{{
			Theme: "Color",
			MemberAttributes: map[string]map[string]any{
				"INT-A": {"color_name": "White"},
				"INT-B": {"color_name": "Black"},
			},
		}},
	}
	writer := &fakeWriter{}
	uc := newPipeline(repo, &fakeTemplateRepo{tpl: testTemplate()}, llm, writer, &fakeLogRepo{})

	result, err := uc.Generate(context.Background(), dto.GenerateListingsRequest{Category: "CABINET"})
	require.NoError(t, err)

	assert.Equal(t, []string{"INT-C"}, result.SkippedSKUs, "el SKU sin datos se reporta, no aborta")
	assert.Equal(t, 3, result.TotalRows)
	assert.Equal(t, 0, result.StandaloneCount)
}

func TestGenerate_TemasPreferidosDelRequestGanan(t *testing.T) {
	tpl := testTemplate()
	tpl.PriorityThemes = []string{"Size"}
	llm := &fakeLLM{
		themeResults: []*ports.ThemeAssignment{{
			Theme: "Color",
			MemberAttributes: map[string]map[string]any{
				"INT-A": {"color_name": "White"},
				"INT-B": {"color_name": "Black"},
			},
		}},
	}
	uc := newPipeline(pipelineItemRepo(), &fakeTemplateRepo{tpl: tpl}, llm, &fakeWriter{}, &fakeLogRepo{})

	_, err := uc.Generate(context.Background(), dto.GenerateListingsRequest{
		Category:       "CABINET",
		PriorityThemes: []string{"Color"},
	})
	require.NoError(t, err)

	require.NotEmpty(t, llm.lastRequests)
	assert.Equal(t, []string{"Color"}, llm.lastRequests[0].PriorityThemes,
		"los temas del request pesan más que los guardados con la plantilla")
}

func TestGenerate_Limite(t *testing.T) {
	repo := pipelineItemRepo()
	uc := newPipeline(repo, &fakeTemplateRepo{tpl: testTemplate()}, &fakeLLM{}, &fakeWriter{}, &fakeLogRepo{})

	result, err := uc.Generate(context.Background(), dto.GenerateListingsRequest{Category: "CABINET", Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, result.TotalRows, "el límite recorta los pendientes antes de la detección")
}
