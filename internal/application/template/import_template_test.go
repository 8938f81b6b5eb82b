package template

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Publicador-api/internal/application/dto"
	"github.com/jhoicas/Publicador-api/internal/domain"
	"github.com/jhoicas/Publicador-api/internal/domain/entity"
	"github.com/jhoicas/Publicador-api/pkg/logger"
)

type fakeParser struct {
	parsed *ParsedTemplate
	err    error
}

func (f *fakeParser) ParseFile(string) (*ParsedTemplate, error) {
	return f.parsed, f.err
}

type fakeReportParser struct {
	fields []string
	err    error
}

func (f *fakeReportParser) RequiredFields(string) ([]string, error) {
	return f.fields, f.err
}

type fakeRepo struct {
	saved       *entity.CategoryTemplate
	latest      *entity.CategoryTemplate
	savedThemes []string
	updatedDefs map[string]entity.FieldDefinition
	updatedID   int64
}

func (f *fakeRepo) Save(_ context.Context, tpl *entity.CategoryTemplate) (int64, error) {
	f.saved = tpl
	return 7, nil
}

func (f *fakeRepo) FindLatestByCategory(context.Context, string) (*entity.CategoryTemplate, error) {
	return f.latest, nil
}

func (f *fakeRepo) LatestPriorityThemes(context.Context, string) ([]string, error) {
	return f.savedThemes, nil
}

func (f *fakeRepo) UpdateFieldDefinitions(_ context.Context, id int64, defs map[string]entity.FieldDefinition) error {
	f.updatedID = id
	f.updatedDefs = defs
	return nil
}

func parsedFixture() *ParsedTemplate {
	return &ParsedTemplate{
		Fields: []string{"SKU", "Item Name", "Color", "Size", "Material Type"},
		FieldDefinitions: map[string]entity.FieldDefinition{
			"SKU":   {FieldName: "SKU", LocalLabel: "Seller SKU"},
			"Color": {FieldName: "Color", LocalLabel: "Colour"},
		},
		ValidValues: []entity.VocabularyGroup{
			{Attribute: entity.VariationThemeAttribute, Values: []string{"Color", "Size", "Color/Size"}},
			{Attribute: "Color", Values: []string{"White", "Black"}},
		},
	}
}

func TestImport_GeneraMapeoDeVariacion(t *testing.T) {
	repo := &fakeRepo{}
	uc := NewImportTemplateUseCase(&fakeParser{parsed: parsedFixture()}, repo, logger.Nop())

	result, err := uc.Import(context.Background(), dto.ImportTemplateRequest{
		CategoryName: "cabinet",
		FilePath:     "template_files/cabinet_template.xlsm",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(7), result.TemplateID)
	assert.Equal(t, "CABINET", result.CategoryName)
	assert.Equal(t, "cabinet_template.xlsm", result.TemplateName)
	assert.Equal(t, []string{"Color", "Size", "Color/Size"}, result.VariationThemes)

	require.NotNil(t, repo.saved)
	assert.Equal(t, map[string]string{
		"color_name": "Color",
		"size_name":  "Size",
	}, repo.saved.VariationMapping,
		"Material Type existe en la plantilla pero no es parte de ningún tema")
}

func TestImport_PrecedenciaDeTemasPreferidos(t *testing.T) {
	// Request gana sobre historial.
	repo := &fakeRepo{savedThemes: []string{"SIZE"}}
	uc := NewImportTemplateUseCase(&fakeParser{parsed: parsedFixture()}, repo, logger.Nop())

	_, err := uc.Import(context.Background(), dto.ImportTemplateRequest{
		CategoryName:   "CABINET",
		FilePath:       "tpl.xlsm",
		PriorityThemes: []string{"color/size", " color "},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"COLOR/SIZE", "COLOR"}, repo.saved.PriorityThemes)

	// Historial gana sobre el default.
	repo = &fakeRepo{savedThemes: []string{"SIZE"}}
	uc = NewImportTemplateUseCase(&fakeParser{parsed: parsedFixture()}, repo, logger.Nop())
	_, err = uc.Import(context.Background(), dto.ImportTemplateRequest{CategoryName: "CABINET", FilePath: "tpl.xlsm"})
	require.NoError(t, err)
	assert.Equal(t, []string{"SIZE"}, repo.saved.PriorityThemes)

	// Sin request ni historial, default del sistema.
	repo = &fakeRepo{}
	uc = NewImportTemplateUseCase(&fakeParser{parsed: parsedFixture()}, repo, logger.Nop())
	_, err = uc.Import(context.Background(), dto.ImportTemplateRequest{CategoryName: "CABINET", FilePath: "tpl.xlsm"})
	require.NoError(t, err)
	assert.Equal(t, defaultPriorityThemes, repo.saved.PriorityThemes)
}

func TestImport_EntradaInvalida(t *testing.T) {
	uc := NewImportTemplateUseCase(&fakeParser{parsed: parsedFixture()}, &fakeRepo{}, logger.Nop())

	_, err := uc.Import(context.Background(), dto.ImportTemplateRequest{CategoryName: "", FilePath: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Import(context.Background(), dto.ImportTemplateRequest{CategoryName: "CABINET", FilePath: ""})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCorrectFromReport(t *testing.T) {
	latest := &entity.CategoryTemplate{
		ID:           3,
		CategoryName: "CABINET",
		FieldDefinitions: map[string]entity.FieldDefinition{
			"Color": {FieldName: "Color", LocalLabel: "Colour", RequiredChild: "Optional", RequiredSingle: "Optional"},
			"Size":  {FieldName: "Size", LocalLabel: "Size", RequiredChild: "Required", RequiredSingle: "Required"},
		},
	}
	repo := &fakeRepo{latest: latest}
	uc := NewCorrectRulesUseCase(&fakeReportParser{fields: []string{"Colour", "Size", "Unknown Label"}}, repo, logger.Nop())

	corrected, err := uc.CorrectFromReport(context.Background(), "CABINET", "report.xlsm")
	require.NoError(t, err)

	assert.Equal(t, []string{"Colour"}, corrected, "solo los campos que no eran Required cuentan como corregidos")
	assert.Equal(t, int64(3), repo.updatedID)
	assert.Equal(t, "Required", repo.updatedDefs["Color"].RequiredChild)
	assert.Equal(t, "Required", repo.updatedDefs["Color"].RequiredSingle)
}

func TestCorrectFromReport_SinFaltantes(t *testing.T) {
	repo := &fakeRepo{latest: &entity.CategoryTemplate{ID: 1, FieldDefinitions: map[string]entity.FieldDefinition{}}}
	uc := NewCorrectRulesUseCase(&fakeReportParser{}, repo, logger.Nop())

	corrected, err := uc.CorrectFromReport(context.Background(), "CABINET", "report.xlsm")
	require.NoError(t, err)
	assert.Empty(t, corrected)
	assert.Nil(t, repo.updatedDefs, "sin faltantes no debe tocar la base")
}

func TestCorrectFromReport_SinPlantilla(t *testing.T) {
	uc := NewCorrectRulesUseCase(&fakeReportParser{fields: []string{"Colour"}}, &fakeRepo{}, logger.Nop())

	_, err := uc.CorrectFromReport(context.Background(), "CABINET", "report.xlsm")
	assert.ErrorIs(t, err, domain.ErrTemplateNotFound)
}
