package listing

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/jhoicas/Publicador-api/internal/application/ports"
	"github.com/jhoicas/Publicador-api/internal/domain/entity"
	"github.com/jhoicas/Publicador-api/internal/domain/repository"
)

// fakeLLM devuelve respuestas programadas y cuenta las llamadas.
type fakeLLM struct {
	mu sync.Mutex

	enrichResult map[string]any
	enrichErr    error
	enrichCalls  int
	lastTasks    []ports.EnrichmentTask

	themeResults []*ports.ThemeAssignment
	themeErrs    []error
	themeCalls   int
	lastRequests []ports.ThemeRequest
}

func (f *fakeLLM) EnrichProductAttributes(_ context.Context, _ ports.ProductProfile, tasks []ports.EnrichmentTask) (map[string]any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.enrichCalls++
	f.lastTasks = tasks
	return f.enrichResult, f.enrichErr
}

func (f *fakeLLM) DetermineVariationTheme(_ context.Context, req ports.ThemeRequest) (*ports.ThemeAssignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastRequests = append(f.lastRequests, req)
	call := f.themeCalls
	f.themeCalls++
	var result *ports.ThemeAssignment
	var err error
	if call < len(f.themeResults) {
		result = f.themeResults[call]
	}
	if call < len(f.themeErrs) {
		err = f.themeErrs[call]
	}
	return result, err
}

// fakeItemRepo sirve productos desde un mapa en memoria.
type fakeItemRepo struct {
	pending      []string
	categories   map[string]string
	associations []entity.AssociationRecord
	items        map[string]*entity.CatalogItem
	err          error
}

func (f *fakeItemRepo) PendingSKUs(context.Context) ([]string, error) {
	return f.pending, f.err
}

func (f *fakeItemRepo) CategoryBySKU(context.Context, []string) (map[string]string, error) {
	return f.categories, f.err
}

func (f *fakeItemRepo) AssociationData(_ context.Context, skus []string) ([]entity.AssociationRecord, error) {
	wanted := make(map[string]bool, len(skus))
	for _, sku := range skus {
		wanted[sku] = true
	}
	var out []entity.AssociationRecord
	for _, rec := range f.associations {
		if wanted[rec.InternalSKU] {
			out = append(out, rec)
		}
	}
	return out, f.err
}

func (f *fakeItemRepo) FullItem(_ context.Context, internalSKU string) (*entity.CatalogItem, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.items[internalSKU], nil
}

// fakeTemplateRepo sirve una sola plantilla.
type fakeTemplateRepo struct {
	tpl *entity.CategoryTemplate
	err error
}

func (f *fakeTemplateRepo) Save(context.Context, *entity.CategoryTemplate) (int64, error) {
	return 1, f.err
}

func (f *fakeTemplateRepo) FindLatestByCategory(context.Context, string) (*entity.CategoryTemplate, error) {
	return f.tpl, f.err
}

func (f *fakeTemplateRepo) LatestPriorityThemes(context.Context, string) ([]string, error) {
	if f.tpl == nil {
		return nil, f.err
	}
	return f.tpl.PriorityThemes, f.err
}

func (f *fakeTemplateRepo) UpdateFieldDefinitions(context.Context, int64, map[string]entity.FieldDefinition) error {
	return f.err
}

// fakeLogRepo acumula las entradas en memoria.
type fakeLogRepo struct {
	mu      sync.Mutex
	entries []entity.ListingLogEntry
	err     error
}

func (f *fakeLogRepo) BulkUpsert(_ context.Context, entries []entity.ListingLogEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.entries = append(f.entries, entries...)
	return nil
}

func (f *fakeLogRepo) FindByBatch(_ context.Context, batchID uuid.UUID) ([]entity.ListingLogEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entity.ListingLogEntry
	for _, e := range f.entries {
		if e.BatchID == batchID {
			out = append(out, e)
		}
	}
	return out, f.err
}

// fakeTxRunner ejecuta el callback directamente sobre el repo dado.
type fakeTxRunner struct {
	logRepo repository.ListingLogRepository
}

func (f *fakeTxRunner) RunListing(ctx context.Context, fn func(repository.ListingLogRepository) error) error {
	return fn(f.logRepo)
}

// fakeWriter registra lo escrito y devuelve una ruta fija.
type fakeWriter struct {
	mu       sync.Mutex
	rows     []entity.ListingRow
	category string
	err      error
}

func (f *fakeWriter) WriteRows(_ context.Context, categoryName string, _ uuid.UUID, rows []entity.ListingRow, _ *entity.CategoryTemplate) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	f.category = categoryName
	f.rows = rows
	return "output/listing_test.xlsm", nil
}
