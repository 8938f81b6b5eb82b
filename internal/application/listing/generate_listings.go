package listing

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/Publicador-api/internal/application/dto"
	"github.com/jhoicas/Publicador-api/internal/domain"
	"github.com/jhoicas/Publicador-api/internal/domain/entity"
	domlisting "github.com/jhoicas/Publicador-api/internal/domain/listing"
	"github.com/jhoicas/Publicador-api/internal/domain/repository"
	"github.com/jhoicas/Publicador-api/pkg/logger"
)

// GenerateListingsUseCase orquesta la corrida completa de una categoría:
// pendientes, detección de familias, ensamblado en paralelo, archivo de
// salida y log de asignación. Las unidades de trabajo (un suelto o una
// familia) son independientes entre sí; el paralelismo está acotado por
// workerCount y la cancelación del contexto corta el despacho de unidades
// nuevas sin interrumpir las llamadas en vuelo.
type GenerateListingsUseCase struct {
	items       repository.CatalogItemRepository
	templates   repository.TemplateRepository
	assembler   *Assembler
	writer      RowWriter
	txRunner    ListingTxRunner
	workerCount int
	log         *logger.Logger
}

// NewGenerateListingsUseCase construye el caso de uso.
func NewGenerateListingsUseCase(
	items repository.CatalogItemRepository,
	templates repository.TemplateRepository,
	assembler *Assembler,
	writer RowWriter,
	txRunner ListingTxRunner,
	workerCount int,
	log *logger.Logger,
) *GenerateListingsUseCase {
	if workerCount <= 0 {
		workerCount = 4
	}
	return &GenerateListingsUseCase{
		items:       items,
		templates:   templates,
		assembler:   assembler,
		writer:      writer,
		txRunner:    txRunner,
		workerCount: workerCount,
		log:         log.Component("generate_listings"),
	}
}

// Generate corre el pipeline para una categoría. Solo la falta de
// plantilla aborta la corrida; los productos sin datos se saltan y se
// reportan en SkippedSKUs.
func (uc *GenerateListingsUseCase) Generate(ctx context.Context, in dto.GenerateListingsRequest) (*dto.GenerateListingsResult, error) {
	if strings.TrimSpace(in.Category) == "" {
		return nil, domain.ErrInvalidInput
	}
	categoryName := strings.ToUpper(strings.TrimSpace(in.Category))
	batchID := uuid.New()

	uc.log.Info().Str("categoria", categoryName).Str("batch_id", batchID.String()).Msg("corrida de generación iniciada")

	// Pendientes y filtro por categoría, preservando el orden del feed.
	allPending, err := uc.items.PendingSKUs(ctx)
	if err != nil {
		return nil, err
	}
	if len(allPending) == 0 {
		return nil, domain.ErrNoPendingItems
	}

	categories, err := uc.items.CategoryBySKU(ctx, allPending)
	if err != nil {
		return nil, err
	}
	var pending []string
	for _, sku := range allPending {
		if strings.ToUpper(categories[sku]) == categoryName {
			pending = append(pending, sku)
		}
	}
	if in.Limit > 0 && len(pending) > in.Limit {
		pending = pending[:in.Limit]
	}
	if len(pending) == 0 {
		return nil, domain.ErrNoPendingItems
	}

	// Detección de familias sobre las asociaciones declaradas.
	associations, err := uc.items.AssociationData(ctx, pending)
	if err != nil {
		return nil, err
	}
	standalone, families := domlisting.DetectFamilies(associations)
	uc.log.Info().Int("sueltos", len(standalone)).Int("familias", len(families)).Msg("detección de familias completada")

	// Sin plantilla no hay forma de dar la forma correcta a ninguna fila.
	tpl, err := uc.templates.FindLatestByCategory(ctx, categoryName)
	if err != nil {
		return nil, err
	}
	if tpl == nil {
		return nil, domain.ErrTemplateNotFound
	}

	priorityThemes := in.PriorityThemes
	if len(priorityThemes) == 0 {
		priorityThemes = tpl.PriorityThemes
	}

	// Ensamblado en paralelo. Cada unidad escribe solo su propio índice,
	// así el orden final es estable sin sincronización adicional.
	standaloneRows := make([]entity.ListingRow, len(standalone))
	standaloneLogs := make([]entity.ListingLogEntry, len(standalone))
	standaloneSkipped := make([]bool, len(standalone))
	familyRows := make([][]entity.ListingRow, len(families))
	familyLogs := make([][]entity.ListingLogEntry, len(families))
	familySkipped := make([]bool, len(families))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.workerCount)

	for i, sku := range standalone {
		g.Go(func() error {
			row, logEntry, err := uc.assembler.AssembleStandalone(gctx, sku, batchID, tpl)
			if err != nil {
				if errors.Is(err, domain.ErrMissingData) {
					uc.log.Warn().Str("internal_sku", sku).Msg("suelto sin datos, se salta")
					standaloneSkipped[i] = true
					return nil
				}
				return err
			}
			standaloneRows[i] = row
			standaloneLogs[i] = logEntry
			return nil
		})
	}

	for i, familySKUs := range families {
		g.Go(func() error {
			rows, logs, err := uc.assembler.AssembleFamily(gctx, familySKUs, batchID, tpl, priorityThemes)
			if err != nil {
				if errors.Is(err, domain.ErrMissingData) {
					uc.log.Warn().Strs("internal_skus", familySKUs).Msg("familia sin datos, se salta")
					familySkipped[i] = true
					return nil
				}
				return err
			}
			familyRows[i] = rows
			familyLogs[i] = logs
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Recolección en orden determinista: sueltos primero, luego familias,
	// cada familia contigua con su padre delante de sus hijos.
	var allRows []entity.ListingRow
	var allLogs []entity.ListingLogEntry
	var skipped []string

	for i, sku := range standalone {
		if standaloneSkipped[i] || standaloneRows[i] == nil {
			skipped = append(skipped, sku)
			continue
		}
		allRows = append(allRows, standaloneRows[i])
		allLogs = append(allLogs, standaloneLogs[i])
	}
	familyCount := 0
	for i, familySKUs := range families {
		if familySkipped[i] || len(familyRows[i]) == 0 {
			skipped = append(skipped, familySKUs...)
			continue
		}
		familyCount++
		allRows = append(allRows, familyRows[i]...)
		allLogs = append(allLogs, familyLogs[i]...)
	}

	if len(allRows) == 0 {
		return nil, domain.ErrNoPendingItems
	}

	filePath, err := uc.writer.WriteRows(ctx, categoryName, batchID, allRows, tpl)
	if err != nil {
		return nil, err
	}

	// Todas las entradas del lote se confirman juntas.
	err = uc.txRunner.RunListing(ctx, func(logRepo repository.ListingLogRepository) error {
		return logRepo.BulkUpsert(ctx, allLogs)
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("batch_id", batchID.String()).
		Int("filas", len(allRows)).
		Int("familias", familyCount).
		Str("archivo", filePath).
		Msg("corrida de generación completada")

	return &dto.GenerateListingsResult{
		BatchID:         batchID.String(),
		Category:        categoryName,
		TemplateName:    tpl.TemplateName,
		TotalRows:       len(allRows),
		FamilyCount:     familyCount,
		StandaloneCount: len(standalone) - countTrue(standaloneSkipped),
		SkippedSKUs:     skipped,
		OutputFile:      filePath,
	}, nil
}

func countTrue(flags []bool) int {
	n := 0
	for _, f := range flags {
		if f {
			n++
		}
	}
	return n
}
