package listing

import (
	"context"

	"github.com/google/uuid"

	"github.com/jhoicas/Publicador-api/internal/application/dto"
	"github.com/jhoicas/Publicador-api/internal/domain"
	"github.com/jhoicas/Publicador-api/internal/domain/repository"
)

// LogQueryUseCase consulta el log de asignación por lote.
type LogQueryUseCase struct {
	logs repository.ListingLogRepository
}

// NewLogQueryUseCase construye el caso de uso.
func NewLogQueryUseCase(logs repository.ListingLogRepository) *LogQueryUseCase {
	return &LogQueryUseCase{logs: logs}
}

// ByBatch devuelve las entradas de un lote de generación.
func (uc *LogQueryUseCase) ByBatch(ctx context.Context, batchID string) ([]dto.ListingLogResponse, error) {
	id, err := uuid.Parse(batchID)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}
	entries, err := uc.logs.FindByBatch(ctx, id)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ListingLogResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.ListingLogResponse{
			InternalSKU: e.InternalSKU,
			ParentSKU:   e.ParentSKU,
			Theme:       e.Theme,
			Attributes:  e.Attributes,
			Status:      e.Status,
			BatchID:     e.BatchID.String(),
		})
	}
	return out, nil
}
