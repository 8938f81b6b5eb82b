package listing

import (
	"context"
	"encoding/hex"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/Publicador-api/internal/domain"
	"github.com/jhoicas/Publicador-api/internal/domain/entity"
	domlisting "github.com/jhoicas/Publicador-api/internal/domain/listing"
	"github.com/jhoicas/Publicador-api/internal/domain/repository"
	"github.com/jhoicas/Publicador-api/pkg/logger"
)

// Assembler construye las filas de salida y las entradas de log de una
// corrida: una fila por producto suelto, y por familia una fila padre
// sintética más una fila por hijo con sus atributos de variación.
type Assembler struct {
	engine   *MappingEngine
	resolver *ThemeResolver
	items    repository.CatalogItemRepository
	log      *logger.Logger
}

// NewAssembler construye el ensamblador.
func NewAssembler(engine *MappingEngine, resolver *ThemeResolver, items repository.CatalogItemRepository, log *logger.Logger) *Assembler {
	return &Assembler{
		engine:   engine,
		resolver: resolver,
		items:    items,
		log:      log.Component("assembler"),
	}
}

// NewParentSKU genera el identificador sintético del padre de una familia.
func NewParentSKU() string {
	id := uuid.New()
	return "PARENT-" + strings.ToUpper(hex.EncodeToString(id[:])[:12])
}

// AssembleStandalone produce la fila de un producto suelto y su entrada de
// log. Devuelve ErrMissingData si el producto no tiene datos recuperables;
// el llamador lo salta sin abortar la corrida.
func (a *Assembler) AssembleStandalone(ctx context.Context, internalSKU string, batchID uuid.UUID, tpl *entity.CategoryTemplate) (entity.ListingRow, entity.ListingLogEntry, error) {
	item, err := a.items.FullItem(ctx, internalSKU)
	if err != nil {
		return nil, entity.ListingLogEntry{}, err
	}
	if item == nil {
		return nil, entity.ListingLogEntry{}, domain.ErrMissingData
	}

	row := a.engine.MapItem(ctx, item, tpl)
	row[entity.FieldListingAction] = entity.ListingActionDefault

	logEntry := entity.ListingLogEntry{
		InternalSKU: internalSKU,
		ParentSKU:   entity.ParentSKUStandalone,
		Attributes:  map[string]string{},
		BatchID:     batchID,
		Status:      entity.LogStatusGenerated,
	}
	return row, logEntry, nil
}

// AssembleFamily produce la fila padre y las filas hijas de una familia,
// en ese orden y contiguas, más una entrada de log por miembro. El padre
// hereda los datos del primer miembro con título generalizado; cada hijo
// lleva el tema resuelto y sus atributos distintivos traducidos a columnas
// de la plantilla. Los miembros sin datos se saltan; si ninguno tiene
// datos la familia entera devuelve ErrMissingData.
func (a *Assembler) AssembleFamily(ctx context.Context, internalSKUs []string, batchID uuid.UUID, tpl *entity.CategoryTemplate, priorityThemes []string) ([]entity.ListingRow, []entity.ListingLogEntry, error) {
	members := make([]*entity.CatalogItem, 0, len(internalSKUs))
	for _, sku := range internalSKUs {
		item, err := a.items.FullItem(ctx, sku)
		if err != nil {
			return nil, nil, err
		}
		if item == nil {
			a.log.Warn().Str("internal_sku", sku).Msg("miembro sin datos, se salta")
			continue
		}
		members = append(members, item)
	}
	if len(members) == 0 {
		return nil, nil, domain.ErrMissingData
	}

	theme, memberAttrs := a.resolver.Resolve(ctx, members, tpl.VariationThemes(), priorityThemes)
	parentSKU := NewParentSKU()

	rows := make([]entity.ListingRow, 0, len(members)+1)
	logs := make([]entity.ListingLogEntry, 0, len(members))

	// Fila padre: los datos del primer miembro con el título generalizado.
	parentRow := a.engine.MapItem(ctx, members[0], tpl)
	parentRow[entity.FieldSKU] = parentSKU
	parentRow[entity.FieldListingAction] = entity.ListingActionDefault
	parentRow[entity.FieldParentageLevel] = entity.ParentageParent
	parentRow[entity.FieldVariationTheme] = theme
	if title, ok := parentRow[entity.FieldItemName].(string); ok {
		parentRow[entity.FieldItemName] = domlisting.GeneralizeParentTitle(title)
	}
	rows = append(rows, parentRow)

	for _, member := range members {
		childRow := a.engine.MapItem(ctx, member, tpl)
		childRow[entity.FieldListingAction] = entity.ListingActionDefault
		childRow[entity.FieldParentageLevel] = entity.ParentageChild
		childRow[entity.FieldChildRelType] = entity.ChildRelVariation
		childRow[entity.FieldParentSKU] = parentSKU
		childRow[entity.FieldVariationTheme] = theme

		attrs := memberAttrs[member.InternalSKU]
		for attrKey, attrValue := range attrs {
			column, ok := tpl.VariationMapping[attrKey]
			if !ok {
				a.log.Debug().Str("atributo", attrKey).Msg("atributo sin columna en la plantilla, se omite")
				continue
			}
			childRow[column] = attrValue
		}
		rows = append(rows, childRow)

		if attrs == nil {
			attrs = map[string]string{}
		}
		logs = append(logs, entity.ListingLogEntry{
			InternalSKU: member.InternalSKU,
			ParentSKU:   parentSKU,
			Attributes:  attrs,
			BatchID:     batchID,
			Status:      entity.LogStatusGenerated,
			Theme:       theme,
		})
	}

	return rows, logs, nil
}
