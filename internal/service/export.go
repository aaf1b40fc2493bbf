package service

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/clubraffle/raffle-api/internal/domain"
)

type ExportEntityRepository interface {
	FindAll(ctx context.Context) ([]domain.Entity, error)
}

type ExportPurchaseRepository interface {
	FindAll(ctx context.Context) ([]domain.TicketPurchase, error)
}

// ExportService renders the purchase ledger as an xlsx workbook with
// Purchases, Tickets and Summary sheets.
type ExportService struct {
	entityRepo   ExportEntityRepository
	purchaseRepo ExportPurchaseRepository
}

func NewExportService(entityRepo ExportEntityRepository, purchaseRepo ExportPurchaseRepository) *ExportService {
	return &ExportService{
		entityRepo:   entityRepo,
		purchaseRepo: purchaseRepo,
	}
}

// PurchasesWorkbook builds the workbook. With a non-empty entityIDs filter
// only purchases for those entities are included; callers pass the
// caller's accessible entity set here.
func (s *ExportService) PurchasesWorkbook(ctx context.Context, entityIDs []uint) (*excelize.File, error) {
	purchases, err := s.purchaseRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.purchaseRepo.FindAll -> %w", err)
	}

	entities, err := s.entityRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.entityRepo.FindAll -> %w", err)
	}

	if len(entityIDs) > 0 {
		allowed := make(map[uint]bool, len(entityIDs))
		for _, id := range entityIDs {
			allowed[id] = true
		}

		filtered := purchases[:0]
		for _, p := range purchases {
			if allowed[p.EntityID] {
				filtered = append(filtered, p)
			}
		}
		purchases = filtered
	}

	entityByID := make(map[uint]domain.Entity, len(entities))
	for _, e := range entities {
		entityByID[e.ID] = e
	}

	f := excelize.NewFile()
	f.SetSheetName("Sheet1", "Purchases")

	if err := s.writePurchasesSheet(f, purchases, entityByID); err != nil {
		return nil, err
	}
	if err := s.writeTicketsSheet(f, purchases, entityByID); err != nil {
		return nil, err
	}
	if err := s.writeSummarySheet(f, purchases, entities); err != nil {
		return nil, err
	}

	return f, nil
}

func clubLabel(entityByID map[uint]domain.Entity, entityID uint) string {
	if entity, ok := entityByID[entityID]; ok {
		return fmt.Sprintf("%s %s", entity.Emoji, entity.DisplayName)
	}

	return fmt.Sprintf("entity %d", entityID)
}

func (s *ExportService) writePurchasesSheet(f *excelize.File, purchases []domain.TicketPurchase, entityByID map[uint]domain.Entity) error {
	header := []any{
		"Purchase ID", "Club", "Buyer Name", "Raffler Name", "Ticket Count",
		"Price Per Ticket", "Total Price", "Ticket Range", "Paid", "Purchase Date",
	}
	if err := f.SetSheetRow("Purchases", "A1", &header); err != nil {
		return fmt.Errorf("f.SetSheetRow -> %w", err)
	}

	for i, p := range purchases {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("excelize.CoordinatesToCellName -> %w", err)
		}

		row := []any{
			p.ID,
			clubLabel(entityByID, p.EntityID),
			p.BuyerName,
			p.RafflerName,
			p.TicketCount,
			p.PricePerTicket,
			p.TotalPrice,
			fmt.Sprintf("%d-%d", p.StartTicketNumber, p.EndTicketNumber),
			p.IsPaid,
			p.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		if err := f.SetSheetRow("Purchases", cell, &row); err != nil {
			return fmt.Errorf("f.SetSheetRow -> %w", err)
		}
	}

	return nil
}

func (s *ExportService) writeTicketsSheet(f *excelize.File, purchases []domain.TicketPurchase, entityByID map[uint]domain.Entity) error {
	if _, err := f.NewSheet("Tickets"); err != nil {
		return fmt.Errorf("f.NewSheet -> %w", err)
	}

	header := []any{"Ticket ID", "Ticket Number", "Purchase ID", "Buyer Name", "Club", "Created At"}
	if err := f.SetSheetRow("Tickets", "A1", &header); err != nil {
		return fmt.Errorf("f.SetSheetRow -> %w", err)
	}

	rowIndex := 2
	for _, p := range purchases {
		for _, t := range p.Tickets {
			cell, err := excelize.CoordinatesToCellName(1, rowIndex)
			if err != nil {
				return fmt.Errorf("excelize.CoordinatesToCellName -> %w", err)
			}

			row := []any{
				t.ID,
				t.TicketNumber,
				t.PurchaseID,
				p.BuyerName,
				clubLabel(entityByID, p.EntityID),
				t.CreatedAt.Format("2006-01-02 15:04:05"),
			}
			if err := f.SetSheetRow("Tickets", cell, &row); err != nil {
				return fmt.Errorf("f.SetSheetRow -> %w", err)
			}
			rowIndex++
		}
	}

	return nil
}

func (s *ExportService) writeSummarySheet(f *excelize.File, purchases []domain.TicketPurchase, entities []domain.Entity) error {
	if _, err := f.NewSheet("Summary"); err != nil {
		return fmt.Errorf("f.NewSheet -> %w", err)
	}

	header := []any{"Club", "Purchases", "Tickets Sold", "Total Revenue", "Prize Amount"}
	if err := f.SetSheetRow("Summary", "A1", &header); err != nil {
		return fmt.Errorf("f.SetSheetRow -> %w", err)
	}

	for i, entity := range entities {
		var entityPurchases []domain.TicketPurchase
		for _, p := range purchases {
			if p.EntityID == entity.ID {
				entityPurchases = append(entityPurchases, p)
			}
		}
		stats := aggregateStats(entityPurchases, entity.RafflePercentage)

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("excelize.CoordinatesToCellName -> %w", err)
		}

		row := []any{
			fmt.Sprintf("%s %s", entity.Emoji, entity.DisplayName),
			len(entityPurchases),
			stats.TicketsSold,
			stats.TotalRevenue,
			stats.PrizeAmount,
		}
		if err := f.SetSheetRow("Summary", cell, &row); err != nil {
			return fmt.Errorf("f.SetSheetRow -> %w", err)
		}
	}

	return nil
}
