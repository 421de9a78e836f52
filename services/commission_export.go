package services

import (
	"fmt"
	"io"

	"salonbook-backend/models"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const commissionSheet = "Comissões"

var commissionHeader = []interface{}{
	"Data", "Profissional", "Serviço", "Valor do serviço", "Tipo", "Percentual", "Valor fixo", "Comissão", "Status",
}

// WriteCommissionsXLSX writes the ledger entries as a single sheet workbook,
// with a total row at the bottom.
func WriteCommissionsXLSX(w io.Writer, commissions []models.Commission, total decimal.Decimal) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", commissionSheet); err != nil {
		return err
	}
	if err := f.SetSheetRow(commissionSheet, "A1", &commissionHeader); err != nil {
		return err
	}

	for i, c := range commissions {
		row := []interface{}{
			c.CreatedAt.Format("2006-01-02 15:04"),
			staffName(c.Staff),
			serviceName(c.Service),
			c.ServicePrice.InexactFloat64(),
			c.CommissionType,
			nullableFloat(c.Percentage),
			nullableFloat(c.FixedValue),
			c.Amount.InexactFloat64(),
			c.Status,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(commissionSheet, cell, &row); err != nil {
			return err
		}
	}

	totalRow := len(commissions) + 2
	if err := f.SetCellValue(commissionSheet, fmt.Sprintf("G%d", totalRow), "Total"); err != nil {
		return err
	}
	if err := f.SetCellValue(commissionSheet, fmt.Sprintf("H%d", totalRow), total.InexactFloat64()); err != nil {
		return err
	}

	_, err := f.WriteTo(w)
	return err
}

func staffName(s *models.Staff) string {
	if s == nil {
		return ""
	}
	return s.Name
}

func serviceName(s *models.Service) string {
	if s == nil {
		return ""
	}
	return s.Name
}

func nullableFloat(d decimal.NullDecimal) interface{} {
	if !d.Valid {
		return ""
	}
	return d.Decimal.InexactFloat64()
}
