package contracts

import (
	"bytes"
	"context"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	"hrcontracts/internal/format"
)

const exportSheet = "Contratos"

var exportHeader = []any{
	"Nombre", "Identificación", "Cargo", "Empresa", "Tipo de contrato",
	"Fecha de ingreso", "Fecha de fin", "Vigencia", "Aprobación", "Remuneración total",
}

// ExportXLSX renders the filtered listing, ignoring pagination, as a spreadsheet.
func (s *Service) ExportXLSX(ctx context.Context, f Filter) ([]byte, error) {
	f.Limit, f.Offset = 0, 0
	result, err := s.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return RenderXLSX(result.Items)
}

func RenderXLSX(items []View) ([]byte, error) {
	file := excelize.NewFile()
	defer file.Close()

	if err := file.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, fmt.Errorf("contracts: rename sheet: %w", err)
	}
	if err := file.SetSheetRow(exportSheet, "A1", &exportHeader); err != nil {
		return nil, fmt.Errorf("contracts: write header: %w", err)
	}
	for i, v := range items {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		fechaFin := "-"
		if end := v.FechaFinEfectiva; end != nil {
			fechaFin = format.ShortDate(*end)
		}
		row := []any{
			v.NombreCompleto,
			v.NumeroIdentificacion,
			v.Cargo,
			v.EmpresaInterna,
			v.TipoContrato,
			format.ShortDate(v.FechaIngreso),
			fechaFin,
			v.EstadoVigencia,
			v.EstadoAprobacion,
			v.RemuneracionTotal.InexactFloat64(),
		}
		if err := file.SetSheetRow(exportSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("contracts: write row %d: %w", i+2, err)
		}
	}

	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("contracts: encode xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

// SummaryPDF renders a one-page summary of a contract.
func (s *Service) SummaryPDF(ctx context.Context, id string) ([]byte, error) {
	view, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return RenderPDF(view)
}

func RenderPDF(v View) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, tr("Resumen de contrato"))
	pdf.Ln(12)

	fechaFin := "-"
	if v.FechaFinEfectiva != nil {
		fechaFin = format.LongDate(*v.FechaFinEfectiva)
	}
	lines := [][2]string{
		{"Empleado", v.NombreCompleto},
		{"Identificación", v.TipoIdentificacion + " " + v.NumeroIdentificacion},
		{"Cargo", v.Cargo},
		{"Empresa", v.EmpresaInterna},
		{"Tipo de contrato", v.TipoContrato},
		{"Fecha de ingreso", format.LongDate(v.FechaIngreso)},
		{"Fecha de fin", fechaFin},
		{"Vigencia", v.EstadoVigencia},
		{"Aprobación", v.EstadoAprobacion},
		{"Salario", format.FormatOptionalMoney(v.Salario)},
		{"Auxilio salarial", format.FormatOptionalMoney(v.AuxilioSalarial)},
		{"Auxilio no salarial", format.FormatOptionalMoney(v.AuxilioNoSalarial)},
		{"Auxilio de transporte", format.FormatOptionalMoney(v.AuxilioTransporte)},
		{"Remuneración total", format.FormatMoney(v.RemuneracionTotal)},
	}
	for _, line := range lines {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.Cell(55, 7, tr(line[0]+":"))
		pdf.SetFont("Helvetica", "", 11)
		pdf.Cell(0, 7, tr(line[1]))
		pdf.Ln(7)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("contracts: render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
