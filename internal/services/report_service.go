package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"strings"
	"time"

	"lab-reception/internal/metrics"
	"lab-reception/internal/selection"
	"lab-reception/internal/summary"
	"lab-reception/internal/timeutil"

	"github.com/jung-kurt/gofpdf/v2"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// Export formats
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
	FormatPDF  = "pdf"
)

// Exportable entities
const (
	EntitySamples  = "samples"
	EntityClients  = "clients"
	EntityRequests = "requests"
	EntityResults  = "results"
)

var (
	ErrNothingToExport = errors.New("No hay datos para exportar.")
	ErrStaleSelection  = errors.New("La selección ya no coincide con la lista. Vuelva a seleccionar los registros.")
	ErrUnknownExport   = errors.New("exportación no soportada")
)

// Table is the column/row form every export is rendered from.
type Table struct {
	Title   string
	Sheet   string
	File    string
	Headers []string
	Widths  []float64
	Rows    [][]any
}

// Export is a rendered file ready to download.
type Export struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ReportService renders list pages as CSV, XLSX or PDF. When the browser has
// a selection only the selected rows are exported.
type ReportService struct {
	Samples  *SampleService
	Clients  *ClientService
	Requests *RequestService
	Results  *ResultService
	audit    audit
	logger   *zap.Logger
	now      func() time.Time
}

func NewReportService(samples *SampleService, clients *ClientService, requests *RequestService, results *ResultService, recorder ActionRecorder, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("reports")
	return &ReportService{
		Samples:  samples,
		Clients:  clients,
		Requests: requests,
		Results:  results,
		audit:    audit{recorder: recorder, logger: logger},
		logger:   logger,
		now:      timeutil.Now,
	}
}

// Export builds the table for entity and renders it in format.
func (s *ReportService) Export(ctx context.Context, entity, format string, q ListQuery) (*Export, error) {
	if !validFormat(format) {
		return nil, ErrUnknownExport
	}
	table, err := s.table(ctx, entity, q)
	if err != nil {
		metrics.ExportsTotal.WithLabelValues(entity, format, metrics.OutcomeError).Inc()
		return nil, err
	}
	out, err := Render(table, format, s.now())
	s.audit.record(ctx, "export", entity, 0, fmt.Sprintf("%s, %d rows", format, len(table.Rows)), err)
	if err != nil {
		metrics.ExportsTotal.WithLabelValues(entity, format, metrics.OutcomeError).Inc()
		return nil, err
	}
	metrics.ExportsTotal.WithLabelValues(entity, format, metrics.OutcomeOK).Inc()
	return out, nil
}

// SelectionInput is what the browser sends to refresh the selected card:
// the cards it already shows, its selection and the ids of the rows on screen.
type SelectionInput struct {
	Cards       summary.Cards `json:"cards"`
	Selected    []int         `json:"selected"`
	Fingerprint string        `json:"fingerprint"`
	IDs         []int         `json:"ids"`
}

// SelectionSummary is the refreshed card set and the reconciled selection.
type SelectionSummary struct {
	Cards     summary.Cards   `json:"cards"`
	Selection selection.State `json:"selection"`
}

// SelectedCards recomputes slot 4 from the selection alone. The other slots
// are returned as sent and no backend call is made.
func SelectedCards(entity string, in SelectionInput) (*SelectionSummary, error) {
	switch entity {
	case EntitySamples, EntityClients, EntityRequests, EntityResults:
	default:
		return nil, ErrUnknownExport
	}
	var state selection.State
	if len(in.IDs) > 0 {
		state = selection.Reconcile(in.Selected, in.Fingerprint, in.IDs)
	} else {
		state = selection.State{Selected: selection.New(in.Selected...).IDs(), Fingerprint: in.Fingerprint}
	}
	return &SelectionSummary{Cards: in.Cards.WithSelected(len(state.Selected)), Selection: state}, nil
}

func validFormat(format string) bool {
	return format == FormatCSV || format == FormatXLSX || format == FormatPDF
}

func (s *ReportService) table(ctx context.Context, entity string, q ListQuery) (*Table, error) {
	var t *Table
	switch entity {
	case EntitySamples:
		view, err := s.Samples.List(ctx, q)
		if err != nil {
			return nil, err
		}
		rows, err := pick(view.Items, q.Selected, view.Selection, func(r SampleRow) int { return r.SampleID })
		if err != nil {
			return nil, err
		}
		t = SamplesTable(rows)
	case EntityClients:
		view, err := s.Clients.List(ctx, q)
		if err != nil {
			return nil, err
		}
		rows, err := pick(view.Items, q.Selected, view.Selection, func(r ClientRow) int { return r.CustomerID })
		if err != nil {
			return nil, err
		}
		t = ClientsTable(rows)
	case EntityRequests:
		view, err := s.Requests.List(ctx, q)
		if err != nil {
			return nil, err
		}
		rows, err := pick(view.Items, q.Selected, view.Selection, func(r RequestRow) int { return r.ServiceRequestID })
		if err != nil {
			return nil, err
		}
		t = RequestsTable(rows)
	case EntityResults:
		view, err := s.Results.List(ctx, q)
		if err != nil {
			return nil, err
		}
		rows, err := pick(view.Items, q.Selected, view.Selection, func(r ResultRow) int { return r.AnalysisResultID })
		if err != nil {
			return nil, err
		}
		t = ResultsTable(rows)
	default:
		return nil, ErrUnknownExport
	}
	if len(t.Rows) == 0 {
		return nil, ErrNothingToExport
	}
	return t, nil
}

// pick keeps the selected rows, or every row when nothing was selected.
// A selection that did not survive the reload is an error, never the full list.
func pick[T any](rows []T, requested []int, sel selection.State, id func(T) int) ([]T, error) {
	if len(requested) == 0 {
		return rows, nil
	}
	if sel.Reset || len(sel.Selected) == 0 {
		return nil, ErrStaleSelection
	}
	want := selection.New(sel.Selected...)
	out := make([]T, 0, want.Len())
	for _, r := range rows {
		if want.Has(id(r)) {
			out = append(out, r)
		}
	}
	return out, nil
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}

func SamplesTable(rows []SampleRow) *Table {
	t := &Table{
		Title:   "Reporte de Muestras",
		Sheet:   "Muestras",
		File:    "Reporte_Muestras",
		Headers: []string{"Código", "ID", "Fecha Recolección", "Ubicación", "Tipo Muestra", "Estado"},
		Widths:  []float64{30, 15, 30, 45, 35, 35},
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []any{
			orNA(r.SampleCode), r.SampleID, orNA(r.CollectionLabel),
			orNA(r.CollectionLocation), orNA(r.SampleTypeName), r.Classification.StatusLabel,
		})
	}
	return t
}

func ClientsTable(rows []ClientRow) *Table {
	t := &Table{
		Title:   "Reporte de Clientes",
		Sheet:   "Clientes",
		File:    "Lista_Clientes",
		Headers: []string{"ID", "Nombre Completo", "Estado", "Email", "Teléfono", "Dirección"},
		Widths:  []float64{15, 45, 20, 50, 25, 35},
	}
	for _, r := range rows {
		state := "Inactivo"
		if r.Active {
			state = "Activo"
		}
		t.Rows = append(t.Rows, []any{
			r.CustomerID, orNA(r.FullName), state, orNA(r.Email), orNA(r.PhoneNumber), addressLine(r),
		})
	}
	return t
}

func addressLine(r ClientRow) string {
	if r.Address == nil {
		return "S/D"
	}
	var parts []string
	for _, p := range []string{r.Address.Street, r.Address.District, r.Address.Province, r.Address.Department} {
		if strings.TrimSpace(p) != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return "S/D"
	}
	return strings.Join(parts, ", ")
}

func RequestsTable(rows []RequestRow) *Table {
	t := &Table{
		Title:   "Reporte General de Solicitudes",
		Sheet:   "Solicitudes",
		File:    "Reporte_Solicitudes",
		Headers: []string{"ID Solicitud", "Fecha", "Cliente", "Servicios", "Estado", "Total Est. (S/)"},
		Widths:  []float64{25, 25, 45, 80, 30, 35},
	}
	for _, r := range rows {
		names := make([]string, 0, len(r.Items))
		for _, it := range r.Items {
			names = append(names, it.ServiceName)
		}
		services := strings.Join(names, ", ")
		if services == "" {
			services = "Sin servicios"
		}
		t.Rows = append(t.Rows, []any{
			r.ServiceRequestID, orNA(r.DateLabel), r.CustomerName, services, r.Status,
			fmt.Sprintf("%.2f", r.TotalEstimated),
		})
	}
	return t
}

func ResultsTable(rows []ResultRow) *Table {
	t := &Table{
		Title:   "Reporte de Resultados",
		Sheet:   "Resultados",
		File:    "Reporte_Resultados",
		Headers: []string{"ID Resultado", "Muestra ID", "Parámetro", "Valor", "Unidad", "Fecha Análisis"},
		Widths:  []float64{25, 20, 45, 30, 20, 30},
	}
	for _, r := range rows {
		unit := r.Unit
		if unit == "" {
			unit = "-"
		}
		t.Rows = append(t.Rows, []any{
			r.AnalysisResultID, r.SampleID, orNA(r.ParameterName), orNA(r.ValueLabel), unit, orNA(r.DateLabel),
		})
	}
	return t
}

// Render writes t in the given format. The filename carries the Lima date.
func Render(t *Table, format string, now time.Time) (*Export, error) {
	var (
		data []byte
		ct   string
		err  error
	)
	switch format {
	case FormatCSV:
		data, err = renderCSV(t)
		ct = "text/csv; charset=utf-8"
	case FormatXLSX:
		data, err = renderXLSX(t)
		ct = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatPDF:
		data, err = renderPDF(t, now)
		ct = "application/pdf"
	default:
		return nil, ErrUnknownExport
	}
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	name := fmt.Sprintf("%s_%s.%s", t.File, timeutil.ToLima(now).Format(timeutil.DateLayout), format)
	return &Export{Filename: name, ContentType: ct, Data: data}, nil
}

func cellText(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

func renderCSV(t *Table) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(t.Headers); err != nil {
		return nil, err
	}
	for _, row := range t.Rows {
		record := make([]string, len(row))
		for i, v := range row {
			record[i] = cellText(v)
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func renderXLSX(t *Table) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := t.Sheet
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	boldStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
	})
	for i, h := range t.Headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := col + "1"
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, boldStyle)
		f.SetColWidth(sheet, col, col, 20)
	}
	for r, row := range t.Rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func renderPDF(t *Table, now time.Time) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "") // Landscape for more columns
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(277, 10, tr(t.Title), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(277, 6, tr(fmt.Sprintf("Generado: %s", timeutil.ToLima(now).Format(timeutil.GeneratedLayout))), "", 1, "C", false, 0, "")
	pdf.Ln(5)

	widths := columnWidths(t)

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(200, 200, 200)
	for i, h := range t.Headers {
		pdf.CellFormat(widths[i], 7, tr(h), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, row := range t.Rows {
		for i, v := range row {
			pdf.CellFormat(widths[i], 6, tr(truncate(cellText(v), widths[i])), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.Ln(4)
	pdf.SetFont("Arial", "I", 9)
	pdf.CellFormat(277, 6, tr(fmt.Sprintf("Total de registros: %d", len(t.Rows))), "", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// columnWidths scales the table's widths to the landscape page.
func columnWidths(t *Table) []float64 {
	widths := make([]float64, len(t.Headers))
	var sum float64
	for i := range widths {
		w := 30.0
		if i < len(t.Widths) && t.Widths[i] > 0 {
			w = t.Widths[i]
		}
		widths[i] = w
		sum += w
	}
	for i := range widths {
		widths[i] = widths[i] * 277 / sum
	}
	return widths
}

// truncate shortens text that cannot fit a cell of width mm at 9pt.
func truncate(s string, width float64) string {
	limit := int(width / 1.9)
	r := []rune(s)
	if limit < 4 || len(r) <= limit {
		return s
	}
	return string(r[:limit-3]) + "..."
}

// RequestOrder renders the service order of one request as a PDF.
func (s *ReportService) RequestOrder(ctx context.Context, id int) (*Export, error) {
	detail, err := s.Requests.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	data, err := renderOrderPDF(detail.RequestRow, s.now())
	s.audit.record(ctx, "export", EntityRequests, id, "orden de servicio", err)
	if err != nil {
		metrics.ExportsTotal.WithLabelValues("request_order", FormatPDF, metrics.OutcomeError).Inc()
		return nil, fmt.Errorf("render order: %w", err)
	}
	metrics.ExportsTotal.WithLabelValues("request_order", FormatPDF, metrics.OutcomeOK).Inc()
	return &Export{
		Filename:    fmt.Sprintf("Orden_Servicio_%d.pdf", id),
		ContentType: "application/pdf",
		Data:        data,
	}, nil
}

func renderOrderPDF(r RequestRow, now time.Time) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(190, 10, "ORDEN DE SERVICIO", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(190, 6, tr(fmt.Sprintf("Generado: %s", timeutil.ToLima(now).Format(timeutil.GeneratedLayout))), "", 1, "C", false, 0, "")
	pdf.Ln(5)

	// Request info
	pdf.SetFont("Arial", "B", 12)
	pdf.SetFillColor(240, 240, 240)
	pdf.CellFormat(190, 8, tr("Información de la Solicitud"), "1", 1, "L", true, 0, "")
	pdf.SetFont("Arial", "", 10)
	info := [][2]string{
		{"Solicitud N°:", fmt.Sprintf("%d", r.ServiceRequestID)},
		{"Cliente:", r.CustomerName},
		{"Fecha:", orNA(r.DateLabel)},
		{"Estado:", r.Status},
	}
	for _, kv := range info {
		pdf.CellFormat(50, 7, tr(kv[0]), "1", 0, "L", false, 0, "")
		pdf.CellFormat(140, 7, tr(kv[1]), "1", 1, "L", false, 0, "")
	}
	pdf.Ln(5)

	// Items
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(200, 200, 200)
	pdf.CellFormat(100, 7, tr("Descripción del Servicio"), "1", 0, "C", true, 0, "")
	pdf.CellFormat(20, 7, "Cant.", "1", 0, "C", true, 0, "")
	pdf.CellFormat(35, 7, "P. Unit.", "1", 0, "C", true, 0, "")
	pdf.CellFormat(35, 7, "Subtotal", "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, it := range r.Items {
		pdf.CellFormat(100, 7, tr(truncate(it.ServiceName, 100)), "1", 0, "L", false, 0, "")
		pdf.CellFormat(20, 7, fmt.Sprintf("%d", it.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(35, 7, fmt.Sprintf("S/ %.2f", it.UnitPrice), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 7, fmt.Sprintf("S/ %.2f", it.Subtotal), "1", 1, "R", false, 0, "")
	}
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(155, 8, "TOTAL", "1", 0, "R", false, 0, "")
	pdf.CellFormat(35, 8, fmt.Sprintf("S/ %.2f", r.TotalEstimated), "1", 1, "R", false, 0, "")

	if strings.TrimSpace(r.Notes) != "" {
		pdf.Ln(5)
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(190, 7, "Notas:", "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.MultiCell(190, 6, tr(r.Notes), "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
