package server

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"MarketLens/internal/model"
	"MarketLens/internal/render"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportSheet is the worksheet name used for metric exports.
const ExportSheet = "Metrics"

var exportHeader = []any{
	"Ticker", "Name", "Sector", "Industry", "Close",
	"1D %", "1W %", "1M %", "YTD %", "Market Cap", "Market Cap (label)",
}

// WriteWorkbook writes rows as an xlsx workbook.
func WriteWorkbook(w io.Writer, rows []model.MetricRow) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ExportSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetSheetRow(ExportSheet, "A1", &exportHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		_ = f.SetCellStyle(ExportSheet, "A1", "K1", style)
	}

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []any{
			r.Ticker, r.Name, r.Sector, r.Industry, r.Close,
			r.Change1D, r.Change1W, r.Change1M, r.ChangeYTD, r.MarketCap, render.CapLabel(r.MarketCap),
		}
		if err := f.SetSheetRow(ExportSheet, cell, &values); err != nil {
			return fmt.Errorf("write row %s: %w", r.Ticker, err)
		}
	}
	_ = f.SetColWidth(ExportSheet, "B", "D", 28)

	return f.Write(w)
}

func (s *Server) export(c *gin.Context) {
	universe := c.Param("universe")
	rows, err := s.svc.Aggregate(c.Request.Context(), universe)
	if err != nil {
		s.respond(c, nil, err)
		return
	}

	var buf bytes.Buffer
	if err := WriteWorkbook(&buf, rows); err != nil {
		s.respond(c, nil, err)
		return
	}
	name := fmt.Sprintf("marketlens-%s-%s.xlsx", universe, time.Now().Format("20060102"))
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
