// internal/export/export.go
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/quantai/console/internal/types"
	"github.com/quantai/console/internal/view"
	"go.uber.org/zap"
)

// Format represents the export file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// Options configures the export behavior.
type Options struct {
	Format    Format
	Filter    types.TradeFilter
	OutputDir string
}

// Exporter writes a filtered snapshot of the trade ledger to disk. It
// reads the ledger through the same pure filter the views use, so an
// export always matches what a filtered view would show.
type Exporter struct {
	logger *zap.Logger
}

// NewExporter creates a trade exporter.
func NewExporter(logger *zap.Logger) *Exporter {
	return &Exporter{logger: logger.Named("export")}
}

// Export filters the trades, orders them chronologically, and writes them
// in the requested format. It returns the output file path.
func (e *Exporter) Export(trades []types.Trade, options Options) (string, error) {
	filtered := view.ApplyFilter(trades, options.Filter)
	if len(filtered) == 0 {
		return "", fmt.Errorf("no trades match the export criteria")
	}

	// Oldest first; trades with unparseable timestamps keep their
	// relative ledger order at the end.
	sort.SliceStable(filtered, func(i, j int) bool {
		ti, oki := filtered[i].Time()
		tj, okj := filtered[j].Time()
		if !oki || !okj {
			return oki
		}
		return ti.Before(tj)
	})

	filename := e.generateFilename(options.Format)
	outputPath := filepath.Join(options.OutputDir, filename)

	if err := os.MkdirAll(options.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	var err error
	switch options.Format {
	case FormatCSV:
		err = e.exportToCSV(filtered, outputPath)
	case FormatJSON:
		err = e.exportToJSON(filtered, outputPath)
	default:
		err = fmt.Errorf("unsupported format: %s", options.Format)
	}
	if err != nil {
		return "", err
	}

	e.logger.Info("Trades exported",
		zap.String("file", outputPath),
		zap.Int("count", len(filtered)),
		zap.String("format", string(options.Format)))

	return outputPath, nil
}

func (e *Exporter) exportToCSV(trades []types.Trade, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"id", "token", "side", "amount", "entry_price", "exit_price", "pnl", "status", "timestamp", "tx_hash"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, t := range trades {
		record := []string{
			t.ID,
			t.Token,
			string(t.Side),
			strconv.FormatFloat(t.Amount, 'f', -1, 64),
			strconv.FormatFloat(t.EntryPrice, 'f', -1, 64),
			strconv.FormatFloat(t.ExitPrice, 'f', -1, 64),
			strconv.FormatFloat(t.PnL, 'f', -1, 64),
			string(t.Status),
			t.Timestamp,
			t.TxHash,
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}
	return nil
}

func (e *Exporter) exportToJSON(trades []types.Trade, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create JSON file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(trades); err != nil {
		return fmt.Errorf("failed to encode trades: %w", err)
	}
	return nil
}

func (e *Exporter) generateFilename(format Format) string {
	return fmt.Sprintf("trades_%s.%s", time.Now().Format("20060102_150405"), format)
}
