package pipeline

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/dxfscope/dxfscope/pkg/errors"
)

// Report file names inside the output directory.
const (
	SummaryFile        = "summary.json"
	EntitiesByTypeCSV  = "entities_by_type.csv"
	EntitiesByLayerCSV = "entities_by_layer.csv"
	BlocksByInsertCSV  = "blocks_by_insert.csv"
)

// WriteReports writes summary.json plus the three count CSVs into outdir,
// creating it as needed and silently overwriting previous runs. It returns
// the paths it wrote.
func WriteReports(stats Stats, outdir string) ([]string, error) {
	if err := os.MkdirAll(outdir, 0755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "create output directory")
	}

	var written []string

	summaryPath := filepath.Join(outdir, SummaryFile)
	data, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return written, errors.Wrap(errors.ErrCodeInternal, err, "marshal summary")
	}
	if err := os.WriteFile(summaryPath, data, 0644); err != nil {
		return written, errors.Wrap(errors.ErrCodeInternal, err, "write summary")
	}
	written = append(written, summaryPath)

	csvs := []struct {
		name   string
		header []string
		counts map[string]int
	}{
		{EntitiesByTypeCSV, []string{"type", "count"}, stats.EntityCounts},
		{EntitiesByLayerCSV, []string{"layer", "count"}, stats.LayerCounts},
		{BlocksByInsertCSV, []string{"block", "insert_count"}, stats.BlockInsertCounts},
	}
	for _, c := range csvs {
		path := filepath.Join(outdir, c.name)
		if err := writeCountCSV(path, c.header, c.counts); err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}

// writeCountCSV writes a header row followed by key,count rows sorted by key.
func writeCountCSV(path string, header []string, counts map[string]int) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create %s", filepath.Base(path))
	}

	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	w := csv.NewWriter(f)
	rows := [][]string{header}
	for _, k := range keys {
		rows = append(rows, []string{k, strconv.Itoa(counts[k])})
	}
	if err := w.WriteAll(rows); err != nil {
		f.Close()
		return errors.Wrap(errors.ErrCodeInternal, err, "write %s", filepath.Base(path))
	}
	return f.Close()
}
