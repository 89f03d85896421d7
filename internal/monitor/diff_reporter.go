package monitor

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/pagesentry/pagesentry/internal/common"
	"github.com/pagesentry/pagesentry/internal/urlhandler"

	"github.com/rs/zerolog"
)

// DiffReportWriter persists rendered line diffs so alerts can attach them
// and operators can inspect changes after the fact.
type DiffReportWriter struct {
	reportDir   string
	fileManager *common.FileManager
	logger      zerolog.Logger
}

// NewDiffReportWriter creates a new DiffReportWriter. An empty reportDir
// disables report writing.
func NewDiffReportWriter(reportDir string, logger zerolog.Logger) *DiffReportWriter {
	writerLogger := logger.With().Str("component", "DiffReportWriter").Logger()
	return &DiffReportWriter{
		reportDir:   reportDir,
		fileManager: common.NewFileManager(writerLogger),
		logger:      writerLogger,
	}
}

// Enabled reports whether diff reports will be written.
func (w *DiffReportWriter) Enabled() bool {
	return w.reportDir != ""
}

// WriteReport writes one diff report and returns its path. The filename is
// derived from the URL so reports for the same page sort together.
func (w *DiffReportWriter) WriteReport(url, cycleID, diffText string) (string, error) {
	if !w.Enabled() {
		return "", nil
	}

	fileName := fmt.Sprintf("diff-%s-%s.txt",
		urlhandler.SanitizeFilenameComponent(url),
		time.Now().Format("20060102-150405"))
	reportPath := filepath.Join(w.reportDir, fileName)

	header := fmt.Sprintf("URL: %s\nCycle: %s\nGenerated: %s\n\n",
		url, cycleID, time.Now().Format(time.RFC3339))

	if err := w.fileManager.WriteFile(reportPath, []byte(header+diffText), common.DefaultFileWriteOptions()); err != nil {
		return "", common.WrapError(err, "failed to write diff report")
	}

	w.logger.Debug().Str("url", url).Str("report_path", reportPath).Msg("Diff report written")
	return reportPath, nil
}
