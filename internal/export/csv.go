// Package export renders evaluation batches as CSV and XLSX reports.
package export

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"nefera/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns defines the report header row.
var columns = []string{
	"Evaluation ID",
	"Status",
	"Resume Document ID",
	"Job Document ID",
	"Total Score",
	"Decision",
	"Decision Reason",
	"Decision Confidence",
	"Confidence Score",
	"Action Type",
	"Error",
	"Created At",
	"Updated At",
}

// Writer wraps csv.Writer for exporting evaluations as CSV.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteEvaluations converts a batch of evaluations to CSV rows and writes them.
func (w *Writer) WriteEvaluations(evs []domain.Evaluation) error {
	for i := range evs {
		if err := w.csv.Write(evaluationToRow(&evs[i])); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

func evaluationToRow(ev *domain.Evaluation) []string {
	row := make([]string, len(columns))
	row[0] = ev.ID.String()
	row[1] = string(ev.Status)
	row[2] = ev.ResumeDocumentID.String()
	row[3] = ev.JobDocumentID.String()
	row[4] = floatOrEmpty(ev.TotalScore, 2)
	if ev.Decision != nil {
		row[5] = string(*ev.Decision)
	}
	row[6] = ev.DecisionReason
	row[7] = floatOrEmpty(ev.DecisionConfidence, 4)
	row[8] = floatOrEmpty(ev.ConfidenceScore, 4)
	if ev.ActionType != nil {
		row[9] = string(*ev.ActionType)
	}
	row[10] = ev.Error
	row[11] = ev.CreatedAt.UTC().Format(time.RFC3339)
	row[12] = ev.UpdatedAt.UTC().Format(time.RFC3339)
	return row
}

func floatOrEmpty(v *float64, prec int) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', prec, 64)
}
