package csvexport

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"loandesk/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns defines the export header row shared by the CSV and XLSX writers.
var columns = []string{
	"Reference No",
	"Applicant Name",
	"CNIC",
	"Email",
	"Phone",
	"Profession",
	"Organization",
	"City",
	"Status",
	"Loan Amount",
	"Approved Amount",
	"Documents Approved",
	"Documents Rejected",
	"Documents Pending",
	"Admin Comments",
	"Approved By",
	"Approved At",
	"Last Action By",
	"Created At",
}

// Columns returns a copy of the export header row.
func Columns() []string {
	out := make([]string, len(columns))
	copy(out, columns)
	return out
}

// Writer wraps csv.Writer for exporting applications as CSV.
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

// WriteApplications converts a batch of applications to CSV rows and writes them.
func (w *Writer) WriteApplications(apps []domain.Application) error {
	for i := range apps {
		if err := w.csv.Write(applicationToRow(&apps[i])); err != nil {
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

// applicationToRow converts a single application to a row. Document counts are left
// empty when no summary is attached.
func applicationToRow(app *domain.Application) []string {
	row := make([]string, len(columns))
	row[0] = app.ReferenceNo
	row[1] = app.ApplicantName
	row[2] = app.CNIC
	row[3] = app.Email
	row[4] = app.Phone
	row[5] = app.Profession
	row[6] = app.OrganizationName
	row[7] = app.City
	row[8] = string(app.Status)
	row[9] = formatMoney(app.LoanAmount)
	if app.ApprovedLoanAmount != nil {
		row[10] = formatMoney(*app.ApprovedLoanAmount)
	}
	if s := app.DocumentSummary; s != nil {
		row[11] = strconv.Itoa(s.ApprovedCount)
		row[12] = strconv.Itoa(s.RejectedCount)
		row[13] = strconv.Itoa(s.PendingCount)
	}
	row[14] = app.AdminComments
	if app.ApprovedBy != nil {
		row[15] = *app.ApprovedBy
	}
	row[16] = formatTime(app.ApprovedAt)
	row[17] = app.LastActionBy
	row[18] = app.CreatedAt.Format(time.RFC3339)
	return row
}

func formatMoney(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a name for use in Content-Disposition.
// Replaces non-alphanumeric chars (except - _) with _, collapses consecutive
// underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns {sanitized_name}_{YYYY-MM-DD}.{ext} for Content-Disposition.
func BuildFilename(name string, format domain.ExportFormat) string {
	sanitized := SanitizeFilename(name)
	if sanitized == "" {
		sanitized = "applications"
	}
	return fmt.Sprintf("%s_%s.%s", sanitized, time.Now().Format("2006-01-02"), format)
}
