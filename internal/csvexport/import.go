package csvexport

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"loandesk/internal/domain"
)

// DocumentsSheet lists the files attached to imported applications.
const DocumentsSheet = "Documents"

// ImportedApplication is one application row with the documents that reference it.
type ImportedApplication struct {
	Application domain.Application
	Documents   []domain.Document
}

// ReadApplicationsXLSX reads an intake workbook. The Applications sheet is matched by
// header name, so column order is free; the Documents sheet is optional and keyed by
// Reference No.
func ReadApplicationsXLSX(r io.Reader) ([]ImportedApplication, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(ApplicationsSheet)
	if err != nil {
		return nil, fmt.Errorf("read %s sheet: %w", ApplicationsSheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s sheet is empty", ApplicationsSheet)
	}

	idx := headerIndex(rows[0])
	for _, required := range []string{"reference no", "applicant name", "loan amount"} {
		if _, ok := idx[required]; !ok {
			return nil, fmt.Errorf("missing column %q", required)
		}
	}

	var out []ImportedApplication
	byRef := make(map[string]int)
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		ref := cell(row, idx, "reference no")
		if ref == "" {
			continue
		}
		if _, dup := byRef[ref]; dup {
			return nil, fmt.Errorf("row %d: duplicate reference %q", i+1, ref)
		}
		amount, err := strconv.ParseFloat(strings.ReplaceAll(cell(row, idx, "loan amount"), ",", ""), 64)
		if err != nil || amount <= 0 {
			return nil, fmt.Errorf("row %d: invalid loan amount", i+1)
		}
		byRef[ref] = len(out)
		out = append(out, ImportedApplication{Application: domain.Application{
			ReferenceNo:      ref,
			ApplicantName:    cell(row, idx, "applicant name"),
			CNIC:             cell(row, idx, "cnic"),
			Email:            cell(row, idx, "email"),
			Phone:            cell(row, idx, "phone"),
			Profession:       cell(row, idx, "profession"),
			OrganizationName: cell(row, idx, "organization"),
			City:             cell(row, idx, "city"),
			LoanAmount:       amount,
			Status:           domain.StatusPending,
		}})
	}

	if i, err := f.GetSheetIndex(DocumentsSheet); err != nil || i < 0 {
		return out, nil
	}
	docRows, err := f.GetRows(DocumentsSheet)
	if err != nil {
		return nil, fmt.Errorf("read %s sheet: %w", DocumentsSheet, err)
	}
	if len(docRows) == 0 {
		return out, nil
	}
	didx := headerIndex(docRows[0])
	for i := 1; i < len(docRows); i++ {
		row := docRows[i]
		ref := cell(row, didx, "reference no")
		if ref == "" {
			continue
		}
		pos, ok := byRef[ref]
		if !ok {
			return nil, fmt.Errorf("%s row %d: unknown reference %q", DocumentsSheet, i+1, ref)
		}
		size, _ := strconv.ParseInt(cell(row, didx, "file size"), 10, 64)
		out[pos].Documents = append(out[pos].Documents, domain.Document{
			DocumentType:       cell(row, didx, "document type"),
			OriginalName:       cell(row, didx, "original name"),
			S3Bucket:           cell(row, didx, "s3 bucket"),
			S3Key:              cell(row, didx, "s3 key"),
			ContentType:        cell(row, didx, "content type"),
			FileSize:           size,
			VerificationStatus: domain.VerificationPending,
		})
	}
	return out, nil
}

func headerIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return idx
}

func cell(row []string, idx map[string]int, name string) string {
	i, ok := idx[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
