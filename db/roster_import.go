package db

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"prayer-attendance-server/models"
)

// ParseRosterExcel reads students from the first sheet of an Excel stream.
// Row 1 is a header; columns are Roll No (optional), Name and Gender (M/F, optional).
func ParseRosterExcel(file io.Reader, log zerolog.Logger) ([]models.Student, error) {
	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to open excel file: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.Warn().Err(err).Msg("error closing excel file")
		}
	}()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, errors.New("excel file does not contain any sheets")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows from sheet %s: %w", sheetName, err)
	}

	students := []models.Student{}
	for i, row := range rows {
		if i == 0 {
			continue // header
		}

		var rollCell, name, gender string
		if len(row) > 0 {
			rollCell = strings.TrimSpace(row[0])
		}
		if len(row) > 1 {
			name = strings.TrimSpace(row[1])
		}
		if len(row) > 2 {
			gender = strings.ToUpper(strings.TrimSpace(row[2]))
		}

		if name == "" {
			log.Debug().Int("row", i+1).Msg("skipping row without a name")
			continue
		}

		rollNo := 0
		if rollCell != "" {
			n, err := strconv.Atoi(rollCell)
			if err != nil || n <= 0 {
				return nil, fmt.Errorf("row %d: invalid roll number %q", i+1, rollCell)
			}
			rollNo = n
		}
		if gender != "" && gender != "M" && gender != "F" {
			return nil, fmt.Errorf("row %d: gender must be M or F, got %q", i+1, gender)
		}

		students = append(students, models.Student{Name: name, RollNo: rollNo, Gender: gender})
	}

	log.Info().Str("sheet", sheetName).Int("students", len(students)).Msg("parsed roster file")
	return students, nil
}
