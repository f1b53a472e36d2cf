package answerkey

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"medicquiz/internal/quiz"

	"github.com/xuri/excelize/v2"
)

var ErrEmptyWorkbook = errors.New("workbook has no sheets")

// SubjectForFile picks the subject of a scoring sheet from its file name:
// "bio..." sheets hold biology keys, everything else chemistry. The prefix
// is case-sensitive, so "Bio.xlsx" is a chemistry sheet.
func SubjectForFile(name string) quiz.Subject {
	if strings.HasPrefix(filepath.Base(name), "bio") {
		return quiz.Biology
	}
	return quiz.Chemistry
}

// ParseSheet reads the first sheet of a workbook. Every cell holding a
// whole number is a question number; the cell to its right holds the
// correct letters. Repeated question numbers keep their first entry.
func ParseSheet(r io.Reader, subject quiz.Subject) ([]quiz.Solution, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open excel: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyWorkbook
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}

	solutions := quiz.NewSet[quiz.Solution]()
	for _, row := range rows {
		for col, cell := range row {
			number, err := strconv.Atoi(strings.TrimSpace(cell))
			if err != nil {
				continue
			}
			answer := ""
			if col+1 < len(row) {
				answer = row[col+1]
			}
			solutions.Add(quiz.Solution{
				QuestionNumber: number,
				Subject:        subject,
				CorrectAnswers: quiz.LettersFromText(answer),
			})
		}
	}
	return solutions.Items(), nil
}
