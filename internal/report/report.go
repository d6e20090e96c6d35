// Package report renders recommendation bundles as Excel workbooks.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/PranavKKK2311/Navigate.io-sub000/internal/adaptive"
)

// Sheet names in workbook order.
const (
	SheetSummary    = "Summary"
	SheetNextTopics = "Next Topics"
	SheetResources  = "Resources"
	SheetPractice   = "Practice"
	SheetStruggles  = "Struggle Forecast"
)

// ContentType is the MIME type of a workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type sheet struct {
	name   string
	header []string
	rows   [][]any
}

// WriteWorkbook writes bundle to w as an xlsx workbook with one sheet per
// section.
func WriteWorkbook(w io.Writer, studentID string, bundle adaptive.RecommendationBundle) error {
	f := excelize.NewFile()
	defer f.Close()

	title := cases.Title(language.English)
	sheets := []sheet{
		summarySheet(title, studentID, bundle),
		topicSheet(title, bundle.NextTopics),
		resourceSheet(title, bundle.ResourceRecommendations),
		practiceSheet(title, bundle.PracticeSuggestions),
		struggleSheet(bundle.PredictedStruggleAreas),
	}

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#DDEBF7"}},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", s.name); err != nil {
				return fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(s.name); err != nil {
			return fmt.Errorf("create sheet %s: %w", s.name, err)
		}
		if err := writeSheet(f, s, header); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, s sheet, headerStyle int) error {
	headerRow := make([]any, len(s.header))
	for i, h := range s.header {
		headerRow[i] = h
	}
	if err := f.SetSheetRow(s.name, "A1", &headerRow); err != nil {
		return fmt.Errorf("write %s header: %w", s.name, err)
	}
	if err := f.SetRowStyle(s.name, 1, 1, headerStyle); err != nil {
		return fmt.Errorf("style %s header: %w", s.name, err)
	}

	for i, row := range s.rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(s.name, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", s.name, i+1, err)
		}
	}

	last, err := excelize.ColumnNumberToName(len(s.header))
	if err != nil {
		return err
	}
	if err := f.SetColWidth(s.name, "A", last, 24); err != nil {
		return fmt.Errorf("size %s columns: %w", s.name, err)
	}
	return nil
}

func summarySheet(title cases.Caser, studentID string, b adaptive.RecommendationBundle) sheet {
	status := "Complete"
	if b.Degraded {
		status = "Degraded"
	}
	return sheet{
		name:   SheetSummary,
		header: []string{"Field", "Value"},
		rows: [][]any{
			{"Student", studentID},
			{"Difficulty", title.String(string(b.AdjustedDifficulty.Level))},
			{"Change", title.String(string(b.AdjustedDifficulty.Change))},
			{"Reason", b.AdjustedDifficulty.Reason},
			{"Status", status},
		},
	}
}

func topicSheet(title cases.Caser, topics []adaptive.TopicRecommendation) sheet {
	s := sheet{name: SheetNextTopics, header: []string{"Topic", "Title", "Priority", "Type", "Reason"}}
	for _, t := range topics {
		s.rows = append(s.rows, []any{t.TopicID, t.Title, title.String(string(t.Priority)), title.String(string(t.Type)), t.Reason})
	}
	return s
}

func resourceSheet(title cases.Caser, resources []adaptive.ResourceRecommendation) sheet {
	s := sheet{name: SheetResources, header: []string{"Resource", "Title", "Topic", "Difficulty", "Priority", "URL", "Rationale"}}
	for _, r := range resources {
		s.rows = append(s.rows, []any{r.ResourceID, r.Title, r.TopicID, title.String(r.Difficulty), title.String(string(r.Priority)), r.URL, r.Rationale})
	}
	return s
}

func practiceSheet(title cases.Caser, practice []adaptive.PracticeSuggestion) sheet {
	s := sheet{name: SheetPractice, header: []string{"Activity", "Title", "Kind", "Topic", "Priority", "Reason"}}
	for _, p := range practice {
		kind := title.String(strings.ReplaceAll(string(p.Kind), "-", " "))
		s.rows = append(s.rows, []any{p.ActivityID, p.Title, kind, p.TopicTitle, title.String(string(p.Priority)), p.Reason})
	}
	return s
}

func struggleSheet(preds []adaptive.StrugglePrediction) sheet {
	s := sheet{name: SheetStruggles, header: []string{"Topic", "Title", "Confidence", "Source", "Reason", "Preparation"}}
	for _, p := range preds {
		s.rows = append(s.rows, []any{p.TopicID, p.Title, p.Confidence, p.Source, p.Reason, strings.Join(p.RecommendedPreparation, "; ")})
	}
	return s
}
