package tui

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/openkraft/jsonkraft/internal/domain"
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Header: tw.CellConfig{
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
				Formatting: tw.CellFormatting{AutoFormat: tw.Off},
			},
			Row: tw.CellConfig{
				Alignment: tw.CellAlignment{Global: tw.AlignLeft},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.Border{
				Left:   tw.Off,
				Right:  tw.Off,
				Top:    tw.Off,
				Bottom: tw.Off,
			},
			Settings: tw.Settings{
				Separators: tw.Separators{
					BetweenColumns: tw.Off,
				},
			},
		}),
	)
}

// RenderAudit prints every deduction and bonus behind a score as a table.
func RenderAudit(b domain.ScoreBreakdown) (string, error) {
	var buf bytes.Buffer
	buf.WriteString("\n  " + titleStyle.Render("Audit trail") + "\n\n")

	if len(b.Deductions) == 0 && len(b.Bonuses) == 0 {
		buf.WriteString("  " + dimStyle.Render("No deductions.") + "\n")
		return buf.String(), nil
	}

	table := newTable(&buf)
	table.Header([]string{"Category", "Reason", "Severity", "Impact"})
	for _, d := range b.Deductions {
		if err := table.Append([]string{componentName(d.Category), d.Reason, string(d.Severity), "-" + strconv.Itoa(d.Impact)}); err != nil {
			return "", err
		}
	}
	for _, bonus := range b.Bonuses {
		if err := table.Append([]string{componentName(bonus.Category), bonus.Reason, string(bonus.Severity), "+" + strconv.Itoa(bonus.Impact)}); err != nil {
			return "", err
		}
	}
	if err := table.Render(); err != nil {
		return "", err
	}
	fmt.Fprintf(&buf, "\n  %s\n", dimStyle.Render(fmt.Sprintf("weighted %d, final %d", b.WeightedScore, b.FinalScore)))
	return buf.String(), nil
}

// RenderBatch prints one row per analyzed file.
func RenderBatch(results []domain.FileResult) (string, error) {
	var buf bytes.Buffer
	table := newTable(&buf)
	table.Header([]string{"File", "Score", "Tier", "Security", "Warnings"})

	total, scored := 0, 0
	for _, fr := range results {
		row := []string{shortenPath(fr.File), "-", "error", "-", "-"}
		if fr.Result != nil {
			r := fr.Result
			row = []string{
				shortenPath(fr.File),
				strconv.Itoa(r.Score()),
				string(r.ScoreBreakdown.Tier),
				strconv.Itoa(len(r.SecurityIssues)),
				strconv.Itoa(len(r.Warnings)),
			}
			total += r.Score()
			scored++
		}
		if err := table.Append(row); err != nil {
			return "", err
		}
	}
	if err := table.Render(); err != nil {
		return "", err
	}

	if scored > 0 {
		fmt.Fprintf(&buf, "\n  %s\n", dimStyle.Render(fmt.Sprintf("%d files, average score %d", scored, total/scored)))
	}
	for _, fr := range results {
		if fr.Err != nil {
			fmt.Fprintf(&buf, "  %s %s %s\n", errorTagStyle.Render("error"), fileStyle.Render(fr.File), fr.Err)
		}
	}
	return buf.String(), nil
}

// RenderSchemas lists registry records.
func RenderSchemas(records []domain.SchemaRecord) (string, error) {
	if len(records) == 0 {
		return "  " + dimStyle.Render("No schemas registered.") + "\n", nil
	}
	var buf bytes.Buffer
	table := newTable(&buf)
	table.Header([]string{"ID", "Name", "Version", "Tags", "Updated"})
	for _, r := range records {
		if err := table.Append([]string{r.ID, r.Name, r.Version, strings.Join(r.Tags, ","), r.UpdatedAt}); err != nil {
			return "", err
		}
	}
	if err := table.Render(); err != nil {
		return "", err
	}
	return buf.String(), nil
}
