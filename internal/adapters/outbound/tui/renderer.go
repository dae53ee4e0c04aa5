package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/openkraft/jsonkraft/internal/domain"
)

// ── Claude-inspired warm palette ──
var (
	accent = lipgloss.Color("#D97706") // amber
	fg     = lipgloss.Color("#E8E6E3") // warm light gray
	dim    = lipgloss.Color("#6B7280") // muted gray
	faint  = lipgloss.Color("#3F3F46") // very dim
	lime   = lipgloss.Color("#A3E635")
	orange = lipgloss.Color("#FB923C")

	success = lipgloss.Color("#22C55E") // green
	danger  = lipgloss.Color("#EF4444") // red
	warning = lipgloss.Color("#F59E0B") // amber-yellow
	info    = lipgloss.Color("#8B949E") // soft blue-gray
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accent).
			Align(lipgloss.Center)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(1, 4).
			Align(lipgloss.Center).
			Width(68)

	tierColors = map[domain.Tier]lipgloss.Color{
		domain.TierOutstanding: success,
		domain.TierExcellent:   success,
		domain.TierGood:        lime,
		domain.TierAcceptable:  warning,
		domain.TierPoor:        orange,
		domain.TierCritical:    danger,
	}

	componentNames = map[string]string{
		domain.CategorySyntax:      "Syntax",
		domain.CategorySecurity:    "Security",
		domain.CategoryDataQuality: "Data quality",
		domain.CategoryStructure:   "Structure",
	}

	dimStyle      = lipgloss.NewStyle().Foreground(dim)
	faintStyle    = lipgloss.NewStyle().Foreground(faint)
	passStyle     = lipgloss.NewStyle().Foreground(success)
	failStyle     = lipgloss.NewStyle().Foreground(danger)
	errorTagStyle = lipgloss.NewStyle().Foreground(danger).Bold(true)
	warnTagStyle  = lipgloss.NewStyle().Foreground(warning).Bold(true)
	infoTagStyle  = lipgloss.NewStyle().Foreground(info)
	fileStyle     = lipgloss.NewStyle().Foreground(dim)
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(fg)
	catNameStyle  = lipgloss.NewStyle().Bold(true).Foreground(fg)
	separatorLine = faintStyle.Render(strings.Repeat("─", 64))
)

// maxListed caps each issue section; the remainder is summarized.
const maxListed = 10

// RenderResult formats one analysis for the terminal.
func RenderResult(file string, r *domain.ValidationResult) string {
	var b strings.Builder

	// ── Header ──
	sb := r.ScoreBreakdown
	title := headerStyle.Render("jsonkraft")
	subtitle := dimStyle.Render("JSON Quality Score")
	if file != "" {
		subtitle += "  " + fileStyle.Render(shortenPath(file))
	}
	scoreStyled := lipgloss.NewStyle().
		Bold(true).
		Foreground(tierColor(sb.Tier)).
		Render(fmt.Sprintf("%d / 100", sb.FinalScore))
	tierStyled := lipgloss.NewStyle().
		Bold(true).
		Foreground(tierColor(sb.Tier)).
		Render(string(sb.Tier))

	b.WriteString(boxStyle.Render(title + "\n" + subtitle + "\n\n" + scoreStyled + "  " + tierStyled))
	b.WriteString("\n\n")

	if !r.IsValid && len(sb.Components) == 0 {
		renderParseErrors(&b, r.Errors)
		b.WriteString("\n  " + dimStyle.Render(sb.Summary) + "\n\n")
		return b.String()
	}

	// ── Components ──
	for _, c := range sb.Components {
		renderComponent(&b, c)
	}
	if len(sb.Bonuses) > 0 {
		total := 0
		for _, bonus := range sb.Bonuses {
			total += bonus.Impact
		}
		fmt.Fprintf(&b, "  %s %s\n", catNameStyle.Render(padRight("Bonuses", 20)), passStyle.Render(fmt.Sprintf("+%d", total)))
	}

	b.WriteString("\n")
	b.WriteString("  " + separatorLine)
	b.WriteString("\n\n")

	// ── Issues ──
	issues := collectIssues(r)
	if len(issues) > 0 {
		errorCount, warnCount, infoCount := countLevels(issues)
		b.WriteString("  ")
		b.WriteString(titleStyle.Render("Issues"))
		b.WriteString("  ")
		if errorCount > 0 {
			b.WriteString(errorTagStyle.Render(fmt.Sprintf("%d errors", errorCount)))
			b.WriteString("  ")
		}
		if warnCount > 0 {
			b.WriteString(warnTagStyle.Render(fmt.Sprintf("%d warnings", warnCount)))
			b.WriteString("  ")
		}
		if infoCount > 0 {
			b.WriteString(infoTagStyle.Render(fmt.Sprintf("%d info", infoCount)))
		}
		b.WriteString("\n\n")

		for i, is := range issues {
			if i == maxListed {
				fmt.Fprintf(&b, "    %s\n", dimStyle.Render(fmt.Sprintf("… and %d more", len(issues)-maxListed)))
				break
			}
			renderIssue(&b, is)
		}
	} else {
		b.WriteString("  " + passStyle.Render("No issues found.") + "\n")
	}

	// ── Recommendations ──
	if len(r.Recommendations) > 0 {
		b.WriteString("\n  " + titleStyle.Render("Recommendations") + "\n\n")
		for _, rec := range r.Recommendations {
			fmt.Fprintf(&b, "    %s %s\n", faintStyle.Render("→"), rec)
		}
	}

	b.WriteString("\n")
	return b.String()
}

func renderParseErrors(b *strings.Builder, errs []domain.ValidationError) {
	for _, e := range errs {
		loc := ""
		if e.Line > 0 {
			loc = fileStyle.Render(fmt.Sprintf("line %d, column %d", e.Line, e.Column))
		}
		fmt.Fprintf(b, "    %s %s %s\n", errorTagStyle.Render("error"), loc, dimStyle.Render(e.Message))
	}
}

func renderComponent(b *strings.Builder, c domain.ComponentScore) {
	color := scoreColor(c.Score)
	scoreText := lipgloss.NewStyle().Bold(true).Foreground(color).Render(fmt.Sprintf("%d", c.Score))
	bar := coloredBar(c.Score, 20)
	weight := dimStyle.Render(fmt.Sprintf("%d%%", int(c.Weight*100+0.5)))

	name := catNameStyle.Render(padRight(componentName(c.Name), 20))
	fmt.Fprintf(b, "  %s %s  %s %s\n", name, bar, scoreText, weight)
}

type level int

const (
	levelError level = iota
	levelWarn
	levelInfo
)

type issue struct {
	level   level
	path    string
	message string
}

// collectIssues flattens schema errors, security issues, quality findings
// and warnings, most severe first.
func collectIssues(r *domain.ValidationResult) []issue {
	var all []issue
	for _, e := range r.Errors {
		all = append(all, issue{levelError, e.Path, e.Message})
	}
	for _, s := range r.SecurityIssues {
		lvl := levelWarn
		if s.Severity == domain.SeverityHigh || s.Severity == domain.SeverityCritical {
			lvl = levelError
		}
		all = append(all, issue{lvl, s.Path, s.Message})
	}
	for _, w := range r.Warnings {
		all = append(all, issue{levelWarn, w.Path, w.Message})
	}
	for _, f := range r.DataQuality.Findings {
		all = append(all, issue{levelInfo, f.Path, f.Message})
	}
	sortByLevel(all)
	return all
}

func renderIssue(b *strings.Builder, is issue) {
	tag := levelTag(is.level)
	if is.path != "" {
		fmt.Fprintf(b, "    %s %s\n", tag, fileStyle.Render(is.path))
		fmt.Fprintf(b, "          %s\n", dimStyle.Render(is.message))
	} else {
		fmt.Fprintf(b, "    %s %s\n", tag, dimStyle.Render(is.message))
	}
}

func levelTag(l level) string {
	switch l {
	case levelError:
		return errorTagStyle.Render("error")
	case levelWarn:
		return warnTagStyle.Render("warn ")
	default:
		return infoTagStyle.Render("info ")
	}
}

func countLevels(issues []issue) (errors, warnings, infos int) {
	for _, i := range issues {
		switch i.level {
		case levelError:
			errors++
		case levelWarn:
			warnings++
		default:
			infos++
		}
	}
	return
}

// sortByLevel is a stable insertion sort; issue lists are short.
func sortByLevel(issues []issue) {
	for i := 1; i < len(issues); i++ {
		for j := i; j > 0 && issues[j].level < issues[j-1].level; j-- {
			issues[j], issues[j-1] = issues[j-1], issues[j]
		}
	}
}

// RenderRepair summarizes a repair attempt.
func RenderRepair(r domain.RepairResult) string {
	var b strings.Builder
	b.WriteString("\n")
	switch {
	case r.Succeeded && len(r.RulesApplied) == 0 && !r.UsedFallback:
		b.WriteString("  " + passStyle.Render("Already valid JSON, nothing to repair.") + "\n")
	case r.Succeeded:
		b.WriteString("  " + passStyle.Render("Repaired.") + "\n")
	default:
		b.WriteString("  " + failStyle.Render("Could not repair the input.") + "\n")
	}
	for _, name := range r.RulesApplied {
		fmt.Fprintf(&b, "    %s %s\n", passStyle.Render("●"), name)
	}
	if r.UsedFallback {
		fmt.Fprintf(&b, "    %s %s\n", warnTagStyle.Render("●"), "AI fallback")
	}
	b.WriteString("\n")
	return b.String()
}

func coloredBar(score, width int) string {
	filled := max(0, min(score*width/100, width))
	empty := width - filled

	color := scoreColor(score)
	filledStr := lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", filled))
	emptyStr := lipgloss.NewStyle().Foreground(faint).Render(strings.Repeat("░", empty))
	return filledStr + emptyStr
}

func scoreColor(score int) lipgloss.Color {
	switch {
	case score >= 80:
		return success
	case score >= 60:
		return lime
	case score >= 40:
		return warning
	default:
		return danger
	}
}

func componentName(name string) string {
	if n, ok := componentNames[name]; ok {
		return n
	}
	return name
}

func shortenPath(path string) string {
	parts := strings.Split(filepath.ToSlash(path), "/")
	if len(parts) > 3 {
		return strings.Join(parts[len(parts)-3:], "/")
	}
	return path
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// RenderHistory formats score history for terminal output.
func RenderHistory(entries []domain.ScoreEntry) string {
	if len(entries) == 0 {
		return "  " + dimStyle.Render("No score history found.") + "\n"
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString("  " + titleStyle.Render("Score History") + "\n")
	b.WriteString("  " + faintStyle.Render(strings.Repeat("─", 50)) + "\n\n")

	last := make(map[string]int)
	for _, e := range entries {
		hash := e.CommitHash
		if len(hash) > 7 {
			hash = hash[:7]
		}
		if hash == "" {
			hash = "·······"
		}
		day := e.Timestamp
		if len(day) > 10 {
			day = day[:10]
		}

		scoreStyled := lipgloss.NewStyle().
			Foreground(scoreColor(e.Score)).
			Render(fmt.Sprintf("%d/100", e.Score))

		line := fmt.Sprintf("  %s  %s  %s  %s  %s",
			dimStyle.Render(day),
			faintStyle.Render(hash),
			scoreStyled,
			e.Tier,
			fileStyle.Render(shortenPath(e.File)),
		)

		if prev, ok := last[e.File]; ok {
			diff := e.Score - prev
			if diff > 0 {
				line += "  " + passStyle.Render(fmt.Sprintf("↑%d", diff))
			} else if diff < 0 {
				line += "  " + failStyle.Render(fmt.Sprintf("↓%d", -diff))
			}
		}
		last[e.File] = e.Score

		b.WriteString(line)
		b.WriteString("\n")
	}

	return b.String()
}

func tierColor(t domain.Tier) lipgloss.Color {
	if c, ok := tierColors[t]; ok {
		return c
	}
	return fg
}
