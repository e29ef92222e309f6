package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"agridash/internal/market"
	"agridash/internal/selector"
	"agridash/internal/summary"
)

// Styles.
var (
	tabStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Padding(0, 1)
	tabActiveStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("10")).Padding(0, 1)
	headerStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	labelStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	valueStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	focusStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("6"))
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	okStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warnStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	boxStyle       = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 2)
	boxFilteredSty = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("11")).Padding(0, 2)
	colHeaderStyle = lipgloss.NewStyle().Underline(true).Foreground(lipgloss.Color("14"))
	pageCurStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("10"))
)

func (m model) View() string {
	if !m.ready {
		return "initializing..."
	}
	return m.renderTabs() + "\n" + m.viewport.View() + "\n" + m.renderFooter()
}

func (m model) renderTabs() string {
	var b strings.Builder
	for s := section(0); s < sectionCount; s++ {
		if s == m.section {
			b.WriteString(tabActiveStyle.Render(s.title()))
		} else {
			b.WriteString(tabStyle.Render(s.title()))
		}
	}
	return b.String()
}

func (m model) renderFooter() string {
	var hints string
	switch m.section {
	case sectionHome, sectionAnalytics:
		hints = "↑/↓ field · ←/→ choose · esc clear · tab section · q quit"
		if m.section == sectionAnalytics {
			hints = "enter chart · p price type · +/- days · e export · " + hints
		}
	case sectionMarkets:
		hints = "r refresh · / search · 1-7 sort · n/b page · ↑/↓ ←/→ filters · esc clear · tab section · q quit"
	case sectionPredict:
		hints = "↑/↓ field · ←/→ choose · enter submit · esc clear · tab section · q quit"
	}
	return dimStyle.Render(hints)
}

func (m model) renderContent() string {
	if m.refErr != nil {
		return errStyle.Render("reference data unavailable: "+m.refErr.Error()) +
			"\n\n" + dimStyle.Render("fix the reference file and restart")
	}
	if m.ref == nil {
		return dimStyle.Render("loading reference data...")
	}

	switch m.section {
	case sectionHome:
		return m.renderHome()
	case sectionAnalytics:
		return m.renderAnalytics()
	case sectionMarkets:
		return m.renderMarkets()
	case sectionPredict:
		return m.renderPredict()
	}
	return ""
}

// --- Summary boxes ---

// renderSummary shows the counts derived from the visible section's
// selectors only.
func (m model) renderSummary(sel *selector.Cascade) string {
	counts := summary.Compute(m.ref, sel.County(), sel.Market(), sel.Commodity())

	box := boxStyle
	if counts.Filtered {
		box = boxFilteredSty
	}
	render := func(label string, n int) string {
		return box.Render(labelStyle.Render(label) + "\n" + valueStyle.Render(market.FormatInt(n)))
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top,
		render("Commodities", counts.Commodities),
		render("Markets", counts.Markets),
		render("Counties", counts.Counties),
	)
	if counts.Filtered {
		row += "\n" + warnStyle.Render("filtered")
	}
	return row
}

// --- Selectors ---

func (m model) renderSelector(sel *selector.Cascade, focus int) string {
	field := func(idx int, label, value string, available bool) string {
		display := value
		if display == "" {
			display = "-- Select --"
		}
		if !available {
			display = dimStyle.Render(display)
		} else if idx == focus {
			display = focusStyle.Render(" " + display + " ")
		} else {
			display = valueStyle.Render(display)
		}
		return fmt.Sprintf("  %s %s", labelStyle.Render(label+":"), display)
	}

	var b strings.Builder
	b.WriteString(field(focusCounty, "County   ", sel.County(), true))
	b.WriteString("\n")
	b.WriteString(field(focusMarket, "Market   ", sel.Market(), sel.County() != ""))
	b.WriteString("\n")
	b.WriteString(field(focusCommodity, "Commodity", sel.Commodity(), sel.Market() != ""))
	return b.String()
}

// --- Home ---

func (m model) renderHome() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Agricultural Market Dashboard"))
	b.WriteString("\n\n")
	b.WriteString(m.renderSummary(m.homeSel))
	b.WriteString("\n\n")
	b.WriteString(m.renderSelector(m.homeSel, m.focus))
	return b.String()
}

// --- Analytics ---

func (m model) renderAnalytics() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Price Trends"))
	b.WriteString("\n\n")
	b.WriteString(m.renderSummary(m.analyticsSel))
	b.WriteString("\n\n")
	b.WriteString(m.renderSelector(m.analyticsSel, m.focus))
	b.WriteString(fmt.Sprintf("\n  %s %s   %s %d\n\n",
		labelStyle.Render("Price type:"), valueStyle.Render(string(m.priceType)),
		labelStyle.Render("Days:"), m.trendDays))

	label := m.trendLabel
	switch {
	case m.trendLoading:
		b.WriteString(warnStyle.Render(label))
	case strings.HasPrefix(label, "Error"):
		b.WriteString(errStyle.Render(label))
	default:
		b.WriteString(okStyle.Render(label))
	}
	b.WriteString("\n")

	if m.series != nil && len(m.series.Values) > 0 {
		b.WriteString(renderSparkline(m.series.Floats(), 64))
		first := m.series.Labels[0]
		last := m.series.Labels[len(m.series.Labels)-1]
		b.WriteString("\n" + dimStyle.Render(first+strings.Repeat(" ", max(1, 64-len(first)-len(last)))+last))
	}
	if m.exportNote != "" {
		b.WriteString("\n\n" + dimStyle.Render(m.exportNote))
	}
	return b.String()
}

// renderSparkline scales values into a fixed-width block-character strip
// with min/max annotations.
func renderSparkline(values []float64, width int) string {
	if len(values) == 0 {
		return ""
	}
	blocks := []rune("▁▂▃▄▅▆▇█")

	// Resample to width points.
	points := values
	if len(values) > width {
		points = make([]float64, width)
		for i := range points {
			points[i] = values[i*len(values)/width]
		}
	}

	lo, hi := points[0], points[0]
	for _, v := range points {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}

	var b strings.Builder
	for _, v := range points {
		idx := 0
		if hi > lo {
			idx = int((v - lo) / (hi - lo) * float64(len(blocks)-1))
		}
		b.WriteRune(blocks[idx])
	}
	return fmt.Sprintf("%s\n%s  %s",
		dimStyle.Render(fmt.Sprintf("max %.2f", hi)),
		okStyle.Render(b.String()),
		dimStyle.Render(fmt.Sprintf("min %.2f", lo)))
}

// --- Markets ---

var columnTitles = []string{"County", "Market", "Commodity", "Class", "Wholesale", "Retail", "Date"}
var columnWidths = []int{14, 16, 14, 12, 11, 11, 12}

func (m model) renderMarkets() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Current Market Prices"))
	if m.marketsLoading {
		b.WriteString("  " + warnStyle.Render("refreshing..."))
	}
	b.WriteString("\n\n")

	b.WriteString(m.renderMarketsFilters())
	b.WriteString("\n\n")

	// Column header with sort indicator; keys 1-7 map to columns in order.
	sorting := m.table.Sorting()
	for i, title := range columnTitles {
		label := fmt.Sprintf("%d:%s", i+1, title)
		if sortColumns[i] == sorting.Column {
			if sorting.Desc {
				label += "↓"
			} else {
				label += "↑"
			}
		}
		b.WriteString(colHeaderStyle.Render(padOrTrunc(label, columnWidths[i])))
		b.WriteString(" ")
	}
	b.WriteString("\n")

	rows := m.table.Rows()
	if len(rows) == 0 {
		b.WriteString(dimStyle.Render("  (no records match)"))
	}
	for _, r := range rows {
		cells := []string{
			r.County, r.Market, r.Commodity, r.Classification,
			market.FormatPrice(r.Wholesale), market.FormatPrice(r.Retail),
			r.DateString(),
		}
		for i, cell := range cells {
			b.WriteString(padOrTrunc(cell, columnWidths[i]))
			b.WriteString(" ")
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.renderPagination())
	b.WriteString(dimStyle.Render(fmt.Sprintf("  %s of %s records",
		market.FormatInt(len(m.table.Filtered())), market.FormatInt(len(m.table.All())))))
	return b.String()
}

func (m model) renderMarketsFilters() string {
	f := m.table.Filters()
	field := func(idx int, label, value string) string {
		if value == "" {
			value = "all"
		}
		if idx == m.marketsFocus {
			return fmt.Sprintf("%s %s", labelStyle.Render(label+":"), focusStyle.Render(" "+value+" "))
		}
		return fmt.Sprintf("%s %s", labelStyle.Render(label+":"), valueStyle.Render(value))
	}

	parts := []string{
		field(marketsFocusCounty, "County", f.County),
		field(marketsFocusCommodity, "Commodity", f.Commodity),
		field(marketsFocusRange, "Range", string(f.Range)),
	}
	line := "  " + strings.Join(parts, "   ")

	searchView := m.search.View()
	if !m.searching && m.search.Value() == "" {
		searchView = dimStyle.Render("/ to search")
	}
	return line + "\n  " + labelStyle.Render("Search:") + " " + searchView
}

func (m model) renderPagination() string {
	buttons := m.table.Buttons()
	if len(buttons) <= 1 {
		return ""
	}
	var b strings.Builder
	b.WriteString("  ")
	for _, btn := range buttons {
		switch {
		case btn.Page == 0:
			b.WriteString(dimStyle.Render(btn.Label))
		case btn.Current:
			b.WriteString(pageCurStyle.Render(" " + btn.Label + " "))
		default:
			b.WriteString(labelStyle.Render(" " + btn.Label + " "))
		}
	}
	b.WriteString(dimStyle.Render(fmt.Sprintf("  page %d/%d", m.table.Page(), m.table.TotalPages())))
	return b.String() + "\n"
}

// --- Predict ---

func (m model) renderPredict() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Price Prediction"))
	b.WriteString("\n\n")
	b.WriteString(m.renderSelector(m.predictSel, m.focus))

	dateView := m.dateInput.View()
	if m.focus == focusDate && !m.dateInput.Focused() {
		dateView = focusStyle.Render(" " + orPlaceholder(m.dateInput.Value(), "YYYY-MM-DD") + " ")
	}
	b.WriteString(fmt.Sprintf("\n  %s %s\n", labelStyle.Render("Date:     "), dateView))

	submit := "[ Predict ]"
	switch {
	case m.predictBusy:
		submit = warnStyle.Render("[ predicting... ]")
	case m.focus == focusSubmit:
		submit = focusStyle.Render(submit)
	default:
		submit = valueStyle.Render(submit)
	}
	b.WriteString("\n  " + submit + "\n\n")

	b.WriteString(m.renderOutcome())
	return b.String()
}

func (m model) renderOutcome() string {
	if m.outcome == nil {
		return ""
	}
	o := m.outcome

	switch {
	case o.Err != nil:
		return errStyle.Render("Unable to fetch predictions. Check your connection and try again.")
	case o.NoPredictions:
		msg := "No predictions available"
		if o.Message != "" {
			msg += ": " + o.Message
		}
		return errStyle.Render(msg) + "\n" +
			dimStyle.Render("Try a different commodity, market, or date.")
	default:
		r := o.Result
		var b strings.Builder
		b.WriteString(okStyle.Render(fmt.Sprintf("Wholesale: %s", market.FormatMoney(r.Wholesale, r.Currency))))
		b.WriteString("\n")
		b.WriteString(okStyle.Render(fmt.Sprintf("Retail:    %s", market.FormatMoney(r.Retail, r.Currency))))
		b.WriteString("\n")
		b.WriteString(dimStyle.Render(fmt.Sprintf("Market: %s, County: %s", r.Market, r.County)))
		b.WriteString("\n")
		b.WriteString(dimStyle.Render("Classification: " + r.Classification))
		return b.String()
	}
}

// --- helpers ---

func orPlaceholder(s, placeholder string) string {
	if s == "" {
		return placeholder
	}
	return s
}

// padOrTrunc pads s with spaces to width, or truncates if longer.
func padOrTrunc(s string, width int) string {
	r := []rune(s)
	if len(r) >= width {
		return string(r[:width])
	}
	return s + strings.Repeat(" ", width-len(r))
}
