package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"agridash/internal/api"
	"agridash/internal/config"
	"agridash/internal/market"
	"agridash/internal/predict"
	"agridash/internal/refdata"
	"agridash/internal/selector"
	"agridash/internal/trend"
	"agridash/internal/util"
)

// Dashboard sections, in tab order.
type section int

const (
	sectionHome section = iota
	sectionAnalytics
	sectionMarkets
	sectionPredict
	sectionCount
)

func (s section) title() string {
	switch s {
	case sectionHome:
		return "Home"
	case sectionAnalytics:
		return "Analytics"
	case sectionMarkets:
		return "Markets"
	case sectionPredict:
		return "Predict"
	default:
		return "?"
	}
}

// Messages.

type refLoadedMsg struct {
	ref *refdata.Map
	err error
}

type snapshotMsg struct {
	gen     uint64
	records []market.Record
}

type trendMsg struct {
	commodity string
	series    *trend.Series
	err       error
}

type predictMsg struct {
	outcome predict.Outcome
}

type exportDoneMsg struct {
	path string
	err  error
}

// Focusable controls per section.
const (
	focusCounty = iota
	focusMarket
	focusCommodity
	focusDate   // predict only
	focusSubmit // predict only
)

const (
	marketsFocusCounty = iota
	marketsFocusCommodity
	marketsFocusRange
	marketsFocusCount
)

type model struct {
	cfg    *config.Config
	client *api.Client
	logger *slog.Logger
	loader *refdata.Loader

	ref    *refdata.Map
	refErr error

	section       section
	focus         int
	width, height int
	viewport      viewport.Model
	ready         bool

	// One independent cascade per section; sections never share selection
	// state.
	homeSel      *selector.Cascade
	analyticsSel *selector.Cascade
	predictSel   *selector.Cascade

	// Analytics.
	priceType    trend.PriceType
	trendDays    int
	series       *trend.Series
	trendLabel   string
	trendLoading bool
	exportNote   string

	// Markets.
	table          *market.TableView
	marketsLoading bool
	marketsFocus   int
	search         textinput.Model
	searching      bool

	// Predict.
	dateInput   textinput.Model
	predictBusy bool
	outcome     *predict.Outcome
}

const trendNeutralLabel = "Select county, market and commodity, then press enter"

func initialModel(cfg *config.Config, client *api.Client, loader *refdata.Loader, logger *slog.Logger) model {
	search := textinput.New()
	search.Placeholder = "search county, market, commodity..."
	search.CharLimit = 60

	dateInput := textinput.New()
	dateInput.Placeholder = "YYYY-MM-DD (optional)"
	dateInput.CharLimit = 10

	return model{
		cfg:        cfg,
		client:     client,
		logger:     logger,
		loader:     loader,
		priceType:  trend.Wholesale,
		trendDays:  cfg.Trend.DefaultDays,
		trendLabel: trendNeutralLabel,
		table:      market.NewTableView(cfg.Markets.PageSize),
		search:     search,
		dateInput:  dateInput,
	}
}

func (m model) Init() tea.Cmd {
	loader := m.loader
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		loader.Load(ctx)
		ref, err := loader.Wait(ctx)
		return refLoadedMsg{ref: ref, err: err}
	}
}

// refreshMarkets starts a snapshot fetch for the current table generation.
func (m *model) refreshMarkets() tea.Cmd {
	if m.ref == nil || m.marketsLoading {
		return nil
	}
	m.marketsLoading = true
	gen := m.table.BeginRefresh()

	client := m.client
	ref := m.ref
	opts := market.FetchOptions{
		Workers: m.cfg.Markets.FetchWorkers,
		Limiter: util.NewRateLimiter(m.cfg.Markets.RateLimitPerMin),
	}
	log := m.logger
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		return snapshotMsg{gen: gen, records: market.FetchSnapshot(ctx, client, ref, opts, log)}
	}
}

// requestTrend fetches the analytics series on explicit user action.
func (m *model) requestTrend() tea.Cmd {
	county := m.analyticsSel.County()
	mkt := m.analyticsSel.Market()
	commodity := m.analyticsSel.Commodity()
	if county == "" || mkt == "" || commodity == "" {
		m.logger.Debug("trend request ignored, incomplete selection",
			"county", county, "market", mkt, "commodity", commodity)
		return nil
	}

	// Loading state keeps the previous series on screen to avoid flicker.
	m.trendLoading = true
	m.trendLabel = fmt.Sprintf("Loading %s data...", commodity)

	client := m.client
	days := m.trendDays
	pt := m.priceType
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		s, err := trend.Fetch(ctx, client, county, mkt, commodity, days, pt)
		return trendMsg{commodity: commodity, series: s, err: err}
	}
}

// resetTrend puts the chart back into its neutral state. Called whenever an
// analytics selector changes so a stale series is never left standing.
func (m *model) resetTrend() {
	m.series = nil
	m.trendLabel = trendNeutralLabel
	m.trendLoading = false
	m.exportNote = ""
}

func (m *model) submitPrediction() tea.Cmd {
	if m.predictBusy {
		return nil
	}
	m.predictBusy = true
	m.outcome = nil

	client := m.client
	commodity := m.predictSel.Commodity()
	county := m.predictSel.County()
	mkt := m.predictSel.Market()
	date := m.dateInput.Value()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return predictMsg{outcome: predict.Submit(ctx, client, commodity, county, mkt, date)}
	}
}

func (m *model) exportChart() tea.Cmd {
	if m.series == nil {
		return nil
	}
	s := m.series
	path := fmt.Sprintf("%s-%s-%s.png", s.Commodity, s.PriceType, time.Now().Format("20060102-150405"))
	return func() tea.Msg {
		f, err := os.Create(path)
		if err != nil {
			return exportDoneMsg{path: path, err: err}
		}
		defer f.Close()
		return exportDoneMsg{path: path, err: trend.RenderPNG(f, s)}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		vpHeight := m.height - 3 // tab bar + footer
		if vpHeight < 1 {
			vpHeight = 1
		}
		if !m.ready {
			m.viewport = viewport.New(m.width, vpHeight)
			m.ready = true
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = vpHeight
		}
		m.viewport.SetContent(m.renderContent())
		return m, nil

	case refLoadedMsg:
		if msg.err != nil {
			m.refErr = msg.err
			m.syncViewport()
			return m, nil
		}
		m.ref = msg.ref
		m.homeSel = selector.New(m.ref)
		m.analyticsSel = selector.New(m.ref)
		m.predictSel = selector.New(m.ref)
		cmd := m.refreshMarkets()
		m.syncViewport()
		return m, cmd

	case snapshotMsg:
		m.marketsLoading = false
		if !m.table.Apply(msg.gen, msg.records) {
			m.logger.Info("discarded stale market snapshot", "generation", msg.gen)
			return m, nil
		}
		m.logger.Info("market table refreshed", "records", len(msg.records))
		m.syncViewport()
		return m, nil

	case trendMsg:
		m.trendLoading = false
		if msg.err != nil {
			// Label-only failure: the previous series stays on screen.
			m.trendLabel = fmt.Sprintf("Error loading %s data", msg.commodity)
			m.logger.Warn("trend fetch failed", "commodity", msg.commodity, "error", msg.err)
		} else {
			m.series = msg.series
			m.trendLabel = fmt.Sprintf("%s prices (%s)", msg.commodity, m.priceType)
		}
		m.syncViewport()
		return m, nil

	case predictMsg:
		m.predictBusy = false
		m.outcome = &msg.outcome
		if msg.outcome.Err != nil {
			m.logger.Warn("prediction failed", "error", msg.outcome.Err)
		}
		m.syncViewport()
		return m, nil

	case exportDoneMsg:
		if msg.err != nil {
			m.exportNote = "export failed: " + msg.err.Error()
			m.logger.Error("chart export failed", "path", msg.path, "error", msg.err)
		} else {
			m.exportNote = "chart saved to " + msg.path
			m.logger.Info("chart exported", "path", msg.path)
		}
		m.syncViewport()
		return m, nil
	}

	var cmd tea.Cmd
	if m.ready {
		m.viewport, cmd = m.viewport.Update(msg)
	}
	return m, cmd
}

func (m *model) syncViewport() {
	if m.ready {
		m.viewport.SetContent(m.renderContent())
	}
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Text inputs capture everything except escape/enter while focused.
	if m.searching {
		switch msg.String() {
		case "esc", "enter":
			m.searching = false
			m.search.Blur()
		default:
			var cmd tea.Cmd
			m.search, cmd = m.search.Update(msg)
			f := m.table.Filters()
			f.Search = m.search.Value()
			m.table.SetFilters(f)
			m.syncViewport()
			return m, cmd
		}
		m.syncViewport()
		return m, nil
	}
	if m.section == sectionPredict && m.focus == focusDate && m.dateInput.Focused() {
		switch msg.String() {
		case "esc":
			m.dateInput.Blur()
			m.syncViewport()
			return m, nil
		case "enter":
			m.dateInput.Blur()
			cmd := m.submitPrediction()
			m.syncViewport()
			return m, cmd
		case "up", "down", "tab":
			m.dateInput.Blur()
			// Re-dispatch as plain navigation below.
		default:
			var cmd tea.Cmd
			m.dateInput, cmd = m.dateInput.Update(msg)
			m.syncViewport()
			return m, cmd
		}
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "tab":
		m.section = (m.section + 1) % sectionCount
		m.focus = 0
		m.syncViewport()
		return m, nil
	case "shift+tab":
		m.section = (m.section + sectionCount - 1) % sectionCount
		m.focus = 0
		m.syncViewport()
		return m, nil
	}

	if m.ref == nil {
		return m, nil
	}

	var cmd tea.Cmd
	switch m.section {
	case sectionHome:
		cmd = m.handleSelectorKey(msg, m.homeSel, 3, nil)
	case sectionAnalytics:
		cmd = m.handleAnalyticsKey(msg)
	case sectionMarkets:
		cmd = m.handleMarketsKey(msg)
	case sectionPredict:
		cmd = m.handlePredictKey(msg)
	}
	m.syncViewport()
	return m, cmd
}

// handleSelectorKey implements focus movement and option cycling over a
// cascade. onChange runs after any selection change.
func (m *model) handleSelectorKey(msg tea.KeyMsg, sel *selector.Cascade, focusables int, onChange func()) tea.Cmd {
	switch msg.String() {
	case "up":
		if m.focus > 0 {
			m.focus--
		}
	case "down":
		if m.focus < focusables-1 {
			m.focus++
		}
	case "left", "right":
		delta := 1
		if msg.String() == "left" {
			delta = -1
		}
		m.cycleSelector(sel, delta)
		if onChange != nil {
			onChange()
		}
	case "esc":
		sel.Reset()
		m.focus = 0
		if onChange != nil {
			onChange()
		}
	}
	return nil
}

// cycleSelector steps the focused stage through its options. Index 0 is the
// empty "-- Select --" value, which deselects the stage and everything
// below it.
func (m *model) cycleSelector(sel *selector.Cascade, delta int) {
	switch m.focus {
	case focusCounty:
		sel.SetCounty(cycleOption(sel.County(), sel.CountyOptions(), delta))
	case focusMarket:
		sel.SetMarket(cycleOption(sel.Market(), sel.MarketOptions(), delta))
	case focusCommodity:
		sel.SetCommodity(cycleOption(sel.Commodity(), sel.CommodityOptions(), delta))
	}
}

// cycleOption steps through options with an implicit empty value at the
// front, wrapping at both ends.
func cycleOption(current string, options []string, delta int) string {
	if len(options) == 0 {
		return ""
	}
	idx := 0
	for i, o := range options {
		if o == current {
			idx = i + 1
			break
		}
	}
	idx = (idx + delta + len(options) + 1) % (len(options) + 1)
	if idx == 0 {
		return ""
	}
	return options[idx-1]
}

func (m *model) handleAnalyticsKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "enter":
		return m.requestTrend()
	case "p":
		if m.priceType == trend.Wholesale {
			m.priceType = trend.Retail
		} else {
			m.priceType = trend.Wholesale
		}
		m.resetTrend()
		return nil
	case "+", "=":
		m.trendDays += 7
		return nil
	case "-":
		if m.trendDays > 7 {
			m.trendDays -= 7
		}
		return nil
	case "e":
		return m.exportChart()
	}
	return m.handleSelectorKey(msg, m.analyticsSel, 3, m.resetTrend)
}

var sortColumns = []market.Column{
	market.ColCounty,
	market.ColMarket,
	market.ColCommodity,
	market.ColClassification,
	market.ColWholesale,
	market.ColRetail,
	market.ColDate,
}

func (m *model) handleMarketsKey(msg tea.KeyMsg) tea.Cmd {
	switch key := msg.String(); key {
	case "r":
		return m.refreshMarkets()
	case "/":
		m.searching = true
		m.search.Focus()
		return nil
	case "up":
		if m.marketsFocus > 0 {
			m.marketsFocus--
		}
		return nil
	case "down":
		if m.marketsFocus < marketsFocusCount-1 {
			m.marketsFocus++
		}
		return nil
	case "left", "right":
		delta := 1
		if key == "left" {
			delta = -1
		}
		m.cycleMarketsFilter(delta)
		return nil
	case "n":
		m.table.SetPage(m.table.Page() + 1)
		return nil
	case "b":
		m.table.SetPage(m.table.Page() - 1)
		return nil
	case "1", "2", "3", "4", "5", "6", "7":
		idx := int(key[0] - '1')
		m.table.ToggleSort(sortColumns[idx])
		return nil
	case "esc":
		m.table.SetFilters(market.FilterState{})
		m.search.SetValue("")
		return nil
	}
	return nil
}

func (m *model) cycleMarketsFilter(delta int) {
	f := m.table.Filters()
	switch m.marketsFocus {
	case marketsFocusCounty:
		f.County = cycleOption(f.County, m.table.CountyOptions(), delta)
	case marketsFocusCommodity:
		f.Commodity = cycleOption(f.Commodity, m.table.CommodityOptions(), delta)
	case marketsFocusRange:
		ranges := []string{string(market.DateToday), string(market.DateWeek), string(market.DateMonth)}
		f.Range = market.DateRange(cycleOption(string(f.Range), ranges, delta))
	}
	m.table.SetFilters(f)
}

func (m *model) handlePredictKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "up":
		if m.focus > 0 {
			m.focus--
		}
		if m.focus != focusDate {
			m.dateInput.Blur()
		}
		return nil
	case "down", "tab":
		if m.focus < focusSubmit {
			m.focus++
		}
		return nil
	case "enter":
		if m.focus == focusDate {
			m.dateInput.Focus()
			return nil
		}
		if m.focus == focusSubmit {
			return m.submitPrediction()
		}
		return nil
	case "left", "right":
		if m.focus <= focusCommodity {
			delta := 1
			if msg.String() == "left" {
				delta = -1
			}
			m.cycleSelector(m.predictSel, delta)
		}
		return nil
	case "esc":
		m.predictSel.Reset()
		m.dateInput.SetValue("")
		m.outcome = nil
		m.focus = 0
		return nil
	}
	return nil
}

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading config: %v\n", err)
		os.Exit(1)
	}

	// The TUI owns the terminal; log to file only.
	logger := util.NewFileLogger(cfg.Logging.Level, cfg.Logging.File)
	util.SetDefault(logger)
	logger.Info("agridash starting", "api", cfg.API.BaseURL)

	client := api.NewClient(cfg.API.BaseURL, cfg.API.Timeout(), logger)
	loader := refdata.NewLoader(cfg.Reference.Path, logger)

	p := tea.NewProgram(
		initialModel(cfg, client, loader, logger),
		tea.WithAltScreen(),
	)
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
