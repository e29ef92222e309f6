package market

import (
	"sort"
	"time"
)

// TableView owns all mutable state of the markets table: the full record
// set, the filter/sort/pagination state, and a refresh generation counter.
// It is driven from a single event loop; every transition replaces derived
// state wholesale instead of mutating it across await points.
type TableView struct {
	all     []Record
	filters FilterState
	sorting SortState
	pager   Paginator

	// gen guards against overlapping refreshes: results are applied only
	// when their generation is still current.
	gen uint64

	now func() time.Time
}

// NewTableView creates a TableView with the given page size.
func NewTableView(perPage int) *TableView {
	return &TableView{
		pager: NewPaginator(perPage),
		now:   time.Now,
	}
}

// BeginRefresh starts a new refresh generation and returns its token. Any
// previously started refresh becomes stale.
func (v *TableView) BeginRefresh() uint64 {
	v.gen++
	return v.gen
}

// Apply installs a fetched record set if gen is still the current refresh
// generation. Stale results are discarded and Apply reports false. On
// success the filters reset to defaults and pagination returns to page 1,
// so stale filter options cannot linger.
func (v *TableView) Apply(gen uint64, records []Record) bool {
	if gen != v.gen {
		return false
	}
	v.all = records
	v.filters = FilterState{}
	v.pager.Page = 1
	return true
}

// All returns the unfiltered record set.
func (v *TableView) All() []Record { return v.all }

// Filters returns the active filter state.
func (v *TableView) Filters() FilterState { return v.filters }

// Sorting returns the active sort state.
func (v *TableView) Sorting() SortState { return v.sorting }

// Page returns the current page number.
func (v *TableView) Page() int { return v.pager.Page }

// SetFilters replaces the filter state and resets pagination to page 1.
func (v *TableView) SetFilters(f FilterState) {
	v.filters = f
	v.pager.Page = 1
}

// ToggleSort cycles the sort state on column.
func (v *TableView) ToggleSort(column Column) {
	v.sorting.Toggle(column)
}

// Filtered runs the filter and sort stages and returns the result. The
// backing array is fresh on every call; the full set is never disturbed.
func (v *TableView) Filtered() []Record {
	filtered := Filter(v.all, v.filters, v.now())
	out := make([]Record, len(filtered))
	copy(out, filtered)
	Sort(out, v.sorting)
	return out
}

// Rows returns the current page of the filtered, sorted record set.
func (v *TableView) Rows() []Record {
	return v.pager.Slice(v.Filtered())
}

// TotalPages returns the page count of the filtered set.
func (v *TableView) TotalPages() int {
	return v.pager.TotalPages(len(v.Filtered()))
}

// SetPage moves to the given page; out-of-range requests are no-ops.
func (v *TableView) SetPage(page int) bool {
	return v.pager.SetPage(page, len(v.Filtered()))
}

// Buttons returns the pagination control for the filtered set.
func (v *TableView) Buttons() []PageButton {
	return v.pager.Buttons(len(v.Filtered()))
}

// CountyOptions returns the distinct counties present in the current record
// set, sorted. Rebuilt from the data on every call so a refresh naturally
// refreshes the options.
func (v *TableView) CountyOptions() []string {
	return v.distinct(func(r Record) string { return r.County })
}

// CommodityOptions returns the distinct commodities present in the current
// record set, sorted.
func (v *TableView) CommodityOptions() []string {
	return v.distinct(func(r Record) string { return r.Commodity })
}

func (v *TableView) distinct(key func(Record) string) []string {
	seen := make(map[string]struct{})
	for _, r := range v.all {
		seen[key(r)] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
