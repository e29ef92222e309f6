package market

import (
	"reflect"
	"testing"
)

func viewFixture() []Record {
	return []Record{
		rec("Nairobi", "Wakulima", "Maize", "Cereals", "2024-03-15"),
		rec("Nairobi", "Gikomba", "Beans", "Legumes", "2024-03-10"),
		rec("Kisumu", "Kibuye", "Fish", "Fisheries", "2024-03-01"),
	}
}

func TestApplyResetsState(t *testing.T) {
	v := NewTableView(10)
	gen := v.BeginRefresh()
	v.Apply(gen, viewFixture())

	v.SetFilters(FilterState{County: "Nairobi"})
	v.SetPage(1)

	gen = v.BeginRefresh()
	if !v.Apply(gen, viewFixture()[:1]) {
		t.Fatal("current generation rejected")
	}
	if !v.Filters().IsZero() {
		t.Error("filters not reset on refresh")
	}
	if v.Page() != 1 {
		t.Error("page not reset on refresh")
	}
	if len(v.All()) != 1 {
		t.Error("record set not replaced wholesale")
	}
}

// A refresh started later supersedes an earlier one; the earlier result must
// be discarded even if it settles last.
func TestStaleGenerationDiscarded(t *testing.T) {
	v := NewTableView(10)

	first := v.BeginRefresh()
	second := v.BeginRefresh()

	if !v.Apply(second, viewFixture()) {
		t.Fatal("newest generation rejected")
	}
	if v.Apply(first, nil) {
		t.Fatal("stale generation applied")
	}
	if len(v.All()) != 3 {
		t.Errorf("stale apply clobbered the record set: %d records", len(v.All()))
	}
}

func TestFilterChangeResetsPage(t *testing.T) {
	v := NewTableView(1)
	gen := v.BeginRefresh()
	v.Apply(gen, viewFixture())

	v.SetPage(3)
	if v.Page() != 3 {
		t.Fatalf("page = %d, want 3", v.Page())
	}

	v.SetFilters(FilterState{Search: "maize"})
	if v.Page() != 1 {
		t.Errorf("page = %d after filter change, want 1", v.Page())
	}
}

func TestOptionsRebuiltFromData(t *testing.T) {
	v := NewTableView(10)
	gen := v.BeginRefresh()
	v.Apply(gen, viewFixture())

	if got, want := v.CountyOptions(), []string{"Kisumu", "Nairobi"}; !reflect.DeepEqual(got, want) {
		t.Errorf("CountyOptions = %v, want %v", got, want)
	}

	// A refresh that drops Kisumu must drop it from the options too.
	gen = v.BeginRefresh()
	v.Apply(gen, viewFixture()[:2])
	if got, want := v.CountyOptions(), []string{"Nairobi"}; !reflect.DeepEqual(got, want) {
		t.Errorf("stale county option lingers: %v, want %v", got, want)
	}
	if got, want := v.CommodityOptions(), []string{"Beans", "Maize"}; !reflect.DeepEqual(got, want) {
		t.Errorf("CommodityOptions = %v, want %v", got, want)
	}
}

func TestRowsPipeline(t *testing.T) {
	v := NewTableView(2)
	gen := v.BeginRefresh()
	v.Apply(gen, viewFixture())

	v.ToggleSort(ColCommodity)
	rows := v.Rows()
	if len(rows) != 2 {
		t.Fatalf("page 1: got %d rows, want 2", len(rows))
	}
	if rows[0].Commodity != "Beans" || rows[1].Commodity != "Fish" {
		t.Errorf("page 1 rows: %v", order(rows))
	}

	if v.TotalPages() != 2 {
		t.Errorf("TotalPages = %d, want 2", v.TotalPages())
	}
	if !v.SetPage(2) {
		t.Fatal("SetPage(2) rejected")
	}
	rows = v.Rows()
	if len(rows) != 1 || rows[0].Commodity != "Maize" {
		t.Errorf("page 2 rows: %v", order(rows))
	}
}
