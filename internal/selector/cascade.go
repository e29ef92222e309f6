// Package selector implements the cascading county/market/commodity
// selection used by every dashboard section. Each section owns an
// independent Cascade; sections never share selection state.
package selector

import "agridash/internal/refdata"

// Stage identifies how far down the hierarchy a selection has progressed.
type Stage int

const (
	NoneSelected Stage = iota
	CountySelected
	MarketSelected
	CommoditySelected
)

// Cascade is a three-stage selection state machine over the reference
// hierarchy. Choosing a value at one stage narrows the options of the next;
// changing or clearing a parent invalidates all descendant selections.
type Cascade struct {
	ref *refdata.Map

	county    string
	market    string
	commodity string
}

// New creates a Cascade over the given reference data.
func New(ref *refdata.Map) *Cascade {
	return &Cascade{ref: ref}
}

// County, Market and Commodity return the current selection. Empty string
// means unselected.
func (c *Cascade) County() string    { return c.county }
func (c *Cascade) Market() string    { return c.market }
func (c *Cascade) Commodity() string { return c.commodity }

// Stage reports the deepest fully selected stage.
func (c *Cascade) Stage() Stage {
	switch {
	case c.commodity != "":
		return CommoditySelected
	case c.market != "":
		return MarketSelected
	case c.county != "":
		return CountySelected
	default:
		return NoneSelected
	}
}

// SetCounty selects a county. The empty value deselects the stage. Either
// way the market and commodity selections are cleared.
func (c *Cascade) SetCounty(county string) {
	c.county = county
	c.market = ""
	c.commodity = ""
}

// SetMarket selects a market under the current county. Ignored when no
// county is selected. The commodity selection is cleared.
func (c *Cascade) SetMarket(market string) {
	if c.county == "" {
		return
	}
	c.market = market
	c.commodity = ""
}

// SetCommodity selects a commodity under the current county and market.
// Ignored unless both parents are selected.
func (c *Cascade) SetCommodity(commodity string) {
	if c.county == "" || c.market == "" {
		return
	}
	c.commodity = commodity
}

// Reset clears the whole selection.
func (c *Cascade) Reset() {
	c.county = ""
	c.market = ""
	c.commodity = ""
}

// CountyOptions returns the selectable counties, sorted.
func (c *Cascade) CountyOptions() []string {
	return c.ref.Counties()
}

// MarketOptions returns the markets reachable under the selected county, or
// nil when no county is selected.
func (c *Cascade) MarketOptions() []string {
	if c.county == "" {
		return nil
	}
	return c.ref.Markets(c.county)
}

// CommodityOptions returns the commodities reachable under the selected
// county and market, or nil before both are selected.
func (c *Cascade) CommodityOptions() []string {
	if c.county == "" || c.market == "" {
		return nil
	}
	return c.ref.CommoditiesFor(c.county, c.market)
}
