// Package market implements the market price table: a snapshot fetch over
// every (county, market, commodity) combination followed by a pure
// filter/sort/paginate pipeline over the in-memory record set.
package market

import (
	"time"

	"github.com/shopspring/decimal"
)

// dateLayout is the calendar date format used by the prediction API.
const dateLayout = "2006-01-02"

// Record is one current market price row. Records are ephemeral: the whole
// set is replaced on every refresh and never mutated in place.
type Record struct {
	County         string
	Market         string
	Commodity      string
	Classification string
	Wholesale      decimal.Decimal
	Retail         decimal.Decimal
	Date           time.Time
	Currency       string
}

// DateString renders the record date as an ISO calendar date.
func (r Record) DateString() string {
	return r.Date.Format(dateLayout)
}
