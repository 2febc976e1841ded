package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// CatalogTable names a record store table that holds rentable items.
type CatalogTable string

const (
	TableEquipment    CatalogTable = "equipment"
	TableConsumables  CatalogTable = "consumables"
	TableMeetingRooms CatalogTable = "meeting_rooms"
)

// CatalogTables lists every table items can be rented from.
func CatalogTables() []CatalogTable {
	return []CatalogTable{TableEquipment, TableConsumables, TableMeetingRooms}
}

// Valid reports whether t is a known catalog table.
func (t CatalogTable) Valid() bool {
	for _, known := range CatalogTables() {
		if t == known {
			return true
		}
	}
	return false
}

// CatalogItem is a rentable entry. TotalStock is already coerced to a
// non-negative integer ceiling.
type CatalogItem struct {
	ID         string       `json:"id"`
	Name       string       `json:"name"`
	Table      CatalogTable `json:"table"`
	TotalStock int          `json:"total_stock"`
}

// CoerceStock turns a loosely typed stock field into a quantity ceiling.
// Numbers and numeric strings are accepted, fractional values are floored,
// and anything unparsable, negative or non-finite yields 0 so that no
// quantity fits under it.
func CoerceStock(v any) int {
	var f float64
	switch t := v.(type) {
	case nil:
		return 0
	case int:
		f = float64(t)
	case int32:
		f = float64(t)
	case int64:
		f = float64(t)
	case float32:
		f = float64(t)
	case float64:
		f = t
	case string:
		f = parseStock(t)
	case fmt.Stringer:
		f = parseStock(t.String())
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
		return 0
	}
	if f >= float64(math.MaxInt) {
		return math.MaxInt
	}
	return int(math.Floor(f))
}

func parseStock(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return f
}
