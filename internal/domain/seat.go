package domain

import "fmt"

// Shared shuttle layout: 10 rows, columns A-B left of the aisle, C-D-E right.
const (
	SeatRows    = 10
	SeatColumns = "ABCDE"
)

// ValidSeat reports whether id names a seat in the 50-seat layout,
// e.g. "A1" or "E10".
func ValidSeat(id string) bool {
	if len(id) < 2 || len(id) > 3 {
		return false
	}
	col := id[0]
	known := false
	for i := 0; i < len(SeatColumns); i++ {
		if SeatColumns[i] == col {
			known = true
			break
		}
	}
	if !known {
		return false
	}
	if id[1] == '0' {
		return false
	}
	row := 0
	for i := 1; i < len(id); i++ {
		c := id[i]
		if c < '0' || c > '9' {
			return false
		}
		row = row*10 + int(c-'0')
	}
	return row >= 1 && row <= SeatRows
}

// SeatIDs enumerates the layout row by row: A1, B1, ..., E1, A2, ...
func SeatIDs() []string {
	ids := make([]string, 0, SeatRows*len(SeatColumns))
	for row := 1; row <= SeatRows; row++ {
		for i := 0; i < len(SeatColumns); i++ {
			ids = append(ids, fmt.Sprintf("%c%d", SeatColumns[i], row))
		}
	}
	return ids
}
