package dashboard

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/albapepper/shotmap/internal/provider"
)

// Sortable table columns.
const (
	ColumnPlayer     = "player"
	ColumnMinute     = "minute"
	ColumnResult     = "result"
	ColumnXG         = "xg"
	ColumnSituation  = "situation"
	ColumnAssistedBy = "assisted_by"
)

// Column describes a table header.
type Column struct {
	Key   string
	Title string
}

// Columns is the table layout in display order.
var Columns = []Column{
	{ColumnPlayer, "Player"},
	{ColumnMinute, "Minute"},
	{ColumnResult, "Result"},
	{ColumnXG, "xG"},
	{ColumnSituation, "Situation"},
	{ColumnAssistedBy, "Assisted By"},
}

// Row is one table line.
type Row struct {
	Player     string  `json:"player"`
	Minute     int     `json:"minute"`
	Result     string  `json:"result"`
	XG         float64 `json:"xG"`
	Situation  string  `json:"situation"`
	AssistedBy string  `json:"assisted_by"`
}

// MinuteLabel renders the minute as NN'.
func (r Row) MinuteLabel() string { return fmt.Sprintf("%d'", r.Minute) }

// XGLabel renders xG to three decimals.
func (r Row) XGLabel() string { return fmt.Sprintf("%.3f", r.XG) }

// Sort is a validated sort order.
type Sort struct {
	Column string
	Desc   bool
}

// ParseSort validates a column key and order. Unknown columns fall back
// to minute, and anything but "desc" is ascending.
func ParseSort(column, order string) Sort {
	s := Sort{Column: ColumnMinute, Desc: strings.EqualFold(order, "desc")}
	for _, c := range Columns {
		if c.Key == column {
			s.Column = column
			break
		}
	}
	return s
}

// Table builds sorted rows from filtered shots. Ties keep file order.
func Table(shots []provider.Shot, order Sort) []Row {
	rows := make([]Row, len(shots))
	for i, s := range shots {
		rows[i] = Row{
			Player:     s.Player,
			Minute:     s.Minute,
			Result:     s.Result,
			XG:         math.Round(s.XG*1000) / 1000,
			Situation:  s.Situation,
			AssistedBy: s.PlayerAssisted,
		}
	}

	less := lessFunc(order.Column)
	sort.SliceStable(rows, func(i, j int) bool {
		if order.Desc {
			return less(rows[j], rows[i])
		}
		return less(rows[i], rows[j])
	})
	return rows
}

func lessFunc(column string) func(a, b Row) bool {
	switch column {
	case ColumnPlayer:
		return func(a, b Row) bool { return a.Player < b.Player }
	case ColumnResult:
		return func(a, b Row) bool { return a.Result < b.Result }
	case ColumnXG:
		return func(a, b Row) bool { return a.XG < b.XG }
	case ColumnSituation:
		return func(a, b Row) bool { return a.Situation < b.Situation }
	case ColumnAssistedBy:
		return func(a, b Row) bool { return a.AssistedBy < b.AssistedBy }
	default:
		return func(a, b Row) bool { return a.Minute < b.Minute }
	}
}
