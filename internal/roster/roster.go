// Package roster holds the static player list used to decide which shots
// are kept at fetch time.
//
// Only shots taken by listed players are persisted. That keeps the flat
// files club-focused, but it also means the dashboard's "all teams" view
// never shows opposition shooters.
package roster

import "sort"

// Positions.
const (
	Forward    = "FW"
	Midfielder = "MF"
	Defender   = "DF"
	Goalkeeper = "GK"
)

// Entry is one roster line. Position and Value are informational; only
// Name takes part in filtering.
type Entry struct {
	Name     string
	Position string
	Value    float64
}

// Roster is an immutable set of entries with name lookup.
type Roster struct {
	entries []Entry
	byName  map[string]int
}

// New builds a roster. Later duplicates of a name replace earlier ones.
func New(entries []Entry) *Roster {
	r := &Roster{
		entries: make([]Entry, 0, len(entries)),
		byName:  make(map[string]int, len(entries)),
	}
	for _, e := range entries {
		if i, ok := r.byName[e.Name]; ok {
			r.entries[i] = e
			continue
		}
		r.byName[e.Name] = len(r.entries)
		r.entries = append(r.entries, e)
	}
	return r
}

// Default returns the Tottenham roster the shot files are built from.
func Default() *Roster {
	return New(tottenham)
}

// Contains reports whether name is listed. Matching is exact, diacritics
// included.
func (r *Roster) Contains(name string) bool {
	_, ok := r.byName[name]
	return ok
}

// Lookup returns the entry for name.
func (r *Roster) Lookup(name string) (Entry, bool) {
	i, ok := r.byName[name]
	if !ok {
		return Entry{}, false
	}
	return r.entries[i], true
}

// Len returns the number of listed players.
func (r *Roster) Len() int { return len(r.entries) }

// Entries returns a copy of the roster in declaration order.
func (r *Roster) Entries() []Entry {
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// ByPosition returns the names listed for a position, sorted.
func (r *Roster) ByPosition(position string) []string {
	var names []string
	for _, e := range r.entries {
		if e.Position == position {
			names = append(names, e.Name)
		}
	}
	sort.Strings(names)
	return names
}

var tottenham = []Entry{
	// Forwards
	{"Richarlison", Forward, 0.51},
	{"Dominic Solanke", Forward, 0.39},
	{"Heung-Min Son", Forward, 0.31},
	{"Dejan Kulusevski", Forward, 0.30},
	{"Timo Werner", Forward, 0.00},
	{"Wilson Odobert", Forward, 0.00},
	{"William Lankshear", Forward, 0.00},
	{"Dane Scarlett", Forward, 0.00},
	{"Mathys Tel", Forward, 0.00},
	{"Brennan Johnson", Forward, 0.00},

	// Midfielders
	{"Mikey Moore", Midfielder, 0.49},
	{"James Maddison", Midfielder, 0.32},
	{"Pape Matar Sarr", Midfielder, 0.14},
	{"Rodrigo Bentancur", Midfielder, 0.00},
	{"Archie Gray", Midfielder, 0.00},
	{"Lucas Bergvall", Midfielder, 0.00},
	{"Yves Bissouma", Midfielder, 0.00},

	// Defenders
	{"Alfie Dorrington", Defender, 0.00},
	{"Kevin Danso", Defender, 0.54},
	{"Sergio Reguilón", Defender, 0.75},
	{"Ben Davies", Defender, 1.00},
	{"Cristian Romero", Defender, 1.20},
	{"Mickey van de Ven", Defender, 1.25},
	{"Destiny Udogie", Defender, 1.32},
	{"Pedro Porro", Defender, 1.50},
	{"Djed Spence", Defender, 1.57},
	{"Radu Drăgușin", Defender, 2.08},

	// Goalkeepers
	{"Guglielmo Vicario", Goalkeeper, 1.00},
	{"Antonin Kinsky", Goalkeeper, 1.75},
	{"Brandon Austin", Goalkeeper, 2.00},
}
