// Package seed holds the static festival data used as defaults.
package seed

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/bwise1/viff_planner/internal/model"
)

// VIFFVenues are the festival screening venues the itinerary falls back to.
var VIFFVenues = []model.Venue{
	{Name: "VIFF Centre", Address: "1181 Seymour St, Vancouver, BC"},
	{Name: "The Cinematheque", Address: "1131 Howe St, Vancouver, BC"},
	{Name: "Rio Theatre", Address: "1660 E Broadway St, Vancouver, BC"},
	{Name: "International Village", Address: "88 W Pender St, Vancouver, BC"},
	{Name: "Fifth Avenue Cinemas", Address: "2110 Burrard St, Vancouver, BC"},
	{Name: "The Vancouver Playhouse", Address: "600 Hamilton St, Vancouver, BC"},
	{Name: "SFU's Goldcorp Centre for the Arts", Address: "149 W Hastings St, Vancouver, BC"},
}

//go:embed sample_journal.json
var sampleJournal []byte

// SampleJournal decodes the bundled sample journal.
func SampleJournal() ([]model.JournalEntry, error) {
	var entries []model.JournalEntry
	if err := json.Unmarshal(sampleJournal, &entries); err != nil {
		return nil, fmt.Errorf("decoding sample journal: %w", err)
	}
	return entries, nil
}
