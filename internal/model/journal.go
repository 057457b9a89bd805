package model

// JournalEntry is a visit record kept independently of the itinerary.
type JournalEntry struct {
	ID           string  `json:"id"`
	LocationName string  `json:"locationName"`
	Rating       float64 `json:"rating"`
	Note         string  `json:"note"`
	Visited      bool    `json:"visited"`
}

// JournalEntryRequest is an entry as sent by a client. An empty ID is filled
// in when the entry is added.
type JournalEntryRequest struct {
	ID           string  `json:"id" validate:"max=64"`
	LocationName string  `json:"locationName" validate:"required,min=1,max=120"`
	Rating       float64 `json:"rating" validate:"gte=0,lte=5"`
	Note         string  `json:"note" validate:"max=2000"`
	Visited      bool    `json:"visited"`
}

func (r JournalEntryRequest) Entry() JournalEntry {
	return JournalEntry{
		ID:           r.ID,
		LocationName: r.LocationName,
		Rating:       r.Rating,
		Note:         r.Note,
		Visited:      r.Visited,
	}
}
