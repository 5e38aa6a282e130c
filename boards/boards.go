// Package boards provides the sticker board domain: the persisted board
// document, its stores and the service mutating it.
package boards

// Sticker is a single note on a board.
type Sticker struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Document maps board ids to their stickers in display order. It is the
// unit of persistence, stores always load and save it whole.
type Document map[string][]Sticker

// Board returns the stickers of board id. Unknown boards read as empty.
func (d Document) Board(id string) []Sticker {
	stickers, ok := d[id]
	if !ok || stickers == nil {
		return []Sticker{}
	}
	out := make([]Sticker, len(stickers))
	copy(out, stickers)
	return out
}

// normalize replaces nil boards with empty ones so they encode as [].
func (d Document) normalize() {
	for id, stickers := range d {
		if stickers == nil {
			d[id] = []Sticker{}
		}
	}
}

func indexOf(stickers []Sticker, id int64) int {
	for i, s := range stickers {
		if s.ID == id {
			return i
		}
	}
	return -1
}

// Seed returns the document written on first start.
func Seed() Document {
	return Document{
		"main": {
			{ID: 1, Title: "Idea 1", Content: "Description of idea 1..."},
			{ID: 2, Title: "Idea 2", Content: "Description of idea 2..."},
			{ID: 3, Title: "Idea 3", Content: "Description of idea 3..."},
		},
		"1": {
			{ID: 101, Title: "Task 1", Content: "Task 1 details"},
			{ID: 102, Title: "Task 2", Content: "Task 2 details"},
		},
		"2": {
			{ID: 201, Title: "Plan 1", Content: "Step 1, Step 2..."},
		},
		"3": {},
	}
}
