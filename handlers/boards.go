package handlers

import (
	"net/http"

	"github.com/flow-hydraulics/sticker-board/boards"
	"github.com/gorilla/mux"
)

// Boards is a HTTP server for sticker board management.
// It provides board details and sticker create, update and delete APIs.
type Boards struct {
	service *boards.Service
}

// StickerRequest represents a JSON payload for sticker create and update.
// Both fields must be present, empty strings are accepted.
type StickerRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

// NewBoards initiates a new boards server.
func NewBoards(service *boards.Service) *Boards {
	return &Boards{service}
}

func (s *Boards) Details() http.Handler {
	return http.HandlerFunc(s.DetailsFunc)
}

func (s *Boards) CreateSticker() http.Handler {
	h := http.HandlerFunc(s.CreateStickerFunc)
	return UseJson(h)
}

func (s *Boards) UpdateSticker() http.Handler {
	h := http.HandlerFunc(s.UpdateStickerFunc)
	return UseJson(h)
}

func (s *Boards) DeleteSticker() http.Handler {
	return http.HandlerFunc(s.DeleteStickerFunc)
}

// Register adds the board routes to r.
func (s *Boards) Register(r *mux.Router) {
	r.Handle("/board/{boardId}", s.Details()).Methods(http.MethodGet)                        // details
	r.Handle("/sticker/{boardId}", s.CreateSticker()).Methods(http.MethodPost)               // create
	r.Handle("/sticker/{boardId}/{stickerId}", s.UpdateSticker()).Methods(http.MethodPut)    // update
	r.Handle("/sticker/{boardId}/{stickerId}", s.DeleteSticker()).Methods(http.MethodDelete) // delete
}
