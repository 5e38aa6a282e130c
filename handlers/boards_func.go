package handlers

import (
	"net/http"

	"github.com/flow-hydraulics/sticker-board/errors"
	"github.com/gorilla/mux"
)

// DetailsFunc returns the stickers of a board, an empty list for unknown
// boards.
func (s *Boards) DetailsFunc(rw http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	res, err := s.service.Board(r.Context(), vars["boardId"])
	if err != nil {
		handleError(rw, r, err, "Failed to read board")
		return
	}

	handleJsonResponse(rw, http.StatusOK, res)
}

// CreateStickerFunc appends a sticker to a board and returns it with its
// generated id.
func (s *Boards) CreateStickerFunc(rw http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	title, content, err := decodeStickerRequest(rw, r)
	if err != nil {
		handleError(rw, r, err, "Failed to add sticker")
		return
	}

	res, err := s.service.CreateSticker(r.Context(), vars["boardId"], title, content)
	if err != nil {
		handleError(rw, r, err, "Failed to add sticker")
		return
	}

	handleJsonResponse(rw, http.StatusOK, res)
}

func (s *Boards) UpdateStickerFunc(rw http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	title, content, err := decodeStickerRequest(rw, r)
	if err != nil {
		handleError(rw, r, err, "Failed to update sticker")
		return
	}

	res, err := s.service.UpdateSticker(r.Context(), vars["boardId"], vars["stickerId"], title, content)
	if err != nil {
		handleError(rw, r, err, "Failed to update sticker")
		return
	}

	handleJsonResponse(rw, http.StatusOK, res)
}

func (s *Boards) DeleteStickerFunc(rw http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	if err := s.service.DeleteSticker(r.Context(), vars["boardId"], vars["stickerId"]); err != nil {
		handleError(rw, r, err, "Failed to delete sticker")
		return
	}

	rw.WriteHeader(http.StatusNoContent)
}

func decodeStickerRequest(rw http.ResponseWriter, r *http.Request) (title, content string, err error) {
	var req StickerRequest

	if err := decodeBody(rw, r, &req); err != nil {
		return "", "", err
	}

	if req.Title == nil || req.Content == nil {
		return "", "", errors.NewRequestError(http.StatusBadRequest, "title and content are required")
	}

	return *req.Title, *req.Content, nil
}
