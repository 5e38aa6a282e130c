package boards

import (
	"context"
	"net/http"
	"strconv"

	"github.com/flow-hydraulics/sticker-board/errors"
	log "github.com/sirupsen/logrus"
)

var (
	ErrBoardNotFound   = errors.NewRequestError(http.StatusNotFound, "Board not found")
	ErrStickerNotFound = errors.NewRequestError(http.StatusNotFound, "Sticker not found")
)

// Service defines the API for board and sticker management.
type Service struct {
	store  Store
	writer *Writer
	ids    *IDGenerator
}

// NewService initiates a new board service. Mutations go through writer,
// which must be started by the caller.
func NewService(store Store, writer *Writer, opts ...ServiceOption) *Service {
	svc := &Service{
		store:  store,
		writer: writer,
		ids:    NewIDGenerator(nil),
	}

	for _, opt := range opts {
		opt(svc)
	}

	return svc
}

// Board returns the stickers of boardID in display order.
// Boards that were never written to are empty.
func (s *Service) Board(ctx context.Context, boardID string) ([]Sticker, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc, err := s.store.Load()
	if err != nil {
		return nil, err
	}

	return doc.Board(boardID), nil
}

// CreateSticker appends a new sticker to boardID, creating the board if
// needed.
func (s *Service) CreateSticker(ctx context.Context, boardID, title, content string) (Sticker, error) {
	var created Sticker

	err := s.writer.Do(ctx, func(doc Document) error {
		stickers := doc[boardID]

		id := s.ids.Next(func(id int64) bool {
			return indexOf(stickers, id) >= 0
		})

		created = Sticker{ID: id, Title: title, Content: content}
		doc[boardID] = append(stickers, created)

		return nil
	})
	if err != nil {
		return Sticker{}, err
	}

	log.
		WithFields(log.Fields{"board": boardID, "sticker": created.ID}).
		Trace("Sticker created")

	return created, nil
}

// UpdateSticker overwrites title and content of an existing sticker.
// stickerID is the decimal form of the sticker id.
func (s *Service) UpdateSticker(ctx context.Context, boardID, stickerID, title, content string) (Sticker, error) {
	var updated Sticker

	err := s.writer.Do(ctx, func(doc Document) error {
		stickers, i, err := locate(doc, boardID, stickerID)
		if err != nil {
			return err
		}

		stickers[i].Title = title
		stickers[i].Content = content
		updated = stickers[i]

		return nil
	})
	if err != nil {
		return Sticker{}, err
	}

	log.
		WithFields(log.Fields{"board": boardID, "sticker": updated.ID}).
		Trace("Sticker updated")

	return updated, nil
}

// DeleteSticker removes an existing sticker, keeping the order of the rest.
func (s *Service) DeleteSticker(ctx context.Context, boardID, stickerID string) error {
	err := s.writer.Do(ctx, func(doc Document) error {
		stickers, i, err := locate(doc, boardID, stickerID)
		if err != nil {
			return err
		}

		doc[boardID] = append(stickers[:i], stickers[i+1:]...)

		return nil
	})
	if err != nil {
		return err
	}

	log.
		WithFields(log.Fields{"board": boardID, "sticker": stickerID}).
		Trace("Sticker deleted")

	return nil
}

// locate finds the sticker stickerID on boardID. The board is checked before
// the id is parsed. The id must be a base 10 integer in full, anything else
// ("abc", "101abc", "101.0") is reported as a missing sticker.
func locate(doc Document, boardID, stickerID string) ([]Sticker, int, error) {
	stickers, ok := doc[boardID]
	if !ok {
		return nil, -1, ErrBoardNotFound
	}

	id, err := strconv.ParseInt(stickerID, 10, 64)
	if err != nil {
		return nil, -1, ErrStickerNotFound
	}

	i := indexOf(stickers, id)
	if i < 0 {
		return nil, -1, ErrStickerNotFound
	}

	return stickers, i, nil
}
