package boards

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/flow-hydraulics/sticker-board/errors"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// boardRecord is one board of the document, stickers kept as a JSON array.
type boardRecord struct {
	BoardID   string         `gorm:"column:board_id;primaryKey"`
	Stickers  datatypes.JSON `gorm:"column:stickers"`
	CreatedAt time.Time      `gorm:"column:created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at"`
}

func (boardRecord) TableName() string {
	return "boards"
}

// GormStore keeps the document in the boards table, one row per board.
// Saves rewrite the whole document in a single transaction.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db}
}

// Init seeds the table when it holds no boards at all.
func (s *GormStore) Init(seed Document) error {
	var count int64
	if err := s.db.Model(&boardRecord{}).Count(&count).Error; err != nil {
		return &errors.IOError{Op: "count boards", Err: err}
	}

	if count > 0 {
		return nil
	}

	return s.Save(seed)
}

func (s *GormStore) Load() (Document, error) {
	var records []boardRecord
	if err := s.db.Order("board_id").Find(&records).Error; err != nil {
		return nil, &errors.IOError{Op: "read boards", Err: err}
	}

	doc := make(Document, len(records))
	for _, r := range records {
		stickers := []Sticker{}
		if len(r.Stickers) > 0 {
			if err := json.Unmarshal(r.Stickers, &stickers); err != nil {
				return nil, &errors.ParseError{Path: fmt.Sprintf("boards/%s", r.BoardID), Err: err}
			}
		}
		doc[r.BoardID] = stickers
	}

	return doc, nil
}

func (s *GormStore) Save(doc Document) error {
	doc.normalize()

	records := make([]boardRecord, 0, len(doc))
	ids := make([]string, 0, len(doc))
	for id, stickers := range doc {
		b, err := json.Marshal(stickers)
		if err != nil {
			return fmt.Errorf("encode board %s: %w", id, err)
		}
		records = append(records, boardRecord{BoardID: id, Stickers: datatypes.JSON(b)})
		ids = append(ids, id)
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		for i := range records {
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "board_id"}},
				DoUpdates: clause.AssignmentColumns([]string{"stickers", "updated_at"}),
			}).Create(&records[i]).Error
			if err != nil {
				return err
			}
		}

		q := tx.Where("1 = 1")
		if len(ids) > 0 {
			q = tx.Where("board_id NOT IN ?", ids)
		}
		return q.Delete(&boardRecord{}).Error
	})
	if err != nil {
		return &errors.IOError{Op: "write boards", Err: err}
	}

	return nil
}
