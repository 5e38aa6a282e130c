package m20261014

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

//
// This is the first migration that initializes the whole DB. All types are
// snapshot here so that the schema state for given point in time is
// preserved and can be rolled back to from later migrations.
//

const ID = "20261014"

type Board struct {
	BoardID   string         `gorm:"column:board_id;primaryKey"`
	Stickers  datatypes.JSON `gorm:"column:stickers"`
	CreatedAt time.Time      `gorm:"column:created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at"`
}

func (Board) TableName() string {
	return "boards"
}

type IdempotencyKey struct {
	Key        string    `gorm:"column:key;primary_key"`
	ExpiryDate time.Time `gorm:"column:expiry_date"`
}

func (IdempotencyKey) TableName() string {
	return "idempotency_keys"
}

func Migrate(tx *gorm.DB) error {
	return tx.AutoMigrate(&Board{}, &IdempotencyKey{})
}

func Rollback(tx *gorm.DB) error {
	return tx.Migrator().DropTable(&Board{}, &IdempotencyKey{})
}
