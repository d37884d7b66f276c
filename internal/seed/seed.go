package seed

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

const defaultShopName = "Main Shop"

// Shop is the minimal shop row; shop CRUD lives outside this service.
type Shop struct {
	ID        snowflake.ID `gorm:"primaryKey"`
	Name      string       `gorm:"type:text;not null"`
	IsDefault bool         `gorm:"not null;default:false"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Shop) TableName() string { return "shops" }

// EnsureDefaultShop seeds the default shop for startup bootstrap.
func EnsureDefaultShop(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var shop Shop
		err := tx.WithContext(ctx).Where("is_default = ?", true).First(&shop).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		shop = Shop{
			ID:        node.Generate(),
			Name:      defaultShopName,
			IsDefault: true,
			CreatedAt: time.Now().UTC(),
		}
		return tx.WithContext(ctx).Create(&shop).Error
	})
}
