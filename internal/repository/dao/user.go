package dao

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrUsernameExists = errors.New("username already exists")
	ErrUserNotFound   = errors.New("user not found")
)

type User struct {
	ID uint `gorm:"primaryKey"`

	Username    string `gorm:"unique;not null"`
	Password    string `gorm:"not null"`
	RafflerName string ``
	Role        string `gorm:"not null"` // "superuser", "club_owner", "event_manager" or "staff"

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// UserEntity assigns a user to an entity. Superusers bypass assignments.
type UserEntity struct {
	UserID     uint      `gorm:"primaryKey"`
	EntityID   uint      `gorm:"primaryKey"`
	AssignedAt time.Time `gorm:"not null"`
}

type UserDAO struct {
	db *gorm.DB
}

func NewUserDAO(db *gorm.DB) *UserDAO {
	return &UserDAO{
		db: db,
	}
}

func (d *UserDAO) Insert(ctx context.Context, user User) (User, error) {
	result := d.db.WithContext(ctx).Create(&user)
	if result.Error != nil {
		var pgErr *pgconn.PgError
		if errors.As(result.Error, &pgErr) &&
			pgErr.Code == pgerrcode.UniqueViolation &&
			strings.Contains(pgErr.Message, "uni_users_username") {
			return User{}, ErrUsernameExists
		}

		return User{}, result.Error
	}

	return user, nil
}

func (d *UserDAO) FindByID(ctx context.Context, id uint) (User, error) {
	var user User

	result := d.db.WithContext(ctx).First(&user, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return User{}, ErrUserNotFound
		}

		return User{}, result.Error
	}

	return user, nil
}

func (d *UserDAO) FindByUsername(ctx context.Context, username string) (User, error) {
	var user User

	result := d.db.WithContext(ctx).First(&user, "username = ?", username)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return User{}, ErrUserNotFound
		}

		return User{}, result.Error
	}

	return user, nil
}

func (d *UserDAO) FindAll(ctx context.Context) ([]User, error) {
	var users []User

	result := d.db.WithContext(ctx).Order("created_at DESC").Find(&users)
	if result.Error != nil {
		return nil, result.Error
	}

	return users, nil
}

func (d *UserDAO) UpdatePassword(ctx context.Context, id uint, passwordHash string) error {
	result := d.db.WithContext(ctx).
		Model(&User{}).
		Where("id = ?", id).
		Update("password", passwordHash)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}

// Delete removes the user and their entity assignments.
func (d *UserDAO) Delete(ctx context.Context, id uint) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&UserEntity{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&User{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrUserNotFound
		}

		return nil
	})
}

func (d *UserDAO) AssignEntity(ctx context.Context, userID, entityID uint) error {
	var existing UserEntity
	err := d.db.WithContext(ctx).
		First(&existing, "user_id = ? AND entity_id = ?", userID, entityID).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	return d.db.WithContext(ctx).Create(&UserEntity{
		UserID:     userID,
		EntityID:   entityID,
		AssignedAt: time.Now(),
	}).Error
}

func (d *UserDAO) UnassignEntity(ctx context.Context, userID, entityID uint) error {
	return d.db.WithContext(ctx).
		Where("user_id = ? AND entity_id = ?", userID, entityID).
		Delete(&UserEntity{}).Error
}

func (d *UserDAO) AssignedEntityIDs(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint

	result := d.db.WithContext(ctx).
		Model(&UserEntity{}).
		Where("user_id = ?", userID).
		Pluck("entity_id", &ids)
	if result.Error != nil {
		return nil, result.Error
	}

	return ids, nil
}
