package gormrepo

import (
	"context"
	"errors"
	"strings"
	"time"

	"petworld/internal/adapter/repo/gorm/model"
	"petworld/internal/app/ports"
	"petworld/internal/domain/pet"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) UserRepo {
	return UserRepo{db: db}
}

func (r UserRepo) GetOrCreateByWallet(ctx context.Context, wallet string) (pet.User, error) {
	wallet = strings.TrimSpace(wallet)
	db := dbFromCtx(ctx, r.db)

	now := time.Now().UTC()
	row := model.User{ID: uuid.NewString(), WalletAddress: wallet, CreatedAt: now, UpdatedAt: now}
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "wallet_address"}},
		DoNothing: true,
	}).Create(&row).Error; err != nil {
		return pet.User{}, err
	}

	var got model.User
	if err := db.Where(&model.User{WalletAddress: wallet}).First(&got).Error; err != nil {
		return pet.User{}, err
	}
	return toUser(got), nil
}

func (r UserRepo) FindByWallet(ctx context.Context, wallet string) (pet.User, error) {
	var row model.User
	err := dbFromCtx(ctx, r.db).Where(&model.User{WalletAddress: strings.TrimSpace(wallet)}).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pet.User{}, ports.ErrNotFound
		}
		return pet.User{}, err
	}
	return toUser(row), nil
}

func toUser(row model.User) pet.User {
	return pet.User{
		ID:            row.ID,
		WalletAddress: row.WalletAddress,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}
}
