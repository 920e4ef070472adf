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

type MetadataRepo struct {
	db *gorm.DB
}

func NewMetadataRepo(db *gorm.DB) MetadataRepo {
	return MetadataRepo{db: db}
}

func (r MetadataRepo) Upsert(ctx context.Context, m pet.Metadata) (pet.Metadata, error) {
	now := time.Now().UTC()
	row := toPetRow(m)
	row.ID = uuid.NewString()
	row.CreatedAt = now
	row.UpdatedAt = now

	db := dbFromCtx(ctx, r.db)
	err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "pet_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"pet_name", "creature_type", "evolution_stage",
			"pet_image_url", "pet_happy_url", "pet_sad_url", "pet_angry_url",
			"updated_at",
		}),
	}).Create(&row).Error
	if err != nil {
		if isForeignKeyViolation(err) {
			return pet.Metadata{}, ports.ErrNotFound
		}
		return pet.Metadata{}, err
	}
	return r.Get(ctx, m.UserID, m.PetID)
}

func (r MetadataRepo) Get(ctx context.Context, userID string, petID uint64) (pet.Metadata, error) {
	var row model.Pet
	err := dbFromCtx(ctx, r.db).
		Where("user_id = ? AND pet_id = ?", userID, int64(petID)).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pet.Metadata{}, ports.ErrNotFound
		}
		return pet.Metadata{}, err
	}
	return toMetadata(row), nil
}

func (r MetadataRepo) ListByUser(ctx context.Context, userID string) ([]pet.Metadata, error) {
	var rows []model.Pet
	err := dbFromCtx(ctx, r.db).
		Where("user_id = ?", userID).
		Order("created_at DESC").Order("pet_id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]pet.Metadata, 0, len(rows))
	for _, row := range rows {
		out = append(out, toMetadata(row))
	}
	return out, nil
}

func (r MetadataRepo) Update(ctx context.Context, userID string, petID uint64, patch pet.MetadataPatch) (pet.Metadata, error) {
	updates := map[string]any{"updated_at": time.Now().UTC()}
	if patch.PetName != nil {
		updates["pet_name"] = *patch.PetName
	}
	if patch.CreatureType != nil {
		updates["creature_type"] = string(*patch.CreatureType)
	}
	if patch.EvolutionStage != nil {
		updates["evolution_stage"] = *patch.EvolutionStage
	}
	for col, v := range map[string]*string{
		"pet_image_url": patch.ImageURL,
		"pet_happy_url": patch.HappyURL,
		"pet_sad_url":   patch.SadURL,
		"pet_angry_url": patch.AngryURL,
	} {
		if v != nil {
			updates[col] = *v
		}
	}
	res := dbFromCtx(ctx, r.db).Model(&model.Pet{}).
		Where("user_id = ? AND pet_id = ?", userID, int64(petID)).
		Updates(updates)
	if res.Error != nil {
		return pet.Metadata{}, res.Error
	}
	if res.RowsAffected == 0 {
		return pet.Metadata{}, ports.ErrNotFound
	}
	return r.Get(ctx, userID, petID)
}

func (r MetadataRepo) Delete(ctx context.Context, userID string, petID uint64) error {
	res := dbFromCtx(ctx, r.db).
		Where("user_id = ? AND pet_id = ?", userID, int64(petID)).
		Delete(&model.Pet{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func toPetRow(m pet.Metadata) model.Pet {
	row := model.Pet{
		UserID:       m.UserID,
		PetID:        int64(m.PetID),
		PetName:      m.PetName,
		CreatureType: string(m.CreatureType),
		PetImageURL:  m.ImageURL,
		PetHappyURL:  m.HappyURL,
		PetSadURL:    m.SadURL,
		PetAngryURL:  m.AngryURL,
	}
	if m.EvolutionStage != nil {
		v := int32(*m.EvolutionStage)
		row.EvolutionStage = &v
	}
	return row
}

func toMetadata(row model.Pet) pet.Metadata {
	m := pet.Metadata{
		ID:           row.ID,
		UserID:       row.UserID,
		PetID:        uint64(row.PetID),
		PetName:      row.PetName,
		CreatureType: pet.CreatureType(row.CreatureType),
		ImageURL:     row.PetImageURL,
		HappyURL:     row.PetHappyURL,
		SadURL:       row.PetSadURL,
		AngryURL:     row.PetAngryURL,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
	if row.EvolutionStage != nil {
		v := int(*row.EvolutionStage)
		m.EvolutionStage = &v
	}
	return m
}

func isForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "foreign key")
}
