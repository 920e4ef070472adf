package assets

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"petworld/internal/app/jobpoll"
	"petworld/internal/app/ports"
	"petworld/internal/domain/pet"

	"go.uber.org/zap"
)

const avatarFilename = "pet-avatar.jpg"

var ErrInvalidRequest = errors.New("invalid asset request")

// UseCase generates a pet's avatar and emotion videos and records them in
// the metadata store. A video failure still saves the avatar.
type UseCase struct {
	TxManager ports.TxManager
	Users     ports.UserRepository
	Metadata  ports.MetadataRepository
	Images    ports.ImageGenerator
	Videos    ports.VideoGenerator
	Objects   ports.URLFetcher
	Poller    jobpoll.Poller
	Logger    *zap.Logger
}

func (u UseCase) Execute(ctx context.Context, req Request, onProgress ProgressFunc) (Response, error) {
	req, err := normalize(req)
	if err != nil {
		return Response{}, err
	}
	progress := func(msg string, pct int) {
		if onProgress != nil {
			onProgress(msg, pct)
		}
	}
	log := u.logger().With(zap.String("wallet", req.WalletAddress), zap.Uint64("token_id", req.TokenID))

	progress("Setting up your pet...", 10)
	progress("Generating your pet's avatar...", 20)
	imageURL, err := u.Images.Generate(ctx, pet.AvatarPrompt(pet.AvatarParams{
		PetName:   req.PetName,
		Creature:  req.Creature,
		Stage:     req.Stage,
		Happiness: req.Happiness,
		Hunger:    req.Hunger,
		Health:    req.Health,
	}))
	if err != nil {
		return Response{}, fmt.Errorf("generate avatar: %w", err)
	}
	progress("Avatar generated! Creating animations...", 40)

	resp := Response{ImageURL: imageURL}
	media, err := u.generateVideos(ctx, imageURL, progress)
	if err != nil {
		if ctx.Err() != nil {
			return Response{}, ctx.Err()
		}
		log.Warn("video generation failed, saving avatar only", zap.Error(err))
		resp.VideoError = err.Error()
		progress("Animations failed, but saving avatar...", 80)
	} else {
		progress("All animations created! Saving...", 90)
	}
	resp.Videos = media
	resp.MissingVideos = media.Missing()

	saved, err := u.save(ctx, req, imageURL, media)
	if err != nil {
		return Response{}, err
	}
	resp.Metadata = saved
	progress("Complete!", 100)
	log.Info("pet assets generated", zap.Int("missing_videos", len(resp.MissingVideos)))
	return resp, nil
}

// save creates the user and upserts the row in one transaction.
func (u UseCase) save(ctx context.Context, req Request, imageURL string, media pet.MediaSet) (pet.Metadata, error) {
	stage := int(req.Stage)
	var saved pet.Metadata
	err := u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		user, err := u.Users.GetOrCreateByWallet(txCtx, req.WalletAddress)
		if err != nil {
			return fmt.Errorf("get or create user: %w", err)
		}
		saved, err = u.Metadata.Upsert(txCtx, pet.Metadata{
			UserID:         user.ID,
			PetID:          req.TokenID,
			PetName:        req.PetName,
			CreatureType:   req.Creature,
			EvolutionStage: &stage,
			ImageURL:       &imageURL,
		}.WithMedia(media))
		if err != nil {
			return fmt.Errorf("save metadata: %w", err)
		}
		return nil
	})
	return saved, err
}

func (u UseCase) generateVideos(ctx context.Context, imageURL string, progress ProgressFunc) (pet.MediaSet, error) {
	img, err := u.Objects.FetchURL(ctx, imageURL)
	if err != nil {
		return pet.MediaSet{}, fmt.Errorf("download avatar: %w", err)
	}
	jobID, err := u.Videos.StartJob(ctx, bytes.NewReader(img.Body), avatarFilename)
	if err != nil {
		return pet.MediaSet{}, fmt.Errorf("start video job: %w", err)
	}
	poller := u.Poller
	if poller.Fetch == nil {
		poller.Fetch = u.Videos
	}
	return poller.Poll(ctx, jobID, func(job pet.GenerationJob) {
		if job.Progress != "" {
			progress(job.Progress, 50)
		}
		if job.CurrentEmotion != "" {
			progress(fmt.Sprintf("Generating %s animation...", job.CurrentEmotion), 60)
		}
	})
}

func normalize(req Request) (Request, error) {
	req.WalletAddress = strings.TrimSpace(req.WalletAddress)
	if req.WalletAddress == "" || req.TokenID == 0 {
		return Request{}, ErrInvalidRequest
	}
	name, err := pet.ValidateName(req.PetName)
	if err != nil {
		return Request{}, err
	}
	req.PetName = name
	if req.Creature == "" {
		req.Creature = pet.CreatureDragon
	}
	if !req.Creature.Valid() {
		return Request{}, fmt.Errorf("%w: unknown creature type %q", ErrInvalidRequest, req.Creature)
	}
	req.Stage = pet.ClampStage(int(req.Stage))
	return req, nil
}

func (u UseCase) logger() *zap.Logger {
	if u.Logger == nil {
		return zap.NewNop()
	}
	return u.Logger
}
