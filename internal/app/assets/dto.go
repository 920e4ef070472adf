package assets

import "petworld/internal/domain/pet"

type Request struct {
	WalletAddress string
	TokenID       uint64
	PetName       string
	Creature      pet.CreatureType
	Stage         pet.Stage
	Happiness     int
	Hunger        int
	Health        int
}

type Response struct {
	Metadata      pet.Metadata  `json:"metadata"`
	ImageURL      string        `json:"image_url"`
	Videos        pet.MediaSet  `json:"videos"`
	MissingVideos []pet.Emotion `json:"missing_videos,omitempty"`
	VideoError    string        `json:"video_error,omitempty"`
}

// ProgressFunc receives a human readable step and a completion percentage.
type ProgressFunc func(message string, percent int)
