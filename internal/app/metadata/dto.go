package metadata

import "petworld/internal/domain/pet"

type SaveRequest struct {
	WalletAddress string
	PetID         uint64
	Patch         pet.MetadataPatch
}

type ListResponse struct {
	WalletAddress string         `json:"wallet_address"`
	Pets          []pet.Metadata `json:"pets"`
}
