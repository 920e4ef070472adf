package pet

import "time"

type User struct {
	ID            string    `json:"id"`
	WalletAddress string    `json:"wallet_address"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type Metadata struct {
	ID             string       `json:"id"`
	UserID         string       `json:"user_id"`
	PetID          uint64       `json:"pet_id"`
	PetName        string       `json:"pet_name"`
	CreatureType   CreatureType `json:"creature_type,omitempty"`
	EvolutionStage *int         `json:"evolution_stage"`
	ImageURL       *string      `json:"pet_image_url"`
	HappyURL       *string      `json:"pet_happy_url"`
	SadURL         *string      `json:"pet_sad_url"`
	AngryURL       *string      `json:"pet_angry_url"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// MetadataPatch carries optional column updates; nil fields are left untouched.
type MetadataPatch struct {
	PetName        *string       `json:"pet_name,omitempty"`
	CreatureType   *CreatureType `json:"creature_type,omitempty"`
	EvolutionStage *int          `json:"evolution_stage,omitempty"`
	ImageURL       *string       `json:"pet_image_url,omitempty"`
	HappyURL       *string       `json:"pet_happy_url,omitempty"`
	SadURL         *string       `json:"pet_sad_url,omitempty"`
	AngryURL       *string       `json:"pet_angry_url,omitempty"`
}

func (p MetadataPatch) Apply(m Metadata) Metadata {
	if p.PetName != nil {
		m.PetName = *p.PetName
	}
	if p.CreatureType != nil {
		m.CreatureType = *p.CreatureType
	}
	if p.EvolutionStage != nil {
		v := *p.EvolutionStage
		m.EvolutionStage = &v
	}
	if p.ImageURL != nil {
		m.ImageURL = p.ImageURL
	}
	if p.HappyURL != nil {
		m.HappyURL = p.HappyURL
	}
	if p.SadURL != nil {
		m.SadURL = p.SadURL
	}
	if p.AngryURL != nil {
		m.AngryURL = p.AngryURL
	}
	return m
}

func (m Metadata) WithMedia(media MediaSet) Metadata {
	m.HappyURL = media.Happy
	m.SadURL = media.Sad
	m.AngryURL = media.Angry
	return m
}
