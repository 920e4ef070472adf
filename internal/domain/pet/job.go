package pet

type JobStatus string

const (
	JobQueued     JobStatus = "queued"
	JobProcessing JobStatus = "processing"
	JobCompleted  JobStatus = "completed"
	JobFailed     JobStatus = "failed"
)

func (s JobStatus) Terminal() bool {
	return s == JobCompleted || s == JobFailed
}

type Emotion string

const (
	EmotionHappy Emotion = "happy"
	EmotionSad   Emotion = "sad"
	EmotionAngry Emotion = "angry"
)

var Emotions = []Emotion{EmotionHappy, EmotionSad, EmotionAngry}

type VideoResult struct {
	VideoURL         string `json:"video_url"`
	GenerationTime   string `json:"generation_time,omitempty"`
	CreditsRemaining string `json:"credits_remaining,omitempty"`
}

// GenerationJob mirrors the status document served by the clip generation service.
type GenerationJob struct {
	ID             string                  `json:"job_id"`
	Status         JobStatus               `json:"status"`
	Progress       string                  `json:"progress,omitempty"`
	CurrentEmotion string                  `json:"current_emotion,omitempty"`
	CreatedAt      string                  `json:"created_at,omitempty"`
	CompletedAt    string                  `json:"completed_at,omitempty"`
	ImageURL       string                  `json:"image_url,omitempty"`
	Videos         map[Emotion]VideoResult `json:"videos,omitempty"`
	Errors         map[string]string       `json:"errors,omitempty"`
}

type MediaSet struct {
	Happy *string `json:"happy"`
	Sad   *string `json:"sad"`
	Angry *string `json:"angry"`
}

func (m MediaSet) Get(e Emotion) *string {
	switch e {
	case EmotionHappy:
		return m.Happy
	case EmotionSad:
		return m.Sad
	case EmotionAngry:
		return m.Angry
	default:
		return nil
	}
}

func (m MediaSet) Missing() []Emotion {
	var out []Emotion
	for _, e := range Emotions {
		if m.Get(e) == nil {
			out = append(out, e)
		}
	}
	return out
}

// Media extracts per-emotion URLs. Absent or empty entries stay nil.
func (j GenerationJob) Media() MediaSet {
	pick := func(e Emotion) *string {
		v, ok := j.Videos[e]
		if !ok || v.VideoURL == "" {
			return nil
		}
		u := v.VideoURL
		return &u
	}
	return MediaSet{
		Happy: pick(EmotionHappy),
		Sad:   pick(EmotionSad),
		Angry: pick(EmotionAngry),
	}
}
