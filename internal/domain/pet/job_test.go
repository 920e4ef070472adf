package pet

import "testing"

func TestJobStatusTerminal(t *testing.T) {
	for _, s := range []JobStatus{JobQueued, JobProcessing} {
		if s.Terminal() {
			t.Fatalf("%s must not be terminal", s)
		}
	}
	for _, s := range []JobStatus{JobCompleted, JobFailed} {
		if !s.Terminal() {
			t.Fatalf("%s must be terminal", s)
		}
	}
}

func TestGenerationJobMedia_MissingEntriesAreNil(t *testing.T) {
	job := GenerationJob{
		Status: JobCompleted,
		Videos: map[Emotion]VideoResult{
			EmotionHappy: {VideoURL: "u1"},
			EmotionSad:   {VideoURL: ""},
		},
	}
	m := job.Media()
	if m.Happy == nil || *m.Happy != "u1" {
		t.Fatalf("expected happy=u1, got %v", m.Happy)
	}
	if m.Sad != nil || m.Angry != nil {
		t.Fatalf("expected sad and angry to be nil, got sad=%v angry=%v", m.Sad, m.Angry)
	}
	if got := m.Missing(); len(got) != 2 || got[0] != EmotionSad || got[1] != EmotionAngry {
		t.Fatalf("unexpected missing emotions: %v", got)
	}
}

func TestGenerationJobMedia_NoVideos(t *testing.T) {
	m := (GenerationJob{}).Media()
	if m.Happy != nil || m.Sad != nil || m.Angry != nil {
		t.Fatalf("expected empty media set, got %+v", m)
	}
}
