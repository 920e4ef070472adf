package assets

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"petworld/internal/adapter/repo/memory"
	"petworld/internal/app/jobpoll"
	"petworld/internal/app/ports"
	"petworld/internal/domain/pet"
	"petworld/internal/retry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeImages struct {
	prompts []string
	err     error
}

func (f *fakeImages) Generate(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return "https://cdn.example.com/avatar.png", nil
}

type fakeObjects struct{ err error }

func (f fakeObjects) FetchURL(context.Context, string) (ports.Object, error) {
	if f.err != nil {
		return ports.Object{}, f.err
	}
	return ports.Object{Body: []byte("png"), ContentType: "image/png"}, nil
}

type fakeVideos struct {
	uploaded []byte
	jobs     []pet.GenerationJob
	calls    int
}

func (f *fakeVideos) StartJob(_ context.Context, image io.Reader, _ string) (string, error) {
	b, err := io.ReadAll(image)
	f.uploaded = b
	return "job-1", err
}

func (f *fakeVideos) Status(context.Context, string) (pet.GenerationJob, error) {
	job := f.jobs[min(f.calls, len(f.jobs)-1)]
	f.calls++
	return job, nil
}

type instantTimer struct{ c chan time.Time }

func (t *instantTimer) Start(time.Duration) { t.c <- time.Time{} }
func (t *instantTimer) Stop()               {}
func (t *instantTimer) C() <-chan time.Time { return t.c }

type countingTx struct {
	inner ports.TxManager
	runs  *int
}

func (c countingTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	*c.runs++
	return c.inner.RunInTx(ctx, fn)
}

func newUseCase(images *fakeImages, videos *fakeVideos, objects fakeObjects) (UseCase, *memory.Store) {
	store := memory.NewStore()
	return UseCase{
		TxManager: memory.NewTxManager(store),
		Users:     memory.NewUserRepo(store),
		Metadata:  memory.NewMetadataRepo(store),
		Images:    images,
		Videos:    videos,
		Objects:   objects,
		Poller: jobpoll.Poller{
			Policy: retry.Policy{MaxAttempts: 3, Interval: time.Second},
			Timer:  &instantTimer{c: make(chan time.Time, 1)},
		},
	}, store
}

func url(s string) *string { return &s }

var request = Request{
	WalletAddress: "GOWNER",
	TokenID:       7,
	PetName:       " Rex ",
	Creature:      pet.CreatureDino,
	Stage:         pet.StageBaby,
	Happiness:     90,
	Hunger:        10,
	Health:        90,
}

type progressLog struct {
	percents []int
	messages []string
}

func (p *progressLog) record(msg string, pct int) {
	p.messages = append(p.messages, msg)
	p.percents = append(p.percents, pct)
}

func TestExecuteSavesImageAndVideos(t *testing.T) {
	images := &fakeImages{}
	videos := &fakeVideos{jobs: []pet.GenerationJob{
		{Status: pet.JobProcessing, Progress: "1/3", CurrentEmotion: "happy"},
		{Status: pet.JobCompleted, Videos: map[pet.Emotion]pet.VideoResult{
			pet.EmotionHappy: {VideoURL: "h.mp4"},
			pet.EmotionSad:   {VideoURL: "s.mp4"},
			pet.EmotionAngry: {VideoURL: "a.mp4"},
		}},
	}}
	uc, _ := newUseCase(images, videos, fakeObjects{})
	progress := &progressLog{}

	resp, err := uc.Execute(context.Background(), request, progress.record)
	require.NoError(t, err)

	assert.Equal(t, []int{10, 20, 40, 50, 60, 90, 100}, progress.percents)
	assert.Equal(t, "Generating happy animation...", progress.messages[4])
	require.Len(t, images.prompts, 1)
	assert.Contains(t, images.prompts[0], "baby dinosaur")
	assert.Equal(t, "png", string(videos.uploaded))

	assert.Empty(t, resp.MissingVideos)
	assert.Empty(t, resp.VideoError)
	assert.Equal(t, "Rex", resp.Metadata.PetName)
	assert.Equal(t, uint64(7), resp.Metadata.PetID)
	assert.Equal(t, url("a.mp4"), resp.Metadata.AngryURL)
	assert.Equal(t, url("https://cdn.example.com/avatar.png"), resp.Metadata.ImageURL)
	require.NotNil(t, resp.Metadata.EvolutionStage)
	assert.Equal(t, 1, *resp.Metadata.EvolutionStage)
}

func TestExecuteToleratesVideoFailure(t *testing.T) {
	videos := &fakeVideos{jobs: []pet.GenerationJob{{Status: pet.JobFailed, Errors: map[string]string{"happy": "nsfw"}}}}
	uc, _ := newUseCase(&fakeImages{}, videos, fakeObjects{})
	progress := &progressLog{}

	resp, err := uc.Execute(context.Background(), request, progress.record)
	require.NoError(t, err)

	assert.Equal(t, []int{10, 20, 40, 80, 100}, progress.percents)
	assert.Contains(t, resp.VideoError, "generation job failed")
	assert.ElementsMatch(t, pet.Emotions, resp.MissingVideos)
	assert.Nil(t, resp.Metadata.HappyURL)
	assert.NotNil(t, resp.Metadata.ImageURL)
}

func TestExecuteToleratesDownloadFailure(t *testing.T) {
	videos := &fakeVideos{}
	uc, _ := newUseCase(&fakeImages{}, videos, fakeObjects{err: errors.New("403")})

	resp, err := uc.Execute(context.Background(), request, nil)
	require.NoError(t, err)
	assert.Contains(t, resp.VideoError, "download avatar")
	assert.Zero(t, videos.calls)
}

func TestExecuteFailsWhenImageFails(t *testing.T) {
	uc, _ := newUseCase(&fakeImages{err: errors.New("quota")}, &fakeVideos{}, fakeObjects{})

	_, err := uc.Execute(context.Background(), request, nil)
	assert.ErrorContains(t, err, "generate avatar")
}

func TestExecuteSavesUserAndRowInOneTransaction(t *testing.T) {
	uc, store := newUseCase(&fakeImages{}, &fakeVideos{jobs: []pet.GenerationJob{{Status: pet.JobCompleted}}}, fakeObjects{})
	runs := 0
	uc.TxManager = countingTx{inner: uc.TxManager, runs: &runs}

	_, err := uc.Execute(context.Background(), request, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, runs)

	user, err := memory.NewUserRepo(store).FindByWallet(context.Background(), "GOWNER")
	require.NoError(t, err)
	_, err = memory.NewMetadataRepo(store).Get(context.Background(), user.ID, 7)
	require.NoError(t, err)
}

func TestExecuteDoesNotCreateUserWhenImageFails(t *testing.T) {
	uc, store := newUseCase(&fakeImages{err: errors.New("quota")}, &fakeVideos{}, fakeObjects{})

	_, err := uc.Execute(context.Background(), request, nil)
	require.Error(t, err)

	_, err = memory.NewUserRepo(store).FindByWallet(context.Background(), "GOWNER")
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestExecuteValidates(t *testing.T) {
	uc, _ := newUseCase(&fakeImages{}, &fakeVideos{}, fakeObjects{})

	bad := request
	bad.WalletAddress = ""
	_, err := uc.Execute(context.Background(), bad, nil)
	assert.ErrorIs(t, err, ErrInvalidRequest)

	bad = request
	bad.PetName = "a name that is definitely too long"
	_, err = uc.Execute(context.Background(), bad, nil)
	assert.ErrorIs(t, err, pet.ErrInvalidName)

	bad = request
	bad.Creature = "griffin"
	_, err = uc.Execute(context.Background(), bad, nil)
	assert.ErrorIs(t, err, ErrInvalidRequest)
}
