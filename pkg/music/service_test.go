package music

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/dixieflatline76/jukebox/pkg/settings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRecognizer struct{ mock.Mock }

func (m *mockRecognizer) Recognize(ctx context.Context, audio []byte, filename string) (*Track, error) {
	args := m.Called(ctx, audio, filename)
	track, _ := args.Get(0).(*Track)
	return track, args.Error(1)
}

type mockLyrics struct{ mock.Mock }

func (m *mockLyrics) Lyrics(ctx context.Context, artist, title string) ([]string, error) {
	args := m.Called(ctx, artist, title)
	lines, _ := args.Get(0).([]string)
	return lines, args.Error(1)
}

type mockTags struct{ mock.Mock }

func (m *mockTags) TrackTags(ctx context.Context, title, artist string) ([]Tag, error) {
	args := m.Called(ctx, title, artist)
	tags, _ := args.Get(0).([]Tag)
	return tags, args.Error(1)
}

func (m *mockTags) ArtistTags(ctx context.Context, artist string) ([]Tag, error) {
	args := m.Called(ctx, artist)
	tags, _ := args.Get(0).([]Tag)
	return tags, args.Error(1)
}

func newTestService(rec Recognizer, lyrics LyricsSource, tags TagSource) (*Service, *fakeClock) {
	guard, clock := newTestGuard(&MemoryUsageStore{})
	return NewService(rec, lyrics, tags, NewMapper(rand.New(rand.NewSource(7))), guard), clock
}

func TestService_LyricsFallbackAndArtistTags(t *testing.T) {
	rec := &mockRecognizer{}
	lyrics := &mockLyrics{}
	tags := &mockTags{}

	rec.On("Recognize", mock.Anything, []byte("clip"), "clip.webm").
		Return(&Track{Title: "Blue Monday", Artist: "New Order", Genre: "Dance"}, nil)
	lyrics.On("Lyrics", mock.Anything, "New Order", "Blue Monday").
		Return([]string{"How does it feel", "Oh"}, nil)
	tags.On("TrackTags", mock.Anything, "Blue Monday", "New Order").Return(nil, nil)
	tags.On("ArtistTags", mock.Anything, "New Order").
		Return([]Tag{{Name: "new wave", Count: 100}, {Name: "post-punk", Count: 80}}, nil)

	svc, _ := newTestService(rec, lyrics, tags)
	resp, err := svc.Recognize(context.Background(), Request{Audio: []byte("clip"), Filename: "clip.webm", Mode: settings.MappingJukebox})
	require.NoError(t, err)

	assert.True(t, resp.Detected)
	assert.Equal(t, []string{"new wave", "post-punk"}, resp.Track.Tags)
	assert.Equal(t, "how does it feel", resp.Query)
	assert.Equal(t, TierLyrics, resp.Tier)
	assert.Equal(t, []string{"how does it feel"}, resp.LyricCandidates)
	assert.Equal(t, 1, resp.Usage.Used)
	rec.AssertExpectations(t)
	lyrics.AssertExpectations(t)
	tags.AssertExpectations(t)
}

func TestService_TrackTagsDriveQuery(t *testing.T) {
	rec := &mockRecognizer{}
	tags := &mockTags{}
	rec.On("Recognize", mock.Anything, mock.Anything, mock.Anything).
		Return(&Track{Title: "Reckoner", Artist: "Radiohead", Lyrics: []string{"Oh"}}, nil)
	tags.On("TrackTags", mock.Anything, "Reckoner", "Radiohead").
		Return([]Tag{{Name: "dreamy", Count: 90}, {Name: "night", Count: 70}, {Name: "ocean", Count: 60}}, nil)

	svc, _ := newTestService(rec, nil, tags)
	resp, err := svc.Recognize(context.Background(), Request{Mode: settings.MappingJukebox})
	require.NoError(t, err)

	assert.Equal(t, "dreamy night ocean", resp.Query)
	assert.Equal(t, TierTags, resp.Tier)
	tags.AssertNotCalled(t, "ArtistTags", mock.Anything, mock.Anything)
}

func TestService_NoMatchCountsTowardsPause(t *testing.T) {
	rec := &mockRecognizer{}
	rec.On("Recognize", mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)

	svc, clock := newTestService(rec, nil, nil)
	for i := 0; i < MaxConsecutiveFails; i++ {
		resp, err := svc.Recognize(context.Background(), Request{})
		require.NoError(t, err)
		assert.False(t, resp.Detected)
		clock.Advance(time.Minute)
	}

	_, err := svc.Recognize(context.Background(), Request{})
	assert.ErrorIs(t, err, ErrPaused)
	assert.True(t, svc.Usage().Paused)
}

func TestService_RecognizerError(t *testing.T) {
	rec := &mockRecognizer{}
	rec.On("Recognize", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("boom"))

	svc, clock := newTestService(rec, nil, nil)
	_, err := svc.Recognize(context.Background(), Request{})
	assert.EqualError(t, err, "boom")

	_, err = svc.Recognize(context.Background(), Request{})
	assert.ErrorIs(t, err, ErrCooldown)

	clock.Advance(time.Minute)
	_, err = svc.Recognize(context.Background(), Request{})
	assert.EqualError(t, err, "boom")
	assert.True(t, svc.Usage().Paused)
}

func TestService_NotConfiguredRefundsQuota(t *testing.T) {
	rec := &mockRecognizer{}
	rec.On("Recognize", mock.Anything, mock.Anything, mock.Anything).Return(nil, ErrNotConfigured)

	svc, _ := newTestService(rec, nil, nil)
	for i := 0; i < 3; i++ {
		_, err := svc.Recognize(context.Background(), Request{})
		assert.ErrorIs(t, err, ErrNotConfigured, "no cooldown is left behind")
	}

	st := svc.Usage()
	assert.Zero(t, st.Used)
	assert.Equal(t, MonthlyLimit, st.Remaining)
	assert.Zero(t, st.CooldownRemaining)
	assert.False(t, st.Paused)
}
