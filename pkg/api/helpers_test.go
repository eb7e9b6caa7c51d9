package api

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"testing"

	"github.com/dixieflatline76/jukebox/pkg/music"
	"github.com/dixieflatline76/jukebox/pkg/provider"
	"github.com/dixieflatline76/jukebox/pkg/settings"
	"github.com/dixieflatline76/jukebox/pkg/wallpaper"
	"github.com/dixieflatline76/jukebox/pkg/weather"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockProvider struct {
	mock.Mock
	id provider.ID
}

func (m *mockProvider) ID() provider.ID { return m.id }
func (m *mockProvider) Name() string    { return "Mock " + string(m.id) }

func (m *mockProvider) Search(ctx context.Context, query string, page int) ([]provider.Image, error) {
	args := m.Called(query, page)
	images, _ := args.Get(0).([]provider.Image)
	return images, args.Error(1)
}

type mockPerPageProvider struct {
	mockProvider
}

func (m *mockPerPageProvider) SearchPerPage(ctx context.Context, query string, page, perPage int) ([]provider.Image, error) {
	args := m.Called(query, page, perPage)
	images, _ := args.Get(0).([]provider.Image)
	return images, args.Error(1)
}

// stubProvider always returns a fresh page of placeholder images.
type stubProvider struct{ id provider.ID }

func (s stubProvider) ID() provider.ID { return s.id }
func (s stubProvider) Name() string    { return string(s.id) }
func (s stubProvider) Search(ctx context.Context, query string, page int) ([]provider.Image, error) {
	return provider.MockImages(s.id, 5), nil
}

type mockWeather struct{ mock.Mock }

func (m *mockWeather) Current(ctx context.Context, lat, lon float64, unit settings.TemperatureUnit) (*weather.Data, error) {
	args := m.Called(lat, lon, unit)
	data, _ := args.Get(0).(*weather.Data)
	return data, args.Error(1)
}

func (m *mockWeather) Locate(ctx context.Context) weather.Location {
	return m.Called().Get(0).(weather.Location)
}

func (m *mockWeather) Auto(ctx context.Context, unit settings.TemperatureUnit) (*weather.Data, weather.Location, error) {
	args := m.Called(unit)
	data, _ := args.Get(0).(*weather.Data)
	return data, args.Get(1).(weather.Location), args.Error(2)
}

type mockMusic struct{ mock.Mock }

func (m *mockMusic) Recognize(ctx context.Context, req music.Request) (*music.Response, error) {
	args := m.Called(req)
	resp, _ := args.Get(0).(*music.Response)
	return resp, args.Error(1)
}

func (m *mockMusic) Usage() music.Status {
	return music.Status{Used: 3, Limit: music.MonthlyLimit, Remaining: music.MonthlyLimit - 3}
}

var instantPreloader = wallpaper.PreloaderFunc(func(context.Context, provider.Image) error { return nil })

// newSessionServer returns a server backed by a real session manager whose
// events go to the server's hub.
func newSessionServer(t *testing.T) *Server {
	t.Helper()
	hub := NewHub()
	manager := wallpaper.NewManager(wallpaper.Options{
		Providers: []provider.ImageProvider{stubProvider{id: provider.Pexels}},
		Preloader: instantPreloader,
		Events:    hub.Broadcast,
	})
	t.Cleanup(manager.Shutdown)
	return NewServer(Config{Sessions: manager, Hub: hub})
}

func audioForm(t *testing.T, field, filename, contentType string, data []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if field != "" {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
		h.Set("Content-Type", contentType)
		part, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return body, mw.FormDataContentType()
}

func newRecognizeRequest(t *testing.T, body *bytes.Buffer, contentType string) *http.Request {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, "/api/music/recognize", body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", contentType)
	req.RemoteAddr = "192.0.2.10:5555"
	return req
}
