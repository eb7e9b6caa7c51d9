package wallpaper

import (
	"net/http"
	"testing"

	"github.com/dixieflatline76/jukebox/config"
	"github.com/dixieflatline76/jukebox/pkg/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProviderRegistry(t *testing.T) {
	var got ProviderOptions
	RegisterProvider("registry-test", func(opts ProviderOptions) provider.ImageProvider {
		got = opts
		return pagedProvider("registry-test", 1)
	})

	assert.Contains(t, GetRegisteredProviders(), provider.ID("registry-test"))

	client := &http.Client{}
	providers := NewRotation(ProviderOptions{Keys: config.StaticKeys{}, Client: client}, []provider.ID{"missing", "registry-test"})
	require.Len(t, providers, 1)
	assert.Equal(t, provider.ID("registry-test"), providers[0].ID())
	assert.Equal(t, config.DefaultPerPage, got.PerPage)
	assert.Same(t, client, got.Client)
}

func TestGetRegisteredProvidersReturnsCopy(t *testing.T) {
	copied := GetRegisteredProviders()
	copied["mutated"] = nil
	assert.NotContains(t, GetRegisteredProviders(), provider.ID("mutated"))
}
