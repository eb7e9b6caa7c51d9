package wallpaper

import (
	"net/http"
	"sync"

	"github.com/dixieflatline76/jukebox/config"
	"github.com/dixieflatline76/jukebox/pkg/provider"
)

// ProviderOptions carries what a provider needs to be constructed.
type ProviderOptions struct {
	Keys    config.KeySource
	Client  *http.Client
	PerPage int
}

// ProviderFactory defines the function signature for creating a provider.
type ProviderFactory func(opts ProviderOptions) provider.ImageProvider

var (
	registryMu       sync.RWMutex
	providerRegistry = make(map[provider.ID]ProviderFactory)
)

// RegisterProvider registers a new image provider factory.
func RegisterProvider(id provider.ID, factory ProviderFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	providerRegistry[id] = factory
}

// GetRegisteredProviders returns a copy of all registered provider factories.
func GetRegisteredProviders() map[provider.ID]ProviderFactory {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make(map[provider.ID]ProviderFactory, len(providerRegistry))
	for id, f := range providerRegistry {
		out[id] = f
	}
	return out
}

// NewProviders builds every registered provider in round-robin order.
func NewProviders(opts ProviderOptions) []provider.ImageProvider {
	return NewRotation(opts, provider.All)
}

// NewRotation builds the registered providers listed in order, skipping ids
// with no registered factory.
func NewRotation(opts ProviderOptions, order []provider.ID) []provider.ImageProvider {
	if opts.PerPage <= 0 {
		opts.PerPage = config.DefaultPerPage
	}
	factories := GetRegisteredProviders()
	var providers []provider.ImageProvider
	for _, id := range order {
		if f, ok := factories[id]; ok {
			providers = append(providers, f(opts))
		}
	}
	return providers
}
