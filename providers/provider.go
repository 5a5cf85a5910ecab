package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sort"
	"sync"

	"github.com/magicesim/storefront/services/monitoring/logging"
	"github.com/sirupsen/logrus"
)

const (
	ESIMStore = "ESIMSTORE"
)

// BaseProvider contains common fields and methods
type BaseProvider struct {
	Name    string
	BaseURL string
	APIKey  string
	Client  *http.Client
	Logger  *logging.Logger
}

// Request Processing
func (p *BaseProvider) MakeRequest(ctx context.Context, method, url string, body interface{}, extraHeaders map[string]string) (*http.Response, error) {
	if p.Logger != nil {
		p.Logger.WithFields(logrus.Fields{
			"provider": p.Name,
			"method":   method,
			"url":      url,
		}).Debug("External Request")
	}

	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if p.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.APIKey)
	}
	// Allows for overwriting pre-set keys
	for k, v := range extraHeaders {
		if v != "" {
			req.Header.Set(k, v)
		}
	}

	return p.Client.Do(req)
}

// Provider is an interface that all specific providers must implement
type Provider interface {
	GetName() string
	GetBaseURL() string
	GetClient() *http.Client
}

// ProviderService manages multiple providers
type ProviderService struct {
	providers map[string]Provider
	mu        sync.RWMutex
}

func NewProviderService() *ProviderService {
	return &ProviderService{
		providers: make(map[string]Provider),
	}
}

func (s *ProviderService) AddProvider(provider Provider) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.providers[provider.GetName()] = provider
}

func (s *ProviderService) GetProvider(name string) (Provider, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	provider, exists := s.providers[name]
	return provider, exists
}

// Names lists registered providers in sorted order.
func (s *ProviderService) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.providers))
	for name := range s.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (bp *BaseProvider) GetName() string         { return bp.Name }
func (bp *BaseProvider) GetBaseURL() string      { return bp.BaseURL }
func (bp *BaseProvider) GetClient() *http.Client { return bp.Client }
