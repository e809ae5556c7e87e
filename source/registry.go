package source

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/polyrabbit/gold-alert/config"
	"github.com/polyrabbit/gold-alert/http"
	"github.com/polyrabbit/gold-alert/model"
)

// Client fetches and parses one gold price page.
type Client interface {
	GetName() string
	PageURL() string
	GetPriceTable(ctx context.Context) (*model.PriceTable, error)
}

type ClientProvider func(cfg *config.Config, httpClient *http.Client) Client

type registration struct {
	name     string
	provider ClientProvider
}

var registrations []registration

func Register(name string, p ClientProvider) {
	for _, r := range registrations {
		if strings.EqualFold(r.name, name) {
			panic(fmt.Errorf("%q already exists in source registry", name))
		}
	}
	registrations = append(registrations, registration{name: name, provider: p})
}

// Names lists the official names of all registered sources.
func Names() []string {
	names := make([]string, 0, len(registrations))
	for _, r := range registrations {
		names = append(names, r.name)
	}
	sort.Strings(names)
	return names
}

type Registry struct {
	clients map[string]Client
}

func NewRegistry(cfg *config.Config, httpClient *http.Client) *Registry {
	r := &Registry{clients: make(map[string]Client, len(registrations))}
	for _, reg := range registrations {
		r.clients[strings.ToUpper(reg.name)] = reg.provider(cfg, httpClient)
	}
	return r
}

// Get looks a source up by name, case-insensitively. It returns nil for unknown names.
func (r *Registry) Get(name string) Client {
	if client, ok := r.clients[strings.ToUpper(name)]; ok {
		return client
	}
	return nil
}
