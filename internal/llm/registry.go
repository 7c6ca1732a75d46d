package llm

import "fmt"

// ModelRoute binds a logical model id to a provider and the physical
// model name sent over the wire.
type ModelRoute struct {
	Name        string
	Provider    string
	Model       string
	Temperature float64
	MaxTokens   int
}

// Registry resolves model ids to providers.
type Registry struct {
	providers    map[string]Provider
	models       map[string]ModelRoute
	defaultModel string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		providers: make(map[string]Provider),
		models:    make(map[string]ModelRoute),
	}
}

// RegisterProvider adds a provider implementation.
func (r *Registry) RegisterProvider(name string, p Provider) {
	r.providers[name] = p
}

// RegisterModel adds a model route. The first registered model becomes
// the default unless a later one is explicitly marked default.
func (r *Registry) RegisterModel(name string, route ModelRoute, isDefault bool) {
	route.Name = name
	r.models[name] = route
	if isDefault || r.defaultModel == "" {
		r.defaultModel = name
	}
}

// Resolve returns the provider and route for a model id (default if empty).
func (r *Registry) Resolve(modelID string) (Provider, ModelRoute, error) {
	if modelID == "" {
		modelID = r.defaultModel
	}

	route, ok := r.models[modelID]
	if !ok {
		return nil, ModelRoute{}, fmt.Errorf("model %q not registered", modelID)
	}

	p, ok := r.providers[route.Provider]
	if !ok {
		return nil, ModelRoute{}, fmt.Errorf("provider %q not registered for model %q", route.Provider, modelID)
	}

	return p, route, nil
}

// Models returns the registered model ids; used by doctor/cases output.
func (r *Registry) Models() []string {
	out := make([]string, 0, len(r.models))
	for name := range r.models {
		out = append(out, name)
	}
	return out
}
