package config

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/Digital-Shane/rlz-tidy/internal/media"
	"github.com/Digital-Shane/rlz-tidy/internal/provider"
)

// CoreProvider is the provider name of the variables every record carries.
const CoreProvider = "core"

// coreVariables are resolved from the record itself, with or without
// enrichers.
var coreVariables = []provider.TemplateVariable{
	{Name: "title", DisplayName: "Title", Description: "The release title", Example: "Hypothermia", Category: "release"},
	{Name: "year", DisplayName: "Year", Description: "The release year", Example: "2010", Category: "release"},
	{Name: "release", DisplayName: "Release Name", Description: "The full release name", Example: "Hypothermia.2010.FRENCH.720p.BluRay.AC3-ARTEFAC", Category: "release"},
	{Name: "group", DisplayName: "Group", Description: "The release group", Example: "ARTEFAC", Category: "release"},
	{Name: "ext", DisplayName: "Extension", Description: "The file extension", Example: "mkv", Category: "release"},
	{Name: "season", DisplayName: "Season", Description: "The season number (padded to 2 digits)", Example: "02", Category: "release"},
	{Name: "episode", DisplayName: "Episode", Description: "The episode number (padded to 2 digits)", Example: "05", Category: "release"},
	{Name: "source", DisplayName: "Source", Description: "The original source", Example: "bluray", Category: "video"},
	{Name: "format", DisplayName: "Format", Description: "The picture format", Example: "720p", Category: "video"},
	{Name: "codec", DisplayName: "Codec", Description: "The video codec", Example: "h264", Category: "video"},
	{Name: "framerate", DisplayName: "Frame Rate", Description: "The measured frame rate", Example: "23.976", Category: "video"},
	{Name: "standard", DisplayName: "Standard", Description: "PAL or NTSC, derived from the frame rate", Example: "PAL", Category: "video"},
	{Name: "audio", DisplayName: "Audio", Description: "The codec of the primary audio track", Example: "ac3", Category: "audio"},
	{Name: "lang", DisplayName: "Language", Description: "The language classification", Example: "vfq", Category: "audio"},
}

// TemplateRegistry manages template variables from the core record and
// every registered enricher
type TemplateRegistry struct {
	mu        sync.RWMutex
	variables map[string]provider.TemplateVariable // variable name -> definition
	providers map[string]provider.Enricher         // provider name -> enricher
	varOwners map[string][]string                  // variable name -> providers that supply it
	resolver  *TemplateResolver
}

// NewTemplateRegistry creates a new template registry holding the core
// variables
func NewTemplateRegistry() *TemplateRegistry {
	r := &TemplateRegistry{
		variables: make(map[string]provider.TemplateVariable),
		providers: make(map[string]provider.Enricher),
		varOwners: make(map[string][]string),
		resolver:  NewTemplateResolver(),
	}
	for _, v := range coreVariables {
		v.Provider = CoreProvider
		r.variables[v.Name] = v
		r.varOwners[v.Name] = []string{CoreProvider}
	}
	return r
}

// RegisterProvider registers an enricher and its variables
func (r *TemplateRegistry) RegisterProvider(p provider.Enricher) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := p.Name()
	if _, exists := r.providers[name]; exists || name == CoreProvider {
		return fmt.Errorf("provider %s already registered", name)
	}

	r.providers[name] = p

	for _, v := range p.SupportedVariables() {
		v.Provider = name

		owners := r.varOwners[v.Name]
		if !slices.Contains(owners, name) {
			r.varOwners[v.Name] = append(owners, name)
		}

		// First registration wins the definition
		if _, exists := r.variables[v.Name]; exists {
			continue
		}
		r.variables[v.Name] = v
	}

	return nil
}

// GetAvailableVariables returns all available template variables sorted by
// name
func (r *TemplateRegistry) GetAvailableVariables() []provider.TemplateVariable {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]provider.TemplateVariable, 0, len(r.variables))
	for _, v := range r.variables {
		result = append(result, v)
	}
	slices.SortFunc(result, func(a, b provider.TemplateVariable) int {
		return strings.Compare(a.Name, b.Name)
	})
	return result
}

// VariableProviders returns all providers that can supply a given variable.
func (r *TemplateRegistry) VariableProviders(variableName string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	owners := r.varOwners[variableName]
	result := make([]string, len(owners))
	copy(result, owners)
	return result
}

// ValidateTemplate reports the first variable of template that no
// registered provider supplies
func (r *TemplateRegistry) ValidateTemplate(template string) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, name := range r.resolver.Variables(template) {
		if _, ok := r.variables[name]; !ok {
			return fmt.Errorf("unknown variable: {%s}", name)
		}
	}
	return nil
}

// GetVariableHelp returns help text for a variable
func (r *TemplateRegistry) GetVariableHelp(varName string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, exists := r.variables[varName]
	if !exists {
		return "Unknown variable"
	}
	help := v.Description
	if v.Example != "" {
		help += fmt.Sprintf(" (Example: %s)", v.Example)
	}
	return help
}

// Render implements provider.Renderer. Variables of enrichers that are not
// registered render empty, so one template serves with and without lookups.
func (r *TemplateRegistry) Render(template string, rec *media.Record) (string, error) {
	return r.resolver.Render(template, rec)
}

// TemplateResolver handles template variable resolution
type TemplateResolver struct {
	variablePattern *regexp.Regexp
}

// NewTemplateResolver creates a new template resolver
func NewTemplateResolver() *TemplateResolver {
	return &TemplateResolver{
		variablePattern: regexp.MustCompile(`\{([^}]+)\}`),
	}
}

// Variables lists the variable names used by template in order of
// appearance, without duplicates
func (r *TemplateResolver) Variables(template string) []string {
	var names []string
	for _, match := range r.variablePattern.FindAllStringSubmatch(template, -1) {
		if !slices.Contains(names, match[1]) {
			names = append(names, match[1])
		}
	}
	return names
}

// Render implements provider.Renderer. Known variables without a value
// render as an empty string; unknown variables are an error.
func (r *TemplateResolver) Render(template string, rec *media.Record) (string, error) {
	if rec == nil {
		rec = media.NewRecord()
	}

	var unknown string
	result := r.variablePattern.ReplaceAllStringFunc(template, func(placeholder string) string {
		name := placeholder[1 : len(placeholder)-1]
		value, ok := resolveVariable(name, rec)
		if !ok && unknown == "" {
			unknown = name
		}
		return value
	})
	if unknown != "" {
		return "", fmt.Errorf("unknown variable: {%s}", unknown)
	}
	return result, nil
}

// resolveVariable resolves a single variable to its value
func resolveVariable(varName string, rec *media.Record) (string, bool) {
	g := &rec.General
	switch varName {
	case "title":
		return g.Title, true
	case "year":
		if g.Year == nil {
			return "", true
		}
		return strconv.Itoa(*g.Year), true
	case "release":
		return g.ReleaseName, true
	case "group":
		return g.Group, true
	case "ext":
		return media.Value(g.FileExtension), true
	case "season":
		if g.Series == nil {
			return "", true
		}
		return fmt.Sprintf("%02d", g.Series.Season), true
	case "episode":
		if g.Series == nil {
			return "", true
		}
		return fmt.Sprintf("%02d", g.Series.Episode), true
	case "source":
		return media.Value(g.OriginalSource), true
	case "format":
		return media.Value(rec.Video.Format), true
	case "codec":
		return media.Value(rec.Video.Codec), true
	case "framerate":
		if rec.Video.Framerate == nil {
			return "", true
		}
		return strconv.FormatFloat(*rec.Video.Framerate, 'f', -1, 64), true
	case "standard":
		return rec.Standard(), true
	case "audio":
		if len(rec.Languages.Slots) == 0 {
			return "", true
		}
		return media.Value(rec.Languages.Slots[0].Codec), true
	case "lang":
		return rec.Languages.Tag, true
	case "plot":
		return g.Plot, true
	case "genres":
		return strings.Join(g.Genres, ", "), true
	case "rating":
		if g.Rating == nil {
			return "", true
		}
		return fmt.Sprintf("%.1f", *g.Rating), true
	case "rating_count":
		if g.RatingCount == nil {
			return "", true
		}
		return strconv.Itoa(*g.RatingCount), true
	case "poster":
		return g.Poster, true
	}
	return "", false
}
