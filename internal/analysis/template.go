package analysis

import (
	"fmt"
	"slices"
	"strings"
	"sync"
)

// Template 是一组问题与期望回复结构的组合。
type Template struct {
	Name      string
	Questions []string
	Schema    Schema
}

// Registry 保存具名模板。注册为后写覆盖，名称保持首次注册的顺序。
type Registry struct {
	mu        sync.RWMutex
	order     []string
	templates map[string]Template
}

// NewRegistry 返回预置内置模板的注册表。
func NewRegistry() *Registry {
	r := NewEmptyRegistry()
	for _, t := range builtinTemplates() {
		r.put(t)
	}
	return r
}

// NewEmptyRegistry 返回没有任何模板的注册表。
func NewEmptyRegistry() *Registry {
	return &Registry{templates: make(map[string]Template)}
}

// Get 按名称查找模板，未注册时返回 ErrTemplateNotFound。
func (r *Registry) Get(name string) (Template, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.templates[strings.TrimSpace(name)]
	if !ok {
		return Template{}, fmt.Errorf("%w: %s", ErrTemplateNotFound, name)
	}
	return t.clone(), nil
}

// Has reports whether a template is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.templates[strings.TrimSpace(name)]
	return ok
}

// Register 注册或静默覆盖同名模板。
func (r *Registry) Register(name string, questions []string, schema Schema) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidTemplate)
	}
	if slices.Contains(reservedNames, name) {
		return fmt.Errorf("%w: %s is reserved", ErrInvalidTemplate, name)
	}
	if len(schema.Fields) == 0 {
		return fmt.Errorf("%w: schema for %s has no fields", ErrInvalidTemplate, name)
	}

	r.put(Template{Name: name, Questions: questions, Schema: schema}.clone())
	return nil
}

// 列表模式全部失败时，这些键与各模板结果写在同一层。
const (
	keyError          = "error"
	keyMessage        = "message"
	keyTemplateErrors = "template_errors"
)

var reservedNames = []string{keyError, keyMessage, keyTemplateErrors}

func (r *Registry) put(t Template) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.templates[t.Name]; !exists {
		r.order = append(r.order, t.Name)
	}
	r.templates[t.Name] = t
}

// Names 按注册顺序返回模板名称。
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.order)
}

func (t Template) clone() Template {
	return Template{
		Name:      t.Name,
		Questions: slices.Clone(t.Questions),
		Schema:    t.Schema.clone(),
	}
}
