package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/smartjournal/internal/analysis"
)

// TemplateInfo 描述一个已注册模板。
type TemplateInfo struct {
	Name      string         `json:"name"`
	Questions []string       `json:"questions"`
	Format    map[string]any `json:"format"`
}

// Templates 按注册顺序列出模板。
func (s *JournalService) Templates() []TemplateInfo {
	registry := s.orchestrator.Registry()
	names := registry.Names()
	out := make([]TemplateInfo, 0, len(names))
	for _, name := range names {
		tmpl, err := registry.Get(name)
		if err != nil {
			continue
		}
		out = append(out, TemplateInfo{Name: tmpl.Name, Questions: tmpl.Questions, Format: tmpl.Schema.Spec()})
	}
	return out
}

// TemplateNames 返回模板名称列表。
func (s *JournalService) TemplateNames() []string {
	return s.orchestrator.Registry().Names()
}

// RegisterTemplate 注册或覆盖一个模板，format 使用 {"字段":"类型"} 的松散结构。
func (s *JournalService) RegisterTemplate(name string, questions []string, format map[string]any) error {
	cleaned := make([]string, 0, len(questions))
	for _, q := range questions {
		if q = strings.TrimSpace(q); q != "" {
			cleaned = append(cleaned, q)
		}
	}
	if len(cleaned) == 0 {
		return validationError("at least one question is required")
	}
	schema, err := analysis.ParseSchema(format)
	if err != nil {
		return err
	}
	return s.orchestrator.Registry().Register(name, cleaned, schema)
}

// GetTemplatePreferences 返回用户偏好的模板，未设置时返回默认模板。
func (s *JournalService) GetTemplatePreferences(ctx context.Context, username string) ([]string, error) {
	username, err := requireUsername(username)
	if err != nil {
		return nil, err
	}
	prefs, err := s.store.GetTemplatePreferences(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("load template preferences: %w", err)
	}
	if len(prefs) == 0 {
		return []string{analysis.DefaultTemplate}, nil
	}
	return prefs, nil
}

// SetTemplatePreferences 保存用户偏好，拒绝空列表与未注册的模板。
func (s *JournalService) SetTemplatePreferences(ctx context.Context, username string, templates []string) error {
	username, err := requireUsername(username)
	if err != nil {
		return err
	}

	registry := s.orchestrator.Registry()
	cleaned := make([]string, 0, len(templates))
	for _, name := range templates {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if !registry.Has(name) {
			return fmt.Errorf("%w: %s", analysis.ErrTemplateNotFound, name)
		}
		cleaned = append(cleaned, name)
	}
	if len(cleaned) == 0 {
		return validationError("at least one template is required")
	}

	if err := s.store.SetTemplatePreferences(ctx, username, cleaned); err != nil {
		return fmt.Errorf("save template preferences: %w", err)
	}
	return nil
}
