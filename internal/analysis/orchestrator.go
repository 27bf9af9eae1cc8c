package analysis

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/smartjournal/internal/activity"
	"github.com/smartjournal/internal/logging"
)

// Provider 是外部文本分析服务的抽象。
type Provider interface {
	Complete(ctx context.Context, prompt string, forceJSON bool) (string, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx context.Context, prompt string, forceJSON bool) (string, error)

func (f ProviderFunc) Complete(ctx context.Context, prompt string, forceJSON bool) (string, error) {
	return f(ctx, prompt, forceJSON)
}

type selectorMode int

const (
	modeDefault selectorMode = iota
	modeNamed
	modeList
	modeCustom
)

// Selector 决定一次分析使用哪些模板。零值表示默认模板。
type Selector struct {
	mode      selectorMode
	names     []string
	questions []string
	schema    Schema
}

// DefaultSelector selects the registry's default template.
func DefaultSelector() Selector {
	return Selector{}
}

// Named 选择单个模板，结果为扁平结构。
func Named(name string) Selector {
	return Selector{mode: modeNamed, names: []string{strings.TrimSpace(name)}}
}

// List 选择多个模板，结果按模板名分组。
func List(names ...string) Selector {
	cleaned := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" || slices.Contains(cleaned, name) {
			continue
		}
		cleaned = append(cleaned, name)
	}
	return Selector{mode: modeList, names: cleaned}
}

// Custom 使用调用方提供的问题与 Schema，优先于任何具名模板。
func Custom(questions []string, schema Schema) Selector {
	return Selector{mode: modeCustom, questions: slices.Clone(questions), schema: schema.clone()}
}

// ParseSelector 按 自定义 > 列表 > 单个名称 > 默认 的优先级构建 Selector。
// 自定义问题与格式必须同时提供才生效。
func ParseSelector(questions []string, format map[string]any, names []string, name string) (Selector, error) {
	if len(questions) > 0 && len(format) > 0 {
		schema, err := ParseSchema(format)
		if err != nil {
			return Selector{}, err
		}
		return Custom(questions, schema), nil
	}
	if len(names) > 0 {
		return List(names...), nil
	}
	if strings.TrimSpace(name) != "" {
		return Named(name), nil
	}
	return DefaultSelector(), nil
}

// IsList reports whether results are keyed by template name.
func (s Selector) IsList() bool {
	return s.mode == modeList
}

// IsDefault reports whether no template was chosen explicitly.
func (s Selector) IsDefault() bool {
	return s.mode == modeDefault
}

// IsCustom reports whether the selector carries its own questions and schema.
func (s Selector) IsCustom() bool {
	return s.mode == modeCustom
}

// Names 返回显式选择的模板名。
func (s Selector) Names() []string {
	return slices.Clone(s.names)
}

func (s Selector) String() string {
	switch s.mode {
	case modeNamed:
		return s.names[0]
	case modeList:
		return "[" + strings.Join(s.names, ",") + "]"
	case modeCustom:
		return "custom"
	default:
		return "default"
	}
}

// Option 配置 Orchestrator。
type Option func(*Orchestrator)

// WithTimeout 限制单个模板请求的耗时，0 表示不限制。
func WithTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		o.timeout = d
	}
}

// WithDefaultTemplate 修改未指定模板时使用的模板。
func WithDefaultTemplate(name string) Option {
	return func(o *Orchestrator) {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			o.defaultTemplate = trimmed
		}
	}
}

// Orchestrator 根据 Selector 构建请求、调用分析服务并汇总结果。
type Orchestrator struct {
	registry        *Registry
	provider        Provider
	timeout         time.Duration
	defaultTemplate string
}

// NewOrchestrator 创建编排器，registry 为空时使用内置模板。
func NewOrchestrator(registry *Registry, provider Provider, opts ...Option) *Orchestrator {
	if registry == nil {
		registry = NewRegistry()
	}
	o := &Orchestrator{
		registry:        registry,
		provider:        provider,
		defaultTemplate: DefaultTemplate,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Registry 返回编排器使用的模板注册表。
func (o *Orchestrator) Registry() *Registry {
	return o.registry
}

// Analyze 执行分析。模板不存在或未配置分析服务时返回错误；
// 分析服务调用失败与回复无法解析不会返回错误，而是转换为 {error, details} 结构。
func (o *Orchestrator) Analyze(ctx context.Context, text string, sel Selector) (map[string]any, error) {
	if o.provider == nil {
		return nil, ErrProviderUnavailable
	}

	switch sel.mode {
	case modeCustom:
		if len(sel.schema.Fields) == 0 {
			return nil, fmt.Errorf("%w: custom schema has no fields", ErrInvalidTemplate)
		}
		tmpl := Template{Name: "custom", Questions: sel.questions, Schema: sel.schema}
		return o.runSingle(ctx, tmpl, text), nil
	case modeList:
		return o.analyzeList(ctx, text, sel.names)
	case modeNamed:
		tmpl, err := o.registry.Get(sel.names[0])
		if err != nil {
			return nil, err
		}
		return o.runSingle(ctx, tmpl, text), nil
	default:
		tmpl, err := o.registry.Get(o.defaultTemplate)
		if err != nil {
			return nil, err
		}
		return o.runSingle(ctx, tmpl, text), nil
	}
}

func (o *Orchestrator) runSingle(ctx context.Context, tmpl Template, text string) map[string]any {
	result, err := o.runTemplate(ctx, tmpl, text)
	if err != nil {
		logging.L().Warnw("analysis template failed", "template", tmpl.Name, "error", err)
		return errorEntry(err)
	}
	return result
}

func (o *Orchestrator) analyzeList(ctx context.Context, text string, names []string) (map[string]any, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: empty template list", ErrTemplateNotFound)
	}

	templates := make([]Template, 0, len(names))
	for _, name := range names {
		tmpl, err := o.registry.Get(name)
		if err != nil {
			return nil, err
		}
		templates = append(templates, tmpl)
	}

	type outcome struct {
		result map[string]any
		err    error
	}
	outcomes := make([]outcome, len(templates))

	var wg sync.WaitGroup
	for i, tmpl := range templates {
		wg.Add(1)
		go func(i int, tmpl Template) {
			defer wg.Done()
			result, err := o.runTemplate(ctx, tmpl, text)
			outcomes[i] = outcome{result: result, err: err}
		}(i, tmpl)
	}
	wg.Wait()

	aggregate := make(map[string]any, len(templates)+3)
	templateErrors := make(map[string]any)
	for i, tmpl := range templates {
		if err := outcomes[i].err; err != nil {
			logging.L().Warnw("analysis template failed", "template", tmpl.Name, "error", err)
			entry := errorEntry(err)
			aggregate[tmpl.Name] = entry
			templateErrors[tmpl.Name] = entry
			continue
		}
		aggregate[tmpl.Name] = outcomes[i].result
	}

	if len(templateErrors) == len(templates) {
		aggregate[keyError] = "All analysis templates failed"
		aggregate[keyMessage] = fmt.Sprintf("none of the %d requested templates produced a result", len(templates))
		aggregate[keyTemplateErrors] = templateErrors
	}
	return aggregate, nil
}

// runTemplate 执行单个模板请求，错误统一包装为 ProviderError。
func (o *Orchestrator) runTemplate(ctx context.Context, tmpl Template, text string) (result map[string]any, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = &ProviderError{Template: tmpl.Name, Err: fmt.Errorf("provider panic: %v", r)}
		}
	}()

	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	prompt := BuildPrompt(tmpl.Questions, tmpl.Schema, text)
	logging.AIExchange(tmpl.Name, "request", prompt)

	reply, err := o.provider.Complete(ctx, prompt, true)
	if err != nil {
		return nil, &ProviderError{Template: tmpl.Name, Err: err}
	}
	logging.AIExchange(tmpl.Name, "response", reply)

	parsed, err := ParseReply(reply)
	if err != nil {
		return nil, &ProviderError{Template: tmpl.Name, Err: err}
	}
	return tmpl.Schema.Coerce(parsed), nil
}

// EnsureEmotion 在按模板分组的结果缺少 "emotion" 键时补充全零情绪分数。
// 返回值表示是否进行了补充。
func EnsureEmotion(result map[string]any) bool {
	if result == nil {
		return false
	}
	if _, ok := result[TemplateEmotion]; ok {
		return false
	}
	result[TemplateEmotion] = activity.ZeroScores()
	logging.L().Infow("emotion analysis missing, using zero scores")
	return true
}

// IsProviderError reports whether err came from a provider call or reply parsing.
func IsProviderError(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe)
}
