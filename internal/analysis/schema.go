package analysis

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
)

// Kind 标记字段期望的取值类型。
type Kind int

const (
	KindNumber Kind = iota
	KindString
	KindStringList
	KindObject
	KindObjectList
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindStringList:
		return "list<string>"
	case KindObject:
		return "object"
	case KindObjectList:
		return "list<object>"
	default:
		return "unknown"
	}
}

// Bounds 限定数值字段的取值区间。
type Bounds struct {
	Min float64
	Max float64
}

// Field describes one expected key of a provider reply.
type Field struct {
	Name        string
	Kind        Kind
	Description string
	Bounds      *Bounds
	// Integer 为 true 时数值在 Coerce 中四舍五入为整数。
	Integer bool
	// Fields 仅对 KindObject 与 KindObjectList 有效。
	Fields []Field
}

// Schema 描述模板期望的回复结构，同时用于生成提示词与校验回复。
type Schema struct {
	Fields  []Field
	Example map[string]any
}

// Number declares an unbounded numeric field.
func Number(name, description string) Field {
	return Field{Name: name, Kind: KindNumber, Description: description}
}

// Scale declares a numeric field clamped to [min, max].
func Scale(name string, min, max float64, description string) Field {
	return Field{Name: name, Kind: KindNumber, Description: description, Bounds: &Bounds{Min: min, Max: max}}
}

// Percent declares an integer intensity in [0, 100].
func Percent(name, description string) Field {
	f := Scale(name, 0, 100, description)
	f.Integer = true
	return f
}

// String declares a free-text field.
func String(name, description string) Field {
	return Field{Name: name, Kind: KindString, Description: description}
}

// StringList declares a list of free-text values.
func StringList(name, description string) Field {
	return Field{Name: name, Kind: KindStringList, Description: description}
}

// Object declares a nested object.
func Object(name, description string, fields ...Field) Field {
	return Field{Name: name, Kind: KindObject, Description: description, Fields: fields}
}

// ObjectList declares a list of nested objects sharing one shape.
func ObjectList(name, description string, fields ...Field) Field {
	return Field{Name: name, Kind: KindObjectList, Description: description, Fields: fields}
}

// ParseSchema 将调用方提供的松散结构（如 {"x":"number"}）转换为 Schema，键按字母序排列。
func ParseSchema(raw map[string]any) (Schema, error) {
	if len(raw) == 0 {
		return Schema{}, fmt.Errorf("%w: schema has no fields", ErrInvalidTemplate)
	}
	fields, err := parseFields(raw)
	if err != nil {
		return Schema{}, err
	}
	return Schema{Fields: fields}, nil
}

func parseFields(raw map[string]any) ([]Field, error) {
	keys := make([]string, 0, len(raw))
	for key := range raw {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	fields := make([]Field, 0, len(keys))
	for _, key := range keys {
		name := strings.TrimSpace(key)
		if name == "" {
			return nil, fmt.Errorf("%w: empty field name", ErrInvalidTemplate)
		}
		field, err := parseField(name, raw[key])
		if err != nil {
			return nil, err
		}
		fields = append(fields, field)
	}
	return fields, nil
}

func parseField(name string, value any) (Field, error) {
	switch v := value.(type) {
	case string:
		return parseTypeName(name, v), nil
	case map[string]any:
		nested, err := parseFields(v)
		if err != nil {
			return Field{}, err
		}
		return Object(name, "", nested...), nil
	case []any:
		if len(v) == 0 {
			return StringList(name, ""), nil
		}
		switch elem := v[0].(type) {
		case map[string]any:
			nested, err := parseFields(elem)
			if err != nil {
				return Field{}, err
			}
			return ObjectList(name, "", nested...), nil
		default:
			return StringList(name, ""), nil
		}
	case float64, int, json.Number:
		return Number(name, ""), nil
	default:
		return Field{}, fmt.Errorf("%w: unsupported type for field %s", ErrInvalidTemplate, name)
	}
}

func parseTypeName(name, typeName string) Field {
	normalized := strings.ToLower(strings.TrimSpace(typeName))
	switch normalized {
	case "int", "integer":
		f := Number(name, "")
		f.Integer = true
		return f
	case "number", "float", "score":
		return Number(name, "")
	case "string", "text", "str":
		return String(name, "")
	case "list", "array", "list<string>", "[]string", "[string]", "list[string]", "strings":
		return StringList(name, "")
	default:
		// 未识别的类型名视为字段说明
		return String(name, typeName)
	}
}

// Spec 返回以字段名为键、类型描述为值的嵌套结构，便于展示。
func (s Schema) Spec() map[string]any {
	return fieldsSpec(s.Fields)
}

func fieldsSpec(fields []Field) map[string]any {
	out := make(map[string]any, len(fields))
	for _, f := range fields {
		switch f.Kind {
		case KindObject:
			out[f.Name] = fieldsSpec(f.Fields)
		case KindObjectList:
			out[f.Name] = []any{fieldsSpec(f.Fields)}
		default:
			out[f.Name] = f.typeLabel()
		}
	}
	return out
}

func (f Field) typeLabel() string {
	label := f.Kind.String()
	if f.Kind == KindNumber && f.Integer {
		label = "integer"
	}
	if f.Bounds != nil {
		label = fmt.Sprintf("%s (%s-%s)", label, formatNumber(f.Bounds.Min), formatNumber(f.Bounds.Max))
	}
	return label
}

// ExampleJSON 返回示例回复；未提供 Example 时按字段类型生成。
func (s Schema) ExampleJSON() string {
	example := s.Example
	if example == nil {
		example = exampleFor(s.Fields)
	}
	buf, err := json.MarshalIndent(example, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(buf)
}

func exampleFor(fields []Field) map[string]any {
	out := make(map[string]any, len(fields))
	for _, f := range fields {
		switch f.Kind {
		case KindNumber:
			if f.Bounds != nil {
				out[f.Name] = roundNumber(f.Bounds.Min)
			} else {
				out[f.Name] = 0
			}
		case KindString:
			out[f.Name] = "..."
		case KindStringList:
			out[f.Name] = []string{"..."}
		case KindObject:
			out[f.Name] = exampleFor(f.Fields)
		case KindObjectList:
			out[f.Name] = []any{exampleFor(f.Fields)}
		}
	}
	return out
}

// Coerce 按 Schema 规整回复：缺失字段补零值，数值截断到区间内，未声明的字段原样保留。
func (s Schema) Coerce(reply map[string]any) map[string]any {
	return coerceObject(s.Fields, reply)
}

func coerceObject(fields []Field, raw map[string]any) map[string]any {
	out := make(map[string]any, len(raw)+len(fields))
	consumed := make(map[string]bool, len(fields))
	for _, f := range fields {
		key, value := lookupKey(raw, f.Name)
		if key != "" {
			consumed[key] = true
		}
		out[f.Name] = coerceValue(f, value)
	}
	for key, value := range raw {
		if consumed[key] {
			continue
		}
		if _, exists := out[key]; exists {
			continue
		}
		out[key] = value
	}
	return out
}

// lookupKey 优先精确匹配，其次忽略大小写匹配。
func lookupKey(raw map[string]any, name string) (string, any) {
	if v, ok := raw[name]; ok {
		return name, v
	}
	for key, v := range raw {
		if strings.EqualFold(key, name) {
			return key, v
		}
	}
	return "", nil
}

func coerceValue(f Field, value any) any {
	switch f.Kind {
	case KindNumber:
		n, ok := toNumber(value)
		if !ok {
			n = 0
			if f.Bounds != nil {
				n = f.Bounds.Min
			}
		}
		if f.Bounds != nil {
			n = math.Max(f.Bounds.Min, math.Min(f.Bounds.Max, n))
		}
		if f.Integer {
			n = math.Round(n)
		}
		return roundNumber(n)
	case KindString:
		switch v := value.(type) {
		case string:
			return v
		case nil:
			return ""
		default:
			return fmt.Sprint(v)
		}
	case KindStringList:
		return toStringList(value)
	case KindObject:
		nested, _ := value.(map[string]any)
		return coerceObject(f.Fields, nested)
	case KindObjectList:
		items, _ := value.([]any)
		out := make([]any, 0, len(items))
		for _, item := range items {
			if nested, ok := item.(map[string]any); ok {
				out = append(out, coerceObject(f.Fields, nested))
			}
		}
		return out
	default:
		return value
	}
}

func toNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, !math.IsNaN(v)
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(v), "%"), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func toStringList(value any) []string {
	switch v := value.(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			switch s := item.(type) {
			case string:
				out = append(out, s)
			case nil:
			default:
				out = append(out, fmt.Sprint(s))
			}
		}
		return out
	case string:
		if strings.TrimSpace(v) == "" {
			return []string{}
		}
		return []string{v}
	default:
		return []string{}
	}
}

// roundNumber 将整数值表示为 int，使 JSON 输出保持整洁。
func roundNumber(f float64) any {
	if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
		return int(f)
	}
	return f
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func (s Schema) clone() Schema {
	return Schema{Fields: cloneFields(s.Fields), Example: cloneMap(s.Example)}
}

func cloneFields(fields []Field) []Field {
	if fields == nil {
		return nil
	}
	out := make([]Field, len(fields))
	for i, f := range fields {
		out[i] = f
		if f.Bounds != nil {
			b := *f.Bounds
			out[i].Bounds = &b
		}
		out[i].Fields = cloneFields(f.Fields)
	}
	return out
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneAny(v)
	}
	return out
}

func cloneAny(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneMap(t)
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = cloneAny(item)
		}
		return out
	case []string:
		return slices.Clone(t)
	default:
		return v
	}
}
