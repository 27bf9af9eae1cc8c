package activity

import (
	"math/rand/v2"
	"sync"
	"time"
)

// Rand 是推荐引擎所需的随机源，*rand.Rand 满足该接口。
type Rand interface {
	IntN(n int) int
}

// NewRand 返回可复现的随机源，seed 为 0 时使用当前时间。
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Suggestion bundles the chosen activity with the reason it was picked.
type Suggestion struct {
	Activity Activity
	Reason   string
	Rule     string
}

// Engine evaluates rules against emotion scores and picks one activity.
// It is safe for concurrent use.
type Engine struct {
	catalog *Catalog
	rules   []Rule

	mu  sync.Mutex
	rng Rand
}

// NewEngine 构造推荐引擎，未传入规则时使用 DefaultRules。
func NewEngine(catalog *Catalog, rng Rand, rules ...Rule) *Engine {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	if rng == nil {
		rng = NewRand(0)
	}
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Engine{catalog: catalog, rules: rules, rng: rng}
}

// Catalog exposes the catalog the engine draws from.
func (e *Engine) Catalog() *Catalog {
	return e.catalog
}

// Suggest 返回一条推荐；没有规则命中或分类为空时返回 false，这属于正常结果。
func (e *Engine) Suggest(scores EmotionScores) (Suggestion, bool) {
	matched := make([]Rule, 0, len(e.rules))
	for _, rule := range e.rules {
		if rule.Matches(scores) {
			matched = append(matched, rule)
		}
	}
	if len(matched) == 0 {
		return Suggestion{}, false
	}

	e.mu.Lock()
	// 多条规则命中时在其中均匀随机选择
	rule := matched[e.rng.IntN(len(matched))]
	picked, ok := e.catalog.RandomFromCategory(rule.Category(), e.rng)
	e.mu.Unlock()
	if !ok {
		return Suggestion{}, false
	}

	return Suggestion{
		Activity: picked,
		Reason:   rule.Reason(scores),
		Rule:     rule.Name(),
	}, true
}
