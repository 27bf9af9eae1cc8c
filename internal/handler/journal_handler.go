package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/smartjournal/internal/analysis"
	"github.com/smartjournal/internal/store"
)

// 日记提交接口支持的动作。
const (
	actionAnalyze        = "analyze"
	actionSubmit         = "submit"
	actionAnalyzeAndSave = "analyze_and_save"
)

// templateNames 接受单个字符串或字符串数组。数组（或含逗号的字符串）按多模板处理，结果按模板名分组。
type templateNames struct {
	Names  []string
	IsList bool
}

func (t *templateNames) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		t.Names = splitNames([]string{single})
		t.IsList = len(t.Names) > 1
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("templates must be a string or a list of strings")
	}
	t.Names = splitNames(list)
	t.IsList = true
	return nil
}

func splitNames(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		for _, name := range strings.Split(item, ",") {
			if name = strings.TrimSpace(name); name != "" {
				out = append(out, name)
			}
		}
	}
	return out
}

type journalEntryRequest struct {
	Username        string         `json:"username"`
	Title           string         `json:"title"`
	Text            string         `json:"text"`
	Action          string         `json:"action"`
	Templates       templateNames  `json:"templates"`
	Template        string         `json:"template"`
	Classification  map[string]any `json:"classification"`
	CustomQuestions []string       `json:"custom_questions"`
	CustomFormat    map[string]any `json:"custom_format"`
}

// selector 按 custom > templates > template 的优先级构造模板选择。
func (r journalEntryRequest) selector() (analysis.Selector, error) {
	names := r.Templates.Names
	single := r.Template
	if !r.Templates.IsList && len(names) == 1 {
		single, names = names[0], nil
	}
	return analysis.ParseSelector(r.CustomQuestions, r.CustomFormat, names, single)
}

// NewJournalEntry 处理日记的分析、保存以及分析并保存三种动作。
func (a *API) NewJournalEntry(c *gin.Context) {
	var req journalEntryRequest
	if !bindJSON(c, &req, "invalid journal entry payload") {
		return
	}

	action := strings.ToLower(strings.TrimSpace(req.Action))
	if action == "" {
		action = actionAnalyzeAndSave
	}

	ctx := c.Request.Context()
	switch action {
	case actionAnalyze:
		sel, err := req.selector()
		if err != nil {
			handleJournalError(c, err, "failed to analyze journal entry")
			return
		}
		result, err := a.journal.Analyze(ctx, req.Text, sel)
		if err != nil {
			handleJournalError(c, err, "failed to analyze journal entry")
			return
		}
		c.JSON(http.StatusOK, result)

	case actionSubmit:
		res, err := a.journal.Save(ctx, req.Username, req.Text, req.Title, req.Classification)
		if err != nil {
			handleJournalError(c, err, "failed to save journal entry")
			return
		}
		status := http.StatusOK
		if !res.Success {
			status = http.StatusInternalServerError
		}
		c.JSON(status, res)

	case actionAnalyzeAndSave:
		sel, err := req.selector()
		if err != nil {
			handleJournalError(c, err, "failed to analyze journal entry")
			return
		}
		res, err := a.journal.AnalyzeAndSave(ctx, req.Username, req.Text, req.Title, sel)
		if err != nil {
			handleJournalError(c, err, "failed to analyze journal entry")
			return
		}
		status := http.StatusOK
		if !res.Success {
			status = http.StatusInternalServerError
		}
		c.JSON(status, res)

	default:
		respondError(c, http.StatusBadRequest, fmt.Sprintf("unknown action %q", req.Action))
	}
}

// GetHistory 返回用户的全部日记，用户不存在时返回空列表。
func (a *API) GetHistory(c *gin.Context) {
	username, ok := usernameParam(c)
	if !ok {
		return
	}
	entries, err := a.journal.History(c.Request.Context(), username)
	if err != nil {
		handleJournalError(c, err, "failed to load journal history")
		return
	}
	if entries == nil {
		entries = []store.JournalEntry{}
	}
	c.JSON(http.StatusOK, entries)
}
