package vanilla

import (
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-contactform/pkg/model"
)

func controlID(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ""
	}
	return "cf-" + trimmed
}

// inputType maps a format rule onto the HTML input type.
func inputType(field model.Field) string {
	format := field.Format
	if rule, ok := field.Rule(model.ValidationRuleFormat); ok && rule.Params["format"] != "" {
		format = rule.Params["format"]
	}
	if format == "email" {
		return "email"
	}
	return "text"
}

// minLength returns the minLength rule threshold, or 0 when there is none.
func minLength(field model.Field) int {
	rule, ok := field.Rule(model.ValidationRuleMinLength)
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(rule.Params["value"])
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func lower(s string) string {
	return strings.ToLower(s)
}

var (
	descriptionPolicyOnce sync.Once
	descriptionPolicy     *bluemonday.Policy
)

// sanitizeDescription keeps simple inline markup (links, emphasis) in field
// descriptions coming from the form document and strips everything else.
func sanitizeDescription(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	descriptionPolicyOnce.Do(func() {
		policy := bluemonday.StrictPolicy()
		policy.AllowElements("b", "strong", "em", "i", "code", "br")
		policy.AllowAttrs("href").OnElements("a")
		policy.RequireNoFollowOnLinks(true)
		policy.AllowStandardURLs()
		descriptionPolicy = policy
	})
	return strings.TrimSpace(descriptionPolicy.Sanitize(trimmed))
}

func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	names := make([]string, 0, len(vars))
	for name := range vars {
		if strings.HasPrefix(name, "--") {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		value := strings.TrimSpace(vars[name])
		if value == "" || strings.ContainsAny(value, ";{}<>\"") {
			continue
		}
		b.WriteString(name)
		b.WriteString(": ")
		b.WriteString(value)
		b.WriteString("; ")
	}
	return strings.TrimSpace(b.String())
}
