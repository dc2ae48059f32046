package ai

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"template_builder/internal/types"
)

// Keys a model sometimes nests the bundle under instead of answering with it directly.
var wrapperKeys = []string{"template", "code", "result", "output"}

var (
	errorTextPolicy     *bluemonday.Policy
	errorTextPolicyOnce sync.Once
)

func errorTextSanitizer() *bluemonday.Policy {
	errorTextPolicyOnce.Do(func() {
		errorTextPolicy = bluemonday.StrictPolicy()
	})
	return errorTextPolicy
}

// ParseBundle extracts the html/css/js triple from a raw model reply.
func ParseBundle(raw string) (*types.CodeBundle, error) {
	cleaned := cleanReply(raw)
	if cleaned == "" {
		return nil, fmt.Errorf("%w: empty response", ErrIncompleteReply)
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &top); err != nil {
		return nil, fmt.Errorf("%w: reply is not a JSON object: %v", ErrIncompleteReply, err)
	}

	bundle, err := bundleFrom(top)
	if err == nil {
		return bundle, nil
	}
	for _, key := range wrapperKeys {
		inner, ok := top[key]
		if !ok {
			continue
		}
		var nested map[string]json.RawMessage
		if json.Unmarshal(inner, &nested) != nil {
			continue
		}
		if wrapped, errWrapped := bundleFrom(nested); errWrapped == nil {
			return wrapped, nil
		}
	}
	return nil, err
}

// cleanReply strips markdown fences and any prose around the outermost object.
func cleanReply(raw string) string {
	cleaned := strings.TrimSpace(raw)
	if strings.HasPrefix(cleaned, "```") {
		if nl := strings.IndexByte(cleaned, '\n'); nl >= 0 {
			cleaned = cleaned[nl+1:]
		} else {
			cleaned = strings.TrimPrefix(cleaned, "```")
		}
		cleaned = strings.TrimSuffix(strings.TrimSpace(cleaned), "```")
		cleaned = strings.TrimSpace(cleaned)
	}
	if !strings.HasPrefix(cleaned, "{") {
		start, end := strings.IndexByte(cleaned, '{'), strings.LastIndexByte(cleaned, '}')
		if start >= 0 && end > start {
			cleaned = cleaned[start : end+1]
		}
	}
	return cleaned
}

func bundleFrom(obj map[string]json.RawMessage) (*types.CodeBundle, error) {
	values := make(map[string]string, 3)
	var missing []string
	for _, key := range []string{"html", "css", "js"} {
		var s string
		raw, ok := obj[key]
		if !ok || json.Unmarshal(raw, &s) != nil || strings.TrimSpace(s) == "" {
			missing = append(missing, key)
			continue
		}
		values[key] = s
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing %s", ErrIncompleteReply, strings.Join(missing, ", "))
	}
	return &types.CodeBundle{HTML: values["html"], CSS: values["css"], JS: values["js"]}, nil
}

// DegradedBundle is the placeholder shown when a reply cannot be used.
func DegradedBundle(reason string) *types.CodeBundle {
	return &types.CodeBundle{
		HTML: `<div class="error">Error generating the page: ` + errorTextSanitizer().Sanitize(reason) + `</div>`,
	}
}
