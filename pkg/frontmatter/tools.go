package frontmatter

import (
	"fmt"
	"strings"
)

// Metadata keys that may declare a definition's required tools, highest
// priority first. Both the hyphenated and legacy spellings are accepted
// so downstream code never branches on the source key.
var toolKeys = []string{"allowed-tools", "tools", "required_tools"}

// Tools extracts the required-tool list from definition metadata. The
// value may be a YAML list, a comma-separated string, or a bracketed
// list-literal string; the result is an ordered, deduplicated slice of
// normalized tool names. An empty result means "no restriction declared".
func Tools(metadata map[string]interface{}) []string {
	for _, key := range toolKeys {
		raw, ok := metadata[key]
		if !ok {
			continue
		}
		return normalizeToolValue(raw)
	}
	return nil
}

func normalizeToolValue(raw interface{}) []string {
	var parts []string

	switch v := raw.(type) {
	case string:
		s := strings.TrimSpace(v)
		s = strings.TrimPrefix(s, "[")
		s = strings.TrimSuffix(s, "]")
		parts = strings.Split(s, ",")
	case []interface{}:
		for _, item := range v {
			parts = append(parts, toString(item))
		}
	case []string:
		parts = v
	default:
		return nil
	}

	seen := make(map[string]bool, len(parts))
	var tools []string
	for _, p := range parts {
		name := NormalizeTool(strings.Trim(strings.TrimSpace(p), `"'`))
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		tools = append(tools, name)
	}
	return tools
}

// NormalizeTool lowercases a tool name and maps known aliases to their
// canonical spelling ("Bash" and "bash" both mean "bash_command").
func NormalizeTool(name string) string {
	lower := strings.ToLower(strings.TrimSpace(name))
	if canonical, ok := toolAliases[lower]; ok {
		return canonical
	}
	return lower
}

var toolAliases = map[string]string{
	"bash": "bash_command",
}

func toString(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}
