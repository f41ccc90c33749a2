package content

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

var delimiter = []byte("---")

// splitFrontMatter separates a leading YAML block fenced by --- lines from the body.
// Files without one have empty front matter.
func splitFrontMatter(raw []byte) (meta map[string]any, body []byte, err error) {
	raw = bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))
	normalized := bytes.ReplaceAll(raw, []byte("\r\n"), []byte("\n"))

	if !bytes.HasPrefix(normalized, append(delimiter, '\n')) {
		return map[string]any{}, normalized, nil
	}

	rest := normalized[len(delimiter)+1:]
	var block []byte
	switch {
	case bytes.HasPrefix(rest, append(delimiter, '\n')) || bytes.Equal(rest, delimiter):
		block, body = nil, bytes.TrimPrefix(bytes.TrimPrefix(rest, delimiter), []byte("\n"))
	default:
		end := bytes.Index(rest, append([]byte("\n"), delimiter...))
		if end < 0 {
			return nil, nil, fmt.Errorf("%w: unterminated front matter", ErrValidation)
		}
		block = rest[:end]
		body = rest[end+1+len(delimiter):]
		body = bytes.TrimPrefix(body, []byte("\n"))
	}

	meta = map[string]any{}
	if len(bytes.TrimSpace(block)) > 0 {
		if err := yaml.Unmarshal(block, &meta); err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
	}
	if meta == nil {
		meta = map[string]any{}
	}
	return meta, body, nil
}

// Render produces a markdown document: data as a fenced YAML block followed by body.
func Render(data any, body string) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(delimiter)
	buf.WriteByte('\n')

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(data); err != nil {
		return nil, fmt.Errorf("encode front matter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode front matter: %w", err)
	}

	buf.Write(delimiter)
	buf.WriteByte('\n')
	if body != "" {
		buf.WriteByte('\n')
		buf.WriteString(body)
	}
	return buf.Bytes(), nil
}
