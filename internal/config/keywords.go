package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// KeywordRule maps a title keyword to an emoji
type KeywordRule struct {
	Keyword string `json:"keyword" yaml:"keyword"`
	Emoji   string `json:"emoji" yaml:"emoji"`
}

// KeywordTable is an ordered list of keyword rules. The first rule whose keyword occurs in a
// title wins, so order is part of the contract. Config files may write it either as an object
// ({"quiz": "🧠"}), whose key order is kept, or as a list of {keyword, emoji} pairs.
type KeywordTable []KeywordRule

// Match returns the emoji of the first rule whose keyword is a case-insensitive substring of title
func (t KeywordTable) Match(title string) (string, bool) {
	lower := strings.ToLower(title)
	for _, rule := range t {
		if rule.Keyword == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(rule.Keyword)) {
			return rule.Emoji, true
		}
	}
	return "", false
}

// UnmarshalJSON decodes the object form by walking tokens, which keeps key order
func (t *KeywordTable) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*t = KeywordTable{}
		return nil
	}

	if trimmed[0] == '[' {
		var rules []KeywordRule
		if err := json.Unmarshal(trimmed, &rules); err != nil {
			return fmt.Errorf("keyword_mappings: %w", err)
		}
		*t = rules
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("keyword_mappings: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("keyword_mappings: expected object or array")
	}

	table := KeywordTable{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("keyword_mappings: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("keyword_mappings: expected string key")
		}
		var emoji string
		if err := dec.Decode(&emoji); err != nil {
			return fmt.Errorf("keyword_mappings[%q]: %w", key, err)
		}
		table = append(table, KeywordRule{Keyword: key, Emoji: emoji})
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("keyword_mappings: %w", err)
	}

	*t = table
	return nil
}

// MarshalJSON writes the object form in table order
func (t KeywordTable) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, rule := range t {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(rule.Keyword)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(rule.Emoji)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalYAML reads a mapping node in document order, or a sequence of rules
func (t *KeywordTable) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.MappingNode:
		table := make(KeywordTable, 0, len(value.Content)/2)
		for i := 0; i+1 < len(value.Content); i += 2 {
			var key, emoji string
			if err := value.Content[i].Decode(&key); err != nil {
				return fmt.Errorf("keyword_mappings: %w", err)
			}
			if err := value.Content[i+1].Decode(&emoji); err != nil {
				return fmt.Errorf("keyword_mappings[%q]: %w", key, err)
			}
			table = append(table, KeywordRule{Keyword: key, Emoji: emoji})
		}
		*t = table
		return nil
	case yaml.SequenceNode:
		var rules []KeywordRule
		if err := value.Decode(&rules); err != nil {
			return fmt.Errorf("keyword_mappings: %w", err)
		}
		*t = rules
		return nil
	case yaml.ScalarNode:
		if value.Tag == "!!null" {
			*t = KeywordTable{}
			return nil
		}
	}
	return fmt.Errorf("keyword_mappings: expected mapping or sequence at line %d", value.Line)
}
