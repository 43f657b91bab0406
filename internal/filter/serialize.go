package filter

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ParseError reports a filter string that could not be decoded.
type ParseError struct {
	Input string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse filter: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Key order matters: it is part of the stored format.
type wireFilter struct {
	Description *wireDescription `json:"description,omitempty"`
	IDs         []int            `json:"ids,omitempty"`
	Levels      []string         `json:"levels,omitempty"`
	Sources     []string         `json:"sources,omitempty"`
	Tasks       []string         `json:"tasks,omitempty"`
}

type wireDescription struct {
	Text       string `json:"text"`
	Negate     bool   `json:"negate"`
	IncludeXML bool   `json:"includeXml"`
}

// Stringify serializes f, emitting only non-empty fields. Sets are written as
// sorted arrays so filters with the same content always produce the same
// string. pretty indents with four spaces. Description text is expected to be
// valid UTF-8 (Parse rejects anything else); invalid bytes are written as
// U+FFFD.
func Stringify(f Filter, pretty bool) string {
	f = f.Normalize()
	w := wireFilter{
		IDs:     f.IDs.Sorted(),
		Levels:  f.Levels.Sorted(),
		Sources: f.Sources.Sorted(),
		Tasks:   f.Tasks.Sorted(),
	}
	if d := f.Description; d != nil {
		w.Description = &wireDescription{Text: d.Text, Negate: d.Negate, IncludeXML: d.IncludeXML}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", "    ")
	}
	// Encoding plain slices and strings cannot fail.
	_ = enc.Encode(w)
	return strings.TrimSuffix(buf.String(), "\n")
}

// Parse decodes a string produced by Stringify. A bare string description, the
// format written by older versions, is upgraded to a non-negated predicate.
// Keys match exactly; unknown keys are ignored. Anything but a JSON object, or
// input that is not valid UTF-8, is a *ParseError.
func Parse(s string) (Filter, error) {
	f, err := parse(s)
	if err != nil {
		return Filter{}, &ParseError{Input: s, Err: err}
	}
	return f, nil
}

func parse(s string) (Filter, error) {
	if !utf8.ValidString(s) {
		return Filter{}, errors.New("invalid UTF-8")
	}
	fields, err := decodeObject([]byte(s))
	if err != nil {
		return Filter{}, err
	}

	var ids []int
	var levels, sources, tasks []string
	for _, field := range []struct {
		key string
		dst any
	}{
		{"ids", &ids},
		{"levels", &levels},
		{"sources", &sources},
		{"tasks", &tasks},
	} {
		if err := decodeField(fields, field.key, field.dst); err != nil {
			return Filter{}, err
		}
	}

	desc, err := parseDescription(fields["description"])
	if err != nil {
		return Filter{}, err
	}

	f := Filter{
		IDs:         NewSet(ids...),
		Levels:      NewSet(levels...),
		Sources:     NewSet(sources...),
		Tasks:       NewSet(tasks...),
		Description: desc,
	}
	return f.Normalize(), nil
}

// decodeObject splits a JSON object into its raw members.
func decodeObject(data []byte) (map[string]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, errors.New("want a JSON object")
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

// decodeField unmarshals fields[key] into dst when present.
func decodeField(fields map[string]json.RawMessage, key string, dst any) error {
	raw, ok := fields[key]
	if !ok {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	return nil
}

func parseDescription(raw json.RawMessage) (*Description, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	if trimmed[0] == '"' {
		var text string
		if err := json.Unmarshal(trimmed, &text); err != nil {
			return nil, fmt.Errorf("description: %w", err)
		}
		return &Description{Text: text}, nil
	}

	fields, err := decodeObject(trimmed)
	if err != nil {
		return nil, fmt.Errorf("description: %w", err)
	}
	var d Description
	for _, field := range []struct {
		key string
		dst any
	}{
		{"text", &d.Text},
		{"negate", &d.Negate},
		{"includeXml", &d.IncludeXML},
	} {
		if err := decodeField(fields, field.key, field.dst); err != nil {
			return nil, fmt.Errorf("description: %w", err)
		}
	}
	return &d, nil
}
