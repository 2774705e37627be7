// Package result reads the impact analysis result document and turns its
// testsToRun section into the ordered list of Gradle task paths to run.
package result

import (
	"bytes"
	"fmt"
	"os"

	"github.com/goccy/go-json"
)

// Document is the subset of the impact analysis result the launcher reads.
// Other top-level fields (changedFiles, affectedModules, ...) are ignored.
type Document struct {
	TestsToRun TestGroups `json:"testsToRun"`
}

// TestGroup is one testsToRun entry: a test type key and its task paths.
type TestGroup struct {
	Key   string
	Tasks []string
}

// TestGroups keeps testsToRun entries in document order.
type TestGroups []TestGroup

// Load reads and parses the document at path. The file is closed before
// Load returns.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read result document: %w", err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return doc, nil
}

// Parse decodes a result document. The top level must be a JSON object and
// testsToRun, when present, must map strings to arrays of strings.
func Parse(data []byte) (*Document, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, fmt.Errorf("result document must be a JSON object")
	}

	var doc Document
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// UnmarshalJSON walks the testsToRun object token by token so groups keep
// the order they appear in. A repeated key keeps its first position and takes
// the last value.
func (g *TestGroups) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("testsToRun: %w", err)
	}
	if tok == nil {
		*g = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("testsToRun: expected an object of task lists, got %v", tok)
	}

	var groups TestGroups
	index := make(map[string]int)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("testsToRun: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("testsToRun: unexpected key %v", tok)
		}

		var tasks []string
		if err := dec.Decode(&tasks); err != nil {
			return fmt.Errorf("testsToRun %q: %w", key, err)
		}
		if i, dup := index[key]; dup {
			groups[i].Tasks = tasks
			continue
		}
		index[key] = len(groups)
		groups = append(groups, TestGroup{Key: key, Tasks: tasks})
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("testsToRun: %w", err)
	}

	*g = groups
	return nil
}
