// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// TestCase is one input record describing a test scenario.
// It is immutable once loaded.
type TestCase struct {
	ID              string `json:"id" yaml:"id"`
	Module          string `json:"module" yaml:"module"`
	Title           string `json:"title" yaml:"title"`
	Description     string `json:"description" yaml:"description"`
	Steps           Steps  `json:"steps" yaml:"steps"`
	ExpectedResults string `json:"expectedResults" yaml:"expectedResults"`
}

// Steps holds the steps of a test case, either as free text or as a list.
// The original shape is kept so persisted documents reproduce the input.
type Steps struct {
	text   string
	items  []string
	isList bool
}

// TextSteps returns Steps holding free text.
func TextSteps(text string) Steps {
	return Steps{text: text}
}

// ListSteps returns Steps holding a list of individual steps.
func ListSteps(items ...string) Steps {
	return Steps{items: append([]string(nil), items...), isList: true}
}

// IsList reports whether the steps were given as a list.
func (s Steps) IsList() bool {
	return s.isList
}

// Items returns the list form. Free text yields a single item, or none when empty.
func (s Steps) Items() []string {
	if s.isList {
		return append([]string(nil), s.items...)
	}
	if s.text == "" {
		return nil
	}
	return []string{s.text}
}

// IsEmpty reports whether there are no steps at all.
func (s Steps) IsEmpty() bool {
	if s.isList {
		return len(s.items) == 0
	}
	return s.text == ""
}

// Value returns the steps in their original shape: a string or a []string.
// An empty list yields an empty, non-nil slice.
func (s Steps) Value() any {
	if s.isList {
		items := make([]string, len(s.items))
		copy(items, s.items)
		return items
	}
	return s.text
}

// String renders the steps as prompt text, one list item per line.
func (s Steps) String() string {
	if s.isList {
		return strings.Join(s.items, "\n")
	}
	return s.text
}

// MarshalJSON encodes the steps in their original shape.
func (s Steps) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Value())
}

// UnmarshalJSON accepts a string, a list of strings, or null.
func (s *Steps) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	steps, err := StepsFromValue(raw)
	if err != nil {
		return err
	}
	*s = steps
	return nil
}

// UnmarshalYAML accepts a scalar or a sequence of scalars.
func (s *Steps) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			*s = Steps{}
			return nil
		}
		*s = TextSteps(node.Value)
		return nil
	case yaml.SequenceNode:
		items := make([]string, 0, len(node.Content))
		for _, item := range node.Content {
			if item.Kind != yaml.ScalarNode {
				return fmt.Errorf("%w: step at line %d is not a scalar", ErrInvalidSteps, item.Line)
			}
			items = append(items, item.Value)
		}
		*s = ListSteps(items...)
		return nil
	default:
		return fmt.Errorf("%w: unsupported yaml node at line %d", ErrInvalidSteps, node.Line)
	}
}

// StepsFromValue converts a decoded value (string, list of scalars, or nil) into Steps.
func StepsFromValue(v any) (Steps, error) {
	switch val := v.(type) {
	case nil:
		return Steps{}, nil
	case string:
		return TextSteps(val), nil
	case []string:
		return ListSteps(val...), nil
	case []any:
		items := make([]string, 0, len(val))
		for _, item := range val {
			switch it := item.(type) {
			case string:
				items = append(items, it)
			case nil:
				items = append(items, "")
			default:
				items = append(items, fmt.Sprint(it))
			}
		}
		return ListSteps(items...), nil
	default:
		return Steps{}, fmt.Errorf("%w: unsupported type %T", ErrInvalidSteps, v)
	}
}

// EmbeddingResult is the outcome of one successful embedding request.
type EmbeddingResult struct {
	Vector []float32
	Model  string
	Cost   float64
	Tokens int64
	Status int // status reported by the embedding service
}

// EmbeddingMetadata describes how a document's embedding was produced.
type EmbeddingMetadata struct {
	Model  string
	Cost   float64
	Tokens int64
	Source string // source-system tag
	RunID  string // shared by every document written in one run
}

// EnrichedDocument is a TestCase plus its embedding, as persisted.
type EnrichedDocument struct {
	TestCase
	Embedding []float32
	CreatedAt time.Time
	Metadata  EmbeddingMetadata
}

// NewEnrichedDocument merges a test case with its embedding.
// createdAt is converted to UTC.
func NewEnrichedDocument(tc TestCase, result *EmbeddingResult, source, runID string, createdAt time.Time) *EnrichedDocument {
	return &EnrichedDocument{
		TestCase:  tc,
		Embedding: result.Vector,
		CreatedAt: createdAt.UTC(),
		Metadata: EmbeddingMetadata{
			Model:  result.Model,
			Cost:   result.Cost,
			Tokens: result.Tokens,
			Source: source,
			RunID:  runID,
		},
	}
}

// RunTotals aggregates cost and token statistics for one run.
// Cost and Tokens only include records whose document was stored.
type RunTotals struct {
	Cost    float64
	Tokens  int64
	Records int // records attempted
	Stored  int
	Failed  int
}

// AverageCost returns total cost divided by attempted records, or 0 for an empty run.
func (t RunTotals) AverageCost() float64 {
	if t.Records == 0 {
		return 0
	}
	return t.Cost / float64(t.Records)
}
