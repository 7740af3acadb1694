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


package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/poiesic/tcembed/core"
	"gopkg.in/yaml.v3"
)

// Source provides the ordered batch of test cases for one run.
type Source interface {
	// Load returns every test case in source order.
	// Fails with ErrSourceUnavailable if the input cannot be read or parsed.
	Load(ctx context.Context) ([]core.TestCase, error)
}

// Format identifies an input encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the format from a file extension. Unknown extensions are read as JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// FileSource reads test cases from a file on disk.
type FileSource struct {
	Path string
	// Format overrides extension-based detection when set.
	Format Format
}

var _ Source = (*FileSource)(nil)

// NewFileSource creates a FileSource with the format detected from path.
func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path, Format: FormatFromPath(path)}
}

// Load reads and decodes the whole file.
func (s *FileSource) Load(ctx context.Context) ([]core.TestCase, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.Path == "" {
		return nil, fmt.Errorf("%w: no input path configured", ErrSourceUnavailable)
	}

	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}

	format := s.Format
	if format == "" {
		format = FormatFromPath(s.Path)
	}

	cases, err := Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrSourceUnavailable, s.Path, err)
	}
	return cases, nil
}

// Decode parses data in the given format and validates the resulting batch.
func Decode(data []byte, format Format) ([]core.TestCase, error) {
	var cases []core.TestCase

	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &cases); err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
	case FormatJSON:
		trimmed := bytes.TrimSpace(data)
		if len(trimmed) == 0 || trimmed[0] != '[' {
			return nil, fmt.Errorf("decode json: expected an array of test cases")
		}
		if err := json.Unmarshal(trimmed, &cases); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}

	if err := core.ValidateTestCases(cases); err != nil {
		return nil, err
	}
	if cases == nil {
		cases = []core.TestCase{}
	}
	return cases, nil
}

// SliceSource serves a fixed in-memory batch.
type SliceSource []core.TestCase

var _ Source = SliceSource(nil)

// Load returns a copy of the batch after validating it.
func (s SliceSource) Load(ctx context.Context) ([]core.TestCase, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cases := append([]core.TestCase{}, s...)
	if err := core.ValidateTestCases(cases); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
	return cases, nil
}
