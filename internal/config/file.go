package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// File holds the defaults read from a YAML config file.
type File struct {
	Number         bool `yaml:"number"`
	NumberNonblank bool `yaml:"number_nonblank"`
	Lock           bool `yaml:"lock"`
}

// Load reads and decodes the YAML defaults file at path. Unknown keys are
// rejected. An empty file yields zero defaults.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(bytes.NewReader(data))
}

// Decode decodes YAML defaults from r.
func Decode(r io.Reader) (*File, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return &f, nil
		}
		return nil, fmt.Errorf("decoding yaml: %w", err)
	}
	return &f, nil
}
