package format

import (
	"os"

	"gopkg.in/yaml.v3"
)

type highlightDef struct {
	Name    string `yaml:"name"`
	Color   string `yaml:"color"`
	Bold    bool   `yaml:"bold"`
	Italics bool   `yaml:"italics"`
}

type highlightsSource struct {
	Highlights []highlightDef `yaml:"highlights"`
}

type wordDef struct {
	Word          string `yaml:"word"`
	Highlight     string `yaml:"highlight"`
	Documentation string `yaml:"documentation"`
}

type wordsSource struct {
	Words []wordDef `yaml:"words"`
}

func readHighlights(path string) ([]highlightDef, error) {
	var src highlightsSource
	if err := readYAML(path, &src); err != nil {
		return nil, err
	}
	return src.Highlights, nil
}

func readWords(path string) ([]wordDef, error) {
	var src wordsSource
	if err := readYAML(path, &src); err != nil {
		return nil, err
	}
	return src.Words, nil
}

func readYAML(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return &ConfigError{Source: path, Err: err}
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return &ConfigError{Source: path, Err: err}
	}
	return nil
}
