package writer

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sant0-9/packet/internal/pipeline"
)

// ManifestFile is written into the output directory after every run.
const ManifestFile = "_manifest.yaml"

// Manifest summarises one run.
type Manifest struct {
	RunID       string           `yaml:"run_id"`
	GeneratedAt time.Time        `yaml:"generated_at"`
	InputDir    string           `yaml:"input_dir,omitempty"`
	Format      Format           `yaml:"format"`
	Documents   []string         `yaml:"documents"`
	Answers     ManifestAnswers  `yaml:"answers"`
	Respondents []ManifestReport `yaml:"respondents"`
}

// ManifestAnswers counts answers by collation outcome.
type ManifestAnswers struct {
	Total              int `yaml:"total"`
	Kept               int `yaml:"kept"`
	ExcludedRespondent int `yaml:"excluded_respondent"`
	ExcludedAnswer     int `yaml:"excluded_answer"`
}

// ManifestReport describes one written report.
type ManifestReport struct {
	Name    string `yaml:"name"`
	File    string `yaml:"file"`
	Entries int    `yaml:"entries"`
}

// NewManifest builds the manifest for a finished run.
func NewManifest(res *pipeline.Result, format Format) *Manifest {
	m := &Manifest{
		RunID:       res.RunID,
		GeneratedAt: res.FinishedAt.UTC().Truncate(time.Second),
		Format:      format,
		Documents:   res.Labels,
		Answers: ManifestAnswers{
			Total:              res.Stats.Total(),
			Kept:               res.Stats.Kept,
			ExcludedRespondent: res.Stats.ExcludedRespondent,
			ExcludedAnswer:     res.Stats.ExcludedAnswer,
		},
	}
	for _, r := range res.Reports {
		m.Respondents = append(m.Respondents, ManifestReport{
			Name:    r.Respondent,
			File:    filepath.Base(res.Outputs[r.Respondent]),
			Entries: len(r.Entries),
		})
	}
	return m
}

// WriteManifest stores m as dir/ManifestFile.
func WriteManifest(dir string, m *Manifest) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	return writeAtomic(filepath.Join(dir, ManifestFile), data)
}

// ReadManifest loads the manifest from dir.
func ReadManifest(dir string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, ManifestFile))
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	return &m, nil
}
