package tui

import (
	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"

	"github.com/sant0-9/packet/internal/config"
	"github.com/sant0-9/packet/internal/pipeline"
)

type state struct {
	// Config: config is what runs use, user is what gets saved to configPath.
	config     *config.Config
	user       *config.Config
	configPath string

	// Directory selection
	picker   filepicker.Model
	inputDir string

	// Scan of the selected directory
	run     *config.Run
	summary *summary

	// Processing
	processing       bool
	pipelineProgress *pipeline.Progress
	spinner          spinner.Model

	// Result
	result     *pipeline.Result
	openStatus string

	// Errors
	scanError       error
	processingError error

	// Settings
	settingsSelected int
	settingsEdited   map[int]bool
	settingsMode     string
	settingsStatus   string
	placeholderInput textinput.Model
}

// summary describes an input directory before it is collated.
type summary struct {
	Documents []string
	Bytes     int64
	Words     int
	Aliases   int

	// ReadErr is the first document that could not be read.
	ReadErr  error
	AliasErr error
}

// ready reports whether the directory can be collated as scanned.
func (s *summary) ready() bool {
	return s != nil && s.ReadErr == nil && s.AliasErr == nil
}

func newState(cfg, user *config.Config, start string) *state {
	picker := filepicker.New()
	picker.DirAllowed = true
	picker.FileAllowed = false
	picker.ShowHidden = false
	picker.CurrentDirectory = start

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styleSpinner

	placeholder := textinput.New()
	placeholder.Placeholder = "__student__"
	placeholder.CharLimit = 80
	placeholder.Width = 40

	return &state{
		config:           cfg,
		user:             user,
		settingsEdited:   make(map[int]bool),
		picker:           picker,
		spinner:          sp,
		placeholderInput: placeholder,
	}
}

// reset clears everything tied to the previous directory.
func (s *state) reset() {
	s.inputDir = ""
	s.run = nil
	s.summary = nil
	s.processing = false
	s.pipelineProgress = nil
	s.result = nil
	s.openStatus = ""
	s.scanError = nil
	s.processingError = nil
}
