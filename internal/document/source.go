package document

import "context"

// DirSource serves the documents of one input directory.
type DirSource struct {
	Dir      string
	Include  []string
	Skip     []string
	Registry *Registry
}

// NewDirSource creates a source over dir. Paths in skip (such as the alias
// file and the output directory) are never listed.
func NewDirSource(dir string, include []string, skip ...string) *DirSource {
	return &DirSource{
		Dir:      dir,
		Include:  include,
		Skip:     skip,
		Registry: NewRegistry(),
	}
}

// List returns the matching document paths, sorted.
func (s *DirSource) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Discover(s.Dir, s.Include, s.Skip...)
}

// Open reads the document at path.
func (s *DirSource) Open(path string) (*Document, error) {
	return s.Registry.Open(path)
}
