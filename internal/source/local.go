package source

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hadproc/cmorval/cmorval"
)

// DataSuffix is the extension candidate files are filtered to.
const DataSuffix = ".nc"

// Dir lists every data file under a local directory tree.
type Dir struct {
	root   string
	suffix string
}

// NewDir creates a source over root, filtering to the ".nc" suffix.
func NewDir(root string) *Dir {
	return &Dir{root: root, suffix: DataSuffix}
}

// List walks the tree recursively and returns the candidates in path
// order. Ordering is not significant to validation but keeps run
// output stable.
func (d *Dir) List(ctx context.Context) (Iterator, error) {
	var candidates []cmorval.Candidate
	err := filepath.WalkDir(d.root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), d.suffix) {
			return nil
		}
		candidates = append(candidates, cmorval.Candidate{
			Basename: entry.Name(),
			Path:     path,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", d.root, err)
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].Path < candidates[j].Path })
	return NewSliceIterator(candidates), nil
}
