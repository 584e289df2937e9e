package checkpointer

import (
	"fmt"
	"path/filepath"
)

// fileEnumerator enumerates filenames
type fileEnumerator struct {
	i         int
	dir       string
	prefix    string
	extension string
}

// filename returns the name of the next consecutive enumerated file
func (f *fileEnumerator) filename() string {
	f.i++
	name := fmt.Sprintf("%v-%06d%v", f.prefix, f.i, f.extension)
	return filepath.Join(f.dir, name)
}

// FilenameEnumerator returns a function which will return filenames
// in directory dir with a counter integer suffix. Each time the
// returned function is called, the filename counter suffix will be one
// higher than on the previous call, starting at start+1. For example,
// FilenameEnumerator(0, "out", "table", ".gob") produces
// out/table-000001.gob, out/table-000002.gob, and so on.
func FilenameEnumerator(start int, dir, prefix, extension string) func() string {
	enum := fileEnumerator{i: start, dir: dir, prefix: prefix,
		extension: extension}

	return enum.filename
}
