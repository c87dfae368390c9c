package confl

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileSource is the read_file(path) -> text capability spec §9 asks
// implementers to inject rather than hard-coding filesystem access. It is
// the only I/O surface the decoder ever touches.
type FileSource interface {
	ReadFile(path string) (string, error)
}

// OSFileSource reads files from the local filesystem via [os.ReadFile].
// It is the obvious default for command-line callers; library callers
// that want import resolution from somewhere else (an embed.FS, a test
// fixture map, a virtual filesystem) implement [FileSource] themselves.
type OSFileSource struct{}

// ReadFile implements [FileSource].
func (OSFileSource) ReadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// MapFileSource is an in-memory [FileSource] keyed by path, useful for
// tests (and for embedding small sets of config fragments without a real
// filesystem).
type MapFileSource map[string]string

// ReadFile implements [FileSource].
func (m MapFileSource) ReadFile(path string) (string, error) {
	text, ok := m[path]
	if !ok {
		return "", fmt.Errorf("no such file: %s", path)
	}
	return text, nil
}

// resolveImport implements C5: given an import directive token (beginning
// with '@' or '@@'), read and recursively decode the referenced file.
func resolveImport(token string, baseDir string, source FileSource, visited map[string]bool) (Value, *DecodeError) {
	unwrap := false
	rem := token
	if strings.HasPrefix(rem, "@@") {
		unwrap = true
		rem = rem[2:]
	} else {
		rem = rem[1:]
	}

	path := rem
	if len(rem) >= 2 && ((rem[0] == '"' && rem[len(rem)-1] == '"') || (rem[0] == '\'' && rem[len(rem)-1] == '\'')) {
		path = unquote(rem[1:len(rem)-1], rem[0])
	}
	if path == "" {
		return Value{}, newError(ImportError, "import directive has no path", 0, "")
	}

	resolvedPath := path
	if !filepath.IsAbs(path) {
		resolvedPath = filepath.Join(baseDir, path)
	}
	cleanPath := filepath.Clean(resolvedPath)

	if visited[cleanPath] {
		return Value{}, newError(ImportCycle, fmt.Sprintf("import cycle detected at %q", path), 0, "")
	}
	if source == nil {
		return Value{}, newError(ImportError, fmt.Sprintf("cannot import %q: no file source configured", path), 0, "")
	}

	text, err := source.ReadFile(resolvedPath)
	if err != nil {
		return Value{}, newError(ImportError, fmt.Sprintf("cannot import %q: %v", path, err), 0, "")
	}

	nextVisited := make(map[string]bool, len(visited)+1)
	for k, v := range visited {
		nextVisited[k] = v
	}
	nextVisited[cleanPath] = true

	value, derr := decodeDocument(text, filepath.Dir(resolvedPath), source, nextVisited)
	if derr != nil {
		// Preserve the original Kind (it may itself be ImportCycle or
		// ImportShapeError from deeper in the import chain) and position;
		// only the message gains this import's path for context.
		derr.Reason = fmt.Sprintf("cannot import %q: %s", path, derr.Reason)
		return Value{}, derr
	}

	if !unwrap {
		return value, nil
	}

	keys := value.Keys()
	if len(keys) != 1 {
		return Value{}, newError(ImportShapeError, fmt.Sprintf("cannot unwrap import %q: expected exactly one key, got %d", path, len(keys)), 0, "")
	}
	arr, _ := value.Get(keys[0])
	if arr.Kind() != KindArray {
		return Value{}, newError(ImportShapeError, fmt.Sprintf("cannot unwrap import %q: key %q is not an array", path, keys[0]), 0, "")
	}
	return arr, nil
}
