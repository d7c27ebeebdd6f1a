package content

import (
	"errors"
	"fmt"
	"os"
	"unicode/utf8"
)

var ErrNotText = errors.New("file is not valid utf-8 text")

// Target is a request path resolved against the content root.
type Target struct {
	Path        string
	Exists      bool
	ContentType string
	Binary      bool
}

// Resolver 将请求路径映射到内容根目录下的候选文件。
type Resolver struct {
	PublicDir   string
	DefaultFile string
}

// NewResolver 创建 Resolver。
func NewResolver(publicDir, defaultFile string) Resolver {
	return Resolver{PublicDir: publicDir, DefaultFile: defaultFile}
}

// Candidate returns the filesystem path a request path maps to. "/" maps
// to the default file; everything else is sanitized first.
func (r Resolver) Candidate(reqPath string) string {
	if reqPath == "/" {
		return r.PublicDir + "/" + r.DefaultFile
	}
	return r.PublicDir + "/" + Sanitize(reqPath)
}

// Resolve computes the candidate path, probes it and classifies its type.
func (r Resolver) Resolve(reqPath string) Target {
	path := r.Candidate(reqPath)
	ct := ContentType(path)
	_, err := os.Stat(path)
	return Target{
		Path:        path,
		Exists:      err == nil,
		ContentType: ct,
		Binary:      IsBinary(ct),
	}
}

// Read loads the whole target. Binary targets are returned byte for byte;
// text targets must decode as UTF-8 or the read fails.
func Read(t Target) ([]byte, error) {
	data, err := os.ReadFile(t.Path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", t.Path, err)
	}
	if !t.Binary && !utf8.Valid(data) {
		return nil, fmt.Errorf("read %s: %w", t.Path, ErrNotText)
	}
	return data, nil
}
