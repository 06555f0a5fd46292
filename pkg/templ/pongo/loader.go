package pongo

import (
	"bytes"
	"io"
	"path/filepath"

	"github.com/goliatone/go-webtempl/pkg/host"
)

// hostLoader lets pongo2 resolve {% include %} and {% extends %} targets
// through the same roots as top-level templates.
type hostLoader struct {
	host *host.Host
}

func (l *hostLoader) Abs(base, name string) string {
	return filepath.FromSlash(name)
}

func (l *hostLoader) Get(path string) (io.Reader, error) {
	src, err := l.host.Load(path)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(src.Data), nil
}
