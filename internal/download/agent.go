// Package download retrieves generated files and saves them locally.
package download

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/assisitant-dever/docgen/internal/api"
	"github.com/assisitant-dever/docgen/internal/file"
)

// Agent saves generated files under a fixed directory, keeping the
// server's original filename.
type Agent struct {
	client    *api.Client
	directory string
}

// NewAgent returns an agent writing into the given directory.
func NewAgent(client *api.Client, directory string) *Agent {
	return &Agent{client: client, directory: directory}
}

// Download fetches a generated file by reference and writes it to the
// download directory, returning the local path. A NotFound response is
// surfaced as a distinct "no longer available" failure since generated
// artifacts can be pruned server-side.
func (a *Agent) Download(ctx context.Context, filename string) (string, error) {
	response, err := a.client.Download(ctx, filename)
	if err != nil {
		if api.IsNotFound(err) {
			return "", errors.Errorf("file %s is no longer available", filename)
		}
		return "", err
	}
	defer response.Body.Close()

	if err := file.CreateDirectoryIfNotExist(a.directory); err != nil {
		return "", err
	}
	path := filepath.Join(a.directory, filepath.Base(filename))
	f, err := os.Create(path)
	if err != nil {
		return "", errors.Wrap(err, "creating local file")
	}
	defer f.Close()

	if _, err := io.Copy(f, response.Body); err != nil {
		return "", errors.Wrap(err, "writing local file")
	}
	return path, nil
}
