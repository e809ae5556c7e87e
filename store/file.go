package store

import (
	"context"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/polyrabbit/gold-alert/config"
	"github.com/polyrabbit/gold-alert/model"
)

type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	if path == "" {
		path = config.DefaultFile
	}
	return &FileStore{path: path}
}

func (s *FileStore) Name() string {
	return "file " + s.path
}

func (s *FileStore) Load(_ context.Context) (*model.PriceTable, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, model.StoreError("read "+s.path, err)
	}
	return decode(s.path, data)
}

// Save replaces the file through a rename, readers never see a partial snapshot.
func (s *FileStore) Save(_ context.Context, table *model.PriceTable) error {
	data, err := table.MarshalCSV()
	if err != nil {
		return model.StoreError("encode snapshot", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return model.StoreError("create temp file", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return model.StoreError("write "+tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return model.StoreError("close "+tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return model.StoreError("save "+s.path, errors.Wrap(err, "rename"))
	}
	return nil
}
