package fsdb

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// StorageEntity is a directory of named files sharing one extension.
type StorageEntity struct {
	Label         string
	Dir           string
	FileExtension string
}

// Configure creates the directory if needed.
func (o *StorageEntity) Configure() error {
	return os.MkdirAll(o.Dir, os.ModePerm)
}

func (o *StorageEntity) BuildFilePathByName(name string) string {
	return filepath.Join(o.Dir, name+o.FileExtension)
}

func (o *StorageEntity) Exists(name string) bool {
	_, err := os.Stat(o.BuildFilePathByName(name))
	return err == nil
}

func (o *StorageEntity) Load(name string) ([]byte, error) {
	content, err := os.ReadFile(o.BuildFilePathByName(name))
	if err != nil {
		return nil, fmt.Errorf("could not load %s %s: %w", o.Label, name, err)
	}
	return content, nil
}

// Save writes through a temporary file and a rename so readers never see a
// partially written file.
func (o *StorageEntity) Save(name string, content []byte) error {
	if err := o.Configure(); err != nil {
		return err
	}
	target := o.BuildFilePathByName(name)
	tmp, err := os.CreateTemp(o.Dir, "."+name+"-*.tmp")
	if err != nil {
		return fmt.Errorf("could not save %s %s: %w", o.Label, name, err)
	}
	defer os.Remove(tmp.Name())

	if _, err = tmp.Write(content); err != nil {
		tmp.Close()
		return fmt.Errorf("could not save %s %s: %w", o.Label, name, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("could not save %s %s: %w", o.Label, name, err)
	}
	if err = os.Rename(tmp.Name(), target); err != nil {
		return fmt.Errorf("could not save %s %s: %w", o.Label, name, err)
	}
	return nil
}

// GetNames lists entity names without extension, sorted.
func (o *StorageEntity) GetNames() ([]string, error) {
	entries, err := os.ReadDir(o.Dir)
	if os.IsNotExist(err) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}
	ret := []string{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, o.FileExtension) {
			continue
		}
		ret = append(ret, strings.TrimSuffix(name, o.FileExtension))
	}
	sort.Strings(ret)
	return ret, nil
}
