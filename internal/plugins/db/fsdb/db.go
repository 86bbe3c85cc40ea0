package fsdb

import (
	"path/filepath"
)

// Db is the on-disk state directory: the chat session file and optional
// prompt overrides.
type Db struct {
	Dir      string
	Sessions *SessionsEntity
	Prompts  *PromptsEntity
}

func NewDb(dir string) *Db {
	return &Db{
		Dir: dir,
		Sessions: &SessionsEntity{StorageEntity: &StorageEntity{
			Label: "Sessions", Dir: dir, FileExtension: ".json",
		}},
		Prompts: &PromptsEntity{StorageEntity: &StorageEntity{
			Label: "Prompts", Dir: filepath.Join(dir, "prompts"), FileExtension: ".md",
		}},
	}
}

// Configure creates the state directories.
func (o *Db) Configure() error {
	if err := o.Sessions.Configure(); err != nil {
		return err
	}
	return o.Prompts.Configure()
}
