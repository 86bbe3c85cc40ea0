package fsdb

// PromptsEntity holds optional overrides for the built-in system prompts,
// one markdown file per prompt name.
type PromptsEntity struct {
	*StorageEntity
}

// Get loads a prompt override from file.
func (o *PromptsEntity) Get(name string) (ret *Prompt, err error) {
	var content []byte
	if content, err = o.StorageEntity.Load(name); err != nil {
		return ret, err
	}

	ret = &Prompt{Name: name, Content: string(content)}
	return ret, err
}

// Lookup returns the override for name, or ok=false when none exists.
func (o *PromptsEntity) Lookup(name string) (content string, ok bool) {
	prompt, err := o.Get(name)
	if err != nil {
		return "", false
	}
	return prompt.Content, true
}

type Prompt struct {
	Name    string
	Content string
}
