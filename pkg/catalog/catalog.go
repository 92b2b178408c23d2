// pkg/catalog/catalog.go
package catalog

import (
	"context"
	"encoding/json"
	"os"

	"recruiting-pipeline/internal/models"
)

func LoadCatalog(path string) (*TemplateCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cat TemplateCatalog
	err = json.Unmarshal(data, &cat)
	return &cat, err
}

// FileTemplateStore serves templates straight from a loaded catalog. It
// satisfies the same contract as the postgres-backed store and is meant for
// development and single-node deployments.
type FileTemplateStore struct {
	templates []*models.ScorecardTemplate
}

func NewFileTemplateStore(path string) (*FileTemplateStore, error) {
	cat, err := LoadCatalog(path)
	if err != nil {
		return nil, err
	}
	store := &FileTemplateStore{}
	for i := range cat.Templates {
		store.templates = append(store.templates, &cat.Templates[i])
	}
	return store, nil
}

func (s *FileTemplateStore) List(_ context.Context) ([]*models.ScorecardTemplate, error) {
	return append([]*models.ScorecardTemplate(nil), s.templates...), nil
}

func (s *FileTemplateStore) Get(_ context.Context, id string) (*models.ScorecardTemplate, error) {
	for _, tpl := range s.templates {
		if tpl.ID == id {
			return tpl, nil
		}
	}
	return nil, nil
}
