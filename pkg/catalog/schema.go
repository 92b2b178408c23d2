// pkg/catalog/schema.go
package catalog

import "recruiting-pipeline/internal/models"

// TemplateCatalog is the on-disk format for a scorecard template set. Teams
// without a provisioned template table ship one of these alongside the
// binary.
type TemplateCatalog struct {
	Version     string                     `json:"version"`
	LastUpdated string                     `json:"lastUpdated"`
	Templates   []models.ScorecardTemplate `json:"templates"`
}
