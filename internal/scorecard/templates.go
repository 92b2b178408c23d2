// internal/scorecard/templates.go
package scorecard

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/xeipuuv/gojsonschema"

	errs "recruiting-pipeline/internal/common/errors"
	"recruiting-pipeline/internal/common/logger"
	"recruiting-pipeline/internal/models"
	"recruiting-pipeline/internal/storage"
)

// ==========================================
// TEMPLATE CLIENT
// ==========================================

// templateSchema is checked against every template document before it is
// served. Templates are authored out of band, so a malformed one should
// surface here rather than as a broken scorecard.
const templateSchema = `{
	"type": "object",
	"required": ["id", "title", "version", "questions"],
	"properties": {
		"id": {"type": "string", "minLength": 1},
		"title": {"type": "string", "minLength": 1},
		"version": {"type": "integer", "minimum": 1},
		"questions": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["id", "text"],
				"properties": {
					"id": {"type": "string", "minLength": 1},
					"text": {"type": "string", "minLength": 1},
					"category": {"type": "string"},
					"rubric": {"type": "array", "items": {"type": "string"}}
				}
			}
		}
	}
}`

// TemplateClient serves scorecard templates from the backing store through a
// redis read-through cache. Templates change rarely, so a short TTL is
// enough to keep reads off postgres during scoring bursts.
type TemplateClient struct {
	store  storage.TemplateStore
	redis  *redis.Client
	ttl    time.Duration
	schema *gojsonschema.Schema
	logger logger.Logger
}

func NewTemplateClient(store storage.TemplateStore, rdb *redis.Client, ttl time.Duration, log logger.Logger) (*TemplateClient, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(templateSchema))
	if err != nil {
		return nil, fmt.Errorf("compiling template schema: %w", err)
	}
	return &TemplateClient{
		store:  store,
		redis:  rdb,
		ttl:    ttl,
		schema: schema,
		logger: log,
	}, nil
}

// ListTemplates returns every template available for screening.
func (c *TemplateClient) ListTemplates(ctx context.Context) ([]*models.ScorecardTemplate, error) {
	templates, err := c.store.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, tpl := range templates {
		if err := c.validate(tpl); err != nil {
			return nil, err
		}
	}
	return templates, nil
}

// GetTemplate resolves a template by id, consulting the cache first. Returns
// nil when no template with that id exists.
func (c *TemplateClient) GetTemplate(ctx context.Context, id string) (*models.ScorecardTemplate, error) {
	key := "template:" + id

	if c.redis != nil {
		if raw, err := c.redis.Get(ctx, key).Bytes(); err == nil {
			var tpl models.ScorecardTemplate
			if err := json.Unmarshal(raw, &tpl); err == nil {
				return &tpl, nil
			}
			// Stale or corrupt entry; fall through to the store.
			c.redis.Del(ctx, key)
		}
	}

	tpl, err := c.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if tpl == nil {
		return nil, nil
	}
	if err := c.validate(tpl); err != nil {
		return nil, err
	}

	if c.redis != nil {
		if raw, err := json.Marshal(tpl); err == nil {
			if err := c.redis.Set(ctx, key, raw, c.ttl).Err(); err != nil {
				c.logger.Warn("failed to cache template", map[string]interface{}{
					"template_id": id,
					"error":       err.Error(),
				})
			}
		}
	}
	return tpl, nil
}

func (c *TemplateClient) validate(tpl *models.ScorecardTemplate) error {
	raw, err := json.Marshal(tpl)
	if err != nil {
		return errs.NewStorageError("marshal template", err)
	}
	result, err := c.schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return errs.NewStorageError("validate template", err)
	}
	if !result.Valid() {
		details := fmt.Sprintf("template %s failed validation", tpl.ID)
		for _, desc := range result.Errors() {
			details += "; " + desc.String()
		}
		return errs.NewValidationError(details)
	}
	return nil
}
