package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/redis/go-redis/v9"
	"github.com/synaptica-ai/symptomcheck/pkg/common/logger"
	"github.com/synaptica-ai/symptomcheck/pkg/common/models"
)

const resultKeyPrefix = "predictions"

// ResultCache keeps recent prediction responses in Redis so repeated form
// submissions skip the engines.
type ResultCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewResultCache(client redis.Cmdable, ttl time.Duration) *ResultCache {
	return &ResultCache{client: client, ttl: ttl}
}

// Key fingerprints a request against the catalog it is answered from, so a
// catalog change never serves stale rankings. Symptom order decides
// tie-breaking and is kept as submitted.
func Key(catalogFingerprint string, req models.PredictionRequest) string {
	var b strings.Builder
	b.WriteString(strings.ToLower(strings.TrimSpace(req.Engine)))
	for _, s := range req.Symptoms {
		b.WriteByte('|')
		b.WriteString(strings.ToLower(strings.TrimSpace(s.Name)))
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(s.Severity))
	}
	b.WriteString("|text:")
	b.WriteString(strings.TrimSpace(req.Text))
	return fmt.Sprintf("%s:%s:%016x", resultKeyPrefix, catalogFingerprint, xxhash.Sum64String(b.String()))
}

func (c *ResultCache) Get(ctx context.Context, key string) (*models.PredictionResponse, bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var resp models.PredictionResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, false, fmt.Errorf("decoding cached prediction: %w", err)
	}
	return &resp, true, nil
}

func (c *ResultCache) Set(ctx context.Context, key string, resp *models.PredictionResponse) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return err
	}

	logger.Log.WithFields(map[string]interface{}{
		"key":  key,
		"size": len(data),
	}).Debug("Caching prediction")

	return c.client.Set(ctx, key, data, c.ttl).Err()
}
