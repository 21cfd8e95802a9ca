package ai

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/spigell/hh-matcher/internal/matching"
)

// DocumentStore keeps serialized documents by key.
type DocumentStore interface {
	Get(key string) ([]byte, bool, error)
	Put(key string, value []byte) error
}

// CachedExtractor serves repeated extractions of the same text from a store.
// Concurrent requests for the same text share one call to the wrapped extractor.
type CachedExtractor struct {
	next      Extractor
	store     DocumentStore
	namespace string
	logger    *zap.Logger
	group     singleflight.Group
}

// NewCachedExtractor wraps next. The namespace separates entries produced by
// different models.
func NewCachedExtractor(next Extractor, store DocumentStore, namespace string, logger *zap.Logger) *CachedExtractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedExtractor{
		next:      next,
		store:     store,
		namespace: namespace,
		logger:    logger,
	}
}

func (c *CachedExtractor) Extract(ctx context.Context, text string, kind matching.DocumentKind) (*matching.StructuredDocument, error) {
	key := c.key(text, kind)

	if doc, ok := c.lookup(key); ok {
		c.logger.Debug("extraction cache hit", zap.String("kind", string(kind)), zap.String("key", key))
		return doc, nil
	}

	ch := c.group.DoChan(key, func() (any, error) {
		return c.extractDetached(ctx, key, text, kind)
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, &matching.ExtractionError{Kind: kind, Cause: ctx.Err()}
	case res = <-ch:
	}

	if res.Err != nil && ctx.Err() == nil && isContextError(res.Err) {
		// The shared call ran out of the time of the caller that started it.
		c.logger.Debug("shared extraction expired, retrying", zap.String("key", key), zap.Error(res.Err))
		doc, err := c.next.Extract(ctx, text, kind)
		if err != nil {
			return nil, err
		}
		c.save(key, doc)
		return copyDocument(doc), nil
	}
	if res.Err != nil {
		return nil, res.Err
	}

	if res.Shared {
		c.logger.Debug("extraction shared with concurrent caller", zap.String("key", key))
	}

	return copyDocument(res.Val.(*matching.StructuredDocument)), nil
}

// extractDetached runs the wrapped extractor for every caller waiting on key.
// Cancelling the caller that started it does not stop it; only its deadline applies.
func (c *CachedExtractor) extractDetached(ctx context.Context, key, text string, kind matching.DocumentKind) (*matching.StructuredDocument, error) {
	detached := context.WithoutCancel(ctx)
	if deadline, ok := ctx.Deadline(); ok {
		var cancel context.CancelFunc
		detached, cancel = context.WithDeadline(detached, deadline)
		defer cancel()
	}

	doc, err := c.next.Extract(detached, text, kind)
	if err != nil {
		return nil, err
	}
	c.save(key, doc)
	return doc, nil
}

// copyDocument keeps callers from sharing skill slices.
func copyDocument(src *matching.StructuredDocument) *matching.StructuredDocument {
	doc := *src
	doc.HardSkills = append([]string(nil), doc.HardSkills...)
	doc.SoftSkills = append([]string(nil), doc.SoftSkills...)
	return &doc
}

func isContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func (c *CachedExtractor) key(text string, kind matching.DocumentKind) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(text)))
	return fmt.Sprintf("%s:%s:%x", c.namespace, kind, sum[:])
}

func (c *CachedExtractor) lookup(key string) (*matching.StructuredDocument, bool) {
	data, ok, err := c.store.Get(key)
	if err != nil {
		c.logger.Warn("reading extraction cache", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	if !ok {
		return nil, false
	}

	var doc matching.StructuredDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		c.logger.Warn("dropping corrupt extraction cache entry", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return &doc, true
}

func (c *CachedExtractor) save(key string, doc *matching.StructuredDocument) {
	data, err := json.Marshal(doc)
	if err != nil {
		c.logger.Warn("encoding extraction cache entry", zap.Error(err))
		return
	}
	if err := c.store.Put(key, data); err != nil {
		c.logger.Warn("writing extraction cache", zap.String("key", key), zap.Error(err))
	}
}
