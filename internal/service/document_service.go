package service

import (
	"context"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/campus-aura/backend/internal/cache"
	"github.com/campus-aura/backend/internal/docstore"
	"github.com/campus-aura/backend/internal/repository"
	apperrors "github.com/campus-aura/backend/pkg/util/errorutil"
)

const resourceDocument = "document"

var (
	collectionNamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
	documentIDPattern     = regexp.MustCompile(`^[A-Za-z0-9_.@-]{1,128}$`)
)

// DocumentService exposes raw document access to administrators. Writes to
// the events collection drop the public listing cache.
type DocumentService struct {
	store    docstore.Store
	listings cache.ListingCache
	logger   *zap.Logger
}

// DocumentDependencies bundles collaborators for the document service.
type DocumentDependencies struct {
	Store  docstore.Store
	Cache  cache.ListingCache
	Logger *zap.Logger
}

// RawDocument is a stored document with its metadata.
type RawDocument struct {
	ID         string
	Collection string
	Fields     map[string]any
	UpdateTime string
}

func NewDocumentService(deps DocumentDependencies) *DocumentService {
	listings := deps.Cache
	if listings == nil {
		listings = cache.Noop{}
	}
	return &DocumentService{store: deps.Store, listings: listings, logger: nopIfNil(deps.Logger)}
}

// Save replaces or creates a document.
func (s *DocumentService) Save(ctx context.Context, collection, id string, fields map[string]any) (*RawDocument, error) {
	if err := validateDocumentPath(collection, id); err != nil {
		return nil, err
	}
	if fields == nil {
		return nil, apperrors.NewValidationError("document body is required", nil)
	}
	if err := s.store.Set(ctx, collection, id, fields); err != nil {
		return nil, storeError(resourceDocument, id, err)
	}
	s.invalidateListings(ctx, collection)
	return s.Get(ctx, collection, id)
}

// Get returns one document.
func (s *DocumentService) Get(ctx context.Context, collection, id string) (*RawDocument, error) {
	if err := validateDocumentPath(collection, id); err != nil {
		return nil, err
	}
	doc, err := s.store.Get(ctx, collection, id)
	if err != nil {
		return nil, storeError(resourceDocument, id, err)
	}
	return toRawDocument(collection, doc)
}

// Delete removes one document.
func (s *DocumentService) Delete(ctx context.Context, collection, id string) error {
	if err := validateDocumentPath(collection, id); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, collection, id); err != nil {
		return storeError(resourceDocument, id, err)
	}
	s.invalidateListings(ctx, collection)
	return nil
}

// List returns every document in a collection.
func (s *DocumentService) List(ctx context.Context, collection string) ([]*RawDocument, error) {
	if err := validateCollection(collection); err != nil {
		return nil, err
	}
	docs, err := s.store.Query(ctx, collection, docstore.Query{})
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	out := make([]*RawDocument, 0, len(docs))
	for _, doc := range docs {
		raw, err := toRawDocument(collection, doc)
		if err != nil {
			return nil, err
		}
		out = append(out, raw)
	}
	return out, nil
}

func (s *DocumentService) invalidateListings(ctx context.Context, collection string) {
	if !strings.EqualFold(collection, repository.EventsCollection) {
		return
	}
	if err := s.listings.Invalidate(ctx); err != nil {
		s.logger.Warn("invalidate listing cache", zap.String("collection", collection), zap.Error(err))
	}
}

func toRawDocument(collection string, doc *docstore.Document) (*RawDocument, error) {
	fields, err := doc.Fields()
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	raw := &RawDocument{ID: doc.ID, Collection: collection, Fields: fields}
	if !doc.UpdateTime.IsZero() {
		raw.UpdateTime = doc.UpdateTime.UTC().Format(time.RFC3339Nano)
	}
	return raw, nil
}

func validateCollection(collection string) error {
	if !collectionNamePattern.MatchString(collection) {
		return apperrors.NewValidationError("invalid collection name", map[string]any{"collection": collection})
	}
	if strings.EqualFold(collection, repository.CredentialsCollection) {
		return apperrors.NewForbidden("collection is not accessible")
	}
	return nil
}

func validateDocumentPath(collection, id string) error {
	if err := validateCollection(collection); err != nil {
		return err
	}
	if !documentIDPattern.MatchString(id) {
		return apperrors.NewValidationError("invalid document id", map[string]any{"id": id})
	}
	return nil
}
