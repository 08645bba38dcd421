package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"autoshop/internal/domain"
	"autoshop/internal/index"
	"autoshop/internal/repos"
)

const categoryPathTTL = 5 * time.Minute

type pathEntry struct {
	path      []domain.Category
	fetchedAt time.Time
}

type CatalogService struct {
	Cats  *repos.CategoryRepo
	Prods *repos.ProductRepo
	Defs  *repos.FilterDefinitionRepo

	pathMu sync.RWMutex
	paths  map[int64]pathEntry
}

func NewCatalogService(cats *repos.CategoryRepo, prods *repos.ProductRepo, defs *repos.FilterDefinitionRepo) *CatalogService {
	return &CatalogService{Cats: cats, Prods: prods, Defs: defs, paths: map[int64]pathEntry{}}
}

// GetProduct returns (nil, nil) when the product does not exist.
func (s *CatalogService) GetProduct(ctx context.Context, id int64) (domain.Product, error) {
	return s.Prods.Get(ctx, id)
}

func (s *CatalogService) GetProducts(ctx context.Context, ids []int64) ([]domain.Product, error) {
	return s.Prods.GetMany(ctx, ids)
}

// GetCategory returns (nil, nil) when the category does not exist.
func (s *CatalogService) GetCategory(ctx context.Context, id int64) (*domain.Category, error) {
	return s.Cats.Get(ctx, id)
}

func (s *CatalogService) GetFilterDefinition(ctx context.Context, id int64) (*domain.FilterDefinition, error) {
	if id <= 0 {
		return nil, nil
	}
	return s.Defs.Get(ctx, id)
}

// CategoryPath returns root..category, cached for a few minutes.
func (s *CatalogService) CategoryPath(ctx context.Context, id int64) ([]domain.Category, error) {
	s.pathMu.RLock()
	e, ok := s.paths[id]
	s.pathMu.RUnlock()
	if ok && time.Since(e.fetchedAt) < categoryPathTTL {
		return e.path, nil
	}

	path, err := s.Cats.Path(ctx, id)
	if err != nil {
		return nil, err
	}
	s.pathMu.Lock()
	s.paths[id] = pathEntry{path: path, fetchedAt: time.Now()}
	s.pathMu.Unlock()
	return path, nil
}

// InvalidateCategories drops cached category paths.
func (s *CatalogService) InvalidateCategories() {
	s.pathMu.Lock()
	s.paths = map[int64]pathEntry{}
	s.pathMu.Unlock()
}

// FallbackFilterDefinition resolves the process-wide fallback once at startup. An id of zero
// selects the built-in default; an unknown id is a configuration error.
func (s *CatalogService) FallbackFilterDefinition(ctx context.Context, id int64) (*domain.FilterDefinition, error) {
	if id == 0 {
		return domain.DefaultFilterDefinition(), nil
	}
	def, err := s.Defs.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if def == nil {
		return nil, fmt.Errorf("fallback filter definition %d not found", id)
	}
	return def, nil
}

// Reindex pushes every product, with its category ancestry, to the index.
func (s *CatalogService) Reindex(ctx context.Context, idx index.Indexer) (int, error) {
	all, err := s.Prods.All(ctx)
	if err != nil {
		return 0, err
	}
	docs := make([]index.Document, 0, len(all))
	for _, p := range all {
		path, err := s.CategoryPath(ctx, p.CategoryID())
		if err != nil {
			return 0, fmt.Errorf("category path for product %d: %w", p.ProductID(), err)
		}
		catIDs := make([]int64, 0, len(path))
		for _, c := range path {
			catIDs = append(catIDs, c.ID)
		}
		docs = append(docs, index.NewDocument(p, catIDs))
	}
	if err := idx.UpdateIndex(ctx, docs); err != nil {
		return 0, err
	}
	return len(docs), nil
}
