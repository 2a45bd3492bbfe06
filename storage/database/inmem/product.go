package inmemdb

import (
	"sort"

	"github.com/samber/lo"

	"github.com/trezcool/koperasi/core/product"
)

type productRepository struct {
	db    *table[product.Product]
	likes *table[map[string]bool]
}

func NewProductRepository(db *DB) product.Repository {
	return &productRepository{db: db.product, likes: db.likes}
}

func (repo *productRepository) QueryAll() ([]product.Product, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	products := lo.MapToSlice(repo.db.rows, func(_ string, p *product.Product) product.Product { return *p })
	sort.Slice(products, func(i, j int) bool { return pkLess(products[i].ID, products[j].ID) })
	return products, nil
}

func (repo *productRepository) GetByID(id string) (product.Product, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if p, ok := repo.db.rows[id]; ok {
		return *p, nil
	}
	return product.Product{}, product.ErrNotFound
}

func (repo *productRepository) Create(p product.Product) (product.Product, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	p.ID = repo.db.nextPK()
	p.Likes = 0
	repo.db.rows[p.ID] = &p
	return p, nil
}

func (repo *productRepository) ToggleLike(id, userID string) (bool, error) {
	// products before likes, everywhere
	repo.db.Lock()
	defer repo.db.Unlock()
	repo.likes.Lock()
	defer repo.likes.Unlock()

	p, ok := repo.db.rows[id]
	if !ok {
		return false, product.ErrNotFound
	}
	users, ok := repo.likes.rows[id]
	if !ok {
		users = &map[string]bool{}
		repo.likes.rows[id] = users
	}

	liked := !(*users)[userID]
	if liked {
		(*users)[userID] = true
		p.Likes++
	} else {
		delete(*users, userID)
		p.Likes--
	}
	return liked, nil
}

func (repo *productRepository) LikedBy(userID string) (map[string]bool, error) {
	repo.likes.RLock()
	defer repo.likes.RUnlock()

	liked := make(map[string]bool)
	for id, users := range repo.likes.rows {
		if (*users)[userID] {
			liked[id] = true
		}
	}
	return liked, nil
}
