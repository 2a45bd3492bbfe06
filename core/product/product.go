// Package product is the UMKM (small business) product catalogue of the members.
package product

import (
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/koperasi/core"
)

var ErrNotFound = errors.New("product not found")

// CategoryAll matches every category.
const CategoryAll = "Semua"

var Categories = []string{"Makanan", "Minuman", "Kerajinan", "Fashion", "Kesehatan"}

type (
	Product struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		Image       string `json:"image,omitempty"`
		Price       int64  `json:"price"`
		Seller      string `json:"seller"`
		Category    string `json:"category"`
		Location    string `json:"location"`
		Description string `json:"description,omitempty"`
		Contact     string `json:"contact,omitempty"`
		Likes       int    `json:"likes"`
		Liked       bool   `json:"is_liked"` // by the current user
	}

	NewProduct struct {
		Name        string `json:"name" validate:"required,max=100"`
		Price       int64  `json:"price" validate:"required,gt=0"`
		Category    string `json:"category" validate:"required,oneof=Makanan Minuman Kerajinan Fashion Kesehatan"`
		Description string `json:"description" validate:"max=1000"`
		Seller      string `json:"seller" validate:"required,max=100"`
		Location    string `json:"location" validate:"required,max=100"`
		Contact     string `json:"contact" validate:"max=100"`
	}

	QueryFilter struct {
		// Search matches the name or the seller, case-insensitively.
		Search   string `query:"search"`
		Category string `query:"category"`
	}

	Repository interface {
		QueryAll() ([]Product, error)
		GetByID(id string) (Product, error)
		Create(p Product) (Product, error)
		// ToggleLike flips the like of userID on a product and reports whether it is now liked.
		ToggleLike(id, userID string) (bool, error)
		// LikedBy returns the IDs of the products liked by userID.
		LikedBy(userID string) (map[string]bool, error)
	}

	Service struct {
		repo Repository
	}
)

func (np *NewProduct) Validate(validate *validator.Validate) error {
	np.Name = core.CleanString(np.Name)
	np.Category = core.CleanString(np.Category)
	np.Description = core.CleanString(np.Description)
	np.Seller = core.CleanString(np.Seller)
	np.Location = core.CleanString(np.Location)
	np.Contact = core.CleanString(np.Contact)
	return validate.Struct(np)
}

func (f *QueryFilter) Clean() {
	f.Search = core.CleanString(f.Search)
	f.Category = core.CleanString(f.Category)
	if f.Category == CategoryAll {
		f.Category = ""
	}
}

func (f QueryFilter) Match(p Product) bool {
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	return f.Search == "" || core.ContainsFold(p.Name, f.Search) || core.ContainsFold(p.Seller, f.Search)
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Query returns the products matching filter, flagged with the likes of userID.
func (svc *Service) Query(userID string, filter QueryFilter) ([]Product, error) {
	filter.Clean()
	products, err := svc.repo.QueryAll()
	if err != nil {
		return nil, errors.Wrap(err, "querying products")
	}
	liked, err := svc.repo.LikedBy(userID)
	if err != nil {
		return nil, errors.Wrap(err, "querying likes")
	}

	res := make([]Product, 0, len(products))
	for _, p := range products {
		if filter.Match(p) {
			p.Liked = liked[p.ID]
			res = append(res, p)
		}
	}
	return res, nil
}

func (svc *Service) Create(np NewProduct) (Product, error) {
	return svc.repo.Create(Product{
		Name:        np.Name,
		Price:       np.Price,
		Seller:      np.Seller,
		Category:    np.Category,
		Location:    np.Location,
		Description: np.Description,
		Contact:     np.Contact,
	})
}

func (svc *Service) ToggleLike(userID, id string) (Product, error) {
	liked, err := svc.repo.ToggleLike(core.CleanString(id), userID)
	if err != nil {
		return Product{}, err
	}
	p, err := svc.repo.GetByID(core.CleanString(id))
	if err != nil {
		return Product{}, err
	}
	p.Liked = liked
	return p, nil
}

func (svc *Service) Count() (int, error) {
	products, err := svc.repo.QueryAll()
	return len(products), err
}
