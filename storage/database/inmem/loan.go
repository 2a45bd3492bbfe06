package inmemdb

import (
	"sort"

	"github.com/samber/lo"

	"github.com/trezcool/koperasi/core/loan"
)

type loanRepository struct {
	db *table[loan.Application]
}

func NewLoanRepository(db *DB) loan.Repository {
	return &loanRepository{db: db.loan}
}

func (repo *loanRepository) QueryAll() ([]loan.Application, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	apps := lo.MapToSlice(repo.db.rows, func(_ string, a *loan.Application) loan.Application { return *a })
	sort.Slice(apps, func(i, j int) bool { return pkLess(apps[i].ID, apps[j].ID) })
	return apps, nil
}

func (repo *loanRepository) GetByID(id string) (loan.Application, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if a, ok := repo.db.rows[id]; ok {
		return *a, nil
	}
	return loan.Application{}, loan.ErrNotFound
}
