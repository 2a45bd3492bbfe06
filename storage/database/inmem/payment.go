package inmemdb

import (
	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/trezcool/koperasi/core/payment"
)

type paymentRepository struct {
	db *table[payment.Payment]
}

func NewPaymentRepository(db *DB) payment.Repository {
	return &paymentRepository{db: db.payment}
}

func (repo *paymentRepository) QueryByMembers(memberIDs ...string) ([]payment.Payment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	payments := lo.FilterMap(lo.Values(repo.db.rows), func(p *payment.Payment, _ int) (payment.Payment, bool) {
		return *p, lo.Contains(memberIDs, p.MemberID)
	})
	payment.SortNewestFirst(payments)
	return payments, nil
}

func (repo *paymentRepository) Create(p payment.Payment) (payment.Payment, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	p.ID = uuid.NewString()
	repo.db.rows[p.ID] = &p
	return p, nil
}
