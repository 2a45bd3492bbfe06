package inmemdb

import (
	"strconv"
	"sync"

	"github.com/trezcool/koperasi/core/charity"
	"github.com/trezcool/koperasi/core/loan"
	"github.com/trezcool/koperasi/core/member"
	"github.com/trezcool/koperasi/core/payment"
	"github.com/trezcool/koperasi/core/product"
	"github.com/trezcool/koperasi/core/profile"
)

type (
	DB struct {
		member   *table[member.Member]
		payment  *table[payment.Payment]
		product  *table[product.Product]
		likes    *table[map[string]bool] // {product id: {user id: liked}}
		campaign *table[charity.Campaign]
		donation *table[charity.Donation]
		loan     *table[loan.Application]
		profile  *table[profile.Record]
	}

	table[T any] struct {
		sync.RWMutex
		rows  map[string]*T
		pkSeq int
	}
)

func newTable[T any]() *table[T] {
	return &table[T]{rows: make(map[string]*T)}
}

// nextPK returns the next sequential primary key. The caller holds the write lock.
func (t *table[T]) nextPK() string {
	t.pkSeq++
	return strconv.Itoa(t.pkSeq)
}

// Open returns an empty database.
func Open() *DB {
	return &DB{
		member:   newTable[member.Member](),
		payment:  newTable[payment.Payment](),
		product:  newTable[product.Product](),
		likes:    newTable[map[string]bool](),
		campaign: newTable[charity.Campaign](),
		donation: newTable[charity.Donation](),
		loan:     newTable[loan.Application](),
		profile:  newTable[profile.Record](),
	}
}

// OpenSeeded returns a database holding the demo records of the dashboard.
func OpenSeeded() *DB {
	db := Open()
	seed(db)
	return db
}
