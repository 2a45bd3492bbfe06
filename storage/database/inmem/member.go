package inmemdb

import (
	"sort"
	"strconv"

	"github.com/samber/lo"

	"github.com/trezcool/koperasi/core/member"
)

type memberRepository struct {
	db *table[member.Member]
}

func NewMemberRepository(db *DB) member.Repository {
	return &memberRepository{db: db.member}
}

// query returns the rows by ascending numeric ID. The caller holds a lock.
func (repo *memberRepository) query() []member.Member {
	members := lo.MapToSlice(repo.db.rows, func(_ string, m *member.Member) member.Member { return *m })
	sort.Slice(members, func(i, j int) bool { return pkLess(members[i].ID, members[j].ID) })
	return members
}

func (repo *memberRepository) Filter(filter member.QueryFilter) ([]member.Member, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return lo.Filter(repo.query(), func(m member.Member, _ int) bool { return filter.Match(m) }), nil
}

func (repo *memberRepository) GetByID(id string) (member.Member, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if m, ok := repo.db.rows[id]; ok {
		return *m, nil
	}
	return member.Member{}, member.ErrNotFound
}

func (repo *memberRepository) CheckNIKUniqueness(nik string) error {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if lo.SomeBy(lo.Values(repo.db.rows), func(m *member.Member) bool { return m.NIK == nik }) {
		return member.ErrNIKExists
	}
	return nil
}

func (repo *memberRepository) Create(m member.Member) (member.Member, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	m.ID = repo.db.nextPK()
	m.Number = member.Number(m.ID)
	repo.db.rows[m.ID] = &m
	return m, nil
}

// pkLess orders numeric keys numerically and anything else lexically after them.
func pkLess(a, b string) bool {
	na, errA := strconv.Atoi(a)
	nb, errB := strconv.Atoi(b)
	switch {
	case errA == nil && errB == nil:
		return na < nb
	case errA == nil:
		return true
	case errB == nil:
		return false
	}
	return a < b
}
