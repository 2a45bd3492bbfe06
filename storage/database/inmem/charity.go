package inmemdb

import (
	"sort"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/trezcool/koperasi/core/charity"
)

type charityRepository struct {
	campaigns *table[charity.Campaign]
	donations *table[charity.Donation]
}

func NewCharityRepository(db *DB) charity.Repository {
	return &charityRepository{campaigns: db.campaign, donations: db.donation}
}

func (repo *charityRepository) QueryCampaigns() ([]charity.Campaign, error) {
	repo.campaigns.RLock()
	defer repo.campaigns.RUnlock()

	campaigns := lo.MapToSlice(repo.campaigns.rows, func(_ string, c *charity.Campaign) charity.Campaign { return *c })
	sort.Slice(campaigns, func(i, j int) bool { return pkLess(campaigns[i].ID, campaigns[j].ID) })
	return campaigns, nil
}

func (repo *charityRepository) GetCampaign(id string) (charity.Campaign, error) {
	repo.campaigns.RLock()
	defer repo.campaigns.RUnlock()

	if c, ok := repo.campaigns.rows[id]; ok {
		return *c, nil
	}
	return charity.Campaign{}, charity.ErrNotFound
}

func (repo *charityRepository) QueryDonations(donorID string) ([]charity.Donation, error) {
	repo.donations.RLock()
	defer repo.donations.RUnlock()

	donations := lo.FilterMap(lo.Values(repo.donations.rows), func(d *charity.Donation, _ int) (charity.Donation, bool) {
		return *d, donorID == "" || d.DonorID == donorID
	})
	sort.SliceStable(donations, func(i, j int) bool {
		if !donations[i].Date.Equal(donations[j].Date) {
			return donations[i].Date.After(donations[j].Date)
		}
		return donations[i].ID < donations[j].ID
	})
	return donations, nil
}

// CreateDonation stores a pending donation. The campaign totals only move once it succeeds.
func (repo *charityRepository) CreateDonation(d charity.Donation) (charity.Donation, error) {
	repo.donations.Lock()
	defer repo.donations.Unlock()

	d.ID = uuid.NewString()
	repo.donations.rows[d.ID] = &d
	return d, nil
}
