// Package charity manages the cooperative's charity campaigns and their donations.
package charity

import (
	"fmt"
	"net/mail"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/koperasi/core"
	"github.com/trezcool/koperasi/core/auth"
	"github.com/trezcool/koperasi/core/payment"
)

var (
	ErrNotFound = errors.New("campaign not found")
	ErrClosed   = errors.New("campaign is no longer accepting donations")
)

type Status string

// Campaign statuses
const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

type (
	Campaign struct {
		ID          string    `json:"id"`
		Title       string    `json:"title"`
		Description string    `json:"description"`
		Image       string    `json:"image,omitempty"`
		Target      int64     `json:"target"`
		Raised      int64     `json:"raised"`
		Deadline    time.Time `json:"deadline"`
		DonorCount  int       `json:"donor_count"`
		Status      Status    `json:"status"`
		Progress    int       `json:"progress"` // % of the target raised, at most 100
	}

	Donation struct {
		ID         string         `json:"id"`
		CampaignID string         `json:"campaign_id"`
		Campaign   string         `json:"campaign"`
		DonorID    string         `json:"-"`
		Amount     int64          `json:"amount"`
		Date       time.Time      `json:"date"`
		Status     payment.Status `json:"status"`
		Method     payment.Method `json:"method,omitempty"`
	}

	NewDonation struct {
		Amount int64          `json:"amount" validate:"required,gt=0"`
		Method payment.Method `json:"method" validate:"required,paymethod"`
	}

	Repository interface {
		QueryCampaigns() ([]Campaign, error)
		GetCampaign(id string) (Campaign, error)
		// QueryDonations returns the donations of a donor (all donors when empty), newest first.
		QueryDonations(donorID string) ([]Donation, error)
		CreateDonation(d Donation) (Donation, error)
	}

	Service struct {
		repo    Repository
		mailSvc core.EmailService
	}
)

func (nd *NewDonation) Validate(validate *validator.Validate) error {
	nd.Method = payment.Method(core.CleanString(string(nd.Method), true /* lower */))
	return validate.Struct(nd)
}

// ProgressOf returns the % of target raised, capped to 100.
func ProgressOf(raised, target int64) int {
	if target <= 0 {
		return 0
	}
	pct := raised * 100 / target
	if pct > 100 {
		return 100
	}
	return int(pct)
}

func NewService(repo Repository, mailSvc core.EmailService) *Service {
	return &Service{repo: repo, mailSvc: mailSvc}
}

// Campaigns returns the campaigns whose title or description contains search.
func (svc *Service) Campaigns(search string) ([]Campaign, error) {
	search = core.CleanString(search)
	campaigns, err := svc.repo.QueryCampaigns()
	if err != nil {
		return nil, errors.Wrap(err, "querying campaigns")
	}
	res := make([]Campaign, 0, len(campaigns))
	for _, c := range campaigns {
		if search == "" || core.ContainsFold(c.Title, search) || core.ContainsFold(c.Description, search) {
			c.Progress = ProgressOf(c.Raised, c.Target)
			res = append(res, c)
		}
	}
	return res, nil
}

func (svc *Service) Campaign(id string) (Campaign, error) {
	c, err := svc.repo.GetCampaign(core.CleanString(id))
	if err != nil {
		return Campaign{}, err
	}
	c.Progress = ProgressOf(c.Raised, c.Target)
	return c, nil
}

func (svc *Service) Donations(donor auth.Principal) ([]Donation, error) {
	return svc.repo.QueryDonations(donor.ID)
}

// Donate records a pending donation to an active campaign and mails a receipt to the donor.
func (svc *Service) Donate(donor auth.Principal, campaignID string, nd NewDonation) (Donation, error) {
	c, err := svc.repo.GetCampaign(core.CleanString(campaignID))
	if err != nil {
		return Donation{}, err
	}
	if c.Status != StatusActive {
		return Donation{}, core.NewValidationError(ErrClosed)
	}

	d, err := svc.repo.CreateDonation(Donation{
		CampaignID: c.ID,
		Campaign:   c.Title,
		DonorID:    donor.ID,
		Amount:     nd.Amount,
		Date:       time.Now().UTC(),
		Status:     payment.StatusPending,
		Method:     nd.Method,
	})
	if err != nil {
		return Donation{}, errors.Wrap(err, "creating donation")
	}

	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Name: donor.Name, Address: donor.Email}},
		Subject: "Terima Kasih atas Donasi Anda",
		Body: fmt.Sprintf(
			"Halo %s,\n\nDonasi Anda untuk %q sebesar %s melalui %s sedang diproses.\nNo. transaksi: %s\n",
			donor.Name, c.Title, core.FormatRupiah(d.Amount), d.Method.Label(), d.ID,
		),
	})
	return d, nil
}
