// Package profile keeps the contact and membership details shown on the profile page.
// Updates are stored in the profile record only; the session principal is never changed.
package profile

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/koperasi/core"
	"github.com/trezcool/koperasi/core/auth"
)

var ErrNotFound = errors.New("profile not found")

type (
	// Record is the stored part of a profile.
	Record struct {
		UserID        string     `json:"-"`
		Name          string     `json:"name,omitempty"`
		Phone         string     `json:"phone"`
		Address       string     `json:"address"`
		NIK           string     `json:"nik"`
		NoKK          string     `json:"nokk"`
		MemberNumber  string     `json:"member_number,omitempty"`
		JoinedAt      time.Time  `json:"join_date"`
		Active        bool       `json:"active"`
		LastPayment   *time.Time `json:"last_payment,omitempty"`
		DuesPaidUntil *time.Time `json:"valid_until,omitempty"`
	}

	Profile struct {
		User auth.Principal `json:"user"`
		Record
		RoleLabel   string `json:"role_label"`
		StatusLabel string `json:"status_label"`
	}

	UpdateProfile struct {
		Name    string `json:"name" validate:"required,max=100"`
		Phone   string `json:"phone" validate:"omitempty,numeric,min=9,max=15"`
		Address string `json:"address" validate:"max=255"`
	}

	Repository interface {
		// GetByUserID returns ErrNotFound when the user has no record yet.
		GetByUserID(userID string) (Record, error)
		Save(r Record) error
	}

	Service struct {
		repo Repository
	}
)

func (up *UpdateProfile) Validate(validate *validator.Validate) error {
	up.Name = core.CleanString(up.Name)
	up.Phone = core.CleanString(up.Phone)
	up.Address = core.CleanString(up.Address)
	return validate.Struct(up)
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) record(p auth.Principal) (Record, error) {
	r, err := svc.repo.GetByUserID(p.ID)
	if err != nil {
		if errors.Cause(err) != ErrNotFound {
			return Record{}, errors.Wrap(err, "getting profile")
		}
		r = Record{UserID: p.ID}
	}
	return r, nil
}

// Get returns the profile of p, defaulting to the principal's own details.
func (svc *Service) Get(p auth.Principal) (Profile, error) {
	r, err := svc.record(p)
	if err != nil {
		return Profile{}, err
	}
	if r.Name == "" {
		r.Name = p.Name
	}
	status := "Tidak Aktif"
	if r.Active {
		status = "Aktif"
	}
	return Profile{User: p, Record: r, RoleLabel: p.Role.Label(), StatusLabel: status}, nil
}

// Update stores the contact details of p.
func (svc *Service) Update(p auth.Principal, up UpdateProfile) (Profile, error) {
	r, err := svc.record(p)
	if err != nil {
		return Profile{}, err
	}
	r.Name = up.Name
	r.Phone = up.Phone
	r.Address = up.Address
	if err = svc.repo.Save(r); err != nil {
		return Profile{}, errors.Wrap(err, "saving profile")
	}
	return svc.Get(p)
}
