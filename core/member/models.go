package member

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/koperasi/core"
)

// DefaultMonthlyDues is the monthly dues of a new member, in rupiah.
const DefaultMonthlyDues int64 = 50000

type Status string

// Statuses
const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusPending  Status = "pending"
)

func (s Status) Label() string {
	switch s {
	case StatusActive:
		return "Aktif"
	case StatusInactive:
		return "Tidak Aktif"
	case StatusPending:
		return "Menunggu"
	}
	return string(s)
}

type (
	Member struct {
		ID          string     `json:"id"`
		Number      string     `json:"member_number"`
		Name        string     `json:"name"`
		NIK         string     `json:"nik"`
		NoKK        string     `json:"nokk,omitempty"`
		Province    string     `json:"province"`
		Email       string     `json:"email,omitempty"`
		Phone       string     `json:"phone,omitempty"`
		Address     string     `json:"address,omitempty"`
		Status      Status     `json:"status"`
		MonthlyDues int64      `json:"monthly_dues"`
		JoinedAt    time.Time  `json:"join_date"`
		LastPayment *time.Time `json:"last_payment,omitempty"`
	}

	NewMember struct {
		Name     string `json:"name" validate:"required,max=100"`
		NIK      string `json:"nik" validate:"required,nik"`
		NoKK     string `json:"nokk" validate:"required,nik"`
		Province string `json:"province" validate:"required,province"`
		Email    string `json:"email" validate:"omitempty,email"`
		Phone    string `json:"phone" validate:"omitempty,numeric,min=9,max=15"`
		Address  string `json:"address" validate:"max=255"`
	}

	// QueryFilter filters members. Zero fields match everything.
	QueryFilter struct {
		// Search matches the name, the province (case-insensitively) or the NIK.
		Search   string `query:"search"`
		Province string `query:"province"`
		Status   Status `query:"status"`
	}
)

func (nm *NewMember) Validate(validate *validator.Validate) error {
	nm.Name = core.CleanString(nm.Name)
	nm.NIK = core.CleanString(nm.NIK)
	nm.NoKK = core.CleanString(nm.NoKK)
	nm.Province = core.CleanString(nm.Province)
	nm.Email = core.CleanString(nm.Email, true /* lower */)
	nm.Phone = core.CleanString(nm.Phone)
	nm.Address = core.CleanString(nm.Address)
	return validate.Struct(nm)
}

func (f *QueryFilter) Clean() {
	f.Search = core.CleanString(f.Search)
	f.Province = core.CleanString(f.Province)
	f.Status = Status(core.CleanString(string(f.Status), true /* lower */))
}

// Match reports whether m passes the filter.
func (f QueryFilter) Match(m Member) bool {
	if f.Province != "" && m.Province != f.Province {
		return false
	}
	if f.Status != "" && m.Status != f.Status {
		return false
	}
	if f.Search != "" {
		return core.ContainsFold(m.Name, f.Search) ||
			core.ContainsFold(m.Province, f.Search) ||
			core.ContainsFold(m.NIK, f.Search)
	}
	return true
}
