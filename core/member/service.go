package member

import (
	"strconv"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/koperasi/core"
)

var (
	ErrNotFound  = errors.New("member not found")
	ErrNIKExists = errors.New("a member with this NIK already exists")
)

type (
	Repository interface {
		// Filter returns the members matching filter, by ascending ID.
		Filter(filter QueryFilter) ([]Member, error)
		GetByID(id string) (Member, error)
		CheckNIKUniqueness(nik string) error
		Create(m Member) (Member, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Query(filter QueryFilter) ([]Member, error) {
	filter.Clean()
	return svc.repo.Filter(filter)
}

func (svc *Service) Get(id string) (Member, error) {
	return svc.repo.GetByID(core.CleanString(id))
}

// Create registers a member. New members wait for approval.
func (svc *Service) Create(nm NewMember) (Member, error) {
	if err := svc.repo.CheckNIKUniqueness(nm.NIK); err != nil {
		if errors.Cause(err) == ErrNIKExists {
			return Member{}, core.NewValidationError(err, core.FieldError{Field: "nik", Error: err.Error()})
		}
		return Member{}, errors.Wrap(err, "checking NIK uniqueness")
	}
	return svc.repo.Create(Member{
		Name:        nm.Name,
		NIK:         nm.NIK,
		NoKK:        nm.NoKK,
		Province:    nm.Province,
		Email:       nm.Email,
		Phone:       nm.Phone,
		Address:     nm.Address,
		Status:      StatusPending,
		MonthlyDues: DefaultMonthlyDues,
		JoinedAt:    time.Now().UTC(),
	})
}

// Number is the member number displayed on cards, eg. M001.
func Number(id string) string {
	n, err := strconv.Atoi(id)
	if err != nil {
		return "M" + id
	}
	return "M" + leftPad(strconv.Itoa(n), 3)
}

func leftPad(s string, width int) string {
	for len(s) < width {
		s = "0" + s
	}
	return s
}
