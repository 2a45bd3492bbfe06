package payment

import (
	"fmt"
	"net/mail"
	"sort"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/koperasi/core"
	"github.com/trezcool/koperasi/core/auth"
	"github.com/trezcool/koperasi/core/member"
)

type (
	Repository interface {
		// QueryByMembers returns the payments of the given members, newest first.
		QueryByMembers(memberIDs ...string) ([]Payment, error)
		Create(p Payment) (Payment, error)
	}

	Service struct {
		repo    Repository
		members member.Repository
		mailSvc core.EmailService
	}
)

func NewService(repo Repository, members member.Repository, mailSvc core.EmailService) *Service {
	return &Service{repo: repo, members: members, mailSvc: mailSvc}
}

func (svc *Service) filteredMembers(filter QueryFilter) ([]member.Member, error) {
	members, err := svc.members.Filter(member.QueryFilter{Province: filter.Province})
	if err != nil {
		return nil, errors.Wrap(err, "filtering members")
	}
	return members, nil
}

// Query returns the payment history of the members of filter.Province (all when empty),
// narrowed to filter.MemberID when set.
func (svc *Service) Query(filter QueryFilter) ([]Payment, error) {
	filter.Clean()
	members, err := svc.filteredMembers(filter)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(members))
	for _, m := range members {
		if filter.MemberID == "" || m.ID == filter.MemberID {
			ids = append(ids, m.ID)
		}
	}
	if len(ids) == 0 {
		return []Payment{}, nil
	}

	payments, err := svc.repo.QueryByMembers(ids...)
	if err != nil {
		return nil, errors.Wrap(err, "querying payments")
	}
	res := make([]Payment, 0, len(payments))
	for _, p := range payments {
		if filter.matchSearch(p) {
			res = append(res, p)
		}
	}
	return res, nil
}

// Summarize totals the monthly dues of the members of filter.Province.
func (svc *Service) Summarize(filter QueryFilter) (Summary, error) {
	filter.Clean()
	members, err := svc.filteredMembers(filter)
	if err != nil {
		return Summary{}, err
	}
	var sum Summary
	for _, m := range members {
		sum.TotalDues += m.MonthlyDues
	}
	sum.MemberCount = len(members)
	return sum, nil
}

// Pay records a pending monthly dues payment for a member and mails a receipt to the payer.
func (svc *Service) Pay(payer auth.Principal, np NewPayment) (Payment, error) {
	m, err := svc.members.GetByID(np.MemberID)
	if err != nil {
		if errors.Cause(err) == member.ErrNotFound {
			return Payment{}, core.NewValidationError(err, core.FieldError{Field: "member", Error: err.Error()})
		}
		return Payment{}, errors.Wrap(err, "getting member")
	}

	p, err := svc.repo.Create(Payment{
		MemberID:   m.ID,
		MemberName: m.Name,
		Type:       TypeMonthlyDues,
		Amount:     m.MonthlyDues,
		Date:       time.Now().UTC(),
		Status:     StatusPending,
		Method:     np.Method,
	})
	if err != nil {
		return Payment{}, errors.Wrap(err, "creating payment")
	}

	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Name: payer.Name, Address: payer.Email}},
		Subject: "Bukti Pembayaran Iuran",
		Body: fmt.Sprintf(
			"Halo %s,\n\nPembayaran %s untuk %s sebesar %s melalui %s sedang diproses.\nNo. transaksi: %s\n",
			payer.Name, p.Type, p.MemberName, core.FormatRupiah(p.Amount), p.Method.Label(), p.ID,
		),
	})
	return p, nil
}

// Collected sums the successful payments.
func Collected(payments []Payment) int64 {
	var total int64
	for _, p := range payments {
		if p.Status == StatusSuccess {
			total += p.Amount
		}
	}
	return total
}

// SortNewestFirst orders payments by descending date, then ID.
func SortNewestFirst(payments []Payment) {
	sort.SliceStable(payments, func(i, j int) bool {
		if !payments[i].Date.Equal(payments[j].Date) {
			return payments[i].Date.After(payments[j].Date)
		}
		return payments[i].ID < payments[j].ID
	})
}
