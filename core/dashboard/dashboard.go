// Package dashboard assembles the landing page of the dashboard for the current principal.
package dashboard

import (
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/koperasi/core"
	"github.com/trezcool/koperasi/core/auth"
	"github.com/trezcool/koperasi/core/charity"
	"github.com/trezcool/koperasi/core/member"
	"github.com/trezcool/koperasi/core/payment"
	"github.com/trezcool/koperasi/core/product"
	"github.com/trezcool/koperasi/core/profile"
)

const recentActivities = 5

// Dues statuses of a member
const (
	DuesPaid   = "Lunas"
	DuesUnpaid = "Belum Lunas"
)

type (
	Stat struct {
		Label string `json:"label"`
		Value string `json:"value"`
	}

	Activity struct {
		Title  string    `json:"title"`
		Detail string    `json:"detail"`
		Date   time.Time `json:"date"`
	}

	Event struct {
		Title    string    `json:"title"`
		Date     time.Time `json:"date"`
		Location string    `json:"location,omitempty"`
	}

	Overview struct {
		Greeting   string     `json:"greeting"`
		Role       string     `json:"role"`
		Stats      []Stat     `json:"stats"`
		Activities []Activity `json:"activities"`
		Agenda     []Event    `json:"agenda"`
	}

	Service struct {
		members  *member.Service
		payments *payment.Service
		products *product.Service
		charity  *charity.Service
		profiles *profile.Service
		now      func() time.Time
	}
)

var wib = time.FixedZone("WIB", 7*60*60)

// Agenda is the upcoming events of the cooperative.
var Agenda = []Event{
	{Title: "Rapat Anggota Tahunan", Date: time.Date(2025, 11, 12, 9, 0, 0, 0, wib), Location: "Aula Utama Kantor Pusat"},
	{Title: "Pelatihan UMKM", Date: time.Date(2025, 11, 18, 13, 0, 0, 0, wib), Location: "Online via Zoom"},
	{Title: "Batas Akhir Pembayaran Iuran", Date: time.Date(2025, 11, 30, 0, 0, 0, 0, wib)},
}

func NewService(
	members *member.Service,
	payments *payment.Service,
	products *product.Service,
	charity *charity.Service,
	profiles *profile.Service,
) *Service {
	return &Service{
		members:  members,
		payments: payments,
		products: products,
		charity:  charity,
		profiles: profiles,
		now:      time.Now,
	}
}

// Overview returns the dashboard of p: aggregate figures for admins, personal ones for members.
func (svc *Service) Overview(p auth.Principal) (Overview, error) {
	ov := Overview{Role: p.Role.Label(), Agenda: Agenda}

	var err error
	if p.Role.IsAdmin() {
		ov.Greeting = fmt.Sprintf("Selamat datang kembali, %s!", p.Name)
		ov.Stats, ov.Activities, err = svc.adminStats()
	} else {
		ov.Greeting = fmt.Sprintf("Halo, %s!", p.Name)
		ov.Stats, ov.Activities, err = svc.memberStats(p)
	}
	if err != nil {
		return Overview{}, err
	}
	return ov, nil
}

func (svc *Service) adminStats() ([]Stat, []Activity, error) {
	members, err := svc.members.Query(member.QueryFilter{})
	if err != nil {
		return nil, nil, errors.Wrap(err, "querying members")
	}
	payments, err := svc.payments.Query(payment.QueryFilter{})
	if err != nil {
		return nil, nil, errors.Wrap(err, "querying payments")
	}
	productCount, err := svc.products.Count()
	if err != nil {
		return nil, nil, errors.Wrap(err, "counting products")
	}
	campaigns, err := svc.charity.Campaigns("")
	if err != nil {
		return nil, nil, errors.Wrap(err, "querying campaigns")
	}
	var raised int64
	for _, c := range campaigns {
		raised += c.Raised
	}

	stats := []Stat{
		{Label: "Total Anggota", Value: fmt.Sprint(len(members))},
		{Label: "Iuran Terkumpul", Value: core.FormatRupiah(payment.Collected(payments))},
		{Label: "Produk UMKM", Value: fmt.Sprint(productCount)},
		{Label: "Total Donasi", Value: core.FormatRupiah(raised)},
	}

	activities := make([]Activity, 0, recentActivities)
	for _, p := range payments {
		if len(activities) == recentActivities {
			break
		}
		activities = append(activities, Activity{
			Title:  fmt.Sprintf("%s - %s", p.MemberName, p.Type),
			Detail: fmt.Sprintf("%s via %s", core.FormatRupiah(p.Amount), p.Method.Label()),
			Date:   p.Date,
		})
	}
	return stats, activities, nil
}

func (svc *Service) memberStats(p auth.Principal) ([]Stat, []Activity, error) {
	prof, err := svc.profiles.Get(p)
	if err != nil {
		return nil, nil, err
	}
	donations, err := svc.charity.Donations(p)
	if err != nil {
		return nil, nil, errors.Wrap(err, "querying donations")
	}

	dues, validUntil := DuesUnpaid, "-"
	if until := prof.DuesPaidUntil; until != nil {
		validUntil = until.Format(core.DateLayout)
		if !svc.now().After(*until) {
			dues = DuesPaid
		}
	}
	var donated int64
	activities := make([]Activity, 0, len(donations))
	for _, d := range donations {
		donated += d.Amount
		if len(activities) < recentActivities {
			activities = append(activities, Activity{
				Title:  "Donasi " + d.Campaign,
				Detail: core.FormatRupiah(d.Amount),
				Date:   d.Date,
			})
		}
	}

	stats := []Stat{
		{Label: "Status Iuran", Value: dues},
		{Label: "Berlaku Hingga", Value: validUntil},
		{Label: "Total Donasi Saya", Value: core.FormatRupiah(donated)},
		{Label: "Jumlah Donasi", Value: fmt.Sprint(len(donations))},
	}
	return stats, activities, nil
}
