// Package loan holds the loan applications of the members and the cooperative FAQ.
package loan

import (
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/koperasi/core"
)

var ErrNotFound = errors.New("loan application not found")

type Status string

// Statuses
const (
	StatusPending     Status = "pending"
	StatusUnderReview Status = "under_review"
	StatusApproved    Status = "approved"
	StatusRejected    Status = "rejected"
)

func (s Status) Label() string {
	switch s {
	case StatusApproved:
		return "Disetujui"
	case StatusUnderReview:
		return "Dalam Review"
	case StatusPending:
		return "Menunggu"
	case StatusRejected:
		return "Ditolak"
	}
	return string(s)
}

type (
	Application struct {
		ID           string    `json:"id"`
		MemberNumber string    `json:"member_number"`
		Name         string    `json:"name"`
		NIK          string    `json:"nik"`
		NoKK         string    `json:"nokk"`
		Province     string    `json:"province"`
		Address      string    `json:"address"`
		Phone        string    `json:"phone"`
		Amount       int64     `json:"amount"`
		Purpose      string    `json:"purpose"`
		Status       Status    `json:"status"`
		StatusLabel  string    `json:"status_label"`
		SubmittedAt  time.Time `json:"submit_date"`
		KTPFile      string    `json:"ktp_file,omitempty"`
		KKFile       string    `json:"kk_file,omitempty"`
	}

	FAQ struct {
		Question string `json:"question"`
		Answer   string `json:"answer"`
	}

	QueryFilter struct {
		// Search matches the name, the NIK, the member number or the province.
		Search   string `query:"search"`
		Province string `query:"province"`
		// MemberNumber restricts the results to the applications of one member.
		MemberNumber string `query:"-"`
	}

	Repository interface {
		QueryAll() ([]Application, error)
		GetByID(id string) (Application, error)
	}

	Service struct {
		repo Repository
	}
)

// FAQs are the frequently asked questions of the info page.
var FAQs = []FAQ{
	{
		Question: "Bagaimana cara menjadi anggota koperasi?",
		Answer:   "Daftar melalui admin cabang dengan membawa KTP dan Kartu Keluarga, lalu bayar biaya pendaftaran sebesar Rp 100.000.",
	},
	{
		Question: "Berapa iuran bulanan anggota?",
		Answer:   "Iuran bulanan sebesar Rp 50.000 dan dibayarkan paling lambat tanggal 10 setiap bulan.",
	},
	{
		Question: "Bagaimana cara mengajukan pinjaman?",
		Answer:   "Anggota aktif dapat mengajukan pinjaman dengan melampirkan KTP dan Kartu Keluarga. Pengajuan akan direview oleh admin.",
	},
	{
		Question: "Apa saja keuntungan menjadi anggota?",
		Answer:   "Anggota mendapat akses pinjaman berbunga rendah, pembagian SHU tahunan dan promosi produk UMKM.",
	},
	{
		Question: "Bagaimana cara mempromosikan produk UMKM saya?",
		Answer:   "Tambahkan produk Anda di halaman Produk UMKM agar dapat dilihat oleh seluruh anggota koperasi.",
	},
}

func (f *QueryFilter) Clean() {
	f.Search = core.CleanString(f.Search)
	f.Province = core.CleanString(f.Province)
	f.MemberNumber = core.CleanString(f.MemberNumber)
}

func (f QueryFilter) Match(a Application) bool {
	if f.Province != "" && a.Province != f.Province {
		return false
	}
	if f.MemberNumber != "" && a.MemberNumber != f.MemberNumber {
		return false
	}
	if f.Search == "" {
		return true
	}
	return core.ContainsFold(a.Name, f.Search) ||
		core.ContainsFold(a.MemberNumber, f.Search) ||
		core.ContainsFold(a.Province, f.Search) ||
		a.NIK == f.Search
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) FAQ() []FAQ {
	return FAQs
}

func (svc *Service) Query(filter QueryFilter) ([]Application, error) {
	filter.Clean()
	apps, err := svc.repo.QueryAll()
	if err != nil {
		return nil, errors.Wrap(err, "querying loan applications")
	}
	res := make([]Application, 0, len(apps))
	for _, a := range apps {
		if filter.Match(a) {
			a.StatusLabel = a.Status.Label()
			res = append(res, a)
		}
	}
	return res, nil
}

func (svc *Service) Get(id string) (Application, error) {
	a, err := svc.repo.GetByID(core.CleanString(id))
	if err != nil {
		return Application{}, err
	}
	a.StatusLabel = a.Status.Label()
	return a, nil
}
