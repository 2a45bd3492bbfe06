package inmemdb

import (
	"time"

	"github.com/trezcool/koperasi/core/charity"
	"github.com/trezcool/koperasi/core/loan"
	"github.com/trezcool/koperasi/core/member"
	"github.com/trezcool/koperasi/core/payment"
	"github.com/trezcool/koperasi/core/product"
	"github.com/trezcool/koperasi/core/profile"
)

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func dayPtr(year int, month time.Month, d int) *time.Time {
	t := day(year, month, d)
	return &t
}

func seed(db *DB) {
	members := []member.Member{
		{Name: "Ahmad Fauzi", NIK: "3374052501850002", NoKK: "3374052501850001", Province: "DKI Jakarta", Email: "ahmad.fauzi@example.com", Phone: "081234567890", Address: "Jl. Sudirman No. 12, Jakarta Pusat", Status: member.StatusActive, JoinedAt: day(2023, time.January, 15), LastPayment: dayPtr(2025, time.October, 5)},
		{Name: "Siti Aminah", NIK: "3374052501900003", NoKK: "3374052501900002", Province: "Jawa Barat", Email: "siti.aminah@example.com", Phone: "082345678901", Address: "Jl. Gatot Subroto No. 5, Bandung", Status: member.StatusActive, JoinedAt: day(2023, time.March, 3), LastPayment: dayPtr(2025, time.October, 10)},
		{Name: "Budi Santoso", NIK: "3374052501880004", NoKK: "3374052501880003", Province: "Jawa Tengah", Email: "budi.santoso@example.com", Phone: "083456789012", Address: "Jl. Ahmad Yani No. 8, Semarang", Status: member.StatusInactive, JoinedAt: day(2023, time.June, 22), LastPayment: dayPtr(2025, time.August, 15)},
		{Name: "Dewi Lestari", NIK: "3374052501950005", NoKK: "3374052501950004", Province: "Jawa Timur", Email: "dewi.lestari@example.com", Phone: "084567890123", Address: "Jl. Diponegoro No. 15, Surabaya", Status: member.StatusActive, JoinedAt: day(2023, time.September, 8), LastPayment: dayPtr(2025, time.October, 2)},
		{Name: "Eko Prasetyo", NIK: "3374052501870006", NoKK: "3374052501870005", Province: "Banten", Email: "eko.prasetyo@example.com", Phone: "085678901234", Address: "Jl. Raya Serang No. 20, Tangerang", Status: member.StatusPending, JoinedAt: day(2023, time.December, 14)},
	}
	for _, m := range members {
		m.MonthlyDues = member.DefaultMonthlyDues
		m.ID = db.member.nextPK()
		m.Number = member.Number(m.ID)
		db.member.rows[m.ID] = &m
	}

	payments := []payment.Payment{
		{ID: "1-1", MemberID: "1", Type: payment.TypeMonthlyDues, Amount: 50000, Date: day(2025, time.October, 5), Status: payment.StatusSuccess, Method: payment.MethodBankTransfer},
		{ID: "1-2", MemberID: "1", Type: payment.TypeMonthlyDues, Amount: 50000, Date: day(2025, time.September, 5), Status: payment.StatusSuccess, Method: payment.MethodQRIS},
		{ID: "1-3", MemberID: "1", Type: payment.TypeRegistration, Amount: 100000, Date: day(2023, time.January, 15), Status: payment.StatusSuccess, Method: payment.MethodBankTransfer},
		{ID: "2-1", MemberID: "2", Type: payment.TypeMonthlyDues, Amount: 50000, Date: day(2025, time.October, 10), Status: payment.StatusSuccess, Method: payment.MethodEWallet},
		{ID: "2-2", MemberID: "2", Type: payment.TypeMonthlyDues, Amount: 50000, Date: day(2025, time.September, 10), Status: payment.StatusPending, Method: payment.MethodQRIS},
		{ID: "3-1", MemberID: "3", Type: payment.TypeMonthlyDues, Amount: 50000, Date: day(2025, time.August, 15), Status: payment.StatusSuccess, Method: payment.MethodBankTransfer},
		{ID: "3-2", MemberID: "3", Type: payment.TypeRegistration, Amount: 100000, Date: day(2023, time.June, 22), Status: payment.StatusSuccess, Method: payment.MethodBankTransfer},
		{ID: "4-1", MemberID: "4", Type: payment.TypeMonthlyDues, Amount: 50000, Date: day(2025, time.October, 2), Status: payment.StatusSuccess, Method: payment.MethodQRIS},
		{ID: "5-1", MemberID: "5", Type: payment.TypeRegistration, Amount: 100000, Date: day(2023, time.December, 14), Status: payment.StatusSuccess, Method: payment.MethodBankTransfer},
	}
	for _, p := range payments {
		p.MemberName = db.member.rows[p.MemberID].Name
		db.payment.rows[p.ID] = &p
	}

	products := []product.Product{
		{Name: "Keripik Singkong", Price: 15000, Seller: "UMKM Makmur Jaya", Category: "Makanan", Location: "Jakarta Selatan", Description: "Keripik singkong renyah dengan bumbu balado pedas manis.", Contact: "081298765432", Likes: 24},
		{Name: "Tas Rajut Handmade", Price: 120000, Seller: "Rajut Berkah", Category: "Kerajinan", Location: "Jakarta Timur", Description: "Tas rajut buatan tangan dengan benang katun berkualitas.", Contact: "081312345678", Likes: 45},
		{Name: "Sambal Bawang", Price: 25000, Seller: "Dapur Bu Siti", Category: "Makanan", Location: "Jakarta Pusat", Description: "Sambal bawang homemade tanpa pengawet.", Contact: "081387654321", Likes: 67},
		{Name: "Batik Tulis", Price: 350000, Seller: "Batik Nusantara", Category: "Fashion", Location: "Jakarta Barat", Description: "Kain batik tulis motif parang asli pengrajin lokal.", Contact: "081256781234", Likes: 89},
		{Name: "Yoghurt Homemade", Price: 30000, Seller: "Yoghurt Sehat", Category: "Makanan", Location: "Jakarta Selatan", Description: "Yoghurt segar dengan berbagai pilihan rasa buah.", Contact: "081276543210", Likes: 32},
		{Name: "Jamu Tradisional", Price: 18000, Seller: "Jamu Herbal", Category: "Minuman", Location: "Jakarta Timur", Description: "Jamu kunyit asam dan beras kencur racikan tradisional.", Contact: "081365432109", Likes: 18},
	}
	for _, p := range products {
		p.ID = db.product.nextPK()
		db.product.rows[p.ID] = &p
	}
	// liked by the example member
	for _, id := range []string{"2", "4"} {
		db.likes.rows[id] = &map[string]bool{"3": true}
	}

	campaigns := []charity.Campaign{
		{Title: "Bantuan Pendidikan", Description: "Beasiswa dan perlengkapan sekolah untuk anak-anak anggota koperasi yang kurang mampu.", Target: 5000000, Raised: 4750000, Deadline: day(2025, time.November, 30), DonorCount: 56, Status: charity.StatusActive},
		{Title: "Program Kesehatan Lansia", Description: "Pemeriksaan kesehatan gratis dan vitamin untuk anggota lanjut usia.", Target: 3000000, Raised: 3000000, Deadline: day(2025, time.September, 15), DonorCount: 42, Status: charity.StatusCompleted},
		{Title: "Renovasi Masjid", Description: "Renovasi masjid di lingkungan kantor pusat koperasi.", Target: 10000000, Raised: 7500000, Deadline: day(2025, time.December, 25), DonorCount: 78, Status: charity.StatusActive},
		{Title: "Bantuan Bencana Alam", Description: "Bantuan logistik untuk anggota yang terdampak banjir dan longsor.", Target: 8000000, Raised: 2000000, Deadline: day(2025, time.November, 10), DonorCount: 24, Status: charity.StatusActive},
	}
	for _, c := range campaigns {
		c.ID = db.campaign.nextPK()
		db.campaign.rows[c.ID] = &c
	}

	donations := []charity.Donation{
		{CampaignID: "1", Campaign: "Bantuan Pendidikan", DonorID: "3", Amount: 250000, Date: day(2025, time.October, 15), Status: payment.StatusSuccess, Method: payment.MethodBankTransfer},
		{CampaignID: "2", Campaign: "Program Kesehatan Lansia", DonorID: "3", Amount: 100000, Date: day(2025, time.September, 20), Status: payment.StatusSuccess, Method: payment.MethodQRIS},
	}
	for _, d := range donations {
		d.ID = db.donation.nextPK()
		db.donation.rows[d.ID] = &d
	}

	loans := []loan.Application{
		{MemberNumber: "M001", Name: "Ahmad Fauzi", Amount: 5000000, Purpose: "Modal Usaha", Status: loan.StatusApproved, SubmittedAt: day(2025, time.October, 10)},
		{MemberNumber: "M002", Name: "Siti Aminah", Amount: 3000000, Purpose: "Renovasi Rumah", Status: loan.StatusPending, SubmittedAt: day(2025, time.October, 5)},
		{MemberNumber: "M003", Name: "Budi Santoso", Amount: 7000000, Purpose: "Pendidikan", Status: loan.StatusUnderReview, SubmittedAt: day(2025, time.October, 1)},
		{MemberNumber: "M004", Name: "Dewi Lestari", Amount: 4000000, Purpose: "Modal Usaha", Status: loan.StatusRejected, SubmittedAt: day(2025, time.September, 20)},
		{MemberNumber: "M005", Name: "Eko Prasetyo", Amount: 6000000, Purpose: "Kebutuhan Pribadi", Status: loan.StatusPending, SubmittedAt: day(2025, time.September, 15)},
	}
	for i, a := range loans {
		m := members[i]
		a.ID = db.loan.nextPK()
		a.NIK, a.NoKK, a.Province, a.Address, a.Phone = m.NIK, m.NoKK, m.Province, m.Address, m.Phone
		a.KTPFile = "ktp_" + a.MemberNumber + ".pdf"
		a.KKFile = "kk_" + a.MemberNumber + ".pdf"
		db.loan.rows[a.ID] = &a
	}
	own := loan.Application{
		ID:           db.loan.nextPK(),
		MemberNumber: "M006",
		Name:         "Regular Member",
		NIK:          "3374052501900001",
		NoKK:         "3374051234567890",
		Province:     "DKI Jakarta",
		Address:      "Jl. Kenanga No. 15, Jakarta Selatan",
		Phone:        "081234567890",
		Amount:       2000000,
		Purpose:      "Modal Usaha",
		Status:       loan.StatusUnderReview,
		SubmittedAt:  day(2025, time.October, 12),
		KTPFile:      "ktp_M006.pdf",
		KKFile:       "kk_M006.pdf",
	}
	db.loan.rows[own.ID] = &own

	db.profile.rows["3"] = &profile.Record{
		UserID:        "3",
		Phone:         "081234567890",
		Address:       "Jl. Kenanga No. 15, Jakarta Selatan",
		NIK:           "3374052501900001",
		NoKK:          "3374051234567890",
		MemberNumber:  "M006",
		JoinedAt:      day(2023, time.January, 15),
		Active:        true,
		LastPayment:   dayPtr(2025, time.October, 5),
		DuesPaidUntil: dayPtr(2025, time.November, 30),
	}
}
