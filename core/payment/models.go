package payment

import (
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/koperasi/core"
)

// Method is how a payment or a donation is made.
type Method string

// Methods
const (
	MethodBankTransfer Method = "bank_transfer"
	MethodQRIS         Method = "qris"
	MethodEWallet      Method = "ewallet"
)

var Methods = []Method{MethodBankTransfer, MethodQRIS, MethodEWallet}

func (m Method) Valid() bool {
	switch m {
	case MethodBankTransfer, MethodQRIS, MethodEWallet:
		return true
	}
	return false
}

func (m Method) Label() string {
	switch m {
	case MethodBankTransfer:
		return "Transfer Bank"
	case MethodQRIS:
		return "QRIS"
	case MethodEWallet:
		return "E-Wallet"
	}
	return string(m)
}

type Status string

// Statuses
const (
	StatusSuccess Status = "success"
	StatusPending Status = "pending"
	StatusFailed  Status = "failed"
)

// Payment types
const (
	TypeMonthlyDues  = "Iuran Bulanan"
	TypeRegistration = "Pendaftaran"
)

type (
	Payment struct {
		ID         string    `json:"id"`
		MemberID   string    `json:"member_id"`
		MemberName string    `json:"member_name"`
		Type       string    `json:"type"`
		Amount     int64     `json:"amount"`
		Date       time.Time `json:"date"`
		Status     Status    `json:"status"`
		Method     Method    `json:"method"`
	}

	NewPayment struct {
		MemberID string `json:"member" validate:"required"`
		Method   Method `json:"method" validate:"required,paymethod"`
	}

	QueryFilter struct {
		Province string `query:"province"`
		MemberID string `query:"member"`
		// Search matches the type, the method or the displayed date, case-insensitively.
		Search string `query:"search"`
	}

	// Summary of the dues owed by the filtered members.
	Summary struct {
		TotalDues   int64 `json:"total_dues"`
		MemberCount int   `json:"member_count"`
	}
)

func (np *NewPayment) Validate(validate *validator.Validate) error {
	np.MemberID = core.CleanString(np.MemberID)
	np.Method = Method(core.CleanString(string(np.Method), true /* lower */))
	return validate.Struct(np)
}

func (f *QueryFilter) Clean() {
	f.Province = core.CleanString(f.Province)
	f.MemberID = core.CleanString(f.MemberID)
	f.Search = core.CleanString(f.Search)
}

func (f QueryFilter) matchSearch(p Payment) bool {
	if f.Search == "" {
		return true
	}
	return core.ContainsFold(p.Type, f.Search) ||
		core.ContainsFold(p.Method.Label(), f.Search) ||
		core.ContainsFold(p.Date.Format(core.DateLayout), f.Search)
}

var (
	payMethodTag  = "paymethod"
	payMethodText = "{0} must be one of bank_transfer, qris or ewallet"
)

func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(payMethodTag, func(fl validator.FieldLevel) bool {
		return Method(fl.Field().String()).Valid()
	})
	core.RegisterCustomTranslation(validate, translator, payMethodTag, payMethodText)
}
