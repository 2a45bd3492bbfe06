package member_test

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/koperasi/core"
	"github.com/trezcool/koperasi/core/member"
	"github.com/trezcool/koperasi/storage/database/inmem"
	"github.com/trezcool/koperasi/tests"
)

func setup() *member.Service {
	return member.NewService(inmemdb.NewMemberRepository(inmemdb.OpenSeeded()))
}

func names(members []member.Member) []string {
	out := make([]string, 0, len(members))
	for _, m := range members {
		out = append(out, m.Name)
	}
	return out
}

func TestService_Query(t *testing.T) {
	svc := setup()

	tests := []struct {
		name   string
		filter member.QueryFilter
		want   []string
	}{
		{name: "all", want: []string{"Ahmad Fauzi", "Siti Aminah", "Budi Santoso", "Dewi Lestari", "Eko Prasetyo"}},
		{name: "search name", filter: member.QueryFilter{Search: "  siti "}, want: []string{"Siti Aminah"}},
		{name: "search province", filter: member.QueryFilter{Search: "jawa"}, want: []string{"Siti Aminah", "Budi Santoso", "Dewi Lestari"}},
		{name: "search nik", filter: member.QueryFilter{Search: "3374052501880004"}, want: []string{"Budi Santoso"}},
		{name: "province", filter: member.QueryFilter{Province: "Banten"}, want: []string{"Eko Prasetyo"}},
		{name: "status", filter: member.QueryFilter{Status: "ACTIVE"}, want: []string{"Ahmad Fauzi", "Siti Aminah", "Dewi Lestari"}},
		{name: "province and search", filter: member.QueryFilter{Province: "Jawa Barat", Search: "budi"}, want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Query(tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, names(got))
		})
	}
}

func TestService_Get(t *testing.T) {
	svc := setup()

	m, err := svc.Get(" 3 ")
	require.NoError(t, err)
	assert.Equal(t, "Budi Santoso", m.Name)
	assert.Equal(t, "M003", m.Number)
	assert.Equal(t, member.DefaultMonthlyDues, m.MonthlyDues)

	_, err = svc.Get("42")
	assert.Equal(t, member.ErrNotFound, errors.Cause(err))
}

func TestNewMember_Validate(t *testing.T) {
	validate := testutil.NewValidator()
	valid := func() member.NewMember {
		return member.NewMember{
			Name:     "Rina Wati",
			NIK:      "3374052501990007",
			NoKK:     "3374052501990006",
			Province: "Bali",
			Email:    " Rina@Example.com ",
			Phone:    "081200001111",
		}
	}

	tests := []struct {
		name    string
		mutate  func(nm *member.NewMember)
		wantErr bool
	}{
		{name: "valid", mutate: func(*member.NewMember) {}},
		{name: "missing name", mutate: func(nm *member.NewMember) { nm.Name = "  " }, wantErr: true},
		{name: "short nik", mutate: func(nm *member.NewMember) { nm.NIK = "12345" }, wantErr: true},
		{name: "alpha nokk", mutate: func(nm *member.NewMember) { nm.NoKK = "33740525019900ab" }, wantErr: true},
		{name: "unknown province", mutate: func(nm *member.NewMember) { nm.Province = "Atlantis" }, wantErr: true},
		{name: "bad email", mutate: func(nm *member.NewMember) { nm.Email = "rina" }, wantErr: true},
		{name: "no email", mutate: func(nm *member.NewMember) { nm.Email = "" }},
		{name: "bad phone", mutate: func(nm *member.NewMember) { nm.Phone = "08-12" }, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nm := valid()
			tt.mutate(&nm)
			err := nm.Validate(validate)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if nm.Email != "" {
				assert.Equal(t, "rina@example.com", nm.Email)
			}
		})
	}
}

func TestService_Create(t *testing.T) {
	svc := setup()

	m, err := svc.Create(member.NewMember{Name: "Rina Wati", NIK: "3374052501990007", NoKK: "3374052501990006", Province: "Bali"})
	require.NoError(t, err)
	assert.Equal(t, "6", m.ID)
	assert.Equal(t, "M006", m.Number)
	assert.Equal(t, member.StatusPending, m.Status)
	assert.Equal(t, member.DefaultMonthlyDues, m.MonthlyDues)
	assert.False(t, m.JoinedAt.IsZero())

	got, err := svc.Get(m.ID)
	require.NoError(t, err)
	assert.Equal(t, m, got)

	_, err = svc.Create(member.NewMember{Name: "Copy", NIK: "3374052501990007", NoKK: "3374052501990006", Province: "Bali"})
	var verr *core.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []core.FieldError{{Field: "nik", Error: member.ErrNIKExists.Error()}}, verr.Fields)
}

func TestNumber(t *testing.T) {
	assert.Equal(t, "M001", member.Number("1"))
	assert.Equal(t, "M042", member.Number("42"))
	assert.Equal(t, "M1234", member.Number("1234"))
	assert.Equal(t, "Mx9", member.Number("x9"))
}
