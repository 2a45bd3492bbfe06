package auth

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		in      string
		want    Role
		wantErr bool
	}{
		{in: "member", want: RoleMember},
		{in: "admin_central", want: RoleAdminCentral},
		{in: " Admin_Branch ", want: RoleAdminBranch},
		{in: "admin", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRole(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseRole() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseRole() = %v; want %v", got, tt.want)
			}
		})
	}
}

func TestRole_MarshalText(t *testing.T) {
	for _, role := range AllRoles {
		data, err := role.MarshalText()
		require.NoError(t, err)

		var got Role
		require.NoError(t, got.UnmarshalText(data))
		assert.Equal(t, role, got)
	}

	var zero Role
	_, err := zero.MarshalText()
	assert.True(t, errors.Is(err, ErrInvalidRole))
}

func TestNewPrincipal(t *testing.T) {
	tests := []struct {
		name       string
		role       Role
		branch     string
		wantBranch string
		wantErr    bool
	}{
		{name: "member drops branch", role: RoleMember, branch: "Jakarta"},
		{name: "central admin drops branch", role: RoleAdminCentral, branch: "Jakarta"},
		{name: "branch admin keeps branch", role: RoleAdminBranch, branch: " Jakarta ", wantBranch: "Jakarta"},
		{name: "branch admin requires branch", role: RoleAdminBranch, wantErr: true},
		{name: "invalid role", role: Role(42), wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewPrincipal("1", "Name", " USER@Example.com", tt.role, tt.branch)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewPrincipal() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			assert.Equal(t, tt.wantBranch, p.Branch)
			assert.Equal(t, "user@example.com", p.Email)
		})
	}
}

func TestDecodePrincipal(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		want    Principal
		wantErr bool
	}{
		{
			name: "member",
			data: `{"id":"3","name":"Regular Member","email":"member@example.com","role":"member"}`,
			want: Principal{ID: "3", Name: "Regular Member", Email: "member@example.com", Role: RoleMember},
		},
		{
			name: "branch ignored for member",
			data: `{"id":"3","name":"Regular Member","email":"member@example.com","role":"member","branch":"Bogor"}`,
			want: Principal{ID: "3", Name: "Regular Member", Email: "member@example.com", Role: RoleMember},
		},
		{
			name: "branch admin",
			data: `{"id":"2","name":"Branch Admin","email":"branch@example.com","role":"admin_branch","branch":"Jakarta"}`,
			want: Principal{ID: "2", Name: "Branch Admin", Email: "branch@example.com", Role: RoleAdminBranch, Branch: "Jakarta"},
		},
		{name: "branch admin without branch", data: `{"id":"2","name":"B","email":"b@x.io","role":"admin_branch"}`, wantErr: true},
		{name: "unknown role", data: `{"id":"1","name":"A","email":"a@x.io","role":"root"}`, wantErr: true},
		{name: "missing role", data: `{"id":"1","name":"A","email":"a@x.io"}`, wantErr: true},
		{name: "not json", data: `{"id":`, wantErr: true},
		{name: "empty", data: ``, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodePrincipal([]byte(tt.data))
			if (err != nil) != tt.wantErr {
				t.Fatalf("DecodePrincipal() error = %v, wantErr %v", err, tt.wantErr)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPrincipal_Encode(t *testing.T) {
	p := Principal{ID: "1", Name: "Admin User", Email: "admin@example.com", Role: RoleAdminCentral, Branch: "ignored"}
	data, err := p.Encode()
	require.NoError(t, err)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, map[string]interface{}{
		"id": "1", "name": "Admin User", "email": "admin@example.com", "role": "admin_central",
	}, raw)

	got, err := DecodePrincipal(data)
	require.NoError(t, err)
	p.Branch = ""
	assert.Equal(t, p, got)
}

func TestStaticVerifier_Verify(t *testing.T) {
	v, err := NewStaticVerifier(bcrypt.MinCost)
	require.NoError(t, err)

	tests := []struct {
		email    string
		password string
		wantRole Role
		wantErr  error
	}{
		{email: "admin@example.com", password: "password", wantRole: RoleAdminCentral},
		{email: "branch@example.com", password: "password", wantRole: RoleAdminBranch},
		{email: "member@example.com", password: "password", wantRole: RoleMember},
		{email: " Member@Example.com ", password: "password", wantRole: RoleMember},
		{email: "member@example.com", password: "Password", wantErr: ErrInvalidCredentials},
		{email: "nobody@example.com", password: "password", wantErr: ErrInvalidCredentials},
		{email: "", password: "", wantErr: ErrInvalidCredentials},
	}
	for _, tt := range tests {
		t.Run(tt.email+"/"+tt.password, func(t *testing.T) {
			p, err := v.Verify(context.Background(), tt.email, tt.password)
			if err != tt.wantErr {
				t.Fatalf("Verify() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil {
				assert.Equal(t, tt.wantRole, p.Role)
				assert.NoError(t, p.Validate())
			}
		})
	}

	p, err := v.Verify(context.Background(), "branch@example.com", "password")
	require.NoError(t, err)
	assert.Equal(t, "Jakarta", p.Branch)
}

func TestNewStaticVerifier_duplicate(t *testing.T) {
	acc := Account{Principal: Principal{ID: "1", Name: "A", Email: "a@x.io", Role: RoleMember}, Password: "pwd"}
	_, err := NewStaticVerifier(bcrypt.MinCost, acc, acc)
	assert.Error(t, err)
}
