package profile

import "slices"

// Profile は認証済みユーザーに対応する社員プロフィールです。生成後は変更しません。
type Profile struct {
	ID       int64
	FullName string
	Roles    []string
}

// HasRole は指定したロールを持つかを返します。
func (p *Profile) HasRole(role string) bool {
	if p == nil {
		return false
	}
	return slices.Contains(p.Roles, role)
}

// HasAnyRole はいずれかのロールを持つかを返します。
func (p *Profile) HasAnyRole(roles ...string) bool {
	for _, role := range roles {
		if p.HasRole(role) {
			return true
		}
	}
	return false
}

// ManagerRoles は全社員の実績を参照できるロールです。
var ManagerRoles = []string{"power", "lead"}

// IsManager は ManagerRoles のいずれかを持つかを返します。
func (p *Profile) IsManager() bool {
	return p.HasAnyRole(ManagerRoles...)
}

// EmployeeRecord は current_employee から取得した生のレコードです。
type EmployeeRecord struct {
	ID        int64
	FirstName string
	LastName  string
	Roles     []string
}

func (r *EmployeeRecord) toProfile() *Profile {
	return &Profile{
		ID:       r.ID,
		FullName: r.FirstName + " " + r.LastName,
		Roles:    slices.Clone(r.Roles),
	}
}

// Identity は画面表示用の利用者情報です。
type Identity struct {
	ID       int64
	FullName string
}
