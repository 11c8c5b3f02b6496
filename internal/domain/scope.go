package domain

// ScopeKind - вид ограничения доступа
type ScopeKind int

const (
	ScopeDenied ScopeKind = iota
	ScopeUnrestricted
	ScopeRestricted
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeUnrestricted:
		return "unrestricted"
	case ScopeRestricted:
		return "restricted"
	default:
		return "denied"
	}
}

// Identity - аутентифицированный пользователь, извлечённый из токена сессии
type Identity struct {
	UserID       int64
	Username     string
	Role         string
	DepartmentID *int64
}

// IsOwner сообщает, что пользователь - владелец фермы
func (i Identity) IsOwner() bool {
	return i.Role == RoleFarmOwner
}

// Scope - ограничение по отделу, применяемое к каждому обращению к данным.
// Нулевое значение соответствует запрету доступа.
type Scope struct {
	kind         ScopeKind
	departmentID int64
}

// Unrestricted возвращает область видимости без фильтра
func Unrestricted() Scope {
	return Scope{kind: ScopeUnrestricted}
}

// RestrictedTo возвращает область видимости одного отдела
func RestrictedTo(departmentID int64) Scope {
	return Scope{kind: ScopeRestricted, departmentID: departmentID}
}

// Denied возвращает область видимости, запрещающую любой доступ
func Denied() Scope {
	return Scope{kind: ScopeDenied}
}

// ResolveScope вычисляет область видимости по роли и отделу пользователя
func ResolveScope(identity Identity) Scope {
	switch {
	case identity.Role == RoleFarmOwner:
		return Unrestricted()
	case identity.Role == RoleSupervisor && identity.DepartmentID != nil:
		return RestrictedTo(*identity.DepartmentID)
	default:
		return Denied()
	}
}

func (s Scope) Kind() ScopeKind {
	return s.kind
}

func (s Scope) IsDenied() bool {
	return s.kind == ScopeDenied
}

func (s Scope) IsUnrestricted() bool {
	return s.kind == ScopeUnrestricted
}

func (s Scope) IsRestricted() bool {
	return s.kind == ScopeRestricted
}

// DepartmentID возвращает отдел ограниченной области видимости
func (s Scope) DepartmentID() (int64, bool) {
	if s.kind != ScopeRestricted {
		return 0, false
	}
	return s.departmentID, true
}

// Check возвращает ErrNoDepartmentAccess для запрещённой области видимости
func (s Scope) Check() error {
	if s.IsDenied() {
		return ErrNoDepartmentAccess
	}
	return nil
}

// CanAccess проверяет, видна ли строка с указанным отделом
func (s Scope) CanAccess(departmentID int64) bool {
	switch s.kind {
	case ScopeUnrestricted:
		return true
	case ScopeRestricted:
		return s.departmentID == departmentID
	default:
		return false
	}
}

// DepartmentForCreate определяет отдел новой записи.
// Руководитель всегда пишет в свой отдел: пустое значение заменяется его отделом,
// чужой отдел отклоняется. Владелец обязан указать отдел явно.
func (s Scope) DepartmentForCreate(requested *int64) (int64, error) {
	switch s.kind {
	case ScopeRestricted:
		if requested != nil && *requested != s.departmentID {
			return 0, ErrForeignDepartment
		}
		return s.departmentID, nil
	case ScopeUnrestricted:
		if requested == nil || *requested <= 0 {
			return 0, ErrDepartmentRequired
		}
		return *requested, nil
	default:
		return 0, ErrNoDepartmentAccess
	}
}
