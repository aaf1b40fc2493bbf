package domain

import "time"

type Role string

// Role hierarchy: superuser > club_owner > event_manager > staff.
const (
	RoleSuperuser    Role = "superuser"
	RoleClubOwner    Role = "club_owner"
	RoleEventManager Role = "event_manager"
	RoleStaff        Role = "staff"
)

var roleRank = map[Role]int{
	RoleSuperuser:    4,
	RoleClubOwner:    3,
	RoleEventManager: 2,
	RoleStaff:        1,
}

func (r Role) Valid() bool {
	_, ok := roleRank[r]
	return ok
}

// CanManage reports whether r outranks target in the role hierarchy.
func (r Role) CanManage(target Role) bool {
	return roleRank[r] > roleRank[target]
}

func (r Role) CanEditClubInfo() bool {
	return r == RoleSuperuser || r == RoleClubOwner || r == RoleEventManager
}

func (r Role) CanCreateClubs() bool {
	return r == RoleSuperuser
}

func (r Role) CanManageUsers() bool {
	return r != RoleStaff
}

type User struct {
	ID          uint      `json:"id"`
	Username    string    `json:"username"`
	RafflerName string    `json:"raffler_name,omitempty"`
	Role        Role      `json:"role"`
	Password    string    `json:"-"` // bcrypt hash
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
