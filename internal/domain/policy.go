package domain

// Policy is the caller's capability set, resolved once per request from the
// auth token and the user's entity assignments. Core operations take a
// Policy instead of re-deriving permissions from role strings.
type Policy struct {
	UserID    uint
	Username  string
	Role      Role
	EntityIDs []uint // entities assigned to the user; ignored for superusers
}

// CanAccessEntity reports whether the caller may operate on the entity.
// Superusers can access every entity.
func (p Policy) CanAccessEntity(entityID uint) bool {
	if p.Role == RoleSuperuser {
		return true
	}
	for _, id := range p.EntityIDs {
		if id == entityID {
			return true
		}
	}
	return false
}

func (p Policy) CanManageUsers() bool {
	return p.Role.CanManageUsers()
}

func (p Policy) CanCreateClubs() bool {
	return p.Role.CanCreateClubs()
}

func (p Policy) CanEditClubInfo() bool {
	return p.Role.CanEditClubInfo()
}

// CanCloseSession reports whether the caller may close the given session:
// the session owner or a superuser.
func (p Policy) CanCloseSession(s Session) bool {
	return p.Role == RoleSuperuser || s.UserID == p.UserID
}
