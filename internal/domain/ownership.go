package domain

// Owned is implemented by records that carry an author reference.
// A nil author means the author account was deleted.
type Owned interface {
	OwnerID() *int32
}

// CanModify reports whether the given caller may update or delete an owned record.
// Admins may modify anything; other users only records they authored.
func CanModify(callerID int32, callerRole Role, record Owned) bool {
	if callerRole == RoleAdmin {
		return true
	}
	author := record.OwnerID()
	return author != nil && *author == callerID
}
