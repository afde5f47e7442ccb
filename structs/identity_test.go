package structs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeRole(t *testing.T) {
	assert.Equal(t, RoleAdmin, NormalizeRole("Admin"))
	assert.Equal(t, RoleUser, NormalizeRole("moderator"))
	assert.Equal(t, RoleUser, NormalizeRole(""))
}

func TestHasRole(t *testing.T) {
	admin := &Identity{Role: RoleAdmin}
	user := &Identity{Role: RoleUser}
	var none *Identity

	assert.True(t, admin.HasRole(RoleUser))
	assert.True(t, admin.IsAdmin())
	assert.False(t, user.HasRole(RoleAdmin))
	assert.False(t, none.HasRole(RoleUser))
	assert.Nil(t, none.Clone())
}

func TestCloneIsIndependent(t *testing.T) {
	orig := &Identity{ID: "1", FullName: "Admin User"}
	c := orig.Clone()
	c.FullName = "changed"
	assert.Equal(t, "Admin User", orig.FullName)
}
