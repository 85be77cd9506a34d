package testutil

import (
	"errors"
	"testing"

	"github.com/go-ldap/ldap/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seed(t *testing.T, m *MockDirectory, names ...string) {
	t.Helper()
	for _, name := range names {
		req := ldap.NewAddRequest(name, nil)
		req.Attribute("objectClass", []string{"top"})
		require.NoError(t, m.Add(req))
	}
}

func TestMockDirectoryAddDelete(t *testing.T) {
	m := NewMockDirectory()
	seed(t, m, BaseDN, "ou=users,"+BaseDN)

	err := m.Add(ldap.NewAddRequest("OU=Users,DC=example,DC=com", nil))
	assert.ErrorIs(t, err, ErrEntryAlreadyExists)

	require.NoError(t, m.Del(ldap.NewDelRequest("ou=users,"+BaseDN, nil)))
	assert.ErrorIs(t, m.Del(ldap.NewDelRequest("ou=users,"+BaseDN, nil)), ErrNoSuchObject)

	assert.Equal(t, 1, m.Len())
	assert.Len(t, m.AddCalls, 3)
	assert.Len(t, m.DelCalls, 2)
	assert.ErrorIs(t, m.AddCalls[2].Error, ErrEntryAlreadyExists)
}

func TestMockDirectoryModify(t *testing.T) {
	m := NewMockDirectory()
	seed(t, m, "cn=a,"+BaseDN)

	req := ldap.NewModifyRequest("cn=a,"+BaseDN, nil)
	req.Add("mail", []string{"a@example.com", "b@example.com"})
	req.Delete("mail", []string{"a@example.com"})
	req.Replace("uidNumber", []string{"10"})
	req.Increment("uidNumber", "-3")
	require.NoError(t, m.Modify(req))

	e := m.Entry("CN=A," + BaseDN)
	require.NotNil(t, e)
	assert.Equal(t, []string{"b@example.com"}, e.GetAttributeValues("mail"))
	assert.Equal(t, "7", e.GetAttributeValue("uidNumber"))

	bad := ldap.NewModifyRequest("cn=a,"+BaseDN, nil)
	bad.Increment("missing", "1")
	assert.ErrorIs(t, m.Modify(bad), ErrUnsupported)
}

func TestMockDirectoryModifyDNMovesSubtree(t *testing.T) {
	m := NewMockDirectory()
	seed(t, m, BaseDN, "ou=old,"+BaseDN, "cn=child,ou=old,"+BaseDN, "ou=other,"+BaseDN)

	require.NoError(t, m.ModifyDN(ldap.NewModifyDNRequest("ou=old,"+BaseDN, "ou=new", true, "ou=other,"+BaseDN)))
	assert.Equal(t, []string{
		BaseDN,
		"ou=other," + BaseDN,
		"ou=new,ou=other," + BaseDN,
		"cn=child,ou=new,ou=other," + BaseDN,
	}, m.DNs())

	moved := m.Entry("ou=new,ou=other," + BaseDN)
	require.NotNil(t, moved)
	assert.Equal(t, []string{"new"}, moved.GetAttributeValues("ou"))

	err := m.ModifyDN(ldap.NewModifyDNRequest("ou=gone,"+BaseDN, "ou=x", true, ""))
	assert.ErrorIs(t, err, ErrNoSuchObject)
}

func TestMockDirectoryHooksAndReset(t *testing.T) {
	m := NewMockDirectory()
	denied := errors.New("insufficient access")
	m.DelFunc = func(*ldap.DelRequest) error { return denied }

	seed(t, m, BaseDN)
	assert.ErrorIs(t, m.Apply(ldap.NewDelRequest(BaseDN, nil)), denied)
	assert.ErrorIs(t, m.Apply(&ldap.SearchRequest{}), ErrUnsupported)
	assert.Equal(t, 2, m.CallCount())

	m.Reset()
	assert.Zero(t, m.Len())
	assert.Zero(t, m.CallCount())
}
