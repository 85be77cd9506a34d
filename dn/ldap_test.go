package dn

import (
	"testing"

	"github.com/go-ldap/ldap/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDNToLDAP(t *testing.T) {
	d := MustParse(`cn=Smith\, John+uid=js,ou=people,dc=example,dc=com`)

	out, err := d.LDAP()
	require.NoError(t, err)
	require.Len(t, out.RDNs, 4)

	leaf := out.RDNs[0]
	require.Len(t, leaf.Attributes, 2)
	assert.Equal(t, "cn", leaf.Attributes[0].Type)
	assert.Equal(t, "Smith, John", leaf.Attributes[0].Value)
	assert.Equal(t, "uid", leaf.Attributes[1].Type)
	assert.Equal(t, "com", out.RDNs[3].Attributes[0].Value)

	expected, err := ldap.ParseDN(`cn=Smith\, John+uid=js,ou=people,dc=example,dc=com`)
	require.NoError(t, err)
	assert.True(t, expected.Equal(out))
}

func TestDNToLDAPEmpty(t *testing.T) {
	out, err := DN{}.LDAP()
	require.NoError(t, err)
	assert.Empty(t, out.RDNs)
}

func TestFromLDAP(t *testing.T) {
	parsed, err := ldap.ParseDN(`cn=a\+b,ou=people,dc=example,dc=com`)
	require.NoError(t, err)

	d, err := FromLDAP(parsed)
	require.NoError(t, err)
	assert.Equal(t, `cn=a\+b,ou=people,dc=example,dc=com`, d.String())
	assert.Equal(t, "a+b", d.RDNValue(3))

	empty, err := FromLDAP(nil)
	require.NoError(t, err)
	assert.True(t, empty.IsEmpty())
}

func TestLDAPRoundTrip(t *testing.T) {
	names := []string{
		"cn=fred,ou=legal,o=pegacat,c=au",
		`cn=fred+sn=bloggs,ou=\+research,o=x\=y\+\"z\",c=af`,
		`cn=trailing\ ,o=x`,
	}

	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			d := MustParse(name)
			out, err := d.LDAP()
			require.NoError(t, err)

			back, err := FromLDAP(out)
			require.NoError(t, err)
			assert.True(t, d.Equal(back), "got %s", back)
		})
	}
}

func TestParseWithLDAP(t *testing.T) {
	d, err := ParseWithLDAP(`cn=\41bc,dc=example,dc=com`)
	require.NoError(t, err)
	assert.Equal(t, "Abc", d.RDNValue(2))
	assert.Equal(t, "cn=Abc,dc=example,dc=com", d.String())

	_, err = ParseWithLDAP("not a dn")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidName)

	var nameErr *NameError
	require.ErrorAs(t, err, &nameErr)
	assert.Equal(t, "parse", nameErr.Op)
}
