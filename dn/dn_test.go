package dn

import (
	"encoding/json"
	"fmt"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRoundTrip(t *testing.T) {
	names := []string{
		"c=au",
		"o=pegacat,c=au",
		"cn=fred,ou=legal,o=pegacat,c=au",
		`cn=fred+sn=bloggs,ou=\+research,o=x\=y\+\"z\",c=af`,
		`cn=Smith\, John,ou=people,dc=example,dc=com`,
		`cn=trailing\ ,o=x`,
		`cn="quoted, value",o=x`,
		`cn=caf\C3\A9,o=x`,
	}

	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			d, err := Parse(name)
			require.NoError(t, err)
			assert.Equal(t, name, d.String())

			again, err := Parse(d.String())
			require.NoError(t, err)
			assert.True(t, d.Equal(again))
		})
	}
}

func TestParseEmpty(t *testing.T) {
	for _, input := range []string{"", "   ", World} {
		d, err := Parse(input)
		require.NoError(t, err, "input %q", input)
		assert.True(t, d.IsEmpty())
		assert.Equal(t, 0, d.Size())
		assert.Equal(t, "", d.String())
	}
}

func TestParseSpacesAfterCommas(t *testing.T) {
	d, err := Parse("cn=fred, ou=legal,  o=pegacat , c=au")
	require.NoError(t, err)
	assert.Equal(t, "cn=fred,ou=legal,o=pegacat,c=au", d.String())
	assert.Equal(t, 4, d.Size())
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
		err   error
	}{
		{"empty rdn", "cn=a,,o=b", ErrEmptyAttribute},
		{"trailing comma", "cn=a,", ErrEmptyAttribute},
		{"missing value", "cn=,o=b", ErrEmptyValue},
		{"missing equals", "cn,o=b", ErrEmptyValue},
		{"missing attribute", "=a,o=b", ErrEmptyAttribute},
		{"bad escape", `cn=a\q,o=b`, ErrInvalidEscape},
		{"unbalanced quote", `cn="a,o=b`, ErrUnbalancedQuote},
		{"empty multi-valued element", "cn=a+,o=b", ErrEmptyValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.err)
			assert.ErrorIs(t, err, ErrInvalidName)

			var nameErr *NameError
			require.ErrorAs(t, err, &nameErr)
			assert.NotEmpty(t, nameErr.Error())
		})
	}
}

func TestMustParsePanics(t *testing.T) {
	assert.Panics(t, func() { MustParse("cn=") })
	assert.NotPanics(t, func() { MustParse("cn=a") })
}

func TestDNAccessors(t *testing.T) {
	d := MustParse(`cn=fred+sn=bloggs,ou=\+research,o=x\=y\+\"z\",c=af`)

	assert.Equal(t, 4, d.Size())
	assert.Equal(t, "c", d.RDNAttribute(0))
	assert.Equal(t, "o", d.RDNAttribute(1))
	assert.Equal(t, "ou", d.RDNAttribute(2))
	assert.Equal(t, "cn", d.RDNAttribute(3))
	assert.Equal(t, "", d.RDNAttribute(4))
	assert.Equal(t, "", d.RDNAttribute(-1))

	assert.Equal(t, "af", d.RDNValue(0))
	assert.Equal(t, `x=y+"z"`, d.RDNValue(1))
	assert.Equal(t, "+research", d.RDNValue(2))
	assert.Equal(t, "", d.RDNValue(9))

	assert.Equal(t, `ou=\+research`, d.Get(2))
	assert.Equal(t, "cn=fred+sn=bloggs", d.Leaf().String())
	assert.True(t, d.Leaf().IsMultiValued())
	assert.Equal(t, `c=af,o=x\=y\+\"z\",ou=\+research,cn=fred+sn=bloggs`, d.ReversedString())

	rdns := d.RDNs()
	require.Len(t, rdns, 4)
	rdns[0] = RDN{}
	assert.Equal(t, "c=af", d.RDN(0).String(), "RDNs must return a copy")
	assert.True(t, d.RDN(7).IsEmpty())
}

func TestDNParent(t *testing.T) {
	d := MustParse("cn=new level,cn=fred,ou=legal,o=pegacat,c=au")

	parent := d.Parent()
	assert.Equal(t, "cn=fred,ou=legal,o=pegacat,c=au", parent.String())
	assert.Equal(t, "cn=new level,cn=fred,ou=legal,o=pegacat,c=au", d.String())

	assert.True(t, MustParse("c=au").Parent().IsEmpty())
	assert.True(t, DN{}.Parent().IsEmpty())
}

func TestDNPrefix(t *testing.T) {
	d := MustParse("cn=fred,ou=legal,o=pegacat,c=au")

	assert.Equal(t, "o=pegacat,c=au", d.Prefix(2).String())
	assert.Equal(t, d.String(), d.Prefix(10).String())
	assert.True(t, d.Prefix(0).IsEmpty())
	assert.True(t, d.Prefix(-1).IsEmpty())
}

func TestDNCompareSortsParentsFirst(t *testing.T) {
	given := []string{
		"c=us",
		"cn=fred,ou=legal,o=pegacat,c=au",
		"c=au",
		"o=pegacat,c=au",
	}
	dns := make([]DN, len(given))
	for i, s := range given {
		dns[i] = MustParse(s)
	}

	slices.SortFunc(dns, DN.Compare)

	got := make([]string, len(dns))
	for i, d := range dns {
		got[i] = d.String()
	}
	assert.Equal(t, []string{
		"c=au",
		"o=pegacat,c=au",
		"cn=fred,ou=legal,o=pegacat,c=au",
		"c=us",
	}, got)
}

func TestDNCompareIgnoresCase(t *testing.T) {
	a := MustParse("CN=Fred,O=Pegacat,C=AU")
	b := MustParse("cn=fred,o=pegacat,c=au")

	assert.Equal(t, 0, a.Compare(b))
	assert.True(t, a.Equal(b))
	assert.Less(t, MustParse("c=au").Compare(b), 0)
	assert.Greater(t, b.Compare(MustParse("c=au")), 0)
}

func TestDNRelations(t *testing.T) {
	base := MustParse("o=pegacat,c=au")
	child := MustParse("cn=fred,ou=legal,o=pegacat,c=au")
	other := MustParse("o=acme,c=au")

	assert.True(t, child.StartsWith(base))
	assert.True(t, child.StartsWith(child))
	assert.True(t, child.StartsWith(DN{}))
	assert.False(t, child.StartsWith(other))
	assert.False(t, base.StartsWith(child))
	assert.True(t, child.StartsWith(MustParse("O=PEGACAT,C=AU")))

	assert.True(t, child.IsDescendantOf(base))
	assert.False(t, child.IsDescendantOf(child))
	assert.False(t, child.IsDescendantOf(other))

	assert.True(t, MustParse("cn=a,o=x").SharesParent(MustParse("cn=b,o=x")))
	assert.False(t, MustParse("cn=a,o=x").SharesParent(MustParse("cn=a,o=y")))
	assert.False(t, MustParse("cn=a,o=x").SharesParent(MustParse("o=x")))
	assert.True(t, DN{}.SharesParent(DN{}))
}

func TestDNAddRDN(t *testing.T) {
	d := MustParse("o=pegacat,c=au")

	child, err := NewRDN("cn", "Smith, John")
	require.NoError(t, err)
	top, err := ParseRDN("dc=world")
	require.NoError(t, err)

	assert.Equal(t, `cn=Smith\, John,o=pegacat,c=au`, d.AddChildRDN(child).String())
	assert.Equal(t, "o=pegacat,c=au,dc=world", d.AddParentRDN(top).String())
	assert.Equal(t, "o=pegacat,c=au", d.String(), "original must be unchanged")

	assert.Equal(t, "dc=world", DN{}.AddChildRDN(top).String())
	assert.Equal(t, "c=au,o=pegacat", New(d.RDN(1), d.RDN(0)).String())
}

func TestDNReparent(t *testing.T) {
	d := MustParse("cn=fred,ou=legal,o=pegacat,c=au")

	moved, err := d.Reparent(MustParse("o=pegacat,c=au"), MustParse("o=acme,c=us"))
	require.NoError(t, err)
	assert.Equal(t, "cn=fred,ou=legal,o=acme,c=us", moved.String())

	moved, err = d.Reparent(MustParse("o=pegacat,c=au"), DN{})
	require.NoError(t, err)
	assert.Equal(t, "cn=fred,ou=legal", moved.String())

	_, err = d.Reparent(MustParse("o=acme,c=us"), DN{})
	assert.ErrorIs(t, err, ErrNotSubordinate)
}

func TestDNJSON(t *testing.T) {
	type payload struct {
		Base DN `json:"base"`
	}

	data, err := json.Marshal(payload{Base: MustParse(`cn=Smith\, John,o=x`)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"base":"cn=Smith\\, John,o=x"}`, string(data))

	var got payload
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, `cn=Smith\, John,o=x`, got.Base.String())

	assert.Error(t, json.Unmarshal([]byte(`{"base":"cn="}`), &got))
}

func TestDNImplementsName(t *testing.T) {
	var n Name = MustParse("cn=fred,c=au")
	assert.Equal(t, 2, n.Size())
	assert.Equal(t, "c=au", n.Get(0))
	assert.Equal(t, "cn=fred,c=au", n.String())
	assert.Equal(t, 0, n.Compare(MustParse("CN=FRED,C=AU")))
}

func ExampleParse() {
	name, err := Parse(`cn=fred+sn=bloggs,ou=\+research,c=au`)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(name.RDNAttribute(0))
	fmt.Println(name.RDNValue(1))
	fmt.Println(name.Leaf().Size())
	fmt.Println(name.Parent())
	// Output:
	// c
	// +research
	// 2
	// ou=\+research,c=au
}

func ExampleDN_Reparent() {
	entry := MustParse("uid=jdoe,ou=people,dc=example,dc=com")
	moved, err := entry.Reparent(MustParse("dc=example,dc=com"), MustParse("dc=example,dc=org"))
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(moved)
	// Output: uid=jdoe,ou=people,dc=example,dc=org
}

func BenchmarkParse(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = Parse(`cn=fred+sn=bloggs,ou=\+research,o=x\=y\+\"z\",c=af`)
	}
}
