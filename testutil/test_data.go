package testutil

import "github.com/go-ldap/ldap/v3"

// BaseDN is the suffix of every fixture entry.
const BaseDN = "dc=example,dc=com"

// DirectoryLDIF holds the standard test tree as content records, children
// listed before their parents so that sorting has work to do.
const DirectoryLDIF = `version: 1

# users
dn: cn=admin,ou=users,dc=example,dc=com
objectClass: top
objectClass: person
objectclass: Person
cn: admin
sn: Administrator
mail: admin@example.com
description: Administrator

dn: cn=user1,ou=users,dc=example,dc=com
objectClass: top
objectClass: person
cn: user1
sn: User
mail: user1@example.com
description: Test User 1

dn: cn=disabled,ou=users,dc=example,dc=com
objectClass: top
objectClass: person
cn: disabled
sn: Disabled
description:: IERpc2FibGVkIFVzZXI=

# groups
dn: cn=admins,ou=groups,dc=example,dc=com
objectClass: top
objectClass: groupOfNames
cn: admins
member: cn=admin,ou=users,dc=example,dc=com

dn: cn=users,ou=groups,dc=example,dc=com
objectClass: top
objectClass: groupOfNames
cn: users
member: cn=user1,ou=users,dc=example,dc=com

dn: ou=users,dc=example,dc=com
objectClass: organizationalUnit
ou: users

dn: ou=groups,dc=example,dc=com
objectClass: organizationalUnit
ou: groups

dn: dc=example,dc=com
objectClass: top
objectClass: domain
dc: example
`

// DirectoryDNs lists the names in DirectoryLDIF sorted root first.
var DirectoryDNs = []string{
	"dc=example,dc=com",
	"ou=groups,dc=example,dc=com",
	"cn=admins,ou=groups,dc=example,dc=com",
	"cn=users,ou=groups,dc=example,dc=com",
	"ou=users,dc=example,dc=com",
	"cn=admin,ou=users,dc=example,dc=com",
	"cn=disabled,ou=users,dc=example,dc=com",
	"cn=user1,ou=users,dc=example,dc=com",
}

// ChangesLDIF holds one change record of every kind, applicable on top of
// DirectoryLDIF.
const ChangesLDIF = `version: 1

dn: cn=user2,ou=users,dc=example,dc=com
changetype: add
objectClass: top
objectClass: person
cn: user2
sn: User
uidNumber: 1002

dn: cn=user1,ou=users,dc=example,dc=com
changetype: modify
replace: mail
mail: user1@example.org
-
add: telephoneNumber
telephoneNumber: +1 555 0100
telephoneNumber: +1 555 0101
-
delete: description
-

dn: cn=user2,ou=users,dc=example,dc=com
changetype: modify
increment: uidNumber
uidNumber: 8
-

dn: cn=disabled,ou=users,dc=example,dc=com
changetype: delete

dn: ou=groups,dc=example,dc=com
changetype: moddn
newrdn: ou=teams
deleteoldrdn: 1
`

// ModifyLDIF is a modify record whose blocks are not in canonical order.
const ModifyLDIF = `dn: cn=Paula Jensen,ou=Product Development,dc=airius,dc=com
changetype: modify
add: postaladdress
postaladdress: 123 Anystreet $ Sunnyvale, CA $ 94086
-
delete: description
-
replace: telephonenumber
telephonenumber: +1 408 555 1234
telephonenumber: +1 408 555 5678
-
delete: facsimiletelephonenumber
facsimiletelephonenumber: +1 408 555 9876
-
`

// ModifyLDIFCanonical is ModifyLDIF as the Writer renders it.
const ModifyLDIFCanonical = `dn: cn=Paula Jensen,ou=Product Development,dc=airius,dc=com
changetype: modify
replace: telephonenumber
telephonenumber: +1 408 555 1234
telephonenumber: +1 408 555 5678
-
add: postaladdress
postaladdress: 123 Anystreet $ Sunnyvale, CA $ 94086
-
delete: description
-
delete: facsimiletelephonenumber
facsimiletelephonenumber: +1 408 555 9876
-
`

// Entries returns the users of DirectoryLDIF as search result entries.
func Entries() []*ldap.Entry {
	return []*ldap.Entry{
		ldap.NewEntry("cn=admin,ou=users,dc=example,dc=com", map[string][]string{
			"objectClass": {"top", "person"},
			"cn":          {"admin"},
			"mail":        {"admin@example.com"},
		}),
		ldap.NewEntry("cn=user1,ou=users,dc=example,dc=com", map[string][]string{
			"objectClass": {"top", "person"},
			"cn":          {"user1"},
			"mail":        {"user1@example.com"},
		}),
	}
}
