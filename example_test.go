package ldif_test

import (
	"fmt"
	"os"
	"strings"

	ldif "github.com/netresearch/simple-ldif-go"
	"github.com/netresearch/simple-ldif-go/dn"
)

func ExampleReader() {
	input := `version: 1

dn: cn=Barbara Jensen,ou=Product Development,dc=airius,dc=com
objectclass: top
objectclass: person
cn: Barbara Jensen
description:: QmFicyBpcyBhIGJpZyBzYWlsaW5nIGZhbg==
`
	r := ldif.NewReader(strings.NewReader(input))
	rec, err := r.Read()
	if err != nil {
		fmt.Println(err)
		return
	}
	desc, _ := rec.Attributes.First("description")
	fmt.Println(rec.DN.RDNValue(0))
	fmt.Println(rec.ObjectClasses())
	fmt.Println(desc)
	// Output:
	// com
	// [top person]
	// Babs is a big sailing fan
}

func ExampleWriter() {
	rec := ldif.NewRecord(dn.MustParse("cn=Fiona Jensen,ou=Marketing,dc=airius,dc=com"), ldif.ChangeModify)
	rec.AddMod(ldif.ModDelete, "description")
	rec.AddMod(ldif.ModReplace, "telephonenumber", ldif.TextValue("+1 408 555 1212"))

	w := ldif.NewWriter(os.Stdout)
	if err := w.Write(rec); err != nil {
		fmt.Println(err)
	}
	// Output:
	// dn: cn=Fiona Jensen,ou=Marketing,dc=airius,dc=com
	// changetype: modify
	// replace: telephonenumber
	// telephonenumber: +1 408 555 1212
	// -
	// delete: description
	// -
}

func ExampleWithParams() {
	input := "dn: uid={{uid}},{{base}}\nuid: {{uid}}\n"
	r := ldif.NewReader(strings.NewReader(input),
		ldif.WithParams(map[string]string{"uid": "jdoe", "base": "ou=people,dc=example,dc=com"}))

	rec, err := r.Read()
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(rec.DN)
	// Output:
	// uid=jdoe,ou=people,dc=example,dc=com
}
