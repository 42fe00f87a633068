// Package krbuser holds the two smallest data shapes in the system: the
// Kerberos principal (KrbUser) and the tagged Key variant that a Cipher is
// derived from.
package krbuser

import "strings"

// KrbUser is a (name, realm) principal pair. Names are preserved verbatim;
// realm comparisons throughout kerbeus-go are case-insensitive. Immutable
// once constructed.
type KrbUser struct {
	name  string
	realm string
}

// NewKrbUser builds a principal. The realm is stored as given; use
// RealmEqualFold for comparisons.
func NewKrbUser(name, realm string) KrbUser {
	return KrbUser{name: name, realm: realm}
}

func (u KrbUser) Name() string  { return u.name }
func (u KrbUser) Realm() string { return u.realm }

// RealmEqualFold reports whether u's realm matches realm, case-insensitively.
func (u KrbUser) RealmEqualFold(realm string) bool {
	return strings.EqualFold(u.realm, realm)
}

func (u KrbUser) String() string {
	return u.name + "@" + u.realm
}
