// Package messageforge builds Kerberos message skeletons — AS-REQ, TGS-REQ,
// Authenticator, AP-REQ — and the PA-DATA entries attached to them. It is
// grounded on github.com/jcmturner/gokrb5/v8/messages and
// github.com/jcmturner/gokrb5/v8/types, the same ASN.1 shapes our teacher's
// krb5 package builds AP-REQs from (krb5/krb5.go MakeAPRequest).
package messageforge

import (
	"strings"

	"github.com/jcmturner/gokrb5/v8/iana/nametype"
	"github.com/jcmturner/gokrb5/v8/types"
)

// NTPrincipal builds an NT-PRINCIPAL (1) name: a single label.
func NTPrincipal(name string) types.PrincipalName {
	return types.PrincipalName{NameType: nametype.KRB_NT_PRINCIPAL, NameString: []string{name}}
}

// NTSrvInst builds an NT-SRV-INST (2) name, splitting s on "/" into labels
// (e.g. "cifs/host.domain.com" -> ["cifs", "host.domain.com"]).
func NTSrvInst(s string) types.PrincipalName {
	return types.PrincipalName{NameType: nametype.KRB_NT_SRV_INST, NameString: strings.Split(s, "/")}
}

// NTEnterprise builds an NT-ENTERPRISE (10) name: a single label of the form
// "user.name@user.realm".
func NTEnterprise(user, realm string) types.PrincipalName {
	return types.PrincipalName{NameType: nametype.KRB_NT_ENTERPRISE, NameString: []string{user + "@" + realm}}
}

// S4UKind tags which constrained-delegation extension, if any, parameterises
// a TGS-REQ.
type S4UKind int

const (
	// S4UNone is a regular TGS-REQ: no S4U2Self/S4U2Proxy PA-DATA.
	S4UNone S4UKind = iota
	// S4U2Self requests a ticket to the requester's own service on behalf
	// of TargetUser.
	S4U2Self
	// S4U2Proxy redeems an S4U2Self ticket for a ticket to ServiceName via
	// constrained delegation.
	S4U2Proxy
)

// S4USelector parameterises TGS-REQ construction per spec §4.2: tagged
// {None, S4u2self(target_user, optional_user_service),
// S4u2proxy(additional_ticket, service_name)}.
type S4USelector struct {
	Kind S4UKind

	// S4U2Self fields.
	TargetUser      types.PrincipalName
	TargetUserRealm string
	UserService     string // optional; empty means use nt_enterprise(requester)

	// S4U2Proxy fields.
	AdditionalTicket types.Ticket
	ServiceName      types.PrincipalName
}
