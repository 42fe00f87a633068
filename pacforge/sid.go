package pacforge

import (
	"strconv"
	"strings"

	"github.com/sprout-sec/kerbeus-go/errs"
)

// SID is a parsed Windows security identifier, e.g. "S-1-5-21-a-b-c".
type SID struct {
	Revision            byte
	IdentifierAuthority [6]byte
	SubAuthority        []uint32
}

// ParseSID parses the canonical "S-1-5-21-..." string form.
func ParseSID(s string) (SID, error) {
	parts := strings.Split(s, "-")
	if len(parts) < 3 || !strings.EqualFold(parts[0], "S") {
		return SID{}, errs.NewDataError("parse SID", errs.NewStringError("malformed SID %q", s))
	}
	rev, err := strconv.ParseUint(parts[1], 10, 8)
	if err != nil {
		return SID{}, errs.NewDataError("parse SID revision", err)
	}
	authority, err := strconv.ParseUint(parts[2], 10, 48)
	if err != nil {
		return SID{}, errs.NewDataError("parse SID authority", err)
	}
	var sid SID
	sid.Revision = byte(rev)
	for i := 0; i < 6; i++ {
		sid.IdentifierAuthority[5-i] = byte(authority >> (8 * i))
	}
	for _, p := range parts[3:] {
		v, err := strconv.ParseUint(p, 10, 32)
		if err != nil {
			return SID{}, errs.NewDataError("parse SID sub-authority", err)
		}
		sid.SubAuthority = append(sid.SubAuthority, uint32(v))
	}
	return sid, nil
}

// WithRID returns a copy of sid with an additional trailing sub-authority —
// used to build a user or group SID from a domain SID plus a RID.
func (s SID) WithRID(rid uint32) SID {
	out := s
	out.SubAuthority = append(append([]uint32(nil), s.SubAuthority...), rid)
	return out
}

func (s SID) String() string {
	var authority uint64
	for _, b := range s.IdentifierAuthority {
		authority = authority<<8 | uint64(b)
	}
	parts := []string{"S", strconv.Itoa(int(s.Revision)), strconv.FormatUint(authority, 10)}
	for _, sa := range s.SubAuthority {
		parts = append(parts, strconv.FormatUint(uint64(sa), 10))
	}
	return strings.Join(parts, "-")
}

// ndrPointerToSID writes a pointer to the SID in the fixed part and the RPC
// representation of the SID into the deferred part: the conformant-array
// max_count, revision, sub-authority count, identifier authority, then each
// sub-authority.
func (w *ndrWriter) ndrPointerToSID(s SID) {
	w.ptr()
	w.deferU32(uint32(len(s.SubAuthority))) // max_count for the conformant SubAuthority array
	w.deferred.WriteByte(s.Revision)
	w.deferred.WriteByte(byte(len(s.SubAuthority)))
	w.deferred.Write(s.IdentifierAuthority[:])
	for _, sa := range s.SubAuthority {
		var b [4]byte
		b[0], b[1], b[2], b[3] = byte(sa), byte(sa>>8), byte(sa>>16), byte(sa>>24)
		w.deferBytes(b[:])
	}
	w.deferAlign4()
}
