package vault

import (
	"os"

	"github.com/jcmturner/gokrb5/v8/types"

	"github.com/sprout-sec/kerbeus-go/credtypes"
	"github.com/sprout-sec/kerbeus-go/errs"
	"github.com/sprout-sec/kerbeus-go/formatcodec"
)

// FileVault persists to path. It opens the backing file only during
// Save/SaveAs/Dump and never holds a descriptor open between calls. Format
// is inferred from the extension (.krb or .ccache) the first time it's
// needed, and remembered afterward.
type FileVault struct {
	path   string
	format *formatcodec.Format
}

// NewFileVault builds a vault backed by path. If path's extension names a
// known format, that format is assumed; otherwise the format is discovered
// on first Dump via auto-detection.
func NewFileVault(path string) *FileVault {
	v := &FileVault{path: path}
	if f, ok := formatcodec.FormatFromExtension(path); ok {
		v.format = &f
	}
	return v
}

func (v *FileVault) ID() string { return v.path }

func (v *FileVault) SupportedFormat() (formatcodec.Format, bool) {
	if v.format == nil {
		return 0, false
	}
	return *v.format, true
}

func (v *FileVault) Add(cred credtypes.TicketCred) error {
	var creds credtypes.TicketCreds
	if _, err := os.Stat(v.path); err == nil {
		creds, err = v.Dump()
		if err != nil {
			return err
		}
	} else if !os.IsNotExist(err) {
		return errs.NewDataError("stat vault file", err)
	}
	creds = append(creds, cred)
	return v.Save(creds)
}

func (v *FileVault) Dump() (credtypes.TicketCreds, error) {
	data, err := os.ReadFile(v.path)
	if err != nil {
		return nil, errs.NewDataError("read vault file", err)
	}

	if v.format != nil {
		return formatcodec.Decode(data, *v.format)
	}

	creds, format, err := formatcodec.DetectAndDecode(data)
	if err != nil {
		return nil, err
	}
	v.format = &format
	return creds, nil
}

func (v *FileVault) Save(creds credtypes.TicketCreds) error {
	format := formatcodec.KRB
	if v.format != nil {
		format = *v.format
	}
	return v.SaveAs(creds, format)
}

func (v *FileVault) SaveAs(creds credtypes.TicketCreds, format formatcodec.Format) error {
	encoded, err := formatcodec.Encode(creds, format)
	if err != nil {
		return err
	}
	// Round-trip through parse to normalize field encodings before
	// committing to disk; a parse failure here must be fatal, not silently
	// written through.
	if _, err := formatcodec.Decode(encoded, format); err != nil {
		return err
	}
	if err := os.WriteFile(v.path, encoded, 0o600); err != nil {
		return errs.NewDataError("write vault file", err)
	}
	v.format = &format
	return nil
}

func (v *FileVault) ChangeFormat(format formatcodec.Format) error {
	return changeFormat(v, format)
}

func (v *FileVault) GetUserTGTs(user types.PrincipalName, realm string) (credtypes.TicketCreds, error) {
	creds, err := v.Dump()
	if err != nil {
		return nil, err
	}
	return userTGTs(creds, user, realm), nil
}

func (v *FileVault) S4U2SelfTGSs(user, impersonateUser types.PrincipalName, realm, userService string) (credtypes.TicketCreds, error) {
	creds, err := v.Dump()
	if err != nil {
		return nil, err
	}
	return s4u2SelfTGSs(creds, user, impersonateUser, realm, userService), nil
}
