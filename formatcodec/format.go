package formatcodec

import (
	"path/filepath"
	"strings"

	"github.com/sprout-sec/kerbeus-go/credtypes"
	"github.com/sprout-sec/kerbeus-go/errs"
)

// Format names a binary on-disk credential representation.
type Format int

const (
	KRB Format = iota
	CCACHE
)

func (f Format) String() string {
	if f == CCACHE {
		return "ccache"
	}
	return "krb"
}

// Encode serializes creds in the given format.
func Encode(creds credtypes.TicketCreds, f Format) ([]byte, error) {
	if f == CCACHE {
		return EncodeCCACHE(creds)
	}
	return EncodeKRB(creds)
}

// Decode parses data as f.
func Decode(data []byte, f Format) (credtypes.TicketCreds, error) {
	if f == CCACHE {
		return DecodeCCACHE(data)
	}
	return DecodeKRB(data)
}

// DetectAndDecode auto-detects data's format per the mandated attempt
// order: ccache first, then KrbCred; DataError if both fail.
func DetectAndDecode(data []byte) (credtypes.TicketCreds, Format, error) {
	if creds, err := DecodeCCACHE(data); err == nil {
		return creds, CCACHE, nil
	}
	if creds, err := DecodeKRB(data); err == nil {
		return creds, KRB, nil
	}
	return nil, 0, errs.NewDataError("auto-detect credential format", errs.NewStringError("data is neither valid ccache nor valid KRB-CRED"))
}

// FormatFromExtension infers a Format from path's extension (".krb" or
// ".ccache"), returning ok=false for any other extension.
func FormatFromExtension(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".krb":
		return KRB, true
	case ".ccache":
		return CCACHE, true
	default:
		return 0, false
	}
}

// Opposite returns the other format, for the "convert" flow's fallback when
// neither an explicit format nor the output extension resolves one: emit
// whatever the source format was not.
func (f Format) Opposite() Format {
	if f == CCACHE {
		return KRB
	}
	return CCACHE
}

// ResolveOutputFormat implements §4.8's output-format inference: an
// explicit format wins; otherwise the output path's extension; otherwise,
// if the source format is known, its opposite (the "convert" flow).
func ResolveOutputFormat(explicit *Format, outputPath string, sourceFormat *Format) (Format, error) {
	if explicit != nil {
		return *explicit, nil
	}
	if f, ok := FormatFromExtension(outputPath); ok {
		return f, nil
	}
	if sourceFormat != nil {
		return sourceFormat.Opposite(), nil
	}
	return 0, errs.NewStringError("cannot infer output credential format for %q", outputPath)
}
