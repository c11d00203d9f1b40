// Package ifcexport is the IFC boundary stand-in: a minimal spatial
// hierarchy and STEP-physical-file-shaped writer sufficient to exercise
// the export adapter end to end. A real IFC toolkit is an external
// collaborator this package never claims to replace.
package ifcexport

import (
	"github.com/google/uuid"
)

// base64ifc is the 64-character alphabet IFC's compressed GUID encoding
// uses in place of standard base64: digits, upper-case letters, lower-case
// letters, then '_' and '$' (no '+' or '/').
const base64ifc = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz_$"

// NewGUID returns a fresh random IfcGloballyUniqueId: a google/uuid v4,
// compressed from its 128 bits into IFC's 22-character base64-like form.
func NewGUID() string {
	return EncodeGUID(uuid.New())
}

// EncodeGUID compresses a UUID's 16 bytes (128 bits) into IFC's
// 22-character IfcGloballyUniqueId encoding: one 2-bit leading character
// followed by twenty-one 6-bit characters (2 + 21*6 = 128).
func EncodeGUID(id uuid.UUID) string {
	var buf uint32
	var nbits uint
	bi := 0
	pull := func(n uint) byte {
		for nbits < n && bi < len(id) {
			buf = buf<<8 | uint32(id[bi])
			nbits += 8
			bi++
		}
		shift := nbits - n
		v := byte((buf >> shift) & ((1 << n) - 1))
		buf &= (1 << shift) - 1
		nbits -= n
		return v
	}

	out := make([]byte, 22)
	out[0] = base64ifc[pull(2)]
	for i := 1; i < 22; i++ {
		out[i] = base64ifc[pull(6)]
	}
	return string(out)
}
