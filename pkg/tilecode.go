package pedestal

import (
	"fmt"
	"strconv"
)

// Flush side prefixes of a tile code. All transition segments are back
// flush, the closed and open segments are front flush.
const (
	frontFlush = "15"
	backFlush  = "11"
)

// TileCode is the decoded form of the six digit detector element code
// used in the rate tables: two digits of flush side, two digits of
// segment group, one ring digit and one position digit.
type TileCode struct {
	Segment int
	Ring    int
	Pos     byte // 'L', 'C', 'R' or 0 when the ring has a single element
}

// DecodeTileCode decodes a six digit tile code. The detector has 28
// azimuthal segments: the fourteen transition segments are back flush
// and numbered 1-14 in the code, so segment = 2*NN; the seven closed
// and seven open segments are front flush and take the odd and even
// numbers respectively, so segment = 2*NN - 1. The fifth digit is the
// ring (1-6) and the sixth picks the element within ring 5, the only
// ring with more than one element per segment.
func DecodeTileCode(code string) (TileCode, error) {
	if len(code) != 6 {
		return TileCode{}, &ErrBadTileCode{Code: code, Reason: "expected six digits"}
	}
	for _, c := range code {
		if c < '0' || c > '9' {
			return TileCode{}, &ErrBadTileCode{Code: code, Reason: "expected six digits"}
		}
	}

	num, err := strconv.Atoi(code[2:4])
	if err != nil {
		return TileCode{}, &ErrBadTileCode{Code: code, Reason: err.Error()}
	}
	var segment int
	switch code[:2] {
	case backFlush: // back flush <==> transition segment
		segment = 2 * num
	case frontFlush: // closed or open segment
		segment = 2*num - 1
	default:
		return TileCode{}, &ErrBadTileCode{Code: code, Reason: "flush side must be 15 or 11"}
	}

	var pos byte
	switch code[5] {
	case '1':
		pos = 'L'
	case '2':
		pos = 'C'
	case '3':
		pos = 'R'
	}
	return TileCode{Segment: segment, Ring: int(code[4] - '0'), Pos: pos}, nil
}

// DetectorName renders the map file row name for the element,
// e.g. TQ01_R1 or TQ16_R5L.
func (t TileCode) DetectorName() string {
	name := fmt.Sprintf("TQ%02d_R%d", t.Segment, t.Ring)
	if t.Pos != 0 {
		name += string(t.Pos)
	}
	return name
}
