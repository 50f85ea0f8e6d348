package deflate

// A Match is the basic unit of LZ77 compression.
type Match struct {
	Unmatched int // the number of unmatched bytes since the previous match
	Length    int // the number of bytes in the matched string; it may be 0 at the end of the input
	Distance  int // how far back in the stream to copy from
}

const (
	minMatchLength = 4
	maxMatchLength = 258
	maxDistance    = 32768

	endBlockMarker   = 256
	lengthCodesStart = 257

	maxLitLenCodes   = 286
	maxDistanceCodes = 30
	codegenCodeCount = 19
)

// The smallest match length represented by length code 257+i.
var lengthBase = [29]uint16{
	3, 4, 5, 6, 7, 8, 9, 10, 11, 13,
	15, 17, 19, 23, 27, 31, 35, 43, 51, 59,
	67, 83, 99, 115, 131, 163, 195, 227, 258,
}

var lengthExtraBits = [29]uint8{
	0, 0, 0, 0, 0, 0, 0, 0, 1, 1,
	1, 1, 2, 2, 2, 2, 3, 3, 3, 3,
	4, 4, 4, 4, 5, 5, 5, 5, 0,
}

// The smallest distance represented by distance code i.
var distanceBase = [30]uint16{
	1, 2, 3, 4, 5, 7, 9, 13, 17, 25,
	33, 49, 65, 97, 129, 193, 257, 385, 513, 769,
	1025, 1537, 2049, 3073, 4097, 6145, 8193, 12289, 16385, 24577,
}

var distanceExtraBits = [30]uint8{
	0, 0, 0, 0, 1, 1, 2, 2, 3, 3,
	4, 4, 5, 5, 6, 6, 7, 7, 8, 8,
	9, 9, 10, 10, 11, 11, 12, 12, 13, 13,
}

// The odd order in which the code length code lengths are written.
var codegenOrder = [codegenCodeCount]uint8{16, 17, 18, 0, 8, 7, 9, 6, 10, 5, 11, 4, 12, 3, 13, 2, 14, 1, 15}

// lengthCode[l-3] is the length code for a match of l bytes, minus 257.
var lengthCode [maxMatchLength - 2]uint8

func init() {
	for i := 0; i < len(lengthBase)-1; i++ {
		for l := int(lengthBase[i]); l < int(lengthBase[i+1]); l++ {
			lengthCode[l-3] = uint8(i)
		}
	}
	lengthCode[maxMatchLength-3] = 28
}

// distanceCode returns the distance code for d, which must be in
// [1, maxDistance].
func distanceCode(d int) int {
	code := 0
	for code+1 < len(distanceBase) && int(distanceBase[code+1]) <= d {
		code++
	}
	return code
}
