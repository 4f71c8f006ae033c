// Package sentence implements IEC 61162-1 / IEC 62320-1 text sentences for
// AIS base station transmission: the TSA slot-assignment sentence and the
// VDM payload sentence, plus the checksum and 6-bit payload armoring they
// depend on.
package sentence

// AIS radio channel selectors
const (
	ChannelA = "A" // AIS 1
	ChannelB = "B" // AIS 2
)

// DefaultTalkerID is the talker ID used by AIS equipment.
const DefaultTalkerID = "AI"

// Sentence is a wire-encodable IEC 61162 sentence.
type Sentence interface {
	// String renders the complete sentence including the leading
	// delimiter, checksum field and CRLF terminator.
	String() string
}

// Checksum calculates the IEC 61162 checksum of s: the XOR of the byte
// value of every character. Callers pass the span of the sentence between
// the leading '$' or '!' and the '*' delimiter.
func Checksum(s string) byte {
	var sum byte
	for i := 0; i < len(s); i++ {
		sum ^= s[i]
	}
	return sum
}
