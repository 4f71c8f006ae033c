package sentence

import "fmt"

// MaxVDMPayloadChars is the maximum number of armored payload characters
// carried by a single VDM sentence. 60 characters keeps the rendered
// sentence at the 82 character IEC 61162-1 line limit.
const MaxVDMPayloadChars = 60

// VDMSentence is the IEC 61162-1 VDM sentence carrying one fragment of a
// 6-bit armored AIS message payload.
type VDMSentence struct {
	TalkerID string
	Total    int    // total number of sentences for this message, 1-9
	Index    int    // sentence number within the message, 1-based
	SeqID    int    // sequential message ID correlating the fragments, 0-9
	Channel  string // "A" or "B"
	Payload  string // 6-bit armored payload characters
	FillBits int    // 0-5, trailing pad bits in the last payload character
}

// String renders the sentence as per IEC 61162-1:
//
//	!AIVDM,<total>,<index>,<seq_id>,<channel>,<payload>,<fill>*hh\r\n
func (s *VDMSentence) String() string {
	body := fmt.Sprintf("%sVDM,%d,%d,%d,%s,%s,%d",
		s.TalkerID,
		s.Total,
		s.Index,
		s.SeqID,
		s.Channel,
		s.Payload,
		s.FillBits)

	return fmt.Sprintf("!%s*%02X\r\n", body, Checksum(body))
}

// ArmorBits converts the first nbits bits of data (MSB first) into the
// 6-bit ASCII armored payload representation of ITU-R M.1371 / IEC 61162-1.
// The bitstream is padded with fill zero bits to a multiple of six; each
// 6-bit group value v maps to character v+48, plus a further 8 when the
// result exceeds 87. Returns the payload characters and the number of fill
// bits added (0-5).
func ArmorBits(data []byte, nbits int) (string, int) {
	fill := (6 - nbits%6) % 6
	payload := make([]byte, 0, (nbits+fill)/6)

	var acc, n uint
	emit := func() {
		v := byte(acc >> (n - 6))
		n -= 6
		acc &= (uint(1) << n) - 1
		c := v + 48
		if c > 87 {
			c += 8
		}
		payload = append(payload, c)
	}

	for i := 0; i < nbits; i++ {
		bit := (data[i>>3] >> (7 - uint(i&7))) & 1
		acc = acc<<1 | uint(bit)
		n++
		if n == 6 {
			emit()
		}
	}
	if fill > 0 {
		acc <<= uint(fill)
		n += uint(fill)
		emit()
	}

	return string(payload), fill
}

// FragmentAISMessage encodes an AIS message bitstream into one or more
// pre-formatted VDM sentence strings. The first nbits bits of data are
// armored as one payload and split across sentences of at most
// MaxVDMPayloadChars characters each; fill bits are reported on the last
// fragment only. seqID tags every fragment so a receiver can reassemble
// the message.
func FragmentAISMessage(data []byte, nbits int, seqID int, channel, talkerID string) ([]string, error) {
	if nbits <= 0 {
		return nil, fmt.Errorf("empty AIS message bitstream")
	}
	if nbits > len(data)*8 {
		return nil, fmt.Errorf("bitstream length %d exceeds available data (%d bits)", nbits, len(data)*8)
	}

	payload, fill := ArmorBits(data, nbits)

	total := (len(payload) + MaxVDMPayloadChars - 1) / MaxVDMPayloadChars
	sentences := make([]string, 0, total)

	for i := 0; i < total; i++ {
		start := i * MaxVDMPayloadChars
		end := start + MaxVDMPayloadChars
		if end > len(payload) {
			end = len(payload)
		}

		vdm := &VDMSentence{
			TalkerID: talkerID,
			Total:    total,
			Index:    i + 1,
			SeqID:    seqID,
			Channel:  channel,
			Payload:  payload[start:end],
		}
		// Fill bits belong to the fragment carrying the padded group.
		if i == total-1 {
			vdm.FillBits = fill
		}

		sentences = append(sentences, vdm.String())
	}

	return sentences, nil
}
