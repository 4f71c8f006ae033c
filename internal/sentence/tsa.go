package sentence

import "fmt"

// TSAFormatterCode is the formatter code of the transmit slot assignment
// sentence.
const TSAFormatterCode = "TSA"

// TSASentence is the IEC 62320-1 transmit slot assignment sentence. It
// instructs a base station transceiver which slot/time to use for the VDM
// payload sentences carrying the same VDM link number.
//
// Field contents are rendered verbatim; the sentence layer performs no
// validation (UniqueID length, priority range) on behalf of the caller.
type TSASentence struct {
	VDMLink   int    // sequential ID pairing this sentence with its VDM group, 0-9
	Channel   string // "A" or "B"
	TalkerID  string // normally "AI"
	UniqueID  string // base station unique ID, max 15 characters, may be empty
	UTCHHMM   string // UTC hour/minute of the requested transmission, empty = unspecified
	StartSlot string // start slot of the requested transmission, empty = any
	Priority  int    // 0-2, lower is higher priority
}

// NewTSASentence creates a TSA sentence with the default talker ID and
// lowest transmission priority.
func NewTSASentence(vdmLink int, channel string) *TSASentence {
	return &TSASentence{
		VDMLink:  vdmLink,
		Channel:  channel,
		TalkerID: DefaultTalkerID,
		Priority: 2,
	}
}

// String renders the sentence as per IEC 62320-1:
//
//	$AITSA,<unique_id>,<vdm_link>,<channel>,<utc_hhmm>,<start_slot>,<priority>*hh\r\n
func (s *TSASentence) String() string {
	body := fmt.Sprintf("%s%s,%s,%d,%s,%s,%s,%d",
		s.TalkerID,
		TSAFormatterCode,
		s.UniqueID,
		s.VDMLink,
		s.Channel,
		s.UTCHHMM,
		s.StartSlot,
		s.Priority)

	return fmt.Sprintf("$%s*%02X\r\n", body, Checksum(body))
}
