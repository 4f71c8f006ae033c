package generator

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

// stubFragmenter returns a fixed number of fake sentences and records the
// sequential ID it was invoked with.
func stubFragmenter(count int, gotSeqID *int) FragmentFunc {
	return func(data []byte, nbits, seqID int, channel, talkerID string) ([]string, error) {
		if gotSeqID != nil {
			*gotSeqID = seqID
		}
		sentences := make([]string, count)
		for i := range sentences {
			sentences[i] = fmt.Sprintf("!%sVDM,%d,%d,%d,%s,@@@@,0*00\r\n", talkerID, count, i+1, seqID, channel)
		}
		return sentences, nil
	}
}

func TestGenerateSingleFragmentKeepsSequentialID(t *testing.T) {
	g := NewWithFragmenter("AI", stubFragmenter(1, nil))

	_, err := g.GenerateTSAVDM([]byte{0x00}, 8, "A", DefaultTxParams())
	if err != nil {
		t.Fatalf("GenerateTSAVDM failed: %v", err)
	}

	if g.SequentialID() != 0 {
		t.Errorf("sequential ID = %d, want 0 after single-fragment message", g.SequentialID())
	}
}

func TestGenerateMultiFragmentAdvancesSequentialID(t *testing.T) {
	g := NewWithFragmenter("AI", stubFragmenter(2, nil))

	_, err := g.GenerateTSAVDM([]byte{0x00}, 8, "A", DefaultTxParams())
	if err != nil {
		t.Fatalf("GenerateTSAVDM failed: %v", err)
	}

	if g.SequentialID() != 1 {
		t.Errorf("sequential ID = %d, want 1 after multi-fragment message", g.SequentialID())
	}
}

func TestSequentialIDWrapsAfterTen(t *testing.T) {
	g := NewWithFragmenter("AI", stubFragmenter(3, nil))

	for i := 0; i < 10; i++ {
		if g.SequentialID() != i {
			t.Fatalf("call %d: sequential ID = %d, want %d", i, g.SequentialID(), i)
		}
		if _, err := g.GenerateTSAVDM([]byte{0x00}, 8, "B", DefaultTxParams()); err != nil {
			t.Fatalf("GenerateTSAVDM failed: %v", err)
		}
	}

	if g.SequentialID() != 0 {
		t.Errorf("sequential ID = %d, want 0 after ten multi-fragment messages", g.SequentialID())
	}
}

func TestGenerateGroupShape(t *testing.T) {
	for _, count := range []int{1, 2, 5} {
		g := NewWithFragmenter("AI", stubFragmenter(count, nil))

		groups, err := g.GenerateTSAVDM([]byte{0x00}, 8, "A", DefaultTxParams())
		if err != nil {
			t.Fatalf("GenerateTSAVDM failed: %v", err)
		}

		if len(groups) != 2 {
			t.Fatalf("%d fragments: got %d groups, want 2", count, len(groups))
		}
		if len(groups[0]) != 1 {
			t.Errorf("%d fragments: TSA group has %d sentences, want 1", count, len(groups[0]))
		}
		if len(groups[1]) != count {
			t.Errorf("%d fragments: VDM group has %d sentences, want %d", count, len(groups[1]), count)
		}
		if !strings.HasPrefix(groups[0][0], "$AITSA,") {
			t.Errorf("first group is not the TSA sentence: %q", groups[0][0])
		}
	}
}

func TestGenerateScenarioMidSequence(t *testing.T) {
	// Advance a fresh generator to sequential ID 3, then send a message
	// that fragments into two sentences on channel B.
	var gotSeqID int
	g := NewWithFragmenter("AI", stubFragmenter(2, &gotSeqID))

	for i := 0; i < 3; i++ {
		if _, err := g.GenerateTSAVDM([]byte{0x00}, 8, "A", DefaultTxParams()); err != nil {
			t.Fatalf("setup call %d failed: %v", i, err)
		}
	}
	if g.SequentialID() != 3 {
		t.Fatalf("setup: sequential ID = %d, want 3", g.SequentialID())
	}

	groups, err := g.GenerateTSAVDM([]byte{0x00}, 8, "B", DefaultTxParams())
	if err != nil {
		t.Fatalf("GenerateTSAVDM failed: %v", err)
	}

	if got := groups[0][0]; got != "$AITSA,,3,B,,,2*0D\r\n" {
		t.Errorf("TSA sentence = %q, want link 3 on channel B", got)
	}
	if gotSeqID != 3 {
		t.Errorf("fragmenter invoked with sequential ID %d, want 3", gotSeqID)
	}
	if g.SequentialID() != 4 {
		t.Errorf("sequential ID = %d, want 4 after the call", g.SequentialID())
	}
}

func TestGenerateTxParams(t *testing.T) {
	g := NewWithFragmenter("AI", stubFragmenter(2, nil))

	// Reach sequential ID 5 via multi-fragment sends.
	for i := 0; i < 5; i++ {
		if _, err := g.GenerateTSAVDM([]byte{0x00}, 8, "A", DefaultTxParams()); err != nil {
			t.Fatalf("setup call %d failed: %v", i, err)
		}
	}
	g.fragment = stubFragmenter(1, nil)

	groups, err := g.GenerateTSAVDM([]byte{0x00}, 8, "B", TxParams{
		UniqueID:  "BASE0001",
		UTCHHMM:   "2215",
		StartSlot: "1365",
		Priority:  0,
	})
	if err != nil {
		t.Fatalf("GenerateTSAVDM failed: %v", err)
	}

	if got := groups[0][0]; got != "$AITSA,BASE0001,5,B,2215,1365,0*18\r\n" {
		t.Errorf("TSA sentence = %q, want transmission parameters rendered", got)
	}
}

func TestGenerateErrorPropagation(t *testing.T) {
	fragErr := errors.New("malformed bitstream")
	g := NewWithFragmenter("AI", func(data []byte, nbits, seqID int, channel, talkerID string) ([]string, error) {
		return nil, fragErr
	})

	_, err := g.GenerateTSAVDM([]byte{0x00}, 8, "A", DefaultTxParams())
	if !errors.Is(err, fragErr) {
		t.Errorf("err = %v, want the fragmenter error unchanged", err)
	}
	if g.SequentialID() != 0 {
		t.Errorf("sequential ID advanced on error: %d", g.SequentialID())
	}
}

func TestGenerateZeroFragmentsIsError(t *testing.T) {
	g := NewWithFragmenter("AI", func(data []byte, nbits, seqID int, channel, talkerID string) ([]string, error) {
		return nil, nil
	})

	if _, err := g.GenerateTSAVDM([]byte{0x00}, 8, "A", DefaultTxParams()); err == nil {
		t.Error("expected error when fragmentation produces no sentences")
	}
}

func TestGenerateWithRealFragmenter(t *testing.T) {
	g := New("AI")

	data := []byte{
		0x12, 0x34, 0x56, 0x78, 0x9A, 0xBC, 0xDE, 0xF0,
		0x12, 0x34, 0x56, 0x78, 0x9A, 0xBC, 0xDE, 0xF0,
		0x12, 0x34, 0x56, 0x78, 0xAB,
	}

	groups, err := g.GenerateTSAVDM(data, 168, "A", DefaultTxParams())
	if err != nil {
		t.Fatalf("GenerateTSAVDM failed: %v", err)
	}

	if got := groups[0][0]; got != "$AITSA,,0,A,,,2*0D\r\n" {
		t.Errorf("TSA sentence = %q", got)
	}
	if got := groups[1][0]; got != "!AIVDM,1,1,0,A,4SAFN9btog0B=5IpVckNt18lEWRc,0*7E\r\n" {
		t.Errorf("VDM sentence = %q", got)
	}
	if g.SequentialID() != 0 {
		t.Errorf("sequential ID = %d, want 0 after single-fragment message", g.SequentialID())
	}
}
