package sentence

import "testing"

func TestTSASentenceString(t *testing.T) {
	tests := []struct {
		name     string
		sentence *TSASentence
		expected string
	}{
		{
			name:     "defaults",
			sentence: NewTSASentence(0, ChannelA),
			expected: "$AITSA,,0,A,,,2*0D\r\n",
		},
		{
			name:     "link 3 channel B",
			sentence: NewTSASentence(3, ChannelB),
			expected: "$AITSA,,3,B,,,2*0D\r\n",
		},
		{
			name: "all fields populated",
			sentence: &TSASentence{
				VDMLink:   5,
				Channel:   ChannelB,
				TalkerID:  "AI",
				UniqueID:  "BASE0001",
				UTCHHMM:   "2215",
				StartSlot: "1365",
				Priority:  0,
			},
			expected: "$AITSA,BASE0001,5,B,2215,1365,0*18\r\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.sentence.String(); got != tt.expected {
				t.Errorf("String() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestTSASentenceDeterministic(t *testing.T) {
	s := NewTSASentence(7, ChannelA)
	first := s.String()

	for i := 0; i < 10; i++ {
		if got := s.String(); got != first {
			t.Fatalf("String() not deterministic: %q != %q", got, first)
		}
	}
}
