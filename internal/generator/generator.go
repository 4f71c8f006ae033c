// Package generator turns outbound AIS messages into IEC 62320-1 sentence
// groups and manages the rolling sequential ID that correlates a TSA
// control sentence with the VDM fragments of the same logical message.
package generator

import (
	"fmt"

	"go62320/internal/sentence"
)

// FragmentFunc encodes an AIS message bitstream into pre-formatted VDM
// sentence strings. sentence.FragmentAISMessage is the production
// implementation.
type FragmentFunc func(data []byte, nbits int, seqID int, channel, talkerID string) ([]string, error)

// Group is a run of contiguous sentences of the same type belonging to one
// transmission. The IEC 61162-450 layer uses the group boundary to set the
// 'g' grouping parameter, so groups must not be flattened.
type Group []string

// TxParams carries the optional transmission parameters of a TSA sentence.
// The zero value leaves every field unspecified except Priority, which
// must be set; use DefaultTxParams for the standard defaults.
type TxParams struct {
	UniqueID  string // base station unique ID, max 15 characters
	UTCHHMM   string // UTC hour/minute of the requested transmission
	StartSlot string // start slot of the requested transmission
	Priority  int    // 0-2, lower is higher priority
}

// DefaultTxParams returns transmission parameters with every field empty
// and the lowest priority.
func DefaultTxParams() TxParams {
	return TxParams{Priority: 2}
}

// Generator produces TSA-VDM sentence sequences for one logical sender.
//
// The generator keeps a rolling sequential ID in [0,9] that advances only
// when a message spans more than one VDM sentence. A generator must be
// owned by a single sender; concurrent GenerateTSAVDM calls on the same
// generator race on the sequential ID and require external serialization.
type Generator struct {
	talkerID string
	seqID    int
	fragment FragmentFunc
}

// New creates a sentence generator for the given talker ID, using the
// standard VDM fragmentation.
func New(talkerID string) *Generator {
	return &Generator{
		talkerID: talkerID,
		fragment: sentence.FragmentAISMessage,
	}
}

// NewWithFragmenter creates a sentence generator with a caller-supplied
// fragmentation function.
func NewWithFragmenter(talkerID string, fragment FragmentFunc) *Generator {
	return &Generator{
		talkerID: talkerID,
		fragment: fragment,
	}
}

// SequentialID returns the sequential ID the next generated message will
// carry.
func (g *Generator) SequentialID() int {
	return g.seqID
}

// GenerateTSAVDM encapsulates one AIS message, given as the first nbits
// bits of data, into a TSA-VDM sentence sequence for transmission on the
// given channel.
//
// The result always holds exactly two groups: the TSA control sentence,
// then the VDM fragments in transmission order, all tagged with the same
// sequential ID. The sequential ID advances (mod 10) only when the message
// required more than one VDM sentence; single-fragment messages leave it
// unchanged since there is nothing to correlate.
//
// Fragmentation errors propagate unchanged. A fragmenter returning zero
// sentences is an error: a TSA with no payload group is never emitted.
func (g *Generator) GenerateTSAVDM(data []byte, nbits int, channel string, p TxParams) ([]Group, error) {
	tsa := &sentence.TSASentence{
		VDMLink:   g.seqID,
		Channel:   channel,
		TalkerID:  g.talkerID,
		UniqueID:  p.UniqueID,
		UTCHHMM:   p.UTCHHMM,
		StartSlot: p.StartSlot,
		Priority:  p.Priority,
	}

	vdms, err := g.fragment(data, nbits, g.seqID, channel, g.talkerID)
	if err != nil {
		return nil, err
	}
	if len(vdms) == 0 {
		return nil, fmt.Errorf("fragmentation produced no sentences")
	}

	if len(vdms) > 1 {
		g.seqID = (g.seqID + 1) % 10
	}

	return []Group{{tsa.String()}, Group(vdms)}, nil
}
