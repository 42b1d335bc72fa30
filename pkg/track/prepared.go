package track

import "github.com/gridtone/deckengine/pkg/stem"

// Prepared is the fully decoded, engine-ready form of a track: its
// immutable Metadata paired with a shared handle to its four stem
// buffers. The loader constructs one off-thread (spec.md §6,
// Preparation) and hands it to a deck via the command queue; after that
// point the deck only ever reads through the Shared handle and never
// owns the underlying allocation.
type Prepared struct {
	Metadata Metadata
	Stems    stem.Shared
}

// NewPrepared pairs metadata with an already-shared stem buffer handle.
// The caller retains ownership semantics of stems — Prepared does not
// take an implicit Retain, since the loader typically hands off its own
// reference directly.
func NewPrepared(meta Metadata, stems stem.Shared) *Prepared {
	return &Prepared{Metadata: meta, Stems: stems}
}

// Release drops this Prepared's reference to its stem buffers. Decks
// call this when unloading a track; the actual free, if this was the
// last reference, happens off the audio thread via the Shared handle's
// onZero callback.
func (p *Prepared) Release() {
	p.Stems.Release()
}
