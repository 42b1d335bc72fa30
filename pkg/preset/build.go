package preset

import (
	"fmt"

	"github.com/gridtone/deckengine/pkg/fx"
)

// Factory constructs a live fx.Effect from its persisted record. This
// is the external-collaborator seam spec.md §4.6 calls "effect
// factories": the actual embedded-DSP, native, or plugin-standard
// construction logic lives outside this package.
type Factory interface {
	CreateEffect(record EffectRecord) (fx.Effect, error)
}

// BuildStemPresetFile snapshots host's full topology into a
// StemPresetFile, ready to pass to SaveStemPreset.
func BuildStemPresetFile(host *fx.Host, name string) StemPresetFile {
	file := StemPresetFile{
		Name:         name,
		PreFX:        chainRecords(host.PreFX()),
		PostFX:       chainRecords(host.PostFX()),
		PreDryWet:    host.PreFX().DryWet,
		PostDryWet:   host.PostFX().DryWet,
		GlobalDryWet: host.GlobalDryWet,
	}

	for i := 0; i < host.NumBands()-1; i++ {
		file.CrossoverFreqs = append(file.CrossoverFreqs, host.CrossoverFrequency(i))
	}

	for i := 0; i < host.NumBands(); i++ {
		b := host.Band(i)
		file.Bands = append(file.Bands, BandRecord{
			Gain:        b.Gain,
			Muted:       b.Muted,
			Soloed:      b.Soloed,
			Effects:     chainRecords(b.Chain),
			ChainDryWet: b.Chain.DryWet,
		})
	}

	return file
}

func chainRecords(c *fx.Chain) []EffectRecord {
	records := make([]EffectRecord, 0, c.Count())
	for i := 0; i < c.Count(); i++ {
		e := c.At(i)
		info := e.Info()
		records = append(records, EffectRecord{
			ID:             NewEffectID(),
			Name:           info.Name,
			Category:       categoryName(info.Category),
			Source:         sourceForCategory(info.Category),
			Bypassed:       e.IsBypassed(),
			AllParamValues: e.GetParams(),
		})
	}
	return records
}

// ApplyStemPreset rebuilds host's topology from file, constructing
// every effect through factory. It returns the first construction
// error encountered; host is left partially rebuilt in that case, so
// callers should discard it rather than keep using it.
func ApplyStemPreset(host *fx.Host, file StemPresetFile, factory Factory) error {
	host.Reset()

	if err := applyChain(host.PreFX(), file.PreFX, factory); err != nil {
		return fmt.Errorf("preset: pre_fx: %w", err)
	}
	if err := applyChain(host.PostFX(), file.PostFX, factory); err != nil {
		return fmt.Errorf("preset: post_fx: %w", err)
	}
	host.PreFX().DryWet = file.PreDryWet
	host.PostFX().DryWet = file.PostDryWet
	host.GlobalDryWet = file.GlobalDryWet

	for host.NumBands() > 1 {
		host.RemoveBand(host.NumBands() - 1)
	}
	for _, freq := range file.CrossoverFreqs {
		host.AddBand(freq)
	}

	for i, bandRecord := range file.Bands {
		b := host.Band(i)
		if b == nil {
			return fmt.Errorf("preset: band %d: host has only %d bands after crossover setup", i, host.NumBands())
		}
		b.Gain = bandRecord.Gain
		b.Muted = bandRecord.Muted
		b.Soloed = bandRecord.Soloed
		b.Chain.DryWet = bandRecord.ChainDryWet
		if err := applyChain(b.Chain, bandRecord.Effects, factory); err != nil {
			return fmt.Errorf("preset: band %d: %w", i, err)
		}
	}

	return nil
}

func applyChain(chain *fx.Chain, records []EffectRecord, factory Factory) error {
	for _, r := range records {
		e, err := factory.CreateEffect(r)
		if err != nil {
			return fmt.Errorf("creating effect %q: %w", r.Name, err)
		}
		for i, v := range r.AllParamValues {
			e.SetParam(i, v)
		}
		e.SetBypass(r.Bypassed)
		chain.Add(e)
	}
	return nil
}
