package pipeline

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"github.com/AnyUserName/imcat/internal/hasher"
	"github.com/AnyUserName/imcat/internal/raster"
	"github.com/AnyUserName/imcat/internal/report"
	"github.com/AnyUserName/imcat/internal/resample"
	"github.com/AnyUserName/imcat/internal/source"
)

// prepared is a decoded, planned image ready to resample.
type prepared struct {
	entry report.Image
	img   *raster.Image
	geom  resample.Geometry
}

// prepare reads, decodes and plans one source. The returned entry is filled
// as far as processing got, even on error.
func (p *Pipeline) prepare(src source.Source) (prepared, error) {
	data, err := source.Read(src)
	if err != nil {
		return prepared{entry: newEntry(src)}, err
	}
	return p.load(src, data)
}

func newEntry(src source.Source) report.Image {
	return report.Image{
		Key:    src.Key,
		Source: report.SourceInfo{Format: src.Format, Size: src.Size},
	}
}

// load decodes and plans already-read file content.
func (p *Pipeline) load(src source.Source, data []byte) (prepared, error) {
	prep := prepared{entry: newEntry(src)}
	prep.entry.Source.Size = int64(len(data))
	prep.entry.Hash = hasher.ContentHash(data, 0)

	img, format, err := source.Decode(data)
	if err != nil {
		return prep, err
	}
	prep.img = img
	prep.entry.Source.Format = format
	prep.entry.Source.Width = img.Width
	prep.entry.Source.Height = img.Height
	prep.entry.Source.HasAlpha = img.HasAlpha()
	avg := img.AvgColor()
	prep.entry.AvgColor = &avg

	g, err := resample.Plan(img.Width, img.Height, p.cfg.Output)
	if err != nil {
		return prep, err
	}
	prep.geom = g
	prep.entry.SamplesPerCell = g.SamplesPerCell
	prep.entry.KernelRadius = g.KernelRadius
	prep.entry.Output = report.OutputInfo{Width: g.OutWidth, Height: g.OutHeight}
	return prep, nil
}

// renderOne processes a single source into out. The error return is
// reserved for sink failures; image failures land in entry.Error.
func (p *Pipeline) renderOne(out *bufio.Writer, src source.Source) (report.Image, error) {
	data, err := source.Read(src)
	if err != nil {
		return p.fail(newEntry(src), err), nil
	}

	// Cache lookup needs only the bytes, not a decode.
	key := hasher.Key(data, p.params)
	if hit, ok := p.cache[key]; ok && !p.cfg.NoCache {
		p.logf("%s: cache hit (%s)", src.Key, hit.entry.Hash)
		entry := hit.entry
		entry.Key = src.Key
		entry.Cached = true
		if _, err := out.Write(hit.text); err != nil {
			return entry, err
		}
		return entry, out.Flush()
	}

	prep, err := p.load(src, data)
	if err != nil {
		return p.fail(prep.entry, err), nil
	}
	p.logf("%s: %s", src.Key, prep.geom)

	small, err := resample.Resample(prep.img, prep.geom, p.opts)
	if err != nil {
		return p.fail(prep.entry, fmt.Errorf("resample: %w", err)), nil
	}
	prep.entry.Output.Rows = p.renderer.Rows(small)

	var w io.Writer = out
	var text bytes.Buffer
	if !p.cfg.NoCache {
		w = io.MultiWriter(out, &text)
	}
	if err := p.renderer.Render(w, small, p.cfg.Render); err != nil {
		return prep.entry, err
	}
	if err := out.Flush(); err != nil {
		return prep.entry, err
	}

	if !p.cfg.NoCache {
		p.cache[key] = cached{text: text.Bytes(), entry: prep.entry}
	}
	return prep.entry, nil
}

func (p *Pipeline) fail(entry report.Image, err error) report.Image {
	fmt.Fprintf(p.cfg.Log, "[imcat] could not load image %s: %v\n", entry.Key, err)
	entry.Error = err.Error()
	return entry
}
