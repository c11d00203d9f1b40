// Package debugout writes optional, human-inspectable dumps of a pipeline
// run's layout and validation report, compressing the sibling copy when it
// is large enough that compression is worth the CPU.
package debugout

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/klauspost/compress/zstd"

	"github.com/topo2ifc/topo2ifc/pkg/layout"
	"github.com/topo2ifc/topo2ifc/pkg/topology"
	"github.com/topo2ifc/topo2ifc/pkg/validation"
)

// compressThreshold is the encoded-JSON size above which a zstd-compressed
// sibling is also written; below it the compression overhead is not worth
// the extra file.
const compressThreshold = 4096

// layoutRectJSON is one placed rectangle, local to its storey.
type layoutRectJSON struct {
	SpaceID string  `json:"space_id"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	W       float64 `json:"w"`
	H       float64 `json:"h"`
}

// storeyLayoutJSON groups a storey's rectangles under its id and elevation.
type storeyLayoutJSON struct {
	ID        string           `json:"id"`
	Elevation float64          `json:"elevation"`
	Rects     []layoutRectJSON `json:"rects"`
}

type layoutJSON struct {
	Storeys []storeyLayoutJSON `json:"storeys"`
}

// zstdEncoder is reused across calls; zstd.Encoder is safe for concurrent
// use once constructed.
var zstdEncoder *zstd.Encoder

func init() {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		panic("debugout: zstd encoder initialization failed: " + err.Error())
	}
	zstdEncoder = enc
}

// WriteLayout saves the solved rectangles, grouped by storey with each
// storey's elevation, as indented JSON to dir/layout.json, plus
// dir/layout.json.zst when the JSON is large enough to benefit from
// compression.
func WriteLayout(dir string, g *topology.Graph, rects []layout.Rect) error {
	byStorey := map[string][]layout.Rect{}
	for _, r := range rects {
		byStorey[r.StoreyID] = append(byStorey[r.StoreyID], r)
	}

	var storeyIDs []string
	for id := range byStorey {
		storeyIDs = append(storeyIDs, id)
	}
	sort.Strings(storeyIDs)

	out := layoutJSON{}
	for _, id := range storeyIDs {
		elevation := 0.0
		if s, ok := g.Storey(id); ok {
			elevation = s.Elevation
		}
		rs := byStorey[id]
		sort.Slice(rs, func(i, j int) bool { return rs[i].SpaceID < rs[j].SpaceID })
		rectsJSON := make([]layoutRectJSON, len(rs))
		for i, r := range rs {
			rectsJSON[i] = layoutRectJSON{SpaceID: r.SpaceID, X: r.X, Y: r.Y, W: r.W, H: r.H}
		}
		out.Storeys = append(out.Storeys, storeyLayoutJSON{ID: id, Elevation: elevation, Rects: rectsJSON})
	}
	return writeJSONAndMaybeCompress(dir, "layout.json", out)
}

type areaDeviationJSON struct {
	Mean     float64            `json:"mean"`
	Max      float64            `json:"max"`
	PerSpace map[string]float64 `json:"per_space"`
}

type warningJSON struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Refs    []string `json:"refs,omitempty"`
}

type reportJSON struct {
	OverlapPairs       [][2]string       `json:"overlap_pairs"`
	AreaDeviation      areaDeviationJSON `json:"area_deviation"`
	AdjacencySatisfied float64           `json:"adjacency_satisfied"`
	Warnings           []warningJSON     `json:"warnings"`
}

// WriteReport saves the layout validator's numeric stats and the pipeline's
// accumulated warnings as indented JSON to dir/report.json, plus a
// compressed sibling under the same rule as WriteLayout.
func WriteReport(dir string, stats *layout.Stats, report *validation.Report) error {
	out := reportJSON{
		OverlapPairs: stats.OverlapPairs,
		AreaDeviation: areaDeviationJSON{
			Mean: stats.AreaDeviationMean, Max: stats.AreaDeviationMax, PerSpace: stats.PerSpaceDeviation,
		},
		AdjacencySatisfied: stats.AdjacencySatisfied,
	}
	for _, w := range report.Warnings {
		out.Warnings = append(out.Warnings, warningJSON{Code: w.Code, Message: w.Message, Refs: w.Refs})
	}
	return writeJSONAndMaybeCompress(dir, "report.json", out)
}

func writeJSONAndMaybeCompress(dir, filename string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", filename, err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating debug output dir: %w", err)
	}

	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	if len(data) < compressThreshold {
		return nil
	}
	compressed := zstdEncoder.EncodeAll(data, nil)
	if err := os.WriteFile(path+".zst", compressed, 0o644); err != nil {
		return fmt.Errorf("writing %s.zst: %w", path, err)
	}
	return nil
}
