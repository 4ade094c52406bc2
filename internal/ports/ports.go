package ports

import (
	"context"

	"github.com/RasheedLewis/VibeCraft-sub006/internal/types"
)

// ClipConformer inspects generated clips and rewrites them to the exact
// frame-snapped duration a timing plan asks for.
type ClipConformer interface {
	Probe(ctx context.Context, path string) (types.MediaInfo, error)
	Conform(ctx context.Context, inPath string, plan types.ConformPlan, outPath string) error
}
