package postprocessors

import (
	"github.com/docuchat/docuchat-cli/internal/core/ports/driven"
	"github.com/docuchat/docuchat-cli/internal/postprocessors/chunker"
)

// RegisterDefaults registers the built-in processors. The composition
// root calls this before building the ingestion pipeline.
func RegisterDefaults(r *Registry) {
	r.Register("chunker", buildChunker)
}

// buildChunker creates the text chunker from settings. Recognised keys:
//   - chunk_size: target segment size in characters
//   - overlap: shared characters between adjacent segments
//
// Unrecognised or non-positive values fall back to the chunker defaults.
func buildChunker(cfg map[string]any) (driven.PostProcessor, error) {
	var opts []chunker.Option

	if size := settingInt(cfg, "chunk_size"); size > 0 {
		opts = append(opts, chunker.WithChunkSize(size))
	}
	if overlap := settingInt(cfg, "overlap"); overlap > 0 {
		opts = append(opts, chunker.WithOverlap(overlap))
	}

	return chunker.New(opts...), nil
}

// settingInt reads an integer setting, tolerating the numeric types
// TOML and JSON decoders produce.
func settingInt(cfg map[string]any, key string) int {
	switch v := cfg[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}
