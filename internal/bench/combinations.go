package bench

import (
	"github.com/camlabs/cambench/internal/config"
	"github.com/camlabs/cambench/internal/transport"
)

// Combinations expands the configured parameter axes into the full
// list of test combinations. Raw mode is swept alongside the
// configured axes, except for HTTP video which has no raw framing.
func Combinations(cfg config.Combinations) []Params {
	var combos []Params
	for _, video := range cfg.VideoProtocols {
		for _, resolution := range cfg.Resolutions {
			for _, quality := range cfg.Qualities {
				for _, ctrl := range cfg.ControlProtocols {
					for _, raw := range []bool{true, false} {
						if raw && transport.VideoProtocol(video) == transport.VideoHTTP {
							continue
						}
						combos = append(combos, Params{
							VideoProtocol:   transport.VideoProtocol(video),
							ControlProtocol: transport.ControlProtocol(ctrl),
							Resolution:      resolution,
							Quality:         quality,
							Metrics:         true,
							RawMode:         raw,
						})
					}
				}
			}
		}
	}
	return combos
}
