package substrate

import (
	"strconv"
	"strings"

	"substrate/internal/core"
)

// Parameters describes the run configuration and live counters for display.
func (s *Substrate) Parameters() core.ParameterSnapshot {
	c := s.cfg
	palette := make([]string, len(c.Palette))
	for i, col := range c.Palette {
		palette[i] = col.Hex()
	}
	groups := []core.ParameterGroup{
		{
			Name: "Surface",
			Params: []core.Parameter{
				intParam("width", "Width", c.Width),
				intParam("height", "Height", c.Height),
				boolParam("seamless", "Seamless", c.Seamless),
				boolParam("wireframe", "Wireframe", c.Wireframe),
				int64Param("seed", "Seed", c.Seed),
			},
		},
		{
			Name: "Cracks",
			Params: []core.Parameter{
				intParam("initial_cracks", "Initial cracks", c.InitialCracks),
				intParam("max_cracks", "Max cracks", c.MaxCracks),
				intParam("circle_percent", "Circle percent", c.CirclePercent),
				stringParam("collision_policy", "Collision policy", string(c.Collision)),
				intParam("max_cycles", "Max cycles", c.MaxCycles),
			},
		},
		{
			Name: "Sand",
			Params: []core.Parameter{
				intParam("grains", "Grains", c.Grains),
				stringParam("foreground", "Foreground", c.Foreground.Hex()),
				stringParam("background", "Background", c.Background.Hex()),
				stringParam("palette", "Palette", strings.Join(palette, ",")),
			},
		},
		{
			Name: "Status",
			Params: []core.Parameter{
				intParam("cycles", "Cycles", s.cycles),
				intParam("live", "Live cracks", len(s.cracks)),
				intParam("next_id", "Next crack id", s.nextID),
				intParam("deaths", "Deaths", s.deaths),
				boolParam("quiesced", "Quiesced", s.quiesced),
				boolParam("done", "Done", s.done),
			},
		},
	}
	return core.ParameterSnapshot{Groups: groups}
}

func intParam(key, label string, value int) core.Parameter {
	return core.Parameter{Key: key, Label: label, Type: core.ParamTypeInt, Value: strconv.Itoa(value)}
}

func int64Param(key, label string, value int64) core.Parameter {
	return core.Parameter{Key: key, Label: label, Type: core.ParamTypeInt, Value: strconv.FormatInt(value, 10)}
}

func boolParam(key, label string, value bool) core.Parameter {
	return core.Parameter{Key: key, Label: label, Type: core.ParamTypeBool, Value: strconv.FormatBool(value)}
}

func stringParam(key, label, value string) core.Parameter {
	return core.Parameter{Key: key, Label: label, Type: core.ParamTypeString, Value: value}
}
