package agent

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"slices"
)

const LatencyWindow = 100

// LatencyProfile keeps the most recent LatencyWindow samples in arrival order.
type LatencyProfile struct {
	Samples []float64 `json:"samples"`
}

func (p *LatencyProfile) Add(ms float64) {
	p.Samples = append(p.Samples, ms)
	if over := len(p.Samples) - LatencyWindow; over > 0 {
		p.Samples = slices.Clone(p.Samples[over:])
	}
}

// Average returns false when no samples have been recorded.
func (p LatencyProfile) Average() (float64, bool) {
	if len(p.Samples) == 0 {
		return 0, false
	}
	var sum float64
	for _, s := range p.Samples {
		sum += s
	}
	return sum / float64(len(p.Samples)), true
}

func (p LatencyProfile) Clone() LatencyProfile {
	return LatencyProfile{Samples: slices.Clone(p.Samples)}
}

func (p LatencyProfile) Value() (driver.Value, error) {
	if len(p.Samples) == 0 {
		return "[]", nil
	}
	return json.Marshal(p.Samples)
}

func (p *LatencyProfile) Scan(value any) error {
	if value == nil {
		p.Samples = nil
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into LatencyProfile", value)
	}
	return json.Unmarshal(bytes, &p.Samples)
}
