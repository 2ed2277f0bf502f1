package prefsink

import "encoding/json"

// Tier names one level of the lookup precedence.
type Tier string

const (
	TierFile    Tier = "file"
	TierEnv     Tier = "env"
	TierDefault Tier = "default"
)

// Trace explains how Get resolved a key: every tier is listed strongest
// first, and Resolved names the tier that supplied Value.
type Trace struct {
	Namespace string       `json:"namespace"`
	Key       string       `json:"key"`
	Resolved  Tier         `json:"resolved,omitempty"`
	Value     any          `json:"value,omitempty"`
	Layers    []Provenance `json:"layers"`
}

// Provenance is one tier's contribution. Source is the preference file path
// for TierFile and the variable name for TierEnv.
type Provenance struct {
	Tier   Tier   `json:"tier"`
	Source string `json:"source,omitempty"`
	Value  any    `json:"value,omitempty"`
	Found  bool   `json:"found"`
}

// Trace resolves key like Get and records every tier consulted.
func (j *Jar) Trace(key string, def ...any) Trace {
	trace := Trace{
		Namespace: j.namespace,
		Key:       key,
		Layers:    make([]Provenance, 0, 3),
	}

	file := Provenance{Tier: TierFile, Source: j.source}
	file.Value, file.Found = j.values[key]

	env := Provenance{Tier: TierEnv, Source: j.EnvVarName(key)}
	if value, ok := j.cfg.env.LookupEnv(env.Source); ok {
		env.Value, env.Found = value, true
	}

	fallback := Provenance{Tier: TierDefault}
	if len(def) > 0 {
		fallback.Value, fallback.Found = def[0], true
	}

	trace.Layers = append(trace.Layers, file, env, fallback)
	for _, layer := range trace.Layers {
		if layer.Found {
			trace.Resolved = layer.Tier
			trace.Value = layer.Value
			break
		}
	}
	return trace
}

// ToJSON serialises the trace.
func (t Trace) ToJSON() ([]byte, error) {
	type alias Trace
	return json.Marshal(alias(t))
}

// TraceFromJSON parses a payload produced by ToJSON.
func TraceFromJSON(payload []byte) (Trace, error) {
	type alias Trace
	var trace alias
	if err := json.Unmarshal(payload, &trace); err != nil {
		return Trace{}, err
	}
	return Trace(trace), nil
}
