package domain

// Scenario is one opaque unit of benchmark input. Its internal shape is
// produced by the scenario generator and is not validated here; the registry
// only inspects the sceneId and twinId fields when they are present.
type Scenario map[string]any

func (s Scenario) stringField(key string) string {
	if s == nil {
		return ""
	}
	v, ok := s[key]
	if !ok {
		return ""
	}
	str, _ := v.(string)
	return str
}

// SceneID returns the scenario identifier, or "" when absent.
func (s Scenario) SceneID() string {
	return s.stringField("sceneId")
}

// TwinID returns the paired twin-variant identifier, or "" when the scenario
// has no twin.
func (s Scenario) TwinID() string {
	return s.stringField("twinId")
}

func (s Scenario) Clone() Scenario {
	if s == nil {
		return nil
	}
	out := make(Scenario, len(s))
	for k, v := range s {
		out[k] = cloneValue(v)
	}
	return out
}

// CloneScenarios deep-copies an ordered scenario sequence so the copy shares
// no mutable state with the source.
func CloneScenarios(in []Scenario) []Scenario {
	if in == nil {
		return nil
	}
	out := make([]Scenario, len(in))
	for i, s := range in {
		out[i] = s.Clone()
	}
	return out
}

func cloneValue(v any) any {
	switch tv := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(tv))
		for k, nested := range tv {
			out[k] = cloneValue(nested)
		}
		return out
	case []any:
		out := make([]any, len(tv))
		for i, nested := range tv {
			out[i] = cloneValue(nested)
		}
		return out
	default:
		return v
	}
}
