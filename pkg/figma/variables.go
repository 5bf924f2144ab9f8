package figma

import (
	"encoding/json"
	"sort"
)

const maxAliasDepth = 8

// FlatVariable is a variable reduced to the value of its collection's default mode.
type FlatVariable struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Value any    `json:"value"`
}

// Variables flattens the local variables payload. Each variable takes the value of its
// collection's default mode (or, lacking one, its first mode in ID order); aliases are
// followed to the value they point to. Results are sorted by name so that callers
// inserting them into a mapping get a stable outcome.
func (r *LocalVariablesResponse) Variables() []FlatVariable {
	if r == nil {
		return nil
	}

	out := make([]FlatVariable, 0, len(r.Meta.Variables))
	for _, v := range r.Meta.Variables {
		value, ok := r.resolve(v, 0)
		if !ok {
			continue
		}
		out = append(out, FlatVariable{
			Name:  v.Name,
			Type:  v.ResolvedType,
			Value: value,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})

	return out
}

func (r *LocalVariablesResponse) resolve(v Variable, depth int) (any, bool) {
	raw, ok := r.defaultModeValue(v)
	if !ok {
		return nil, false
	}

	var alias VariableAlias
	if err := json.Unmarshal(raw, &alias); err == nil && alias.Type == "VARIABLE_ALIAS" && alias.ID != "" {
		target, exists := r.Meta.Variables[alias.ID]
		if !exists || depth >= maxAliasDepth {
			// Remote or cyclic alias: keep the reference itself.
			return map[string]any{"type": alias.Type, "id": alias.ID}, true
		}
		return r.resolve(target, depth+1)
	}

	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil, false
	}
	return value, true
}

func (r *LocalVariablesResponse) defaultModeValue(v Variable) (json.RawMessage, bool) {
	if len(v.ValuesByMode) == 0 {
		return nil, false
	}

	if coll, ok := r.Meta.VariableCollections[v.VariableCollectionID]; ok && coll.DefaultModeID != "" {
		if raw, ok := v.ValuesByMode[coll.DefaultModeID]; ok {
			return raw, true
		}
	}

	modes := make([]string, 0, len(v.ValuesByMode))
	for mode := range v.ValuesByMode {
		modes = append(modes, mode)
	}
	sort.Strings(modes)

	return v.ValuesByMode[modes[0]], true
}
