package record

import "encoding/json"

// MutationRecord is the JSON wire shape of a mutation descriptor, used when
// an applied log segment is archived. Transform updaters do not serialize as
// functions; they are flagged with Transform=true and carry no field map,
// which is sufficient because archival happens after application.
type MutationRecord struct {
	Op        Op             `json:"op"`
	IDs       []ID           `json:"id_arr"`
	Updater   map[string]any `json:"updater,omitempty"`
	Transform bool           `json:"transform,omitempty"`
}

// EncodeMutation renders a descriptor into its wire shape. The identifier
// sequence is cloned.
func EncodeMutation(m Mutation) MutationRecord {
	out := MutationRecord{Op: m.Op, IDs: append([]ID(nil), m.IDs...)}
	if m.Op == OpUpdate {
		if m.Updater.IsTransform() {
			out.Transform = true
		} else {
			out.Updater = m.Updater.Fields()
		}
	}
	return out
}

// DecodeMutation rebuilds a descriptor from its wire shape. A transform
// marker decodes to an identity transform: the concrete function is gone,
// but the descriptor stays structurally valid for inspection tooling.
func DecodeMutation(w MutationRecord) Mutation {
	m := Mutation{Op: w.Op, IDs: append([]ID(nil), w.IDs...)}
	if w.Op == OpUpdate {
		if w.Transform {
			m.Updater = Transform(func(r Record) Record { return r })
		} else {
			m.Updater = Merge(w.Updater)
		}
	}
	return m
}

// MarshalMutations encodes an ordered descriptor sequence as a JSON array.
func MarshalMutations(ms []Mutation) ([]byte, error) {
	wire := make([]MutationRecord, len(ms))
	for i, m := range ms {
		wire[i] = EncodeMutation(m)
	}
	return json.Marshal(wire)
}

// UnmarshalMutations decodes a JSON array of descriptors.
func UnmarshalMutations(raw []byte) ([]Mutation, error) {
	var wire []MutationRecord
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, err
	}
	out := make([]Mutation, len(wire))
	for i, w := range wire {
		out[i] = DecodeMutation(w)
	}
	return out, nil
}
