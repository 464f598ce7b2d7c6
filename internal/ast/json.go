package ast

import "encoding/json"

// ToJSON renders e as a kind-tagged JSON value. Every node carries an
// explicit "kind" field matching its Kind() constant, and each
// variant's fields are marshaled in a fixed declaration order (never a
// bare map[string]interface{}) so that two runs over an equal tree
// produce byte-identical output, the property spec.md's `--json` flag
// promises downstream tooling.
func ToJSON(e Expr) (json.RawMessage, error) {
	if e == nil {
		return json.RawMessage("null"), nil
	}

	switch n := e.(type) {
	case *Int:
		return marshalTagged(n.Kind(), struct {
			Value int64 `json:"value"`
		}{n.Value})
	case *Float:
		return marshalTagged(n.Kind(), struct {
			Value float64 `json:"value"`
		}{n.Value})
	case *Bool:
		return marshalTagged(n.Kind(), struct {
			Value bool `json:"value"`
		}{n.Value})
	case *String:
		return marshalTagged(n.Kind(), struct {
			Value string `json:"value"`
		}{n.Value})
	case *Ident:
		return marshalTagged(n.Kind(), struct {
			Name string `json:"name"`
		}{n.Name})
	case *Timestamp:
		return marshalTagged(n.Kind(), struct{}{})
	case *Include:
		return marshalTagged(n.Kind(), struct {
			Path string `json:"path"`
		}{n.Path})

	case *DefunDeploy:
		body, err := toJSONList(n.Body)
		if err != nil {
			return nil, err
		}
		return marshalTagged(n.Kind(), struct {
			Name   string      `json:"name"`
			Params []Parameter `json:"params"`
			Body   []json.RawMessage `json:"body"`
		}{n.Name, n.Params, body})

	case *DefunCompile:
		body, err := toJSONList(n.Body)
		if err != nil {
			return nil, err
		}
		return marshalTagged(n.Kind(), struct {
			Name   string            `json:"name"`
			Params []Parameter       `json:"params"`
			Body   []json.RawMessage `json:"body"`
		}{n.Name, n.Params, body})

	case *Macro:
		body, err := toJSONList(n.Body)
		if err != nil {
			return nil, err
		}
		return marshalTagged(n.Kind(), struct {
			Name   string            `json:"name"`
			Params []Parameter       `json:"params"`
			Body   []json.RawMessage `json:"body"`
		}{n.Name, n.Params, body})

	case *BoundedFor:
		start, err := ToJSON(n.Start)
		if err != nil {
			return nil, err
		}
		end, err := ToJSON(n.End)
		if err != nil {
			return nil, err
		}
		body, err := toJSONList(n.Body)
		if err != nil {
			return nil, err
		}
		return marshalTagged(n.Kind(), struct {
			Var   string            `json:"var"`
			Start json.RawMessage   `json:"start"`
			End   json.RawMessage   `json:"end"`
			Body  []json.RawMessage `json:"body"`
		}{n.Var, start, end, body})

	case *For:
		iter, err := ToJSON(n.Iterable)
		if err != nil {
			return nil, err
		}
		body, err := toJSONList(n.Body)
		if err != nil {
			return nil, err
		}
		return marshalTagged(n.Kind(), struct {
			Var      string            `json:"var"`
			Iterable json.RawMessage   `json:"iterable"`
			Body     []json.RawMessage `json:"body"`
		}{n.Var, iter, body})

	case *While:
		cond, err := ToJSON(n.Cond)
		if err != nil {
			return nil, err
		}
		body, err := toJSONList(n.Body)
		if err != nil {
			return nil, err
		}
		return marshalTagged(n.Kind(), struct {
			Cond json.RawMessage   `json:"cond"`
			Body []json.RawMessage `json:"body"`
		}{cond, body})

	case *WithCapability:
		cap, err := ToJSON(n.Capability)
		if err != nil {
			return nil, err
		}
		body, err := toJSONList(n.Body)
		if err != nil {
			return nil, err
		}
		return marshalTagged(n.Kind(), struct {
			Capability json.RawMessage   `json:"capability"`
			Body       []json.RawMessage `json:"body"`
		}{cap, body})

	case *EvalCompile:
		v, err := ToJSON(n.Value)
		if err != nil {
			return nil, err
		}
		return marshalTagged(n.Kind(), struct {
			Value json.RawMessage `json:"value"`
		}{v})

	case *Let:
		type binding struct {
			Name  string          `json:"name"`
			Value json.RawMessage `json:"value"`
		}
		bindings := make([]binding, len(n.Bindings))
		for i, bnd := range n.Bindings {
			v, err := ToJSON(bnd.Value)
			if err != nil {
				return nil, err
			}
			bindings[i] = binding{bnd.Name, v}
		}
		body, err := toJSONList(n.Body)
		if err != nil {
			return nil, err
		}
		return marshalTagged(n.Kind(), struct {
			Bindings []binding         `json:"bindings"`
			Body     []json.RawMessage `json:"body"`
		}{bindings, body})

	case *Set:
		v, err := ToJSON(n.Value)
		if err != nil {
			return nil, err
		}
		return marshalTagged(n.Kind(), struct {
			Var   string          `json:"var"`
			Value json.RawMessage `json:"value"`
		}{n.Var, v})

	case *If:
		cond, err := ToJSON(n.Cond)
		if err != nil {
			return nil, err
		}
		then, err := ToJSON(n.Then)
		if err != nil {
			return nil, err
		}
		els, err := ToJSON(n.Else)
		if err != nil {
			return nil, err
		}
		return marshalTagged(n.Kind(), struct {
			Cond json.RawMessage `json:"cond"`
			Then json.RawMessage `json:"then"`
			Else json.RawMessage `json:"else"`
		}{cond, then, els})

	case *FunctionCall:
		fn, err := ToJSON(n.Func)
		if err != nil {
			return nil, err
		}
		args, err := toJSONList(n.Args)
		if err != nil {
			return nil, err
		}
		return marshalTagged(n.Kind(), struct {
			Func json.RawMessage   `json:"func"`
			Args []json.RawMessage `json:"args"`
		}{fn, args})

	case *ArrayLiteral:
		return marshalTagged(n.Kind(), struct {
			ElemType Type `json:"elem_type"`
			Size     int  `json:"size"`
		}{n.ElemType, n.Size})

	case *ArrayGet:
		arr, err := ToJSON(n.Array)
		if err != nil {
			return nil, err
		}
		idx, err := ToJSON(n.Index)
		if err != nil {
			return nil, err
		}
		return marshalTagged(n.Kind(), struct {
			Array json.RawMessage `json:"array"`
			Index json.RawMessage `json:"index"`
		}{arr, idx})

	case *ArraySet:
		arr, err := ToJSON(n.Array)
		if err != nil {
			return nil, err
		}
		idx, err := ToJSON(n.Index)
		if err != nil {
			return nil, err
		}
		v, err := ToJSON(n.Value)
		if err != nil {
			return nil, err
		}
		return marshalTagged(n.Kind(), struct {
			Array json.RawMessage `json:"array"`
			Index json.RawMessage `json:"index"`
			Value json.RawMessage `json:"value"`
		}{arr, idx, v})

	case *ArrayLength:
		arr, err := ToJSON(n.Array)
		if err != nil {
			return nil, err
		}
		return marshalTagged(n.Kind(), struct {
			Array json.RawMessage `json:"array"`
		}{arr})

	case *GpioSet:
		dev, err := ToJSON(n.Device)
		if err != nil {
			return nil, err
		}
		v, err := ToJSON(n.Value)
		if err != nil {
			return nil, err
		}
		return marshalTagged(n.Kind(), struct {
			Device json.RawMessage `json:"device"`
			Value  json.RawMessage `json:"value"`
		}{dev, v})

	case *GpioGet:
		dev, err := ToJSON(n.Device)
		if err != nil {
			return nil, err
		}
		return marshalTagged(n.Kind(), struct {
			Device json.RawMessage `json:"device"`
		}{dev})

	case *UartSend:
		dev, err := ToJSON(n.Device)
		if err != nil {
			return nil, err
		}
		data, err := ToJSON(n.Data)
		if err != nil {
			return nil, err
		}
		return marshalTagged(n.Kind(), struct {
			Device json.RawMessage `json:"device"`
			Data   json.RawMessage `json:"data"`
		}{dev, data})

	case *UartRecv:
		dev, err := ToJSON(n.Device)
		if err != nil {
			return nil, err
		}
		return marshalTagged(n.Kind(), struct {
			Device json.RawMessage `json:"device"`
		}{dev})

	case *SensorRead:
		dev, err := ToJSON(n.Device)
		if err != nil {
			return nil, err
		}
		return marshalTagged(n.Kind(), struct {
			Device json.RawMessage `json:"device"`
		}{dev})

	case *NetworkSend:
		dev, err := ToJSON(n.Device)
		if err != nil {
			return nil, err
		}
		data, err := ToJSON(n.Data)
		if err != nil {
			return nil, err
		}
		return marshalTagged(n.Kind(), struct {
			Device json.RawMessage `json:"device"`
			Data   json.RawMessage `json:"data"`
		}{dev, data})

	case *NetworkRecv:
		dev, err := ToJSON(n.Device)
		if err != nil {
			return nil, err
		}
		return marshalTagged(n.Kind(), struct {
			Device json.RawMessage `json:"device"`
		}{dev})

	case *SleepMs:
		d, err := ToJSON(n.Duration)
		if err != nil {
			return nil, err
		}
		return marshalTagged(n.Kind(), struct {
			Duration json.RawMessage `json:"duration"`
		}{d})

	case *ResourceBudget:
		return marshalTagged(n.Kind(), struct {
			Specs []ResourceSpec `json:"specs"`
		}{n.Specs})

	case *DefCap:
		return marshalTagged(n.Kind(), struct {
			Name        string      `json:"name"`
			Params      []Parameter `json:"params"`
			Description string      `json:"description"`
		}{n.Name, n.Params, n.Description})

	case *Program:
		var budget json.RawMessage
		var err error
		if n.Budget != nil {
			budget, err = ToJSON(n.Budget)
			if err != nil {
				return nil, err
			}
		}
		forms, err := toJSONList(n.Forms)
		if err != nil {
			return nil, err
		}
		return marshalTagged(n.Kind(), struct {
			Name   string            `json:"name"`
			Budget json.RawMessage   `json:"budget,omitempty"`
			Forms  []json.RawMessage `json:"forms"`
		}{n.Name, budget, forms})
	}

	return nil, errUnknownKind(e)
}

func toJSONList(exprs []Expr) ([]json.RawMessage, error) {
	out := make([]json.RawMessage, len(exprs))
	for i, e := range exprs {
		raw, err := ToJSON(e)
		if err != nil {
			return nil, err
		}
		out[i] = raw
	}
	return out, nil
}

// marshalTagged marshals payload and wraps it via a two-pass encode:
// payload's fields first (fixed order from its struct definition),
// then an outer {"kind": ..., "payload": ...} object built with
// json.RawMessage composition. An empty payload is omitted.
func marshalTagged(kind Kind, payload interface{}) (json.RawMessage, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	wrapper := struct {
		Kind    Kind            `json:"kind"`
		Payload json.RawMessage `json:"payload,omitempty"`
	}{kind, body}
	if string(body) == "{}" {
		wrapper.Payload = nil
	}
	return json.Marshal(wrapper)
}

type unknownKindError struct{ kind Kind }

func (e unknownKindError) Error() string { return "ast: unknown expr kind " + string(e.kind) }

func errUnknownKind(e Expr) error { return unknownKindError{e.Kind()} }
