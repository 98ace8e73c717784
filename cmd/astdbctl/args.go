package main

import (
	"encoding/json"
	"fmt"

	"github.com/janus-lang/astdb/internal/cid"
	"github.com/janus-lang/astdb/internal/query"
)

// jsonArg is the CLI's wire shape for one query argument: exactly one of
// CID/Int/Str is set, mirroring query.Arg's own one-of-three discipline.
type jsonArg struct {
	CID string  `json:"cid,omitempty"`
	Int *int64  `json:"int,omitempty"`
	Str *string `json:"str,omitempty"`
}

// parseArgs decodes a `[{"cid":"..."},{"int":1},{"str":"x"}]` JSON array
// (the `<json-args>` positional the query/pick subcommands share) into
// query.Arg values.
func parseArgs(raw string) ([]query.Arg, error) {
	if raw == "" {
		return nil, nil
	}
	var jargs []jsonArg
	if err := json.Unmarshal([]byte(raw), &jargs); err != nil {
		return nil, fmt.Errorf("parsing json-args: %w", err)
	}
	out := make([]query.Arg, 0, len(jargs))
	for i, j := range jargs {
		switch {
		case j.CID != "":
			c, err := cid.Parse(j.CID)
			if err != nil {
				return nil, fmt.Errorf("arg %d: %w", i, err)
			}
			out = append(out, query.CIDArg(c))
		case j.Int != nil:
			out = append(out, query.IntArg(*j.Int))
		case j.Str != nil:
			out = append(out, query.StringArg(*j.Str))
		default:
			return nil, fmt.Errorf("arg %d: must set one of cid/int/str", i)
		}
	}
	return out, nil
}
