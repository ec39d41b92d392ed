package app

import (
	"encoding/json"
	"io"

	"github.com/vk/mdlgraph/internal/importer"
	"github.com/vk/mdlgraph/internal/model"
)

// jsonResult is the stable output shape of the CLI. It flattens the model
// into plain serializable records so downstream tooling does not depend on
// internal types.
type jsonResult struct {
	Name        string           `json:"name"`
	Integration string           `json:"integration"`
	IsLibrary   bool             `json:"is_library"`
	Blocks      []jsonBlock      `json:"blocks"`
	Connections []jsonConnection `json:"connections"`
	Libraries   []string         `json:"libraries,omitempty"`
	Unresolved  []string         `json:"unresolved,omitempty"`
	Warnings    []string         `json:"warnings,omitempty"`
}

type jsonBlock struct {
	ID       string            `json:"id"`
	Kind     string            `json:"kind"`
	Name     string            `json:"name"`
	Params   map[string]string `json:"params,omitempty"`
	Inputs   []jsonPort        `json:"inputs,omitempty"`
	Outputs  []jsonPort        `json:"outputs,omitempty"`
	Children []jsonBlock       `json:"children,omitempty"`
	Links    []jsonConnection  `json:"links,omitempty"`
}

type jsonPort struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Type  string `json:"type"`
	Shape []int  `json:"shape"`
}

type jsonConnection struct {
	ID   string `json:"id"`
	From string `json:"from"`
	To   string `json:"to"`
}

// renderJSON writes the import result as indented JSON.
func renderJSON(w io.Writer, res *importer.Result) error {
	out := jsonResult{
		Name:        res.Meta.Name,
		Integration: string(res.Integration),
		IsLibrary:   res.IsLibrary,
		Blocks:      blocksJSON(res.Blocks),
		Connections: connectionsJSON(res.Connections),
		Unresolved:  res.Unresolved,
	}
	for _, lib := range res.Libraries {
		out.Libraries = append(out.Libraries, lib.Name)
	}
	for _, mw := range res.Report.Mapping {
		out.Warnings = append(out.Warnings, mw.String())
	}
	for _, ww := range res.Report.Wiring {
		out.Warnings = append(out.Warnings, ww.String())
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func blocksJSON(blocks []*model.Block) []jsonBlock {
	out := make([]jsonBlock, 0, len(blocks))
	for _, b := range blocks {
		out = append(out, jsonBlock{
			ID:       b.ID,
			Kind:     string(b.Kind),
			Name:     b.Name,
			Params:   b.Params,
			Inputs:   portsJSON(b.Inputs),
			Outputs:  portsJSON(b.Outputs),
			Children: blocksJSON(b.Children),
			Links:    connectionsJSON(b.Links),
		})
	}
	return out
}

func portsJSON(ports []*model.Port) []jsonPort {
	out := make([]jsonPort, 0, len(ports))
	for _, p := range ports {
		out = append(out, jsonPort{ID: p.ID, Name: p.Name, Type: p.Type, Shape: p.Shape})
	}
	return out
}

func connectionsJSON(conns []*model.Connection) []jsonConnection {
	out := make([]jsonConnection, 0, len(conns))
	for _, c := range conns {
		out = append(out, jsonConnection{ID: c.ID, From: c.Source.PortID, To: c.Target.PortID})
	}
	return out
}
