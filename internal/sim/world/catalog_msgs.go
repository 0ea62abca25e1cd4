package world

import (
	"sort"

	"slowtown.ai/internal/protocol"
	"slowtown.ai/internal/sim/catalogs"
)

type buildingsCatalogData struct {
	Fallback    string                 `json:"fallback"`
	UnlockOrder []string               `json:"unlock_order"`
	Defs        []catalogs.BuildingDef `json:"defs"`
}

type cropsCatalogData struct {
	UnlockOrder []string           `json:"unlock_order"`
	Defs        []catalogs.CropDef `json:"defs"`
}

type animalsCatalogData struct {
	UnlockOrder []string             `json:"unlock_order"`
	Defs        []catalogs.AnimalDef `json:"defs"`
}

type nodesCatalogData struct {
	Defs []catalogs.NodeDef `json:"defs"`
}

func sortedKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func catalogMsg(name, digest string, data any) protocol.CatalogMsg {
	return protocol.CatalogMsg{
		Type:            protocol.TypeCatalog,
		ProtocolVersion: protocol.Version,
		Name:            name,
		Digest:          digest,
		Part:            1,
		TotalParts:      1,
		Data:            data,
	}
}

func (w *World) catalogMsgs() []protocol.CatalogMsg {
	c := w.catalogs

	b := buildingsCatalogData{Fallback: c.Buildings.Fallback, UnlockOrder: c.Buildings.UnlockOrder}
	for _, id := range sortedKeys(c.Buildings.ByID) {
		b.Defs = append(b.Defs, c.Buildings.ByID[id])
	}
	cr := cropsCatalogData{UnlockOrder: c.Crops.UnlockOrder}
	for _, id := range sortedKeys(c.Crops.ByID) {
		cr.Defs = append(cr.Defs, c.Crops.ByID[id])
	}
	an := animalsCatalogData{UnlockOrder: c.Animals.UnlockOrder}
	for _, id := range sortedKeys(c.Animals.ByID) {
		an.Defs = append(an.Defs, c.Animals.ByID[id])
	}
	nd := nodesCatalogData{}
	for _, id := range sortedKeys(c.Nodes.ByID) {
		nd.Defs = append(nd.Defs, c.Nodes.ByID[id])
	}

	return []protocol.CatalogMsg{
		catalogMsg("buildings", c.Buildings.Digest, b),
		catalogMsg("crops", c.Crops.Digest, cr),
		catalogMsg("animals", c.Animals.Digest, an),
		catalogMsg("nodes", c.Nodes.Digest, nd),
	}
}
