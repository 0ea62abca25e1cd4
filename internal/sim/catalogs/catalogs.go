package catalogs

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"slowtown.ai/internal/sim/world/logic/ledger"
)

type Catalogs struct {
	Buildings BuildingCatalog
	Crops     CropCatalog
	Animals   AnimalCatalog
	Nodes     NodeCatalog
}

type BuildingCatalog struct {
	Fallback    string
	UnlockOrder []string
	ByID        map[string]BuildingDef
	Digest      string
}

type BuildingDef struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Cost      map[string]int `json:"cost,omitempty"`
	Size      [3]float64     `json:"size"`
	CropSlots int            `json:"crop_slots,omitempty"`
	Walkable  bool           `json:"walkable,omitempty"`
	Starter   bool           `json:"starter,omitempty"`

	// Price is Cost converted at load time.
	Price ledger.Amounts `json:"-"`
}

type CropCatalog struct {
	UnlockOrder []string
	ByID        map[string]CropDef
	Digest      string
}

type CropDef struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	MatureSecs float64 `json:"mature_secs"`
}

type AnimalCatalog struct {
	UnlockOrder []string
	ByID        map[string]AnimalDef
	Digest      string
}

type AnimalDef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type NodeCatalog struct {
	ByID   map[string]NodeDef
	Fields []NodeField
	Digest string
}

type NodeDef struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Yields string `json:"yields"` // "wood","stone","gold","food"
	Tier   string `json:"tier"`   // "minor" (4+level) or "major" (9+level)
}

// NodeField scatters between Min and Max nodes of one kind within Radius of Center (x,z).
type NodeField struct {
	Node   string     `json:"node"`
	Center [2]float64 `json:"center"`
	Radius float64    `json:"radius"`
	Min    int        `json:"min"`
	Max    int        `json:"max"`
}

func Load(configDir string) (*Catalogs, error) {
	var c Catalogs

	if err := loadBuildings(filepath.Join(configDir, "buildings.json"), &c.Buildings); err != nil {
		return nil, err
	}
	if err := loadCrops(filepath.Join(configDir, "crops.json"), &c.Crops); err != nil {
		return nil, err
	}
	if err := loadAnimals(filepath.Join(configDir, "animals.json"), &c.Animals); err != nil {
		return nil, err
	}
	if err := loadNodes(filepath.Join(configDir, "nodes.json"), &c.Nodes); err != nil {
		return nil, err
	}
	return &c, nil
}

// Digests maps catalog names to the sha256 of their source files.
func (c *Catalogs) Digests() map[string]string {
	return map[string]string{
		"buildings": c.Buildings.Digest,
		"crops":     c.Crops.Digest,
		"animals":   c.Animals.Digest,
		"nodes":     c.Nodes.Digest,
	}
}

// Resolve returns the definition for id, falling back to the catalog fallback
// for unknown building types.
func (b BuildingCatalog) Resolve(id string) (BuildingDef, bool) {
	if d, ok := b.ByID[id]; ok {
		return d, true
	}
	d, ok := b.ByID[b.Fallback]
	return d, ok
}

func (b BuildingCatalog) SortedIDs() []string {
	ids := make([]string, 0, len(b.ByID))
	for id := range b.ByID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func sha256Hex(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

func checkOrder(file string, order []string, known func(string) bool) error {
	seen := map[string]bool{}
	for _, id := range order {
		if !known(id) {
			return fmt.Errorf("%s: unlock_order references unknown id %q", file, id)
		}
		if seen[id] {
			return fmt.Errorf("%s: duplicate unlock_order id %q", file, id)
		}
		seen[id] = true
	}
	return nil
}

func loadBuildings(path string, out *BuildingCatalog) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	out.Digest = sha256Hex(raw)

	var doc struct {
		Fallback    string        `json:"fallback"`
		UnlockOrder []string      `json:"unlock_order"`
		Defs        []BuildingDef `json:"defs"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("buildings.json: %w", err)
	}
	out.ByID = map[string]BuildingDef{}
	for _, d := range doc.Defs {
		if d.ID == "" {
			return fmt.Errorf("buildings.json: empty id")
		}
		if d.Size[0] <= 0 || d.Size[2] <= 0 {
			return fmt.Errorf("buildings.json: %s: size must be positive", d.ID)
		}
		price, err := ledger.FromMap(d.Cost)
		if err != nil {
			return fmt.Errorf("buildings.json: %s: %w", d.ID, err)
		}
		d.Price = price
		if d.Name == "" {
			d.Name = d.ID
		}
		out.ByID[d.ID] = d
	}
	if _, ok := out.ByID[doc.Fallback]; !ok {
		return fmt.Errorf("buildings.json: fallback %q is not defined", doc.Fallback)
	}
	if err := checkOrder("buildings.json", doc.UnlockOrder, func(id string) bool { _, ok := out.ByID[id]; return ok }); err != nil {
		return err
	}
	out.Fallback = doc.Fallback
	out.UnlockOrder = doc.UnlockOrder
	return nil
}

func loadCrops(path string, out *CropCatalog) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	out.Digest = sha256Hex(raw)

	var doc struct {
		UnlockOrder []string  `json:"unlock_order"`
		Defs        []CropDef `json:"defs"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("crops.json: %w", err)
	}
	out.ByID = map[string]CropDef{}
	for _, d := range doc.Defs {
		if d.ID == "" {
			return fmt.Errorf("crops.json: empty id")
		}
		if d.MatureSecs <= 0 {
			return fmt.Errorf("crops.json: %s: mature_secs must be > 0", d.ID)
		}
		if d.Name == "" {
			d.Name = d.ID
		}
		out.ByID[d.ID] = d
	}
	if err := checkOrder("crops.json", doc.UnlockOrder, func(id string) bool { _, ok := out.ByID[id]; return ok }); err != nil {
		return err
	}
	out.UnlockOrder = doc.UnlockOrder
	return nil
}

func loadAnimals(path string, out *AnimalCatalog) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	out.Digest = sha256Hex(raw)

	var doc struct {
		UnlockOrder []string    `json:"unlock_order"`
		Defs        []AnimalDef `json:"defs"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("animals.json: %w", err)
	}
	out.ByID = map[string]AnimalDef{}
	for _, d := range doc.Defs {
		if d.ID == "" {
			return fmt.Errorf("animals.json: empty id")
		}
		if d.Name == "" {
			d.Name = d.ID
		}
		out.ByID[d.ID] = d
	}
	if err := checkOrder("animals.json", doc.UnlockOrder, func(id string) bool { _, ok := out.ByID[id]; return ok }); err != nil {
		return err
	}
	out.UnlockOrder = doc.UnlockOrder
	return nil
}

func loadNodes(path string, out *NodeCatalog) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		// A world without gatherable nodes is valid.
		if os.IsNotExist(err) {
			out.Digest = sha256Hex(nil)
			out.ByID = map[string]NodeDef{}
			return nil
		}
		return err
	}
	out.Digest = sha256Hex(raw)

	var doc struct {
		Defs   []NodeDef   `json:"defs"`
		Fields []NodeField `json:"fields"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("nodes.json: %w", err)
	}
	out.ByID = map[string]NodeDef{}
	for _, d := range doc.Defs {
		if d.ID == "" {
			return fmt.Errorf("nodes.json: empty id")
		}
		switch d.Yields {
		case "wood", "stone", "gold", "food":
		default:
			return fmt.Errorf("nodes.json: %s: bad yields %q", d.ID, d.Yields)
		}
		if d.Tier != "minor" && d.Tier != "major" {
			return fmt.Errorf("nodes.json: %s: bad tier %q", d.ID, d.Tier)
		}
		if d.Name == "" {
			d.Name = d.ID
		}
		out.ByID[d.ID] = d
	}
	for _, f := range doc.Fields {
		if _, ok := out.ByID[f.Node]; !ok {
			return fmt.Errorf("nodes.json: field references unknown node %q", f.Node)
		}
		if f.Min < 0 || f.Max < f.Min {
			return fmt.Errorf("nodes.json: field %s: bad min/max", f.Node)
		}
	}
	out.Fields = doc.Fields
	return nil
}
