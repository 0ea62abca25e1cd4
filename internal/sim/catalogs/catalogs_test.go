package catalogs

import (
	"os"
	"path/filepath"
	"testing"

	"slowtown.ai/internal/sim/world/logic/ledger"
)

func TestLoadRepoCatalogs(t *testing.T) {
	cats, err := Load("../../../configs")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	wall, ok := cats.Buildings.ByID["wall"]
	if !ok {
		t.Fatalf("missing wall")
	}
	if wall.Price != (ledger.Amounts{Food: 60, Wood: 15}) {
		t.Fatalf("wall price: %+v", wall.Price)
	}
	if got := cats.Buildings.UnlockOrder[0]; got != "farm" {
		t.Fatalf("first unlock: %q", got)
	}
	if d, _ := cats.Buildings.Resolve("pagoda"); d.ID != "castle" {
		t.Fatalf("unknown building should fall back to castle, got %q", d.ID)
	}
	if cats.Crops.ByID["watermelon"].MatureSecs != 15 {
		t.Fatalf("watermelon mature time: %+v", cats.Crops.ByID["watermelon"])
	}
	for name, d := range cats.Digests() {
		if len(d) != 64 {
			t.Fatalf("%s digest %q", name, d)
		}
	}
}

func TestLoadBuildingsRejectsUnknownUnlock(t *testing.T) {
	dir := t.TempDir()
	body := `{"fallback":"hut","unlock_order":["hut","tower"],"defs":[{"id":"hut","size":[1,1,1]}]}`
	if err := os.WriteFile(filepath.Join(dir, "buildings.json"), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	var b BuildingCatalog
	if err := loadBuildings(filepath.Join(dir, "buildings.json"), &b); err == nil {
		t.Fatalf("expected error for unknown unlock id")
	}
}

func TestLoadBuildingsRejectsUnknownResource(t *testing.T) {
	dir := t.TempDir()
	body := `{"fallback":"hut","defs":[{"id":"hut","size":[1,1,1],"cost":{"mana":3}}]}`
	if err := os.WriteFile(filepath.Join(dir, "buildings.json"), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	var b BuildingCatalog
	if err := loadBuildings(filepath.Join(dir, "buildings.json"), &b); err == nil {
		t.Fatalf("expected error for unknown resource")
	}
}
