package snapshot

import (
	"path/filepath"
	"reflect"
	"testing"
)

func TestWriteReadSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshots", "40.snap.zst")
	in := SnapshotV1{
		Header:    Header{Version: Version, WorldID: "town_1", Tick: 40},
		Seed:      7,
		TickRate:  20,
		RNGDraws:  123,
		Time:      2.5,
		Speed:     2,
		Resources: ResourcesV1{Wood: 15, Food: 20, Gold: 5, Workers: 1},
		Player:    PlayerV1{Name: "Mayor", Level: 2, Exp: 3},
		Workers: []WorkerV1{{
			ID:     "W1",
			Pos:    [3]float64{1, 0.7, 2},
			State:  "moving",
			HP:     75,
			Path:   [][3]float64{{3, 0.7, 3}},
			Target: "S3",
		}},
		Structures: []StructureV1{{ID: "S3", Kind: "foundation", Type: "farm", Size: [3]float64{4, 0.3, 4}, Price: map[string]int{"food": 10, "wood": 5}, Progress: 0.25}},
		PendingPaths: []PathRequestV1{{ID: 9, AgentID: "W1", Purpose: "BUILD", TargetID: "S3", End: [3]float64{3, 0.7, 3}}},
		Counters:     CountersV1{NextWorker: 1, NextStructure: 3, NextPath: 9},
	}
	if err := WriteSnapshot(path, in); err != nil {
		t.Fatalf("WriteSnapshot: %v", err)
	}
	out, err := ReadSnapshot(path)
	if err != nil {
		t.Fatalf("ReadSnapshot: %v", err)
	}
	if !reflect.DeepEqual(in, out) {
		t.Fatalf("round trip mismatch:\nin=%+v\nout=%+v", in, out)
	}
}

func TestReadSnapshotMissing(t *testing.T) {
	if _, err := ReadSnapshot(filepath.Join(t.TempDir(), "nope.snap.zst")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
