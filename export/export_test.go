package export

import "testing"

func TestCombinable(t *testing.T) {
	tests := []struct {
		fileName string
		want     bool
	}{
		{"part.glb", true},
		{"PART.GLB", true},
		{"part.gltf", false},
		{"part.glb.txt", false},
		{"", false},
	}

	for _, tt := range tests {
		f := FileReference{FileName: tt.fileName}
		if got := f.Combinable(); got != tt.want {
			t.Errorf("Combinable(%q) = %v, want %v", tt.fileName, got, tt.want)
		}
	}
}

func TestCombinableAssetCountCountsAssetsNotFiles(t *testing.T) {
	r := &Result{Assets: []Asset{
		{AssetID: "a1", Files: []FileReference{{FileName: "x.glb"}, {FileName: "y.glb"}}},
		{AssetID: "a2", Files: []FileReference{{FileName: "readme.txt"}}},
		{AssetID: "a3", Files: []FileReference{{FileName: "z.glb"}}},
		{AssetID: "a4"},
	}}

	if got := r.CombinableAssetCount(); got != 2 {
		t.Errorf("CombinableAssetCount = %d, want 2", got)
	}
}

func TestParseResult(t *testing.T) {
	data := []byte(`{
		"assets": [
			{"assetId": "a1", "assetName": "Chassis", "isRootLookupAsset": true,
			 "files": [{"fileName": "chassis.glb", "key": "a1/chassis.glb"}]}
		],
		"relationships": [
			{"parentAssetId": "a1", "childAssetId": "a2", "instanceAliasId": "left",
			 "metadata": {"Translation": {"x": 1, "y": 0, "z": 0}}}
		]
	}`)

	r, err := ParseResult(data)
	if err != nil {
		t.Fatalf("ParseResult: %v", err)
	}
	if len(r.Assets) != 1 || len(r.Relationships) != 1 {
		t.Fatalf("parsed %d assets, %d relationships", len(r.Assets), len(r.Relationships))
	}
	if r.Relationships[0].InstanceAliasID != "left" {
		t.Errorf("alias: got %q", r.Relationships[0].InstanceAliasID)
	}
	roots := r.RootAssets()
	if len(roots) != 1 || roots[0].AssetID != "a1" {
		t.Errorf("RootAssets: got %v", roots)
	}
}

func TestParseResultRejectsBadJSON(t *testing.T) {
	if _, err := ParseResult([]byte(`{"assets": [`)); err == nil {
		t.Error("expected parse error")
	}
}

func TestAssetByID(t *testing.T) {
	r := &Result{Assets: []Asset{{AssetID: "a1", AssetName: "Chassis"}}}

	a, ok := r.AssetByID("a1")
	if !ok || a.AssetName != "Chassis" {
		t.Errorf("AssetByID(a1) = %v, %v", a, ok)
	}
	if _, ok := r.AssetByID("missing"); ok {
		t.Error("AssetByID(missing) should not be found")
	}
}
