package completeness

import (
	"bytes"
	"image"
	"image/png"
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"

	"github.com/UnluckyForSome/artdex/internal/inventory"
)

func writePNG(t *testing.T, fsys billy.Filesystem, path string, width, height int) {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, width, height))); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	if err := util.WriteFile(fsys, path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestClassifyDimension(t *testing.T) {
	cat := inventory.CategoryLayout{
		Name: "3dbox",
		IdealDimensions: []inventory.Dimension{
			{Width: 1325, Height: 1200},
			{Width: 1227, Height: 1200},
		},
	}
	tests := []struct {
		width, height int
		want          DimensionClass
	}{
		{1325, 1200, DimensionIdeal},
		{1227, 1200, DimensionIdeal},
		{1200, 1200, DimensionSquare},
		{800, 800, DimensionSquare},
		{1325, 1201, DimensionOther},
		{640, 480, DimensionOther},
	}
	for _, tt := range tests {
		if got := ClassifyDimension(cat, tt.width, tt.height); got != tt.want {
			t.Errorf("ClassifyDimension(%dx%d) = %v, want %v", tt.width, tt.height, got, tt.want)
		}
	}
}

func TestAnalyzeCountsAndClasses(t *testing.T) {
	fsys := memfs.New()
	writePNG(t, fsys, "library/2dbox/Game A.png", 1200, 1200)
	writePNG(t, fsys, "library/2dbox/Game B.png", 1200, 1200)
	writePNG(t, fsys, "library/2dbox/Game C.png", 800, 800)
	writePNG(t, fsys, "library/2dbox-lq/Game D.png", 640, 480)
	inv := inventory.New(fsys, testLayout())

	analysis := NewAnalyzer(inv, StdReader{}).Analyze()
	if !analysis.Available {
		t.Fatal("analysis should be available")
	}

	variants := analysis.Categories["2dbox"]
	if len(variants) != 3 {
		t.Fatalf("2dbox variants = %d, want one entry per variant dir", len(variants))
	}

	full := variants[0]
	if full.Variant != inventory.VariantFull || full.Total != 3 {
		t.Fatalf("full variant = %+v", full)
	}
	if len(full.Counts) != 2 {
		t.Fatalf("full counts = %+v", full.Counts)
	}
	// Highest count first.
	if full.Counts[0].Width != 1200 || full.Counts[0].Count != 2 || full.Counts[0].Class != DimensionIdeal {
		t.Errorf("dominant count = %+v", full.Counts[0])
	}
	if full.Counts[1].Class != DimensionSquare {
		t.Errorf("800x800 class = %v", full.Counts[1].Class)
	}

	lq := variants[1]
	if lq.Total != 1 || lq.Counts[0].Class != DimensionOther {
		t.Errorf("lq variant = %+v", lq)
	}
}

func TestAnalyzeLandscapeCheck(t *testing.T) {
	fsys := memfs.New()
	// 4.2% taller than wide, past the threshold.
	writePNG(t, fsys, "library/2dbox/Tall Game.png", 1200, 1250)
	// 2.5% taller, within tolerance.
	writePNG(t, fsys, "library/2dbox/Near Square.png", 1200, 1230)
	// Same shape in a category without the check.
	writePNG(t, fsys, "library/disc/Tall Disc.png", 1200, 1250)
	inv := inventory.New(fsys, testLayout())

	analysis := NewAnalyzer(inv, StdReader{}).Analyze()

	full := analysis.Categories["2dbox"][0]
	if len(full.NonLandscape) != 1 || full.NonLandscape[0].Name != "Tall Game" {
		t.Errorf("non-landscape findings = %+v", full.NonLandscape)
	}
	for _, vd := range analysis.Categories["disc"] {
		if len(vd.NonLandscape) != 0 {
			t.Errorf("disc should not run the landscape check: %+v", vd.NonLandscape)
		}
	}
}

func TestAnalyzeSkipsAlternatesAndFlagsUnreadable(t *testing.T) {
	fsys := memfs.New()
	writePNG(t, fsys, "library/2dbox/Game A.png", 1200, 1200)
	writePNG(t, fsys, "library/2dbox/Game A alt.png", 640, 480)
	if err := util.WriteFile(fsys, "library/2dbox/Broken.png", []byte("not a png"), 0o644); err != nil {
		t.Fatal(err)
	}
	inv := inventory.New(fsys, testLayout())

	full := NewAnalyzer(inv, StdReader{}).Analyze().Categories["2dbox"][0]
	if full.Total != 1 {
		t.Errorf("total = %d, want alternates excluded", full.Total)
	}
	if len(full.Unreadable) != 1 || full.Unreadable[0] != "library/2dbox/Broken.png" {
		t.Errorf("unreadable = %v", full.Unreadable)
	}
}

func TestAnalyzeWithoutReaderDegrades(t *testing.T) {
	inv := inventory.New(memfs.New(), testLayout())
	analysis := NewAnalyzer(inv, nil).Analyze()
	if analysis.Available {
		t.Error("analysis should be unavailable without a reader")
	}
	if analysis.Categories != nil {
		t.Errorf("categories = %v", analysis.Categories)
	}
}
