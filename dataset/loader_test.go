package dataset_test

import (
	"testing"

	"github.com/petalml/petal/dataset"
	"github.com/petalml/petal/preprocess"
)

func TestLoaderAppliesPreprocessors(t *testing.T) {
	root := t.TempDir()
	writeImageDir(t, root, []string{"daisy", "tulip"}, 3)

	paths, err := dataset.ListImages(root)
	if err != nil {
		t.Fatal(err)
	}
	loader := dataset.Loader{
		Preprocessors: []preprocess.Preprocessor{preprocess.AspectAware{Width: 16, Height: 16}},
	}
	data, labels, err := loader.Load(paths)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) != 6 || len(labels) != 6 {
		t.Fatalf("got %d samples and %d labels, want 6 of each", len(data), len(labels))
	}
	for i, d := range data {
		if len(d) != 3*16*16 {
			t.Fatalf("sample %d has %d values, want %d", i, len(d), 3*16*16)
		}
	}
	for _, l := range labels {
		if l != "daisy" && l != "tulip" {
			t.Fatalf("unexpected label %q", l)
		}
	}
}
