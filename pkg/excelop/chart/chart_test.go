package chart

import (
	"bytes"
	"errors"
	"testing"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G'}

func TestRenderTypes(t *testing.T) {
	cfg := Config{
		Title:  "测试",
		Labels: []string{"一月", "二月", "三月"},
		Series: []Series{
			{Name: "收入", Values: []float64{10, 30, 20}},
			{Name: "支出", Values: []float64{5, 15, 25}},
		},
		Width:  800,
		Height: 600,
	}

	for _, typ := range []string{"bar", "column", "line", "pie", "scatter", "area"} {
		cfg.Type = typ
		png, err := Render(cfg)
		if err != nil {
			t.Errorf("Render(%s): %v", typ, err)
			continue
		}
		if !bytes.HasPrefix(png, pngHeader) {
			t.Errorf("Render(%s) did not produce a PNG", typ)
		}
	}
}

func TestRenderNoData(t *testing.T) {
	_, err := Render(Config{Type: "bar"})
	if !errors.Is(err, ErrNoData) {
		t.Errorf("expected ErrNoData, got %v", err)
	}
}

func TestRenderUnknownType(t *testing.T) {
	cfg := Config{
		Type:   "sunburst",
		Labels: []string{"a"},
		Series: []Series{{Name: "s", Values: []float64{1}}},
	}
	if _, err := Render(cfg); err == nil {
		t.Error("expected error for unknown chart type")
	}
}

func TestRenderPieDropsNonPositive(t *testing.T) {
	cfg := Config{
		Type:   "pie",
		Labels: []string{"a", "b", "c"},
		Series: []Series{{Name: "s", Values: []float64{10, 0, -5}}},
	}
	png, err := Render(cfg)
	if err != nil {
		t.Fatalf("Render(pie): %v", err)
	}
	if !bytes.HasPrefix(png, pngHeader) {
		t.Error("pie render did not produce a PNG")
	}
}
