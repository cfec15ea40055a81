package shatter

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func benchField(b *testing.B, cfg Config) *Field {
	b.Helper()
	rig := newTestRig()
	host := rig.host(solidImage(320, 180, red))
	host.Visuals = nil
	f, err := NewField(cfg, host)
	if err != nil {
		b.Fatalf("NewField: %v", err)
	}
	return f
}

func BenchmarkCapture80x45(b *testing.B) {
	f := benchField(b, Config{ColumnCount: 80, RowCount: 45, Seed: 1, MovingMode: DivergeSpherical{Radius: 5}})
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := f.Capture(); err != nil {
			b.Fatal(err)
		}
		f.Reset()
	}
}

func BenchmarkUpdate80x45(b *testing.B) {
	f := benchField(b, Config{
		ColumnCount: 80,
		RowCount:    45,
		Seed:        1,
		Indexing:    IndexGrid,
		MovingMode:  Converge{Point: mgl64.Vec3{0, 0, 1e9}},
	})
	if err := f.Capture(); err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		f.Update(1.0 / 60)
	}
}
