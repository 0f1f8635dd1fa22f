package cache

import (
	"context"
	"fmt"
	"testing"
)

func BenchmarkGet_Hit(b *testing.B) {
	c, _ := New[string, string](Config{Name: "bench"}, upperProvider)
	ctx := context.Background()
	_, _ = c.Get(ctx, "key")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = c.Get(ctx, "key")
	}
}

func BenchmarkGet_HitParallel(b *testing.B) {
	c, _ := New[string, string](Config{Name: "bench"}, upperProvider)
	ctx := context.Background()
	for i := 0; i < 64; i++ {
		_, _ = c.Get(ctx, fmt.Sprintf("key-%d", i))
	}

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			_, _ = c.Get(ctx, fmt.Sprintf("key-%d", i%64))
			i++
		}
	})
}

func BenchmarkGet_MissCompute(b *testing.B) {
	c, _ := New[string, string](Config{Name: "bench", Capacity: b.N + 1}, upperProvider)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = c.Get(ctx, fmt.Sprintf("key-%d", i))
	}
}

func BenchmarkSet(b *testing.B) {
	c, _ := New[string, string](Config{Name: "bench"}, nil)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = c.Set(fmt.Sprintf("key-%d", i%1024), "value")
	}
}
