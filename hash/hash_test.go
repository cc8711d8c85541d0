package hash

import (
	"testing"
)

// performance benchmark
func BenchmarkHash(b *testing.B) {
	n := uint32(0)
	s := uint32(0)
	for i := 0; i < b.N; i++ {
		n = Hash(n, s, uint32(i)|1)
		s++
	}
}

func BenchmarkString(b *testing.B) {
	for i := 0; i < b.N; i++ {
		String("scene_graph_0042/object_7", 0)
	}
}

// loop length test
func TestHash(t *testing.T) {
	const bound1 = 20
	const bound2 = 10000
	var count uint64
	for max := uint32(1); max <= 1<<bound1; max <<= 1 {
		var visited = make([]bool, max)
		var current uint32
		for s := uint32(0); s < bound2; s++ {
			current = Hash(current, s, max)
			if current >= max {
				t.Fatalf("Hash output %d not below max %d", current, max)
			}
			if current == 0 || visited[current] {
				visited = make([]bool, max)
				continue
			}
			visited[current] = true
			count++
		}
	}
	if count == 0 {
		t.Errorf("hash never produced a fresh value")
	}
}

func TestStringDistinguishes(t *testing.T) {
	var seen = make(map[uint32]string)
	for _, s := range []string{"", "a", "b", "ab", "ba", "red", "blue", "left", "right", "abcd", "abcde", "abce"} {
		h := String(s, 0)
		if prev, ok := seen[h]; ok {
			t.Errorf("String(%q) collides with String(%q)", s, prev)
		}
		seen[h] = s
	}
	if String("red", 1) == String("red", 2) {
		t.Errorf("salt does not affect String")
	}
}

func TestBucketRange(t *testing.T) {
	for _, max := range []uint32{1, 7, 13, 1 << 16} {
		for _, s := range []string{"x", "cube", "sphere", "behind"} {
			if b := Bucket(s, 3, max); b >= max {
				t.Errorf("Bucket(%q, %d) == %d", s, max, b)
			}
		}
	}
}

// sanity check fuzz
func FuzzHash(f *testing.F) {
	f.Add(uint32(0), uint32(0), uint32(0))
	f.Fuzz(func(t *testing.T, n, s, max uint32) {
		out := Hash(n, s, max)
		if max == 0 && out != 0 {
			t.Errorf("Hash(%d, %d, 0) == %d (max=0 should be 0)", n, s, out)
		}
		if max > 1 && out >= max {
			t.Errorf("Hash(%d, %d, %d) == %d (output bigger or equal than max)", n, s, max, out)
		}
	})
}

func FuzzBucket(f *testing.F) {
	f.Add("red", uint32(0), uint32(7))
	f.Fuzz(func(t *testing.T, s string, salt, max uint32) {
		if max > 0 && Bucket(s, salt, max) >= max {
			t.Errorf("Bucket(%q, %d, %d) out of range", s, salt, max)
		}
	})
}
