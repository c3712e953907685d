package blindbench

import (
	"bytes"
	"context"
	"sync"
	"testing"

	"github.com/ai8future/blindbench/cache"
	"github.com/ai8future/blindbench/store"
)

var benchKeys *DerivedKeys

func init() {
	// Low iteration count: these benchmarks measure the hot path, not PBKDF2.
	benchKeys, _ = DeriveKeys("bench", []byte("bench-salt"), Params{Iterations: 1000, HMACHash: HashSHA256})
}

// Crypto primitive benchmarks

func BenchmarkComputeToken(b *testing.B) {
	for i := 0; i < b.N; i++ {
		ComputeToken("ann.adler@example", benchKeys.Index)
	}
}

func BenchmarkEncrypt_1KB(b *testing.B) {
	data := bytes.Repeat([]byte("x"), 1024)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Encrypt(data, benchKeys.Enc)
	}
}

func BenchmarkDecrypt_1KB(b *testing.B) {
	data := bytes.Repeat([]byte("x"), 1024)
	ciphertext, iv, _ := Encrypt(data, benchKeys.Enc)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Decrypt(ciphertext, iv, benchKeys.Enc)
	}
}

func BenchmarkSealRecord(b *testing.B) {
	p := PersonRecord{ID: "r1", Name: "Ann Adler", Email: "ann.adler@example.com", City: "Berlin", Company: "Acme Labs"}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		SealRecord(p, benchKeys.Enc)
	}
}

func BenchmarkOpenRecord(b *testing.B) {
	p := PersonRecord{ID: "r1", Name: "Ann Adler", Email: "ann.adler@example.com", City: "Berlin", Company: "Acme Labs"}
	rec, _ := SealRecord(p, benchKeys.Enc)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		OpenRecord(rec, benchKeys.Enc)
	}
}

// Normalization benchmarks

func BenchmarkNormalize(b *testing.B) {
	for i := 0; i < b.N; i++ {
		Normalize("  Ann   ADLER  ")
	}
}

func BenchmarkPrefixes(b *testing.B) {
	for i := 0; i < b.N; i++ {
		Prefixes("ann.adler@example.com", MaxPrefixLen)
	}
}

// Mode benchmarks against a seeded in-memory dataset

var (
	benchStoreOnce sync.Once
	benchStore     *store.Memory
)

func benchRunner(b *testing.B) *Runner {
	benchStoreOnce.Do(func() {
		benchStore = store.NewMemory()
		people := GeneratePeople(1000, 1)
		if err := NewIndexer(benchKeys).Seed(context.Background(), benchStore, "bench", people); err != nil {
			panic(err)
		}
	})
	r, err := NewRunner(benchStore, cache.NewMemory(), benchKeys)
	if err != nil {
		b.Fatal(err)
	}
	return r
}

func BenchmarkRun_BlindIndex(b *testing.B) {
	r := benchRunner(b)
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := r.Run(ctx, ModeBlindIndex, "bench", "ann"); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkRun_DecryptScan(b *testing.B) {
	r := benchRunner(b)
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := r.Run(ctx, ModeDecryptScan, "bench", "ann"); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkRun_ClientCacheWarm(b *testing.B) {
	r := benchRunner(b)
	ctx := context.Background()
	if _, err := r.Run(ctx, ModeClientCache, "bench", "ann"); err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := r.Run(ctx, ModeClientCache, "bench", "ann"); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkRun_PlainIndex(b *testing.B) {
	r := benchRunner(b)
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := r.Run(ctx, ModePlainIndex, "bench", "ann"); err != nil {
			b.Fatal(err)
		}
	}
}
