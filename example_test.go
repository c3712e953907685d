package blindbench_test

import (
	"context"
	"fmt"

	"github.com/ai8future/blindbench"
	"github.com/ai8future/blindbench/cache"
	"github.com/ai8future/blindbench/store"
)

func Example() {
	// Derive the record and index keys from a shared passphrase (in
	// production, load the passphrase from secure storage)
	keys, err := blindbench.DeriveKeys("correct horse battery staple", []byte("shared-salt"), blindbench.DefaultParams())
	if err != nil {
		panic(err)
	}

	// Seed an in-memory dataset: encrypted records plus the blind index
	ctx := context.Background()
	st := store.NewMemory()
	people := []blindbench.PersonRecord{
		{ID: "r1", Name: "Ann", Email: "ann@example.com"},
		{ID: "r2", Name: "Anna", Email: "anna@example.com"},
		{ID: "r3", Name: "Bob", Email: "bob@example.com"},
	}
	if err := blindbench.NewIndexer(keys).Seed(ctx, st, "persons", people); err != nil {
		panic(err)
	}

	// Look up by prefix without revealing it to the store
	runner, err := blindbench.NewRunner(st, cache.NewMemory(), keys)
	if err != nil {
		panic(err)
	}
	res, err := runner.Run(ctx, blindbench.ModeBlindIndex, "persons", "an")
	if err != nil {
		panic(err)
	}

	fmt.Println(res.ResultCount)
	// Output: 2
}

func Example_compareModes() {
	keys, _ := blindbench.DeriveKeys("correct horse battery staple", []byte("shared-salt"), blindbench.DefaultParams())

	ctx := context.Background()
	st := store.NewMemory()
	people := []blindbench.PersonRecord{
		{ID: "r1", Name: "Ann", Email: "ann@example.com"},
		{ID: "r2", Name: "Anna", Email: "anna@example.com"},
		{ID: "r3", Name: "Bob", Email: "bob@example.com"},
	}
	_ = blindbench.NewIndexer(keys).Seed(ctx, st, "persons", people)

	runner, _ := blindbench.NewRunner(st, cache.NewMemory(), keys)

	// All four modes against the same query, reported in canonical order.
	// Every mode agrees on the match count; only the latency profile differs.
	for _, mr := range runner.RunModes(ctx, "persons", "an") {
		fmt.Printf("%s: %d\n", mr.Mode, mr.Result.ResultCount)
	}

	// Output:
	// blind-index: 2
	// decrypt-scan: 2
	// client-cache: 2
	// plaintext-index: 2
}
