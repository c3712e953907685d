package blindbench

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ai8future/blindbench/store"
)

func TestIndexer_RecordPrefixesDeduplicated(t *testing.T) {
	keys := testKeys(t, "pass")
	ix := NewIndexer(keys)

	// Name and email share the "ann" stem; shared prefixes appear once.
	p := PersonRecord{ID: "r1", Name: "Ann", Email: "anna@x.io"}
	prefixes := ix.recordPrefixes(p)

	seen := make(map[string]int)
	for _, prefix := range prefixes {
		seen[prefix]++
	}
	for prefix, count := range seen {
		assert.Equal(t, 1, count, "prefix %q duplicated", prefix)
	}
	assert.Contains(t, prefixes, "a")
	assert.Contains(t, prefixes, "an")
	assert.Contains(t, prefixes, "ann")
	assert.Contains(t, prefixes, "anna")     // email only
	assert.Contains(t, prefixes, "anna@x.i") // email beyond the name
}

func TestIndexer_Seed(t *testing.T) {
	keys := testKeys(t, "pass")
	st := store.NewMemory()
	ctx := context.Background()

	people := annAnnaBob()
	require.NoError(t, NewIndexer(keys).Seed(ctx, st, "persons", people))

	info, err := st.GetDataset(ctx, "persons")
	require.NoError(t, err)
	assert.Equal(t, len(people), info.Size)
	assert.False(t, info.UpdatedAt.IsZero())

	// Every record is retrievable and decryptable.
	for _, p := range people {
		recs, err := st.BatchGetRecords(ctx, "persons", []string{p.ID})
		require.NoError(t, err)
		require.Len(t, recs, 1)
		got, err := OpenRecord(recs[0], keys.Enc)
		require.NoError(t, err)
		assert.Equal(t, p, got)
	}

	// Token bucket and plaintext bucket agree for the same prefix.
	token := ComputeToken("an", keys.Index)
	tokenIDs, err := st.GetIndexBucket(ctx, "persons", token)
	require.NoError(t, err)
	plainIDs, err := st.GetPlainBucket(ctx, "persons", "an")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"r1", "r2"}, tokenIDs)
	assert.ElementsMatch(t, tokenIDs, plainIDs)

	// No bucket under the raw prefix: tokens are the only index keys.
	rawIDs, err := st.GetIndexBucket(ctx, "persons", "an")
	require.NoError(t, err)
	assert.Empty(t, rawIDs)
}

func TestIndexer_SeedBucketOrderFollowsInput(t *testing.T) {
	keys := testKeys(t, "pass")
	st := store.NewMemory()
	ctx := context.Background()

	people := []PersonRecord{
		{ID: "z9", Name: "Ann One", Email: "one@example.com"},
		{ID: "a1", Name: "Ann Two", Email: "two@example.com"},
		{ID: "m5", Name: "Ann Three", Email: "three@example.com"},
	}
	require.NoError(t, NewIndexer(keys).Seed(ctx, st, "persons", people))

	ids, err := st.GetIndexBucket(ctx, "persons", ComputeToken("ann", keys.Index))
	require.NoError(t, err)
	assert.Equal(t, []string{"z9", "a1", "m5"}, ids)
}

func TestGeneratePeople(t *testing.T) {
	people := GeneratePeople(50, 7)
	require.Len(t, people, 50)

	ids := make(map[string]bool)
	for _, p := range people {
		assert.NotEmpty(t, p.ID)
		assert.NotEmpty(t, p.Name)
		assert.Contains(t, p.Email, "@example.com")
		ids[p.ID] = true
	}
	assert.Len(t, ids, 50, "ids must be unique")

	// Same seed reproduces the same name sequence (ids differ).
	again := GeneratePeople(50, 7)
	for i := range people {
		assert.Equal(t, people[i].Name, again[i].Name)
		assert.NotEqual(t, people[i].ID, again[i].ID)
	}
}
