package blindbench

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/google/uuid"
)

// Word lists for the sample dataset generator. Small on purpose so prefix
// buckets accumulate multiple records even at modest dataset sizes.
var (
	sampleFirstNames = []string{
		"Ann", "Anna", "Annette", "Bob", "Carla", "Chen", "Diego", "Elena",
		"Fatima", "Greg", "Hana", "Igor", "Julia", "Kofi", "Lena", "Marcus",
		"Nadia", "Omar", "Priya", "Quinn", "Rosa", "Sven", "Tara", "Umar",
		"Vera", "Wei", "Xenia", "Yara", "Zoe",
	}
	sampleLastNames = []string{
		"Adler", "Brandt", "Costa", "Dubois", "Eriksen", "Fischer", "Garcia",
		"Hoffman", "Ivanov", "Jensen", "Kim", "Lopez", "Meyer", "Novak",
		"Okafor", "Petrov", "Quist", "Rossi", "Schmidt", "Tanaka",
	}
	sampleCities = []string{
		"Berlin", "Lisbon", "Osaka", "Portland", "Prague", "Santiago",
		"Tallinn", "Toronto", "Utrecht", "Zagreb",
	}
	sampleCompanies = []string{
		"Acme Labs", "Borealis", "Cobalt Works", "Deltafold", "Everbright",
		"Foxglove", "Granite Peak", "Halcyon", "Ironwood", "Juniper Gate",
	}
)

// GeneratePeople produces n sample person records with uuid ids. The seed
// fixes the name/city/company draw so tests can reproduce a dataset shape;
// ids are fresh per call.
func GeneratePeople(n int, seed int64) []PersonRecord {
	rng := rand.New(rand.NewSource(seed))
	people := make([]PersonRecord, 0, n)
	for i := 0; i < n; i++ {
		first := sampleFirstNames[rng.Intn(len(sampleFirstNames))]
		last := sampleLastNames[rng.Intn(len(sampleLastNames))]
		people = append(people, PersonRecord{
			ID:      uuid.NewString(),
			Name:    first + " " + last,
			Email:   fmt.Sprintf("%s.%s%d@example.com", strings.ToLower(first), strings.ToLower(last), i),
			City:    sampleCities[rng.Intn(len(sampleCities))],
			Company: sampleCompanies[rng.Intn(len(sampleCompanies))],
		})
	}
	return people
}
