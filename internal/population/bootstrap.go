package population

import (
	"math/rand"

	"github.com/jihwankim/cdrgen/internal/config"
	"github.com/jihwankim/cdrgen/internal/distributions"
	"github.com/jihwankim/cdrgen/internal/seedmix"
)

// Bootstrap builds the full subscriber arena and cell catalog from cfg and
// seed, on a single thread, so every shard later sees byte-identical data.
func Bootstrap(cfg *config.Config, seed int64) *Population {
	n := cfg.Population.Subscribers
	subs := make([]Subscriber, n)

	f := fieldRNGs{
		msisdn:  rand.New(rand.NewSource(seedmix.Mix(seed, 1))),
		imsi:    rand.New(rand.NewSource(seedmix.Mix(seed, 2))),
		imei:    rand.New(rand.NewSource(seedmix.Mix(seed, 3))),
		mccmnc:  rand.New(rand.NewSource(seedmix.Mix(seed, 4))),
		contact: rand.New(rand.NewSource(seedmix.Mix(seed, 5))),
	}

	for i := 0; i < n; i++ {
		mccmnc := cfg.Population.MCCMNCs[f.mccmnc.Intn(len(cfg.Population.MCCMNCs))]
		subs[i] = Subscriber{
			MSISDN: GenMSISDN(f.msisdn, cfg.Population.Prefixes),
			IMSI:   GenIMSI(f.imsi, mccmnc),
			IMEI:   GenIMEI(f.imei),
			MCCMNC: mccmnc,
		}
	}

	k := cfg.Population.ContactPoolSize
	zipfWeights := distributions.ZipfWeights(k, cfg.Population.ZipfExponent)
	for i := 0; i < n; i++ {
		idxs := sampleDistinctOthers(f.contact, n, i, k)
		if len(idxs) == 0 {
			continue
		}
		w := zipfWeights[:len(idxs)]
		subs[i].ContactIdx = idxs
		subs[i].ContactWeights = w
		subs[i].ContactAlias = distributions.NewAliasTable(w)
	}

	cellRNG := rand.New(rand.NewSource(seedmix.Mix(seed, 6)))
	ratNames, ratWeights := distributions.SortedWeights(cfg.Cells.RATWeights)
	ratAlias := distributions.NewAliasTable(ratWeights)
	cells := GenerateCells(cellRNG, cfg.Cells.Count, cfg.Cells.CenterLat, cfg.Cells.CenterLon, cfg.Cells.RadiusKM, ratNames, ratAlias)

	return &Population{Subscribers: subs, Cells: cells}
}

// sampleDistinctOthers draws up to k distinct indices in [0,n) excluding
// self, uniformly at random; the caller assigns Zipf-decaying weights by
// the resulting order.
func sampleDistinctOthers(rng *rand.Rand, n, self, k int) []int {
	if n <= 1 {
		return nil
	}
	if k > n-1 {
		k = n - 1
	}
	if k <= 0 {
		return nil
	}
	chosen := make(map[int]bool, k)
	result := make([]int, 0, k)
	for len(result) < k {
		idx := rng.Intn(n)
		if idx == self || chosen[idx] {
			continue
		}
		chosen[idx] = true
		result = append(result, idx)
	}
	return result
}
