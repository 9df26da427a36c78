package sorting

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/hsaliak/lsgo/internal/config"
	"github.com/hsaliak/lsgo/internal/parallel"
	"github.com/hsaliak/lsgo/pkg/models"
	"github.com/stretchr/testify/assert"
)

var epoch = time.Unix(1_700_000_000, 0)

func entry(name string, size int64, age time.Duration) models.Entry {
	return models.Entry{
		Name: name,
		Path: "dir/" + name,
		Metadata: models.Metadata{
			Mode:       models.TypeRegular | 0o644,
			Size:       size,
			ModTime:    epoch.Add(-age),
			ChangeTime: epoch.Add(-2 * age),
		},
	}
}

func names(entries []models.Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name
	}
	return out
}

func sorted(opts *config.Options, in ...models.Entry) []string {
	entries := append([]models.Entry(nil), in...)
	NewComparator(opts).Sort(parallel.Sequential(), entries)
	return names(entries)
}

func TestSort_Name(t *testing.T) {
	in := []models.Entry{entry("B", 0, 0), entry("a", 0, 0), entry("C", 0, 0)}

	assert.Equal(t, []string{"a", "B", "C"},
		sorted(&config.Options{Sort: config.SortName}, in...))
	assert.Equal(t, []string{"C", "B", "a"},
		sorted(&config.Options{Sort: config.SortName, Reverse: true}, in...))
}

func TestSort_NameCaseCollision(t *testing.T) {
	in := []models.Entry{entry("a", 0, 0), entry("A", 0, 0)}

	assert.Equal(t, []string{"A", "a"}, sorted(&config.Options{Sort: config.SortName}, in...))
	assert.Equal(t, []string{"a", "A"}, sorted(&config.Options{Sort: config.SortName, Reverse: true}, in...))
}

func TestSort_SizeTieBreak(t *testing.T) {
	in := []models.Entry{entry("b", 0, 0), entry("a", 0, 0)}

	assert.Equal(t, []string{"a", "b"}, sorted(&config.Options{Sort: config.SortSize}, in...))
	// reverse flips the whole composite, not just the size key
	assert.Equal(t, []string{"b", "a"}, sorted(&config.Options{Sort: config.SortSize, Reverse: true}, in...))
}

func TestSort_SizeDescending(t *testing.T) {
	in := []models.Entry{entry("small", 10, 0), entry("big", 1000, 0), entry("mid", 100, 0), entry("also-mid", 100, 0)}

	assert.Equal(t, []string{"big", "also-mid", "mid", "small"},
		sorted(&config.Options{Sort: config.SortSize}, in...))
	assert.Equal(t, []string{"small", "mid", "also-mid", "big"},
		sorted(&config.Options{Sort: config.SortSize, Reverse: true}, in...))
}

func TestSort_Time(t *testing.T) {
	in := []models.Entry{
		entry("old", 0, 48*time.Hour),
		entry("new", 0, time.Minute),
		entry("b-same", 0, time.Hour),
		entry("a-same", 0, time.Hour),
	}

	assert.Equal(t, []string{"new", "a-same", "b-same", "old"},
		sorted(&config.Options{Sort: config.SortTime}, in...))
	assert.Equal(t, []string{"old", "b-same", "a-same", "new"},
		sorted(&config.Options{Sort: config.SortTime, Reverse: true}, in...))
}

func TestSort_TimeFieldChange(t *testing.T) {
	a := entry("a", 0, time.Hour)
	b := entry("b", 0, 2*time.Hour)
	// b has the newer change time despite the older modification time
	b.Metadata.ChangeTime = epoch

	assert.Equal(t, []string{"a", "b"}, sorted(&config.Options{Sort: config.SortTime}, a, b))
	assert.Equal(t, []string{"b", "a"}, sorted(&config.Options{Sort: config.SortTime, TimeField: config.TimeChange}, a, b))
}

func TestSort_Unsorted(t *testing.T) {
	in := []models.Entry{entry("z", 0, 0), entry("a", 0, 0), entry("m", 0, 0)}

	assert.Equal(t, []string{"z", "a", "m"}, sorted(&config.Options{Sort: config.SortUnsorted}, in...))
	assert.Equal(t, []string{"z", "a", "m"}, sorted(&config.Options{Sort: config.SortUnsorted, Reverse: true}, in...))
}

func TestCompare_TotalOrder(t *testing.T) {
	pool := []models.Entry{
		entry("a", 5, time.Hour), entry("A", 5, time.Hour), entry("b", 5, 0),
		entry("c", 1, 2*time.Hour), entry("B", 9, time.Hour), entry("c.txt", 1, time.Hour),
	}

	modes := []config.SortBy{config.SortName, config.SortTime, config.SortSize}
	for _, mode := range modes {
		for _, reverse := range []bool{false, true} {
			c := NewComparator(&config.Options{Sort: mode, Reverse: reverse})
			name := fmt.Sprintf("mode=%d reverse=%v", mode, reverse)

			for i := range pool {
				a := &pool[i]
				assert.Zero(t, c.Compare(a, a), "%s: irreflexive for %s", name, a.Name)

				for j := range pool {
					b := &pool[j]
					ab, ba := c.Compare(a, b), c.Compare(b, a)
					assert.Equal(t, sign(ab), -sign(ba), "%s: antisymmetric %s/%s", name, a.Name, b.Name)
					if i != j {
						assert.NotZero(t, ab, "%s: distinct entries %s/%s must not tie", name, a.Name, b.Name)
					}

					for k := range pool {
						cc := &pool[k]
						if ab < 0 && c.Compare(b, cc) < 0 {
							assert.Negative(t, c.Compare(a, cc), "%s: transitive %s<%s<%s", name, a.Name, b.Name, cc.Name)
						}
					}
				}
			}
		}
	}
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	}
	return 0
}

func TestSort_ParallelMatchesSequential(t *testing.T) {
	r := rand.New(rand.NewSource(42))

	for _, n := range []int{999, 1000, 1001, 3000} {
		in := make([]models.Entry, n)
		for i := range in {
			name := fmt.Sprintf("file-%04d", r.Intn(n))
			if r.Intn(2) == 0 {
				name = fmt.Sprintf("FILE-%04d", r.Intn(n))
			}
			in[i] = entry(name, int64(r.Intn(16)), time.Duration(r.Intn(8))*time.Hour)
		}

		for _, mode := range []config.SortBy{config.SortName, config.SortTime, config.SortSize} {
			for _, reverse := range []bool{false, true} {
				c := NewComparator(&config.Options{Sort: mode, Reverse: reverse})

				want := append([]models.Entry(nil), in...)
				c.Sort(parallel.Sequential(), want)

				got := append([]models.Entry(nil), in...)
				c.Sort(parallel.Strategy{Workers: 8, Threshold: parallel.DefaultThreshold}, got)

				if diff := cmp.Diff(names(want), names(got)); diff != "" {
					t.Errorf("n=%d mode=%d reverse=%v: (-sequential +parallel)\n%s", n, mode, reverse, diff)
				}
			}
		}
	}
}
